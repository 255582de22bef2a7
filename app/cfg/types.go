package cfg

import "time"

type Cfg struct {
	// Storage
	DBPath string

	// Sources
	LocalSourcesFile string
	OPMLFile         string

	// Ingestion
	FetchInterval time.Duration
	FetchTimeout  time.Duration
	Keyword       string
	UserAgent     string

	// HTTP
	Port      string
	RateLimit float64
	RateBurst int

	// Application metadata
	LogFile  string
	Timezone string
	Debug    bool
	Version  string
}
