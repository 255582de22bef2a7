package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage
	DBPath string `long:"db-path" env:"DB_PATH" default:"./articles.db" description:"SQLite database file"`

	// Sources
	LocalSourcesFile string `long:"local-sources" env:"LOCAL_SOURCES" default:"./sources.yml" description:"YAML file with the local feed list"`
	OPMLFile         string `long:"opml" env:"OPML_FILE" default:"./rss.opml" description:"OPML outline with the national feed list"`

	// Ingestion
	FetchInterval time.Duration `long:"fetch-interval" env:"FETCH_INTERVAL" default:"60s" description:"Delay between the end of one fetch pass and the start of the next"`
	FetchTimeout  time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30s" description:"Timeout for a single feed request"`
	Keyword       string        `long:"keyword" env:"KEYWORD" default:"samsun" description:"Keyword required in national entries"`
	UserAgent     string        `long:"user-agent" env:"USER_AGENT" default:"SamsunRSSBot/2.0 (+https://example.local)" description:"User agent string for feed requests"`

	// HTTP
	Port      string  `long:"port" env:"PORT" default:"8000" description:"HTTP server port"`
	RateLimit float64 `long:"rate-limit" env:"RATE_LIMIT" default:"10" description:"Requests per second per client on read routes (0 disables)"`
	RateBurst int     `long:"rate-burst" env:"RATE_BURST" default:"20" description:"Burst size for the per-client rate limit"`

	// Application metadata
	LogFile  string `long:"log-file" env:"LOG_FILE" description:"Also write logs to this file, rotated"`
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Istanbul)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses args instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:           raw.DBPath,
		LocalSourcesFile: raw.LocalSourcesFile,
		OPMLFile:         raw.OPMLFile,
		FetchInterval:    raw.FetchInterval,
		FetchTimeout:     raw.FetchTimeout,
		Keyword:          strings.TrimSpace(raw.Keyword),
		UserAgent:        raw.UserAgent,
		Port:             raw.Port,
		RateLimit:        raw.RateLimit,
		RateBurst:        raw.RateBurst,
		LogFile:          raw.LogFile,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if cfg.FetchInterval <= 0 {
		return fmt.Errorf("fetch interval must be positive, got %s", cfg.FetchInterval)
	}
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", cfg.FetchTimeout)
	}
	if cfg.Keyword == "" {
		return fmt.Errorf("keyword is required")
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return fmt.Errorf("rate limit and burst must be non-negative")
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
