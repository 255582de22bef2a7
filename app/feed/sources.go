package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSources builds the source snapshot. The local list is read from a YAML
// file with a top-level "local" list, the national list from an OPML outline.
// Only a malformed local file is an error.
func LoadSources(localFile, opmlFile string) (Sources, error) {
	local, err := LoadLocalSources(localFile)
	if err != nil {
		return Sources{}, err
	}

	return Sources{
		Local:    local,
		National: LoadOPML(opmlFile),
	}, nil
}

func LoadLocalSources(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Local sources file not found, no local feeds configured", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local sources: %w", err)
	}

	var doc Sources
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	urls := cleanURLs(doc.Local)
	slog.Debug("Local sources loaded", "path", path, "count", len(urls))

	return urls, nil
}

// cleanURLs trims, drops empties and removes duplicates, keeping first order.
func cleanURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		cleaned = append(cleaned, u)
	}
	return cleaned
}
