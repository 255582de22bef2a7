package feed

import (
	"os"
	"path/filepath"
	"testing"
)

const testOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>Ulusal</title></head>
  <body>
    <outline text="Gazeteler">
      <outline text="A" type="rss" xmlUrl="https://a.example.com/rss"/>
      <outline text="B" type="rss" xmlUrl=" https://b.example.com/rss "/>
    </outline>
    <outline text="C" type="rss" xmlUrl="https://c.example.com/rss"/>
    <outline text="A again" type="rss" xmlUrl="https://a.example.com/rss"/>
    <outline text="No feed"/>
  </body>
</opml>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseOPML(t *testing.T) {
	urls, err := ParseOPML([]byte(testOPML))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{"https://a.example.com/rss", "https://b.example.com/rss", "https://c.example.com/rss"}
	if len(urls) != len(expected) {
		t.Fatalf("Expected %d urls, got %d: %v", len(expected), len(urls), urls)
	}
	for i := range expected {
		if urls[i] != expected[i] {
			t.Errorf("Expected url %d to be %s, got %s", i, expected[i], urls[i])
		}
	}
}

func TestLoadOPMLMalformedOrMissing(t *testing.T) {
	tempDir := t.TempDir()

	if urls := LoadOPML(filepath.Join(tempDir, "missing.opml")); len(urls) != 0 {
		t.Errorf("Expected empty list for missing file, got %v", urls)
	}

	broken := writeFile(t, tempDir, "broken.opml", "<opml><body><outline xmlUrl=")
	if urls := LoadOPML(broken); len(urls) != 0 {
		t.Errorf("Expected empty list for malformed file, got %v", urls)
	}
}

func TestLoadSources(t *testing.T) {
	tempDir := t.TempDir()

	local := writeFile(t, tempDir, "sources.yml", `
local:
  - https://www.samsunhaber.com/rss
  - "  https://www.kenthaber.com/rss  "
  - ""
  - https://www.samsunhaber.com/rss
`)
	opml := writeFile(t, tempDir, "rss.opml", testOPML)

	sources, err := LoadSources(local, opml)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(sources.Local) != 2 {
		t.Errorf("Expected 2 local sources, got %d: %v", len(sources.Local), sources.Local)
	}
	if sources.Local[1] != "https://www.kenthaber.com/rss" {
		t.Errorf("Expected trimmed url, got %q", sources.Local[1])
	}
	if len(sources.National) != 3 {
		t.Errorf("Expected 3 national sources, got %d", len(sources.National))
	}
	if sources.Count() != 5 {
		t.Errorf("Expected 5 sources in total, got %d", sources.Count())
	}
}

func TestLoadSourcesMissingLocalFile(t *testing.T) {
	tempDir := t.TempDir()

	sources, err := LoadSources(filepath.Join(tempDir, "none.yml"), filepath.Join(tempDir, "none.opml"))
	if err != nil {
		t.Fatalf("Expected no error for missing files, got: %v", err)
	}
	if sources.Count() != 0 {
		t.Errorf("Expected no sources, got %d", sources.Count())
	}
}

func TestLoadSourcesInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	local := writeFile(t, tempDir, "sources.yml", "local: [unclosed")

	if _, err := LoadSources(local, filepath.Join(tempDir, "none.opml")); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
