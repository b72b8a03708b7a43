package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qtag.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Tagger.MinBlocks != 2 {
		t.Errorf("MinBlocks = %d; want 2", c.Tagger.MinBlocks)
	}
	if c.Tagger.Stopwords != "leeds" {
		t.Errorf("Stopwords = %q; want leeds", c.Tagger.Stopwords)
	}
	if c.Tagger.Ellipsis.Enabled {
		t.Error("ellipsis should be off by default")
	}
	if c.Tagger.Ellipsis.Window != 2 {
		t.Errorf("Window = %d; want 2", c.Tagger.Ellipsis.Window)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
corpus: /data/quran-simple.txt
tagger:
  minBlocks: 3
  stopwords: internal
  ellipsis:
    enabled: true
log:
  format: json
`)
	c, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Corpus != "/data/quran-simple.txt" {
		t.Errorf("Corpus = %q", c.Corpus)
	}
	if c.Tagger.MinBlocks != 3 {
		t.Errorf("MinBlocks = %d; want 3", c.Tagger.MinBlocks)
	}
	if c.Tagger.Stopwords != "internal" {
		t.Errorf("Stopwords = %q; want internal", c.Tagger.Stopwords)
	}
	if !c.Tagger.Ellipsis.Enabled {
		t.Error("ellipsis should be enabled")
	}
	// Unset fields keep their defaults.
	if c.Tagger.Ellipsis.Window != 2 {
		t.Errorf("Window = %d; want default 2", c.Tagger.Ellipsis.Window)
	}
	if c.Server.Addr != ":8791" {
		t.Errorf("Addr = %q; want default :8791", c.Server.Addr)
	}
	if c.Log.Format != "json" {
		t.Errorf("Format = %q; want json", c.Log.Format)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	if _, err := Load(missing, false); err != nil {
		t.Errorf("implicit missing config should fall back to defaults: %v", err)
	}
	if _, err := Load(missing, true); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "corpus: [unclosed"},
		{"bad min blocks", "tagger:\n  minBlocks: 0\n"},
		{"bad window", "tagger:\n  ellipsis:\n    window: -1\n"},
		{"bad stopwords", "tagger:\n  stopwords: bogus\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content), true); err == nil {
				t.Error("expected error")
			}
		})
	}
}
