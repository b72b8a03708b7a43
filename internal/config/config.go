// Package config loads the optional qtag.yaml configuration file.
//
// The file supplies defaults for the CLI and the server; explicit flags
// always win over file values. Absence of the file is not an error.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// DefaultFilename is looked up in the working directory when no explicit
// config path is given.
const DefaultFilename = "qtag.yaml"

// Config is the file schema.
type Config struct {
	// Corpus is the path to the Tanzil corpus (text, text.xz or XML).
	Corpus string `yaml:"corpus"`
	// Index is the path to a prebuilt index snapshot. When both Corpus
	// and Index are set, the snapshot wins.
	Index string `yaml:"index"`

	Tagger struct {
		// MinBlocks is the minimum matched-word count (default 2).
		MinBlocks int `yaml:"minBlocks"`
		// Stopwords selects the stopword list: leeds, internal, none.
		Stopwords string `yaml:"stopwords"`
		Ellipsis  struct {
			Enabled bool `yaml:"enabled"`
			Window  int  `yaml:"window"`
		} `yaml:"ellipsis"`
		// QuoteFormulas merges matches bridged by abbreviation formulae.
		QuoteFormulas bool `yaml:"quoteFormulas"`
	} `yaml:"tagger"`

	Log struct {
		// Level is one of debug, info, warn, error.
		Level string `yaml:"level"`
		// Format is text or json.
		Format string `yaml:"format"`
	} `yaml:"log"`

	Server struct {
		// Addr is the listen address for qtag serve (default :8791).
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Tagger.MinBlocks = 2
	c.Tagger.Stopwords = "leeds"
	c.Tagger.Ellipsis.Window = 2
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Server.Addr = ":8791"
	return c
}

// Load reads the config file at path on top of the defaults. A missing file
// with explicit=false falls back to the defaults silently.
func Load(path string, explicit bool) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return c, nil
		}
		return c, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Tagger.MinBlocks < 1 {
		return fmt.Errorf("tagger.minBlocks must be at least 1, got %d", c.Tagger.MinBlocks)
	}
	if c.Tagger.Ellipsis.Window < 1 {
		return fmt.Errorf("tagger.ellipsis.window must be at least 1, got %d", c.Tagger.Ellipsis.Window)
	}
	switch c.Tagger.Stopwords {
	case "leeds", "internal", "none":
	default:
		return fmt.Errorf("tagger.stopwords must be leeds, internal or none, got %q", c.Tagger.Stopwords)
	}
	return nil
}
