// Command qtag tags Quranic quotations in Arabic-script text.
//
// Tokens are read as a single JSON array of words from standard input or a
// file argument; matches are written as index tuples into the input and the
// Quran. The Quran corpus is loaded from a Tanzil edition or a prebuilt
// index snapshot.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/intersame/qurantagger/core/eval"
	"github.com/intersame/qurantagger/core/index"
	"github.com/intersame/qurantagger/core/quran"
	"github.com/intersame/qurantagger/core/ref"
	"github.com/intersame/qurantagger/core/sqlite"
	"github.com/intersame/qurantagger/core/stopwords"
	"github.com/intersame/qurantagger/core/tagger"
	"github.com/intersame/qurantagger/internal/config"
	"github.com/intersame/qurantagger/internal/logging"
	"github.com/intersame/qurantagger/internal/server"
	"github.com/intersame/qurantagger/internal/validation"
)

const version = "0.4.0"

// CLI defines the command-line interface for qtag.
var CLI struct {
	// Global flags
	Config    string `help:"Path to qtag.yaml configuration file" type:"path"`
	Corpus    string `help:"Path to Tanzil corpus (.txt, .txt.xz or .xml)" type:"path"`
	Index     string `help:"Path to prebuilt index snapshot" type:"path"`
	Quiet     bool   `short:"q" help:"Suppress warnings"`
	LogLevel  string `help:"Log level: debug, info, warn, error"`
	LogFormat string `help:"Log format: text, json"`

	Tag     TagCmd      `cmd:"" help:"Tag Quranic quotations in a token list"`
	Corpora CorpusGroup `cmd:"" name:"corpus" help:"Corpus and index snapshot operations"`
	Locate  LocateCmd   `cmd:"" help:"Resolve a Quranic reference to corpus positions"`
	Eval    EvalCmd     `cmd:"" help:"Evaluate tagged output against gold annotations"`
	Serve   ServeCmd    `cmd:"" help:"Serve the tagger over HTTP and WebSocket"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// CorpusGroup contains corpus lifecycle operations.
type CorpusGroup struct {
	Build CorpusBuildCmd `cmd:"" help:"Build an index snapshot from a Tanzil corpus"`
	Info  CorpusInfoCmd  `cmd:"" help:"Show statistics for a corpus or snapshot"`
}

// loadedConfig resolves the configuration file and applies global flags.
func loadedConfig() (config.Config, error) {
	path := CLI.Config
	explicit := path != ""
	if !explicit {
		path = config.DefaultFilename
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}
	if CLI.Corpus != "" {
		cfg.Corpus = CLI.Corpus
	}
	if CLI.Index != "" {
		cfg.Index = CLI.Index
	}
	if CLI.LogLevel != "" {
		cfg.Log.Level = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.Log.Format = CLI.LogFormat
	}
	logging.InitLogger(logging.ParseLevel(cfg.Log.Level), logging.ParseFormat(cfg.Log.Format))
	return cfg, nil
}

// loadIndex builds or loads the index per configuration. Snapshots win over
// corpus sources.
func loadIndex(cfg config.Config) (*index.Index, error) {
	if cfg.Index != "" {
		if err := validation.ValidatePath(cfg.Index); err != nil {
			return nil, fmt.Errorf("invalid index path: %w", err)
		}
		ix, err := index.LoadSnapshot(cfg.Index)
		if err != nil {
			return nil, err
		}
		logging.IndexBuilt(ix.Len(), ix.Bigrams(), ix.Postings(), "snapshot", cfg.Index)
		return ix, nil
	}
	if cfg.Corpus == "" {
		return nil, fmt.Errorf("no corpus configured: set --corpus, --index or qtag.yaml")
	}
	if err := validation.ValidatePath(cfg.Corpus); err != nil {
		return nil, fmt.Errorf("invalid corpus path: %w", err)
	}
	c, err := quran.LoadFile(cfg.Corpus)
	if err != nil {
		return nil, err
	}
	logging.CorpusLoaded(cfg.Corpus, c.Len(), c.Checksum())
	ix := index.Build(c)
	logging.IndexBuilt(ix.Len(), ix.Bigrams(), ix.Postings())
	return ix, nil
}

// taggerOptions maps config and flags onto engine options.
func taggerOptions(cfg config.Config, min int, ellipsis bool, window int, formulas bool, list string) (tagger.Options, error) {
	opts := tagger.Options{
		MinBlocks:      cfg.Tagger.MinBlocks,
		WithEllipsis:   cfg.Tagger.Ellipsis.Enabled,
		EllipsisWindow: cfg.Tagger.Ellipsis.Window,
		QuoteFormulas:  cfg.Tagger.QuoteFormulas,
	}
	if min > 0 {
		opts.MinBlocks = min
	}
	if ellipsis {
		opts.WithEllipsis = true
	}
	if window > 0 {
		opts.EllipsisWindow = window
	}
	if formulas {
		opts.QuoteFormulas = true
	}
	name := cfg.Tagger.Stopwords
	if list != "" {
		name = list
	}
	l, ok := stopwords.ParseList(name)
	if !ok {
		return opts, fmt.Errorf("unknown stopword list %q", name)
	}
	opts.Stopwords = stopwords.ForList(l)
	if !CLI.Quiet {
		opts.Warn = func(w tagger.Warning) {
			logging.OverlapConflict(w.QPosA, w.QPosB, w.Length)
		}
	}
	return opts, nil
}

// readTokens reads the serialized token array from a file or stdin.
func readTokens(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var tokens []string
	dec := json.NewDecoder(r)
	if err := dec.Decode(&tokens); err != nil {
		return nil, fmt.Errorf("input must be a JSON array of tokens: %w", err)
	}
	if err := validation.ValidateTokens(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// TagCmd tags a token list against the Quran.
type TagCmd struct {
	File      string `arg:"" optional:"" help:"File with a JSON array of tokens (default: stdin)" type:"existingfile"`
	Min       int    `name:"min" help:"Minimum number of matched words (default 2)"`
	Ellipsis  bool   `help:"Allow one bounded gap of non-Quranic words inside a match"`
	Window    int    `help:"Ellipsis window in words (default 2)"`
	Formulas  bool   `help:"Merge quotations abbreviated with ila qawlihi and similar formulae"`
	Stopwords string `help:"Stopword list: leeds, internal, none"`
	Gold      string `name:"gold" help:"Gold annotation directory for the evaluation harness" type:"path"`
	Format    string `enum:"text,json" default:"text" help:"Output format"`
}

func (c *TagCmd) Run() error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	tokens, err := readTokens(c.File)
	if err != nil {
		return err
	}
	ix, err := loadIndex(cfg)
	if err != nil {
		return err
	}
	opts, err := taggerOptions(cfg, c.Min, c.Ellipsis, c.Window, c.Formulas, c.Stopwords)
	if err != nil {
		return err
	}

	res, err := tagger.Tag(context.Background(), ix, tokens, opts)
	if err != nil {
		return err
	}

	if c.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		corpus := ix.Corpus()
		for _, m := range res.Matches {
			fmt.Printf("Found! ini_word=%d end_word=%d ini_quran=%d end_quran=%d\n",
				m.InputStart, m.InputEnd, m.QStart, m.QEnd)
			fmt.Printf("  quran_ini=%s quran_end=%s\n",
				corpus.Meta(m.QStart), corpus.Meta(m.QEnd))
		}
	}

	if c.Gold != "" {
		report, err := eval.EvaluateDir(c.Gold)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stderr, report.String())
	}
	return nil
}

// CorpusBuildCmd builds an index snapshot from a Tanzil corpus.
type CorpusBuildCmd struct {
	Out string `required:"" help:"Output snapshot path" type:"path"`
}

func (c *CorpusBuildCmd) Run() error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	if cfg.Corpus == "" {
		return fmt.Errorf("no corpus configured: set --corpus or qtag.yaml")
	}
	corpus, err := quran.LoadFile(cfg.Corpus)
	if err != nil {
		return err
	}
	logging.CorpusLoaded(cfg.Corpus, corpus.Len(), corpus.Checksum())

	ix := index.Build(corpus)
	logging.IndexBuilt(ix.Len(), ix.Bigrams(), ix.Postings())

	if err := index.SaveSnapshot(c.Out, ix); err != nil {
		return err
	}
	fmt.Printf("snapshot written to %s (%d words, %d bigrams)\n", c.Out, ix.Len(), ix.Bigrams())
	return nil
}

// CorpusInfoCmd prints statistics for the configured corpus or snapshot.
type CorpusInfoCmd struct{}

func (c *CorpusInfoCmd) Run() error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	ix, err := loadIndex(cfg)
	if err != nil {
		return err
	}
	corpus := ix.Corpus()
	fmt.Printf("words    = %d\n", ix.Len())
	fmt.Printf("bigrams  = %d\n", ix.Bigrams())
	fmt.Printf("postings = %d\n", ix.Postings())
	fmt.Printf("checksum = %s\n", corpus.Checksum())
	fmt.Printf("first    = %s\n", corpus.Meta(0))
	fmt.Printf("last     = %s\n", corpus.Meta(corpus.Len()-1))
	return nil
}

// LocateCmd resolves a reference like "2:255" or "الفاتحة 1-3".
type LocateCmd struct {
	Ref string `arg:"" help:"Quranic reference (sura:verse, range, or Arabic sura name)"`
}

func (c *LocateCmd) Run() error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	r, err := ref.Parse(c.Ref)
	if err != nil {
		return err
	}
	ix, err := loadIndex(cfg)
	if err != nil {
		return err
	}
	corpus := ix.Corpus()
	start, end, err := r.Resolve(corpus)
	if err != nil {
		return err
	}

	fmt.Printf("%s -> qpos %d..%d (%s .. %s)\n", r, start, end, corpus.Meta(start), corpus.Meta(end))
	var words []string
	for pos := start; pos <= end; pos++ {
		words = append(words, corpus.Raw(pos))
	}
	fmt.Println(strings.Join(words, " "))
	return nil
}

// EvalCmd runs the evaluation harness over a directory of gold/tagged pairs.
type EvalCmd struct {
	Dir string `arg:"" help:"Directory with <name>.gold.xml and <name>.tagged.xml pairs" type:"existingdir"`
}

func (c *EvalCmd) Run() error {
	if _, err := loadedConfig(); err != nil {
		return err
	}
	report, err := eval.EvaluateDir(c.Dir)
	if err != nil {
		return err
	}
	fmt.Print(report.String())
	return nil
}

// ServeCmd starts the HTTP/WebSocket tagging service.
type ServeCmd struct {
	Addr string `help:"Listen address (default from config, :8791)"`
}

func (c *ServeCmd) Run() error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	ix, err := loadIndex(cfg)
	if err != nil {
		return err
	}
	opts, err := taggerOptions(cfg, 0, false, 0, false, "")
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}
	return server.New(ix, opts).ListenAndServe(addr)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("qtag %s (sqlite driver: %s)\n", version, sqlite.DriverType())
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("qtag"),
		kong.Description("Tag Quranic quotations in Arabic-script text."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
