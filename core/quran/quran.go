// Package quran models the canonical Quran corpus used by the tagger.
//
// The corpus is the Tanzil plain-text edition tokenized into words, each word
// carrying its (sura, verse, word-in-verse) address and its archigraphemic
// normalization. A position (Pos) is a zero-based word offset in canonical
// recitation order; the Pos <-> Meta mapping is a bijection fixed at load
// time. Corpora are immutable once built and safe for concurrent readers.
package quran

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	qerrors "github.com/intersame/qurantagger/core/errors"
	"github.com/intersame/qurantagger/core/rasm"
)

// Meta is the canonical address of a Quran word: 1-based sura, verse and
// word-in-verse numbers.
type Meta struct {
	Sura  int `json:"sura"`
	Verse int `json:"verse"`
	Word  int `json:"word"`
}

func (m Meta) String() string {
	return fmt.Sprintf("%d:%d:%d", m.Sura, m.Verse, m.Word)
}

// less orders Meta in recitation order.
func (m Meta) less(o Meta) bool {
	if m.Sura != o.Sura {
		return m.Sura < o.Sura
	}
	if m.Verse != o.Verse {
		return m.Verse < o.Verse
	}
	return m.Word < o.Word
}

// Word is one corpus token with its address and normalized form.
type Word struct {
	Raw  string // surface form as it appears in the edition
	Norm string // archigraphemic normalization of Raw
	Meta Meta
}

// VerseEntry is one verse of input to the corpus builder.
type VerseEntry struct {
	Sura  int
	Verse int
	Text  string
}

// Corpus is the immutable word sequence of one Quran edition.
type Corpus struct {
	words     []Word
	checksum  string
	suraStart map[int]int // sura number -> first Pos
	suraEnd   map[int]int // sura number -> last Pos
}

// New builds a corpus from verse entries. Entries must be non-empty, in
// strict recitation order, with non-empty verse text; anything else is a
// build-time corpus error.
func New(entries []VerseEntry) (*Corpus, error) {
	if len(entries) == 0 {
		return nil, qerrors.NewCorpus("", "no verses")
	}

	c := &Corpus{
		suraStart: make(map[int]int),
		suraEnd:   make(map[int]int),
	}

	h := blake3.New()
	prev := Meta{}
	for _, e := range entries {
		if e.Sura < 1 || e.Verse < 1 {
			return nil, qerrors.NewCorpus("", fmt.Sprintf("invalid verse address %d:%d", e.Sura, e.Verse))
		}
		addr := Meta{Sura: e.Sura, Verse: e.Verse, Word: 1}
		if !prev.less(addr) {
			return nil, qerrors.NewCorpus("", fmt.Sprintf("verses out of order: %d:%d after %d:%d", e.Sura, e.Verse, prev.Sura, prev.Verse))
		}
		tokens := strings.Fields(e.Text)
		if len(tokens) == 0 {
			return nil, qerrors.NewCorpus("", fmt.Sprintf("empty verse %d:%d", e.Sura, e.Verse))
		}
		for i, tok := range tokens {
			meta := Meta{Sura: e.Sura, Verse: e.Verse, Word: i + 1}
			pos := len(c.words)
			c.words = append(c.words, Word{
				Raw:  tok,
				Norm: rasm.Normalize(tok),
				Meta: meta,
			})
			fmt.Fprintf(h, "%d|%d|%d|%s\n", meta.Sura, meta.Verse, meta.Word, tok)
			if _, ok := c.suraStart[e.Sura]; !ok {
				c.suraStart[e.Sura] = pos
			}
			c.suraEnd[e.Sura] = pos
			prev = meta
		}
	}

	sum := h.Sum(nil)
	c.checksum = hex.EncodeToString(sum)
	return c, nil
}

// Len returns the number of words in the corpus.
func (c *Corpus) Len() int { return len(c.words) }

// Word returns the word at pos. pos must be in [0, Len).
func (c *Corpus) Word(pos int) Word { return c.words[pos] }

// Raw returns the surface form at pos.
func (c *Corpus) Raw(pos int) string { return c.words[pos].Raw }

// Norm returns the normalized form at pos.
func (c *Corpus) Norm(pos int) string { return c.words[pos].Norm }

// Meta returns the canonical address of pos.
func (c *Corpus) Meta(pos int) Meta { return c.words[pos].Meta }

// Checksum returns the BLAKE3 checksum of the corpus token stream. Index
// snapshots record it and, at load, reject a word table that does not match
// it; a snapshot is not compared against any separately loaded corpus.
func (c *Corpus) Checksum() string { return c.checksum }

// PosOf resolves a canonical address back to its position.
func (c *Corpus) PosOf(m Meta) (int, bool) {
	i := sort.Search(len(c.words), func(i int) bool {
		return !c.words[i].Meta.less(m)
	})
	if i < len(c.words) && c.words[i].Meta == m {
		return i, true
	}
	return 0, false
}

// SuraSpan returns the first and last position of a sura.
func (c *Corpus) SuraSpan(sura int) (start, end int, ok bool) {
	start, ok = c.suraStart[sura]
	if !ok {
		return 0, 0, false
	}
	return start, c.suraEnd[sura], true
}

// VerseEnd returns the position of the last word in the verse containing pos.
func (c *Corpus) VerseEnd(pos int) int {
	m := c.words[pos].Meta
	for pos+1 < len(c.words) {
		next := c.words[pos+1].Meta
		if next.Sura != m.Sura || next.Verse != m.Verse {
			break
		}
		pos++
	}
	return pos
}

// SuraEnd returns the position of the last word in the sura containing pos.
func (c *Corpus) SuraEnd(pos int) int {
	return c.suraEnd[c.words[pos].Meta.Sura]
}

// LoadTanzil parses the Tanzil pipe-delimited plain-text edition:
// one "sura|verse|text" line per verse, '#' lines and blank lines ignored.
func LoadTanzil(r io.Reader, source string) (*Corpus, error) {
	var entries []VerseEntry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			return nil, qerrors.NewParse("Tanzil text", source, fmt.Sprintf("line %d: expected sura|verse|text", lineNo))
		}
		sura, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, qerrors.NewParse("Tanzil text", source, fmt.Sprintf("line %d: bad sura number %q", lineNo, parts[0]))
		}
		verse, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, qerrors.NewParse("Tanzil text", source, fmt.Sprintf("line %d: bad verse number %q", lineNo, parts[1]))
		}
		entries = append(entries, VerseEntry{Sura: sura, Verse: verse, Text: parts[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, &qerrors.CorpusError{Source: source, Message: "read failed", Err: err}
	}

	c, err := New(entries)
	if err != nil {
		var ce *qerrors.CorpusError
		if qerrors.As(err, &ce) && ce.Source == "" {
			ce.Source = source
		}
		return nil, err
	}
	return c, nil
}

// LoadFile loads a corpus from a file path. Supported formats:
// Tanzil plain text (.txt), xz-compressed Tanzil text (.txt.xz, .xz), and
// the Tanzil XML edition (.xml).
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &qerrors.CorpusError{Source: path, Message: "open failed", Err: err}
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, &qerrors.CorpusError{Source: path, Message: "xz reader", Err: err}
		}
		return LoadTanzil(xzr, path)
	case strings.HasSuffix(path, ".xml"):
		return LoadTanzilXML(f, path)
	default:
		return LoadTanzil(f, path)
	}
}
