// Package ref parses Quranic references into verse ranges.
//
// Supported forms:
//   - "2:255"            single verse
//   - "2:255-257"        verse range within a sura
//   - "2:285-3:2"        range across suras
//   - "112"              whole sura
//   - "الفاتحة"           whole sura by Arabic name
//   - "سورة البقرة 255"   verse within a named sura
//   - "الفاتحة 1-3"       verse range within a named sura
//
// Arabic-Indic digits are accepted anywhere ASCII digits are.
package ref

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	qerrors "github.com/intersame/qurantagger/core/errors"
	"github.com/intersame/qurantagger/core/quran"
)

// Range is a parsed reference. A zero StartVerse means the range starts at
// the beginning of StartSura; a zero EndVerse means it runs to the end of
// EndSura.
type Range struct {
	StartSura  int
	StartVerse int
	EndSura    int
	EndVerse   int
}

func (r Range) String() string {
	switch {
	case r.StartVerse == 0 && r.EndVerse == 0 && r.StartSura == r.EndSura:
		return fmt.Sprintf("%d", r.StartSura)
	case r.StartSura == r.EndSura && r.StartVerse == r.EndVerse:
		return fmt.Sprintf("%d:%d", r.StartSura, r.StartVerse)
	case r.StartSura == r.EndSura:
		return fmt.Sprintf("%d:%d-%d", r.StartSura, r.StartVerse, r.EndVerse)
	default:
		return fmt.Sprintf("%d:%d-%d:%d", r.StartSura, r.StartVerse, r.EndSura, r.EndVerse)
	}
}

// rawRef is the participle grammar for the numeric reference forms.
type rawRef struct {
	Sura       int  `@Number`
	VerseStart *int `( ":" @Number`
	EndA       *int `  ( "-" @Number`
	EndB       *int `    ( ":" @Number )? )? )?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `\d+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[rawRef](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a reference string, resolving Arabic sura names through the
// canonical name table.
func Parse(input string) (Range, error) {
	s := strings.TrimSpace(asciiDigits(input))
	if s == "" {
		return Range{}, qerrors.NewParse("reference", "", "empty reference")
	}

	if !startsWithDigit(s) {
		var err error
		s, err = resolveName(s)
		if err != nil {
			return Range{}, err
		}
	}

	raw, err := refParser.ParseString("", s)
	if err != nil {
		return Range{}, &qerrors.ParseError{Format: "reference", Message: input, Err: err}
	}
	return raw.toRange(input)
}

func (raw *rawRef) toRange(input string) (Range, error) {
	r := Range{StartSura: raw.Sura, EndSura: raw.Sura}
	if raw.VerseStart != nil {
		r.StartVerse = *raw.VerseStart
		r.EndVerse = *raw.VerseStart
	}
	if raw.EndA != nil {
		if raw.EndB != nil {
			// "s:v-s2:v2"
			r.EndSura = *raw.EndA
			r.EndVerse = *raw.EndB
		} else {
			// "s:v-v2"
			r.EndVerse = *raw.EndA
		}
	}
	if err := r.check(input); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r Range) check(input string) error {
	if r.StartSura < 1 || r.StartSura > 114 || r.EndSura < 1 || r.EndSura > 114 {
		return qerrors.NewParse("reference", "", fmt.Sprintf("%s: sura number out of range", input))
	}
	if r.EndSura < r.StartSura {
		return qerrors.NewParse("reference", "", fmt.Sprintf("%s: range runs backwards", input))
	}
	if r.StartSura == r.EndSura && r.EndVerse != 0 && r.StartVerse != 0 && r.EndVerse < r.StartVerse {
		return qerrors.NewParse("reference", "", fmt.Sprintf("%s: verse range runs backwards", input))
	}
	return nil
}

// resolveName rewrites a name-prefixed reference into its numeric form.
// The name may be preceded by "سورة" and may be one or two words long.
func resolveName(s string) (string, error) {
	fields := strings.Fields(s)
	if w := fields[0]; w == "سورة" || w == "سُورَة" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return "", qerrors.NewParse("reference", "", s)
	}

	// Longest name first: two-word names like "آل عمران" shadow one-word
	// prefixes.
	for take := min(2, len(fields)); take >= 1; take-- {
		if startsWithDigit(fields[take-1]) {
			continue
		}
		name := strings.Join(fields[:take], " ")
		if n, ok := quran.SuraByName(name); ok {
			rest := strings.Join(fields[take:], " ")
			if rest == "" {
				return fmt.Sprintf("%d", n), nil
			}
			return fmt.Sprintf("%d:%s", n, rest), nil
		}
	}
	return "", qerrors.NewNotFound("sura", strings.Join(fields, " "))
}

// Resolve maps the range to inclusive corpus positions.
func (r Range) Resolve(c *quran.Corpus) (startPos, endPos int, err error) {
	startVerse := r.StartVerse
	if startVerse == 0 {
		startVerse = 1
	}
	startPos, ok := c.PosOf(quran.Meta{Sura: r.StartSura, Verse: startVerse, Word: 1})
	if !ok {
		return 0, 0, qerrors.NewNotFound("verse", fmt.Sprintf("%d:%d", r.StartSura, startVerse))
	}

	if r.EndVerse == 0 {
		_, endPos, ok = c.SuraSpan(r.EndSura)
		if !ok {
			return 0, 0, qerrors.NewNotFound("sura", fmt.Sprint(r.EndSura))
		}
		return startPos, endPos, nil
	}

	endStart, ok := c.PosOf(quran.Meta{Sura: r.EndSura, Verse: r.EndVerse, Word: 1})
	if !ok {
		return 0, 0, qerrors.NewNotFound("verse", fmt.Sprintf("%d:%d", r.EndSura, r.EndVerse))
	}
	return startPos, c.VerseEnd(endStart), nil
}

func startsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// asciiDigits folds Arabic-Indic and extended Arabic-Indic digits to ASCII.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		}
		return r
	}, s)
}
