package quran

import (
	"fmt"
	"io"
	"strconv"

	"github.com/antchfx/xmlquery"

	qerrors "github.com/intersame/qurantagger/core/errors"
)

// LoadTanzilXML parses the Tanzil XML edition:
//
//	<quran>
//	  <sura index="1" name="الفاتحة">
//	    <aya index="1" text="..."/>
//	  </sura>
//	</quran>
func LoadTanzilXML(r io.Reader, source string) (*Corpus, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &qerrors.ParseError{Format: "Tanzil XML", Path: source, Message: "not well-formed", Err: err}
	}

	suras := xmlquery.Find(doc, "//sura")
	if len(suras) == 0 {
		return nil, qerrors.NewParse("Tanzil XML", source, "no sura elements")
	}

	var entries []VerseEntry
	for _, s := range suras {
		suraNo, err := strconv.Atoi(s.SelectAttr("index"))
		if err != nil {
			return nil, qerrors.NewParse("Tanzil XML", source, fmt.Sprintf("bad sura index %q", s.SelectAttr("index")))
		}
		for _, a := range xmlquery.Find(s, "aya") {
			verseNo, err := strconv.Atoi(a.SelectAttr("index"))
			if err != nil {
				return nil, qerrors.NewParse("Tanzil XML", source, fmt.Sprintf("sura %d: bad aya index %q", suraNo, a.SelectAttr("index")))
			}
			entries = append(entries, VerseEntry{
				Sura:  suraNo,
				Verse: verseNo,
				Text:  a.SelectAttr("text"),
			})
		}
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
