package tagger

import (
	"github.com/intersame/qurantagger/core/index"
	"github.com/intersame/qurantagger/core/rasm"
)

// Classical abbreviation formulae cut a long quotation short: the text quotes
// the opening words, writes "ilā qawlihi" (up to His words) or "ilā ākhirihā"
// (to its end), and resumes with the closing words. When QuoteFormulas is on,
// two matches bridged by such a formula, in Quran order within one sura, are
// merged into a single annotated span.
//
// The vocabulary is matched on normalized forms so that spelling variation in
// the formula itself does not matter.
var (
	fIla     = rasm.Normalize("إلى")
	fHatta   = rasm.Normalize("حتى")
	fAn      = rasm.Normalize("أن")
	fQawlihi = rasm.Normalize("قوله")
	fQawl    = rasm.Normalize("قول")
	fAkhir   = rasm.Normalize("آخر")
	fAkhirha = rasm.Normalize("آخرها")
	fAlAya   = rasm.Normalize("الآية")
	fAlSura  = rasm.Normalize("السورة")
	fSura    = rasm.Normalize("سورة")

	speechVerbs = normSet("قال", "قالت", "قرأ", "قرأت")
	godEpithets = normSet("تعالى", "سبحانه", "عز", "وجل", "تبارك", "الله", "وتعالى")
)

func normSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[rasm.Normalize(w)] = true
	}
	return m
}

// matchFormula reports whether the normalized forms span[0:] form a complete
// abbreviation formula, and which kind. Every non-empty form in the span must
// be consumed; trailing prose disqualifies the span.
func matchFormula(span []string) (string, bool) {
	// Punctuation-only tokens inside the formula are transparent.
	forms := make([]string, 0, len(span))
	for _, nf := range span {
		if nf != "" {
			forms = append(forms, nf)
		}
	}
	if len(forms) == 0 {
		return "", false
	}

	switch forms[0] {
	case fIla:
		rest := forms[1:]
		if len(rest) == 0 {
			return "", false
		}
		switch rest[0] {
		case fQawlihi, fQawl:
			if allEpithets(rest[1:]) {
				return "ila qawlihi", true
			}
		case fAkhirha:
			if len(rest) == 1 {
				return "ila akhiriha", true
			}
		case fAkhir:
			return matchAkhirTail(rest[1:])
		}
	case fHatta:
		rest := forms[1:]
		if len(rest) > 0 && rest[0] == fAn {
			rest = rest[1:]
		}
		if len(rest) > 0 && speechVerbs[rest[0]] && allEpithets(rest[1:]) {
			return "hatta qala", true
		}
	}
	return "", false
}

// matchAkhirTail handles what may follow "ilā ākhir": nothing, al-āya,
// al-sūra, or "sūrat <name>".
func matchAkhirTail(rest []string) (string, bool) {
	switch len(rest) {
	case 0:
		return "ila akhir", true
	case 1:
		if rest[0] == fAlAya {
			return "ila akhir al-aya", true
		}
		if rest[0] == fAlSura {
			return "ila akhir al-sura", true
		}
	case 2:
		// "sūrat X": the name token is free-form.
		if rest[0] == fSura {
			return "ila akhir al-sura", true
		}
	}
	return "", false
}

func allEpithets(forms []string) bool {
	for _, nf := range forms {
		if !godEpithets[nf] {
			return false
		}
	}
	return true
}

// mergeFormulaQuotes folds accepted matches bridged by an abbreviation
// formula into single spans. Merging chains: a merged span may merge again
// with the next match.
func mergeFormulaQuotes(ix *index.Index, norms []string, matches []Match) []Match {
	if len(matches) < 2 {
		return matches
	}
	corpus := ix.Corpus()

	out := make([]Match, 0, len(matches))
	cur := matches[0]
	for _, next := range matches[1:] {
		gapStart, gapEnd := cur.InputEnd+1, next.InputStart-1
		if gapStart > gapEnd {
			out = append(out, cur)
			cur = next
			continue
		}
		kind, ok := matchFormula(norms[gapStart : gapEnd+1])
		if !ok ||
			next.QStart <= cur.QEnd ||
			corpus.Meta(cur.QEnd).Sura != corpus.Meta(next.QStart).Sura {
			out = append(out, cur)
			cur = next
			continue
		}
		merged := Match{
			InputStart: cur.InputStart,
			InputEnd:   next.InputEnd,
			QStart:     cur.QStart,
			QEnd:       next.QEnd,
			Length:     cur.Length + next.Length,
			Formula:    kind,
		}
		merged.Gaps = append(merged.Gaps, cur.Gaps...)
		merged.Gaps = append(merged.Gaps, Gap{Start: gapStart, End: gapEnd})
		merged.Gaps = append(merged.Gaps, next.Gaps...)
		cur = merged
	}
	out = append(out, cur)
	return out
}
