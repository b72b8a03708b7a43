// Package tagger identifies Quranic quotations in Arabic-script text.
//
// The engine seeds candidate matches from an inverted bigram index, extends
// each seed in both directions while input and Quran words agree under
// archigraphemic normalization, optionally tolerates a short ellipsis of
// non-Quranic filler, and reconciles overlapping candidates by longest-length
// preference. Tagging is a pure function of its inputs: identical token
// sequences against the same index produce identical matches and warnings.
package tagger

import (
	"context"
	"fmt"
	"sort"

	qerrors "github.com/intersame/qurantagger/core/errors"
	"github.com/intersame/qurantagger/core/index"
	"github.com/intersame/qurantagger/core/rasm"
	"github.com/intersame/qurantagger/core/stopwords"
)

// DefaultMinBlocks is the minimum matched-word count accepted by default.
const DefaultMinBlocks = 2

// DefaultEllipsisWindow is how far ahead the ellipsis handler looks for
// matching to resume, in input words.
const DefaultEllipsisWindow = 2

// Gap is a run of input words skipped inside a match, inclusive on both ends.
type Gap struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Match is one identified quotation. Input and Quran bounds are inclusive.
// Length counts matched input words; ellipsis gap words are excluded.
type Match struct {
	InputStart int    `json:"input_start"`
	InputEnd   int    `json:"input_end"`
	QStart     int    `json:"qpos_start"`
	QEnd       int    `json:"qpos_end"`
	Length     int    `json:"length"`
	Gaps       []Gap  `json:"gaps,omitempty"`
	Formula    string `json:"formula,omitempty"`
}

// Warning reports two overlapping candidates of equal length. Neither is
// emitted: dropping the pair preserves precision over arbitrary tie-breaking.
type Warning struct {
	QPosA  int `json:"qpos_a"`
	QPosB  int `json:"qpos_b"`
	StartA int `json:"input_start_a"`
	StartB int `json:"input_start_b"`
	Length int `json:"length"`
}

func (w Warning) String() string {
	return fmt.Sprintf("overlapping quotations of equal length %d: input %d (q%d) vs input %d (q%d)",
		w.Length, w.StartA, w.QPosA, w.StartB, w.QPosB)
}

// Options configures one tagging call. The zero value gets the shipped
// defaults: MinBlocks 2, Leeds stopwords, no ellipsis.
type Options struct {
	// MinBlocks is the minimum number of matched input words; must be >= 1.
	MinBlocks int
	// Stopwords rejects seeds anchored at a function word. Nil selects the
	// shipped Leeds list; use stopwords.ForList(stopwords.None) to disable.
	Stopwords *stopwords.Set
	// WithEllipsis permits one bounded gap of non-matching input words
	// inside a candidate.
	WithEllipsis bool
	// EllipsisWindow is the maximum gap width in words (default 2).
	EllipsisWindow int
	// QuoteFormulas merges adjacent matches connected by a classical
	// abbreviation formula (ila qawlihi, ila akhiriha, ...).
	QuoteFormulas bool
	// Warn, when non-nil, receives each overlap warning as it is found.
	// Warnings are also collected in the Result.
	Warn func(Warning)
}

func (o Options) withDefaults() Options {
	if o.MinBlocks == 0 {
		o.MinBlocks = DefaultMinBlocks
	}
	if o.Stopwords == nil {
		o.Stopwords = stopwords.ForList(stopwords.Leeds)
	}
	if o.EllipsisWindow <= 0 {
		o.EllipsisWindow = DefaultEllipsisWindow
	}
	return o
}

// Result is the outcome of one tagging call.
type Result struct {
	Matches  []Match   `json:"matches"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// candidate is a match under construction.
type candidate struct {
	inputStart, inputEnd int
	qStart, qEnd         int
	length               int
	gaps                 []Gap
}

// Tag finds Quranic quotations in the token sequence. The context is
// consulted once per input token during normalization; tagging has no other
// suspension points.
func Tag(ctx context.Context, ix *index.Index, tokens []string, opts Options) (*Result, error) {
	if ix == nil {
		return nil, qerrors.NewValidation("index", "nil index")
	}
	if len(tokens) == 0 {
		return nil, qerrors.NewValidation("tokens", "empty token sequence")
	}
	opts = opts.withDefaults()
	if opts.MinBlocks < 1 {
		return nil, qerrors.NewValidation("min_blocks", "must be at least 1")
	}

	// Normalize the input once; extension compares memoized forms only.
	norms := make([]string, len(tokens))
	for i, tok := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		norms[i] = rasm.Normalize(tok)
	}

	cands := findCandidates(ix, norms, opts)
	accepted, warnings := resolveOverlaps(cands, opts)

	if opts.QuoteFormulas {
		accepted = mergeFormulaQuotes(ix, norms, accepted)
	}

	res := &Result{Matches: accepted, Warnings: warnings}
	if opts.Warn != nil {
		for _, w := range warnings {
			opts.Warn(w)
		}
	}
	return res, nil
}

// findCandidates scans the input for bigram seeds and extends each one
// maximally. Duplicate spans reached from different seeds collapse.
func findCandidates(ix *index.Index, norms []string, opts Options) []candidate {
	type span struct {
		inputStart, qStart, inputEnd int
	}
	seen := make(map[span]bool)
	var cands []candidate

	for i := 0; i+1 < len(norms); i++ {
		a, b := norms[i], norms[i+1]
		if a == "" || b == "" {
			continue
		}
		// A match may not be anchored at a function word; stopwords
		// inside an extended match are fine.
		if opts.Stopwords.Contains(a) {
			continue
		}
		for _, j := range ix.Lookup(a, b) {
			c := extend(ix, norms, i, int(j), opts)
			key := span{c.inputStart, c.qStart, c.inputEnd}
			if seen[key] {
				continue
			}
			seen[key] = true
			cands = append(cands, c)
		}
	}
	return cands
}

// extend grows the seed (i, j) in both directions. With ellipsis enabled, at
// most one bounded gap is tolerated; the forward end is tried first.
func extend(ix *index.Index, norms []string, i, j int, opts Options) candidate {
	m, n := len(norms), ix.Len()

	k, q := i+2, j+2
	for k < m && q < n && norms[k] != "" && norms[k] == ix.Norm(q) {
		k++
		q++
	}
	c := candidate{inputStart: i, inputEnd: k - 1, qStart: j, qEnd: q - 1}

	gapUsed := false
	if opts.WithEllipsis && k < m && q < n {
		if skip, ok := probeGap(norms, k, q, ix, opts.EllipsisWindow); ok {
			c.gaps = append(c.gaps, Gap{Start: k, End: skip - 1})
			gapUsed = true
			k = skip
			for k < m && q < n && norms[k] != "" && norms[k] == ix.Norm(q) {
				k++
				q++
			}
			c.inputEnd, c.qEnd = k-1, q-1
		}
	}

	// Backward.
	k, q = i-1, j-1
	for k >= 0 && q >= 0 && norms[k] != "" && norms[k] == ix.Norm(q) {
		k--
		q--
	}
	c.inputStart, c.qStart = k+1, q+1

	if opts.WithEllipsis && !gapUsed && k >= 0 && q >= 0 {
		if skip, ok := probeGapBackward(norms, k, q, ix, opts.EllipsisWindow); ok {
			c.gaps = append([]Gap{{Start: skip + 1, End: k}}, c.gaps...)
			k = skip
			for k >= 0 && q >= 0 && norms[k] != "" && norms[k] == ix.Norm(q) {
				k--
				q--
			}
			c.inputStart, c.qStart = k+1, q+1
		}
	}

	c.length = c.inputEnd - c.inputStart + 1
	for _, g := range c.gaps {
		c.length -= g.End - g.Start + 1
	}
	return c
}

// probeGap looks ahead up to window input words for the point where matching
// resumes against Quran position q. It returns the input index to resume at.
func probeGap(norms []string, k, q int, ix *index.Index, window int) (int, bool) {
	for d := 1; d <= window; d++ {
		kp := k + d
		if kp >= len(norms) {
			return 0, false
		}
		if norms[kp] != "" && norms[kp] == ix.Norm(q) {
			return kp, true
		}
	}
	return 0, false
}

// probeGapBackward mirrors probeGap at the leading end of the candidate.
func probeGapBackward(norms []string, k, q int, ix *index.Index, window int) (int, bool) {
	for d := 1; d <= window; d++ {
		kp := k - d
		if kp < 0 {
			return 0, false
		}
		if norms[kp] != "" && norms[kp] == ix.Norm(q) {
			return kp, true
		}
	}
	return 0, false
}

// resolveOverlaps applies the min-blocks threshold, then accepts candidates
// greedily by length. Two equal-length candidates that overlap while neither
// is accepted are both dropped with a warning.
func resolveOverlaps(cands []candidate, opts Options) ([]Match, []Warning) {
	kept := cands[:0:0]
	for _, c := range cands {
		if c.length >= opts.MinBlocks {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(a, b int) bool {
		ca, cb := kept[a], kept[b]
		if ca.length != cb.length {
			return ca.length > cb.length
		}
		if ca.inputStart != cb.inputStart {
			return ca.inputStart < cb.inputStart
		}
		return ca.qStart < cb.qStart
	})

	var accepted []candidate
	var warnings []Warning
	rejected := make([]bool, len(kept))

	intersectsAccepted := func(c candidate) bool {
		for _, a := range accepted {
			if c.inputStart <= a.inputEnd && a.inputStart <= c.inputEnd {
				return true
			}
		}
		return false
	}

	for i, c := range kept {
		if rejected[i] {
			continue
		}
		if intersectsAccepted(c) {
			rejected[i] = true
			continue
		}
		// Equal-length conflict: another live candidate of the same
		// length overlapping this one kills both.
		conflict := -1
		for j := i + 1; j < len(kept) && kept[j].length == c.length; j++ {
			if rejected[j] {
				continue
			}
			if c.inputStart <= kept[j].inputEnd && kept[j].inputStart <= c.inputEnd && !intersectsAccepted(kept[j]) {
				conflict = j
				break
			}
		}
		if conflict >= 0 {
			rejected[i], rejected[conflict] = true, true
			warnings = append(warnings, Warning{
				QPosA:  c.qStart,
				QPosB:  kept[conflict].qStart,
				StartA: c.inputStart,
				StartB: kept[conflict].inputStart,
				Length: c.length,
			})
			continue
		}
		accepted = append(accepted, c)
	}

	sort.Slice(accepted, func(a, b int) bool {
		return accepted[a].inputStart < accepted[b].inputStart
	})

	matches := make([]Match, len(accepted))
	for i, c := range accepted {
		matches[i] = Match{
			InputStart: c.inputStart,
			InputEnd:   c.inputEnd,
			QStart:     c.qStart,
			QEnd:       c.qEnd,
			Length:     c.length,
			Gaps:       c.gaps,
		}
	}
	return matches, warnings
}
