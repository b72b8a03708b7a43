// Package index provides the inverted bigram index over the Quran corpus.
//
// The index maps every normalized word bigram (Q[i], Q[i+1]) to the positions
// i at which it occurs, verse and sura boundaries included: a quotation may
// run across them. It also retains the normalized form of every corpus word,
// so that seed extension can compare input words against the Quran without
// re-normalizing the corpus.
//
// An Index is built once and is immutable afterwards; concurrent readers need
// no locking.
package index

import (
	"github.com/intersame/qurantagger/core/quran"
)

// Bigram is a pair of consecutive normalized forms.
type Bigram struct {
	A, B string
}

// Index is the built-once lookup structure for seed finding and extension.
type Index struct {
	corpus   *quran.Corpus
	norms    []string
	postings map[Bigram][]int32
}

// Build constructs the index for a corpus. Corpus tokens that normalize to
// the empty form never participate in a bigram key.
func Build(c *quran.Corpus) *Index {
	n := c.Len()
	norms := make([]string, n)
	for i := 0; i < n; i++ {
		norms[i] = c.Norm(i)
	}

	postings := make(map[Bigram][]int32, n)
	for i := 0; i+1 < n; i++ {
		a, b := norms[i], norms[i+1]
		if a == "" || b == "" {
			continue
		}
		key := Bigram{A: a, B: b}
		postings[key] = append(postings[key], int32(i))
	}

	return &Index{corpus: c, norms: norms, postings: postings}
}

// Lookup returns every corpus position at which the bigram (a, b) begins.
// The arguments must already be normalized; lookup never re-normalizes.
// The returned slice is shared and must not be modified.
func (ix *Index) Lookup(a, b string) []int32 {
	return ix.postings[Bigram{A: a, B: b}]
}

// Norm returns the normalized form of the corpus word at pos.
func (ix *Index) Norm(pos int) string { return ix.norms[pos] }

// Len returns the number of corpus words covered by the index.
func (ix *Index) Len() int { return len(ix.norms) }

// Bigrams returns the number of distinct bigram keys.
func (ix *Index) Bigrams() int { return len(ix.postings) }

// Postings returns the total number of stored positions across all keys.
func (ix *Index) Postings() int {
	total := 0
	for _, ps := range ix.postings {
		total += len(ps)
	}
	return total
}

// Corpus returns the corpus the index was built from.
func (ix *Index) Corpus() *quran.Corpus { return ix.corpus }

// bigrams iterates the posting map; used by the snapshot writer.
func (ix *Index) bigrams(visit func(key Bigram, positions []int32)) {
	for key, ps := range ix.postings {
		visit(key, ps)
	}
}
