// Package stopwords identifies archigraphemic forms too common to anchor a
// quotation match.
//
// A bigram seed whose first word normalizes to a stopword is rejected by the
// seed finder; stopwords are still allowed inside an extended match. Two lists
// ship with the tagger: a conservative internal list, and a larger list
// derived from the part-of-speech annotations of the Leeds Quranic corpus
// (particles, pronouns, relatives, negations and the divine name). Neither is
// authoritative; the choice materially shifts precision and recall.
package stopwords

import "github.com/intersame/qurantagger/core/rasm"

// List selects one of the shipped stopword lists.
type List int

const (
	// Leeds is the larger list derived from the Leeds corpus POS tags.
	// It is the shipped default.
	Leeds List = iota
	// Internal is the conservative in-house list.
	Internal
	// None disables stopword filtering entirely.
	None
)

func (l List) String() string {
	switch l {
	case Leeds:
		return "leeds"
	case Internal:
		return "internal"
	case None:
		return "none"
	}
	return "unknown"
}

// ParseList resolves a list name from configuration or a CLI flag.
func ParseList(name string) (List, bool) {
	switch name {
	case "leeds", "":
		return Leeds, true
	case "internal":
		return Internal, true
	case "none":
		return None, true
	}
	return Leeds, false
}

// Set is an immutable membership set over normalized forms.
type Set struct {
	forms map[string]struct{}
}

// Contains reports whether the normalized form is a stopword.
func (s *Set) Contains(nf string) bool {
	if s == nil || s.forms == nil {
		return false
	}
	_, ok := s.forms[nf]
	return ok
}

// Len returns the number of forms in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.forms)
}

// NewSet builds a set from already-normalized forms.
func NewSet(forms []string) *Set {
	m := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		if f == "" {
			continue
		}
		m[f] = struct{}{}
	}
	return &Set{forms: m}
}

// FromWords builds a set from raw Arabic words, normalizing each one.
func FromWords(words []string) *Set {
	forms := make([]string, 0, len(words))
	for _, w := range words {
		if nf := rasm.Normalize(w); nf != "" {
			forms = append(forms, nf)
		}
	}
	return NewSet(forms)
}

// ForList returns the shipped set for the given list.
func ForList(l List) *Set {
	switch l {
	case Internal:
		return internalSet
	case None:
		return emptySet
	default:
		return leedsSet
	}
}

var (
	leedsSet    = NewSet(leedsForms)
	internalSet = NewSet(internalForms)
	emptySet    = NewSet(nil)
)
