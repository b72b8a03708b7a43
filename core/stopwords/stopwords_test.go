package stopwords

import (
	"testing"

	"github.com/intersame/qurantagger/core/rasm"
)

func TestListsArePreNormalized(t *testing.T) {
	for _, list := range [][]string{internalForms, leedsForms} {
		for _, f := range list {
			if got := rasm.Normalize(f); got != f {
				t.Errorf("form %q is not a fixed point of normalization (got %q)", f, got)
			}
		}
	}
}

func TestLeedsIsSupersetOfInternal(t *testing.T) {
	leeds := ForList(Leeds)
	for _, f := range internalForms {
		if !leeds.Contains(f) {
			t.Errorf("Leeds list missing internal form %q", f)
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		list List
		word string
		want bool
	}{
		{Leeds, "الله", true},
		{Internal, "الله", false},
		{Leeds, "في", true},
		{Internal, "في", true},
		{Leeds, "نرينك", false},
		{Internal, "نرينك", false},
		{None, "في", false},
	}
	for _, tt := range tests {
		set := ForList(tt.list)
		nf := rasm.Normalize(tt.word)
		if got := set.Contains(nf); got != tt.want {
			t.Errorf("%v.Contains(%q=%q) = %v; want %v", tt.list, tt.word, nf, got, tt.want)
		}
	}
}

func TestFromWords(t *testing.T) {
	set := FromWords([]string{"من", "إلى", "؟"})
	if set.Len() != 2 {
		t.Errorf("FromWords dropped or kept the wrong entries: len = %d; want 2", set.Len())
	}
	if !set.Contains(rasm.Normalize("من")) {
		t.Error("FromWords set should contain من")
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		want List
		ok   bool
	}{
		{"leeds", Leeds, true},
		{"", Leeds, true},
		{"internal", Internal, true},
		{"none", None, true},
		{"bogus", Leeds, false},
	}
	for _, tt := range tests {
		got, ok := ParseList(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseList(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNilSet(t *testing.T) {
	var s *Set
	if s.Contains("MN") {
		t.Error("nil set must not contain anything")
	}
	if s.Len() != 0 {
		t.Error("nil set length must be 0")
	}
}
