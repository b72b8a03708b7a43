package ref

import (
	"strings"
	"testing"

	qerrors "github.com/intersame/qurantagger/core/errors"
	"github.com/intersame/qurantagger/core/quran"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Range
	}{
		{"2:255", Range{StartSura: 2, StartVerse: 255, EndSura: 2, EndVerse: 255}},
		{"2:255-257", Range{StartSura: 2, StartVerse: 255, EndSura: 2, EndVerse: 257}},
		{"2:285-3:2", Range{StartSura: 2, StartVerse: 285, EndSura: 3, EndVerse: 2}},
		{"112", Range{StartSura: 112, EndSura: 112}},
		{" 1 : 7 ", Range{StartSura: 1, StartVerse: 7, EndSura: 1, EndVerse: 7}},
		{"٢:٢٥٥", Range{StartSura: 2, StartVerse: 255, EndSura: 2, EndVerse: 255}},
		{"الفاتحة", Range{StartSura: 1, EndSura: 1}},
		{"الفاتحة 1-3", Range{StartSura: 1, StartVerse: 1, EndSura: 1, EndVerse: 3}},
		{"سورة البقرة 255", Range{StartSura: 2, StartVerse: 255, EndSura: 2, EndVerse: 255}},
		{"آل عمران 5", Range{StartSura: 3, StartVerse: 5, EndSura: 3, EndVerse: 5}},
		{"براءة", Range{StartSura: 9, EndSura: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v; want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"",
		"0:1",
		"115",
		"2:10-2:5",
		"2:10-5",
		"3:1-2:1",
		"سورة غير موجودة",
		"abc",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) should fail", input)
			}
		})
	}
}

func TestRangeString(t *testing.T) {
	tests := []struct {
		r    Range
		want string
	}{
		{Range{StartSura: 112, EndSura: 112}, "112"},
		{Range{StartSura: 2, StartVerse: 255, EndSura: 2, EndVerse: 255}, "2:255"},
		{Range{StartSura: 2, StartVerse: 1, EndSura: 2, EndVerse: 5}, "2:1-5"},
		{Range{StartSura: 2, StartVerse: 285, EndSura: 3, EndVerse: 2}, "2:285-3:2"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String() = %q; want %q", got, tt.want)
		}
	}
}

const fixtureTanzil = `1|1|بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ
1|2|الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ
1|3|الرَّحْمَٰنِ الرَّحِيمِ
2|1|الم
2|2|ذَٰلِكَ الْكِتَابُ لَا رَيْبَ فِيهِ
`

func fixtureCorpus(t *testing.T) *quran.Corpus {
	t.Helper()
	c, err := quran.LoadTanzil(strings.NewReader(fixtureTanzil), "fixture")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestResolve(t *testing.T) {
	c := fixtureCorpus(t)

	tests := []struct {
		input     string
		wantStart int
		wantEnd   int
	}{
		{"1:1", 0, 3},
		{"1:2", 4, 7},
		{"1:1-2", 0, 7},
		{"1", 0, 9},
		{"1:2-2:1", 4, 10},
		{"الفاتحة", 0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			start, end, err := r.Resolve(c)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Resolve(%q) = [%d, %d]; want [%d, %d]", tt.input, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestResolve_Missing(t *testing.T) {
	c := fixtureCorpus(t)
	r, err := Parse("3:1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, _, err := r.Resolve(c); err == nil {
		t.Error("resolving an absent sura should fail")
	} else if !qerrors.Is(err, qerrors.ErrNotFound) {
		t.Errorf("error %v should unwrap to ErrNotFound", err)
	}
}
