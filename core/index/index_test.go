package index

import (
	"path/filepath"
	"strings"
	"testing"

	qerrors "github.com/intersame/qurantagger/core/errors"
	"github.com/intersame/qurantagger/core/quran"
	"github.com/intersame/qurantagger/core/rasm"
)

const sampleTanzil = `1|1|بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ
1|2|الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ
2|1|الم
2|2|ذَٰلِكَ الْكِتَابُ لَا رَيْبَ فِيهِ
`

func buildSample(t *testing.T) *Index {
	t.Helper()
	c, err := quran.LoadTanzil(strings.NewReader(sampleTanzil), "sample")
	if err != nil {
		t.Fatalf("LoadTanzil: %v", err)
	}
	return Build(c)
}

func TestBuild(t *testing.T) {
	ix := buildSample(t)

	if ix.Len() != 14 {
		t.Fatalf("Len() = %d; want 14", ix.Len())
	}
	// 13 consecutive bigrams, all keys non-empty.
	if ix.Postings() != 13 {
		t.Errorf("Postings() = %d; want 13", ix.Postings())
	}
	if ix.Bigrams() == 0 || ix.Bigrams() > 13 {
		t.Errorf("Bigrams() = %d; want in (0, 13]", ix.Bigrams())
	}
}

func TestLookup(t *testing.T) {
	ix := buildSample(t)

	a := rasm.Normalize("بِسْمِ")
	b := rasm.Normalize("اللَّهِ")
	got := ix.Lookup(a, b)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Lookup(%q, %q) = %v; want [0]", a, b, got)
	}

	// Verse-crossing bigram: last word of 1:1 followed by first of 1:2.
	got = ix.Lookup(rasm.Normalize("الرَّحِيمِ"), rasm.Normalize("الْحَمْدُ"))
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("verse-crossing Lookup = %v; want [3]", got)
	}

	if got := ix.Lookup("XXX", "YYY"); got != nil {
		t.Errorf("absent bigram Lookup = %v; want nil", got)
	}
}

func TestIndexSoundness(t *testing.T) {
	// For every posting (a, b) -> j: Q[j] == a and Q[j+1] == b.
	ix := buildSample(t)
	ix.bigrams(func(key Bigram, positions []int32) {
		for _, p := range positions {
			j := int(p)
			if ix.Norm(j) != key.A || ix.Norm(j+1) != key.B {
				t.Errorf("unsound posting (%q,%q) -> %d: corpus has (%q,%q)",
					key.A, key.B, j, ix.Norm(j), ix.Norm(j+1))
			}
		}
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	ix := buildSample(t)
	path := filepath.Join(t.TempDir(), "quran.idx")

	if err := SaveSnapshot(path, ix); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if loaded.Len() != ix.Len() {
		t.Errorf("loaded Len() = %d; want %d", loaded.Len(), ix.Len())
	}
	if loaded.Bigrams() != ix.Bigrams() {
		t.Errorf("loaded Bigrams() = %d; want %d", loaded.Bigrams(), ix.Bigrams())
	}
	if loaded.Corpus().Checksum() != ix.Corpus().Checksum() {
		t.Error("loaded corpus checksum differs from original")
	}
	for pos := 0; pos < ix.Len(); pos++ {
		if loaded.Norm(pos) != ix.Norm(pos) {
			t.Fatalf("loaded Norm(%d) = %q; want %q", pos, loaded.Norm(pos), ix.Norm(pos))
		}
		if loaded.Corpus().Meta(pos) != ix.Corpus().Meta(pos) {
			t.Fatalf("loaded Meta(%d) differs", pos)
		}
	}
}

func TestSnapshotOverwrite(t *testing.T) {
	ix := buildSample(t)
	path := filepath.Join(t.TempDir(), "quran.idx")
	if err := SaveSnapshot(path, ix); err != nil {
		t.Fatalf("first SaveSnapshot: %v", err)
	}
	if err := SaveSnapshot(path, ix); err != nil {
		t.Fatalf("second SaveSnapshot over existing file: %v", err)
	}
	if _, err := LoadSnapshot(path); err != nil {
		t.Fatalf("LoadSnapshot after overwrite: %v", err)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.idx"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !qerrors.Is(err, qerrors.ErrNotFound) {
		t.Errorf("error %v should unwrap to ErrNotFound", err)
	}
}
