package errors

import (
	"fmt"
	"testing"
)

func TestCorpusError(t *testing.T) {
	err := NewCorpus("quran-simple.txt", "verse count mismatch")
	want := "corpus quran-simple.txt: verse count mismatch"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
	if !Is(err, ErrCorpus) {
		t.Error("CorpusError should unwrap to ErrCorpus")
	}

	noSource := NewCorpus("", "empty corpus")
	if noSource.Error() != "corpus: empty corpus" {
		t.Errorf("Error() = %q", noSource.Error())
	}
}

func TestCorpusError_WrappedErr(t *testing.T) {
	inner := fmt.Errorf("read failed")
	err := &CorpusError{Source: "x", Message: "unreadable", Err: inner}
	if !Is(err, inner) {
		t.Error("CorpusError with Err should unwrap to it")
	}
	if Is(err, ErrCorpus) {
		t.Error("CorpusError with Err should not also unwrap to ErrCorpus")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("min_blocks", "must be at least 1")
	if !Is(err, ErrInvalidInput) {
		t.Error("ValidationError should unwrap to ErrInvalidInput")
	}
	want := "validation failed for min_blocks: must be at least 1"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("sura", "الفاتحة")
	if !Is(err, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}

	var nf *NotFoundError
	if !As(err, &nf) {
		t.Fatal("As should match NotFoundError")
	}
	if nf.Resource != "sura" {
		t.Errorf("Resource = %q; want sura", nf.Resource)
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("Tanzil text", "corpus.txt", "bad verse header")
	if !Is(err, ErrInvalidInput) {
		t.Error("ParseError should unwrap to ErrInvalidInput")
	}
	want := "failed to parse Tanzil text at corpus.txt: bad verse header"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("corpus format", "unknown extension")
	if !Is(err, ErrUnsupported) {
		t.Error("UnsupportedError should unwrap to ErrUnsupported")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	inner := ErrNotFound
	wrapped := Wrap(inner, "loading snapshot")
	if !Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should match the inner sentinel")
	}
	if wrapped.Error() != "loading snapshot: not found" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
	wrapped := Wrapf(ErrCorpus, "sura %d", 115)
	if !Is(wrapped, ErrCorpus) {
		t.Error("wrapped error should match the inner sentinel")
	}
}
