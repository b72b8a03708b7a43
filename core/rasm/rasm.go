// Package rasm reduces Arabic-script tokens to an archigraphemic form.
//
// The reduction collapses orthographic variation (diacritics, hamza seats,
// presentation forms, tatweel) down to letterblocks: equivalence classes over
// the skeletal rasm shapes of the script. Two tokens are considered the same
// word for matching purposes exactly when their normalized forms are equal.
//
// The letterblock system follows Thomas Milo's archigrapheme analysis as used
// by the Tanzil-based tagging pipeline: dotless denticles share one class, and
// qāf, nūn and yāʾ are distinguishable only in word-final position.
package rasm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Letterblock identifies one archigraphemic equivalence class.
type Letterblock byte

const (
	// Alif covers bare alif and every hamza- or madda-bearing alif variant.
	Alif Letterblock = iota
	// Ba is the shared denticle class: bāʾ, tāʾ, thāʾ, pe, and non-final
	// nūn and yāʾ, which are indistinguishable in the rasm.
	Ba
	// Gim covers jīm, ḥāʾ, khāʾ and their extended-script relatives.
	Gim
	// Dal covers dāl and dhāl.
	Dal
	// Ra covers rāʾ, zāy and že.
	Ra
	// Sin covers sīn and shīn.
	Sin
	// Sad covers ṣād and ḍād.
	Sad
	// Ta covers ṭāʾ and ẓāʾ.
	Ta
	// Ain covers ʿayn and ghayn.
	Ain
	// Fa covers fāʾ and non-final qāf.
	Fa
	// Qaf is word-final qāf.
	Qaf
	// Kaf covers kāf and gāf.
	Kaf
	// Lam is lām.
	Lam
	// Mim is mīm.
	Mim
	// Nun is word-final nūn.
	Nun
	// Ha covers hāʾ and its variants.
	Ha
	// Waw covers wāw and hamza-on-wāw.
	Waw
	// Ya is word-final yāʾ, alif maqṣūra included.
	Ya
	// TaMarbuta is tāʾ marbūṭa under the default keep-distinct policy.
	TaMarbuta

	numBlocks
)

// symbols maps a Letterblock to its single-byte representation in a NormForm.
// The output alphabet is stable: serialized indexes depend on it.
var symbols = [numBlocks]byte{
	Alif: 'A', Ba: 'B', Gim: 'G', Dal: 'D', Ra: 'R', Sin: 'S', Sad: 'C',
	Ta: 'T', Ain: 'E', Fa: 'F', Qaf: 'Q', Kaf: 'K', Lam: 'L', Mim: 'M',
	Nun: 'N', Ha: 'H', Waw: 'W', Ya: 'Y', TaMarbuta: 'P',
}

// Symbol returns the byte used for the letterblock in normalized forms.
func (b Letterblock) Symbol() byte {
	if b >= numBlocks {
		return '?'
	}
	return symbols[b]
}

func (b Letterblock) String() string {
	return string(rune(b.Symbol()))
}

// foldTable maps letter variants to the canonical letter of their class.
// Hamza seats fold to their carrier, yāʾ variants to a single yāʾ shape.
// Runes absent from both tables are dropped, except qāf, nūn and yāʾ
// (classified positionally) and the letterblock symbols themselves.
var foldTable = map[rune]rune{
	'أ': 'ا', // alif + hamza above
	'إ': 'ا', // alif + hamza below
	'آ': 'ا', // alif madda
	'ٱ': 'ا', // alif wasla
	'ؤ': 'و', // waw + hamza
	'ئ': 'ی', // ya + hamza
	'ى': 'ی', // alif maqsura
	'ي': 'ی', // ya
	'ٮ': 'ی', // dotless ba (archaic denticle)
	'ں': 'ن', // dotless nun
	'ے': 'ی', // ya barree
	'ہ': 'ه', // ha goal
	'ھ': 'ه', // ha doachashmee
	'ك': 'ک', // kaf
	'گ': 'ک', // gaf
}

// classTable maps canonical letters to letterblocks. Qāf, nūn and yāʾ are
// handled positionally in Normalize and are deliberately absent here.
var classTable = map[rune]Letterblock{
	'ا': Alif,
	'ب': Ba, 'ت': Ba, 'ث': Ba, 'پ': Ba,
	'ج': Gim, 'ح': Gim, 'خ': Gim, 'چ': Gim, 'ځ': Gim,
	'د': Dal, 'ذ': Dal, 'ڈ': Dal,
	'ر': Ra, 'ز': Ra, 'ژ': Ra,
	'س': Sin, 'ش': Sin,
	'ص': Sad, 'ض': Sad,
	'ط': Ta, 'ظ': Ta,
	'ع': Ain, 'غ': Ain,
	'ف': Fa, 'ڡ': Fa,
	'ک': Kaf,
	'ل': Lam,
	'م': Mim,
	'ه': Ha,
	'ة': TaMarbuta,
	'و': Waw,
}

const tatweel = 'ـ'

// Policy controls the optional folding decisions of the normalizer.
type Policy struct {
	// FoldTaMarbuta maps tāʾ marbūṭa into the hāʾ letterblock instead of
	// keeping it as its own class. Off in the shipped configuration.
	FoldTaMarbuta bool
}

// Default is the shipped normalization policy.
var Default = Policy{}

// Normalize reduces a token to its archigraphemic form under the default
// policy. The result is a string over the letterblock alphabet; it is empty
// when the token carries no Arabic letters (punctuation, digits, marks).
func Normalize(token string) string {
	return Default.Normalize(token)
}

// Normalize reduces a token to its archigraphemic form.
//
// The reduction is pure, deterministic and idempotent: letterblock symbols
// are ASCII and fall through every stripping stage unchanged.
func (p Policy) Normalize(token string) string {
	// NFKC folds the Arabic presentation blocks (initial/medial/final
	// shapes, lam-alif ligatures) back to base letters.
	folded := norm.NFKC.String(token)

	letters := make([]rune, 0, len(folded))
	for _, r := range folded {
		switch {
		case r == tatweel:
			continue
		case unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf):
			// Harakat, shadda, sukun and the Quranic annotation
			// marks are all combining or format characters.
			continue
		}
		if c, ok := foldTable[r]; ok {
			r = c
		}
		if _, ok := classTable[r]; ok {
			letters = append(letters, r)
			continue
		}
		switch r {
		case 'ق', 'ن', 'ی':
			letters = append(letters, r)
		case 'A', 'B', 'G', 'D', 'R', 'S', 'C', 'T', 'E', 'F', 'Q', 'K', 'L', 'M', 'N', 'H', 'W', 'Y', 'P':
			// Already a letterblock symbol: idempotent re-entry.
			letters = append(letters, r)
		}
		// Everything else (punctuation, digits, isolated hamza,
		// non-Arabic scripts other than the symbols above) is dropped.
	}

	if len(letters) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(letters))
	last := len(letters) - 1
	for i, r := range letters {
		switch r {
		case 'ق':
			if i == last {
				sb.WriteByte(Qaf.Symbol())
			} else {
				sb.WriteByte(Fa.Symbol())
			}
		case 'ن':
			if i == last {
				sb.WriteByte(Nun.Symbol())
			} else {
				sb.WriteByte(Ba.Symbol())
			}
		case 'ی':
			if i == last {
				sb.WriteByte(Ya.Symbol())
			} else {
				sb.WriteByte(Ba.Symbol())
			}
		case 'A', 'B', 'G', 'D', 'R', 'S', 'C', 'T', 'E', 'F', 'Q', 'K', 'L', 'M', 'N', 'H', 'W', 'Y':
			sb.WriteByte(byte(r))
		case 'P':
			if p.FoldTaMarbuta {
				sb.WriteByte(Ha.Symbol())
			} else {
				sb.WriteByte(byte(r))
			}
		default:
			block := classTable[r]
			if block == TaMarbuta && p.FoldTaMarbuta {
				block = Ha
			}
			sb.WriteByte(block.Symbol())
		}
	}
	return sb.String()
}

// Blocks expands a normalized form into its letterblock sequence.
func Blocks(nf string) []Letterblock {
	out := make([]Letterblock, 0, len(nf))
	for i := 0; i < len(nf); i++ {
		for b := Letterblock(0); b < numBlocks; b++ {
			if symbols[b] == nf[i] {
				out = append(out, b)
				break
			}
		}
	}
	return out
}
