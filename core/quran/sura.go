package quran

import (
	"strings"

	"github.com/intersame/qurantagger/core/rasm"
)

// suraNames holds the canonical Arabic name of each sura, indexed by sura
// number (index 0 unused).
var suraNames = [115]string{
	1: "الفاتحة", 2: "البقرة", 3: "آل عمران", 4: "النساء", 5: "المائدة",
	6: "الأنعام", 7: "الأعراف", 8: "الأنفال", 9: "التوبة", 10: "يونس",
	11: "هود", 12: "يوسف", 13: "الرعد", 14: "إبراهيم", 15: "الحجر",
	16: "النحل", 17: "الإسراء", 18: "الكهف", 19: "مريم", 20: "طه",
	21: "الأنبياء", 22: "الحج", 23: "المؤمنون", 24: "النور", 25: "الفرقان",
	26: "الشعراء", 27: "النمل", 28: "القصص", 29: "العنكبوت", 30: "الروم",
	31: "لقمان", 32: "السجدة", 33: "الأحزاب", 34: "سبأ", 35: "فاطر",
	36: "يس", 37: "الصافات", 38: "ص", 39: "الزمر", 40: "غافر",
	41: "فصلت", 42: "الشورى", 43: "الزخرف", 44: "الدخان", 45: "الجاثية",
	46: "الأحقاف", 47: "محمد", 48: "الفتح", 49: "الحجرات", 50: "ق",
	51: "الذاريات", 52: "الطور", 53: "النجم", 54: "القمر", 55: "الرحمن",
	56: "الواقعة", 57: "الحديد", 58: "المجادلة", 59: "الحشر", 60: "الممتحنة",
	61: "الصف", 62: "الجمعة", 63: "المنافقون", 64: "التغابن", 65: "الطلاق",
	66: "التحريم", 67: "الملك", 68: "القلم", 69: "الحاقة", 70: "المعارج",
	71: "نوح", 72: "الجن", 73: "المزمل", 74: "المدثر", 75: "القيامة",
	76: "الإنسان", 77: "المرسلات", 78: "النبأ", 79: "النازعات", 80: "عبس",
	81: "التكوير", 82: "الانفطار", 83: "المطففين", 84: "الانشقاق", 85: "البروج",
	86: "الطارق", 87: "الأعلى", 88: "الغاشية", 89: "الفجر", 90: "البلد",
	91: "الشمس", 92: "الليل", 93: "الضحى", 94: "الشرح", 95: "التين",
	96: "العلق", 97: "القدر", 98: "البينة", 99: "الزلزلة", 100: "العاديات",
	101: "القارعة", 102: "التكاثر", 103: "العصر", 104: "الهمزة", 105: "الفيل",
	106: "قريش", 107: "الماعون", 108: "الكوثر", 109: "الكافرون", 110: "النصر",
	111: "المسد", 112: "الإخلاص", 113: "الفلق", 114: "الناس",
}

// suraAliases maps traditional alternative names to sura numbers.
var suraAliases = map[string]int{
	"أم الكتاب":     1,
	"أم القرآن":     1,
	"السبع المثاني": 1,
	"الحمد":         1,
	"الشفاء":        1,
	"براءة":         9,
	"بني إسرائيل":   17,
	"المؤمن":        40,
	"حم سجدة":       41,
	"تبارك":         67,
}

// nameIndex maps normalized sura names (canonical and aliases) to numbers.
var nameIndex = buildNameIndex()

func buildNameIndex() map[string]int {
	idx := make(map[string]int, 128)
	for n := 1; n <= 114; n++ {
		idx[normalizeName(suraNames[n])] = n
	}
	for name, n := range suraAliases {
		idx[normalizeName(name)] = n
	}
	return idx
}

// normalizeName reduces a (possibly multi-word) sura name to a lookup key.
// Vowelled and unvowelled spellings of the same name collide, which is the
// point.
func normalizeName(name string) string {
	fields := strings.Fields(name)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if nf := rasm.Normalize(f); nf != "" {
			parts = append(parts, nf)
		}
	}
	return strings.Join(parts, " ")
}

// SuraName returns the canonical Arabic name of a sura, or "" if the number
// is out of range.
func SuraName(n int) string {
	if n < 1 || n > 114 {
		return ""
	}
	return suraNames[n]
}

// SuraByName resolves an Arabic sura name (canonical or traditional alias,
// with or without vowel signs) to its number.
func SuraByName(name string) (int, bool) {
	n, ok := nameIndex[normalizeName(name)]
	return n, ok
}
