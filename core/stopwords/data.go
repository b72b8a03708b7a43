package stopwords

// The shipped lists are stored pre-normalized so that set membership never
// pays for normalization at lookup time. Each entry notes the surface word(s)
// that reduce to the form.

// internalForms is the conservative in-house list: free-standing particles
// and pronouns only.
var internalForms = []string{
	"W",   // و
	"F",   // ف
	"MA",  // ما
	"LA",  // لا
	"MN",  // من
	"EN",  // عن
	"FY",  // في
	"ELY", // على
	"ALY", // إلى
	"AN",  // أن / إن
	"AD",  // إذ
	"ADA", // إذا
	"HW",  // هو
	"HY",  // هي
	"LM",  // لم
	"LN",  // لن
	"FD",  // قد
	"BM",  // ثم
	"AW",  // أو
	"BL",  // بل
	"HL",  // هل
}

// leedsForms is derived from the Leeds Quranic corpus POS annotations:
// every surface word tagged as a pronoun, relative, negation, preposition,
// conjunction, subordinator, interrogative or aversion particle, alone or
// cliticized with a conjunction or preposition, plus the divine name.
var leedsForms = []string{
	// bare particles and pronouns (superset of the internal list)
	"W",   // و
	"F",   // ف
	"MA",  // ما
	"LA",  // لا
	"MN",  // من
	"EN",  // عن
	"FY",  // في
	"ELY", // على
	"ALY", // إلى
	"AN",  // أن / إن
	"AD",  // إذ
	"ADA", // إذا
	"HW",  // هو
	"HY",  // هي
	"LM",  // لم
	"LN",  // لن
	"FD",  // قد
	"BM",  // ثم
	"AW",  // أو
	"BL",  // بل
	"HL",  // هل
	"BH",  // به
	"LH",  // له
	"BA",  // يا
	"AY",  // أي
	"LW",  // لو
	"LMA", // لما
	"KMA", // كما
	"GBY", // حتى
	"ALA", // إلا
	"AM",  // أم
	"AMA", // أما
	"KY",  // كي
	"LKY", // لكي
	"BBN", // بين

	// pronouns and demonstratives
	"HM",   // هم
	"HN",   // هن
	"HDA",  // هذا
	"HDH",  // هذه
	"DLK",  // ذلك
	"ABA",  // أنا
	"ABB",  // أنت
	"ABBM", // أنتم
	"BGN",  // نحن

	// relatives
	"ALDY",  // الذي
	"ALDBN", // الذين
	"ALBY",  // التي

	// preposition + pronoun clitics
	"LHM",   // لهم
	"LKM",   // لكم
	"BHA",   // بها
	"FBH",   // فيه
	"FBHA",  // فيها
	"ELBH",  // عليه
	"ELBHM", // عليهم
	"ALBH",  // إليه
	"MBH",   // منه
	"MBHA",  // منها
	"MBHM",  // منهم

	// conjunction/preposition compounds
	"WLA",  // ولا
	"WMA",  // وما
	"WMN",  // ومن
	"WHW",  // وهو
	"WHM",  // وهم
	"WAN",  // وإن / وأن
	"WADA", // وإذا
	"WLM",  // ولم
	"WLH",  // وله
	"WLHM", // ولهم
	"FLA",  // فلا
	"FMA",  // فما
	"FMN",  // فمن
	"BMA",  // بما
	"MMA",  // مما
	"FBMA", // فيما
	"EMA",  // عما
	"LMN",  // لمن

	// the divine name anchors far too many false seeds
	"ALLH", // الله
}
