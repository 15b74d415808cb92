package trust

import "strings"

// TitleResult is the outcome of normalizing one raw job title.
type TitleResult struct {
	StandardizedTitle string
	Seniority         Seniority
	Category          FunctionCategory
	RoleFamily        string
	Confidence        float64
}

// slangExpansions is applied token-wise after punctuation cleanup.
var slangExpansions = map[string]string{
	"sr":        "senior",
	"snr":       "senior",
	"jr":        "junior",
	"sw":        "software",
	"eng":       "engineer",
	"engr":      "engineer",
	"dev":       "developer",
	"mgr":       "manager",
	"pm":        "product manager",
	"po":        "product owner",
	"qa":        "quality assurance",
	"ba":        "business analyst",
	"hr":        "human resources",
	"admin":     "administrator",
	"assoc":     "associate",
	"mktg":      "marketing",
	"acct":      "accountant",
	"vp":        "vice president",
	"svp":       "senior vice president",
	"fullstack": "full stack",
}

// seniorityTable is iterated in order; the first level whose keyword list
// matches wins. Higher ranks come first so "senior director" resolves as
// DIRECTOR, not SENIOR.
var seniorityTable = []struct {
	level    Seniority
	keywords []string
}{
	{SeniorityCLevel, []string{"chief", "ceo", "cto", "cfo", "coo", "cio", "cpo", "cmo"}},
	{SeniorityVP, []string{"vice president", "vp of"}},
	{SeniorityDirector, []string{"director", "head of"}},
	{SeniorityPrincipal, []string{"principal", "staff"}},
	{SeniorityLead, []string{"lead", "team lead", "tech lead"}},
	{SenioritySenior, []string{"senior"}},
	{SeniorityMid, []string{"mid-level", "mid level", "intermediate"}},
	{SeniorityJunior, []string{"junior", "entry level", "entry-level", "graduate", "associate"}},
	{SeniorityIntern, []string{"intern", "internship", "trainee", "co-op"}},
}

// romanLevels is the fallback when no seniority keyword matches.
var romanLevels = map[string]Seniority{
	"i": SeniorityJunior, "1": SeniorityJunior,
	"ii": SeniorityMid, "2": SeniorityMid,
	"iii": SenioritySenior, "3": SenioritySenior,
	"iv": SeniorityLead, "4": SeniorityLead,
}

// categoryTable is iterated in order; first matching category wins.
var categoryTable = []struct {
	category FunctionCategory
	keywords []string
}{
	{CategoryData, []string{"data scientist", "data analyst", "data engineer", "machine learning", "analytics"}},
	{CategoryEngineering, []string{"engineer", "engineering", "developer", "programmer", "software", "devops", "sre", "architect", "quality assurance"}},
	{CategoryProduct, []string{"product manager", "product owner", "product"}},
	{CategoryDesign, []string{"designer", "design", "ux", "ui", "creative"}},
	{CategoryMarketing, []string{"marketing", "seo", "content", "growth", "brand"}},
	{CategorySales, []string{"sales", "account executive", "business development"}},
	{CategoryFinance, []string{"finance", "financial", "accountant", "accounting", "controller", "auditor"}},
	{CategoryHR, []string{"recruiter", "human resources", "talent", "people operations"}},
	{CategoryOperations, []string{"operations", "logistics", "supply chain", "project manager"}},
	{CategoryCustomerSupport, []string{"customer support", "customer success", "support", "help desk"}},
	{CategoryLegal, []string{"legal", "counsel", "attorney", "paralegal", "compliance"}},
}

// roleFamilies overrides the literal cleaned text with a canonical label for
// non-OTHER categories.
var roleFamilies = map[FunctionCategory]string{
	CategoryEngineering:     "Software Engineer",
	CategoryData:            "Data Scientist",
	CategoryProduct:         "Product Manager",
	CategoryDesign:          "Designer",
	CategoryMarketing:       "Marketing Specialist",
	CategorySales:           "Sales Representative",
	CategoryFinance:         "Financial Analyst",
	CategoryHR:              "HR Specialist",
	CategoryOperations:      "Operations Manager",
	CategoryCustomerSupport: "Customer Support Specialist",
	CategoryLegal:           "Legal Counsel",
}

var seniorityLabels = map[Seniority]string{
	SeniorityIntern:    "Intern",
	SeniorityJunior:    "Junior",
	SeniorityMid:       "Mid-level",
	SenioritySenior:    "Senior",
	SeniorityLead:      "Lead",
	SeniorityPrincipal: "Principal",
}

// seniorityStripWords are removed from the cleaned text when deriving an
// OTHER-category role family.
var seniorityStripWords = map[string]struct{}{
	"senior": {}, "junior": {}, "lead": {}, "principal": {}, "staff": {},
	"intern": {}, "trainee": {}, "graduate": {}, "associate": {}, "chief": {},
	"director": {}, "intermediate": {}, "i": {}, "ii": {}, "iii": {}, "iv": {},
	"1": {}, "2": {}, "3": {}, "4": {},
}

// NormalizeTitle maps a raw title to its standardized form, seniority and
// function category. isStandardTitle reports whether a candidate title is in
// the canonical taxonomy catalog (feeding the confidence bonus); callers
// without a catalog may pass nil.
func NormalizeTitle(rawTitle string, isStandardTitle func(string) bool) TitleResult {
	cleaned := expandSlang(cleanText(rawTitle))

	seniority := resolveSeniority(cleaned)
	category := resolveCategory(cleaned)
	family := resolveRoleFamily(cleaned, category)
	standardized := composeTitle(seniority, family)

	confidence := 50.0
	if seniority != "" {
		confidence += 15
	}
	if category != CategoryOther {
		confidence += 20
	}
	if isStandardTitle != nil && isStandardTitle(standardized) {
		confidence += 15
	}
	wordCount := len(strings.Fields(cleaned))
	if wordCount < 2 {
		confidence -= 10
	}
	if wordCount > 8 {
		confidence -= 10
	}

	return TitleResult{
		StandardizedTitle: standardized,
		Seniority:         seniority,
		Category:          category,
		RoleFamily:        family,
		Confidence:        clampScore(confidence),
	}
}

func expandSlang(cleaned string) string {
	words := strings.Fields(cleaned)
	for i, w := range words {
		if expanded, ok := slangExpansions[w]; ok {
			words[i] = expanded
		}
	}
	return strings.Join(words, " ")
}

func resolveSeniority(cleaned string) Seniority {
	for _, row := range seniorityTable {
		for _, kw := range row.keywords {
			if containsTerm(cleaned, kw) {
				return row.level
			}
		}
	}

	// Roman-numeral / digit fallback: "Engineer III" style titles.
	for _, w := range strings.Fields(cleaned) {
		if level, ok := romanLevels[w]; ok {
			return level
		}
	}
	return ""
}

func resolveCategory(cleaned string) FunctionCategory {
	for _, row := range categoryTable {
		for _, kw := range row.keywords {
			if containsTerm(cleaned, kw) {
				return row.category
			}
		}
	}
	return CategoryOther
}

func resolveRoleFamily(cleaned string, category FunctionCategory) string {
	if family, ok := roleFamilies[category]; ok {
		return family
	}

	words := strings.Fields(cleaned)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, strip := seniorityStripWords[w]; strip {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		kept = words
	}
	return titleCaseWords(strings.Join(kept, " "))
}

func composeTitle(seniority Seniority, family string) string {
	switch seniority {
	case SeniorityDirector:
		return "Director of " + family
	case SeniorityVP:
		return "VP of " + family
	case SeniorityCLevel:
		// The role family already carries the chief title.
		return family
	default:
		if label, ok := seniorityLabels[seniority]; ok {
			return label + " " + family
		}
		return family
	}
}
