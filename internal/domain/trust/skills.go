package trust

import "strings"

// SkillProfile is the categorized outcome of skill extraction.
type SkillProfile struct {
	Technical      []string
	Soft           []string
	Domain         []string
	Certifications []string
	Required       []string
	Preferred      []string
	Confidence     float64
}

var technicalSkills = []string{
	// languages
	// bare "go" is skipped: it collides with the verb far too often
	"python", "java", "javascript", "typescript", "golang", "c++", "c#",
	"ruby", "php", "swift", "kotlin", "rust", "scala", "sql", "html", "css",
	// frameworks and runtimes
	"react", "angular", "vue", "django", "flask", "spring", "rails", "laravel",
	"express", "next.js", "node.js", ".net", "fastapi", "graphql",
	// databases
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "cassandra",
	"dynamodb", "oracle", "sqlite", "sql server",
	// cloud and infra
	"aws", "azure", "gcp", "google cloud", "docker", "kubernetes", "terraform",
	"jenkins", "ci/cd", "linux",
	// tools
	"git", "jira", "figma", "tableau", "power bi", "excel", "salesforce", "sap",
}

var softSkills = []string{
	"communication", "leadership", "teamwork", "problem solving",
	"critical thinking", "time management", "collaboration", "adaptability",
	"attention to detail", "project management", "stakeholder management",
	"mentoring", "negotiation", "public speaking",
}

var certifications = []string{
	"pmp", "cpa", "cfa", "aws certified", "azure certified", "cissp", "ccna",
	"comptia", "scrum master", "six sigma", "itil", "cka",
}

// domainPatterns map any-of keyword groups to a domain tag.
var domainPatterns = []struct {
	tag      string
	keywords []string
}{
	{"Machine Learning", []string{"machine learning", "deep learning", "nlp", "computer vision", "neural network"}},
	{"E-commerce", []string{"e-commerce", "ecommerce", "online retail", "marketplace"}},
	{"FinTech", []string{"fintech", "payments", "banking", "trading", "lending"}},
	{"Healthcare", []string{"healthcare", "clinical", "hipaa", "medical devices", "pharma"}},
	{"Cybersecurity", []string{"cybersecurity", "penetration testing", "threat detection", "incident response"}},
	{"Blockchain", []string{"blockchain", "web3", "smart contract", "defi"}},
	{"Gaming", []string{"game development", "unity", "unreal engine"}},
	{"DevOps", []string{"devops", "infrastructure as code", "site reliability"}},
}

// skillCapitalizations fixes names title-casing would mangle.
var skillCapitalizations = map[string]string{
	"javascript":    "JavaScript",
	"typescript":    "TypeScript",
	"node.js":       "Node.js",
	"next.js":       "Next.js",
	"postgresql":    "PostgreSQL",
	"mysql":         "MySQL",
	"mongodb":       "MongoDB",
	"dynamodb":      "DynamoDB",
	"graphql":       "GraphQL",
	"aws":           "AWS",
	"gcp":           "GCP",
	"php":           "PHP",
	"html":          "HTML",
	"css":           "CSS",
	"sql":           "SQL",
	"sql server":    "SQL Server",
	"ci/cd":         "CI/CD",
	"devops":        "DevOps",
	"c++":           "C++",
	"c#":            "C#",
	".net":          ".NET",
	"sap":           "SAP",
	"pmp":           "PMP",
	"cpa":           "CPA",
	"cfa":           "CFA",
	"cissp":         "CISSP",
	"ccna":          "CCNA",
	"comptia":       "CompTIA",
	"itil":          "ITIL",
	"cka":           "CKA",
	"power bi":      "Power BI",
	"aws certified": "AWS Certified",
}

var requiredKeywords = []string{
	"required", "must have", "must-have", "mandatory", "essential", "minimum",
}

var preferredKeywords = []string{
	"preferred", "nice to have", "nice-to-have", "bonus", "a plus", "desirable", "ideally",
}

// importanceWindow is how far back (in bytes) from a skill mention the
// required/preferred keyword search extends.
const importanceWindow = 100

// ExtractSkills scans free text for known skills and splits them into
// required and preferred sets based on the surrounding requirements wording.
// canonical resolves a lowercased raw skill to a previously learned mapping;
// it may be nil.
func ExtractSkills(description string, requirements []string, benefits []string, canonical func(string) (string, bool)) SkillProfile {
	reqText := strings.ToLower(strings.Join(requirements, "\n"))
	fullText := strings.ToLower(description) + "\n" + reqText + "\n" + strings.ToLower(strings.Join(benefits, "\n"))

	var profile SkillProfile
	seen := make(map[string]struct{})

	for _, raw := range technicalSkills {
		if !containsTerm(fullText, raw) {
			continue
		}
		name := canonicalSkillName(raw, canonical)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		profile.Technical = append(profile.Technical, name)
		assignImportance(&profile, reqText, raw, name)
	}

	for _, raw := range softSkills {
		if !containsTerm(fullText, raw) {
			continue
		}
		name := canonicalSkillName(raw, canonical)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		profile.Soft = append(profile.Soft, name)
		assignImportance(&profile, reqText, raw, name)
	}

	for _, raw := range certifications {
		if !containsTerm(fullText, raw) {
			continue
		}
		name := canonicalSkillName(raw, canonical)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		profile.Certifications = append(profile.Certifications, name)
		assignImportance(&profile, reqText, raw, name)
	}

	for _, pattern := range domainPatterns {
		for _, kw := range pattern.keywords {
			if containsTerm(fullText, kw) {
				profile.Domain = append(profile.Domain, pattern.tag)
				break
			}
		}
	}

	profile.Confidence = skillConfidence(profile)
	return profile
}

func canonicalSkillName(raw string, canonical func(string) (string, bool)) string {
	if canonical != nil {
		if mapped, ok := canonical(raw); ok && mapped != "" {
			return mapped
		}
	}
	if fixed, ok := skillCapitalizations[raw]; ok {
		return fixed
	}
	return titleCaseWords(raw)
}

// assignImportance classifies one found skill as required or preferred by
// searching the 100 characters preceding its mention in the requirements
// text, defaulting to required when the skill appears in requirements at all.
func assignImportance(profile *SkillProfile, reqText string, raw string, name string) {
	at := indexOfTerm(reqText, raw)
	if at < 0 {
		// Mentioned only in description/benefits: categorized but not
		// assigned to either list.
		return
	}

	start := at - importanceWindow
	if start < 0 {
		start = 0
	}
	window := reqText[start:at]

	for _, kw := range requiredKeywords {
		if strings.Contains(window, kw) {
			profile.Required = append(profile.Required, name)
			return
		}
	}
	for _, kw := range preferredKeywords {
		if strings.Contains(window, kw) {
			profile.Preferred = append(profile.Preferred, name)
			return
		}
	}
	profile.Required = append(profile.Required, name)
}

func skillConfidence(profile SkillProfile) float64 {
	total := len(profile.Technical) + len(profile.Soft) + len(profile.Domain) + len(profile.Certifications)

	confidence := 50.0
	switch {
	case total > 5:
		confidence += 20
	case total > 3:
		confidence += 10
	}
	if total == 0 {
		confidence -= 30
	}
	if len(profile.Technical) > 0 {
		confidence += 15
	}
	if len(profile.Domain) > 0 {
		confidence += 10
	}

	nonEmpty := 0
	for _, n := range []int{len(profile.Technical), len(profile.Soft), len(profile.Domain)} {
		if n > 0 {
			nonEmpty++
		}
	}
	if nonEmpty >= 2 {
		confidence += 5
	}

	return clampScore(confidence)
}
