package trust

// Version tags recorded on derived rows so stale results can be detected
// when a rule table changes.
const (
	TitleRulesVersion      = "title-rules-v1"
	SkillsDictVersion      = "skills-dict-v1"
	SimilarityVersion      = "similarity-v1"
	QualityRulesVersion    = "quality-rules-v1"
	FraudHeuristicsVersion = "fraud-heuristics-v1"
	CredibilityVersion     = "credibility-v1"
)
