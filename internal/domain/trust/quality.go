package trust

import (
	"strings"
	"time"
)

// QualitySignals is the per-signal breakdown behind a quality score.
type QualitySignals struct {
	HasSalary              bool    `json:"has_salary"`
	HasDetailedDescription bool    `json:"has_detailed_description"`
	HasClearRequirements   bool    `json:"has_clear_requirements"`
	HasCompanyInfo         bool    `json:"has_company_info"`
	DescriptionLength      int     `json:"description_length"`
	ReadabilityScore       float64 `json:"readability_score"`
}

// QualityResult is one posting's completeness/freshness assessment.
type QualityResult struct {
	Score          float64
	Signals        QualitySignals
	FreshnessScore float64
	AgeDays        int
}

// QualityInput is the posting surface that drives quality scoring.
type QualityInput struct {
	Description    string
	Requirements   []string
	Benefits       []string
	CompanyID      string
	CompanyName    string
	CompanyLogoURL string
	HasSalary      bool
	PostedAt       *time.Time
	SkillCount     int
}

// ScoreQuality computes the completeness score and freshness decay for one
// posting. now is injected so repeated runs on fixed input are byte-stable.
func ScoreQuality(input QualityInput, now time.Time) QualityResult {
	signals := QualitySignals{
		HasSalary:              input.HasSalary,
		HasDetailedDescription: isDetailedDescription(input.Description),
		HasClearRequirements:   hasClearRequirements(input.Description, input.Requirements),
		HasCompanyInfo:         hasCompanyInfo(input),
		DescriptionLength:      len(input.Description),
		ReadabilityScore:       readabilityScore(input.Description),
	}

	freshness, ageDays := freshness(input.PostedAt, now)

	score := 0.0
	if signals.HasSalary {
		score += 15
	}
	if signals.HasDetailedDescription {
		score += 20
	}
	if signals.HasClearRequirements {
		score += 15
	}
	if signals.HasCompanyInfo {
		score += 15
	}
	switch {
	case signals.DescriptionLength > 500:
		score += 10
	case signals.DescriptionLength > 300:
		score += 7
	case signals.DescriptionLength > 150:
		score += 4
	}
	score += signals.ReadabilityScore * 0.10

	skillPoints := float64(input.SkillCount) * 2
	if skillPoints > 10 {
		skillPoints = 10
	}
	score += skillPoints

	benefitPoints := float64(len(input.Benefits))
	if benefitPoints > 5 {
		benefitPoints = 5
	}
	score += benefitPoints

	return QualityResult{
		Score:          clampScore(score),
		Signals:        signals,
		FreshnessScore: freshness,
		AgeDays:        ageDays,
	}
}

func isDetailedDescription(description string) bool {
	return len(description) >= 300 && countParagraphs(description, 50) >= 3
}

func hasClearRequirements(description string, requirements []string) bool {
	explicit := 0
	for _, req := range requirements {
		if strings.TrimSpace(req) != "" {
			explicit++
		}
	}
	if explicit >= 3 {
		return true
	}
	if explicit == 0 {
		lower := strings.ToLower(description)
		return strings.Contains(lower, "requirement") || strings.Contains(lower, "qualifications")
	}
	return false
}

// hasCompanyInfo weights the presence of identifying company fields; the
// posting passes when the weighted presence crosses 60 points.
func hasCompanyInfo(input QualityInput) bool {
	points := 0
	if strings.TrimSpace(input.CompanyID) != "" {
		points += 40
	}
	if strings.TrimSpace(input.CompanyName) != "" {
		points += 30
	}
	if strings.TrimSpace(input.CompanyLogoURL) != "" {
		points += 30
	}
	return points >= 60
}

// readabilityScore is a 0-100 heuristic over sentence length, structure and
// vocabulary weight.
func readabilityScore(description string) float64 {
	if strings.TrimSpace(description) == "" {
		return 0
	}

	score := 50.0
	sentences := splitSentences(description)
	words := strings.Fields(description)

	if len(sentences) > 0 {
		avg := float64(len(words)) / float64(len(sentences))
		switch {
		case avg >= 15 && avg <= 25:
			score += 15
		case avg < 8 || avg > 40:
			score -= 10
		}
	}

	paragraphs := countParagraphs(description, 1)
	switch {
	case paragraphs >= 3 && paragraphs <= 10:
		score += 10
	case paragraphs > 15:
		score -= 5
	}

	if hasListFormatting(description) {
		score += 10
	}

	if len(sentences) > 0 {
		punct := strings.Count(description, ",") + strings.Count(description, ";")
		density := float64(punct) / float64(len(sentences))
		switch {
		case density >= 1 && density <= 4:
			score += 5
		case density > 8:
			score -= 5
		}
	}

	if len(words) > 0 {
		long := 0
		for _, w := range words {
			if len(w) > 12 {
				long++
			}
		}
		ratio := float64(long) / float64(len(words))
		switch {
		case ratio < 0.10:
			score += 10
		case ratio > 0.25:
			score -= 10
		}
	}

	return clampScore(score)
}

func hasListFormatting(description string) bool {
	for _, raw := range strings.Split(description, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "•") {
			return true
		}
		if len(line) > 2 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
			return true
		}
	}
	return false
}

// freshness maps posting age onto the fixed decay steps. A missing
// posted_at yields the neutral 50 with age 0.
func freshness(postedAt *time.Time, now time.Time) (float64, int) {
	if postedAt == nil || postedAt.IsZero() {
		return 50, 0
	}

	ageDays := int(now.Sub(*postedAt).Hours() / 24)
	if ageDays < 0 {
		ageDays = 0
	}

	switch {
	case ageDays <= 7:
		return 100, ageDays
	case ageDays <= 14:
		return 90, ageDays
	case ageDays <= 30:
		return 75, ageDays
	case ageDays <= 60:
		return 50, ageDays
	case ageDays <= 90:
		return 25, ageDays
	default:
		return 10, ageDays
	}
}
