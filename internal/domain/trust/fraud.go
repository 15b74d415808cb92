package trust

import (
	"fmt"
	"regexp"
	"strings"

	"jobtrust/internal/policy"
)

// FraudSignals are the boolean flags surfaced alongside the scam score.
type FraudSignals struct {
	SuspiciousSalary  bool `json:"suspicious_salary"`
	FakeCompany       bool `json:"fake_company"`
	RequiresPayment   bool `json:"requires_payment"`
	PoorGrammar       bool `json:"poor_grammar"`
	TooGoodToBeTrue   bool `json:"too_good_to_be_true"`
	PhishingLinks     bool `json:"phishing_links"`
	BlacklistedPoster bool `json:"blacklisted_poster"`
}

// FraudResult is one posting's scam assessment.
type FraudResult struct {
	IsScam     bool
	ScamScore  float64
	Indicators []string
	Signals    FraudSignals
	RiskLevel  RiskLevel
}

// FraudInput is the posting surface the detector inspects.
type FraudInput struct {
	Description     string
	Requirements    []string
	CompanyID       string
	CompanyName     string
	CompanyLogoURL  string
	ApplicationURL  string
	ApplyEmail      string
	SalaryMin       *float64
	SalaryMax       *float64
	ExperienceLevel string
}

// EmployerSnapshot is the credibility view the detector consumes; nil means
// no profile was available and the employer signal contributes zero.
type EmployerSnapshot struct {
	CredibilityScore float64
	ScamReports      int
	VerifiedScams    int
	Blacklisted      bool
}

// Signal-group weights; they sum to 1.
const (
	fraudWeightEmployer    = 0.25
	fraudWeightSalary      = 0.15
	fraudWeightCompany     = 0.15
	fraudWeightDescription = 0.15
	fraudWeightPayment     = 0.15
	fraudWeightLinks       = 0.10
	fraudWeightPromises    = 0.05
)

// paymentScamFloor: a payment demand is the single strongest scam signal,
// so the final score never drops below this once the keyword fires.
const paymentScamFloor = 80.0

var scamKeywords = []string{
	"no experience necessary", "work from home guaranteed", "quick money",
	"easy money", "immediate start", "unlimited earning", "be your own boss",
	"financial freedom", "guaranteed income", "no interview",
	"make money fast", "cash daily",
}

var urgencyPhrases = []string{
	"urgent", "apply now", "act fast", "limited time", "today only",
	"immediately", "asap", "don't miss",
}

var paymentKeywords = []string{
	"registration fee", "training fee", "application fee", "processing fee",
	"starter kit", "deposit required", "wire transfer", "western union",
	"moneygram", "send money", "upfront payment", "pay for your",
}

var promisePhrases = []string{
	"earn up to", "unlimited income", "get rich", "double your",
	"six figure", "passive income", "dream job guaranteed", "life-changing money",
}

var grammarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`!{2,}`),
	regexp.MustCompile(`\?{2,}`),
	regexp.MustCompile(`\s,`),
	regexp.MustCompile(`[a-z],[a-z]`),
	regexp.MustCompile(`[a-z]\.[A-Z]`),
}

var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".click"}

var urlShorteners = []string{"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly", "is.gd", "cutt.ly"}

var rawIPURLRe = regexp.MustCompile(`https?://\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

var allCapsWordRe = regexp.MustCompile(`\b[A-Z]{3,}\b`)

// DetectFraud combines seven weighted signal groups into a scam score.
// scamThreshold is the is_scam cutoff (70 by default policy).
func DetectFraud(input FraudInput, employer *EmployerSnapshot, pol policy.Policy, scamThreshold float64) FraudResult {
	var signals FraudSignals
	var indicators []string

	employerScore := scoreEmployerSignal(employer, &signals, &indicators)
	salaryScore := scoreSalarySignal(input, pol, &signals, &indicators)
	companyScore := scoreCompanySignal(input, pol, &signals, &indicators)
	descriptionScore := scoreDescriptionSignal(input.Description, &signals, &indicators)
	paymentScore := scorePaymentSignal(input, &signals, &indicators)
	linkScore := scoreLinkSignal(input.ApplicationURL, &signals, &indicators)
	promiseScore := scorePromiseSignal(input.Description, &signals, &indicators)

	score := employerScore*fraudWeightEmployer +
		salaryScore*fraudWeightSalary +
		companyScore*fraudWeightCompany +
		descriptionScore*fraudWeightDescription +
		paymentScore*fraudWeightPayment +
		linkScore*fraudWeightLinks +
		promiseScore*fraudWeightPromises

	if signals.RequiresPayment && score < paymentScamFloor {
		score = paymentScamFloor
	}
	score = clampScore(score)

	return FraudResult{
		IsScam:     score >= scamThreshold,
		ScamScore:  score,
		Indicators: indicators,
		Signals:    signals,
		RiskLevel:  fraudRiskLevel(score),
	}
}

func fraudRiskLevel(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskCritical
	case score >= 60:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

func scoreEmployerSignal(employer *EmployerSnapshot, signals *FraudSignals, indicators *[]string) float64 {
	if employer == nil {
		return 0
	}

	if employer.Blacklisted || employer.VerifiedScams > 0 {
		signals.FakeCompany = true
		signals.BlacklistedPoster = true
		*indicators = append(*indicators, "Employer is blacklisted for verified scams")
		return 100
	}

	score := 0.0
	if employer.ScamReports > 0 {
		penalty := float64(employer.ScamReports) * 15
		if penalty > 50 {
			penalty = 50
		}
		score += penalty
		*indicators = append(*indicators, fmt.Sprintf("Employer has %d scam reports", employer.ScamReports))
	}
	switch {
	case employer.CredibilityScore < 30:
		score += 40
		*indicators = append(*indicators, "Employer credibility is very low")
	case employer.CredibilityScore < 50:
		score += 20
		*indicators = append(*indicators, "Employer credibility is low")
	}
	return clampScore(score)
}

func scoreSalarySignal(input FraudInput, pol policy.Policy, signals *FraudSignals, indicators *[]string) float64 {
	if input.SalaryMin == nil && input.SalaryMax == nil {
		*indicators = append(*indicators, "No salary information provided")
		return 5
	}

	min, max := 0.0, 0.0
	if input.SalaryMin != nil {
		min = *input.SalaryMin
	}
	if input.SalaryMax != nil {
		max = *input.SalaryMax
	}
	if max == 0 {
		max = min
	}
	if min == 0 {
		min = max
	}
	avg := (min + max) / 2

	score := 0.0
	band := pol.Band(input.ExperienceLevel)
	if band.Max > 0 && avg > band.Max*pol.SalaryMultiplier {
		score += 40
		signals.SuspiciousSalary = true
		signals.TooGoodToBeTrue = true
		*indicators = append(*indicators, "Salary is unrealistically high for the experience level")
	}

	if min > 0 && max/min > pol.SalarySpreadRatio {
		score += 15
		*indicators = append(*indicators, "Salary range is suspiciously wide")
	}

	return clampScore(score)
}

func scoreCompanySignal(input FraudInput, pol policy.Policy, signals *FraudSignals, indicators *[]string) float64 {
	if pol.IsScamCompany(input.CompanyName) {
		signals.FakeCompany = true
		*indicators = append(*indicators, "Company matches a known scam company")
		return 100
	}

	score := 0.0
	if input.CompanyLogoURL == "" && input.CompanyID == "" {
		score += 15
		*indicators = append(*indicators, "Company has no profile or logo")
	}
	if input.ApplyEmail != "" && pol.IsPersonalEmailDomain(input.ApplyEmail) {
		score += 25
		*indicators = append(*indicators, "Applications go to a personal email address")
	}
	return clampScore(score)
}

func scoreDescriptionSignal(description string, signals *FraudSignals, indicators *[]string) float64 {
	score := 0.0
	lower := strings.ToLower(description)

	if len(strings.TrimSpace(description)) < 100 {
		score += 20
		*indicators = append(*indicators, "Description is unusually short")
	}

	grammarHits := 0
	for _, pattern := range grammarPatterns {
		if pattern.MatchString(description) {
			grammarHits++
		}
	}
	if grammarHits >= 2 {
		score += 20
		signals.PoorGrammar = true
		*indicators = append(*indicators, "Description shows poor grammar patterns")
	}

	if len(allCapsWordRe.FindAllString(description, -1)) > 5 {
		score += 15
		*indicators = append(*indicators, "Description overuses capitalized words")
	}

	scamHits := 0
	for _, kw := range scamKeywords {
		if strings.Contains(lower, kw) {
			scamHits++
		}
	}
	if scamHits >= 3 {
		points := float64(scamHits) * 10
		if points > 40 {
			points = 40
		}
		score += points
		*indicators = append(*indicators, fmt.Sprintf("Description contains %d scam phrases", scamHits))
	}

	urgencyHits := 0
	for _, kw := range urgencyPhrases {
		if strings.Contains(lower, kw) {
			urgencyHits++
		}
	}
	if urgencyHits >= 2 {
		score += 15
		*indicators = append(*indicators, "Description uses pressure/urgency language")
	}

	return clampScore(score)
}

// scorePaymentSignal short-circuits on the first payment keyword: asking
// applicants for money is treated as near-certain fraud.
func scorePaymentSignal(input FraudInput, signals *FraudSignals, indicators *[]string) float64 {
	haystack := strings.ToLower(input.Description + "\n" + strings.Join(input.Requirements, "\n"))
	for _, kw := range paymentKeywords {
		if strings.Contains(haystack, kw) {
			signals.RequiresPayment = true
			*indicators = append(*indicators, fmt.Sprintf("Posting asks applicants for payment (%q)", kw))
			return 80
		}
	}
	return 0
}

func scoreLinkSignal(applicationURL string, signals *FraudSignals, indicators *[]string) float64 {
	if strings.TrimSpace(applicationURL) == "" {
		return 0
	}

	score := 0.0
	lower := strings.ToLower(applicationURL)

	for _, tld := range suspiciousTLDs {
		if strings.Contains(lower, tld+"/") || strings.HasSuffix(lower, tld) {
			score += 35
			signals.PhishingLinks = true
			*indicators = append(*indicators, "Application link uses a suspicious domain")
			break
		}
	}

	if rawIPURLRe.MatchString(lower) {
		score += 40
		signals.PhishingLinks = true
		*indicators = append(*indicators, "Application link points at a raw IP address")
	}

	for _, shortener := range urlShorteners {
		if strings.Contains(lower, shortener) {
			score += 20
			*indicators = append(*indicators, "Application link uses a URL shortener")
			break
		}
	}

	return clampScore(score)
}

func scorePromiseSignal(description string, signals *FraudSignals, indicators *[]string) float64 {
	lower := strings.ToLower(description)
	hits := 0
	for _, phrase := range promisePhrases {
		if strings.Contains(lower, phrase) {
			hits++
		}
	}
	if hits < 2 {
		return 0
	}

	signals.TooGoodToBeTrue = true
	*indicators = append(*indicators, "Description makes unrealistic earning promises")

	points := float64(hits) * 20
	if points > 40 {
		points = 40
	}
	return points
}
