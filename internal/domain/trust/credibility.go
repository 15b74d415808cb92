package trust

// EmployerFacts is everything the credibility engine reads. The values are
// pre-populated profile fields; no live external verification happens here.
type EmployerFacts struct {
	CompanyAgeYears   *float64
	DomainVerified    bool
	DomainAgeYears    float64
	ActiveWebsite     bool
	LinkedInProfile   bool
	LinkedInFollowers int
	GlassdoorPresence bool
	IndeedPresence    bool

	ReviewCount    int
	AverageRating  float64 // 0-5
	CEOApprovalPct float64 // 0-100
	RecommendPct   float64 // 0-100
	HasFakeReviews bool

	TotalJobsPosted      int
	JobFillRate          float64 // 0-1
	PostingHistoryMonths int
	RecentPostings       int

	ResponseRate      float64 // 0-1
	AvgResponseDays   float64
	GhostedCandidates int

	SalaryTransparencyRate float64 // 0-1
	DetailedDescriptions   bool
	ResponsiveToApplicants bool

	ScamReportsCount  int
	VerifiedScamCount int
	FakeJobReports    int

	IsVerifiedEmployer            bool
	RequiresPaymentFromApplicants bool
	PoorCommunicationHistory      bool
}

// CredibilityBreakdown is the six capped components of a credibility score.
type CredibilityBreakdown struct {
	CompanyAge     float64 `json:"company_age"`
	OnlinePresence float64 `json:"online_presence"`
	ReviewQuality  float64 `json:"review_quality"`
	JobHistory     float64 `json:"job_history"`
	ResponseRate   float64 `json:"response_rate"`
	Transparency   float64 `json:"transparency"`
}

// CredibilityResult is a full recomputation of one employer's trust state.
type CredibilityResult struct {
	Score     float64
	Breakdown CredibilityBreakdown
	Status    VerificationStatus
	Risk      RiskLevel
}

// ScoreEmployer rebuilds the credibility score, verification status and risk
// level from the current profile facts. It is a full recomputation, never an
// incremental update.
func ScoreEmployer(facts EmployerFacts) CredibilityResult {
	breakdown := CredibilityBreakdown{
		CompanyAge:     companyAgeComponent(facts),
		OnlinePresence: onlinePresenceComponent(facts),
		ReviewQuality:  reviewQualityComponent(facts),
		JobHistory:     jobHistoryComponent(facts),
		ResponseRate:   responseRateComponent(facts),
		Transparency:   transparencyComponent(facts),
	}

	score := clampScore(breakdown.CompanyAge + breakdown.OnlinePresence +
		breakdown.ReviewQuality + breakdown.JobHistory +
		breakdown.ResponseRate + breakdown.Transparency)

	return CredibilityResult{
		Score:     score,
		Breakdown: breakdown,
		Status:    verificationStatus(facts, score),
		Risk:      employerRiskLevel(facts, score),
	}
}

// companyAgeComponent: 0-20, tiered by known age; unknown age gets the
// neutral baseline.
func companyAgeComponent(facts EmployerFacts) float64 {
	if facts.CompanyAgeYears == nil {
		return 5
	}
	years := *facts.CompanyAgeYears
	switch {
	case years >= 10:
		return 20
	case years >= 5:
		return 15
	case years >= 3:
		return 12
	case years >= 1:
		return 8
	default:
		return 5
	}
}

// onlinePresenceComponent: 0-15.
func onlinePresenceComponent(facts EmployerFacts) float64 {
	score := 0.0
	if facts.DomainVerified {
		score += 5
		if facts.DomainAgeYears >= 5 {
			score += 2
		}
	}
	if facts.ActiveWebsite {
		score += 2
	}
	if facts.LinkedInProfile {
		score += 2
		if facts.LinkedInFollowers > 1000 {
			score += 1
		}
	}
	if facts.GlassdoorPresence {
		score += 1.5
	}
	if facts.IndeedPresence {
		score += 1.5
	}
	if score > 15 {
		score = 15
	}
	return score
}

// reviewQualityComponent: 0-25 with a flat fake-review penalty floored at 0.
func reviewQualityComponent(facts EmployerFacts) float64 {
	score := 0.0
	switch {
	case facts.ReviewCount >= 100:
		score += 5
	case facts.ReviewCount >= 50:
		score += 4
	case facts.ReviewCount >= 20:
		score += 3
	case facts.ReviewCount >= 5:
		score += 2
	case facts.ReviewCount >= 1:
		score += 1
	}

	if facts.AverageRating > 0 {
		rating := facts.AverageRating
		if rating > 5 {
			rating = 5
		}
		score += rating / 5 * 10
	}
	score += boundedPct(facts.CEOApprovalPct) / 100 * 5
	score += boundedPct(facts.RecommendPct) / 100 * 5

	if facts.HasFakeReviews {
		score -= 15
	}
	if score < 0 {
		score = 0
	}
	if score > 25 {
		score = 25
	}
	return score
}

// jobHistoryComponent: 0-20.
func jobHistoryComponent(facts EmployerFacts) float64 {
	score := 0.0
	switch {
	case facts.TotalJobsPosted >= 100:
		score += 5
	case facts.TotalJobsPosted >= 50:
		score += 4
	case facts.TotalJobsPosted >= 20:
		score += 3
	case facts.TotalJobsPosted >= 5:
		score += 2
	case facts.TotalJobsPosted >= 1:
		score += 1
	}

	score += boundedRate(facts.JobFillRate) * 8

	history := 0.0
	switch {
	case facts.PostingHistoryMonths >= 24:
		history = 4
	case facts.PostingHistoryMonths >= 12:
		history = 3
	case facts.PostingHistoryMonths >= 6:
		history = 2
	case facts.PostingHistoryMonths >= 1:
		history = 1
	}
	if facts.RecentPostings > 0 {
		history += 3
	}
	if history > 7 {
		history = 7
	}
	score += history

	if score > 20 {
		score = 20
	}
	return score
}

// responseRateComponent: 0-10 with a ghosting penalty floored at 0.
func responseRateComponent(facts EmployerFacts) float64 {
	score := boundedRate(facts.ResponseRate) * 5

	switch {
	case facts.AvgResponseDays > 0 && facts.AvgResponseDays <= 2:
		score += 5
	case facts.AvgResponseDays > 0 && facts.AvgResponseDays <= 5:
		score += 3
	case facts.AvgResponseDays > 0 && facts.AvgResponseDays <= 10:
		score += 1
	}

	if facts.GhostedCandidates > 10 {
		score -= 3
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}

// transparencyComponent: 0-10.
func transparencyComponent(facts EmployerFacts) float64 {
	score := boundedRate(facts.SalaryTransparencyRate) * 4
	if facts.DetailedDescriptions {
		score += 3
	}
	if facts.ResponsiveToApplicants {
		score += 3
	}
	if score > 10 {
		score = 10
	}
	return score
}

// verificationStatus decision order is fixed; the first matching rule wins.
func verificationStatus(facts EmployerFacts, score float64) VerificationStatus {
	switch {
	case facts.VerifiedScamCount > 0:
		return VerificationBlacklisted
	case facts.ScamReportsCount > 5 || facts.FakeJobReports > 3 || facts.HasFakeReviews || score < 20:
		return VerificationSuspicious
	case facts.IsVerifiedEmployer:
		return VerificationVerified
	case score >= 70:
		return VerificationPending
	default:
		return VerificationUnverified
	}
}

// employerRiskLevel decision order is fixed; the first matching rule wins.
func employerRiskLevel(facts EmployerFacts, score float64) RiskLevel {
	switch {
	case facts.VerifiedScamCount > 0 || facts.RequiresPaymentFromApplicants || score < 20:
		return RiskCritical
	case facts.ScamReportsCount > 3 || facts.FakeJobReports > 2 || facts.HasFakeReviews || score < 40:
		return RiskHigh
	case facts.ScamReportsCount > 1 || facts.PoorCommunicationHistory || score < 60:
		return RiskMedium
	default:
		return RiskLow
	}
}

func boundedPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func boundedRate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
