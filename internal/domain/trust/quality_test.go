package trust

import (
	"strings"
	"testing"
	"time"
)

var qualityNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func richDescription() string {
	return strings.Join([]string{
		"We are a logistics technology company operating across Europe. Our platform moves " +
			"thousands of shipments every day, and the backend team keeps it fast and reliable.",
		"You will own services end to end. That means design, implementation, rollout and " +
			"operations. We practice code review, pair on tricky problems, and keep our " +
			"incident load low by fixing root causes.",
		"Our stack is boring on purpose. We run a small number of well-understood services " +
			"and invest heavily in tooling, tests and documentation so that shipping stays safe.",
	}, "\n\n")
}

func TestScoreQualityRichPosting(t *testing.T) {
	postedAt := qualityNow.AddDate(0, 0, -3)
	result := ScoreQuality(QualityInput{
		Description:    richDescription(),
		Requirements:   []string{"5+ years backend experience", "Fluency in Go or Java", "Production database experience"},
		Benefits:       []string{"Remote budget", "Learning stipend", "25 vacation days"},
		CompanyID:      "c-1",
		CompanyName:    "Acme Logistics",
		CompanyLogoURL: "https://acme.example/logo.png",
		HasSalary:      true,
		PostedAt:       &postedAt,
		SkillCount:     6,
	}, qualityNow)

	if result.Score < 80 {
		t.Fatalf("Score = %v, want >= 80", result.Score)
	}
	if !result.Signals.HasSalary || !result.Signals.HasDetailedDescription ||
		!result.Signals.HasClearRequirements || !result.Signals.HasCompanyInfo {
		t.Fatalf("signals = %+v, want all completeness signals set", result.Signals)
	}
	if result.FreshnessScore != 100 {
		t.Fatalf("FreshnessScore = %v, want 100", result.FreshnessScore)
	}
	if result.AgeDays != 3 {
		t.Fatalf("AgeDays = %d, want 3", result.AgeDays)
	}
}

func TestScoreQualitySparsePosting(t *testing.T) {
	result := ScoreQuality(QualityInput{Description: "Great job. Apply."}, qualityNow)

	if result.Score >= 30 {
		t.Fatalf("Score = %v, want < 30", result.Score)
	}
	if result.Signals.HasDetailedDescription || result.Signals.HasCompanyInfo {
		t.Fatalf("signals = %+v, want detail and company info unset", result.Signals)
	}
	if result.FreshnessScore != 50 || result.AgeDays != 0 {
		t.Fatalf("missing posted_at: freshness = %v age = %d, want 50 and 0",
			result.FreshnessScore, result.AgeDays)
	}
}

func TestFreshnessSteps(t *testing.T) {
	testCases := []struct {
		days int
		want float64
	}{
		{days: 0, want: 100},
		{days: 7, want: 100},
		{days: 8, want: 90},
		{days: 14, want: 90},
		{days: 20, want: 75},
		{days: 30, want: 75},
		{days: 45, want: 50},
		{days: 80, want: 25},
		{days: 91, want: 10},
		{days: 365, want: 10},
	}

	for _, testCase := range testCases {
		postedAt := qualityNow.AddDate(0, 0, -testCase.days)
		got, age := freshness(&postedAt, qualityNow)
		if got != testCase.want {
			t.Fatalf("freshness(%d days) = %v, want %v", testCase.days, got, testCase.want)
		}
		if age != testCase.days {
			t.Fatalf("age for %d days = %d", testCase.days, age)
		}
	}
}

func TestFreshnessNeverIncreasesWithAge(t *testing.T) {
	prev := 101.0
	for days := 0; days <= 120; days++ {
		postedAt := qualityNow.AddDate(0, 0, -days)
		got, _ := freshness(&postedAt, qualityNow)
		if got > prev {
			t.Fatalf("freshness increased at %d days: %v > %v", days, got, prev)
		}
		prev = got
	}
}

func TestFreshnessFuturePostedAt(t *testing.T) {
	postedAt := qualityNow.AddDate(0, 0, 5)
	got, age := freshness(&postedAt, qualityNow)
	if got != 100 || age != 0 {
		t.Fatalf("future posted_at: freshness = %v age = %d, want 100 and 0", got, age)
	}
}

func TestScoreQualityBounded(t *testing.T) {
	postedAt := qualityNow.AddDate(0, 0, -1)
	result := ScoreQuality(QualityInput{
		Description:    richDescription(),
		Requirements:   []string{"a", "b", "c", "d", "e", "f"},
		Benefits:       []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		CompanyID:      "c-1",
		CompanyName:    "Acme",
		CompanyLogoURL: "logo",
		HasSalary:      true,
		PostedAt:       &postedAt,
		SkillCount:     40,
	}, qualityNow)

	if result.Score > 100 {
		t.Fatalf("Score = %v, exceeds 100", result.Score)
	}
}
