package trust

import (
	"math"
	"strings"
	"testing"

	"jobtrust/internal/policy"
)

const cleanDescription = "We are a product company building developer tools for data teams. " +
	"You will design and ship backend services in a small team. We value code review " +
	"and thoughtful testing. The role includes a quarterly on-call rotation."

func cleanFraudInput() FraudInput {
	return FraudInput{
		Description:     cleanDescription,
		CompanyID:       "c-1",
		CompanyName:     "Acme Tools",
		CompanyLogoURL:  "https://acme.example/logo.png",
		SalaryMin:       floatPtr(60000),
		SalaryMax:       floatPtr(80000),
		ExperienceLevel: "entry",
	}
}

func TestDetectFraudCleanPosting(t *testing.T) {
	result := DetectFraud(cleanFraudInput(), nil, policy.Default(), 70)

	if result.ScamScore != 0 {
		t.Fatalf("ScamScore = %v, want 0; indicators: %v", result.ScamScore, result.Indicators)
	}
	if result.IsScam {
		t.Fatalf("clean posting flagged as scam: %+v", result)
	}
	if result.RiskLevel != RiskLow {
		t.Fatalf("RiskLevel = %q, want LOW", result.RiskLevel)
	}
}

func TestDetectFraudPaymentDemand(t *testing.T) {
	input := cleanFraudInput()
	input.Description = cleanDescription + " A small training fee is collected during onboarding."

	result := DetectFraud(input, nil, policy.Default(), 70)

	if !result.Signals.RequiresPayment {
		t.Fatalf("RequiresPayment not set: %+v", result.Signals)
	}
	if result.ScamScore != 80 {
		t.Fatalf("ScamScore = %v, want the payment floor 80", result.ScamScore)
	}
	if !result.IsScam {
		t.Fatalf("payment demand must flag as scam")
	}
	if result.RiskLevel != RiskCritical {
		t.Fatalf("RiskLevel = %q, want CRITICAL", result.RiskLevel)
	}
}

func TestDetectFraudThresholdBoundary(t *testing.T) {
	input := cleanFraudInput()
	input.Requirements = []string{"Pay the registration fee before your first shift."}

	// The payment floor pins the score at exactly 80.
	at := DetectFraud(input, nil, policy.Default(), 80)
	if !at.IsScam {
		t.Fatalf("score %v at threshold 80 must flag", at.ScamScore)
	}
	above := DetectFraud(input, nil, policy.Default(), 80.5)
	if above.IsScam {
		t.Fatalf("score %v below threshold 80.5 must not flag", above.ScamScore)
	}
}

func TestDetectFraudSuspiciousSalary(t *testing.T) {
	input := cleanFraudInput()
	input.SalaryMin = floatPtr(400000)
	input.SalaryMax = floatPtr(500000)

	result := DetectFraud(input, nil, policy.Default(), 70)

	if !result.Signals.SuspiciousSalary || !result.Signals.TooGoodToBeTrue {
		t.Fatalf("salary signals not set: %+v", result.Signals)
	}
	if math.Abs(result.ScamScore-6) > 0.01 {
		t.Fatalf("ScamScore = %v, want ~6 (40-point signal at 0.15 weight)", result.ScamScore)
	}
	if result.IsScam {
		t.Fatalf("suspicious salary alone must not cross the scam threshold")
	}
}

func TestDetectFraudWideSalaryRange(t *testing.T) {
	input := cleanFraudInput()
	input.SalaryMin = floatPtr(20000)
	input.SalaryMax = floatPtr(120000)

	result := DetectFraud(input, nil, policy.Default(), 70)
	found := false
	for _, indicator := range result.Indicators {
		if strings.Contains(indicator, "suspiciously wide") {
			found = true
		}
	}
	if !found {
		t.Fatalf("indicators = %v, missing wide-range warning", result.Indicators)
	}
}

func TestDetectFraudBlacklistedEmployer(t *testing.T) {
	employer := &EmployerSnapshot{Blacklisted: true}
	result := DetectFraud(cleanFraudInput(), employer, policy.Default(), 70)

	if !result.Signals.BlacklistedPoster || !result.Signals.FakeCompany {
		t.Fatalf("blacklist signals not set: %+v", result.Signals)
	}
	if math.Abs(result.ScamScore-25) > 0.01 {
		t.Fatalf("ScamScore = %v, want ~25 (100-point signal at 0.25 weight)", result.ScamScore)
	}
}

func TestDetectFraudLowCredibilityEmployer(t *testing.T) {
	employer := &EmployerSnapshot{CredibilityScore: 25, ScamReports: 2}
	result := DetectFraud(cleanFraudInput(), employer, policy.Default(), 70)

	// 2 reports at 15 each plus the very-low-credibility penalty of 40.
	if math.Abs(result.ScamScore-17.5) > 0.01 {
		t.Fatalf("ScamScore = %v, want ~17.5", result.ScamScore)
	}
}

func TestDetectFraudScamLanguage(t *testing.T) {
	input := cleanFraudInput()
	input.Description = "Make easy money from day one with quick money opportunities and no interview. " +
		"Apply now and act fast before the openings are gone. This role fills very quickly."

	result := DetectFraud(input, nil, policy.Default(), 70)

	found := false
	for _, indicator := range result.Indicators {
		if strings.Contains(indicator, "scam phrases") {
			found = true
		}
	}
	if !found {
		t.Fatalf("indicators = %v, missing scam-phrase warning", result.Indicators)
	}
	if result.ScamScore <= 0 {
		t.Fatalf("ScamScore = %v, want > 0", result.ScamScore)
	}
}

func TestDetectFraudPhishingLinks(t *testing.T) {
	input := cleanFraudInput()
	input.ApplicationURL = "http://203.0.113.9/apply"

	result := DetectFraud(input, nil, policy.Default(), 70)
	if !result.Signals.PhishingLinks {
		t.Fatalf("raw IP application link did not set PhishingLinks: %+v", result.Signals)
	}

	input.ApplicationURL = "https://careers.acme.example/jobs/42"
	result = DetectFraud(input, nil, policy.Default(), 70)
	if result.Signals.PhishingLinks {
		t.Fatalf("normal link set PhishingLinks")
	}
}

func TestDetectFraudPersonalEmail(t *testing.T) {
	input := cleanFraudInput()
	input.ApplyEmail = "hiring.manager@gmail.com"

	result := DetectFraud(input, nil, policy.Default(), 70)
	if math.Abs(result.ScamScore-3.75) > 0.01 {
		t.Fatalf("ScamScore = %v, want ~3.75 (25-point signal at 0.15 weight)", result.ScamScore)
	}
}

func TestDetectFraudDeterministic(t *testing.T) {
	input := cleanFraudInput()
	input.Description = cleanDescription + " A small training fee is collected during onboarding."

	first := DetectFraud(input, nil, policy.Default(), 70)
	second := DetectFraud(input, nil, policy.Default(), 70)
	if first.ScamScore != second.ScamScore || first.RiskLevel != second.RiskLevel {
		t.Fatalf("repeated runs differ: %+v vs %+v", first, second)
	}
	if len(first.Indicators) != len(second.Indicators) {
		t.Fatalf("indicator lists differ: %v vs %v", first.Indicators, second.Indicators)
	}
}
