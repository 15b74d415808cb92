package normalization

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"go.uber.org/goleak"
	"gorm.io/gorm"

	"jobtrust/internal/bootstrap/config"
	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/infrastructure/persistence/sqlite/model"
	"jobtrust/internal/infrastructure/persistence/sqlite/repository"
	"jobtrust/internal/infrastructure/persistence/sqlite/uow"
	"jobtrust/internal/policy"
	"jobtrust/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	svc      *Service
	taxonomy *repository.TaxonomyRepository
	clock    *time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "jobtrust.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&model.RawJob{},
		&model.NormalizedJob{},
		&model.EmployerProfile{},
		&model.JobReport{},
		&model.TaxonomyEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	policies, err := policy.NewStore("")
	if err != nil {
		t.Fatalf("policy store: %v", err)
	}

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	taxonomy := repository.NewTaxonomyRepository(db)
	svc := NewService(
		repository.NewJobRepository(db),
		repository.NewNormalizedJobRepository(db),
		repository.NewEmployerRepository(db),
		repository.NewReportRepository(db),
		taxonomy,
		uow.NewUnitOfWork(db),
		policies,
		config.PipelineConfig{
			DuplicateWindowDays:  30,
			DuplicateCandidates:  50,
			DuplicateThreshold:   0.85,
			TitleSimilarityFloor: 0.3,
			ScamThreshold:        60,
			BatchWorkers:         4,
		},
	).WithNow(func() time.Time { return clock })

	return fixture{svc: svc, taxonomy: taxonomy, clock: &clock}
}

const richDescription = `We are hiring a backend engineer to extend our order
management platform. You will own services end to end together with a small
product focused team.

The platform handles millions of daily events and we care about boring,
observable systems. You will design storage schemas, tune queries and keep
our public interfaces stable across releases.

We offer a transparent career ladder, a learning stipend and flexible
working hours in a hybrid setup.`

func richImport(externalID string) ImportJobInput {
	min, max := 120000.0, 150000.0
	return ImportJobInput{
		Source:      "boardly",
		ExternalID:  externalID,
		Title:       "Sr. SW Eng",
		CompanyID:   "emp-1",
		CompanyName: "Initech Labs",
		Location:    "Berlin, Germany",
		Description: richDescription,
		Requirements: []string{
			"5+ years building services with PostgreSQL and Docker",
			"Nice to have: Kubernetes, Terraform",
		},
		Benefits:       []string{"Learning stipend", "Hybrid work"},
		SalaryMin:      &min,
		SalaryMax:      &max,
		SalaryCurrency: "USD",
		SalaryPeriod:   "YEARLY",
	}
}

func mustImport(t *testing.T, svc *Service, input ImportJobInput) ports.RawJob {
	t.Helper()
	job, err := svc.ImportJob(context.Background(), input)
	if err != nil {
		t.Fatalf("import job: %v", err)
	}
	return job
}

func TestNormalizeJobPipeline(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	job := mustImport(t, fx.svc, richImport("rich-1"))

	row, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: job.JobID})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if row.Title.StandardizedTitle != "Senior Software Engineer" {
		t.Fatalf("title = %q", row.Title.StandardizedTitle)
	}
	if row.Title.Seniority != trust.SenioritySenior {
		t.Fatalf("seniority = %q", row.Title.Seniority)
	}
	found := false
	for _, skill := range row.Skills.Technical {
		if skill == "PostgreSQL" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected PostgreSQL in %v", row.Skills.Technical)
	}
	if row.Quality.Score <= 0 || row.Quality.Score > 100 {
		t.Fatalf("quality = %v", row.Quality.Score)
	}
	if row.Fraud.IsScam || row.Fraud.ScamScore >= 40 {
		t.Fatalf("benign posting flagged: %+v", row.Fraud)
	}
	if row.Duplicate.IsDuplicate {
		t.Fatalf("first posting marked duplicate")
	}
	if row.Location.CountryCode != "DE" {
		t.Fatalf("country = %q", row.Location.CountryCode)
	}
	if row.Compensation.MedianUSD == nil || *row.Compensation.MedianUSD != 135000 {
		t.Fatalf("median = %v", row.Compensation.MedianUSD)
	}
	if row.OverallConfidence <= 0 || row.OverallConfidence > 100 {
		t.Fatalf("confidence = %v", row.OverallConfidence)
	}
	if row.Versions != (ports.RuleVersions{
		Title:      trust.TitleRulesVersion,
		Skills:     trust.SkillsDictVersion,
		Similarity: trust.SimilarityVersion,
		Quality:    trust.QualityRulesVersion,
		Fraud:      trust.FraudHeuristicsVersion,
	}) {
		t.Fatalf("versions = %+v", row.Versions)
	}
	if row.SourceHash == "" || row.NormalizedAt == "" {
		t.Fatalf("bookkeeping missing: %+v", row)
	}

	entry, ok, err := fx.taxonomy.Lookup(ctx, ports.TaxonomyKindTitle, "Sr. SW Eng")
	if err != nil || !ok {
		t.Fatalf("title observation missing: ok=%v err=%v", ok, err)
	}
	if entry.Canonical != "Senior Software Engineer" {
		t.Fatalf("canonical = %q", entry.Canonical)
	}
}

func TestNormalizeJobIdempotent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	job := mustImport(t, fx.svc, richImport("idem-1"))

	first, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: job.JobID})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	*fx.clock = fx.clock.Add(48 * time.Hour)
	second, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: job.JobID})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.NormalizedAt != first.NormalizedAt {
		t.Fatalf("unchanged input was recomputed: %q vs %q", second.NormalizedAt, first.NormalizedAt)
	}

	forced, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: job.JobID, Force: true})
	if err != nil {
		t.Fatalf("forced run: %v", err)
	}
	if forced.NormalizedAt == first.NormalizedAt {
		t.Fatalf("force did not recompute")
	}
	if forced.Title != first.Title {
		t.Fatalf("recomputation changed the result: %+v vs %+v", forced.Title, first.Title)
	}
}

func TestNormalizeJobExactDuplicate(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	original := mustImport(t, fx.svc, richImport("dup-a"))
	repost := mustImport(t, fx.svc, richImport("dup-b"))

	if _, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: original.JobID}); err != nil {
		t.Fatalf("normalize original: %v", err)
	}
	row, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: repost.JobID})
	if err != nil {
		t.Fatalf("normalize repost: %v", err)
	}

	if !row.Duplicate.IsDuplicate {
		t.Fatalf("repost not detected")
	}
	if row.Duplicate.DuplicateOf != original.JobID {
		t.Fatalf("duplicate of %q, want %q", row.Duplicate.DuplicateOf, original.JobID)
	}
	if row.Duplicate.Score != 100 {
		t.Fatalf("score = %v", row.Duplicate.Score)
	}
	if len(row.Duplicate.Reasons) == 0 {
		t.Fatalf("no reasons recorded")
	}
}

func TestNormalizeJobNearDuplicate(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	original := mustImport(t, fx.svc, richImport("near-a"))

	tweaked := richImport("near-b")
	tweaked.Description = strings.Replace(tweaked.Description, "boring", "calm", 1)
	repost := mustImport(t, fx.svc, tweaked)

	if _, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: original.JobID}); err != nil {
		t.Fatalf("normalize original: %v", err)
	}
	row, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: repost.JobID})
	if err != nil {
		t.Fatalf("normalize repost: %v", err)
	}

	if !row.Duplicate.IsDuplicate {
		t.Fatalf("near duplicate not detected")
	}
	if row.Duplicate.DuplicateOf != original.JobID {
		t.Fatalf("duplicate of %q, want %q", row.Duplicate.DuplicateOf, original.JobID)
	}
	if row.Duplicate.Score >= 100 || row.Duplicate.Score < 85 {
		t.Fatalf("score = %v", row.Duplicate.Score)
	}
}

func TestNormalizeJobIgnoresInactiveCandidate(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	stale := richImport("inact-a")
	stale.Description = strings.Replace(stale.Description, "boring", "calm", 1)
	inactive := false
	stale.IsActive = &inactive
	original := mustImport(t, fx.svc, stale)

	repost := mustImport(t, fx.svc, richImport("inact-b"))

	if _, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: original.JobID}); err != nil {
		t.Fatalf("normalize original: %v", err)
	}
	row, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: repost.JobID})
	if err != nil {
		t.Fatalf("normalize repost: %v", err)
	}

	if row.Duplicate.IsDuplicate {
		t.Fatalf("inactive posting matched as duplicate: %+v", row.Duplicate)
	}
}

func TestNormalizeJobDuplicateWindowFollowsPostedAt(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	postedAt := func(ts string) *string { return &ts }

	// Same employer, near-identical text, posted months apart. The sibling
	// nine days from the target must win over the recent repost even
	// though the recent one is closer to the wall clock.
	sibling := richImport("win-sibling")
	sibling.Description = strings.Replace(sibling.Description, "boring", "calm", 1)
	sibling.PostedAt = postedAt("2025-09-01T00:00:00Z")
	siblingJob := mustImport(t, fx.svc, sibling)

	recent := richImport("win-recent")
	recent.Description = strings.Replace(recent.Description, "boring", "quiet", 1)
	recent.PostedAt = postedAt("2026-02-20T00:00:00Z")
	mustImport(t, fx.svc, recent)

	target := richImport("win-target")
	target.PostedAt = postedAt("2025-09-10T00:00:00Z")
	targetJob := mustImport(t, fx.svc, target)

	row, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: targetJob.JobID})
	if err != nil {
		t.Fatalf("normalize target: %v", err)
	}

	if !row.Duplicate.IsDuplicate {
		t.Fatalf("in-window sibling not detected")
	}
	if row.Duplicate.DuplicateOf != siblingJob.JobID {
		t.Fatalf("duplicate of %q, want the posting inside the target's window %q",
			row.Duplicate.DuplicateOf, siblingJob.JobID)
	}
}

func TestNormalizeJobFlagsPaymentScam(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	input := richImport("scam-1")
	input.Description = "Easy remote position. An upfront payment of 50 dollars covers your starter kit, then you earn weekly."
	job := mustImport(t, fx.svc, input)

	row, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: job.JobID})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if row.Fraud.ScamScore < 80 {
		t.Fatalf("scam score = %v", row.Fraud.ScamScore)
	}
	if !row.Fraud.IsScam {
		t.Fatalf("payment demand not flagged")
	}
	if row.Fraud.RiskLevel != trust.RiskCritical {
		t.Fatalf("risk = %q", row.Fraud.RiskLevel)
	}
}

func TestNormalizeBatchKeepsOrderAndIsolatesFailures(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	first := mustImport(t, fx.svc, richImport("batch-1"))
	second := mustImport(t, fx.svc, richImport("batch-2"))

	results, err := fx.svc.NormalizeBatch(ctx, []string{first.JobID, "missing", second.JobID}, false)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].JobID != first.JobID || results[2].JobID != second.JobID {
		t.Fatalf("order not preserved: %+v", results)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("valid postings failed: %v %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil || !errs.IsNotFound(results[1].Err) {
		t.Fatalf("missing posting error = %v", results[1].Err)
	}
}

func TestScoreEmployerCreatesNeutralProfile(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	profile, err := fx.svc.ScoreEmployer(ctx, "emp-new")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if profile.EmployerID != "emp-new" {
		t.Fatalf("employer id = %q", profile.EmployerID)
	}
	if profile.CredibilityScore != 5 {
		t.Fatalf("score = %v", profile.CredibilityScore)
	}
	if profile.Status != trust.VerificationSuspicious {
		t.Fatalf("status = %q", profile.Status)
	}

	stored, err := fx.svc.GetEmployer(ctx, "emp-new")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.CredibilityScore != profile.CredibilityScore || stored.Status != profile.Status {
		t.Fatalf("assessment not persisted: %+v", stored)
	}
}

func TestVerifiedScamReportBlacklistsEmployer(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	job := mustImport(t, fx.svc, richImport("report-1"))
	if _, err := fx.svc.ScoreEmployer(ctx, "emp-1"); err != nil {
		t.Fatalf("seed employer: %v", err)
	}

	report, err := fx.svc.SubmitReport(ctx, SubmitReportInput{
		JobID:       job.JobID,
		ReporterID:  "user-9",
		Type:        trust.ReportScam,
		Description: "They asked for money after the interview.",
		Evidence:    []string{"https://example.com/screenshot.png"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if report.Status != trust.ReportPending {
		t.Fatalf("status = %q", report.Status)
	}
	if report.EmployerID != "emp-1" {
		t.Fatalf("employer id = %q", report.EmployerID)
	}
	if report.Severity != trust.RiskHigh {
		t.Fatalf("severity = %q", report.Severity)
	}

	resolved, err := fx.svc.ResolveReport(ctx, ResolveReportInput{
		ReportID:   report.ReportID,
		Status:     trust.ReportVerified,
		ResolvedBy: "mod-1",
		Resolution: "Payment demand confirmed from the evidence.",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != trust.ReportVerified || resolved.ResolvedAt == nil {
		t.Fatalf("resolution not recorded: %+v", resolved)
	}
	if resolved.ResolvedBy != "mod-1" {
		t.Fatalf("resolver = %q", resolved.ResolvedBy)
	}

	employer, err := fx.svc.GetEmployer(ctx, "emp-1")
	if err != nil {
		t.Fatalf("get employer: %v", err)
	}
	if employer.Facts.ScamReportsCount != 1 || employer.Facts.VerifiedScamCount != 1 {
		t.Fatalf("counters = %d/%d", employer.Facts.ScamReportsCount, employer.Facts.VerifiedScamCount)
	}
	if employer.Status != trust.VerificationBlacklisted {
		t.Fatalf("status = %q", employer.Status)
	}
	if employer.Risk != trust.RiskCritical {
		t.Fatalf("risk = %q", employer.Risk)
	}

	if _, err := fx.svc.ResolveReport(ctx, ResolveReportInput{
		ReportID: report.ReportID,
		Status:   trust.ReportDismissed,
	}); err == nil {
		t.Fatalf("second resolution accepted")
	}
}

func TestSubmitReportUnknownJob(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.SubmitReport(context.Background(), SubmitReportInput{
		JobID: "missing",
		Type:  trust.ReportScam,
	})
	if !errs.IsNotFound(err) {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, ports.ErrJobNotFound) {
		t.Fatalf("err chain = %v", err)
	}
}

func TestNormalizeJobUsesSeededTitleMapping(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if err := fx.svc.SeedTaxonomy(ctx, []ports.TaxonomyEntry{{
		Kind:      ports.TaxonomyKindTitle,
		RawTerm:   "Growth Ninja",
		Canonical: "Marketing Specialist",
		UpdatedAt: "2026-03-01T00:00:00Z",
	}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	input := richImport("seeded-1")
	input.Title = "Growth Ninja"
	job := mustImport(t, fx.svc, input)

	row, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: job.JobID})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if row.Title.StandardizedTitle != "Marketing Specialist" {
		t.Fatalf("title = %q", row.Title.StandardizedTitle)
	}

	entry, ok, err := fx.taxonomy.Lookup(ctx, ports.TaxonomyKindTitle, "growth ninja")
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if !entry.Verified {
		t.Fatalf("seeded entry lost verified flag")
	}
	if entry.OccurrenceCount != 1 {
		t.Fatalf("occurrence count = %d", entry.OccurrenceCount)
	}
}

func TestSnapshotsDegradeWhenMissing(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	quality, ok, err := fx.svc.QualitySnapshot(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("quality snapshot: ok=%v err=%v", ok, err)
	}
	if quality.Score != 0 {
		t.Fatalf("quality = %+v", quality)
	}
	credibility, ok, err := fx.svc.CredibilitySnapshot(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("credibility snapshot: ok=%v err=%v", ok, err)
	}
	if credibility.Score != 0 {
		t.Fatalf("credibility = %+v", credibility)
	}

	job := mustImport(t, fx.svc, richImport("snap-1"))
	if _, err := fx.svc.NormalizeJob(ctx, NormalizeJobInput{JobID: job.JobID}); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	quality, ok, err = fx.svc.QualitySnapshot(ctx, job.JobID)
	if err != nil || !ok {
		t.Fatalf("quality snapshot after normalize: ok=%v err=%v", ok, err)
	}
	if quality.Score <= 0 {
		t.Fatalf("quality = %+v", quality)
	}
}

func TestVerifyEmployerUpdatesAssessment(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	if _, err := fx.svc.ScoreEmployer(ctx, "emp-v"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	profile, err := fx.svc.VerifyEmployer(ctx, "emp-v", true, "admin-7", "registry check passed")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !profile.Facts.IsVerifiedEmployer {
		t.Fatalf("verified flag not set")
	}

	stored, err := fx.svc.GetEmployer(ctx, "emp-v")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.VerifiedBy != "admin-7" || stored.VerificationNotes != "registry check passed" {
		t.Fatalf("verification metadata = %q / %q", stored.VerifiedBy, stored.VerificationNotes)
	}
}
