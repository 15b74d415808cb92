package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/infrastructure/persistence/sqlite/model"
	"jobtrust/internal/ports"
)

func setupDB(t *testing.T) *gorm.DB {
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
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func sampleJob(externalID string) ports.RawJob {
	now := nowStamp()
	return ports.RawJob{
		Source:       "boardx",
		ExternalID:   externalID,
		Title:        "Backend Engineer",
		CompanyID:    "c-1",
		CompanyName:  "Acme",
		Location:     "Amsterdam",
		Description:  "Build backend services.",
		Requirements: []string{"Go experience"},
		Benefits:     []string{"Remote budget"},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUpsertJobIdempotentOnSourceExternalID(t *testing.T) {
	repo := NewJobRepository(setupDB(t))
	ctx := context.Background()

	first, err := repo.UpsertJob(ctx, sampleJob("ext-1"))
	if err != nil {
		t.Fatalf("UpsertJob() error = %v", err)
	}

	update := sampleJob("ext-1")
	update.Title = "Senior Backend Engineer"
	second, err := repo.UpsertJob(ctx, update)
	if err != nil {
		t.Fatalf("UpsertJob() second error = %v", err)
	}

	if second.JobID != first.JobID {
		t.Fatalf("re-import changed job_id: %q vs %q", second.JobID, first.JobID)
	}
	if second.Title != "Senior Backend Engineer" {
		t.Fatalf("Title = %q, want refreshed title", second.Title)
	}

	jobs, err := repo.ListJobs(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("ListJobs() len = %d, want 1", len(jobs))
	}
}

func TestGetJobNotFound(t *testing.T) {
	repo := NewJobRepository(setupDB(t))

	_, err := repo.GetJob(context.Background(), "missing")
	if !errors.Is(err, ports.ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
	if !errs.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found classification", err)
	}
}

func TestListDuplicateCandidates(t *testing.T) {
	repo := NewJobRepository(setupDB(t))
	ctx := context.Background()

	var subject ports.RawJob
	for i, externalID := range []string{"ext-1", "ext-2", "ext-3"} {
		job, err := repo.UpsertJob(ctx, sampleJob(externalID))
		if err != nil {
			t.Fatalf("UpsertJob(%s) error = %v", externalID, err)
		}
		if i == 0 {
			subject = job
		}
	}
	other := sampleJob("ext-4")
	other.CompanyID = "c-2"
	if _, err := repo.UpsertJob(ctx, other); err != nil {
		t.Fatalf("UpsertJob(other company) error = %v", err)
	}

	candidates, err := repo.ListDuplicateCandidates(ctx, ports.DuplicateCandidateQuery{
		CompanyID:    "c-1",
		ExcludeJobID: subject.JobID,
		Limit:        10,
	})
	if err != nil {
		t.Fatalf("ListDuplicateCandidates() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(candidates))
	}
	for _, candidate := range candidates {
		if candidate.JobID == subject.JobID {
			t.Fatalf("subject included in its own candidates")
		}
		if candidate.CompanyID != "c-1" {
			t.Fatalf("candidate from wrong company: %q", candidate.CompanyID)
		}
	}
}

func TestListDuplicateCandidatesSkipsInactiveAndOutOfWindow(t *testing.T) {
	repo := NewJobRepository(setupDB(t))
	ctx := context.Background()

	postedAt := func(ts string) *string { return &ts }

	inWindow := sampleJob("ext-in")
	inWindow.PostedAt = postedAt("2026-03-05T00:00:00Z")
	if _, err := repo.UpsertJob(ctx, inWindow); err != nil {
		t.Fatalf("UpsertJob(in window) error = %v", err)
	}

	inactive := sampleJob("ext-inactive")
	inactive.PostedAt = postedAt("2026-03-05T00:00:00Z")
	inactive.IsActive = false
	if _, err := repo.UpsertJob(ctx, inactive); err != nil {
		t.Fatalf("UpsertJob(inactive) error = %v", err)
	}

	tooOld := sampleJob("ext-old")
	tooOld.PostedAt = postedAt("2026-01-10T00:00:00Z")
	if _, err := repo.UpsertJob(ctx, tooOld); err != nil {
		t.Fatalf("UpsertJob(too old) error = %v", err)
	}

	tooNew := sampleJob("ext-new")
	tooNew.PostedAt = postedAt("2026-04-20T00:00:00Z")
	if _, err := repo.UpsertJob(ctx, tooNew); err != nil {
		t.Fatalf("UpsertJob(too new) error = %v", err)
	}

	candidates, err := repo.ListDuplicateCandidates(ctx, ports.DuplicateCandidateQuery{
		CompanyID:   "c-1",
		PostedFrom:  "2026-02-01T00:00:00Z",
		PostedUntil: "2026-04-01T00:00:00Z",
		Limit:       10,
	})
	if err != nil {
		t.Fatalf("ListDuplicateCandidates() error = %v", err)
	}
	if len(candidates) != 1 || candidates[0].ExternalID != "ext-in" {
		t.Fatalf("candidates = %+v, want only the active in-window posting", candidates)
	}
}

func TestNormalizedJobRoundTrip(t *testing.T) {
	db := setupDB(t)
	jobs := NewJobRepository(db)
	normalized := NewNormalizedJobRepository(db)
	ctx := context.Background()

	job, err := jobs.UpsertJob(ctx, sampleJob("ext-1"))
	if err != nil {
		t.Fatalf("UpsertJob() error = %v", err)
	}

	row := ports.NormalizedJob{
		JobID: job.JobID,
		Title: trust.TitleResult{
			StandardizedTitle: "Backend Engineer",
			Seniority:         trust.SenioritySenior,
			Category:          trust.CategoryEngineering,
			RoleFamily:        "Software Engineer",
			Confidence:        85,
		},
		Skills: trust.SkillProfile{
			Technical:  []string{"Go", "PostgreSQL"},
			Required:   []string{"Go"},
			Confidence: 75,
		},
		Fingerprint: trust.Fingerprint{
			TitleHash:       "aaaaaaaaaaaaaaaa",
			CompanyHash:     "bbbbbbbbbbbbbbbb",
			LocationHash:    "cccccccccccccccc",
			DescriptionHash: "dddddddddddddddd",
			ContentHash:     "eeeeeeeeeeeeeeee",
		},
		Quality: trust.QualityResult{
			Score:          64,
			Signals:        trust.QualitySignals{HasSalary: true, DescriptionLength: 240},
			FreshnessScore: 90,
			AgeDays:        9,
		},
		Fraud: trust.FraudResult{
			ScamScore:  12,
			Indicators: []string{"No salary information provided"},
			RiskLevel:  trust.RiskLow,
		},
		Location:          trust.LocationInfo{CountryCode: "NL"},
		Application:       trust.ApplyModerate,
		ApplyMinutes:      15,
		OverallConfidence: 71,
		Versions: ports.RuleVersions{
			Title:  trust.TitleRulesVersion,
			Skills: trust.SkillsDictVersion,
		},
		SourceHash:   "ffffffffffffffff",
		NormalizedAt: nowStamp(),
	}
	if err := normalized.Upsert(ctx, row); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := normalized.GetByJobID(ctx, job.JobID)
	if err != nil {
		t.Fatalf("GetByJobID() error = %v", err)
	}
	if got.Title != row.Title {
		t.Fatalf("Title = %+v, want %+v", got.Title, row.Title)
	}
	if len(got.Skills.Technical) != 2 || got.Skills.Technical[0] != "Go" {
		t.Fatalf("Skills = %+v", got.Skills)
	}
	if got.Quality.Signals != row.Quality.Signals {
		t.Fatalf("Quality.Signals = %+v, want %+v", got.Quality.Signals, row.Quality.Signals)
	}
	if got.Versions != row.Versions {
		t.Fatalf("Versions = %+v, want %+v", got.Versions, row.Versions)
	}

	// Upsert over the same job id must replace, not duplicate.
	row.Quality.Score = 70
	if err := normalized.Upsert(ctx, row); err != nil {
		t.Fatalf("Upsert() again error = %v", err)
	}
	got, err = normalized.GetByJobID(ctx, job.JobID)
	if err != nil {
		t.Fatalf("GetByJobID() after upsert error = %v", err)
	}
	if got.Quality.Score != 70 {
		t.Fatalf("Quality.Score = %v, want 70", got.Quality.Score)
	}
}

func TestFindJobIDByContentHash(t *testing.T) {
	db := setupDB(t)
	normalized := NewNormalizedJobRepository(db)
	ctx := context.Background()

	for i, jobID := range []string{"job-1", "job-2"} {
		row := ports.NormalizedJob{
			JobID:        jobID,
			Fingerprint:  trust.Fingerprint{ContentHash: "samehash00000000"},
			NormalizedAt: time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(time.RFC3339Nano),
		}
		if err := normalized.Upsert(ctx, row); err != nil {
			t.Fatalf("Upsert(%s) error = %v", jobID, err)
		}
	}

	got, err := normalized.FindJobIDByContentHash(ctx, "samehash00000000", "job-2")
	if err != nil {
		t.Fatalf("FindJobIDByContentHash() error = %v", err)
	}
	if got != "job-1" {
		t.Fatalf("match = %q, want job-1 (earliest normalized)", got)
	}

	none, err := normalized.FindJobIDByContentHash(ctx, "otherhash0000000", "")
	if err != nil {
		t.Fatalf("FindJobIDByContentHash(miss) error = %v", err)
	}
	if none != "" {
		t.Fatalf("match = %q, want empty", none)
	}
}

func TestEmployerReportCounters(t *testing.T) {
	repo := NewEmployerRepository(setupDB(t))
	ctx := context.Background()
	now := nowStamp()

	profile, err := repo.CreateEmployer(ctx, ports.EmployerProfile{
		Name:      "Acme",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEmployer() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.ApplyReportCounters(ctx, profile.EmployerID,
			ports.ReportCounters{ScamReports: 1}, nowStamp()); err != nil {
			t.Fatalf("ApplyReportCounters() error = %v", err)
		}
	}
	if err := repo.ApplyReportCounters(ctx, profile.EmployerID,
		ports.ReportCounters{VerifiedScams: 1, FakeJobs: 1}, nowStamp()); err != nil {
		t.Fatalf("ApplyReportCounters() verified error = %v", err)
	}

	got, err := repo.GetEmployer(ctx, profile.EmployerID)
	if err != nil {
		t.Fatalf("GetEmployer() error = %v", err)
	}
	if got.Facts.ScamReportsCount != 3 {
		t.Fatalf("ScamReportsCount = %d, want 3", got.Facts.ScamReportsCount)
	}
	if got.Facts.VerifiedScamCount != 1 || got.Facts.FakeJobReports != 1 {
		t.Fatalf("counters = %+v", got.Facts)
	}

	if err := repo.ApplyReportCounters(ctx, "missing", ports.ReportCounters{}, nowStamp()); !errors.Is(err, ports.ErrEmployerNotFound) {
		t.Fatalf("err = %v, want ErrEmployerNotFound", err)
	}
}

func TestEmployerAssessmentUpdate(t *testing.T) {
	repo := NewEmployerRepository(setupDB(t))
	ctx := context.Background()
	now := nowStamp()

	profile, err := repo.CreateEmployer(ctx, ports.EmployerProfile{Name: "Acme", CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("CreateEmployer() error = %v", err)
	}

	breakdown := trust.CredibilityBreakdown{CompanyAge: 20, OnlinePresence: 10}
	if err := repo.UpdateAssessment(ctx, profile.EmployerID, 72, breakdown,
		trust.VerificationPending, trust.RiskLow, nowStamp()); err != nil {
		t.Fatalf("UpdateAssessment() error = %v", err)
	}

	got, err := repo.GetEmployer(ctx, profile.EmployerID)
	if err != nil {
		t.Fatalf("GetEmployer() error = %v", err)
	}
	if got.CredibilityScore != 72 || got.Status != trust.VerificationPending {
		t.Fatalf("assessment = score %v status %q", got.CredibilityScore, got.Status)
	}
	if got.Breakdown != breakdown {
		t.Fatalf("Breakdown = %+v, want %+v", got.Breakdown, breakdown)
	}
}

func TestReportLifecycle(t *testing.T) {
	repo := NewReportRepository(setupDB(t))
	ctx := context.Background()

	report, err := repo.CreateReport(ctx, ports.JobReport{
		JobID:       "job-1",
		EmployerID:  "emp-1",
		ReporterID:  "user-1",
		Type:        trust.ReportScam,
		Description: "They asked for a deposit.",
		Evidence:    []string{"screenshot.png"},
		CreatedAt:   nowStamp(),
	})
	if err != nil {
		t.Fatalf("CreateReport() error = %v", err)
	}
	if report.Status != trust.ReportPending {
		t.Fatalf("Status = %q, want PENDING default", report.Status)
	}

	if err := repo.SetResolution(ctx, report.ReportID, trust.ReportVerified,
		"mod-9", "Employer confirmed charging applicants.", nowStamp()); err != nil {
		t.Fatalf("SetResolution() error = %v", err)
	}

	got, err := repo.GetReport(ctx, report.ReportID)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got.Status != trust.ReportVerified || got.ResolvedAt == nil {
		t.Fatalf("resolved report = %+v", got)
	}
	if got.ResolvedBy != "mod-9" {
		t.Fatalf("ResolvedBy = %q", got.ResolvedBy)
	}

	forJob, err := repo.ListReportsForJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("ListReportsForJob() error = %v", err)
	}
	if len(forJob) != 1 || forJob[0].Evidence[0] != "screenshot.png" {
		t.Fatalf("ListReportsForJob() = %+v", forJob)
	}
}

func TestTaxonomyObservationIncrements(t *testing.T) {
	repo := NewTaxonomyRepository(setupDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.RecordObservation(ctx, ports.TaxonomyKindTitle,
			"Sr. SW Eng", "Senior Software Engineer", nowStamp()); err != nil {
			t.Fatalf("RecordObservation() error = %v", err)
		}
	}

	entry, found, err := repo.Lookup(ctx, ports.TaxonomyKindTitle, "sr. sw eng")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !found {
		t.Fatalf("Lookup() found = false")
	}
	if entry.OccurrenceCount != 3 {
		t.Fatalf("OccurrenceCount = %d, want 3", entry.OccurrenceCount)
	}
	if entry.Canonical != "Senior Software Engineer" {
		t.Fatalf("Canonical = %q", entry.Canonical)
	}

	canonical, err := repo.IsCanonical(ctx, ports.TaxonomyKindTitle, "Senior Software Engineer")
	if err != nil {
		t.Fatalf("IsCanonical() error = %v", err)
	}
	if !canonical {
		t.Fatalf("IsCanonical() = false, want true")
	}
}

func TestTaxonomySeedKeepsCounts(t *testing.T) {
	repo := NewTaxonomyRepository(setupDB(t))
	ctx := context.Background()

	if err := repo.RecordObservation(ctx, ports.TaxonomyKindSkill, "golang", "Go", nowStamp()); err != nil {
		t.Fatalf("RecordObservation() error = %v", err)
	}
	if err := repo.SeedEntries(ctx, []ports.TaxonomyEntry{
		{Kind: ports.TaxonomyKindSkill, RawTerm: "golang", Canonical: "Go", UpdatedAt: nowStamp()},
		{Kind: ports.TaxonomyKindSkill, RawTerm: "js", Canonical: "JavaScript", UpdatedAt: nowStamp()},
	}); err != nil {
		t.Fatalf("SeedEntries() error = %v", err)
	}

	entry, found, err := repo.Lookup(ctx, ports.TaxonomyKindSkill, "golang")
	if err != nil || !found {
		t.Fatalf("Lookup() = %v found=%v", err, found)
	}
	if entry.OccurrenceCount != 1 {
		t.Fatalf("seed reset occurrence count: %d", entry.OccurrenceCount)
	}

	entries, err := repo.ListEntries(ctx, ports.TaxonomyKindSkill, 0)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListEntries() len = %d, want 2", len(entries))
	}
}
