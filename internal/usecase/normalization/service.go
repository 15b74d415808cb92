package normalization

import (
	"sync"
	"time"

	"jobtrust/internal/bootstrap/config"
	"jobtrust/internal/policy"
	"jobtrust/internal/ports"
)

// Service hosts the normalization and trust usecases. All derived state it
// writes is a pure function of the stored inputs, the active policy snapshot
// and the configured thresholds.
type Service struct {
	jobs       ports.JobRepository
	normalized ports.NormalizedJobRepository
	employers  ports.EmployerRepository
	reports    ports.ReportRepository
	taxonomy   ports.TaxonomyRepository
	uow        ports.UnitOfWork
	policies   *policy.Store
	cfg        config.PipelineConfig

	// now is injectable so repeated runs over fixed input are
	// reproducible in tests.
	now func() time.Time

	// employerLocks serializes credibility recomputation per employer;
	// different employers proceed concurrently.
	employerLocks sync.Map
}

func NewService(
	jobs ports.JobRepository,
	normalized ports.NormalizedJobRepository,
	employers ports.EmployerRepository,
	reports ports.ReportRepository,
	taxonomy ports.TaxonomyRepository,
	uow ports.UnitOfWork,
	policies *policy.Store,
	cfg config.PipelineConfig,
) *Service {
	return &Service{
		jobs:       jobs,
		normalized: normalized,
		employers:  employers,
		reports:    reports,
		taxonomy:   taxonomy,
		uow:        uow,
		policies:   policies,
		cfg:        cfg,
		now:        time.Now,
	}
}

// WithNow overrides the clock. Intended for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) nowUTC() time.Time {
	return s.now().UTC()
}

func (s *Service) nowUTCString() string {
	return s.nowUTC().Format(time.RFC3339Nano)
}

func (s *Service) lockEmployer(employerID string) func() {
	value, _ := s.employerLocks.LoadOrStore(employerID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) activePolicy() policy.Policy {
	if s.policies == nil {
		return policy.Default()
	}
	return s.policies.Snapshot()
}
