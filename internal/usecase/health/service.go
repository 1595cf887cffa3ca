package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	completions CompletionChecker
	catalog     CatalogIndex
}

// New creates a Service. completions can be nil.
func New(completions CompletionChecker, catalog CatalogIndex) *Service {
	return &Service{completions: completions, catalog: catalog}
}

// Check runs health checks against all components. An empty image catalog
// is reported as an error check: the pipeline still serves, but every
// local fallback collapses to the default image.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.completions != nil {
		if err := s.completions.HealthCheck(ctx); err != nil {
			checks["completions"] = CheckError
		} else {
			checks["completions"] = CheckOK
		}
	}

	if len(s.catalog.Prefixes()) == 0 {
		checks["image_catalog"] = CheckError
	} else {
		checks["image_catalog"] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
