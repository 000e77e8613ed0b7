package checker

import (
	"log"

	"github.com/rhiyo/nsmon/internal/models"
)

// Runner executes a check matrix sequentially. Zero value uses no retries and
// the default DNS exchange.
type Runner struct {
	Retries int
	Query   QueryFunc
}

// RunOutcome is the aggregate of one pass over the matrix. Results keep the
// matrix order so the report is deterministic.
type RunOutcome struct {
	Results   []models.CheckResult
	AnyFailed bool
}

// Run executes every check in order. It never exits early: a failure is
// recorded and the remaining checks still run, so the report is always
// complete.
func (r *Runner) Run(checks []models.Check) RunOutcome {
	results := make([]models.CheckResult, 0, len(checks))
	anyFailed := false

	for _, check := range checks {
		res := RunDNSCheck(check, r.Retries, r.Query)
		if res.Outcome == models.OutcomeFail {
			anyFailed = true
			if res.Failure == models.FailureMismatch {
				log.Printf("check failed: %s resolving %s: got %s, want %s",
					check.Server.Name, check.Record, res.ActualIP, check.ExpectedIP)
			} else {
				log.Printf("check failed: %s resolving %s: %s after %d attempts",
					check.Server.Name, check.Record, res.Failure, res.Attempts)
			}
		}
		results = append(results, res)
	}

	return RunOutcome{Results: results, AnyFailed: anyFailed}
}
