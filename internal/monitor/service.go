package monitor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rhiyo/nsmon/internal/checker"
	"github.com/rhiyo/nsmon/internal/config"
	"github.com/rhiyo/nsmon/internal/models"
	"github.com/rhiyo/nsmon/internal/storage"
	"github.com/rhiyo/nsmon/internal/tracker"
)

// ErrRunInProgress is returned when a run is requested while another is
// still executing. Checks within a run are strictly sequential, so runs
// never overlap.
var ErrRunInProgress = errors.New("a check run is already in progress")

// Summary is the outcome of one full check cycle.
type Summary struct {
	Run       models.Run
	AnyFailed bool
	Report    string
}

// Service executes the full check cycle: build the matrix, run every check,
// persist the run, and reconcile the outage issue when anything failed.
type Service struct {
	cfg    *config.Config
	runner *checker.Runner
	runs   *storage.RunRepo
	issues tracker.IssueAPI

	mu      sync.Mutex
	running bool
}

// New assembles a Service. runs may be nil to skip persistence; issues may be
// nil to skip tracker reconciliation.
func New(cfg *config.Config, runner *checker.Runner, runs *storage.RunRepo, issues tracker.IssueAPI) *Service {
	return &Service{cfg: cfg, runner: runner, runs: runs, issues: issues}
}

// TryRun executes one cycle unless a run is already in flight.
func (s *Service) TryRun() (Summary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Summary{}, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	return s.runOnce()
}

func (s *Service) runOnce() (Summary, error) {
	checks := checker.BuildChecks(s.cfg.Servers)
	outcome := s.runner.Run(checks)
	report := checker.FormatReport(outcome.Results)

	summary := Summary{AnyFailed: outcome.AnyFailed, Report: report}

	if s.runs != nil {
		run, err := s.runs.Create(outcome.AnyFailed, report, outcome.Results)
		if err != nil {
			return summary, fmt.Errorf("recording run: %w", err)
		}
		summary.Run = run
	}

	if outcome.AnyFailed && s.issues != nil {
		if err := tracker.Reconcile(s.issues, report); err != nil {
			return summary, err
		}
	}

	return summary, nil
}
