package monitor

import (
	"errors"
	"log"
	"sync"
	"time"
)

// Scheduler runs the service's check cycle on a fixed interval. A cycle that
// is still executing when the ticker fires is skipped, not queued.
type Scheduler struct {
	service  *Service
	interval time.Duration
	stopChan chan struct{}

	mu      sync.Mutex
	running bool
}

func NewScheduler(service *Service, interval time.Duration) *Scheduler {
	return &Scheduler{
		service:  service,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("Scheduler started, interval %s", s.interval)

	go s.loop()
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)

	log.Println("Scheduler stopped")
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runCycle()

	for {
		select {
		case <-ticker.C:
			s.runCycle()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) runCycle() {
	summary, err := s.service.TryRun()
	switch {
	case errors.Is(err, ErrRunInProgress):
		log.Println("skipping scheduled run: previous run still in progress")
	case err != nil:
		log.Printf("scheduled run failed: %v", err)
	case summary.AnyFailed:
		log.Printf("scheduled run %d: outage detected", summary.Run.ID)
	default:
		log.Printf("scheduled run %d: all services OK", summary.Run.ID)
	}
}
