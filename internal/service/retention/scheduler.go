package retention

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxAge is how old a message may get before its conversation is purged.
	DefaultMaxAge = time.Hour
	// DefaultInterval is the pause between sweeps.
	DefaultInterval = time.Hour
	// sweepTimeout bounds a single sweep so a hung database call cannot stall the loop.
	sweepTimeout = 2 * time.Minute
)

// Sweeper deletes expired conversations.
type Sweeper interface {
	SweepExpired(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Scheduler runs a sweep at start and then on every interval until stopped.
// Sweep failures are logged and never stop the loop.
type Scheduler struct {
	sweeper  Sweeper
	maxAge   time.Duration
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewScheduler creates a scheduler with the default one-hour policy.
func NewScheduler(sweeper Sweeper) *Scheduler {
	return NewSchedulerWithPolicy(sweeper, DefaultMaxAge, DefaultInterval)
}

// NewSchedulerWithPolicy creates a scheduler with a custom age limit and interval.
func NewSchedulerWithPolicy(sweeper Sweeper, maxAge, interval time.Duration) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		maxAge:   maxAge,
		interval: interval,
	}
}

// Start launches the sweep loop. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(loopCtx)
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done
}

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.running = false
		close(s.done)
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.SweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[retention] scheduler stopping")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep inside its own error boundary and returns the
// number of conversations removed (0 on failure).
func (s *Scheduler) SweepOnce(ctx context.Context) (removed int64) {
	runID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[retention] sweep run=%s panicked: %v", runID, r)
			removed = 0
		}
	}()

	sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	start := time.Now()
	removed, err := s.sweeper.SweepExpired(sweepCtx, s.maxAge)
	if err != nil {
		log.Printf("[retention] sweep run=%s failed: %v", runID, err)
		return 0
	}

	log.Printf("[retention] sweep run=%s cleaned up %d old conversations in %s", runID, removed, time.Since(start))
	return removed
}
