package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/teambition/rrule-go"
	"gorm.io/gorm"

	"hangout_app/internal/services"
)

// Procedures are the opaque database-side reconciliation operations the
// worker delegates to. Their internal rules (completion quorum, invitation
// tally, conditional cascade) are not this package's business.
type Procedures interface {
	AutoCompletePlans(ctx context.Context) error
	ProcessInvitationPoll(ctx context.Context, pollID string) error
	ProcessConditionalDependencies(ctx context.Context, planID string) error
}

// Locker guards a sweep against concurrent worker instances. The Redis
// cache satisfies it; a nil Locker means sweeps run unguarded.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Config holds the per-job cadence. Cadence strings are optional RFC 5545
// RRULEs overriding the fixed interval.
type Config struct {
	AutoCompleteInterval time.Duration
	InvitationInterval   time.Duration
	ConditionalInterval  time.Duration

	AutoCompleteCadence string
	InvitationCadence   string
	ConditionalCadence  string

	// ProcTimeout bounds each stored-procedure call so one stuck item
	// cannot stall the rest of a sweep.
	ProcTimeout time.Duration
}

// DefaultConfig returns the production cadence
func DefaultConfig() Config {
	return Config{
		AutoCompleteInterval: 5 * time.Minute,
		InvitationInterval:   1 * time.Minute,
		ConditionalInterval:  2 * time.Minute,
		ProcTimeout:          30 * time.Second,
	}
}

type job struct {
	name     string
	interval time.Duration
	cadence  string
	run      func(ctx context.Context) error
}

// Scheduler hosts the three reconciliation jobs. Construct once at process
// start; Start launches one goroutine per job and Stop cancels them and
// waits. The manual trigger methods run a single sweep outside the timers.
type Scheduler struct {
	db      *gorm.DB
	procs   Procedures
	updates *services.UpdateEmitter
	locker  Locker
	cfg     Config

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a stopped scheduler
func New(db *gorm.DB, procs Procedures, updates *services.UpdateEmitter, locker Locker, cfg Config) *Scheduler {
	if cfg.AutoCompleteInterval <= 0 {
		cfg.AutoCompleteInterval = 5 * time.Minute
	}
	if cfg.InvitationInterval <= 0 {
		cfg.InvitationInterval = 1 * time.Minute
	}
	if cfg.ConditionalInterval <= 0 {
		cfg.ConditionalInterval = 2 * time.Minute
	}
	if cfg.ProcTimeout <= 0 {
		cfg.ProcTimeout = 30 * time.Second
	}
	return &Scheduler{db: db, procs: procs, updates: updates, locker: locker, cfg: cfg}
}

// Start launches the job timers. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	jobs := []job{
		{name: "auto_complete", interval: s.cfg.AutoCompleteInterval, cadence: s.cfg.AutoCompleteCadence, run: s.RunAutoCompletion},
		{name: "invitation_expiry", interval: s.cfg.InvitationInterval, cadence: s.cfg.InvitationCadence, run: s.RunInvitationExpiry},
		{name: "conditional_deps", interval: s.cfg.ConditionalInterval, cadence: s.cfg.ConditionalCadence, run: s.runConditionalDependencies},
	}
	for _, j := range jobs {
		s.wg.Add(1)
		go s.runJob(ctx, j)
	}
	log.Println("Scheduler started")
}

// Stop cancels the jobs and waits for in-flight sweeps to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) runJob(ctx context.Context, j job) {
	defer s.wg.Done()

	started := time.Now()
	for {
		timer := time.NewTimer(j.nextDelay(started, time.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		s.sweep(ctx, j)
	}
}

// sweep runs one guarded tick of a job
func (s *Scheduler) sweep(ctx context.Context, j job) {
	if s.locker != nil {
		ok, err := s.locker.AcquireLock(ctx, "worker:lock:"+j.name, j.interval)
		if err != nil {
			log.Printf("[%s] lock error, skipping sweep: %v", j.name, err)
			return
		}
		if !ok {
			log.Printf("[%s] sweep already running elsewhere, skipping", j.name)
			return
		}
	}
	if err := j.run(ctx); err != nil {
		log.Printf("[%s] sweep failed: %v", j.name, err)
	}
}

// nextDelay computes the wait before the job's next sweep. An RRULE cadence
// wins over the fixed interval; parse failure falls back to the interval.
func (j job) nextDelay(started, now time.Time) time.Duration {
	if j.cadence != "" {
		if rule, err := rrule.StrToRRule(j.cadence); err == nil {
			rule.DTStart(started)
			next := rule.After(now, false)
			if !next.IsZero() && next.After(now) {
				return next.Sub(now)
			}
		}
	}
	return j.interval
}

// procCtx bounds one stored-procedure call
func (s *Scheduler) procCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.ProcTimeout)
}
