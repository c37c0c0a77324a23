// Package engine owns the sampling loop and the lifecycle of the single open
// activity interval. On every poll tick the current state is classified
// (locked beats idle beats foreground window); an unchanged classification
// extends the open interval, a changed one closes it and opens the next at
// the same instant, so intervals produced within one run are contiguous.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
	"github.com/alexanderramin/argus/internal/probe"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Defaults applied when a schedule value is zero or negative.
const (
	DefaultIdleThreshold = 2 * time.Minute
	DefaultPollInterval  = 5 * time.Second
)

// Store receives closed intervals for persistence. The engine is its only
// writer.
type Store interface {
	Append(iv domain.Interval) error
}

// Observer receives a closed interval synchronously at the point of closing.
// Observers must not block and get no mutation rights; the interval is
// passed by value.
type Observer func(iv domain.Interval)

// Options configures a new Engine. Zero values fall back to defaults.
type Options struct {
	IdleThreshold time.Duration
	PollInterval  time.Duration
	Clock         Clock
	Logger        zerolog.Logger
}

// Engine samples workstation activity on a periodic timer and maintains the
// at-most-one open interval. All state transitions (Sample, Stop, FlushNow,
// Shutdown, reconfiguration) serialize through one mutex, so a timer tick
// and an external caller can never interleave on the open-interval slot.
type Engine struct {
	store   Store
	probe   probe.Prober
	session probe.SessionState
	clock   Clock
	log     zerolog.Logger
	runID   string

	mu            sync.Mutex
	running       bool
	current       *domain.Interval
	idleThreshold time.Duration
	pollInterval  time.Duration
	observers     []Observer
	ticker        *time.Ticker
	done          chan struct{}
	unsubscribe   func()

	wg sync.WaitGroup
}

// New creates an engine wired to its collaborators. The engine subscribes to
// the session-state provider for its lifetime so lock transitions are
// sampled immediately instead of waiting for the next tick.
func New(store Store, prober probe.Prober, session probe.SessionState, opts Options) *Engine {
	if opts.IdleThreshold <= 0 {
		opts.IdleThreshold = DefaultIdleThreshold
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}

	e := &Engine{
		store:         store,
		probe:         prober,
		session:       session,
		clock:         opts.Clock,
		runID:         uuid.New().String(),
		idleThreshold: opts.IdleThreshold,
		pollInterval:  opts.PollInterval,
	}
	e.log = opts.Logger.With().Str("run_id", e.runID).Logger()

	e.unsubscribe = session.Subscribe(func(locked bool) {
		e.log.Debug().Bool("locked", locked).Msg("session lock transition")
		e.Sample()
	})

	return e
}

// RunID identifies this engine instance in logs and exports.
func (e *Engine) RunID() string {
	return e.runID
}

// Running reports whether the sampling loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Observe registers fn for closed-interval notifications.
func (e *Engine) Observe(fn Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// SetSchedule applies new timing values while running or stopped. A poll
// interval change reschedules the next tick; the idle threshold takes effect
// on the next sample, not retroactively. Non-positive values fall back to
// defaults.
func (e *Engine) SetSchedule(idleThreshold, pollInterval time.Duration) {
	if idleThreshold <= 0 {
		idleThreshold = DefaultIdleThreshold
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.idleThreshold = idleThreshold
	if pollInterval != e.pollInterval {
		e.pollInterval = pollInterval
		if e.ticker != nil {
			e.ticker.Reset(pollInterval)
		}
	}
}

// Start begins periodic sampling. It does not open an interval itself; the
// first sample does. No-op when already running.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	e.running = true
	e.ticker = time.NewTicker(e.pollInterval)
	e.done = make(chan struct{})
	e.wg.Add(1)
	go e.loop(e.ticker, e.done)
	e.log.Info().Dur("poll", e.pollInterval).Dur("idle_threshold", e.idleThreshold).Msg("tracking started")
}

func (e *Engine) loop(ticker *time.Ticker, done chan struct{}) {
	defer e.wg.Done()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			e.Sample()
		}
	}
}

// Stop halts sampling and closes, persists, and publishes any open interval.
// The running flag flips under the lock before the interval closes, so a
// tick already in flight observes it and writes nothing. No-op when not
// running.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.closeCurrentLocked(e.clock.Now())
	ticker, done := e.ticker, e.done
	e.ticker, e.done = nil, nil
	e.mu.Unlock()

	ticker.Stop()
	close(done)
	e.wg.Wait()
	e.log.Info().Msg("tracking stopped")
}

// Sample classifies the current state and advances the open interval. Safe
// to call from the timer loop, the lock-transition callback, and external
// callers. Does nothing when the engine is stopped.
func (e *Engine) Sample() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}

	now := e.clock.Now()
	c := e.classify()

	if e.current == nil {
		e.current = domain.OpenInterval(now, c)
		return
	}
	if e.current.Matches(c) {
		return
	}

	// Close at now and reopen at the same instant: every interval's start
	// equals the prior interval's end.
	e.closeCurrentLocked(now)
	e.current = domain.OpenInterval(now, c)
}

// classify applies the locked > idle > foreground priority. A probe miss
// yields an empty identity, never a failure.
func (e *Engine) classify() domain.Classification {
	if e.session.Locked() {
		return domain.ClassifyLocked()
	}
	if e.probe.IdleDuration() > e.idleThreshold {
		return domain.ClassifyIdle()
	}
	if info, ok := e.probe.ForegroundWindow(); ok {
		return domain.ClassifyActive(info.ProcessName, info.WindowTitle)
	}
	return domain.ClassifyActive("", "")
}

// FlushNow closes the open interval at the current time and immediately
// reopens one with the same classification: a deliberate split that forces a
// row to disk without waiting for a state change. No-op when nothing is
// open.
func (e *Engine) FlushNow() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return
	}

	now := e.clock.Now()
	c := e.current.Classification()
	e.closeCurrentLocked(now)
	e.current = domain.OpenInterval(now, c)
}

// closeCurrentLocked closes, persists, and publishes the open interval.
// Callers hold e.mu. A failed append is logged and the row dropped; the
// in-memory lifecycle stays consistent either way.
func (e *Engine) closeCurrentLocked(now time.Time) {
	if e.current == nil {
		return
	}
	e.current.Close(now)
	iv := *e.current
	e.current = nil

	if err := e.store.Append(iv); err != nil {
		e.log.Error().Err(err).
			Time("start", iv.Start).
			Str("process", iv.ProcessName).
			Msg("interval append failed, row dropped")
	}
	for _, fn := range e.observers {
		fn(iv)
	}
}

// Shutdown stops sampling, closes any open interval exactly as Stop does,
// and detaches from the session-state provider. Idempotent and safe from
// any cleanup path.
func (e *Engine) Shutdown() {
	e.Stop()

	e.mu.Lock()
	unsub := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Run starts the engine and blocks until ctx is done. Shutdown is guaranteed
// on every exit path.
func (e *Engine) Run(ctx context.Context) {
	e.Start()
	defer e.Shutdown()
	<-ctx.Done()
}
