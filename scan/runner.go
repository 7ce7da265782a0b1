package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sarchlab/scanrt/memimage"
)

// A Driver moves snapshots between the memory image and the field. Inputs are
// installed before a cycle and stay stable during it; outputs are committed
// after the cycle, all at once.
type Driver interface {
	ReadInputs(img *memimage.Image) error
	CommitOutputs(img *memimage.Image) error
}

// Runner triggers cycles at a fixed cadence.
type Runner struct {
	scanner   *Scanner
	driver    Driver
	period    time.Duration
	maxCycles uint64
	logger    *slog.Logger

	cycleLock sync.Mutex

	pauseLock sync.Mutex
	isPaused  bool
}

// RunnerBuilder configures a Runner.
type RunnerBuilder struct {
	driver    Driver
	period    time.Duration
	maxCycles uint64
	logger    *slog.Logger
}

// MakeRunnerBuilder creates a builder for a free-running runner.
func MakeRunnerBuilder() RunnerBuilder {
	return RunnerBuilder{}
}

// WithDriver sets the I/O driver.
func (b RunnerBuilder) WithDriver(d Driver) RunnerBuilder {
	b.driver = d
	return b
}

// WithPeriod sets the time between cycle starts. Zero runs cycles back to
// back.
func (b RunnerBuilder) WithPeriod(p time.Duration) RunnerBuilder {
	b.period = p
	return b
}

// WithMaxCycles stops Run after n cycles. Zero means no limit.
func (b RunnerBuilder) WithMaxCycles(n uint64) RunnerBuilder {
	b.maxCycles = n
	return b
}

// WithLogger sets the logger.
func (b RunnerBuilder) WithLogger(l *slog.Logger) RunnerBuilder {
	b.logger = l
	return b
}

// Build creates a runner for s.
func (b RunnerBuilder) Build(s *Scanner) *Runner {
	if b.driver == nil {
		panic("runner requires a driver")
	}

	if b.period < 0 {
		panic(fmt.Sprintf("negative cycle period %v", b.period))
	}

	r := &Runner{
		scanner:   s,
		driver:    b.driver,
		period:    b.period,
		maxCycles: b.maxCycles,
		logger:    b.logger,
	}

	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	return r
}

// Scanner returns the scanner the runner drives.
func (r *Runner) Scanner() *Scanner {
	return r.scanner
}

// Step runs one cycle: read inputs, scan, commit outputs. When the driver
// fails, the safe state is applied and committed on a best-effort basis and
// the error is returned.
func (r *Runner) Step() error {
	r.cycleLock.Lock()
	defer r.cycleLock.Unlock()

	img := r.scanner.Image()

	if err := r.driver.ReadInputs(img); err != nil {
		r.failSafe()
		return fmt.Errorf("cycle %d: read inputs: %w", r.scanner.Cycle()+1, err)
	}

	r.scanner.Scan()

	if err := r.driver.CommitOutputs(img); err != nil {
		r.failSafe()
		return fmt.Errorf("cycle %d: commit outputs: %w", r.scanner.Cycle(), err)
	}

	return nil
}

func (r *Runner) failSafe() {
	r.scanner.ForceSafeState()

	if err := r.driver.CommitOutputs(r.scanner.Image()); err != nil {
		r.logger.Error("cannot commit safe state", "error", err)
	}
}

// Run keeps running cycles until ctx ends, the cycle limit is reached or the
// driver fails. It returns nil in the first two cases.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("runner started",
		"period", r.period, "max_cycles", r.maxCycles)
	defer r.logger.Info("runner stopped", "cycle", r.scanner.Cycle())

	var tick <-chan time.Time
	if r.period > 0 {
		ticker := time.NewTicker(r.period)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if r.maxCycles > 0 && r.scanner.Cycle() >= r.maxCycles {
			return nil
		}

		if !r.wait(ctx, tick) {
			return nil
		}

		if r.Paused() {
			continue
		}

		if err := r.Step(); err != nil {
			return err
		}
	}
}

func (r *Runner) wait(ctx context.Context, tick <-chan time.Time) bool {
	if tick == nil {
		if ctx.Err() != nil {
			return false
		}

		if r.Paused() {
			// Back to back cycles would spin while paused.
			select {
			case <-ctx.Done():
				return false
			case <-time.After(time.Millisecond):
			}
		}

		return true
	}

	select {
	case <-ctx.Done():
		return false
	case <-tick:
		return true
	}
}

// Pause holds the runner between cycles until Continue is called.
func (r *Runner) Pause() {
	r.pauseLock.Lock()
	defer r.pauseLock.Unlock()

	if !r.isPaused {
		r.logger.Info("runner paused", "cycle", r.scanner.Cycle())
	}

	r.isPaused = true
}

// Continue resumes a paused runner.
func (r *Runner) Continue() {
	r.pauseLock.Lock()
	defer r.pauseLock.Unlock()

	if r.isPaused {
		r.logger.Info("runner continued", "cycle", r.scanner.Cycle())
	}

	r.isPaused = false
}

// Paused tells whether the runner is paused.
func (r *Runner) Paused() bool {
	r.pauseLock.Lock()
	defer r.pauseLock.Unlock()

	return r.isPaused
}

// Inspect runs fn between two cycles, so that fn sees a consistent scanner
// and memory image. It is meant for observers on other goroutines.
func (r *Runner) Inspect(fn func(s *Scanner)) {
	r.cycleLock.Lock()
	defer r.cycleLock.Unlock()

	fn(r.scanner)
}
