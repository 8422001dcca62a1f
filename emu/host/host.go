// Package host drives an interpreter from a frontend: it feeds key events in,
// runs cycles at a fixed cadence, ticks the timers at 60 Hz and presents the
// screen after it changes.
package host

import (
	"context"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/beanboi7/chyp8/emu/cpu"
)

const (
	// CycleInterval is the minimum time between two instruction cycles.
	CycleInterval = 16 * time.Microsecond
	// TimerInterval is the period of the delay and sound timers.
	TimerInterval = time.Second / 60

	// maxCatchUp bounds how much wall time one iteration will emulate
	// after a stall.
	maxCatchUp = 100 * time.Millisecond

	// DefaultRefresh is used when a Runner has no positive refresh rate.
	DefaultRefresh = 60
)

// Machine is the part of the interpreter the loop drives.
type Machine interface {
	Step() (cpu.Status, error)
	TickTimers()
	SetKey(index uint8, pressed bool) error
	DrawFlag() bool
	Screen() cpu.Framebuffer
	Reset()
}

// Frontend presents the screen and reports input.
type Frontend interface {
	Closed() bool
	PollKeys(set func(key uint8, pressed bool))
	ResetRequested() bool
	Draw(fb cpu.Framebuffer)
	Update()
}

// Runner owns the cadence between a Machine and a Frontend.
type Runner struct {
	Machine  Machine
	Frontend Frontend
	Logger   *log.Logger

	// Reload is called after a reset to put the program back in memory.
	Reload func() error

	// Refresh is the number of frontend updates per second. Values below 1
	// run at DefaultRefresh.
	Refresh int

	now   func() time.Time
	sleep func(time.Duration)

	cycleAcc time.Duration
	timerAcc time.Duration
	cycles   uint64
}

// New returns a Runner using the wall clock.
func New(m Machine, fe Frontend, refresh int, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNop()
	}
	if refresh < 1 {
		refresh = DefaultRefresh
	}
	return &Runner{
		Machine:  m,
		Frontend: fe,
		Logger:   logger,
		Refresh:  refresh,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Run loops until the frontend closes or ctx is cancelled. A machine fault
// stops the loop and is returned.
func (r *Runner) Run(ctx context.Context) error {
	if r.Logger == nil {
		r.Logger = log.NewNop()
	}
	if r.now == nil {
		r.now, r.sleep = time.Now, time.Sleep
	}
	refresh := r.Refresh
	if refresh < 1 {
		refresh = DefaultRefresh
	}
	frame := time.Second / time.Duration(refresh)
	last := r.now()

	r.Logger.Info("emulation started", log.Int("refresh", refresh), log.Duration("cycle", CycleInterval))
	defer func() {
		r.Logger.Info("emulation stopped", log.Uint64("cycles", r.cycles))
	}()

	for !r.Frontend.Closed() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := r.now()
		if err := r.iterate(start.Sub(last)); err != nil {
			return err
		}
		last = start

		if wait := frame - r.now().Sub(start); wait > 0 {
			r.sleep(wait)
		}
	}
	return nil
}

// iterate emulates elapsed wall time: input, reset, cycles, timers, draw.
func (r *Runner) iterate(elapsed time.Duration) error {
	if elapsed > maxCatchUp {
		elapsed = maxCatchUp
	}

	r.Frontend.PollKeys(func(key uint8, pressed bool) {
		if err := r.Machine.SetKey(key, pressed); err != nil {
			r.Logger.Debug("ignoring key", log.Err(err))
		}
	})

	if r.Frontend.ResetRequested() {
		if err := r.reset(); err != nil {
			return err
		}
	}

	r.cycleAcc += elapsed
	for r.cycleAcc >= CycleInterval {
		r.cycleAcc -= CycleInterval
		status, err := r.Machine.Step()
		if err != nil {
			r.Logger.Debug("stopping on fault", log.Err(err), log.Uint64("cycles", r.cycles))
			return err
		}
		r.cycles++
		if status == cpu.WaitingForKey {
			// nothing changes until the next key poll
			r.cycleAcc %= CycleInterval
			break
		}
	}

	r.timerAcc += elapsed
	for r.timerAcc >= TimerInterval {
		r.timerAcc -= TimerInterval
		r.Machine.TickTimers()
	}

	if r.Machine.DrawFlag() {
		r.Frontend.Draw(r.Machine.Screen())
	}
	r.Frontend.Update()
	return nil
}

func (r *Runner) reset() error {
	r.Logger.Info("resetting machine")
	r.Machine.Reset()
	r.cycleAcc, r.timerAcc = 0, 0
	if r.Reload == nil {
		return nil
	}
	return r.Reload()
}
