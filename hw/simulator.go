// Package hw is the cycle-level kernel: clocked registers, handshake
// channels, memories, the static module tree and the simulator that ticks
// it in lock step.
package hw

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
)

// ErrMaxCyclesReached is returned when a run hits its cycle bound before a
// terminal module finishes it.
var ErrMaxCyclesReached = errors.New("maximum number of cycles reached")

type cycleEvent struct {
	*sim.EventBase
}

func newCycleEvent(t sim.VTimeInSec, handler sim.Handler) cycleEvent {
	return cycleEvent{EventBase: sim.NewEventBase(t, handler)}
}

// Simulator ticks a module tree once per clock cycle. Each cycle is one event
// on the akita engine: every module ticks in pre-order, then the wiring
// commits, then the terminal modules are polled for an outcome.
type Simulator struct {
	engine sim.Engine
	freq   sim.Freq
	wiring *Wiring

	order     []Module
	terminals []Terminal

	maxCycles uint64
	cycle     uint64
	runStart  uint64
	current   Module
	outcome   Outcome
	err       error
}

// NewSimulator flattens the tree rooted at root and prepares a simulator.
func NewSimulator(
	engine sim.Engine,
	freq sim.Freq,
	wiring *Wiring,
	root Module,
) *Simulator {
	s := &Simulator{
		engine: engine,
		freq:   freq,
		wiring: wiring,
	}

	Walk(root, func(m Module) {
		s.order = append(s.order, m)

		if t, ok := m.(Terminal); ok {
			s.terminals = append(s.terminals, t)
		}
	})

	return s
}

// SetMaxCycles bounds the number of cycles of each run. Zero means no bound.
func (s *Simulator) SetMaxCycles(n uint64) {
	s.maxCycles = n
}

// Cycle returns the number of completed cycles.
func (s *Simulator) Cycle() uint64 {
	return s.cycle
}

// Modules returns the modules in tick order.
func (s *Simulator) Modules() []Module {
	return s.order
}

// Run simulates until a terminal module finishes the run, a protocol
// violation happens, or the cycle bound is reached.
func (s *Simulator) Run() (Outcome, error) {
	s.outcome = Outcome{}
	s.err = nil
	s.runStart = s.cycle

	now := s.engine.CurrentTime()
	s.engine.Schedule(newCycleEvent(s.freq.ThisTick(now), s))

	if err := s.engine.Run(); err != nil {
		return s.outcome, err
	}

	slog.Debug("run ended",
		"cycles", s.cycle-s.runStart,
		"status", s.outcome.Status.String(),
	)

	return s.outcome, s.err
}

// Handle runs one cycle.
func (s *Simulator) Handle(e sim.Event) error {
	s.step()

	if s.err != nil || s.outcome.Finished() {
		return s.err
	}

	if s.maxCycles > 0 && s.cycle-s.runStart >= s.maxCycles {
		s.err = errors.Wrapf(ErrMaxCyclesReached,
			"after %d cycles", s.cycle-s.runStart)
		return s.err
	}

	s.engine.Schedule(newCycleEvent(s.freq.NextTick(e.Time()), s))

	return nil
}

func (s *Simulator) step() {
	defer s.recoverProtocolError()

	for _, m := range s.order {
		s.current = m
		m.Tick()
	}

	s.current = nil
	s.wiring.Commit()
	s.cycle++

	for _, t := range s.terminals {
		if o := t.Outcome(); o.Finished() {
			s.outcome = o
			return
		}
	}
}

func (s *Simulator) recoverProtocolError() {
	r := recover()
	if r == nil {
		return
	}

	perr, ok := r.(*ProtocolError)
	if !ok {
		panic(r)
	}

	where := "commit"
	if s.current != nil {
		where = s.current.Name()
	}

	s.current = nil
	s.err = errors.Wrapf(perr, "cycle %d, module %s", s.cycle, where)
}
