// Package glb implements the global buffers that stage data between DRAM
// and the PE grid.
package glb

import (
	"fmt"

	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

// State is the phase of a buffer within a pass.
type State int

// A buffer first fills its SRAM, then streams it to the grid.
const (
	Writing State = iota
	Reading
	Done
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Writing:
		return "Writing"
	case Reading:
		return "Reading"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config is the geometry of an SRAM-backed buffer.
type Config struct {
	Depth int
	// TrackingDepth bounds the reads in flight.
	TrackingDepth int
	Latency       int
	ChnPerWord    int
}

// padded marks a tracked read that was synthesized as zeros.
const padded = -1

type buffer struct {
	*hw.ModuleBase

	chnPerWord int
	sram       *hw.SRAM
	tracking   *hw.Channel
	state      State
	counters   stats.Counters
}

func newBuffer(name string, w *hw.Wiring, c Config, ports int) buffer {
	return buffer{
		ModuleBase: hw.NewModuleBase(name),
		chnPerWord: c.ChnPerWord,
		sram: w.NewSRAM(name+".SRAM",
			c.Depth, c.ChnPerWord, ports, c.Latency),
		tracking: w.NewChannel(name+".Tracking", c.TrackingDepth, 1),
	}
}

// State returns the current phase.
func (b *buffer) State() State {
	return b.state
}

// SRAM returns the backing memory.
func (b *buffer) SRAM() *hw.SRAM {
	return b.sram
}

// Counters returns the events counted so far.
func (b *buffer) Counters() stats.Counters {
	return b.counters
}

func (b *buffer) setState(s State) {
	if s == b.state {
		return
	}

	hw.Trace("GLB state", "glb", b.Name(), "from", b.state, "to", s)
	b.state = s
}

// respond forwards the oldest tracked read to out once its data is ready.
// It reports whether a word was forwarded.
func (b *buffer) respond(out *hw.Channel) bool {
	if !b.tracking.Valid() || !out.Vacancy() {
		return false
	}

	addr := b.tracking.Peek()[0]
	if addr != padded && !b.sram.ResponseValid(0) {
		return false
	}

	b.tracking.Pop()

	var word hw.Word
	if addr == padded {
		word = hw.Zeros(b.chnPerWord)
	} else {
		word = b.sram.Response(0)
		b.counters.Add(stats.GLBRead, len(word))
	}

	out.Push(word)

	return true
}
