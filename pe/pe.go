// Package pe models the processing elements of the array and the grid that
// connects them.
package pe

import (
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

// PE is one multiply-accumulate cell. The weight stays at the head of the
// weight channel and is peeked for every MAC of an iteration; it is popped
// once the iteration is complete.
type PE struct {
	*hw.ModuleBase

	X, Y int

	ifmap   *hw.Channel
	weight  *hw.Channel
	psumIn  *hw.Channel
	psumOut *hw.Channel

	zeroSeed bool

	fmapPerIteration int
	numIteration     int
	fmapIdx          int
	iteration        int

	counters stats.Counters
}

// Configure resets the progress of the PE for a new pass.
func (p *PE) Configure(fmapPerIteration, numIteration int) {
	p.fmapPerIteration = fmapPerIteration
	p.numIteration = numIteration
	p.fmapIdx = 0
	p.iteration = 0
}

// Done tells if every iteration of the pass has been computed.
func (p *PE) Done() bool {
	return p.iteration >= p.numIteration
}

// Iteration returns the index of the current weight.
func (p *PE) Iteration() int {
	return p.iteration
}

// Counters returns the events counted so far.
func (p *PE) Counters() stats.Counters {
	return p.counters
}

func (p *PE) canFire() bool {
	if p.Done() {
		return false
	}

	if !p.zeroSeed && !p.psumIn.Valid() {
		return false
	}

	return p.ifmap.Valid() && p.weight.Valid() && p.psumOut.Vacancy()
}

// Tick fires the PE at most once.
func (p *PE) Tick() {
	if !p.canFire() {
		return
	}

	var in int64
	if !p.zeroSeed {
		in = p.psumIn.Pop()[0]
		if p.Y != 0 {
			p.counters.Inc(stats.PEChanPop)
		}
	}

	act := p.ifmap.Pop()[0]
	w := p.weight.Peek()[0]
	out := in + act*w
	p.psumOut.Push(hw.Scalar(out))

	p.counters.Inc(stats.PEMAC)
	p.counters.Inc(stats.PEChanPush)

	// The first use of a weight loads it into the register file.
	if p.fmapIdx == 0 {
		p.counters.Inc(stats.PERFWrite)
	} else {
		p.counters.Inc(stats.PERFRead)
	}

	hw.Trace("PE fire",
		"pe", p.Name(),
		"iteration", p.iteration,
		"fmap", p.fmapIdx,
		"psum", in, "ifmap", act, "weight", w, "out", out,
	)

	p.fmapIdx++
	if p.fmapIdx == p.fmapPerIteration {
		p.fmapIdx = 0
		p.weight.Pop()
		p.iteration++
	}
}

// Builder can create PEs.
type Builder struct {
	ifmap, weight   *hw.Channel
	psumIn, psumOut *hw.Channel
	zeroSeed        bool
}

// WithIfmap sets the channel that delivers one activation per MAC.
func (b Builder) WithIfmap(c *hw.Channel) Builder {
	b.ifmap = c
	return b
}

// WithWeight sets the channel that delivers one weight per iteration.
func (b Builder) WithWeight(c *hw.Channel) Builder {
	b.weight = c
	return b
}

// WithPsumIn sets the channel of the incoming partial sums.
func (b Builder) WithPsumIn(c *hw.Channel) Builder {
	b.psumIn = c
	return b
}

// WithPsumOut sets the channel of the outgoing partial sums.
func (b Builder) WithPsumOut(c *hw.Channel) Builder {
	b.psumOut = c
	return b
}

// WithZeroSeed makes the PE start every accumulation from zero instead of
// reading a partial sum.
func (b Builder) WithZeroSeed(zeroSeed bool) Builder {
	b.zeroSeed = zeroSeed
	return b
}

// Build creates a PE at coordinates (x, y).
func (b Builder) Build(name string, x, y int) *PE {
	if b.ifmap == nil || b.weight == nil || b.psumOut == nil {
		panic("PE " + name + " is missing a channel")
	}

	if b.psumIn == nil && !b.zeroSeed {
		panic("PE " + name + " needs a psum input or a zero seed")
	}

	return &PE{
		ModuleBase: hw.NewModuleBase(name),
		X:          x,
		Y:          y,
		ifmap:      b.ifmap,
		weight:     b.weight,
		psumIn:     b.psumIn,
		psumOut:    b.psumOut,
		zeroSeed:   b.zeroSeed,
	}
}
