// Package serdes connects the wide DRAM channels to the typed channels of
// the chip, and provides the host side that produces and checks the DRAM
// traffic.
package serdes

import (
	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

// InputDeserializer routes the words of the DRAM input channel by position.
// For every fmap position it expects InSets ifmap words then OutSets psum
// words; the weights follow.
type InputDeserializer struct {
	*hw.ModuleBase

	in                   *hw.Channel
	ifmap, psum, weights *hw.Channel
	geom                 arch.Geometry

	fmapIdx int
	set     int
	weight  int

	counters stats.Counters
}

// NewInputDeserializer creates a deserializer reading from in.
func NewInputDeserializer(
	name string,
	in, ifmap, psum, weights *hw.Channel,
) *InputDeserializer {
	return &InputDeserializer{
		ModuleBase: hw.NewModuleBase(name),
		in:         in,
		ifmap:      ifmap,
		psum:       psum,
		weights:    weights,
	}
}

// Configure starts a new pass.
func (d *InputDeserializer) Configure(geom arch.Geometry) {
	d.geom = geom
	d.fmapIdx = 0
	d.set = 0
	d.weight = 0
}

// Done tells if every word of the pass was routed.
func (d *InputDeserializer) Done() bool {
	return d.fmapIdx == d.geom.FmapPerIteration &&
		d.weight == d.geom.WeightWords()
}

// Counters returns the events counted so far.
func (d *InputDeserializer) Counters() stats.Counters {
	return d.counters
}

func (d *InputDeserializer) target() *hw.Channel {
	switch {
	case d.fmapIdx < d.geom.FmapPerIteration && d.set < d.geom.InSets:
		return d.ifmap
	case d.fmapIdx < d.geom.FmapPerIteration:
		return d.psum
	case d.weight < d.geom.WeightWords():
		return d.weights
	default:
		return nil
	}
}

// Tick routes at most one word.
func (d *InputDeserializer) Tick() {
	target := d.target()
	if target == nil || !d.in.Valid() || !target.Vacancy() {
		return
	}

	word := d.in.Pop()
	target.Push(word)
	d.counters.Add(stats.DRAMRead, len(word))

	if d.fmapIdx == d.geom.FmapPerIteration {
		d.weight++
		return
	}

	d.set++
	if d.set == d.geom.InSets+d.geom.OutSets {
		d.set = 0
		d.fmapIdx++
	}
}

// OutputSerializer forwards the output words to the DRAM output channel.
type OutputSerializer struct {
	*hw.ModuleBase

	psum, out *hw.Channel
	counters  stats.Counters
}

// NewOutputSerializer creates a serializer writing into out.
func NewOutputSerializer(name string, psum, out *hw.Channel) *OutputSerializer {
	return &OutputSerializer{
		ModuleBase: hw.NewModuleBase(name),
		psum:       psum,
		out:        out,
	}
}

// Counters returns the events counted so far.
func (s *OutputSerializer) Counters() stats.Counters {
	return s.counters
}

// Tick moves at most one word.
func (s *OutputSerializer) Tick() {
	if !s.psum.Valid() || !s.out.Vacancy() {
		return
	}

	word := s.psum.Pop()
	s.out.Push(word)
	s.counters.Add(stats.DRAMWrite, len(word))
}
