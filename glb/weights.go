package glb

import (
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

// WeightsGLB forwards weights from DRAM to the weight NoC without storing
// them.
type WeightsGLB struct {
	*hw.ModuleBase

	wr, rd   *hw.Channel
	counters stats.Counters
}

// NewWeightsGLB creates a pass-through buffer.
func NewWeightsGLB(name string, wr, rd *hw.Channel) *WeightsGLB {
	return &WeightsGLB{
		ModuleBase: hw.NewModuleBase(name),
		wr:         wr,
		rd:         rd,
	}
}

// Counters returns the events counted so far.
func (g *WeightsGLB) Counters() stats.Counters {
	return g.counters
}

// Tick moves at most one word.
func (g *WeightsGLB) Tick() {
	if !g.wr.Valid() || !g.rd.Vacancy() {
		return
	}

	word := g.wr.Pop()
	g.rd.Push(word)
	g.counters.Add(stats.GLBWrite, len(word))
	g.counters.Add(stats.GLBRead, len(word))
}
