package glb

import (
	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

// IfmapGLB holds the input feature map of a pass. It is written once in
// raster order and read once per filter tap. Reads that fall outside the
// image produce zeros without touching the SRAM.
type IfmapGLB struct {
	buffer

	wr, rd *hw.Channel
	geom   arch.Geometry

	written   int
	set       int
	fmapIdx   int
	iteration int
	forwarded int
}

// NewIfmapGLB creates a buffer that is filled from wr and drained into rd.
func NewIfmapGLB(name string, w *hw.Wiring, c Config, wr, rd *hw.Channel) *IfmapGLB {
	return &IfmapGLB{
		buffer: newBuffer(name, w, c, 1),
		wr:     wr,
		rd:     rd,
	}
}

// Configure starts a new pass.
func (g *IfmapGLB) Configure(geom arch.Geometry) {
	g.geom = geom
	g.state = Writing
	g.written = 0
	g.set = 0
	g.fmapIdx = 0
	g.iteration = 0
	g.forwarded = 0
}

// Tick runs the current phase.
func (g *IfmapGLB) Tick() {
	switch g.state {
	case Writing:
		g.write()
	case Reading:
		g.read()
	}
}

func (g *IfmapGLB) write() {
	if g.geom.InSets == 0 || !g.wr.Valid() {
		return
	}

	word := g.wr.Pop()
	g.sram.Request(hw.SRAMWrite, g.written, word, 0)
	g.counters.Add(stats.GLBWrite, len(word))
	g.written++

	if g.written == g.geom.IfmapWords() {
		g.setState(Reading)
	}
}

func (g *IfmapGLB) read() {
	if g.respond(g.rd) {
		g.forwarded++
	}

	g.issue()

	if g.forwarded == g.geom.NumIteration*g.geom.IfmapWords() {
		g.setState(Done)
	}
}

func (g *IfmapGLB) issue() {
	if g.iteration >= g.geom.NumIteration || !g.tracking.Vacancy() {
		return
	}

	x, y := g.geom.FmapPos(g.fmapIdx)
	dx, dy := g.geom.TapOffset(g.iteration)
	ix, iy := x+dx, y+dy

	if g.geom.InImage(ix, iy) {
		addr := g.geom.InSets*g.geom.FmapIndex(ix, iy) + g.set
		g.sram.Request(hw.SRAMRead, addr, nil, 0)
		g.tracking.Push(hw.Scalar(int64(addr)))
	} else {
		g.tracking.Push(hw.Scalar(padded))
		g.counters.Inc(stats.GLBZeroSkip)
	}

	g.set++
	if g.set == g.geom.InSets {
		g.set = 0
		g.fmapIdx++
	}

	if g.fmapIdx == g.geom.FmapPerIteration {
		g.fmapIdx = 0
		g.iteration++
	}
}
