package glb

import (
	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

const (
	psumReadPort      = 0
	psumWriteBackPort = 1
)

// PsumGLB holds the partial sums of a pass. It is preloaded with the seed
// of every output word, read once per iteration, and written back by the
// NoC after every iteration but the last.
//
// A read of iteration i waits until iteration i-1 has written back the same
// address.
type PsumGLB struct {
	buffer

	preload, writeBack, rd *hw.Channel
	geom                   arch.Geometry

	preloaded  int
	issued     int
	forwarded  int
	writeBacks int
}

// NewPsumGLB creates a buffer that is preloaded from preload, fed back from
// writeBack, and drained into rd.
func NewPsumGLB(
	name string,
	w *hw.Wiring,
	c Config,
	preload, writeBack, rd *hw.Channel,
) *PsumGLB {
	return &PsumGLB{
		buffer:    newBuffer(name, w, c, 2),
		preload:   preload,
		writeBack: writeBack,
		rd:        rd,
	}
}

// Configure starts a new pass.
func (g *PsumGLB) Configure(geom arch.Geometry) {
	g.geom = geom
	g.state = Writing
	g.preloaded = 0
	g.issued = 0
	g.forwarded = 0
	g.writeBacks = 0
}

// Tick runs the current phase.
func (g *PsumGLB) Tick() {
	switch g.state {
	case Writing:
		g.load()
	case Reading:
		g.read()
	}
}

func (g *PsumGLB) load() {
	if g.geom.OutSets == 0 || !g.preload.Valid() {
		return
	}

	word := g.preload.Pop()
	g.sram.Request(hw.SRAMWrite, g.preloaded, word, psumReadPort)
	g.counters.Add(stats.GLBWrite, len(word))
	g.preloaded++

	if g.preloaded == g.geom.PsumWords() {
		g.setState(Reading)
	}
}

func (g *PsumGLB) read() {
	words := g.geom.PsumWords()

	if g.respond(g.rd) {
		g.forwarded++
	}

	g.issue()
	g.acceptWriteBack()

	if g.forwarded == g.geom.NumIteration*words &&
		g.writeBacks == (g.geom.NumIteration-1)*words {
		g.setState(Done)
	}
}

func (g *PsumGLB) issue() {
	words := g.geom.PsumWords()
	if g.issued == g.geom.NumIteration*words || !g.tracking.Vacancy() {
		return
	}

	// The address of a word is its index within the iteration.
	addr := g.issued % words
	if g.issued >= words && g.writeBacks <= g.issued-words {
		return
	}

	g.sram.Request(hw.SRAMRead, addr, nil, psumReadPort)
	g.tracking.Push(hw.Scalar(int64(addr)))
	g.issued++
}

func (g *PsumGLB) acceptWriteBack() {
	if !g.writeBack.Valid() {
		return
	}

	word := g.writeBack.Pop()
	addr := g.writeBacks % g.geom.PsumWords()
	g.sram.Request(hw.SRAMWrite, addr, word, psumWriteBackPort)
	g.counters.Add(stats.GLBWrite, len(word))
	g.writeBacks++
}
