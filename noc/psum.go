package noc

import (
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

// PsumRdNoC scatters a word of ChnPerWord partial sums to the seed channels
// of consecutive columns.
type PsumRdNoC struct {
	router

	src *hw.Channel
	dst []*hw.Channel

	sets int
	set  int
}

// NewPsumRdNoC creates a router from src to the seed row dst.
func NewPsumRdNoC(
	name string,
	src *hw.Channel,
	dst []*hw.Channel,
	chnPerWord int,
) *PsumRdNoC {
	return &PsumRdNoC{
		router: newRouter(name, chnPerWord),
		src:    src,
		dst:    dst,
	}
}

// Configure sets the number of words per fmap position.
func (n *PsumRdNoC) Configure(sets int) {
	n.sets = sets
	n.set = 0
}

// Tick moves at most one word.
func (n *PsumRdNoC) Tick() {
	if n.sets == 0 || !n.src.Valid() {
		return
	}

	targets := n.dst[n.set*n.chnPerWord : (n.set+1)*n.chnPerWord]
	if !allVacant(targets) {
		return
	}

	word := n.src.Pop()
	for i, t := range targets {
		t.Push(hw.Scalar(word[i]))
	}

	n.counters.Add(stats.NoCMulticast, len(word))

	n.set++
	if n.set == n.sets {
		n.set = 0
	}
}

// PsumWrNoC gathers the partial sums leaving the last row into words. The
// words of the last iteration go to the output; the others go back to the
// psum buffer.
type PsumWrNoC struct {
	router

	src    []*hw.Channel
	glb    *hw.Channel
	output *hw.Channel

	numIteration     int
	fmapPerIteration int
	sets             int

	iteration int
	fmapIdx   int
	set       int
}

// NewPsumWrNoC creates a router from the result row src.
func NewPsumWrNoC(
	name string,
	src []*hw.Channel,
	glb, output *hw.Channel,
	chnPerWord int,
) *PsumWrNoC {
	return &PsumWrNoC{
		router: newRouter(name, chnPerWord),
		src:    src,
		glb:    glb,
		output: output,
	}
}

// Configure sets the shape of the pass.
func (n *PsumWrNoC) Configure(numIteration, fmapPerIteration, sets int) {
	n.numIteration = numIteration
	n.fmapPerIteration = fmapPerIteration
	n.sets = sets
	n.iteration = 0
	n.fmapIdx = 0
	n.set = 0
}

// Done tells if every word of the pass was forwarded.
func (n *PsumWrNoC) Done() bool {
	return n.iteration >= n.numIteration
}

// Tick moves at most one word.
func (n *PsumWrNoC) Tick() {
	if n.Done() {
		return
	}

	lanes := n.src[n.set*n.chnPerWord : (n.set+1)*n.chnPerWord]
	if !allValid(lanes) {
		return
	}

	target := n.glb
	if n.iteration == n.numIteration-1 {
		target = n.output
	}

	if !target.Vacancy() {
		return
	}

	word := make(hw.Word, len(lanes))
	for i, c := range lanes {
		word[i] = c.Pop()[0]
	}

	target.Push(word)
	n.counters.Add(stats.NoCMulticast, len(word))

	n.set++
	if n.set == n.sets {
		n.set = 0
		n.fmapIdx++
	}

	if n.fmapIdx == n.fmapPerIteration {
		n.fmapIdx = 0
		n.iteration++
	}
}
