package noc

import (
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

// IfmapNoC broadcasts a word of ChnPerWord activations to every column of
// ChnPerWord consecutive rows.
type IfmapNoC struct {
	router

	src *hw.Channel
	dst [][]*hw.Channel

	sets int
	set  int
}

// NewIfmapNoC creates a router from src to dst[row][col].
func NewIfmapNoC(
	name string,
	src *hw.Channel,
	dst [][]*hw.Channel,
	chnPerWord int,
) *IfmapNoC {
	return &IfmapNoC{
		router: newRouter(name, chnPerWord),
		src:    src,
		dst:    dst,
	}
}

// Configure sets the number of words per fmap position.
func (n *IfmapNoC) Configure(sets int) {
	n.sets = sets
	n.set = 0
}

// Tick moves at most one word.
func (n *IfmapNoC) Tick() {
	if n.sets == 0 || !n.src.Valid() {
		return
	}

	rows := n.dst[n.set*n.chnPerWord : (n.set+1)*n.chnPerWord]
	for _, row := range rows {
		if !allVacant(row) {
			return
		}
	}

	word := n.src.Pop()
	for i, row := range rows {
		for _, c := range row {
			c.Push(hw.Scalar(word[i]))
		}
	}

	n.counters.Add(stats.NoCMulticast, len(word))

	n.set++
	if n.set == n.sets {
		n.set = 0
	}
}
