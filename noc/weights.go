package noc

import (
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

// WeightsNoC delivers a word of ChnPerWord weights to consecutive rows of
// one column. Words arrive set by set within a filter, filter by filter.
type WeightsNoC struct {
	router

	src *hw.Channel
	dst [][]*hw.Channel

	sets, filters int
	set, filter   int
}

// NewWeightsNoC creates a router from src to dst[row][col].
func NewWeightsNoC(
	name string,
	src *hw.Channel,
	dst [][]*hw.Channel,
	chnPerWord int,
) *WeightsNoC {
	return &WeightsNoC{
		router: newRouter(name, chnPerWord),
		src:    src,
		dst:    dst,
	}
}

// Configure sets the number of weight sets per filter and the number of
// filters.
func (n *WeightsNoC) Configure(sets, filters int) {
	n.sets = sets
	n.filters = filters
	n.set = 0
	n.filter = 0
}

func (n *WeightsNoC) targets() []*hw.Channel {
	ymin := n.set * n.chnPerWord
	targets := make([]*hw.Channel, n.chnPerWord)

	for i := range targets {
		targets[i] = n.dst[ymin+i][n.filter]
	}

	return targets
}

// Tick moves at most one word.
func (n *WeightsNoC) Tick() {
	if n.sets == 0 || !n.src.Valid() {
		return
	}

	targets := n.targets()
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
		n.filter++
	}

	if n.filter == n.filters {
		n.filter = 0
	}
}
