// Package stats collects the event counters exposed by the hardware modules
// and turns them into a linear energy estimate.
package stats

import (
	"fmt"

	"github.com/sarchlab/systolic/hw"
)

// CounterKind names one kind of hardware event.
type CounterKind int

// The events counted by the modules.
const (
	PEMAC CounterKind = iota
	PEChanPop
	PEChanPush
	PERFRead
	PERFWrite
	NoCMulticast
	GLBRead
	GLBWrite
	GLBZeroSkip
	DRAMRead
	DRAMWrite
	NumCounterKinds
)

var counterNames = [NumCounterKinds]string{
	"PEMAC",
	"PEChanPop",
	"PEChanPush",
	"PERFRead",
	"PERFWrite",
	"NoCMulticast",
	"GLBRead",
	"GLBWrite",
	"GLBZeroSkip",
	"DRAMRead",
	"DRAMWrite",
}

// String returns the name of the counter.
func (k CounterKind) String() string {
	if k < 0 || k >= NumCounterKinds {
		return fmt.Sprintf("CounterKind(%d)", int(k))
	}

	return counterNames[k]
}

// Counters holds one count per kind.
type Counters [NumCounterKinds]uint64

// Add increases a counter.
func (c *Counters) Add(k CounterKind, n int) {
	c[k] += uint64(n)
}

// Inc increases a counter by one.
func (c *Counters) Inc(k CounterKind) {
	c[k]++
}

// Get returns a counter.
func (c Counters) Get(k CounterKind) uint64 {
	return c[k]
}

// Merge adds all the counts of o.
func (c *Counters) Merge(o Counters) {
	for i := range c {
		c[i] += o[i]
	}
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	*c = Counters{}
}

// A Reporter is a module that exposes counters.
type Reporter interface {
	Counters() Counters
}

// Entry is the counters of one module.
type Entry struct {
	Name     string
	Counters Counters
}

// Collect returns the counters of every reporting module, in tick order.
func Collect(root hw.Module) []Entry {
	var entries []Entry

	hw.Walk(root, func(m hw.Module) {
		if r, ok := m.(Reporter); ok {
			entries = append(entries, Entry{Name: m.Name(), Counters: r.Counters()})
		}
	})

	return entries
}

// Aggregate sums the counters of every reporting module.
func Aggregate(root hw.Module) Counters {
	return Total(Collect(root))
}

// Sub returns the counts accumulated since an earlier snapshot.
func (c Counters) Sub(earlier Counters) Counters {
	var d Counters
	for i := range c {
		d[i] = c[i] - earlier[i]
	}

	return d
}

// Delta returns the counts accumulated by each module since an earlier
// collection of the same tree.
func Delta(now, earlier []Entry) []Entry {
	if len(now) != len(earlier) {
		panic("counter entries come from different trees")
	}

	d := make([]Entry, len(now))
	for i, e := range now {
		d[i] = Entry{Name: e.Name, Counters: e.Counters.Sub(earlier[i].Counters)}
	}

	return d
}

// Total sums the counters of the entries.
func Total(entries []Entry) Counters {
	var total Counters

	for _, e := range entries {
		total.Merge(e.Counters)
	}

	return total
}
