package hw

import (
	"github.com/sarchlab/akita/v4/sim"
)

// HookPosChanPush marks when a word is pushed into a channel.
var HookPosChanPush = &sim.HookPos{Name: "Chan Push"}

// HookPosChanPop marks when a word is popped or freed from a channel.
var HookPosChanPop = &sim.HookPos{Name: "Chan Pop"}

// A Word is the unit of transfer on a channel. Its length is the width of the
// channel that carries it.
type Word []int64

// Scalar wraps a single value into a word of width 1.
func Scalar(v int64) Word {
	return Word{v}
}

// Zeros returns a word of the given width filled with zeros.
func Zeros(width int) Word {
	return make(Word, width)
}

// A Channel is a bounded handshake queue between exactly one producer and
// one consumer. Valid, Vacancy and Peek only observe the state committed at
// the last cycle boundary. Pushes and pops issued during a cycle become
// visible in the next one, so the order in which modules tick does not
// matter.
type Channel struct {
	sim.HookableBase

	name  string
	width int
	slots []Word

	// rd and wr count committed pops and pushes since creation.
	rd, wr int

	// numPop and numPush count the operations issued during this cycle.
	numPop, numPush int

	pushes, pops uint64
}

func ahead(lookahead []int) int {
	if len(lookahead) == 0 {
		return 0
	}

	return lookahead[0]
}

// Name returns the name of the channel.
func (c *Channel) Name() string {
	return c.name
}

// Width returns the number of values in each word.
func (c *Channel) Width() int {
	return c.width
}

// Capacity returns the depth of the channel.
func (c *Channel) Capacity() int {
	return len(c.slots)
}

// Len returns the number of committed words.
func (c *Channel) Len() int {
	return c.wr - c.rd
}

// Valid tells if at least lookahead+1 words can be read.
func (c *Channel) Valid(lookahead ...int) bool {
	return c.Len() > ahead(lookahead)
}

// Vacancy tells if at least lookahead+1 words can be written.
func (c *Channel) Vacancy(lookahead ...int) bool {
	return len(c.slots)-c.Len() > ahead(lookahead)
}

// Peek returns the i-th committed word without removing it. The returned
// word must not be modified.
func (c *Channel) Peek(i ...int) Word {
	idx := ahead(i)
	if !c.Valid(idx) {
		violate(QueueUnderflow, c.name, "peek",
			"index %d, %d words buffered", idx, c.Len())
	}

	return c.slots[(c.rd+idx)%len(c.slots)]
}

// Pop removes the oldest word that has not been popped in this cycle.
func (c *Channel) Pop() Word {
	if !c.Valid(c.numPop) {
		violate(QueueUnderflow, c.name, "pop",
			"%d words buffered, %d already popped", c.Len(), c.numPop)
	}

	word := c.slots[(c.rd+c.numPop)%len(c.slots)]
	c.numPop++
	c.pops++

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosChanPop,
		Item:   word,
	})

	return word
}

// Free discards the n oldest words without reading them.
func (c *Channel) Free(n int) {
	if n <= 0 {
		return
	}

	if !c.Valid(c.numPop + n - 1) {
		violate(QueueUnderflow, c.name, "free",
			"freeing %d, %d words buffered, %d already popped",
			n, c.Len(), c.numPop)
	}

	for i := 0; i < n; i++ {
		c.Pop()
	}
}

// Push appends a copy of the word.
func (c *Channel) Push(word Word) {
	if len(word) != c.width {
		violate(WidthMismatch, c.name, "push",
			"word width %d, channel width %d", len(word), c.width)
	}

	if !c.Vacancy(c.numPush) {
		violate(QueueOverflow, c.name, "push",
			"capacity %d, %d words buffered, %d already pushed",
			len(c.slots), c.Len(), c.numPush)
	}

	stored := make(Word, len(word))
	copy(stored, word)
	c.slots[(c.wr+c.numPush)%len(c.slots)] = stored
	c.numPush++
	c.pushes++

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosChanPush,
		Item:   stored,
	})
}

// Commit makes the pushes and pops of this cycle visible.
func (c *Channel) Commit() {
	c.rd += c.numPop
	c.wr += c.numPush
	c.numPop = 0
	c.numPush = 0
}

// Pushes returns the number of words ever pushed.
func (c *Channel) Pushes() uint64 {
	return c.pushes
}

// Pops returns the number of words ever popped or freed.
func (c *Channel) Pops() uint64 {
	return c.pops
}
