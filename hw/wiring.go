package hw

import "fmt"

// A Committer holds state that changes only at the cycle boundary.
type Committer interface {
	Commit()
}

// Wiring is the arena that owns every register, channel and memory of a
// simulated system. Modules keep plain pointers to the elements they use but
// never own them; the wiring commits them all once per cycle.
type Wiring struct {
	committers []Committer
	channels   []*Channel
	names      map[string]bool
}

// NewWiring creates an empty wiring.
func NewWiring() *Wiring {
	return &Wiring{
		names: make(map[string]bool),
	}
}

func (w *Wiring) register(name string, c Committer) {
	if name == "" {
		panic("wiring element must have a name")
	}

	if w.names[name] {
		panic(fmt.Sprintf("wiring element %s already exists", name))
	}

	w.names[name] = true
	w.committers = append(w.committers, c)
}

// NewChannel creates a channel of the given depth and word width.
func (w *Wiring) NewChannel(name string, depth, width int) *Channel {
	if depth <= 0 || width <= 0 {
		panic(fmt.Sprintf(
			"channel %s must have positive depth and width, got %d and %d",
			name, depth, width))
	}

	c := &Channel{
		name:  name,
		width: width,
		slots: make([]Word, depth),
	}

	w.register(name, c)
	w.channels = append(w.channels, c)

	return c
}

// NewSRAM creates a memory with depth words of width values each.
func (w *Wiring) NewSRAM(name string, depth, width, ports, latency int) *SRAM {
	if depth <= 0 || width <= 0 || ports <= 0 || latency <= 0 {
		panic(fmt.Sprintf("sram %s has an invalid geometry", name))
	}

	s := &SRAM{
		name:      name,
		width:     width,
		latency:   latency,
		mem:       make([]Word, depth),
		busy:      make([]bool, ports),
		responses: make([]*FIFO[sramResponse], ports),
	}

	for i := range s.mem {
		s.mem[i] = make(Word, width)
	}

	for i := range s.responses {
		s.responses[i] = NewFIFO[sramResponse](
			fmt.Sprintf("%s.Response[%d]", name, i), MaxOutstandingReads)
	}

	w.register(name, s)

	return s
}

// Channels returns every channel in creation order.
func (w *Wiring) Channels() []*Channel {
	return w.channels
}

// Commit ends the current cycle for every element.
func (w *Wiring) Commit() {
	for _, c := range w.committers {
		c.Commit()
	}
}
