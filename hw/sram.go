package hw

import (
	"fmt"
	"strings"
)

// SRAMOp is the kind of an SRAM request.
type SRAMOp int

// The two request kinds.
const (
	SRAMRead SRAMOp = iota
	SRAMWrite
)

// MaxOutstandingReads bounds the reads in flight on one SRAM port.
const MaxOutstandingReads = 16

type sramResponse struct {
	readyAt uint64
	data    Word
}

// An SRAM is a word-addressed memory with independent ports. Each port takes
// at most one request per cycle. Writes update the array in place. A read
// copies the word at request time and delivers it on the same port latency
// cycles later, in request order.
//
// Two writes to the same address in the same cycle from different ports are
// applied in request order, so the later one wins.
type SRAM struct {
	name    string
	width   int
	latency int

	mem       []Word
	busy      []bool
	responses []*FIFO[sramResponse]

	cycle         uint64
	reads, writes uint64
}

// Name returns the name of the memory.
func (s *SRAM) Name() string {
	return s.name
}

// Depth returns the number of words.
func (s *SRAM) Depth() int {
	return len(s.mem)
}

// Width returns the number of values in each word.
func (s *SRAM) Width() int {
	return s.width
}

// Ports returns the number of ports.
func (s *SRAM) Ports() int {
	return len(s.busy)
}

// Latency returns the number of cycles between a read and its response.
func (s *SRAM) Latency() int {
	return s.latency
}

// Reads returns the number of read requests served.
func (s *SRAM) Reads() uint64 {
	return s.reads
}

// Writes returns the number of write requests served.
func (s *SRAM) Writes() uint64 {
	return s.writes
}

func (s *SRAM) portMustBeValid(op string, port int) {
	if port < 0 || port >= len(s.busy) {
		violate(PortOutOfRange, s.name, op,
			"port %d, %d ports", port, len(s.busy))
	}
}

// Request issues one operation on a port. The data argument is ignored for
// reads.
func (s *SRAM) Request(op SRAMOp, addr int, data Word, port int) {
	opName := "read"
	if op == SRAMWrite {
		opName = "write"
	}

	s.portMustBeValid(opName, port)

	if s.busy[port] {
		violate(PortConflict, s.name, opName,
			"port %d already used in this cycle", port)
	}

	if addr < 0 || addr >= len(s.mem) {
		violate(AddressOutOfRange, s.name, opName,
			"address %d, depth %d", addr, len(s.mem))
	}

	if op == SRAMWrite && len(data) != s.width {
		violate(WidthMismatch, s.name, opName,
			"word width %d, memory width %d", len(data), s.width)
	}

	s.busy[port] = true

	if op == SRAMWrite {
		copy(s.mem[addr], data)
		s.writes++

		return
	}

	word := make(Word, s.width)
	copy(word, s.mem[addr])
	s.responses[port].Enq(sramResponse{
		readyAt: s.cycle + uint64(s.latency),
		data:    word,
	})
	s.reads++
}

// ResponseValid tells if the oldest read on the port has completed.
func (s *SRAM) ResponseValid(port int) bool {
	s.portMustBeValid("response", port)

	q := s.responses[port]

	return q.NotEmpty() && q.Peek().readyAt <= s.cycle
}

// Response returns the data of the oldest completed read on the port.
func (s *SRAM) Response(port int) Word {
	if !s.ResponseValid(port) {
		violate(ResponseUnderflow, s.name, "response",
			"no completed read on port %d", port)
	}

	return s.responses[port].Deq().data
}

// Commit advances the memory pipeline by one cycle and frees all ports.
func (s *SRAM) Commit() {
	s.cycle++
	for i := range s.busy {
		s.busy[i] = false
	}
}

// Dump renders the content of the memory, one word per line.
func (s *SRAM) Dump() string {
	var b strings.Builder
	for addr, word := range s.mem {
		fmt.Fprintf(&b, "%s[%d] = %v\n", s.name, addr, []int64(word))
	}

	return b.String()
}
