package serdes

import (
	"fmt"

	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/verify"
)

// maxDiffRows bounds the mismatches rendered in a failed outcome.
const maxDiffRows = 32

// PassStimulus is the data of one pass. Channels outside the layer read as
// zero.
type PassStimulus struct {
	Ifmap   *arch.Tensor3
	Weights *arch.Tensor4
	Bias    []int64

	// Preload seeds the partial sums. When nil, the bias is used.
	Preload *arch.Tensor3

	InOffset, OutOffset int
}

func (s PassStimulus) ifmap(x, y, c int) int64 {
	c += s.InOffset
	if c >= s.Ifmap.C {
		return 0
	}

	return s.Ifmap.At(x, y, c)
}

func (s PassStimulus) seed(x, y, f int) int64 {
	f += s.OutOffset
	if f >= len(s.Bias) {
		return 0
	}

	if s.Preload != nil {
		return s.Preload.At(x, y, f)
	}

	return s.Bias[f]
}

func (s PassStimulus) weight(fx, fy, c, f int) int64 {
	c += s.InOffset
	f += s.OutOffset
	if c >= s.Weights.C || f >= s.Weights.F {
		return 0
	}

	return s.Weights.At(fx, fy, c, f)
}

// Schedule returns the DRAM input words of a pass, in order.
func Schedule(g arch.Geometry, s PassStimulus) []hw.Word {
	words := make([]hw.Word, 0, g.InputWords())
	cpw := g.ChnPerWord

	for idx := 0; idx < g.FmapPerIteration; idx++ {
		x, y := g.FmapPos(idx)

		for set := 0; set < g.InSets; set++ {
			word := make(hw.Word, cpw)
			for i := range word {
				word[i] = s.ifmap(x, y, set*cpw+i)
			}
			words = append(words, word)
		}

		for set := 0; set < g.OutSets; set++ {
			word := make(hw.Word, cpw)
			for i := range word {
				word[i] = s.seed(x, y, set*cpw+i)
			}
			words = append(words, word)
		}
	}

	for it := 0; it < g.NumIteration; it++ {
		fx, fy := g.FilterTap(it)

		for f := 0; f < g.Cols; f++ {
			for set := 0; set < g.InSets; set++ {
				word := make(hw.Word, cpw)
				for i := range word {
					word[i] = s.weight(fx, fy, set*cpw+i, f)
				}
				words = append(words, word)
			}
		}
	}

	return words
}

// InputSerializer is the host that feeds the DRAM input channel.
type InputSerializer struct {
	*hw.ModuleBase

	out      *hw.Channel
	schedule []hw.Word
	next     int
	passDone *hw.Reg[bool]
}

// NewInputSerializer creates an idle serializer writing into out.
func NewInputSerializer(name string, w *hw.Wiring, out *hw.Channel) *InputSerializer {
	return &InputSerializer{
		ModuleBase: hw.NewModuleBase(name),
		out:        out,
		passDone:   hw.NewReg(w, name+".PassDone", true),
	}
}

// Configure loads the stimulus of a new pass.
func (s *InputSerializer) Configure(g arch.Geometry, stim PassStimulus) {
	s.schedule = Schedule(g, stim)
	s.next = 0
	s.passDone.Write(false)
}

// PassDone tells if every word of the pass was sent.
func (s *InputSerializer) PassDone() bool {
	return s.passDone.Read()
}

// Tick sends at most one word.
func (s *InputSerializer) Tick() {
	if s.passDone.Read() || !s.out.Vacancy() {
		return
	}

	s.out.Push(s.schedule[s.next])
	s.next++

	if s.next == len(s.schedule) {
		s.passDone.Write(true)
	}
}

// Sink tells an OutputDeserializer where a pass goes.
type Sink struct {
	// Ofmap receives the output tile in place.
	Ofmap     *arch.Tensor3
	OutOffset int

	// Reference is set on the final pass only. The whole Ofmap is then
	// compared against it.
	Reference *arch.Tensor3
}

// OutputDeserializer is the host that assembles the output feature map and
// validates it once the final pass is complete.
type OutputDeserializer struct {
	*hw.ModuleBase

	in   *hw.Channel
	geom arch.Geometry
	sink Sink

	fmapIdx int
	set     int

	passDone *hw.Reg[bool]
	outcome  hw.Outcome
}

// NewOutputDeserializer creates an idle deserializer reading from in.
func NewOutputDeserializer(
	name string,
	w *hw.Wiring,
	in *hw.Channel,
) *OutputDeserializer {
	return &OutputDeserializer{
		ModuleBase: hw.NewModuleBase(name),
		in:         in,
		passDone:   hw.NewReg(w, name+".PassDone", true),
	}
}

// Configure prepares the deserializer for a new pass.
func (d *OutputDeserializer) Configure(g arch.Geometry, sink Sink) {
	d.geom = g
	d.sink = sink
	d.fmapIdx = 0
	d.set = 0
	d.outcome = hw.Outcome{}
	d.passDone.Write(false)
}

// PassDone tells if the output of the pass has been assembled.
func (d *OutputDeserializer) PassDone() bool {
	return d.passDone.Read()
}

// Outcome returns the verdict, which stays Running until the final pass is
// validated.
func (d *OutputDeserializer) Outcome() hw.Outcome {
	return d.outcome
}

// Tick consumes at most one word.
func (d *OutputDeserializer) Tick() {
	if d.passDone.Read() || d.outcome.Finished() || !d.in.Valid() {
		return
	}

	word := d.in.Pop()
	x, y := d.geom.FmapPos(d.fmapIdx)

	for i, v := range word {
		c := d.sink.OutOffset + d.set*d.geom.ChnPerWord + i
		if c < d.sink.Ofmap.C {
			d.sink.Ofmap.Set(x, y, c, v)
		}
	}

	d.set++
	if d.set == d.geom.OutSets {
		d.set = 0
		d.fmapIdx++
	}

	if d.fmapIdx < d.geom.FmapPerIteration {
		return
	}

	d.passDone.Write(true)

	if d.sink.Reference != nil {
		d.validate()
	}
}

func (d *OutputDeserializer) validate() {
	diff, err := verify.Compare(d.sink.Ofmap, d.sink.Reference)

	switch {
	case err != nil:
		d.outcome = hw.Fail(err.Error(), "")
	case len(diff) == 0:
		d.outcome = hw.Succeed("Success")
	default:
		d.outcome = hw.Fail(
			fmt.Sprintf("Validation Failed: %d mismatches", len(diff)),
			verify.DiffTable(diff, maxDiffRows))
	}

	hw.Trace("validated", "module", d.Name(), "status", d.outcome.Status)
}
