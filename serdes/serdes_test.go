package serdes_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/serdes"
	"github.com/sarchlab/systolic/stats"
)

// A 2x4 array with two channels per word, over a 2x1 image and a 1x1
// filter.
var smallGeometry = arch.Geometry{
	Rows:             2,
	Cols:             4,
	ChnPerWord:       2,
	Image:            arch.Size{X: 2, Y: 1},
	Filter:           arch.Size{X: 1, Y: 1},
	InSets:           1,
	OutSets:          2,
	FmapPerIteration: 2,
	NumIteration:     1,
}

func smallStimulus() serdes.PassStimulus {
	ifmap := arch.NewTensor3(2, 1, 1)
	ifmap.Data = []int64{5, 6}

	weights := arch.NewTensor4(1, 1, 1, 3)
	weights.Data = []int64{7, 8, 9}

	return serdes.PassStimulus{
		Ifmap:   ifmap,
		Weights: weights,
		Bias:    []int64{1, 2, 3},
	}
}

var _ = Describe("Schedule", func() {
	It("should interleave ifmap and seeds, then send weights", func() {
		words := serdes.Schedule(smallGeometry, smallStimulus())

		Expect(words).To(Equal([]hw.Word{
			{5, 0}, {1, 2}, {3, 0},
			{6, 0}, {1, 2}, {3, 0},
			{7, 0}, {8, 0}, {9, 0}, {0, 0},
		}))
	})

	It("should seed from the preload when there is one", func() {
		stim := smallStimulus()
		stim.Preload = arch.NewTensor3(2, 1, 3)
		stim.Preload.Set(1, 0, 2, 40)

		words := serdes.Schedule(smallGeometry, stim)

		Expect(words[4]).To(Equal(hw.Word{0, 0}))
		Expect(words[5]).To(Equal(hw.Word{40, 0}))
	})

	It("should shift to the tile offsets", func() {
		stim := smallStimulus()
		stim.OutOffset = 2

		words := serdes.Schedule(smallGeometry, stim)

		Expect(words[1]).To(Equal(hw.Word{3, 0}))
		Expect(words[6]).To(Equal(hw.Word{9, 0}))
		Expect(words[7]).To(Equal(hw.Word{0, 0}))
	})
})

var _ = Describe("InputDeserializer", func() {
	It("should route every word of the schedule", func() {
		w := hw.NewWiring()
		in := w.NewChannel("In", 2, 2)
		ifmap := w.NewChannel("Ifmap", 8, 2)
		psum := w.NewChannel("Psum", 8, 2)
		weights := w.NewChannel("Weights", 8, 2)

		host := serdes.NewInputSerializer("Host", w, in)
		d := serdes.NewInputDeserializer("Deser", in, ifmap, psum, weights)

		host.Configure(smallGeometry, smallStimulus())
		d.Configure(smallGeometry)
		w.Commit()

		for i := 0; i < 20; i++ {
			host.Tick()
			d.Tick()
			w.Commit()
		}

		Expect(host.PassDone()).To(BeTrue())
		Expect(d.Done()).To(BeTrue())
		Expect(ifmap.Len()).To(Equal(2))
		Expect(psum.Len()).To(Equal(4))
		Expect(weights.Len()).To(Equal(4))
		Expect(psum.Peek(1)).To(Equal(hw.Word{3, 0}))
		Expect(d.Counters().Get(stats.DRAMRead)).To(Equal(uint64(20)))
	})

	It("should wait for the target channel", func() {
		w := hw.NewWiring()
		in := w.NewChannel("In", 2, 2)
		ifmap := w.NewChannel("Ifmap", 1, 2)
		d := serdes.NewInputDeserializer("Deser", in,
			ifmap, w.NewChannel("Psum", 1, 2), w.NewChannel("Weights", 1, 2))
		d.Configure(smallGeometry)

		ifmap.Push(hw.Word{0, 0})
		in.Push(hw.Word{1, 1})
		w.Commit()

		d.Tick()
		w.Commit()

		Expect(in.Len()).To(Equal(1))
	})
})

var _ = Describe("OutputDeserializer", func() {
	var (
		w    *hw.Wiring
		in   *hw.Channel
		ser  *serdes.OutputSerializer
		d    *serdes.OutputDeserializer
		psum *hw.Channel
	)

	BeforeEach(func() {
		w = hw.NewWiring()
		psum = w.NewChannel("Psum", 8, 2)
		in = w.NewChannel("Out", 2, 2)
		ser = serdes.NewOutputSerializer("Ser", psum, in)
		d = serdes.NewOutputDeserializer("Host", w, in)
	})

	run := func() {
		for _, word := range []hw.Word{{1, 2}, {3, 4}, {5, 6}, {7, 8}} {
			psum.Push(word)
		}
		w.Commit()

		for i := 0; i < 10; i++ {
			ser.Tick()
			d.Tick()
			w.Commit()
		}
	}

	It("should assemble a pass without deciding", func() {
		ofmap := arch.NewTensor3(2, 1, 3)
		d.Configure(smallGeometry, serdes.Sink{Ofmap: ofmap})

		run()

		Expect(d.PassDone()).To(BeTrue())
		Expect(d.Outcome().Finished()).To(BeFalse())
		Expect(ofmap.Data).To(Equal([]int64{1, 2, 3, 5, 6, 7}))
		Expect(ser.Counters().Get(stats.DRAMWrite)).To(Equal(uint64(8)))
	})

	It("should succeed on a matching final pass", func() {
		ofmap := arch.NewTensor3(2, 1, 3)
		ref := arch.NewTensor3(2, 1, 3)
		ref.Data = []int64{1, 2, 3, 5, 6, 7}
		d.Configure(smallGeometry, serdes.Sink{Ofmap: ofmap, Reference: ref})

		run()

		Expect(d.Outcome().Status).To(Equal(hw.Success))
	})

	It("should fail with a diff on a mismatch", func() {
		ofmap := arch.NewTensor3(2, 1, 3)
		ref := arch.NewTensor3(2, 1, 3)
		d.Configure(smallGeometry, serdes.Sink{Ofmap: ofmap, Reference: ref})

		run()

		o := d.Outcome()
		Expect(o.Status).To(Equal(hw.Failure))
		Expect(o.Message).To(ContainSubstring("6 mismatches"))
		Expect(o.Diff).To(ContainSubstring("DELTA"))
	})

	It("should clear the verdict on a new pass", func() {
		ofmap := arch.NewTensor3(2, 1, 3)
		d.Configure(smallGeometry, serdes.Sink{
			Ofmap: ofmap, Reference: arch.NewTensor3(2, 1, 3),
		})
		run()
		Expect(d.Outcome().Finished()).To(BeTrue())

		d.Configure(smallGeometry, serdes.Sink{Ofmap: ofmap})

		Expect(d.Outcome().Finished()).To(BeFalse())
	})
})
