package glb_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/glb"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

// sink drains a channel, one word per cycle, like the NoC behind a buffer.
type sink struct {
	c     *hw.Channel
	words []hw.Word
}

func (s *sink) tick() {
	if s.c.Valid() {
		s.words = append(s.words, s.c.Pop())
	}
}

var _ = Describe("IfmapGLB", func() {
	var (
		w    *hw.Wiring
		wr   *hw.Channel
		out  *sink
		g    *glb.IfmapGLB
		geom arch.Geometry
	)

	BeforeEach(func() {
		w = hw.NewWiring()
		wr = w.NewChannel("Wr", 16, 4)
		out = &sink{c: w.NewChannel("Rd", 3, 4)}
		g = glb.NewIfmapGLB("IfmapGLB", w, glb.Config{
			Depth:         16,
			TrackingDepth: 3,
			Latency:       1,
			ChnPerWord:    4,
		}, wr, out.c)

		geom = arch.NewGeometry(arch.DefaultArchConfig(), arch.DefaultLayerConfig())
		g.Configure(geom)

		for k := int64(0); k < 16; k++ {
			wr.Push(hw.Word{k, k + 100, k + 200, k + 300})
		}
		w.Commit()

		for i := 0; i < 16; i++ {
			g.Tick()
			w.Commit()
		}
	})

	It("should store the ifmap before reading", func() {
		Expect(g.State()).To(Equal(glb.Reading))
		Expect(g.SRAM().Writes()).To(Equal(uint64(16)))
		Expect(g.Counters().Get(stats.GLBWrite)).To(Equal(uint64(64)))
	})

	It("should pad the corner with zeros without reading the SRAM", func() {
		g.Tick()
		w.Commit()
		g.Tick()
		w.Commit()

		Expect(out.c.Peek()).To(Equal(hw.Zeros(4)))
		Expect(g.SRAM().Reads()).To(BeZero())
		Expect(g.Counters().Get(stats.GLBZeroSkip)).To(Equal(uint64(2)))
	})

	It("should stream every tap in order", func() {
		for i := 0; i < 1000 && g.State() != glb.Done; i++ {
			g.Tick()
			out.tick()
			w.Commit()
		}

		Expect(g.State()).To(Equal(glb.Done))
		Expect(out.words).To(HaveLen(144))

		for it := 0; it < geom.NumIteration; it++ {
			dx, dy := geom.TapOffset(it)
			for idx := 0; idx < geom.FmapPerIteration; idx++ {
				x, y := geom.FmapPos(idx)
				expected := hw.Zeros(4)
				if geom.InImage(x+dx, y+dy) {
					k := int64(geom.FmapIndex(x+dx, y+dy))
					expected = hw.Word{k, k + 100, k + 200, k + 300}
				}

				Expect(out.words[it*16+idx]).To(Equal(expected),
					"iteration %d fmap %d", it, idx)
			}
		}

		Expect(g.SRAM().Reads()).To(Equal(uint64(100)))
		Expect(g.Counters().Get(stats.GLBZeroSkip)).To(Equal(uint64(44)))
	})

	It("should hold reads while the consumer stalls", func() {
		for i := 0; i < 20; i++ {
			g.Tick()
			w.Commit()
		}

		Expect(out.c.Len()).To(Equal(3))
		Expect(g.State()).To(Equal(glb.Reading))
	})
})

var _ = Describe("PsumGLB", func() {
	var (
		w                  *hw.Wiring
		preload, writeBack *hw.Channel
		out                *sink
		g                  *glb.PsumGLB
	)

	run := func(cycles int) {
		for i := 0; i < cycles; i++ {
			g.Tick()
			out.tick()
			w.Commit()
		}
	}

	BeforeEach(func() {
		w = hw.NewWiring()
		preload = w.NewChannel("Preload", 4, 2)
		writeBack = w.NewChannel("WriteBack", 4, 2)
		out = &sink{c: w.NewChannel("Rd", 3, 2)}
		g = glb.NewPsumGLB("PsumGLB", w, glb.Config{
			Depth:         4,
			TrackingDepth: 3,
			Latency:       2,
			ChnPerWord:    2,
		}, preload, writeBack, out.c)

		g.Configure(arch.Geometry{
			ChnPerWord:       2,
			OutSets:          1,
			FmapPerIteration: 2,
			NumIteration:     3,
		})

		preload.Push(hw.Word{1, 1})
		preload.Push(hw.Word{2, 2})
		w.Commit()
	})

	It("should not read an address before it is written back", func() {
		run(10)

		Expect(out.words).To(Equal([]hw.Word{{1, 1}, {2, 2}}))
		Expect(g.SRAM().Reads()).To(Equal(uint64(2)))

		writeBack.Push(hw.Word{11, 11})
		w.Commit()
		run(10)

		Expect(out.words).To(HaveLen(3))
		Expect(out.words[2]).To(Equal(hw.Word{11, 11}))
	})

	It("should finish once every iteration is read and written back", func() {
		run(10)

		for _, word := range []hw.Word{{11, 11}, {12, 12}, {21, 21}, {22, 22}} {
			writeBack.Push(word)
			w.Commit()
			run(6)
		}

		Expect(out.words).To(Equal([]hw.Word{
			{1, 1}, {2, 2}, {11, 11}, {12, 12}, {21, 21}, {22, 22},
		}))
		Expect(g.State()).To(Equal(glb.Done))
		Expect(g.SRAM().Writes()).To(Equal(uint64(6)))
	})
})

var _ = Describe("WeightsGLB", func() {
	It("should pass words through", func() {
		w := hw.NewWiring()
		wr := w.NewChannel("Wr", 2, 2)
		rd := w.NewChannel("Rd", 1, 2)
		g := glb.NewWeightsGLB("WeightsGLB", wr, rd)

		wr.Push(hw.Word{1, 2})
		wr.Push(hw.Word{3, 4})
		w.Commit()

		g.Tick()
		w.Commit()
		g.Tick()
		w.Commit()

		Expect(rd.Peek()).To(Equal(hw.Word{1, 2}))
		Expect(wr.Len()).To(Equal(1))
		Expect(g.Counters().Get(stats.GLBRead)).To(Equal(uint64(2)))
	})
})
