package stats_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

type counting struct {
	*hw.ModuleBase
	counters stats.Counters
}

func (c *counting) Tick() {}

func (c *counting) Counters() stats.Counters {
	return c.counters
}

type silent struct {
	*hw.ModuleBase
}

func (s *silent) Tick() {}

var _ = Describe("Counters", func() {
	It("should aggregate over the module tree", func() {
		root := &silent{ModuleBase: hw.NewModuleBase("Root")}
		a := &counting{ModuleBase: hw.NewModuleBase("A")}
		b := &counting{ModuleBase: hw.NewModuleBase("B")}
		root.AddChild(a)
		a.AddChild(b)

		a.counters.Add(stats.PEMAC, 3)
		b.counters.Inc(stats.PEMAC)
		b.counters.Add(stats.DRAMRead, 4)

		total := stats.Aggregate(root)

		Expect(total.Get(stats.PEMAC)).To(Equal(uint64(4)))
		Expect(total.Get(stats.DRAMRead)).To(Equal(uint64(4)))
		Expect(stats.Collect(root)).To(HaveLen(2))
	})

	It("should render non-zero counters", func() {
		var c stats.Counters
		c.Add(stats.GLBWrite, 7)

		out := stats.CounterTable([]stats.Entry{{Name: "Glb", Counters: c}})

		Expect(out).To(ContainSubstring("GLBWrite"))
		Expect(out).NotTo(ContainSubstring("PEMAC"))
	})

	It("should count only what happened since a snapshot", func() {
		root := &silent{ModuleBase: hw.NewModuleBase("Root")}
		a := &counting{ModuleBase: hw.NewModuleBase("A")}
		root.AddChild(a)

		a.counters.Add(stats.GLBRead, 5)
		before := stats.Collect(root)
		a.counters.Add(stats.GLBRead, 2)

		d := stats.Delta(stats.Collect(root), before)

		Expect(d).To(HaveLen(1))
		Expect(d[0].Name).To(Equal("A"))
		Expect(d[0].Counters.Get(stats.GLBRead)).To(Equal(uint64(2)))
		Expect(stats.Total(d).Get(stats.GLBRead)).To(Equal(uint64(2)))
	})

	It("should reset", func() {
		var c stats.Counters
		c.Inc(stats.PERFRead)
		c.Reset()

		Expect(c.Get(stats.PERFRead)).To(BeZero())
	})
})

var _ = Describe("CostModel", func() {
	It("should weigh events with the default weights", func() {
		m := stats.NewCostModel()
		m.Count(stats.ALU, 200)
		m.Count(stats.RF, 50)
		m.Count(stats.LN, 20)
		m.Count(stats.GB, 30)
		m.Count(stats.DRAM, 10)

		Expect(m.Energy()).To(Equal(2470.0))
	})

	It("should map hardware counters to categories", func() {
		var c stats.Counters
		c.Add(stats.PEMAC, 10)
		c.Add(stats.PERFWrite, 2)
		c.Add(stats.PEChanPop, 3)
		c.Add(stats.GLBRead, 4)
		c.Add(stats.DRAMWrite, 1)

		m := stats.NewCostModel()
		m.CountAll(c)

		Expect(m.Counted(stats.ALU)).To(Equal(uint64(20)))
		Expect(m.Counted(stats.RF)).To(Equal(uint64(2)))
		Expect(m.Counted(stats.LN)).To(Equal(uint64(3)))
		Expect(m.Counted(stats.GB)).To(Equal(uint64(4)))
		Expect(m.Counted(stats.DRAM)).To(Equal(uint64(1)))
		Expect(m.Energy()).To(Equal(20.0 + 2 + 6 + 24 + 200))
		Expect(stats.EnergyTable(m)).To(ContainSubstring("DRAM"))
	})
})
