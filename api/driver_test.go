package api_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/systolic/api"
	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/config"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

type trafficRecorder struct {
	pushed, popped map[*hw.Channel][]hw.Word
}

func newTrafficRecorder() *trafficRecorder {
	return &trafficRecorder{
		pushed: make(map[*hw.Channel][]hw.Word),
		popped: make(map[*hw.Channel][]hw.Word),
	}
}

func (r *trafficRecorder) Func(ctx sim.HookCtx) {
	c := ctx.Domain.(*hw.Channel)
	word := ctx.Item.(hw.Word)

	switch ctx.Pos {
	case hw.HookPosChanPush:
		r.pushed[c] = append(r.pushed[c], word)
	case hw.HookPosChanPop:
		r.popped[c] = append(r.popped[c], word)
	}
}

func buildPlatform(
	a arch.ArchConfig,
	maxCycles uint64,
) (api.Driver, *config.Device, *hw.Wiring) {
	w := hw.NewWiring()

	device := config.MakeDeviceBuilder().
		WithWiring(w).
		WithArch(a).
		Build("Device")

	driver := api.MakeDriverBuilder().
		WithEngine(sim.NewSerialEngine()).
		WithWiring(w).
		WithArch(a).
		WithMaxCycles(maxCycles).
		Build("Driver")
	driver.RegisterDevice(device)

	return driver, device, w
}

var _ = Describe("Driver on a weight-stationary device", func() {
	var (
		a      arch.ArchConfig
		layer  arch.LayerConfig
		driver api.Driver
		w      *hw.Wiring
	)

	BeforeEach(func() {
		a = arch.DefaultArchConfig()
		layer = arch.DefaultLayerConfig()
		driver, _, w = buildPlatform(a, 200000)
	})

	It("should compute a layer that fits the array", func() {
		res, err := driver.Run(api.RandomJob(layer, 1))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome.Status).To(Equal(hw.Success))
		Expect(res.Outcome.Message).To(Equal("Success"))
		Expect(res.Passes).To(Equal(1))
		Expect(res.Ofmap.Data).To(Equal(res.Reference.Data))
		Expect(res.Cycles).To(BeNumerically(">", 0))
	})

	It("should count the events of the run", func() {
		g := arch.NewGeometry(a, layer)

		res, err := driver.Run(api.RandomJob(layer, 1))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Counters.Get(stats.PEMAC)).To(Equal(uint64(32 * 16 * 9)))
		Expect(res.Counters.Get(stats.DRAMRead)).
			To(Equal(uint64(g.InputWords() * a.ChnPerWord)))
		Expect(res.Counters.Get(stats.DRAMWrite)).
			To(Equal(uint64(g.PsumWords() * a.ChnPerWord)))
		Expect(res.Energy.Energy()).To(BeNumerically(">", 0))
		Expect(res.Energy.Counted(stats.DRAM)).
			To(Equal(res.Counters.Get(stats.DRAMRead) +
				res.Counters.Get(stats.DRAMWrite)))
	})

	It("should split a layer larger than the array into passes", func() {
		layer = arch.LayerConfig{
			Image:       arch.Size{X: 3, Y: 3},
			Filter:      arch.Size{X: 3, Y: 3},
			InChannels:  6,
			OutChannels: 12,
		}

		res, err := driver.Run(api.RandomJob(layer, 7))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome.Status).To(Equal(hw.Success))
		Expect(res.Passes).To(Equal(4))
		Expect(res.Ofmap.Data).To(Equal(res.Reference.Data))
		Expect(res.Counters.Get(stats.PEMAC)).To(Equal(uint64(4 * 32 * 9 * 9)))
	})

	It("should give the same result when a job runs twice", func() {
		job := api.RandomJob(layer, 3)

		first, err := driver.Run(job)
		Expect(err).NotTo(HaveOccurred())
		firstData := append([]int64(nil), first.Ofmap.Data...)

		second, err := driver.Run(job)
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Outcome.Status).To(Equal(hw.Success))
		Expect(second.Cycles).To(Equal(first.Cycles))
		Expect(second.Counters).To(Equal(first.Counters))
		Expect(second.Ofmap.Data).To(Equal(firstData))
		Expect(second.RunID).NotTo(Equal(first.RunID))
	})

	It("should report mismatches against a wrong reference", func() {
		job := api.RandomJob(layer, 5)
		first, err := driver.Run(job)
		Expect(err).NotTo(HaveOccurred())

		job.Reference = first.Reference.Clone()
		job.Reference.Set(1, 2, 3, job.Reference.At(1, 2, 3)+1)

		res, err := driver.Run(job)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome.Status).To(Equal(hw.Failure))
		Expect(res.Outcome.Message).
			To(Equal("Validation Failed: 1 mismatches"))
		Expect(res.Outcome.Diff).NotTo(BeEmpty())
	})

	It("should deliver every word in order", func() {
		rec := newTrafficRecorder()
		for _, c := range w.Channels() {
			c.AcceptHook(rec)
		}

		_, err := driver.Run(api.RandomJob(layer, 9))
		Expect(err).NotTo(HaveOccurred())

		for _, c := range w.Channels() {
			pushed, popped := rec.pushed[c], rec.popped[c]

			Expect(len(popped)).To(BeNumerically("<=", len(pushed)), c.Name())
			Expect(popped).To(Equal(pushed[:len(popped)]), c.Name())
		}
	})

	It("should drain the DRAM channels", func() {
		driver, device, _ := buildPlatform(a, 200000)

		_, err := driver.Run(api.RandomJob(layer, 2))
		Expect(err).NotTo(HaveOccurred())

		Expect(device.Input().Len()).To(Equal(0))
		Expect(device.Output().Len()).To(Equal(0))
		Expect(device.Input().Pops()).To(Equal(device.Input().Pushes()))
		Expect(device.Output().Pops()).To(Equal(device.Output().Pushes()))
	})

	It("should stop at the cycle bound", func() {
		driver, _, _ = buildPlatform(a, 10)

		_, err := driver.Run(api.RandomJob(layer, 1))

		Expect(errors.Cause(err)).To(Equal(hw.ErrMaxCyclesReached))
	})

	It("should reject an invalid layer", func() {
		layer.Filter = arch.Size{X: 5, Y: 5}

		_, err := driver.Run(api.RandomJob(layer, 1))

		Expect(err).To(MatchError(ContainSubstring("invalid layer")))
	})

	It("should panic without an engine", func() {
		Expect(func() {
			api.MakeDriverBuilder().WithWiring(hw.NewWiring()).Build("Driver")
		}).To(Panic())
	})
})
