// Package api defines the driver API for the systolic array.
package api

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/serdes"
	"github.com/sarchlab/systolic/stats"
	"github.com/sarchlab/systolic/verify"
)

// Driver provides the interface to run layers on an accelerator.
type Driver interface {
	// RegisterDevice registers a device to the driver. The driver attaches
	// the host serializers to the DRAM channels of the device.
	RegisterDevice(device arch.Device)

	// Run simulates a job until the output is validated. A layer larger
	// than the array runs as several passes. A validation failure is
	// reported in the result, not as an error. After an error the device
	// may hold stale words and the driver should not be reused.
	Run(job Job) (*Result, error)
}

// driverImpl is the root of the simulated system. Its children are the
// host serializer, the device and the host deserializer.
type driverImpl struct {
	*hw.ModuleBase

	engine    sim.Engine
	freq      sim.Freq
	wiring    *hw.Wiring
	arch      arch.ArchConfig
	maxCycles uint64

	device    arch.Device
	host      *serdes.InputSerializer
	check     *serdes.OutputDeserializer
	simulator *hw.Simulator

	job       Job
	geom      arch.Geometry
	passes    []arch.Pass
	next      int
	ofmap     *arch.Tensor3
	reference *arch.Tensor3

	// pending asks for the next pass to be configured in the coming tick.
	pending bool
	// waiting is set while a pass runs.
	waiting bool
}

// RegisterDevice registers a device to the driver.
func (d *driverImpl) RegisterDevice(device arch.Device) {
	if d.device != nil {
		panic("driver " + d.Name() + " already has a device")
	}

	d.device = device
	d.host = serdes.NewInputSerializer(
		d.Name()+".Serializer", d.wiring, device.Input())
	d.check = serdes.NewOutputDeserializer(
		d.Name()+".Deserializer", d.wiring, device.Output())

	d.AddChild(d.host)
	d.AddChild(device)
	d.AddChild(d.check)

	d.simulator = hw.NewSimulator(d.engine, d.freq, d.wiring, d)
	d.simulator.SetMaxCycles(d.maxCycles)
}

// Tick starts the next pass once the previous one has been collected.
func (d *driverImpl) Tick() {
	if d.pending {
		d.configureNextPass()
		return
	}

	if d.waiting && d.check.PassDone() {
		d.waiting = false
		d.pending = d.next < len(d.passes)
	}
}

func (d *driverImpl) configureNextPass() {
	p := d.passes[d.next]
	d.next++
	d.pending = false
	d.waiting = true

	stim := serdes.PassStimulus{
		Ifmap:     d.job.Ifmap,
		Weights:   d.job.Weights,
		Bias:      d.job.Bias,
		InOffset:  p.InOffset,
		OutOffset: p.OutOffset,
	}

	// The schedule is built at configuration, so the partial sums are
	// read before this pass overwrites them.
	if !p.First() {
		stim.Preload = d.ofmap
	}

	sink := serdes.Sink{Ofmap: d.ofmap, OutOffset: p.OutOffset}
	if p.Final {
		sink.Reference = d.reference
	}

	d.device.Configure(d.geom)
	d.host.Configure(d.geom, stim)
	d.check.Configure(d.geom, sink)

	slog.Debug("pass started",
		"driver", d.Name(),
		"pass", p.Index,
		"in_tile", p.InTile,
		"out_tile", p.OutTile,
		"cycle", d.simulator.Cycle(),
	)
}

// Run simulates a job.
func (d *driverImpl) Run(job Job) (*Result, error) {
	if d.device == nil {
		return nil, errors.New("no device registered")
	}

	if err := arch.Validate(d.arch, job.Layer); err != nil {
		return nil, err
	}

	if err := job.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid job")
	}

	d.prepare(job)

	runID := xid.New().String()
	before := stats.Collect(d.device)
	startCycle := d.simulator.Cycle()

	outcome, err := d.simulator.Run()
	if err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}

	entries := stats.Delta(stats.Collect(d.device), before)

	res := &Result{
		RunID:     runID,
		Outcome:   outcome,
		Cycles:    d.simulator.Cycle() - startCycle,
		Passes:    len(d.passes),
		Ofmap:     d.ofmap,
		Reference: d.reference,
		Entries:   entries,
		Counters:  stats.Total(entries),
		Energy:    stats.NewCostModel(),
	}
	res.Energy.CountAll(res.Counters)

	slog.Info("run finished",
		"run", runID,
		"status", outcome.Status.String(),
		"cycles", res.Cycles,
		"passes", res.Passes,
		"energy", res.Energy.Energy(),
	)

	return res, nil
}

func (d *driverImpl) prepare(job Job) {
	l := job.Layer

	d.job = job
	d.geom = arch.NewGeometry(d.arch, l)
	d.passes = arch.Passes(d.arch, l)
	d.next = 0
	d.pending = true
	d.waiting = false
	d.ofmap = arch.NewTensor3(l.Image.X, l.Image.Y, l.OutChannels)

	d.reference = job.Reference
	if d.reference == nil {
		d.reference = verify.Conv(job.Ifmap, job.Weights, job.Bias)
	}
}
