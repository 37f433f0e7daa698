package config

import (
	"log/slog"

	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/glb"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/noc"
	"github.com/sarchlab/systolic/pe"
	"github.com/sarchlab/systolic/serdes"
)

// A Device is a weight-stationary accelerator: DRAM serdes, global
// buffers, NoC routers and the PE grid. Components can be reached directly
// for inspection; they only talk to each other through channels.
type Device struct {
	*hw.ModuleBase

	arch          arch.ArchConfig
	input, output *hw.Channel

	Deserializer *serdes.InputDeserializer
	IfmapGLB     *glb.IfmapGLB
	PsumGLB      *glb.PsumGLB
	WeightsGLB   *glb.WeightsGLB
	IfmapNoC     *noc.IfmapNoC
	WeightsNoC   *noc.WeightsNoC
	PsumRdNoC    *noc.PsumRdNoC
	Grid         *pe.Grid
	PsumWrNoC    *noc.PsumWrNoC
	Serializer   *serdes.OutputSerializer
}

// Tick does nothing; the components tick as children.
func (d *Device) Tick() {}

// Arch returns the structural parameters of the device.
func (d *Device) Arch() arch.ArchConfig {
	return d.arch
}

// Input returns the DRAM input channel.
func (d *Device) Input() *hw.Channel {
	return d.input
}

// Output returns the DRAM output channel.
func (d *Device) Output() *hw.Channel {
	return d.output
}

// Configure prepares every component for a new pass.
func (d *Device) Configure(g arch.Geometry) {
	d.Deserializer.Configure(g)
	d.IfmapGLB.Configure(g)
	d.PsumGLB.Configure(g)
	d.IfmapNoC.Configure(g.InSets)
	d.WeightsNoC.Configure(g.InSets, g.Cols)
	d.PsumRdNoC.Configure(g.OutSets)
	d.Grid.Configure(g.FmapPerIteration, g.NumIteration)
	d.PsumWrNoC.Configure(g.NumIteration, g.FmapPerIteration, g.OutSets)

	slog.Debug("device configured",
		"name", d.Name(),
		"image", g.Image,
		"filter", g.Filter,
		"fmap_per_iteration", g.FmapPerIteration,
		"num_iteration", g.NumIteration,
	)
}

var _ arch.Device = (*Device)(nil)
