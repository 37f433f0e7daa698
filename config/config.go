// Package config provides a default configuration for the accelerator.
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

// DeviceBuilder can build accelerator devices.
type DeviceBuilder struct {
	wiring *hw.Wiring
	arch   arch.ArchConfig
}

// MakeDeviceBuilder creates a builder with the default array.
func MakeDeviceBuilder() DeviceBuilder {
	return DeviceBuilder{arch: arch.DefaultArchConfig()}
}

// WithWiring sets the wiring that owns the channels and memories of the
// device.
func (d DeviceBuilder) WithWiring(w *hw.Wiring) DeviceBuilder {
	d.wiring = w
	return d
}

// WithArch sets the structural parameters of the device.
func (d DeviceBuilder) WithArch(a arch.ArchConfig) DeviceBuilder {
	d.arch = a
	return d
}

// Build creates a device.
func (d DeviceBuilder) Build(name string) *Device {
	if d.wiring == nil {
		panic("device " + name + " needs a wiring")
	}

	if err := d.arch.Validate(); err != nil {
		panic(err)
	}

	a := d.arch
	w := d.wiring
	cpw := a.ChnPerWord

	dev := &Device{
		ModuleBase: hw.NewModuleBase(name),
		arch:       a,
		input:      w.NewChannel(name+".Input", a.IOChanDepth, cpw),
		output:     w.NewChannel(name+".Output", a.IOChanDepth, cpw),
	}

	ifmapWr := w.NewChannel(name+".IfmapWr", a.IOChanDepth, cpw)
	psumWr := w.NewChannel(name+".PsumWr", a.IOChanDepth, cpw)
	weightsWr := w.NewChannel(name+".WeightsWr", a.IOChanDepth, cpw)
	ifmapRd := w.NewChannel(name+".IfmapRd", a.GLBReadChanDepth, cpw)
	psumRd := w.NewChannel(name+".PsumRd", a.GLBReadChanDepth, cpw)
	weightsRd := w.NewChannel(name+".WeightsRd", a.IOChanDepth, cpw)
	psumWriteBack := w.NewChannel(name+".PsumWriteBack", a.IOChanDepth, cpw)
	psumOut := w.NewChannel(name+".PsumOut", a.IOChanDepth, cpw)

	dev.Deserializer = serdes.NewInputDeserializer(name+".Deserializer",
		dev.input, ifmapWr, psumWr, weightsWr)

	dev.IfmapGLB = glb.NewIfmapGLB(name+".IfmapGLB", w, glb.Config{
		Depth:         a.IfmapGLBDepth,
		TrackingDepth: a.GLBReadChanDepth,
		Latency:       a.SRAMLatency,
		ChnPerWord:    cpw,
	}, ifmapWr, ifmapRd)

	dev.PsumGLB = glb.NewPsumGLB(name+".PsumGLB", w, glb.Config{
		Depth:         a.PsumGLBDepth,
		TrackingDepth: a.GLBReadChanDepth,
		Latency:       a.SRAMLatency,
		ChnPerWord:    cpw,
	}, psumWr, psumWriteBack, psumRd)

	dev.WeightsGLB = glb.NewWeightsGLB(name+".WeightsGLB", weightsWr, weightsRd)

	dev.Grid = pe.MakeGridBuilder().
		WithWiring(w).
		WithRows(a.ArrY).
		WithCols(a.ArrX).
		WithChanDepth(a.PEChanDepth).
		Build(name + ".Grid")

	dev.IfmapNoC = noc.NewIfmapNoC(name+".IfmapNoC",
		ifmapRd, dev.Grid.IfmapChans, cpw)
	dev.WeightsNoC = noc.NewWeightsNoC(name+".WeightsNoC",
		weightsRd, dev.Grid.WeightChans, cpw)
	dev.PsumRdNoC = noc.NewPsumRdNoC(name+".PsumRdNoC",
		psumRd, dev.Grid.PsumChans[0], cpw)
	dev.PsumWrNoC = noc.NewPsumWrNoC(name+".PsumWrNoC",
		dev.Grid.PsumChans[a.ArrY], psumWriteBack, psumOut, cpw)

	dev.Serializer = serdes.NewOutputSerializer(name+".Serializer",
		psumOut, dev.output)

	dev.AddChild(dev.Deserializer)
	dev.AddChild(dev.IfmapGLB)
	dev.AddChild(dev.PsumGLB)
	dev.AddChild(dev.WeightsGLB)
	dev.AddChild(dev.IfmapNoC)
	dev.AddChild(dev.WeightsNoC)
	dev.AddChild(dev.PsumRdNoC)
	dev.AddChild(dev.Grid)
	dev.AddChild(dev.PsumWrNoC)
	dev.AddChild(dev.Serializer)

	slog.Debug("device built",
		"name", name,
		"rows", a.ArrY,
		"cols", a.ArrX,
		"chn_per_word", cpw,
	)

	return dev
}
