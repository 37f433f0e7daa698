package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/hw"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine    sim.Engine
	freq      sim.Freq
	wiring    *hw.Wiring
	arch      arch.ArchConfig
	maxCycles uint64
}

// MakeDriverBuilder creates a builder for the default array running at
// 1 GHz.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{
		freq: 1 * sim.GHz,
		arch: arch.DefaultArchConfig(),
	}
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithWiring sets the wiring shared with the device.
func (b DriverBuilder) WithWiring(w *hw.Wiring) DriverBuilder {
	b.wiring = w
	return b
}

// WithArch sets the array the jobs are tiled for. It must match the
// registered device.
func (b DriverBuilder) WithArch(a arch.ArchConfig) DriverBuilder {
	b.arch = a
	return b
}

// WithMaxCycles bounds every run. Zero means no bound.
func (b DriverBuilder) WithMaxCycles(n uint64) DriverBuilder {
	b.maxCycles = n
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil || b.wiring == nil {
		panic("driver " + name + " needs an engine and a wiring")
	}

	return &driverImpl{
		ModuleBase: hw.NewModuleBase(name),
		engine:     b.engine,
		freq:       b.freq,
		wiring:     b.wiring,
		arch:       b.arch,
		maxCycles:  b.maxCycles,
	}
}
