package main

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/systolic/api"
	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/config"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

func conv(driver api.Driver) {
	layer := arch.LayerConfig{
		Image:       arch.Size{X: 6, Y: 6},
		Filter:      arch.Size{X: 3, Y: 3},
		InChannels:  8,
		OutChannels: 16,
	}

	res, err := driver.Run(api.RandomJob(layer, 42))
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s in %d cycles, %d passes\n",
		res.Outcome.Message, res.Cycles, res.Passes)
	fmt.Println(stats.EnergyTable(res.Energy))

	if res.Outcome.Status != hw.Success {
		fmt.Println(res.Outcome.Diff)
		atexit.Exit(1)
	}
}

func main() {
	engine := sim.NewSerialEngine()
	w := hw.NewWiring()

	driver := api.MakeDriverBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithWiring(w).
		Build("Driver")

	device := config.MakeDeviceBuilder().
		WithWiring(w).
		Build("Device")

	driver.RegisterDevice(device)
	conv(driver)
	atexit.Exit(0)
}
