// Package arch defines the data structures shared by the accelerator
// components.
package arch

import (
	"github.com/sarchlab/systolic/hw"
)

// Size is a two dimensional extent. X is the fast index of a feature map.
type Size struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Area returns X*Y.
func (s Size) Area() int {
	return s.X * s.Y
}

// A Device is a weight-stationary accelerator. It consumes its input
// channel in the order produced by a host serializer and produces the output
// feature map on its output channel.
type Device interface {
	hw.Module

	// Configure prepares every component for a new pass. It may be called
	// any number of times; the wiring never changes.
	Configure(g Geometry)

	// Input returns the external channel that feeds the device.
	Input() *hw.Channel

	// Output returns the external channel that carries the results.
	Output() *hw.Channel
}
