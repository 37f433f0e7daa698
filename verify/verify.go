// Package verify provides the functional reference of the accelerator and
// the tools to compare a simulated output against it.
//
// The reference has no notion of time. For every output position (x, y)
// and output channel f it computes
//
//	out[x, y, f] = bias[f] + sum over fx, fy, c of
//	               in[x+fx-ox, y+fy-oy, c] * w[fx, fy, c, f]
//
// where (ox, oy) = ((Fx-1)/2, (Fy-1)/2) and reads outside the image are
// zero. This is the same-padded correlation that the PE grid accumulates,
// so results are compared with exact equality.
package verify

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/systolic/arch"
)

// Conv computes the reference output of a layer.
func Conv(ifmap *arch.Tensor3, weights *arch.Tensor4, bias []int64) *arch.Tensor3 {
	if ifmap.C != weights.C || weights.F != len(bias) {
		panic("ifmap, weights and bias do not describe the same layer")
	}

	out := arch.NewTensor3(ifmap.X, ifmap.Y, weights.F)
	ox := (weights.FX - 1) / 2
	oy := (weights.FY - 1) / 2

	for f := 0; f < weights.F; f++ {
		for y := 0; y < ifmap.Y; y++ {
			for x := 0; x < ifmap.X; x++ {
				acc := bias[f]

				for fy := 0; fy < weights.FY; fy++ {
					iy := y + fy - oy
					if iy < 0 || iy >= ifmap.Y {
						continue
					}

					for fx := 0; fx < weights.FX; fx++ {
						ix := x + fx - ox
						if ix < 0 || ix >= ifmap.X {
							continue
						}

						for c := 0; c < ifmap.C; c++ {
							acc += ifmap.At(ix, iy, c) * weights.At(fx, fy, c, f)
						}
					}
				}

				out.Set(x, y, f, acc)
			}
		}
	}

	return out
}

// Mismatch is one element that differs from the reference.
type Mismatch struct {
	X, Y, C   int
	Got, Want int64
}

// Compare lists every element of got that differs from want.
func Compare(got, want *arch.Tensor3) ([]Mismatch, error) {
	if got.X != want.X || got.Y != want.Y || got.C != want.C {
		return nil, errors.Errorf("shape %dx%dx%d does not match %dx%dx%d",
			got.X, got.Y, got.C, want.X, want.Y, want.C)
	}

	var diff []Mismatch

	for y := 0; y < got.Y; y++ {
		for x := 0; x < got.X; x++ {
			for c := 0; c < got.C; c++ {
				g, w := got.At(x, y, c), want.At(x, y, c)
				if g != w {
					diff = append(diff, Mismatch{X: x, Y: y, C: c, Got: g, Want: w})
				}
			}
		}
	}

	return diff, nil
}
