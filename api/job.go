package api

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
	valgen "github.com/sarchlab/systolic/util"
)

// A Job is one convolution layer with its data.
type Job struct {
	Layer   arch.LayerConfig
	Ifmap   *arch.Tensor3
	Weights *arch.Tensor4
	Bias    []int64

	// Reference is the expected output. When nil, it is computed with
	// verify.Conv.
	Reference *arch.Tensor3
}

func (j Job) validate() error {
	l := j.Layer

	if j.Ifmap == nil || j.Weights == nil {
		return errors.New("job has no ifmap or weights")
	}

	if j.Ifmap.X != l.Image.X || j.Ifmap.Y != l.Image.Y ||
		j.Ifmap.C != l.InChannels {
		return errors.Errorf("ifmap is %dx%dx%d, layer expects %dx%dx%d",
			j.Ifmap.X, j.Ifmap.Y, j.Ifmap.C,
			l.Image.X, l.Image.Y, l.InChannels)
	}

	if j.Weights.FX != l.Filter.X || j.Weights.FY != l.Filter.Y ||
		j.Weights.C != l.InChannels || j.Weights.F != l.OutChannels {
		return errors.Errorf("weights are %dx%dx%dx%d, layer expects %dx%dx%dx%d",
			j.Weights.FX, j.Weights.FY, j.Weights.C, j.Weights.F,
			l.Filter.X, l.Filter.Y, l.InChannels, l.OutChannels)
	}

	if len(j.Bias) != l.OutChannels {
		return errors.Errorf("bias has %d values, layer has %d outputs",
			len(j.Bias), l.OutChannels)
	}

	return nil
}

// RandomJob creates a job whose values are drawn from a normal distribution
// with a standard deviation of 10, truncated toward zero.
func RandomJob(layer arch.LayerConfig, seed int64) Job {
	gen := valgen.MakeNormalGen(rand.New(rand.NewSource(seed)), 0, 10)

	j := Job{
		Layer:   layer,
		Ifmap:   arch.NewTensor3(layer.Image.X, layer.Image.Y, layer.InChannels),
		Weights: arch.NewTensor4(layer.Filter.X, layer.Filter.Y, layer.InChannels, layer.OutChannels),
		Bias:    make([]int64, layer.OutChannels),
	}

	valgen.Fill(j.Ifmap.Data, gen)
	valgen.Fill(j.Weights.Data, gen)
	valgen.Fill(j.Bias, gen)

	return j
}

// Result is what a run produced.
type Result struct {
	RunID   string
	Outcome hw.Outcome
	Cycles  uint64
	Passes  int

	Ofmap     *arch.Tensor3
	Reference *arch.Tensor3

	// Entries and Counters hold the events of this run only.
	Entries  []stats.Entry
	Counters stats.Counters
	Energy   *stats.CostModel
}
