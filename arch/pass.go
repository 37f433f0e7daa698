package arch

// A Pass is one run of the array over a tile of the layer's channels.
type Pass struct {
	Index int

	InTile, OutTile int

	// InOffset and OutOffset are the first layer channels mapped to row 0
	// and column 0.
	InOffset, OutOffset int

	// Final marks the last pass of the layer.
	Final bool
}

// First tells if the pass starts the accumulation of its output tile. Such
// a pass seeds the array with the bias; the others seed it with the partial
// sums of the previous pass.
func (p Pass) First() bool {
	return p.InTile == 0
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Passes splits a layer into tiles the array can hold, output tiles
// outermost. A layer that fits has a single pass.
func Passes(a ArchConfig, l LayerConfig) []Pass {
	inTiles := ceilDiv(l.InChannels, a.ArrY)
	outTiles := ceilDiv(l.OutChannels, a.ArrX)

	passes := make([]Pass, 0, inTiles*outTiles)

	for o := 0; o < outTiles; o++ {
		for i := 0; i < inTiles; i++ {
			passes = append(passes, Pass{
				Index:     len(passes),
				InTile:    i,
				OutTile:   o,
				InOffset:  i * a.ArrY,
				OutOffset: o * a.ArrX,
			})
		}
	}

	passes[len(passes)-1].Final = true

	return passes
}
