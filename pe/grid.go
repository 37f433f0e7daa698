package pe

import (
	"fmt"

	"github.com/sarchlab/systolic/hw"
)

// Grid is a rows x cols array of PEs. PE(x, y) computes input channel y of
// output channel x. Partial sums flow south, from PsumChans[y][x] into
// PsumChans[y+1][x].
type Grid struct {
	*hw.ModuleBase

	Rows, Cols int

	PEs         [][]*PE
	IfmapChans  [][]*hw.Channel
	WeightChans [][]*hw.Channel

	// PsumChans has rows+1 rows. Row 0 seeds the array and is nil when the
	// grid is zero seeded; row Rows carries the results.
	PsumChans [][]*hw.Channel
}

// Tick does nothing; the PEs tick as children.
func (g *Grid) Tick() {}

// Configure prepares every PE for a new pass.
func (g *Grid) Configure(fmapPerIteration, numIteration int) {
	for _, row := range g.PEs {
		for _, p := range row {
			p.Configure(fmapPerIteration, numIteration)
		}
	}
}

// Done tells if every PE finished its pass.
func (g *Grid) Done() bool {
	for _, row := range g.PEs {
		for _, p := range row {
			if !p.Done() {
				return false
			}
		}
	}

	return true
}

// GridBuilder can create grids.
type GridBuilder struct {
	wiring     *hw.Wiring
	rows, cols int
	chanDepth  int
	zeroSeed   bool
}

// MakeGridBuilder creates a builder with a channel depth of 32.
func MakeGridBuilder() GridBuilder {
	return GridBuilder{chanDepth: 32}
}

// WithWiring sets the wiring that owns the grid channels.
func (b GridBuilder) WithWiring(w *hw.Wiring) GridBuilder {
	b.wiring = w
	return b
}

// WithRows sets the number of rows.
func (b GridBuilder) WithRows(rows int) GridBuilder {
	b.rows = rows
	return b
}

// WithCols sets the number of columns.
func (b GridBuilder) WithCols(cols int) GridBuilder {
	b.cols = cols
	return b
}

// WithChanDepth sets the depth of every channel of the grid.
func (b GridBuilder) WithChanDepth(depth int) GridBuilder {
	b.chanDepth = depth
	return b
}

// WithZeroSeed makes the top row start from zero instead of reading
// PsumChans[0].
func (b GridBuilder) WithZeroSeed(zeroSeed bool) GridBuilder {
	b.zeroSeed = zeroSeed
	return b
}

func (b GridBuilder) chanRow(name, kind string, y int) []*hw.Channel {
	row := make([]*hw.Channel, b.cols)
	for x := range row {
		row[x] = b.wiring.NewChannel(
			fmt.Sprintf("%s.%s_%d_%d", name, kind, x, y), b.chanDepth, 1)
	}

	return row
}

// Build creates the grid and its channels.
func (b GridBuilder) Build(name string) *Grid {
	if b.wiring == nil {
		panic("grid " + name + " needs a wiring")
	}

	if b.rows <= 0 || b.cols <= 0 {
		panic(fmt.Sprintf("grid %s must be at least 1x1", name))
	}

	g := &Grid{
		ModuleBase:  hw.NewModuleBase(name),
		Rows:        b.rows,
		Cols:        b.cols,
		PEs:         make([][]*PE, b.rows),
		IfmapChans:  make([][]*hw.Channel, b.rows),
		WeightChans: make([][]*hw.Channel, b.rows),
		PsumChans:   make([][]*hw.Channel, b.rows+1),
	}

	if !b.zeroSeed {
		g.PsumChans[0] = b.chanRow(name, "Psum", 0)
	}

	for y := 0; y < b.rows; y++ {
		g.IfmapChans[y] = b.chanRow(name, "Ifmap", y)
		g.WeightChans[y] = b.chanRow(name, "Weight", y)
		g.PsumChans[y+1] = b.chanRow(name, "Psum", y+1)
		g.PEs[y] = make([]*PE, b.cols)

		for x := 0; x < b.cols; x++ {
			builder := Builder{}.
				WithIfmap(g.IfmapChans[y][x]).
				WithWeight(g.WeightChans[y][x]).
				WithPsumOut(g.PsumChans[y+1][x])

			if y == 0 && b.zeroSeed {
				builder = builder.WithZeroSeed(true)
			} else {
				builder = builder.WithPsumIn(g.PsumChans[y][x])
			}

			p := builder.Build(fmt.Sprintf("%s.PE_%d_%d", name, x, y), x, y)
			g.PEs[y][x] = p
			g.AddChild(p)
		}
	}

	return g
}
