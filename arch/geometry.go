package arch

// Geometry is everything a component needs to follow the dataflow of one
// pass. It is derived from the array and the layer and is the same for
// every pass of a layer.
type Geometry struct {
	Rows, Cols int
	ChnPerWord int

	Image  Size
	Filter Size
	Offset Size

	// InSets is the number of words holding one fmap position of the ifmap.
	InSets int
	// OutSets is the number of words holding one fmap position of the psum.
	OutSets int

	FmapPerIteration int
	NumIteration     int
}

// NewGeometry derives the geometry of a layer on an array.
func NewGeometry(a ArchConfig, l LayerConfig) Geometry {
	return Geometry{
		Rows:       a.ArrY,
		Cols:       a.ArrX,
		ChnPerWord: a.ChnPerWord,
		Image:      l.Image,
		Filter:     l.Filter,
		Offset: Size{
			X: (l.Filter.X - 1) / 2,
			Y: (l.Filter.Y - 1) / 2,
		},
		InSets:           a.ArrY / a.ChnPerWord,
		OutSets:          a.ArrX / a.ChnPerWord,
		FmapPerIteration: l.Image.Area(),
		NumIteration:     l.Filter.Area(),
	}
}

// FmapPos returns the coordinates of a raster index.
func (g Geometry) FmapPos(idx int) (x, y int) {
	return idx % g.Image.X, idx / g.Image.X
}

// FmapIndex is the inverse of FmapPos.
func (g Geometry) FmapIndex(x, y int) int {
	return y*g.Image.X + x
}

// InImage tells if a coordinate lies inside the image.
func (g Geometry) InImage(x, y int) bool {
	return x >= 0 && x < g.Image.X && y >= 0 && y < g.Image.Y
}

// FilterTap returns the filter coordinates used in an iteration.
func (g Geometry) FilterTap(iteration int) (fx, fy int) {
	return iteration % g.Filter.X, iteration / g.Filter.X
}

// TapOffset returns the displacement from an output position to the input
// position read in an iteration.
func (g Geometry) TapOffset(iteration int) (dx, dy int) {
	fx, fy := g.FilterTap(iteration)
	return fx - g.Offset.X, fy - g.Offset.Y
}

// IfmapWords is the number of ifmap words loaded in a pass.
func (g Geometry) IfmapWords() int {
	return g.FmapPerIteration * g.InSets
}

// PsumWords is the number of psum words per iteration.
func (g Geometry) PsumWords() int {
	return g.FmapPerIteration * g.OutSets
}

// WeightWords is the number of weight words loaded in a pass.
func (g Geometry) WeightWords() int {
	return g.NumIteration * g.Cols * g.InSets
}

// InputWords is the number of words on the external input channel in a
// pass.
func (g Geometry) InputWords() int {
	return g.IfmapWords() + g.PsumWords() + g.WeightWords()
}
