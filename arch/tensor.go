package arch

// Tensor3 is a feature map indexed by (x, y, channel).
type Tensor3 struct {
	X, Y, C int
	Data    []int64
}

// NewTensor3 creates a zero tensor.
func NewTensor3(x, y, c int) *Tensor3 {
	return &Tensor3{X: x, Y: y, C: c, Data: make([]int64, x*y*c)}
}

func (t *Tensor3) index(x, y, c int) int {
	return (y*t.X+x)*t.C + c
}

// At returns an element.
func (t *Tensor3) At(x, y, c int) int64 {
	return t.Data[t.index(x, y, c)]
}

// Set writes an element.
func (t *Tensor3) Set(x, y, c int, v int64) {
	t.Data[t.index(x, y, c)] = v
}

// Clone returns a deep copy.
func (t *Tensor3) Clone() *Tensor3 {
	c := *t
	c.Data = append([]int64(nil), t.Data...)

	return &c
}

// Tensor4 is a filter bank indexed by (fx, fy, in channel, out channel).
type Tensor4 struct {
	FX, FY, C, F int
	Data         []int64
}

// NewTensor4 creates a zero filter bank.
func NewTensor4(fx, fy, c, f int) *Tensor4 {
	return &Tensor4{FX: fx, FY: fy, C: c, F: f, Data: make([]int64, fx*fy*c*f)}
}

func (t *Tensor4) index(fx, fy, c, f int) int {
	return ((fy*t.FX+fx)*t.C+c)*t.F + f
}

// At returns an element.
func (t *Tensor4) At(fx, fy, c, f int) int64 {
	return t.Data[t.index(fx, fy, c, f)]
}

// Set writes an element.
func (t *Tensor4) Set(fx, fy, c, f int, v int64) {
	t.Data[t.index(fx, fy, c, f)] = v
}
