package stats

// Category is a class of energy cost.
type Category int

// The energy categories, from cheapest to most expensive access.
const (
	ALU Category = iota
	RF
	LN
	GB
	DRAM
	NumCategories
)

var categoryNames = [NumCategories]string{"ALU", "RF", "LN", "GB", "DRAM"}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || c >= NumCategories {
		return "Unknown"
	}

	return categoryNames[c]
}

// A CostModel weighs event counts into an energy estimate, relative to one
// ALU operation.
type CostModel struct {
	Weights [NumCategories]float64
	counts  [NumCategories]uint64
}

// NewCostModel creates a cost model with the default weights.
func NewCostModel() *CostModel {
	return &CostModel{
		Weights: [NumCategories]float64{
			ALU:  1,
			RF:   1,
			LN:   2,
			GB:   6,
			DRAM: 200,
		},
	}
}

// Count records n events of a category.
func (m *CostModel) Count(cat Category, n uint64) {
	m.counts[cat] += n
}

// Counted returns the number of events of a category.
func (m *CostModel) Counted(cat Category) uint64 {
	return m.counts[cat]
}

// CountAll records the events of aggregated hardware counters. A MAC is two
// ALU operations. Psum hops between PEs and NoC deliveries use the local
// network.
func (m *CostModel) CountAll(c Counters) {
	m.Count(ALU, 2*c.Get(PEMAC))
	m.Count(RF, c.Get(PERFRead)+c.Get(PERFWrite))
	m.Count(LN, c.Get(PEChanPop)+c.Get(NoCMulticast))
	m.Count(GB, c.Get(GLBRead)+c.Get(GLBWrite))
	m.Count(DRAM, c.Get(DRAMRead)+c.Get(DRAMWrite))
}

// CategoryEnergy returns the energy spent in one category.
func (m *CostModel) CategoryEnergy(cat Category) float64 {
	return float64(m.counts[cat]) * m.Weights[cat]
}

// Energy returns the total energy.
func (m *CostModel) Energy() float64 {
	total := 0.0
	for cat := Category(0); cat < NumCategories; cat++ {
		total += m.CategoryEnergy(cat)
	}

	return total
}
