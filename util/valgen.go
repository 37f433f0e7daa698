// Some helpers using closures to generate values
package valgen

import "math/rand"

func MakeConstGen(constant int64) func() int64 {
	return func() int64 {
		return constant
	}
}

func MakeIncreasingGen(start int64) func() int64 {
	current := start
	return func() int64 {
		current++
		return current
	}
}

// MakeNormalGen draws from a normal distribution and truncates toward zero.
func MakeNormalGen(rng *rand.Rand, mean, stddev float64) func() int64 {
	return func() int64 {
		return int64(rng.NormFloat64()*stddev + mean)
	}
}

// Fill assigns a generated value to every element, in order.
func Fill(data []int64, gen func() int64) {
	for i := range data {
		data[i] = gen()
	}
}
