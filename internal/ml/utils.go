package ml

import "math/rand"

// InitUniform fills data with values drawn uniformly from [-scale, scale).
func InitUniform(rnd *rand.Rand, data []float64, scale float64) {
	for i := range data {
		data[i] = -scale + 2*scale*rnd.Float64()
	}
}
