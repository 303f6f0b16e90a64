package ml

import "math"

// ISurrogateLoss scores a signed distance from the hyperplane against a
// label in {-1, +1}.
type ISurrogateLoss interface {
	Loss(label, distance float64) float64
}

type HingeLoss struct{}

func (*HingeLoss) Loss(label, distance float64) float64 {
	return math.Max(0, 1-label*distance)
}

type ExponentialLoss struct{}

func (*ExponentialLoss) Loss(label, distance float64) float64 {
	return math.Exp(-label * distance)
}
