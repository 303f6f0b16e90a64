package ml

import "math"

type IActivationFn interface {
	Sigma(x float64) float64
	SigmaPrime(x float64) float64
}

type TanhActivation struct{}

func (*TanhActivation) Sigma(x float64) float64 {
	return math.Tanh(x)
}

// SigmaPrime is sech²(x).
func (*TanhActivation) SigmaPrime(x float64) float64 {
	var sech = 1 / math.Cosh(x)
	return sech * sech
}
