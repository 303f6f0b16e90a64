package ml

// IRegularizer returns the penalty derivative for a single weight.
type IRegularizer interface {
	Penalty(weight float64) float64
}

type NoRegularization struct{}

func (*NoRegularization) Penalty(weight float64) float64 { return 0 }

type L1Regularization struct {
	Lambda float64
}

func (r *L1Regularization) Penalty(weight float64) float64 {
	return r.Lambda * sign(weight)
}

type L2Regularization struct {
	Lambda float64
}

func (r *L2Regularization) Penalty(weight float64) float64 {
	return r.Lambda * weight
}

// sign(0) is 0 so that a zero weight is never pushed either way.
func sign(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
