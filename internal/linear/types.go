package linear

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/sparsefit/classify/internal/ml"
)

type LossType int

const (
	ExponentialLoss LossType = iota
	HingeLoss
)

type RegularizationType int

const (
	NoRegularization RegularizationType = iota
	L1Regularization
	L2Regularization
)

const (
	DefaultEta        = 0.1
	DefaultLambda     = 0.1
	DefaultIterations = 10
)

func ParseLossType(s string) (LossType, error) {
	switch strings.ToLower(s) {
	case "exponential":
		return ExponentialLoss, nil
	case "hinge":
		return HingeLoss, nil
	}
	return 0, errors.Errorf("unknown loss %q", s)
}

func ParseRegularizationType(s string) (RegularizationType, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return NoRegularization, nil
	case "l1":
		return L1Regularization, nil
	case "l2":
		return L2Regularization, nil
	}
	return 0, errors.Errorf("unknown regularization %q", s)
}

func (t LossType) String() string {
	switch t {
	case ExponentialLoss:
		return "exponential"
	case HingeLoss:
		return "hinge"
	}
	return "unknown"
}

func (t RegularizationType) String() string {
	switch t {
	case NoRegularization:
		return "none"
	case L1Regularization:
		return "l1"
	case L2Regularization:
		return "l2"
	}
	return "unknown"
}

func newLoss(t LossType) ml.ISurrogateLoss {
	if t == ExponentialLoss {
		return &ml.ExponentialLoss{}
	}
	return &ml.HingeLoss{}
}

func newRegularizer(t RegularizationType, lambda float64) ml.IRegularizer {
	switch t {
	case L1Regularization:
		return &ml.L1Regularization{Lambda: lambda}
	case L2Regularization:
		return &ml.L2Regularization{Lambda: lambda}
	}
	return &ml.NoRegularization{}
}
