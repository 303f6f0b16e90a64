package network

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/sparsefit/classify/internal/domain"
	"github.com/sparsefit/classify/internal/ml"
)

const (
	DefaultEta        = 0.1
	DefaultIterations = 200

	initScale = 0.1
)

// TwoLayerNN has one tanh hidden layer and a single tanh output. The last
// hidden unit is a bias with constant activation 1; the input bias is a
// constant feature appended to every example.
type TwoLayerNN struct {
	hiddenSize   int
	eta          float64
	iterations   int
	rnd          *rand.Rand
	logger       *log.Logger
	activationFn ml.IActivationFn
	cost         ml.IModelCost

	features      []int       // column -> feature index
	columns       map[int]int // feature index -> column
	biasIndex     int
	hiddenWeights *mat.Dense    // hiddenSize x len(features)
	outputWeights *mat.VecDense // hiddenSize+1
	errorHistory  []float64
}

// New panics if hiddenSize is not positive. A nil rnd is replaced by a time
// seeded source.
func New(hiddenSize int, rnd *rand.Rand) *TwoLayerNN {
	if hiddenSize <= 0 {
		panic(fmt.Sprintf("network: hidden size must be positive, got %v", hiddenSize))
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TwoLayerNN{
		hiddenSize:   hiddenSize,
		eta:          DefaultEta,
		iterations:   DefaultIterations,
		rnd:          rnd,
		logger:       log.New(os.Stderr, "", log.LstdFlags),
		activationFn: &ml.TanhActivation{},
		cost:         &ml.MSECost{},
	}
}

func (n *TwoLayerNN) SetEta(eta float64) { n.eta = eta }

func (n *TwoLayerNN) SetIterations(iterations int) { n.iterations = iterations }

func (n *TwoLayerNN) SetLogger(logger *log.Logger) { n.logger = logger }

func (n *TwoLayerNN) HiddenSize() int { return n.hiddenSize }

// Classify returns 1 when the output is strictly positive and -1 otherwise.
func (n *TwoLayerNN) Classify(e *domain.Example) float64 {
	return sign(n.Output(e))
}

func (n *TwoLayerNN) Confidence(e *domain.Example) float64 {
	return math.Abs(n.Output(e))
}

// Output is the tanh output of the network for e, which is augmented with the
// bias feature of the last training run. It panics if e has a feature index
// outside the trained universe, the bias index included.
func (n *TwoLayerNN) Output(e *domain.Example) float64 {
	if n.hiddenWeights == nil {
		panic("network: not trained")
	}
	if e.HasFeature(n.biasIndex) {
		panic(outsideUniverse(n.biasIndex))
	}
	return n.output(e.WithFeature(n.biasIndex, 1))
}

func (n *TwoLayerNN) output(e *domain.Example) float64 {
	var hidden = make([]float64, n.hiddenSize+1)
	return n.activationFn.Sigma(n.forward(e, hidden))
}

// forward fills hidden with the hidden activations (bias unit last) and
// returns the output pre-activation.
func (n *TwoLayerNN) forward(e *domain.Example, hidden []float64) float64 {
	for i := 0; i < n.hiddenSize; i++ {
		hidden[i] = n.activationFn.Sigma(n.preActivation(i, e))
	}
	hidden[n.hiddenSize] = 1
	var v float64
	for i := range hidden {
		v += hidden[i] * n.outputWeights.AtVec(i)
	}
	return v
}

func (n *TwoLayerNN) preActivation(unit int, e *domain.Example) float64 {
	var x float64
	for _, f := range e.Features() {
		x += f.Value * n.hiddenWeights.At(unit, n.column(f.Index))
	}
	return x
}

func (n *TwoLayerNN) column(index int) int {
	var col, found = n.columns[index]
	if !found {
		panic(outsideUniverse(index))
	}
	return col
}

func outsideUniverse(index int) string {
	return fmt.Sprintf("network: feature index %v is outside the trained feature universe", index)
}

// OutputWeights returns a copy of the hidden-to-output weights, bias last.
func (n *TwoLayerNN) OutputWeights() []float64 {
	if n.outputWeights == nil {
		return nil
	}
	var result = make([]float64, n.outputWeights.Len())
	for i := range result {
		result[i] = n.outputWeights.AtVec(i)
	}
	return result
}

// HiddenWeights returns a copy of the input-to-hidden matrix; columns follow
// Features.
func (n *TwoLayerNN) HiddenWeights() *mat.Dense {
	if n.hiddenWeights == nil {
		return nil
	}
	return mat.DenseCopyOf(n.hiddenWeights)
}

func (n *TwoLayerNN) Features() []int {
	return append([]int(nil), n.features...)
}

func (n *TwoLayerNN) BiasIndex() int { return n.biasIndex }

// ErrorHistory holds the squared error of every epoch of the last training run.
func (n *TwoLayerNN) ErrorHistory() []float64 {
	return append([]float64(nil), n.errorHistory...)
}

func sign(output float64) float64 {
	if output > 0 {
		return 1
	}
	return -1
}
