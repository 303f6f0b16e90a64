package linear

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sparsefit/classify/internal/domain"
)

// GradientDescentClassifier is a linear classifier trained one example at a
// time against a surrogate loss, with optional L1/L2 regularization.
type GradientDescentClassifier struct {
	lossType           LossType
	regularizationType RegularizationType
	lambda             float64
	eta                float64
	iterations         int
	rnd                *rand.Rand
	logger             *log.Logger

	weights     map[int]float64
	bias        float64
	lossHistory []float64
}

// NewGradientDescentClassifier uses rnd for the per-epoch shuffles. A nil rnd
// is replaced by a time seeded source.
func NewGradientDescentClassifier(rnd *rand.Rand) *GradientDescentClassifier {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GradientDescentClassifier{
		lossType:           HingeLoss,
		regularizationType: NoRegularization,
		lambda:             DefaultLambda,
		eta:                DefaultEta,
		iterations:         DefaultIterations,
		rnd:                rnd,
		logger:             log.New(os.Stderr, "", log.LstdFlags),
		weights:            make(map[int]float64),
	}
}

func (m *GradientDescentClassifier) SetLoss(lossType LossType) { m.lossType = lossType }

func (m *GradientDescentClassifier) SetRegularization(regularizationType RegularizationType) {
	m.regularizationType = regularizationType
}

func (m *GradientDescentClassifier) SetLambda(lambda float64) { m.lambda = lambda }

func (m *GradientDescentClassifier) SetEta(eta float64) { m.eta = eta }

func (m *GradientDescentClassifier) SetIterations(iterations int) { m.iterations = iterations }

func (m *GradientDescentClassifier) SetLogger(logger *log.Logger) { m.logger = logger }

// Distance is the signed distance bias + Σ w[f]·x[f]. Features unknown to
// the model contribute nothing.
func (m *GradientDescentClassifier) Distance(e *domain.Example) float64 {
	var sum = m.bias
	for _, f := range e.Features() {
		sum += m.weights[f.Index] * f.Value
	}
	return sum
}

// Classify returns the sign of the distance; a distance of exactly 0 gives 0.
func (m *GradientDescentClassifier) Classify(e *domain.Example) float64 {
	var distance = m.Distance(e)
	if distance > 0 {
		return 1
	}
	if distance < 0 {
		return -1
	}
	return 0
}

func (m *GradientDescentClassifier) Confidence(e *domain.Example) float64 {
	return math.Abs(m.Distance(e))
}

func (m *GradientDescentClassifier) Weights() map[int]float64 {
	var result = make(map[int]float64, len(m.weights))
	for index, w := range m.weights {
		result[index] = w
	}
	return result
}

func (m *GradientDescentClassifier) Bias() float64 { return m.bias }

// LossHistory holds the average surrogate loss of every pass of the last Train.
func (m *GradientDescentClassifier) LossHistory() []float64 {
	return append([]float64(nil), m.lossHistory...)
}

func (m *GradientDescentClassifier) String() string {
	var indices = make([]int, 0, len(m.weights))
	for index := range m.weights {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	var items = make([]string, len(indices))
	for i, index := range indices {
		items[i] = fmt.Sprintf("%v:%v", index, m.weights[index])
	}
	return strings.Join(items, " ")
}

func (m *GradientDescentClassifier) initWeights(features []int) {
	m.weights = make(map[int]float64, len(features))
	for _, index := range features {
		m.weights[index] = 0
	}
	m.bias = 0
	m.lossHistory = nil
}
