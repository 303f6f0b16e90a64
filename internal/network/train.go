package network

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/sparsefit/classify/internal/dataset"
	"github.com/sparsefit/classify/internal/domain"
	"github.com/sparsefit/classify/internal/ml"
)

var ErrEmptyDataset = errors.New("network: dataset has no examples")

type EpochStats struct {
	Epoch         int
	Error         float64
	TrainAccuracy float64
	TestAccuracy  float64
}

type History []EpochStats

// Train sizes the network from the bias-augmented feature universe of ds,
// initializes all weights in [-0.1, 0.1) and runs the configured number of
// online epochs.
func (n *TwoLayerNN) Train(ds *dataset.DataSet) error {
	if ds.Len() == 0 {
		return ErrEmptyDataset
	}
	var data = ds.CopyWithBias()
	n.init(data.FeatureIndices(), ds.BiasIndex())
	var examples = data.Examples()
	var hidden = make([]float64, n.hiddenSize+1)

	for epoch := 1; epoch <= n.iterations; epoch++ {
		shuffle(n.rnd, examples)
		var trainError = n.trainEpoch(examples, hidden)
		n.errorHistory = append(n.errorHistory, trainError)
		n.logger.Printf("Finished Epoch %v, squared error: %f\n", epoch, trainError)
	}
	return nil
}

// TrainWithValidation runs the same updates as Train on train and after
// every epoch measures accuracy on both sets. The network is sized from the
// union of both feature universes.
func (n *TwoLayerNN) TrainWithValidation(train, test *dataset.DataSet) (History, error) {
	if train.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	var biasIndex = train.BiasIndex()
	if index := test.BiasIndex(); index > biasIndex {
		biasIndex = index
	}
	var trainData = train.CopyWithBiasAt(biasIndex)
	var testData = test.CopyWithBiasAt(biasIndex)
	n.init(union(trainData.FeatureIndices(), testData.FeatureIndices()), biasIndex)

	var trainExamples = trainData.Examples()
	var testExamples = testData.Examples()
	var hidden = make([]float64, n.hiddenSize+1)
	var history = make(History, 0, n.iterations)

	for epoch := 1; epoch <= n.iterations; epoch++ {
		shuffle(n.rnd, trainExamples)
		var stats = EpochStats{
			Epoch: epoch,
			Error: n.trainEpoch(trainExamples, hidden),
		}
		stats.TrainAccuracy = n.accuracy(trainExamples)
		stats.TestAccuracy = n.accuracy(testExamples)
		n.errorHistory = append(n.errorHistory, stats.Error)
		history = append(history, stats)
		n.logger.Printf("Finished Epoch %v, squared error: %f, train accuracy: %f, test accuracy: %f\n",
			epoch, stats.Error, stats.TrainAccuracy, stats.TestAccuracy)
	}
	return history, nil
}

func (n *TwoLayerNN) init(features []int, biasIndex int) {
	n.features = features
	n.columns = make(map[int]int, len(features))
	for col, index := range features {
		n.columns[index] = col
	}
	n.biasIndex = biasIndex
	n.hiddenWeights = mat.NewDense(n.hiddenSize, len(features), nil)
	ml.InitUniform(n.rnd, n.hiddenWeights.RawMatrix().Data, initScale)
	n.outputWeights = mat.NewVecDense(n.hiddenSize+1, nil)
	ml.InitUniform(n.rnd, n.outputWeights.RawVector().Data, initScale)
	n.errorHistory = nil
}

// trainEpoch returns the squared error averaged over examples.
func (n *TwoLayerNN) trainEpoch(examples []*domain.Example, hidden []float64) float64 {
	var trainError float64
	for _, e := range examples {
		trainError += n.update(e, hidden) / float64(len(examples))
	}
	return trainError
}

// update does one forward and backward pass and returns the squared error of
// the forward pass. Each output weight is updated before the delta of its
// hidden unit is computed, and that delta uses the updated weight.
func (n *TwoLayerNN) update(e *domain.Example, hidden []float64) float64 {
	var v = n.forward(e, hidden)
	var output = n.activationFn.Sigma(v)
	var label = e.Label()

	var outputDelta = n.activationFn.SigmaPrime(v) * (label - output)
	for i := 0; i <= n.hiddenSize; i++ {
		n.outputWeights.SetVec(i, n.outputWeights.AtVec(i)+n.eta*hidden[i]*outputDelta)
		if i == n.hiddenSize {
			// the hidden bias has no input weights
			break
		}
		var wx = n.preActivation(i, e)
		var hiddenDelta = n.activationFn.SigmaPrime(wx) * n.outputWeights.AtVec(i) * outputDelta
		for col, index := range n.features {
			n.hiddenWeights.Set(i, col, n.hiddenWeights.At(i, col)+n.eta*e.Feature(index)*hiddenDelta)
		}
	}
	return n.cost.Cost(output, label)
}

func (n *TwoLayerNN) accuracy(examples []*domain.Example) float64 {
	if len(examples) == 0 {
		return 0
	}
	var correct int
	for _, e := range examples {
		if sign(n.output(e)) == e.Label() {
			correct++
		}
	}
	return float64(correct) / float64(len(examples))
}

func shuffle(rnd *rand.Rand, examples []*domain.Example) {
	rnd.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
}

func union(a, b []int) []int {
	var seen = make(map[int]struct{}, len(a)+len(b))
	var result []int
	for _, items := range [][]int{a, b} {
		for _, index := range items {
			if _, found := seen[index]; !found {
				seen[index] = struct{}{}
				result = append(result, index)
			}
		}
	}
	sort.Ints(result)
	return result
}
