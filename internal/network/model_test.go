package network

import (
	"io"
	"log"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/sparsefit/classify/internal/dataset"
	"github.com/sparsefit/classify/internal/domain"
)

func separableDataSet() *dataset.DataSet {
	return dataset.New([]*domain.Example{
		domain.NewExample(1, map[int]float64{0: 1, 1: 0}),
		domain.NewExample(-1, map[int]float64{0: 0, 1: 1}),
		domain.NewExample(1, map[int]float64{0: 1, 1: 1}),
		domain.NewExample(-1, map[int]float64{0: 0, 1: 0}),
	})
}

func newTestNetwork(hidden int, seed int64) *TwoLayerNN {
	var n = New(hidden, rand.New(rand.NewSource(seed)))
	n.SetLogger(log.New(io.Discard, "", 0))
	return n
}

func mean(data []float64) float64 {
	var sum float64
	for _, x := range data {
		sum += x
	}
	return sum / float64(len(data))
}

func TestSeparable(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		var n = newTestNetwork(2, seed)
		n.SetIterations(200)
		var ds = separableDataSet()
		require.NoError(t, n.Train(ds))
		for _, e := range ds.Examples() {
			assert.Equal(t, e.Label(), n.Classify(e), "seed %v", seed)
		}

		var errors = n.ErrorHistory()
		require.Len(t, errors, 200)
		assert.Less(t, mean(errors[180:]), mean(errors[:20]), "seed %v", seed)
		for i := 40; i+20 <= len(errors); i += 20 {
			assert.LessOrEqual(t, mean(errors[i:i+20]), mean(errors[i-20:i]), "seed %v window %v", seed, i)
		}
	}
}

func TestOutputBounds(t *testing.T) {
	var n = newTestNetwork(3, 7)
	n.SetIterations(300)
	n.SetEta(0.5)
	require.NoError(t, n.Train(separableDataSet()))
	var rnd = rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		var e = domain.NewExample(1, map[int]float64{
			0: 10 * rnd.NormFloat64(),
			1: 10 * rnd.NormFloat64(),
		})
		var output = n.Output(e)
		assert.True(t, output > -1 && output < 1, output)
		assert.True(t, n.Confidence(e) >= 0 && n.Confidence(e) < 1)
		assert.Contains(t, []float64{-1, 1}, n.Classify(e))
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	var train = func() *TwoLayerNN {
		var n = newTestNetwork(2, 11)
		n.SetIterations(50)
		require.NoError(t, n.Train(separableDataSet()))
		return n
	}
	var a, b = train(), train()
	assert.True(t, mat.Equal(a.HiddenWeights(), b.HiddenWeights()))
	assert.Equal(t, a.OutputWeights(), b.OutputWeights())
	assert.Equal(t, a.ErrorHistory(), b.ErrorHistory())
}

func TestRetrainResets(t *testing.T) {
	var n = newTestNetwork(2, 3)
	n.SetIterations(200)
	var wide = dataset.New([]*domain.Example{
		domain.NewExample(1, map[int]float64{0: 1, 5: 1, 9: 2}),
		domain.NewExample(-1, map[int]float64{3: 1}),
	})
	require.NoError(t, n.Train(wide))
	var ds = separableDataSet()
	require.NoError(t, n.Train(ds))

	rows, cols := n.HiddenWeights().Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []int{0, 1, 2}, n.Features())
	assert.Equal(t, 2, n.BiasIndex())
	assert.Len(t, n.OutputWeights(), 3)
	assert.Len(t, n.ErrorHistory(), 200)
	for _, e := range ds.Examples() {
		assert.Equal(t, e.Label(), n.Classify(e))
	}
}

func TestInitialWeightsRange(t *testing.T) {
	var n = newTestNetwork(4, 1)
	n.SetIterations(0)
	require.NoError(t, n.Train(separableDataSet()))
	for _, w := range n.HiddenWeights().RawMatrix().Data {
		assert.True(t, w >= -0.1 && w < 0.1, w)
	}
	for _, w := range n.OutputWeights() {
		assert.True(t, w >= -0.1 && w < 0.1, w)
	}
}

func TestUnknownFeaturePanics(t *testing.T) {
	var n = newTestNetwork(2, 1)
	n.SetIterations(5)
	require.NoError(t, n.Train(separableDataSet()))
	assert.Panics(t, func() {
		n.Classify(domain.NewExample(1, map[int]float64{7: 1}))
	})
}

func TestBiasIndexFeaturePanics(t *testing.T) {
	var n = newTestNetwork(2, 1)
	n.SetIterations(5)
	require.NoError(t, n.Train(separableDataSet()))
	require.Equal(t, 2, n.BiasIndex())
	assert.PanicsWithValue(t, "network: feature index 2 is outside the trained feature universe", func() {
		n.Classify(domain.NewExample(1, map[int]float64{0: 1, 2: 5}))
	})
	assert.Panics(t, func() {
		n.Confidence(domain.NewExample(1, map[int]float64{0: 1, 2: 1}))
	})
	assert.NotPanics(t, func() {
		n.Classify(domain.NewExample(1, map[int]float64{0: 1}))
	})
}

func TestUntrainedPanics(t *testing.T) {
	assert.Panics(t, func() {
		newTestNetwork(2, 1).Classify(domain.NewExample(1, map[int]float64{0: 1}))
	})
	assert.Panics(t, func() {
		New(0, nil)
	})
}

func TestEmptyDataSet(t *testing.T) {
	var n = newTestNetwork(2, 1)
	assert.ErrorIs(t, n.Train(dataset.New(nil)), ErrEmptyDataset)
	var _, err = n.TrainWithValidation(dataset.New(nil), separableDataSet())
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

// The delta of a hidden unit is computed from the output weight that was
// already updated for the same example.
func TestUpdateUsesUpdatedOutputWeight(t *testing.T) {
	const eta = 0.1
	var n = newTestNetwork(1, 1)
	n.SetEta(eta)
	n.init([]int{0, 1}, 1)
	n.hiddenWeights = mat.NewDense(1, 2, []float64{0.5, -0.2})
	n.outputWeights = mat.NewVecDense(2, []float64{0.3, 0.1})
	var e = domain.NewExample(1, map[int]float64{0: 1, 1: 1})

	var squaredError = n.update(e, make([]float64, 2))

	var sech2 = func(x float64) float64 {
		var s = 1 / math.Cosh(x)
		return s * s
	}
	var h0 = math.Tanh(0.3)
	var v = h0*0.3 + 0.1
	var output = math.Tanh(v)
	var outputDelta = sech2(v) * (1 - output)
	var u0 = 0.3 + eta*h0*outputDelta
	var u1 = 0.1 + eta*outputDelta
	var hiddenDelta = sech2(0.3) * u0 * outputDelta
	var staleDelta = sech2(0.3) * 0.3 * outputDelta

	assert.InDelta(t, (output-1)*(output-1), squaredError, 1e-12)
	assert.InDeltaSlice(t, []float64{u0, u1}, n.OutputWeights(), 1e-12)
	var w = n.HiddenWeights().RawMatrix().Data
	assert.InDelta(t, 0.5+eta*hiddenDelta, w[0], 1e-12)
	assert.InDelta(t, -0.2+eta*hiddenDelta, w[1], 1e-12)
	assert.NotEqual(t, 0.5+eta*staleDelta, w[0])
}

// Features of the universe that are absent from the example keep their
// weights because their value is 0.
func TestUpdateSkipsAbsentFeatures(t *testing.T) {
	var n = newTestNetwork(2, 1)
	n.init([]int{0, 1, 2}, 2)
	var before = n.HiddenWeights()
	n.update(domain.NewExample(-1, map[int]float64{0: 1, 2: 1}), make([]float64, 3))
	var after = n.HiddenWeights()
	for i := 0; i < 2; i++ {
		assert.Equal(t, before.At(i, 1), after.At(i, 1))
		assert.NotEqual(t, before.At(i, 0), after.At(i, 0))
	}
}

func TestTrainWithValidation(t *testing.T) {
	var n = newTestNetwork(2, 9)
	n.SetIterations(200)
	var train = separableDataSet()
	var test = dataset.New([]*domain.Example{
		domain.NewExample(1, map[int]float64{0: 1, 2: 1}),
		domain.NewExample(-1, map[int]float64{1: 1, 2: 1}),
	})
	history, err := n.TrainWithValidation(train, test)
	require.NoError(t, err)
	require.Len(t, history, 200)
	for i, stats := range history {
		assert.Equal(t, i+1, stats.Epoch)
		assert.True(t, stats.TrainAccuracy >= 0 && stats.TrainAccuracy <= 1)
		assert.True(t, stats.TestAccuracy >= 0 && stats.TestAccuracy <= 1)
		assert.Equal(t, stats.Error, n.ErrorHistory()[i])
	}
	assert.Equal(t, 1., history[len(history)-1].TrainAccuracy)
	assert.Equal(t, []int{0, 1, 2, 3}, n.Features())
	assert.Equal(t, 3, n.BiasIndex())
	assert.NotPanics(t, func() {
		for _, e := range test.Examples() {
			n.Classify(e)
		}
	})
}
