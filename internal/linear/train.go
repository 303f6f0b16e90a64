package linear

import (
	"math/rand"

	"github.com/sparsefit/classify/internal/dataset"
	"github.com/sparsefit/classify/internal/domain"
	"github.com/sparsefit/classify/internal/ml"
)

// Train starts from zero weights and makes exactly iterations passes over a
// reshuffled copy of the examples. There is no convergence check.
func (m *GradientDescentClassifier) Train(ds *dataset.DataSet) error {
	m.initWeights(ds.FeatureIndices())

	var loss = newLoss(m.lossType)
	var regularizer = newRegularizer(m.regularizationType, m.lambda)
	var training = ds.Examples()

	for epoch := 1; epoch <= m.iterations; epoch++ {
		shuffle(m.rnd, training)
		var totalLoss float64
		for _, e := range training {
			totalLoss += m.update(e, loss, regularizer)
		}
		if len(training) != 0 {
			var averageLoss = totalLoss / float64(len(training))
			m.lossHistory = append(m.lossHistory, averageLoss)
			m.logger.Printf("Finished Epoch %v, average %v loss: %f\n", epoch, m.lossType, averageLoss)
		}
	}
	return nil
}

// update applies one example and returns its loss. Each weight is updated
// from its own value before the update; the distance is computed once.
func (m *GradientDescentClassifier) update(
	e *domain.Example,
	loss ml.ISurrogateLoss,
	regularizer ml.IRegularizer,
) float64 {
	var label = e.Label()
	var c = loss.Loss(label, m.Distance(e))
	for _, f := range e.Features() {
		var oldWeight = m.weights[f.Index]
		m.weights[f.Index] = oldWeight + m.eta*(label*f.Value*c-regularizer.Penalty(oldWeight))
	}
	m.bias += m.eta * (label*c - regularizer.Penalty(m.bias))
	return c
}

func shuffle(rnd *rand.Rand, training []*domain.Example) {
	rnd.Shuffle(len(training), func(i, j int) {
		training[i], training[j] = training[j], training[i]
	})
}
