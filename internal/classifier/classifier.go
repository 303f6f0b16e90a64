package classifier

import (
	"github.com/sparsefit/classify/internal/dataset"
	"github.com/sparsefit/classify/internal/domain"
)

// Classifier is a binary classifier over labels in {-1, +1}. Implementations
// are not safe for concurrent use.
type Classifier interface {
	Train(ds *dataset.DataSet) error
	Classify(e *domain.Example) float64
	Confidence(e *domain.Example) float64
}

// Accuracy is the fraction of examples whose predicted label equals the label.
func Accuracy(c Classifier, examples []*domain.Example) float64 {
	if len(examples) == 0 {
		return 0
	}
	var correct int
	for _, e := range examples {
		if c.Classify(e) == e.Label() {
			correct++
		}
	}
	return float64(correct) / float64(len(examples))
}
