package dataset

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/sparsefit/classify/internal/domain"
)

// DataSet is an ordered collection of examples together with the set of
// feature indices that occur in any of them.
type DataSet struct {
	examples []*domain.Example
	features map[int]struct{}
}

func New(examples []*domain.Example) *DataSet {
	var ds = &DataSet{
		features: make(map[int]struct{}),
	}
	for _, e := range examples {
		ds.Add(e)
	}
	return ds
}

func (ds *DataSet) Add(e *domain.Example) {
	ds.examples = append(ds.examples, e)
	for _, index := range e.FeatureSet() {
		ds.features[index] = struct{}{}
	}
}

func (ds *DataSet) Len() int { return len(ds.examples) }

// Examples returns a copy of the example slice; the examples themselves are shared.
func (ds *DataSet) Examples() []*domain.Example {
	var result = make([]*domain.Example, len(ds.examples))
	copy(result, ds.examples)
	return result
}

// FeatureIndices returns the feature universe in ascending order.
func (ds *DataSet) FeatureIndices() []int {
	var result = make([]int, 0, len(ds.features))
	for index := range ds.features {
		result = append(result, index)
	}
	sort.Ints(result)
	return result
}

// BiasIndex is the first index above the feature universe.
func (ds *DataSet) BiasIndex() int {
	var result = 0
	for index := range ds.features {
		if index >= result {
			result = index + 1
		}
	}
	return result
}

// CopyWithBias returns a copy where every example carries a constant
// feature of value 1 at BiasIndex.
func (ds *DataSet) CopyWithBias() *DataSet {
	return ds.CopyWithBiasAt(ds.BiasIndex())
}

// CopyWithBiasAt is CopyWithBias with an explicit bias index, used when
// several datasets must share one. The index must not occur in ds.
func (ds *DataSet) CopyWithBiasAt(biasIndex int) *DataSet {
	if _, found := ds.features[biasIndex]; found {
		panic("bias index collides with a feature index")
	}
	var result = &DataSet{
		examples: make([]*domain.Example, 0, len(ds.examples)),
		features: make(map[int]struct{}, len(ds.features)+1),
	}
	for index := range ds.features {
		result.features[index] = struct{}{}
	}
	result.features[biasIndex] = struct{}{}
	for _, e := range ds.examples {
		result.examples = append(result.examples, e.WithFeature(biasIndex, 1))
	}
	return result
}

// Split shuffles the examples and puts the first fraction of them into train.
func (ds *DataSet) Split(rnd *rand.Rand, fraction float64) (train, test *DataSet, err error) {
	if !(fraction > 0 && fraction < 1) {
		return nil, nil, errors.Errorf("split fraction must be in (0, 1), got %v", fraction)
	}
	var examples = ds.Examples()
	rnd.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
	var trainSize = int(float64(len(examples)) * fraction)
	return New(examples[:trainSize]), New(examples[trainSize:]), nil
}
