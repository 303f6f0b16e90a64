package domain

import "sort"

type FeatureInfo struct {
	Index int
	Value float64
}

// Example is an immutable sparse sample. Features are kept sorted by index.
type Example struct {
	features []FeatureInfo
	label    float64
}

func NewExample(label float64, features map[int]float64) *Example {
	var input = make([]FeatureInfo, 0, len(features))
	for index, value := range features {
		if index < 0 {
			panic("negative feature index")
		}
		input = append(input, FeatureInfo{Index: index, Value: value})
	}
	sort.Slice(input, func(i, j int) bool {
		return input[i].Index < input[j].Index
	})
	return &Example{
		features: input,
		label:    label,
	}
}

func (e *Example) Label() float64 { return e.label }

// Features returns the present features ordered by index. The slice must not be modified.
func (e *Example) Features() []FeatureInfo { return e.features }

func (e *Example) FeatureSet() []int {
	var result = make([]int, len(e.features))
	for i := range e.features {
		result[i] = e.features[i].Index
	}
	return result
}

func (e *Example) Feature(index int) float64 {
	if i, ok := e.find(index); ok {
		return e.features[i].Value
	}
	return 0
}

func (e *Example) HasFeature(index int) bool {
	var _, ok = e.find(index)
	return ok
}

func (e *Example) find(index int) (int, bool) {
	var i = sort.Search(len(e.features), func(i int) bool {
		return e.features[i].Index >= index
	})
	return i, i < len(e.features) && e.features[i].Index == index
}

// WithFeature returns a copy of e with the feature set to value.
func (e *Example) WithFeature(index int, value float64) *Example {
	var features = make(map[int]float64, len(e.features)+1)
	for _, f := range e.features {
		features[f.Index] = f.Value
	}
	features[index] = value
	return NewExample(e.label, features)
}
