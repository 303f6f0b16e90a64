package classifier

import (
	"context"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sparsefit/classify/internal/dataset"
)

// Factory builds a fresh classifier that draws randomness only from rnd.
type Factory func(rnd *rand.Rand) Classifier

type Split struct {
	Train *dataset.DataSet
	Test  *dataset.DataSet
}

type Result struct {
	Name          string
	TrainAccuracy float64
	TestAccuracy  float64
}

type Summary struct {
	Runs   int
	Mean   float64
	StdDev float64
	Median float64
	Min    float64
	Max    float64
}

// Evaluate trains every candidate on its own instance, concurrently, and
// reports train and test accuracy. Results are ordered by name. A candidate
// that panics, for example on a test feature outside its training universe,
// fails the evaluation with an error.
func Evaluate(
	ctx context.Context,
	split Split,
	seed int64,
	candidates map[string]Factory,
) ([]Result, error) {
	var names = make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	var results = make([]Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		var i, name = i, name
		var c = candidates[name](rand.New(rand.NewSource(seed + int64(i))))
		g.Go(func() error {
			var result, err = evaluate(ctx, c, split)
			if err != nil {
				return errors.Wrapf(err, "evaluate %v", name)
			}
			result.Name = name
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Repeat trains runs independent instances built by factory, seeded with
// seed, seed+1, ..., and summarizes their test accuracy.
func Repeat(
	ctx context.Context,
	runs int,
	seed int64,
	factory Factory,
	split Split,
) (Summary, error) {
	if runs <= 0 {
		return Summary{}, errors.Errorf("runs must be positive, got %v", runs)
	}
	var accuracies = make([]float64, runs)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < runs; i++ {
		var i = i
		var c = factory(rand.New(rand.NewSource(seed + int64(i))))
		g.Go(func() error {
			var result, err = evaluate(ctx, c, split)
			if err != nil {
				return errors.Wrapf(err, "run %v", i)
			}
			accuracies[i] = result.TestAccuracy
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return Summarize(accuracies)
}

func Summarize(accuracies []float64) (Summary, error) {
	var data = stats.Float64Data(accuracies)
	mean, err := data.Mean()
	if err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}
	stdDev, err := data.StandardDeviation()
	if err != nil {
		return Summary{}, errors.Wrap(err, "standard deviation")
	}
	median, err := data.Median()
	if err != nil {
		return Summary{}, errors.Wrap(err, "median")
	}
	lo, err := data.Min()
	if err != nil {
		return Summary{}, errors.Wrap(err, "min")
	}
	hi, err := data.Max()
	if err != nil {
		return Summary{}, errors.Wrap(err, "max")
	}
	return Summary{
		Runs:   len(accuracies),
		Mean:   mean,
		StdDev: stdDev,
		Median: median,
		Min:    lo,
		Max:    hi,
	}, nil
}

// evaluate cannot interrupt a running Train; ctx is only checked before it.
// A panic of c, such as a network classifying a test feature it was not
// trained on, is returned as an error instead of killing the worker goroutine.
func evaluate(ctx context.Context, c Classifier, split Split) (result Result, err error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = Result{}, errors.Errorf("panic: %v", r)
		}
	}()
	if err := c.Train(split.Train); err != nil {
		return Result{}, err
	}
	return Result{
		TrainAccuracy: Accuracy(c, split.Train.Examples()),
		TestAccuracy:  Accuracy(c, split.Test.Examples()),
	}, nil
}
