package config

import (
	"bytes"
	"io"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/sparsefit/classify/internal/linear"
	"github.com/sparsefit/classify/internal/network"
)

// Config holds the hyperparameters of both learners.
type Config struct {
	Seed    int64         `yaml:"seed"`
	Linear  LinearConfig  `yaml:"linear"`
	Network NetworkConfig `yaml:"network"`
}

type LinearConfig struct {
	Loss           string  `yaml:"loss"`
	Regularization string  `yaml:"regularization"`
	Lambda         float64 `yaml:"lambda"`
	Eta            float64 `yaml:"eta"`
	Iterations     int     `yaml:"iterations"`
}

type NetworkConfig struct {
	Hidden     int     `yaml:"hidden"`
	Eta        float64 `yaml:"eta"`
	Iterations int     `yaml:"iterations"`
}

func Default() *Config {
	return &Config{
		Seed: 1,
		Linear: LinearConfig{
			Loss:           linear.HingeLoss.String(),
			Regularization: linear.NoRegularization.String(),
			Lambda:         linear.DefaultLambda,
			Eta:            linear.DefaultEta,
			Iterations:     linear.DefaultIterations,
		},
		Network: NetworkConfig{
			Hidden:     2,
			Eta:        network.DefaultEta,
			Iterations: network.DefaultIterations,
		},
	}
}

// Load reads and validates a Config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes YAML over Default, so missing keys keep their defaults.
func Parse(r io.Reader) (*Config, error) {
	var cfg = Default()
	var dec = yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := linear.ParseLossType(c.Linear.Loss); err != nil {
		return errors.Wrap(err, "linear")
	}
	if _, err := linear.ParseRegularizationType(c.Linear.Regularization); err != nil {
		return errors.Wrap(err, "linear")
	}
	if c.Linear.Lambda < 0 {
		return errors.Errorf("linear: lambda must be >= 0 (got %v)", c.Linear.Lambda)
	}
	if c.Linear.Eta <= 0 {
		return errors.Errorf("linear: eta must be > 0 (got %v)", c.Linear.Eta)
	}
	if c.Linear.Iterations <= 0 {
		return errors.Errorf("linear: iterations must be > 0 (got %v)", c.Linear.Iterations)
	}
	if c.Network.Hidden <= 0 {
		return errors.Errorf("network: hidden must be > 0 (got %v)", c.Network.Hidden)
	}
	if c.Network.Eta <= 0 {
		return errors.Errorf("network: eta must be > 0 (got %v)", c.Network.Eta)
	}
	if c.Network.Iterations <= 0 {
		return errors.Errorf("network: iterations must be > 0 (got %v)", c.Network.Iterations)
	}
	return nil
}

func (c *Config) NewRand() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed))
}

// NewLinear validates c and builds a linear learner.
func (c *Config) NewLinear(rnd *rand.Rand) (*linear.GradientDescentClassifier, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	lossType, err := linear.ParseLossType(c.Linear.Loss)
	if err != nil {
		return nil, errors.Wrap(err, "linear")
	}
	regularizationType, err := linear.ParseRegularizationType(c.Linear.Regularization)
	if err != nil {
		return nil, errors.Wrap(err, "linear")
	}
	var m = linear.NewGradientDescentClassifier(rnd)
	m.SetLoss(lossType)
	m.SetRegularization(regularizationType)
	m.SetLambda(c.Linear.Lambda)
	m.SetEta(c.Linear.Eta)
	m.SetIterations(c.Linear.Iterations)
	return m, nil
}

// NewNetwork validates c and builds a network learner.
func (c *Config) NewNetwork(rnd *rand.Rand) (*network.TwoLayerNN, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var n = network.New(c.Network.Hidden, rnd)
	n.SetEta(c.Network.Eta)
	n.SetIterations(c.Network.Iterations)
	return n, nil
}
