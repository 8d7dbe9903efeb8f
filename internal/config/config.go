package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultExpr     = "x*x + 3*x + 2"
	DefaultVariable = "x"
	DefaultFrom     = -5.0
	DefaultTo       = 5.0
	DefaultSamples  = 201
	DefaultAt       = 5.0
	DefaultStep     = 0.1
	DefaultTol      = 1e-10
	DefaultMaxIter  = 50
	DefaultWidth    = 64
	DefaultHeight   = 32
	DefaultScale    = 2.0
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Expr     string       `yaml:"expr"`
	Variable string       `yaml:"variable"`
	From     float64      `yaml:"from"`
	To       float64      `yaml:"to"`
	Samples  int          `yaml:"samples"`
	At       float64      `yaml:"at"`
	Step     float64      `yaml:"step"`
	Newton   NewtonConfig `yaml:"newton"`
	Basin    BasinConfig  `yaml:"basin"`
}

type NewtonConfig struct {
	X0      float64 `yaml:"x0"`
	Tol     float64 `yaml:"tol"`
	MaxIter int     `yaml:"max_iter"`
}

// BasinConfig describes a Newton fractal window. Roots are [re, im] pairs.
type BasinConfig struct {
	Roots   [][2]float64 `yaml:"roots"`
	Width   int          `yaml:"width"`
	Height  int          `yaml:"height"`
	Scale   float64      `yaml:"scale"`
	Center  [2]float64   `yaml:"center"`
	Tol     float64      `yaml:"tol"`
	MaxIter int          `yaml:"max_iter"`
}

func DefaultConfig() *Config {
	return &Config{
		Expr:     DefaultExpr,
		Variable: DefaultVariable,
		From:     DefaultFrom,
		To:       DefaultTo,
		Samples:  DefaultSamples,
		At:       DefaultAt,
		Step:     DefaultStep,
		Newton: NewtonConfig{
			X0:      1.0,
			Tol:     DefaultTol,
			MaxIter: DefaultMaxIter,
		},
		Basin: BasinConfig{
			Roots:   defaultRoots(),
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Scale:   DefaultScale,
			Tol:     DefaultTol,
			MaxIter: DefaultMaxIter,
		},
	}
}

func defaultRoots() [][2]float64 {
	return [][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}}
}

// Load reads a YAML file over DefaultConfig, so omitted keys keep their
// defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file onto base and returns it. Keys absent from the
// file leave base unchanged.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, err
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Expr == "":
		return fmt.Errorf("%w: empty expression", ErrInvalidConfig)
	case c.Variable == "":
		return fmt.Errorf("%w: empty variable name", ErrInvalidConfig)
	case !(c.From < c.To):
		return fmt.Errorf("%w: from (%g) must be below to (%g)", ErrInvalidConfig, c.From, c.To)
	case c.Samples < 2:
		return fmt.Errorf("%w: samples must be at least 2, got %d", ErrInvalidConfig, c.Samples)
	case c.Newton.MaxIter < 0 || c.Basin.MaxIter < 0:
		return fmt.Errorf("%w: negative iteration limit", ErrInvalidConfig)
	case len(c.Basin.Roots) == 0:
		return fmt.Errorf("%w: basin needs at least one root", ErrInvalidConfig)
	case c.Basin.Width <= 0 || c.Basin.Height <= 0 || !(c.Basin.Scale > 0):
		return fmt.Errorf("%w: basin grid %dx%d scale %g", ErrInvalidConfig, c.Basin.Width, c.Basin.Height, c.Basin.Scale)
	}
	return nil
}

func (b BasinConfig) ComplexRoots() []complex128 {
	roots := make([]complex128, len(b.Roots))
	for i, r := range b.Roots {
		roots[i] = complex(r[0], r[1])
	}
	return roots
}

func (b BasinConfig) ComplexCenter() complex128 {
	return complex(b.Center[0], b.Center[1])
}
