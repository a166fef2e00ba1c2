// Package experiment describes benchmarking experiments and runs them:
// an optimizer is applied repeatedly to every problem of a suite while
// attainment loggers record the evaluation stream.
package experiment

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/logger"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/opt"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

// Families that an experiment can select.
const (
	FamilyBBOB = "bbob"
	FamilyPBO  = "pbo"
)

var validate = validator.New()

// ScaleConfig configures a logger.Scale.
type ScaleConfig struct {
	Kind string  `json:"kind" yaml:"kind" validate:"omitempty,oneof=linear log2 log10"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max" validate:"gtfield=Min"`
	Size int     `json:"size" yaml:"size" validate:"gte=1,lte=4096"`
}

// Build creates the scale.
func (s ScaleConfig) Build() (*logger.Scale, error) {
	kind, err := logger.ParseKind(s.Kind)
	if err != nil {
		return nil, &problem.ConfigurationError{Field: "kind", Value: s.Kind, Reason: "is not a scale kind"}
	}
	return logger.NewScale(kind, s.Min, s.Max, s.Size)
}

// Config describes one experiment.
type Config struct {
	Name       string `json:"name" yaml:"name"`
	Family     string `json:"family" yaml:"family" validate:"required,oneof=bbob pbo"`
	IDs        []int  `json:"ids" yaml:"ids" validate:"required,min=1,dive,gte=1"`
	Instances  []int  `json:"instances" yaml:"instances" validate:"required,min=1,dive,gte=1"`
	Dimensions []int  `json:"dimensions" yaml:"dimensions" validate:"required,min=1,dive,gte=1"`

	// Runs is the number of independent runs per problem.
	Runs int `json:"runs" yaml:"runs" validate:"gte=1,lte=1000"`
	// Budget is the evaluation budget of one run.
	Budget int `json:"budget" yaml:"budget" validate:"gte=1"`

	Iterations int   `json:"iterations" yaml:"iterations" validate:"gte=1"`
	Population int   `json:"population" yaml:"population" validate:"gte=20"`
	Seed       int64 `json:"seed" yaml:"seed"`

	// StopOnOptimum ends a run once the known optimum is reached.
	StopOnOptimum bool `json:"stopOnOptimum" yaml:"stop_on_optimum"`
	// RawObjective buckets kernel values, taken before objective
	// transforms, instead of reported ones.
	RawObjective bool `json:"rawObjective" yaml:"raw_objective"`

	Performance ScaleConfig `json:"performance" yaml:"performance"`
	Evaluations ScaleConfig `json:"evaluations" yaml:"evaluations"`
}

// DefaultConfig returns the configuration used when a file or request
// leaves fields out.
func DefaultConfig() Config {
	return Config{
		Family:        FamilyBBOB,
		IDs:           []int{1},
		Instances:     []int{1},
		Dimensions:    []int{2},
		Runs:          5,
		Budget:        1000,
		Iterations:    50,
		Population:    opt.MinPopulation,
		Seed:          42,
		StopOnOptimum: true,
		RawObjective:  true,
		Performance:   ScaleConfig{Kind: "log10", Min: 1e-8, Max: 1e4, Size: 48},
		Evaluations:   ScaleConfig{Kind: "log10", Min: 1, Max: 1000, Size: 24},
	}
}

// DefaultPBOConfig is DefaultConfig adapted to the pseudo-Boolean family,
// whose objective values grow linearly with the dimension.
func DefaultPBOConfig() Config {
	cfg := DefaultConfig()
	cfg.Family = FamilyPBO
	cfg.Dimensions = []int{16}
	cfg.Performance = ScaleConfig{Kind: "linear", Min: 0, Max: 16, Size: 16}
	return cfg
}

// Defaults returns the default configuration of a family.
func Defaults(family string) Config {
	if family == FamilyPBO {
		return DefaultPBOConfig()
	}
	return DefaultConfig()
}

// Load reads a YAML experiment file. Fields missing from the file keep
// the defaults of the family the file names.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read config: %w", err)
	}
	var probe struct {
		Family string `yaml:"family"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg := Defaults(probe.Family)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints and that both scales can be built.
// Field failures are problem.ConfigurationError values; scale failures are
// the errors of logger.NewScale.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &problem.ConfigurationError{
				Field:  fe.Namespace(),
				Value:  fe.Value(),
				Reason: "fails the " + fe.Tag() + " constraint",
			}
		}
		return &problem.ConfigurationError{Reason: err.Error()}
	}
	if _, err := c.Performance.Build(); err != nil {
		return fmt.Errorf("performance scale: %w", err)
	}
	if _, err := c.Evaluations.Build(); err != nil {
		return fmt.Errorf("evaluation scale: %w", err)
	}
	return nil
}

// Scales builds the performance and budget scales.
func (c *Config) Scales() (perf, budget *logger.Scale, err error) {
	if perf, err = c.Performance.Build(); err != nil {
		return nil, nil, err
	}
	if budget, err = c.Evaluations.Build(); err != nil {
		return nil, nil, err
	}
	return perf, budget, nil
}
