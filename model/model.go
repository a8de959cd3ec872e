// SPDX-License-Identifier: MIT

// Package model reads and writes curve definitions as YAML:
//
//	params:
//	  a: [1.0, 2.0]
//	  b: [0.5, 2.0]
//	  s: [0.3, 1.0]
//	hidden_states: [0, 0.3, 1.0]
//	derivatives:
//	  - {kind: a, piece: 0}
//	horizon: 15
//
// hidden_states, derivatives and horizon are optional. A missing derivatives
// list means "all parameters" for gradient-tracking curves.
package model

import (
	"fmt"
	"math"
	"os"

	"github.com/katalvlaran/coalrate/rate"
	"gopkg.in/yaml.v3"
)

// Params is the 3×K parameter table, one row per kind.
type Params struct {
	A []float64 `yaml:"a"`
	B []float64 `yaml:"b"`
	S []float64 `yaml:"s"`
}

// Derivative names one tracked parameter.
type Derivative struct {
	Kind  string `yaml:"kind"`
	Piece int    `yaml:"piece"`
}

// Model is the on-disk form of a curve definition.
type Model struct {
	Params       Params       `yaml:"params"`
	HiddenStates []float64    `yaml:"hidden_states,omitempty"`
	Derivatives  []Derivative `yaml:"derivatives,omitempty"`
	Horizon      float64      `yaml:"horizon,omitempty"`
}

// Load reads and validates a model file.
func Load(path string) (*Model, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(d)
}

// Parse decodes and validates a YAML document.
func Parse(d []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(d, &m); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Save writes the model as YAML.
func (m *Model) Save(path string) error {
	d, err := yaml.Marshal(m)
	if err != nil {
		return err
	}

	return os.WriteFile(path, d, 0600)
}

// Validate checks the table is present and rectangular and every
// derivative kind is known. Value ranges are left to rate.New.
func (m *Model) Validate() error {
	if len(m.Params.A) == 0 {
		return ErrEmptyModel
	}
	if len(m.Params.B) != len(m.Params.A) || len(m.Params.S) != len(m.Params.A) {
		return ErrShape
	}
	for _, d := range m.Derivatives {
		if _, err := parseKind(d.Kind); err != nil {
			return err
		}
	}

	return nil
}

// Table returns the parameter table in rate.New layout.
func (m *Model) Table() [][]float64 {
	return [][]float64{m.Params.A, m.Params.B, m.Params.S}
}

// Targets converts the derivative list; nil when none are given.
func (m *Model) Targets() ([]rate.Target, error) {
	if len(m.Derivatives) == 0 {
		return nil, nil
	}
	out := make([]rate.Target, len(m.Derivatives))
	for i, d := range m.Derivatives {
		k, err := parseKind(d.Kind)
		if err != nil {
			return nil, err
		}
		out[i] = rate.Target{Kind: k, Piece: d.Piece}
	}

	return out, nil
}

// Options returns the rate options the model describes.
func (m *Model) Options() ([]rate.Option, error) {
	var opts []rate.Option
	if len(m.HiddenStates) > 0 {
		opts = append(opts, rate.WithHiddenStates(m.HiddenStates))
	}
	targets, err := m.Targets()
	if err != nil {
		return nil, err
	}
	if targets != nil {
		opts = append(opts, rate.WithDerivatives(targets))
	}
	if m.Horizon != 0 {
		if m.Horizon < 0 || math.IsInf(m.Horizon, 0) || math.IsNaN(m.Horizon) {
			return nil, fmt.Errorf("model: horizon %g: %w", m.Horizon, rate.ErrHorizon)
		}
		opts = append(opts, rate.WithHorizon(m.Horizon))
	}

	return opts, nil
}

func parseKind(s string) (rate.ParamKind, error) {
	switch s {
	case "a":
		return rate.KindA, nil
	case "b":
		return rate.KindB, nil
	case "s":
		return rate.KindS, nil
	}

	return 0, fmt.Errorf("%q: %w", s, ErrUnknownKind)
}
