package model_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/coalrate/dual"
	"github.com/katalvlaran/coalrate/model"
	"github.com/katalvlaran/coalrate/rate"
	"github.com/stretchr/testify/require"
)

const doc = `
params:
  a: [1.0, 2.0]
  b: [0.5, 2.0]
  s: [0.3, 1.0]
hidden_states: [0, 0.3, 1.0, .inf]
derivatives:
  - {kind: a, piece: 0}
  - {kind: s, piece: 0}
`

func TestParse(t *testing.T) {
	m, err := model.Parse([]byte(doc))
	require.NoError(t, err)

	require.Equal(t, [][]float64{{1, 2}, {0.5, 2}, {0.3, 1}}, m.Table())
	require.Len(t, m.HiddenStates, 4)
	require.True(t, math.IsInf(m.HiddenStates[3], 1))

	targets, err := m.Targets()
	require.NoError(t, err)
	require.Equal(t, []rate.Target{{Kind: rate.KindA, Piece: 0}, {Kind: rate.KindS, Piece: 0}}, targets)

	opts, err := m.Options()
	require.NoError(t, err)
	c, err := rate.New[dual.Dual](m.Table(), opts...)
	require.NoError(t, err)
	require.Equal(t, 2, c.NumDerivatives())
	require.Equal(t, []int{0, 1, 2, 3}, c.HiddenStateIndices())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"Empty", "hidden_states: [0]\n", model.ErrEmptyModel},
		{"Shape", "params: {a: [1, 2], b: [1], s: [1, 1]}\n", model.ErrShape},
		{"Kind", "params: {a: [1], b: [1], s: [1]}\nderivatives: [{kind: q, piece: 0}]\n", model.ErrUnknownKind},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.Parse([]byte(tc.doc))
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := model.Parse([]byte("params: [1, 2"))
	require.Error(t, err, "malformed YAML")
}

func TestOptionsHorizon(t *testing.T) {
	m, err := model.Parse([]byte("params: {a: [1], b: [1], s: [1]}\nhorizon: 30\n"))
	require.NoError(t, err)
	opts, err := m.Options()
	require.NoError(t, err)
	c, err := rate.New[dual.Float](m.Table(), opts...)
	require.NoError(t, err)
	require.Equal(t, 30.0, c.Horizon())

	m.Horizon = -1
	_, err = m.Options()
	require.ErrorIs(t, err, rate.ErrHorizon)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, err := model.Parse([]byte(doc))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "curve.yaml")
	require.NoError(t, m.Save(path))

	back, err := model.Load(path)
	require.NoError(t, err)
	require.Equal(t, m, back)

	_, err = model.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
