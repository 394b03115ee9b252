package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity_Identity(t *testing.T) {
	v := []float32{0.1, 0.5, -0.3, 0.8}
	got, err := CosineSimilarity(v, v)
	require.NoError(t, err)
	require.InDelta(t, 1.0, got, 1e-9)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	got, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	require.InDelta(t, 0.0, got, 1e-9)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	got, err := CosineSimilarity([]float32{1, 2}, []float32{-1, -2})
	require.NoError(t, err)
	require.InDelta(t, -1.0, got, 1e-9)
}

func TestCosineSimilarity_Symmetry(t *testing.T) {
	a := []float32{0.3, 0.2, 0.9}
	b := []float32{0.5, -0.1, 0.4}
	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)
	require.InDelta(t, ab, ba, 1e-12)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	got, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := []float32{0.2, 0.7, 0.1}
	b := []float32{0.4, 1.4, 0.2}
	got, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	require.InDelta(t, 1.0, got, 1e-6)
}
