package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func resultsWith(similarities ...float64) []Result {
	out := make([]Result, 0, len(similarities))
	for _, s := range similarities {
		out = append(out, Result{Similarity: s})
	}
	return out
}

func TestAccept(t *testing.T) {
	tests := []struct {
		name         string
		similarities []float64
		want         bool
	}{
		{"empty set rejected", nil, false},
		{"single strong result", []float64{0.82}, true},
		{"all criteria at boundary", []float64{0.70, 0.60}, true},
		{"no high relevance result", []float64{0.69, 0.65, 0.62}, false},
		{"mean below minimum", []float64{0.75, 0.30, 0.30, 0.30, 0.30, 0.30}, false},
		{"medium share below half", []float64{0.95, 0.55, 0.55, 0.55}, false},
		{"typical accepted pair", []float64{0.82, 0.65}, true},
		{"mean exactly at minimum", []float64{0.70, 0.30}, true},
		{"mean just below minimum", []float64{0.70, 0.28}, false},
		{"exactly half at medium", []float64{0.75, 0.62, 0.40, 0.41}, true},
		{"single weak result", []float64{0.45}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Accept(resultsWith(tt.similarities...)))
		})
	}
}

func TestFeedback_EmptySet(t *testing.T) {
	got := Feedback(nil)
	require.Equal(t, "Nenhum documento foi encontrado com similaridade suficiente.", got)
}

func TestFeedback_ReportsMaxAndMean(t *testing.T) {
	got := Feedback(resultsWith(0.55, 0.45))
	require.Contains(t, got, "Maior similaridade: 55.0%")
	require.Contains(t, got, "Similaridade média: 50.0%")
}

func TestFeedback_NamesFailedCriteria(t *testing.T) {
	got := Feedback(resultsWith(0.55, 0.35))
	require.Contains(t, got, "Nenhum documento atingiu alta relevância (>= 70%)")
	require.Contains(t, got, "Similaridade média muito baixa (< 50%)")
	require.Contains(t, got, "Menos da metade dos documentos atingiu relevância >= 60%")
	require.Contains(t, got, "Dicas para melhorar sua pergunta:")
}

func TestFeedback_OmitsPassedCriteria(t *testing.T) {
	// high result present, mean fine; only the medium share criterion fails
	got := Feedback(resultsWith(0.90, 0.40, 0.40, 0.40))
	require.NotContains(t, got, "Nenhum documento atingiu alta relevância")
	require.Contains(t, got, "Menos da metade dos documentos atingiu relevância >= 60%")
}

func TestSuggestions_FixedList(t *testing.T) {
	got := Suggestions()
	require.Len(t, got, 5)
	require.Equal(t, "Como tirar alvará de funcionamento?", got[0])
	for _, s := range got {
		require.True(t, strings.HasSuffix(s, "?"))
	}
	require.Equal(t, got, Suggestions())
}
