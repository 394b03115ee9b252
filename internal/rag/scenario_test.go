package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Full pipeline over a two-chunk licensing document, from gate decision
// through composed answer and confidence score.
func TestLicensingQuestionScenario(t *testing.T) {
	results := []Result{
		resultFor("doc-alvara", "Alvará de Funcionamento", "service", "Licenciamento", "",
			"Para obter o alvará de funcionamento, o requerente deve apresentar...", 0.82),
		resultFor("doc-alvara", "Alvará de Funcionamento", "service", "Licenciamento", "",
			"O prazo de emissão do alvará é de até 15 dias úteis.", 0.65),
	}

	require.True(t, Accept(results))
	require.InDelta(t, 73.5, Confidence(results), 1e-9)

	answer := Compose("Como tirar alvará de funcionamento?", results)
	require.Contains(t, answer, "Alvará de Funcionamento")
	require.Contains(t, answer, "Para obter o alvará de funcionamento")
	require.Contains(t, answer, "O prazo de emissão do alvará")
	require.Contains(t, answer, "- **Relevância:** 82.0%")
}

func TestWeakMatchScenario(t *testing.T) {
	results := resultsWith(0.40)

	require.False(t, Accept(results))
	feedback := Feedback(results)
	require.Contains(t, feedback, "Nenhum documento atingiu alta relevância (>= 70%)")
	require.NotEmpty(t, Suggestions())
}
