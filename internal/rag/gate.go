package rag

import (
	"fmt"
	"strings"
)

// Relevance gate thresholds. A result set passes only when all three
// criteria hold.
const (
	HighRelevanceMin  = 0.70
	MeanSimilarityMin = 0.50
	MediumRelevance   = 0.60
	MediumShareMin    = 0.5
)

// Accept reports whether the ranked result set carries enough evidence to
// answer: at least one result at or above HighRelevanceMin, mean
// similarity at or above MeanSimilarityMin, and at least half the results
// at or above MediumRelevance. An empty set is always rejected.
func Accept(results []Result) bool {
	if len(results) == 0 {
		return false
	}
	high := 0
	medium := 0
	total := 0.0
	for _, res := range results {
		total += res.Similarity
		if res.Similarity >= HighRelevanceMin {
			high++
		}
		if res.Similarity >= MediumRelevance {
			medium++
		}
	}
	mean := total / float64(len(results))
	mediumShare := float64(medium) / float64(len(results))
	return high > 0 && mean >= MeanSimilarityMin && mediumShare >= MediumShareMin
}

// Feedback explains a rejection: the best and mean similarity observed,
// every criterion that failed, and hints for asking a better question.
func Feedback(results []Result) string {
	if len(results) == 0 {
		return "Nenhum documento foi encontrado com similaridade suficiente."
	}
	maxSim := 0.0
	total := 0.0
	medium := 0
	for _, res := range results {
		total += res.Similarity
		if res.Similarity > maxSim {
			maxSim = res.Similarity
		}
		if res.Similarity >= MediumRelevance {
			medium++
		}
	}
	mean := total / float64(len(results))
	mediumShare := float64(medium) / float64(len(results))

	var sb strings.Builder
	sb.WriteString("Documentos encontrados, mas com baixa relevância:\n")
	fmt.Fprintf(&sb, "- Maior similaridade: %.1f%%\n", maxSim*100)
	fmt.Fprintf(&sb, "- Similaridade média: %.1f%%\n\n", mean*100)
	if maxSim < HighRelevanceMin {
		sb.WriteString("Nenhum documento atingiu alta relevância (>= 70%)\n")
	}
	if mean < MeanSimilarityMin {
		sb.WriteString("Similaridade média muito baixa (< 50%)\n")
	}
	if mediumShare < MediumShareMin {
		sb.WriteString("Menos da metade dos documentos atingiu relevância >= 60%\n")
	}
	sb.WriteString("\nDicas para melhorar sua pergunta:\n")
	sb.WriteString("- Use termos mais específicos relacionados aos serviços municipais\n")
	sb.WriteString("- Evite perguntas genéricas ou fora do contexto da prefeitura\n")
	sb.WriteString("- Tente usar palavras-chave como: alvará, certidão, taxa, regulamento")
	return sb.String()
}

// Suggestions returns the fixed list of example questions offered when a
// question is rejected.
func Suggestions() []string {
	return []string{
		"Como tirar alvará de funcionamento?",
		"Quais documentos preciso para certidão de casamento?",
		"Qual o valor da taxa de coleta de lixo?",
		"Como funciona o horário de funcionamento dos estabelecimentos?",
		"Quais são as normas de posturas municipais?",
	}
}
