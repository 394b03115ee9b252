package rag

import (
	"fmt"
	"math"
	"strings"
)

// Compose renders an accepted result set into the final answer text.
// Chunks are grouped by source document: one block per document carrying
// its metadata, best similarity and every accepted chunk text. Pure
// function of its inputs.
func Compose(question string, results []Result) string {
	type docGroup struct {
		title      string
		docType    string
		category   string
		docNumber  string
		similarity float64
		contents   []string
	}
	var order []string
	groups := make(map[string]*docGroup)
	for _, res := range results {
		group, ok := groups[res.Chunk.DocumentID]
		if !ok {
			group = &docGroup{
				title:     res.Chunk.DocTitle,
				docType:   res.Chunk.DocType,
				category:  res.Chunk.DocCategory,
				docNumber: res.Chunk.DocNumber,
			}
			groups[res.Chunk.DocumentID] = group
			order = append(order, res.Chunk.DocumentID)
		}
		if res.Similarity > group.similarity {
			group.similarity = res.Similarity
		}
		group.contents = append(group.contents, res.Chunk.Content)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Resposta para: %s\n\n", question)
	sb.WriteString("### Resumo\n")
	sb.WriteString("Com base na legislação e regulamentos municipais, encontrei as seguintes informações relevantes:\n\n")
	for _, id := range order {
		group := groups[id]
		fmt.Fprintf(&sb, "**%s**\n", group.title)
		fmt.Fprintf(&sb, "- **Tipo:** %s\n", group.docType)
		fmt.Fprintf(&sb, "- **Categoria:** %s\n", group.category)
		if group.docNumber != "" {
			fmt.Fprintf(&sb, "- **Número:** %s\n", group.docNumber)
		}
		fmt.Fprintf(&sb, "- **Relevância:** %.1f%%\n\n", math.Round(group.similarity*1000)/10)
		sb.WriteString("**Informações:**\n")
		for _, content := range group.contents {
			sb.WriteString(content)
			sb.WriteString("\n\n")
		}
	}
	sb.WriteString("### Recomendações\n")
	sb.WriteString("Para obter informações mais detalhadas ou esclarecimentos, recomendo:\n")
	sb.WriteString("1. Entrar em contato com a prefeitura através dos canais oficiais\n")
	sb.WriteString("2. Consultar o site oficial da prefeitura\n")
	sb.WriteString("3. Visitar o atendimento presencial se necessário\n\n")
	sb.WriteString("---\n")
	sb.WriteString("*Esta resposta foi gerada automaticamente com base na legislação municipal vigente.*")
	return sb.String()
}

// ComposeRejection renders the rejection message, gate feedback and
// suggested questions into one text block.
func ComposeRejection(message, feedback string, suggestions []string) string {
	var sb strings.Builder
	sb.WriteString(message)
	if feedback != "" {
		sb.WriteString("\n\n")
		sb.WriteString(feedback)
	}
	if len(suggestions) > 0 {
		sb.WriteString("\n\nExemplos de perguntas:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Confidence is the mean similarity of the result set as a percentage,
// rounded to one decimal place. An empty set scores 0.
func Confidence(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0.0
	for _, res := range results {
		total += res.Similarity
	}
	mean := total / float64(len(results))
	return math.Round(mean*1000) / 10
}
