package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/munirag/munirag/internal/model"
)

func resultFor(docID, title, docType, category, docNumber, content string, similarity float64) Result {
	return Result{
		Chunk: model.ChunkWithDocument{
			Chunk:       model.Chunk{DocumentID: docID, Content: content},
			DocTitle:    title,
			DocType:     docType,
			DocCategory: category,
			DocNumber:   docNumber,
		},
		Similarity: similarity,
	}
}

func TestCompose_SingleDocument(t *testing.T) {
	results := []Result{
		resultFor("d1", "Código de Posturas", "law", "posturas", "Lei 123/2020", "Art. 1 dispõe sobre...", 0.82),
	}
	got := Compose("Quais as normas de posturas?", results)

	require.Contains(t, got, "## Resposta para: Quais as normas de posturas?")
	require.Contains(t, got, "**Código de Posturas**")
	require.Contains(t, got, "- **Tipo:** law")
	require.Contains(t, got, "- **Categoria:** posturas")
	require.Contains(t, got, "- **Número:** Lei 123/2020")
	require.Contains(t, got, "- **Relevância:** 82.0%")
	require.Contains(t, got, "Art. 1 dispõe sobre...")
	require.Contains(t, got, "### Recomendações")
}

func TestCompose_OmitsEmptyDocNumber(t *testing.T) {
	results := []Result{
		resultFor("d1", "Guia de Serviços", "service", "atendimento", "", "conteúdo", 0.75),
	}
	got := Compose("pergunta", results)
	require.NotContains(t, got, "**Número:**")
}

func TestCompose_GroupsChunksByDocument(t *testing.T) {
	results := []Result{
		resultFor("d1", "Doc Um", "law", "cat", "", "primeiro trecho", 0.80),
		resultFor("d2", "Doc Dois", "regulation", "cat", "", "outro documento", 0.75),
		resultFor("d1", "Doc Um", "law", "cat", "", "segundo trecho", 0.65),
	}
	got := Compose("pergunta", results)

	require.Equal(t, 1, strings.Count(got, "**Doc Um**"))
	require.Equal(t, 1, strings.Count(got, "**Doc Dois**"))
	require.Contains(t, got, "primeiro trecho")
	require.Contains(t, got, "segundo trecho")
	// best chunk similarity represents the document
	require.Contains(t, got, "- **Relevância:** 80.0%")
	// first appearance order is preserved
	require.Less(t, strings.Index(got, "**Doc Um**"), strings.Index(got, "**Doc Dois**"))
}

func TestComposeRejection(t *testing.T) {
	got := ComposeRejection("Nada encontrado.", "baixa relevância", []string{"Pergunta A?", "Pergunta B?"})
	require.True(t, strings.HasPrefix(got, "Nada encontrado."))
	require.Contains(t, got, "baixa relevância")
	require.Contains(t, got, "Exemplos de perguntas:")
	require.Contains(t, got, "- Pergunta A?")
	require.Contains(t, got, "- Pergunta B?")
	require.False(t, strings.HasSuffix(got, "\n"))
}

func TestConfidence(t *testing.T) {
	require.Zero(t, Confidence(nil))
	require.InDelta(t, 82.0, Confidence(resultsWith(0.82)), 1e-9)
	require.InDelta(t, 73.5, Confidence(resultsWith(0.82, 0.65)), 1e-9)
	require.InDelta(t, 33.3, Confidence(resultsWith(1.0/3.0)), 1e-9)
}
