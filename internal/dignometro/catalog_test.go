package dignometro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionsCatalog(t *testing.T) {
	qs := Questions()
	require.Len(t, qs, 10)

	seen := map[QuestionID]bool{}
	for _, q := range qs {
		assert.False(t, seen[q.ID], "duplicate id %s", q.ID)
		seen[q.ID] = true
		assert.NotEmpty(t, q.Dimension)
		assert.NotEmpty(t, q.Prompt)
	}

	assert.Equal(t, QuestionMoradia, qs[0].ID)
	assert.Equal(t, QuestionBensConectividade, qs[9].ID)
	assert.Equal(t, qs, Questions())
}

func TestQuestionsReturnsCopy(t *testing.T) {
	qs := Questions()
	qs[0].Dimension = "alterado"

	assert.Equal(t, "Moradia", Questions()[0].Dimension)
}

func TestLookupQuestion(t *testing.T) {
	q, ok := LookupQuestion(QuestionAgua)
	require.True(t, ok)
	assert.Equal(t, "Água", q.Dimension)
	assert.Equal(t, "Água", QuestionAgua.Dimension())

	_, ok = LookupQuestion("agua_potavel")
	assert.False(t, ok)
	assert.False(t, QuestionID("agua_potavel").Known())
	assert.Empty(t, QuestionID("agua_potavel").Dimension())
}
