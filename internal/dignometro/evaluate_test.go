package dignometro

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateFamilyWithThreeVulnerabilities(t *testing.T) {
	answers := AnswerSet{
		QuestionMoradia:            true,
		QuestionAgua:               false,
		QuestionSaneamento:         false,
		QuestionEducacao:           true,
		QuestionSaude:              false,
		QuestionAlimentacao:        true,
		QuestionRendaDiversificada: true,
		QuestionRendaEstavel:       true,
		QuestionPoupanca:           true,
		QuestionBensConectividade:  true,
	}

	got := Evaluate(answers)

	assert.Equal(t, 7.0, got.Score)
	assert.Equal(t, LevelDevelopingProsperity, got.PovertyLevel)
	assert.Len(t, got.DimensionScores, 10)
	require.Len(t, got.Recommendations, 9)
	assert.Equal(t, QuestionAgua, got.Recommendations[0].QuestionID)
	assert.Equal(t, QuestionSaneamento, got.Recommendations[3].QuestionID)
	assert.Equal(t, QuestionSaude, got.Recommendations[6].QuestionID)
}

func TestEvaluateIsByteIdenticalAcrossCalls(t *testing.T) {
	answers := AnswerSet{QuestionAgua: false, QuestionMoradia: true, QuestionPoupanca: false}

	first, err := json.Marshal(Evaluate(answers))
	require.NoError(t, err)
	second, err := json.Marshal(Evaluate(answers))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, string(first), string(second))
}

func TestEvaluateJSONShape(t *testing.T) {
	data, err := json.Marshal(Evaluate(AnswerSet{QuestionAgua: true}))
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, 10.0, payload["score"])
	assert.Equal(t, "quebra de ciclo da pobreza", payload["povertyLevel"])
	assert.Equal(t, map[string]any{"agua": 1.0}, payload["dimensionScores"])
	assert.Equal(t, []any{}, payload["recommendations"])
}

func TestEvaluatorUsesInjectedTable(t *testing.T) {
	table, err := ParseGoalTable([]byte("agua:\n  - goal: Uma meta\n    priority: media\n"))
	require.NoError(t, err)

	got := NewEvaluator(table).Evaluate(AnswerSet{QuestionAgua: false})

	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "Uma meta", got.Recommendations[0].Goal)
	assert.Equal(t, LevelExtremePoverty, got.PovertyLevel)
}
