package dignometro

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswersJSON(t *testing.T) {
	got, err := ParseAnswersJSON([]byte(`{"agua": true, "saude": false}`))
	require.NoError(t, err)
	assert.Equal(t, AnswerSet{QuestionAgua: true, QuestionSaude: false}, got)
}

func TestParseAnswersJSONRejects(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []FieldError
	}{
		{name: "array", body: `[true]`, fields: []FieldError{{Field: "answers", Issue: "must_be_object"}}},
		{name: "null", body: `null`, fields: []FieldError{{Field: "answers", Issue: "must_be_object"}}},
		{name: "garbage", body: `{`, fields: []FieldError{{Field: "answers", Issue: "invalid_json"}}},
		{
			name:   "string boolean",
			body:   `{"agua": "true"}`,
			fields: []FieldError{{Field: "agua", Issue: "must_be_boolean"}},
		},
		{
			name:   "number",
			body:   `{"agua": 1}`,
			fields: []FieldError{{Field: "agua", Issue: "must_be_boolean"}},
		},
		{
			name: "typo and bad value sorted by field",
			body: `{"saude": null, "aguaa": true}`,
			fields: []FieldError{
				{Field: "aguaa", Issue: "unknown_question"},
				{Field: "saude", Issue: "must_be_boolean"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswersJSON([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var invalid *InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.fields, invalid.Fields)
		})
	}
}

func TestAnswerSetValidate(t *testing.T) {
	assert.NoError(t, AnswerSet{QuestionAgua: true}.Validate())

	err := AnswerSet{"zz": true, "aa": false, QuestionAgua: true}.Validate()
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []FieldError{
		{Field: "aa", Issue: "unknown_question"},
		{Field: "zz", Issue: "unknown_question"},
	}, invalid.Fields)
	assert.Contains(t, err.Error(), "aa: unknown_question")
}
