package dignometro

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidInput matches every *InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes one rejected answer.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// InvalidInputError reports an answer payload that violates the input
// contract. Nothing is computed when it is returned.
type InvalidInputError struct {
	Fields []FieldError
}

func (e *InvalidInputError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Issue))
	}
	return "invalid answers: " + strings.Join(parts, "; ")
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

const (
	issueUnknownQuestion = "unknown_question"
	issueNotBoolean      = "must_be_boolean"
	issueNotObject       = "must_be_object"
)

// ParseAnswersJSON decodes a JSON object of question id to boolean.
func ParseAnswersJSON(data []byte) (AnswerSet, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidInputError{Fields: []FieldError{{Field: "answers", Issue: "invalid_json"}}}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &InvalidInputError{Fields: []FieldError{{Field: "answers", Issue: issueNotObject}}}
	}
	return ParseAnswers(obj)
}

// ParseAnswers validates a decoded payload against the catalog. Every key
// must be a known question id and every value a strict boolean.
func ParseAnswers(raw map[string]any) (AnswerSet, error) {
	if raw == nil {
		return nil, &InvalidInputError{Fields: []FieldError{{Field: "answers", Issue: issueNotObject}}}
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	answers := make(AnswerSet, len(raw))
	var problems []FieldError
	for _, k := range keys {
		id := QuestionID(k)
		if !id.Known() {
			problems = append(problems, FieldError{Field: k, Issue: issueUnknownQuestion})
			continue
		}
		v, ok := raw[k].(bool)
		if !ok {
			problems = append(problems, FieldError{Field: k, Issue: issueNotBoolean})
			continue
		}
		answers[id] = v
	}
	if len(problems) > 0 {
		return nil, &InvalidInputError{Fields: problems}
	}
	return answers, nil
}

// Validate checks an already typed answer set against the catalog.
func (a AnswerSet) Validate() error {
	var problems []FieldError
	for id := range a {
		if !id.Known() {
			problems = append(problems, FieldError{Field: string(id), Issue: issueUnknownQuestion})
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].Field < problems[j].Field })
	return &InvalidInputError{Fields: problems}
}
