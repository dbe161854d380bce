package dignometro

import (
	"strings"
	"unicode"
)

// Recommendation is a suggested goal for a vulnerable dimension. It is
// derived on demand and never persisted by this package.
type Recommendation struct {
	QuestionID QuestionID `json:"questionId"`
	Dimension  string     `json:"dimension"`
	Goal       string     `json:"goal"`
	Priority   Priority   `json:"priority"`
}

// Key identifies a recommendation across derivations so callers can diff
// against goals that were already accepted.
func (r Recommendation) Key() string {
	return RecommendationKey(r.QuestionID, r.Goal)
}

// RecommendationKey builds the stable key for a question id and goal text.
func RecommendationKey(id QuestionID, goal string) string {
	return string(id) + ":" + slugify(goal)
}

// DeriveRecommendations uses the default goal table.
func DeriveRecommendations(answers AnswerSet) []Recommendation {
	return DefaultGoalTable().Derive(answers)
}

// Derive emits the configured goals for every question answered false.
// Output is grouped by catalog order, then by the table's own order. True,
// missing and unknown ids contribute nothing.
func (t *GoalTable) Derive(answers AnswerSet) []Recommendation {
	out := make([]Recommendation, 0, 3*len(answers))
	if t == nil {
		return out
	}
	for _, id := range answers.Vulnerable() {
		q, _ := LookupQuestion(id)
		for _, tpl := range t.goals[id] {
			out = append(out, Recommendation{
				QuestionID: q.ID,
				Dimension:  q.Dimension,
				Goal:       tpl.Goal,
				Priority:   tpl.Priority,
			})
		}
	}
	return out
}

func slugify(input string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "item"
	}
	return out
}
