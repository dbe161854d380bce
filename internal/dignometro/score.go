package dignometro

// AnswerSet maps question ids to yes/no answers. Keys need not cover the
// whole catalog and are not checked against it here.
type AnswerSet map[QuestionID]bool

// Result is the output of Score.
type Result struct {
	Score           float64            `json:"score"`
	DimensionScores map[QuestionID]int `json:"dimensionScores"`
}

// Score computes a 0-10 score relative to the number of answered questions.
// An empty answer set scores 0. The value is not rounded.
func Score(answers AnswerSet) Result {
	dims := make(map[QuestionID]int, len(answers))
	for id, yes := range answers {
		if yes {
			dims[id] = 1
			continue
		}
		dims[id] = 0
	}
	positive, total := answers.Positive(), len(answers)
	if total == 0 {
		return Result{Score: 0, DimensionScores: dims}
	}
	// positive*10/total keeps whole-number ratios exact (7/10 -> 7, not 7.000000000000001).
	return Result{
		Score:           float64(positive) * 10 / float64(total),
		DimensionScores: dims,
	}
}

// Positive counts the true answers.
func (a AnswerSet) Positive() int {
	n := 0
	for _, yes := range a {
		if yes {
			n++
		}
	}
	return n
}

// Vulnerable lists catalog ids answered false, in catalog order.
func (a AnswerSet) Vulnerable() []QuestionID {
	out := make([]QuestionID, 0, len(a))
	for _, q := range catalog {
		if yes, ok := a[q.ID]; ok && !yes {
			out = append(out, q.ID)
		}
	}
	return out
}

// Clone returns an independent copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for id, v := range a {
		out[id] = v
	}
	return out
}
