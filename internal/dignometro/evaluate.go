package dignometro

// Evaluation is the combined output of scoring, classification and
// recommendation derivation for one answer set.
type Evaluation struct {
	Score           float64            `json:"score"`
	PovertyLevel    PovertyLevel       `json:"povertyLevel"`
	DimensionScores map[QuestionID]int `json:"dimensionScores"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// Evaluator runs the full pipeline against a specific goal table.
type Evaluator struct {
	Goals *GoalTable
}

// NewEvaluator builds an Evaluator; a nil table falls back to the default.
func NewEvaluator(goals *GoalTable) *Evaluator {
	if goals == nil {
		goals = DefaultGoalTable()
	}
	return &Evaluator{Goals: goals}
}

// Evaluate scores, classifies and derives recommendations.
func (e *Evaluator) Evaluate(answers AnswerSet) Evaluation {
	res := Score(answers)
	goals := e.Goals
	if goals == nil {
		goals = DefaultGoalTable()
	}
	return Evaluation{
		Score:           res.Score,
		PovertyLevel:    Classify(res.Score),
		DimensionScores: res.DimensionScores,
		Recommendations: goals.Derive(answers),
	}
}

// Evaluate runs the pipeline with the default goal table.
func Evaluate(answers AnswerSet) Evaluation {
	return NewEvaluator(nil).Evaluate(answers)
}
