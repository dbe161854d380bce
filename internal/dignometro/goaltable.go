package dignometro

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Priority ranks a suggested goal.
type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baixa"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// GoalTemplate is one candidate goal for a vulnerable dimension.
type GoalTemplate struct {
	Goal     string   `yaml:"goal" json:"goal"`
	Priority Priority `yaml:"priority" json:"priority"`
}

// GoalTable holds the suggested goals per question. It is read-only after
// construction and safe for concurrent use.
type GoalTable struct {
	goals map[QuestionID][]GoalTemplate
}

//go:embed goals.yaml
var defaultGoalsYAML []byte

var (
	defaultTableOnce sync.Once
	defaultTable     *GoalTable
)

// DefaultGoalTable returns the goal table shipped with the binary.
func DefaultGoalTable() *GoalTable {
	defaultTableOnce.Do(func() {
		t, err := ParseGoalTable(defaultGoalsYAML)
		if err != nil {
			panic(fmt.Sprintf("dignometro: embedded goal table invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// LoadGoalTable reads a goal table from a YAML file. An empty path returns
// the default table.
func LoadGoalTable(path string) (*GoalTable, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultGoalTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read goal table: %w", err)
	}
	t, err := ParseGoalTable(data)
	if err != nil {
		return nil, fmt.Errorf("goal table %s: %w", path, err)
	}
	return t, nil
}

// ParseGoalTable decodes and validates a YAML goal table keyed by question id.
func ParseGoalTable(data []byte) (*GoalTable, error) {
	var raw map[string][]GoalTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode goal table: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("goal table is empty")
	}
	goals := make(map[QuestionID][]GoalTemplate, len(raw))
	for key, templates := range raw {
		id := QuestionID(strings.TrimSpace(key))
		if !id.Known() {
			return nil, fmt.Errorf("unknown question id %q", key)
		}
		clean := make([]GoalTemplate, 0, len(templates))
		seen := make(map[string]struct{}, len(templates))
		for i, tpl := range templates {
			tpl.Goal = strings.TrimSpace(tpl.Goal)
			tpl.Priority = Priority(strings.ToLower(strings.TrimSpace(string(tpl.Priority))))
			if tpl.Goal == "" {
				return nil, fmt.Errorf("%s[%d]: goal is required", id, i)
			}
			if !tpl.Priority.Valid() {
				return nil, fmt.Errorf("%s[%d]: unknown priority %q", id, i, tpl.Priority)
			}
			// Goals that slugify alike would share a recommendation key.
			slug := slugify(tpl.Goal)
			if _, dup := seen[slug]; dup {
				return nil, fmt.Errorf("%s[%d]: duplicate goal %q", id, i, tpl.Goal)
			}
			seen[slug] = struct{}{}
			clean = append(clean, tpl)
		}
		goals[id] = clean
	}
	return &GoalTable{goals: goals}, nil
}

// Goals returns a copy of the templates configured for id.
func (t *GoalTable) Goals(id QuestionID) []GoalTemplate {
	if t == nil {
		return nil
	}
	src := t.goals[id]
	out := make([]GoalTemplate, len(src))
	copy(out, src)
	return out
}
