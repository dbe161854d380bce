package dignometro

import "fmt"

// PovertyLevel is one of five ordered classification labels.
type PovertyLevel string

const (
	LevelExtremePoverty       PovertyLevel = "pobreza extrema"
	LevelPoverty              PovertyLevel = "pobreza"
	LevelDignity              PovertyLevel = "dignidade"
	LevelDevelopingProsperity PovertyLevel = "prosperidade em desenvolvimento"
	LevelBreakingPovertyCycle PovertyLevel = "quebra de ciclo da pobreza"
)

var levelsWorstFirst = [...]PovertyLevel{
	LevelExtremePoverty,
	LevelPoverty,
	LevelDignity,
	LevelDevelopingProsperity,
	LevelBreakingPovertyCycle,
}

// Classify maps a score to its poverty level. Band lower edges are
// inclusive; out-of-range input clamps to the nearest band and NaN falls
// to the bottom band.
func Classify(score float64) PovertyLevel {
	for i := len(levelsWorstFirst) - 1; i > 0; i-- {
		if lvl := levelsWorstFirst[i]; score >= lvl.MinScore() {
			return lvl
		}
	}
	return LevelExtremePoverty
}

// PovertyLevels lists every level from worst to best.
func PovertyLevels() []PovertyLevel {
	out := make([]PovertyLevel, len(levelsWorstFirst))
	copy(out, levelsWorstFirst[:])
	return out
}

// Rank orders levels from 0 (worst) to 4 (best); unknown labels rank -1.
func (l PovertyLevel) Rank() int {
	for i, lvl := range levelsWorstFirst {
		if lvl == l {
			return i
		}
	}
	return -1
}

// MinScore is the inclusive lower edge of the level's band.
func (l PovertyLevel) MinScore() float64 {
	switch l {
	case LevelBreakingPovertyCycle:
		return 8
	case LevelDevelopingProsperity:
		return 6
	case LevelDignity:
		return 4
	case LevelPoverty:
		return 2
	default:
		return 0
	}
}

// ParsePovertyLevel validates a stored label.
func ParsePovertyLevel(raw string) (PovertyLevel, error) {
	lvl := PovertyLevel(raw)
	if lvl.Rank() < 0 {
		return "", fmt.Errorf("unknown poverty level %q", raw)
	}
	return lvl, nil
}
