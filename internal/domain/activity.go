package domain

import "errors"

var ErrActivityNotFound = errors.New("activity not found")

type Category string

const (
	CategoryBreathing   Category = "breathing"
	CategoryGrounding   Category = "grounding"
	CategoryMindfulness Category = "mindfulness"
	CategoryMovement    Category = "movement"
	CategoryCreative    Category = "creative"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Activity is a read-only catalog entry.
type Activity struct {
	ID               ActivityID `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Description      string     `json:"description" yaml:"description"`
	Category         Category   `json:"category" yaml:"category"`
	DurationMinutes  int        `json:"duration_minutes" yaml:"duration_minutes"`
	Difficulty       Difficulty `json:"difficulty" yaml:"difficulty"`
	VREnabled        bool       `json:"vr_enabled" yaml:"vr_enabled"`
	TherapeuticGoals []string   `json:"therapeutic_goals" yaml:"therapeutic_goals"`
	Featured         bool       `json:"featured" yaml:"featured"`
}

// RankedActivity is an Activity with the priority assigned by the
// current mood strategy. It is recomputed on every mood change.
type RankedActivity struct {
	Activity
	Priority int `json:"priority"`
}

// Range is an inclusive [Min, Max] interval on a mood axis.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// ActivityCategory describes a category for display.
type ActivityCategory struct {
	ID           Category `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	ValenceRange Range    `json:"valence_range" yaml:"valence_range"`
	ArousalRange Range    `json:"arousal_range" yaml:"arousal_range"`
	Priority     int      `json:"priority" yaml:"priority"`
}
