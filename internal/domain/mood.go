package domain

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidMood = errors.New("invalid mood sample")

// MoodSample is a point on the valence/arousal plane.
// Valence runs from -1 (very negative) to +1 (very positive),
// arousal from -1 (very calm) to +1 (very agitated).
type MoodSample struct {
	Valence   float64   `json:"valence" yaml:"valence"`
	Arousal   float64   `json:"arousal" yaml:"arousal"`
	Timestamp Timestamp `json:"timestamp" yaml:"timestamp"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate reports whether both axes are finite and inside [-1, 1].
func (m MoodSample) Validate() error {
	if !inUnitRange(m.Valence) {
		return fmt.Errorf("%w: valence %v outside [-1,1]", ErrInvalidMood, m.Valence)
	}
	if !inUnitRange(m.Arousal) {
		return fmt.Errorf("%w: arousal %v outside [-1,1]", ErrInvalidMood, m.Arousal)
	}
	return nil
}

// Label is the short human description shown after a check-in.
func (m MoodSample) Label() string {
	v, a := m.Valence, m.Arousal
	switch {
	case v < -0.5 && a < -0.5:
		return "Sad & Tired"
	case v < -0.5 && a > 0.5:
		return "Anxious & Worried"
	case v < -0.5:
		return "Feeling Down"
	case v > 0.5 && a > 0.5:
		return "Excited & Happy"
	case v > 0.5 && a < -0.5:
		return "Calm & Content"
	case v > 0.5:
		return "Feeling Good"
	case a > 0.5:
		return "High Energy"
	case a < -0.5:
		return "Low Energy"
	default:
		return "Neutral"
	}
}

func inUnitRange(f float64) bool {
	return !math.IsNaN(f) && f >= -1 && f <= 1
}
