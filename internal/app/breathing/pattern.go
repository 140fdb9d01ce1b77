// Package breathing paces guided breathing exercises. Each mode is a fixed
// cycle of phases; a phase carries the on-screen cue and the scale the
// breathing orb eases towards while the phase lasts.
package breathing

import (
	"context"
	"strings"
	"time"
)

type Mode string

const (
	ModeBox     Mode = "box"
	ModeDeep    Mode = "deep"
	ModeMindful Mode = "mindful"
)

// ParseMode maps a name to a mode. Unknown names select box breathing.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDeep:
		return ModeDeep
	case ModeMindful:
		return ModeMindful
	default:
		return ModeBox
	}
}

type Phase struct {
	Name     string        `json:"name"`
	Cue      string        `json:"cue"`
	Duration time.Duration `json:"-"`
	Seconds  float64       `json:"seconds"`
	Scale    float64       `json:"scale"`
}

func phase(name, cue string, d time.Duration, scale float64) Phase {
	return Phase{Name: name, Cue: cue, Duration: d, Seconds: d.Seconds(), Scale: scale}
}

// Pattern returns one full cycle for mode.
func Pattern(mode Mode) []Phase {
	switch mode {
	case ModeDeep:
		return []Phase{
			phase("inhale", "Deep Inhale", 5*time.Second, 2.5),
			phase("hold", "Pause", 4*time.Second, 2.5),
			phase("exhale", "Slow Exhale", 6*time.Second, 1),
		}
	case ModeMindful:
		return []Phase{
			phase("expand", "Observe your breath...", 6*time.Second, 1.8),
			phase("settle", "Observe your breath...", 6*time.Second, 1),
		}
	default:
		return []Phase{
			phase("inhale", "Breathe In", 4*time.Second, 2),
			phase("hold", "Hold", 4*time.Second, 2),
			phase("exhale", "Breathe Out", 4*time.Second, 1),
			phase("hold", "Hold", 4*time.Second, 1),
		}
	}
}

// CycleDuration is the length of one pass through the pattern.
func CycleDuration(mode Mode) time.Duration {
	var total time.Duration
	for _, p := range Pattern(mode) {
		total += p.Duration
	}
	return total
}

// Pacer walks a pattern cyclically. It is not safe for concurrent use.
type Pacer struct {
	mode   Mode
	phases []Phase
	next   int
}

func NewPacer(mode Mode) *Pacer {
	return &Pacer{mode: mode, phases: Pattern(mode)}
}

func (p *Pacer) Mode() Mode {
	return p.mode
}

// Next returns the upcoming phase and advances, wrapping after the last one.
func (p *Pacer) Next() Phase {
	ph := p.phases[p.next]
	p.next = (p.next + 1) % len(p.phases)
	return ph
}

// Run emits cycles full cycles, waiting out each phase before the next.
// It stops early when ctx is done.
func (p *Pacer) Run(ctx context.Context, cycles int, emit func(Phase)) error {
	for i := 0; i < cycles*len(p.phases); i++ {
		ph := p.Next()
		emit(ph)

		t := time.NewTimer(ph.Duration)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}
