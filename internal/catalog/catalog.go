// Package catalog loads the read-only reference data shipped with the
// binary: activities and their categories, chat personalities, and the
// helpline directory.
package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/innerguide/internal/domain"
)

//go:embed data/*.yaml
var files embed.FS

type Catalog struct {
	Categories    []domain.ActivityCategory
	Activities    []domain.Activity
	Personalities []domain.Personality
	Helplines     []domain.Helpline
	Emergency     domain.EmergencyNumbers
}

type activitiesDoc struct {
	Categories []domain.ActivityCategory `yaml:"categories"`
	Activities []domain.Activity         `yaml:"activities"`
}

type helplinesDoc struct {
	Emergency domain.EmergencyNumbers `yaml:"emergency"`
	Helplines []domain.Helpline       `yaml:"helplines"`
}

// Load decodes and validates the embedded data.
func Load() (*Catalog, error) {
	var acts activitiesDoc
	if err := decode("data/activities.yaml", &acts); err != nil {
		return nil, err
	}
	var personalities []domain.Personality
	if err := decode("data/personalities.yaml", &personalities); err != nil {
		return nil, err
	}
	var lines helplinesDoc
	if err := decode("data/helplines.yaml", &lines); err != nil {
		return nil, err
	}

	c := &Catalog{
		Categories:    acts.Categories,
		Activities:    acts.Activities,
		Personalities: personalities,
		Helplines:     lines.Helplines,
		Emergency:     lines.Emergency,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", name, err)
	}
	return nil
}

// Validate checks the invariants the rest of the application relies on.
func (c *Catalog) Validate() error {
	if err := ValidateActivities(c.Activities); err != nil {
		return err
	}
	if len(c.Personalities) == 0 {
		return fmt.Errorf("catalog: no personalities")
	}
	seen := make(map[string]bool, len(c.Personalities))
	for _, p := range c.Personalities {
		if p.ID == "" || p.ModelID == "" {
			return fmt.Errorf("catalog: personality %q needs id and model", p.Name)
		}
		if seen[p.ID] {
			return fmt.Errorf("catalog: duplicate personality %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// ValidateActivities enforces unique ids, positive durations and a known difficulty.
func ValidateActivities(acts []domain.Activity) error {
	seen := make(map[domain.ActivityID]bool, len(acts))
	for _, a := range acts {
		if a.ID == "" {
			return fmt.Errorf("catalog: activity %q has no id", a.Title)
		}
		if seen[a.ID] {
			return fmt.Errorf("catalog: duplicate activity %q", a.ID)
		}
		seen[a.ID] = true
		if a.DurationMinutes <= 0 {
			return fmt.Errorf("catalog: activity %q: duration must be > 0", a.ID)
		}
		if !a.Difficulty.Valid() {
			return fmt.Errorf("catalog: activity %q: unknown difficulty %q", a.ID, a.Difficulty)
		}
	}
	return nil
}
