// Package helplines answers queries over the embedded support-line directory.
package helplines

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/innerguide/internal/domain"
)

// Malaysia does not observe daylight saving, so a fixed zone is exact.
var malaysia = time.FixedZone("MYT", 8*60*60)

type Directory struct {
	lines     []domain.Helpline
	emergency domain.EmergencyNumbers
}

func NewDirectory(lines []domain.Helpline, emergency domain.EmergencyNumbers) *Directory {
	return &Directory{lines: lines, emergency: emergency}
}

func (d *Directory) All() []domain.Helpline {
	return append([]domain.Helpline(nil), d.lines...)
}

func (d *Directory) ByType(t domain.HelplineType) []domain.Helpline {
	var out []domain.Helpline
	for _, h := range d.lines {
		if h.Type == t {
			out = append(out, h)
		}
	}
	return out
}

func (d *Directory) Emergency() domain.EmergencyNumbers {
	return d.emergency
}

// Available returns the lines open at now, evaluated in Malaysian time.
// Lines whose hours cannot be parsed are left out.
func (d *Directory) Available(now time.Time) []domain.Helpline {
	var out []domain.Helpline
	for _, h := range d.lines {
		if alwaysOpen(h) {
			out = append(out, h)
			continue
		}
		s, err := ParseSchedule(h.Hours)
		if err != nil {
			continue
		}
		if s.OpenAt(now.In(malaysia)) {
			out = append(out, h)
		}
	}
	return out
}

func alwaysOpen(h domain.Helpline) bool {
	return h.Availability == "Always available" || strings.Contains(h.Hours, "24/7")
}

// Schedule is a daily opening window, optionally limited to weekdays.
// Minutes count from midnight; CloseMin may be 1440.
type Schedule struct {
	WeekdaysOnly bool
	OpenMin      int
	CloseMin     int
}

var hoursPattern = regexp.MustCompile(`^(?i:(daily|mon-fri|weekdays)\s+)?(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})$`)

// ParseSchedule understands "Daily 10:00 - 22:00", "Mon-Fri 10:00 - 18:00"
// and a bare "10:00 - 18:00" (every day).
func ParseSchedule(hours string) (Schedule, error) {
	m := hoursPattern.FindStringSubmatch(strings.TrimSpace(hours))
	if m == nil {
		return Schedule{}, fmt.Errorf("unrecognized hours %q", hours)
	}

	open, err := minutes(m[2], m[3])
	if err != nil {
		return Schedule{}, fmt.Errorf("hours %q: %w", hours, err)
	}
	closing, err := minutes(m[4], m[5])
	if err != nil {
		return Schedule{}, fmt.Errorf("hours %q: %w", hours, err)
	}
	if closing <= open {
		return Schedule{}, fmt.Errorf("hours %q: closing must be after opening", hours)
	}

	prefix := strings.ToLower(m[1])
	return Schedule{
		WeekdaysOnly: prefix == "mon-fri" || prefix == "weekdays",
		OpenMin:      open,
		CloseMin:     closing,
	}, nil
}

func minutes(h, m string) (int, error) {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	if hh > 24 || mm > 59 || (hh == 24 && mm != 0) {
		return 0, fmt.Errorf("invalid time %s:%s", h, m)
	}
	return hh*60 + mm, nil
}

// OpenAt reports whether t falls in [open, close).
func (s Schedule) OpenAt(t time.Time) bool {
	if s.WeekdaysOnly {
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	m := t.Hour()*60 + t.Minute()
	return m >= s.OpenMin && m < s.CloseMin
}
