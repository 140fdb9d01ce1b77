package helplines_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/innerguide/internal/app/helplines"
	"github.com/PabloGalante/innerguide/internal/catalog"
	"github.com/PabloGalante/innerguide/internal/domain"
)

var myt = time.FixedZone("MYT", 8*60*60)

func directory(t *testing.T) *helplines.Directory {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	return helplines.NewDirectory(c.Helplines, c.Emergency)
}

func ids(lines []domain.Helpline) []string {
	out := make([]string, 0, len(lines))
	for _, h := range lines {
		out = append(out, h.ID)
	}
	return out
}

func TestByType(t *testing.T) {
	d := directory(t)
	assert.ElementsMatch(t, []string{"miasa", "befrienders", "mercare"}, ids(d.ByType(domain.HelplineCrisis)))
	assert.Empty(t, d.ByType("unknown"))
	assert.Len(t, d.All(), 8)
	assert.Equal(t, "999", d.Emergency().Ambulance)
}

func TestAvailableAt3AMOnlyRoundTheClock(t *testing.T) {
	// Wednesday 03:00 in Kuala Lumpur
	now := time.Date(2026, 1, 7, 3, 0, 0, 0, myt)
	got := ids(directory(t).Available(now))
	assert.ElementsMatch(t, []string{"miasa", "talian-kasih", "mercare"}, got)
}

func TestAvailableWeekdayAfternoon(t *testing.T) {
	// Wednesday 14:30
	now := time.Date(2026, 1, 7, 14, 30, 0, 0, myt)
	got := ids(directory(t).Available(now))
	assert.ElementsMatch(t, []string{
		"miasa", "talian-kasih", "talian-heal", "lifeline", "pt-foundation",
		"buddy-bear", "befrienders", "mercare",
	}, got)
}

func TestAvailableSaturdayAfternoonSkipsWeekdayLines(t *testing.T) {
	now := time.Date(2026, 1, 10, 14, 30, 0, 0, myt)
	got := ids(directory(t).Available(now))
	assert.NotContains(t, got, "pt-foundation")
	assert.Contains(t, got, "lifeline")
}

func TestAvailableConvertsToMalaysianTime(t *testing.T) {
	// 23:30 UTC Tuesday is 07:30 Wednesday in Kuala Lumpur: HEAL not open yet
	now := time.Date(2026, 1, 6, 23, 30, 0, 0, time.UTC)
	assert.NotContains(t, ids(directory(t).Available(now)), "talian-heal")

	// 00:30 UTC is 08:30 local
	now = time.Date(2026, 1, 7, 0, 30, 0, 0, time.UTC)
	assert.Contains(t, ids(directory(t).Available(now)), "talian-heal")
}

func TestClosingTimeIsExclusive(t *testing.T) {
	now := time.Date(2026, 1, 7, 22, 0, 0, 0, myt)
	assert.NotContains(t, ids(directory(t).Available(now)), "befrienders")
}

func TestParseSchedule(t *testing.T) {
	s, err := helplines.ParseSchedule("Daily 8:00 - 24:00")
	require.NoError(t, err)
	assert.Equal(t, helplines.Schedule{OpenMin: 480, CloseMin: 1440}, s)

	s, err = helplines.ParseSchedule("Mon-Fri 10:00 - 18:00")
	require.NoError(t, err)
	assert.True(t, s.WeekdaysOnly)

	s, err = helplines.ParseSchedule("09:30-17:15")
	require.NoError(t, err)
	assert.Equal(t, 570, s.OpenMin)

	for _, bad := range []string{"", "whenever", "Daily 22:00 - 10:00", "Daily 25:00 - 26:00"} {
		_, err := helplines.ParseSchedule(bad)
		assert.Error(t, err, bad)
	}
}

func TestUnparseableHoursExcluded(t *testing.T) {
	d := helplines.NewDirectory([]domain.Helpline{
		{ID: "odd", Hours: "by appointment", Availability: "Varies"},
	}, domain.EmergencyNumbers{})
	assert.Empty(t, d.Available(time.Now()))
}
