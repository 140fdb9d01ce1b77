package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/innerguide/internal/domain"
)

func TestMoodSampleValidate(t *testing.T) {
	require.NoError(t, domain.MoodSample{Valence: -1, Arousal: 1}.Validate())
	require.NoError(t, domain.MoodSample{}.Validate())

	for _, m := range []domain.MoodSample{
		{Valence: -1.01},
		{Arousal: 1.5},
		{Valence: math.NaN()},
		{Arousal: math.Inf(-1)},
	} {
		err := m.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidMood)
	}
}

func TestMoodSampleLabel(t *testing.T) {
	cases := []struct {
		v, a float64
		want string
	}{
		{-0.8, -0.8, "Sad & Tired"},
		{-0.8, 0.8, "Anxious & Worried"},
		{-0.8, 0, "Feeling Down"},
		{0.8, 0.8, "Excited & Happy"},
		{0.8, -0.8, "Calm & Content"},
		{0.8, 0, "Feeling Good"},
		{0, 0.8, "High Energy"},
		{0, -0.8, "Low Energy"},
		{0, 0, "Neutral"},
	}
	for _, c := range cases {
		got := domain.MoodSample{Valence: c.v, Arousal: c.a}.Label()
		assert.Equal(t, c.want, got, "valence=%v arousal=%v", c.v, c.a)
	}
}
