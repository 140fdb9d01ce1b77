package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/innerguide/internal/app/recommend"
	"github.com/PabloGalante/innerguide/internal/domain"
)

func act(id string, cat domain.Category, featured bool) domain.Activity {
	return domain.Activity{
		ID:              domain.ActivityID(id),
		Title:           id,
		Category:        cat,
		DurationMinutes: 5,
		Difficulty:      domain.DifficultyEasy,
		Featured:        featured,
	}
}

func testCatalog() []domain.Activity {
	return []domain.Activity{
		act("breathing", domain.CategoryBreathing, true),
		act("grounding", domain.CategoryGrounding, false),
		act("movement", domain.CategoryMovement, false),
		act("creative", domain.CategoryCreative, false),
		act("mindfulness", domain.CategoryMindfulness, false),
	}
}

func ids(ranked []domain.RankedActivity) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, string(r.ID))
	}
	return out
}

func priorities(ranked []domain.RankedActivity) []int {
	out := make([]int, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Priority)
	}
	return out
}

func TestSelectStrategy(t *testing.T) {
	cases := []struct {
		name string
		mood *domain.MoodSample
		want recommend.StrategyKind
	}{
		{"absent", nil, recommend.Neutral},
		{"high arousal", &domain.MoodSample{Valence: 0.2, Arousal: 0.61}, recommend.Anxiety},
		{"high arousal wins over low valence", &domain.MoodSample{Valence: -0.9, Arousal: 0.9}, recommend.Anxiety},
		{"arousal at threshold", &domain.MoodSample{Valence: 0, Arousal: 0.6}, recommend.Neutral},
		{"low valence", &domain.MoodSample{Valence: -0.51, Arousal: 0.6}, recommend.Depression},
		{"valence at threshold", &domain.MoodSample{Valence: -0.5, Arousal: 0}, recommend.Neutral},
		{"pleasant", &domain.MoodSample{Valence: 0.7, Arousal: -0.2}, recommend.Neutral},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, recommend.SelectStrategy(c.mood).Kind)
		})
	}
}

func TestRankAnxietyKeepsOnlyCalmingCategories(t *testing.T) {
	for _, arousal := range []float64{0.61, 0.8, 1} {
		mood := &domain.MoodSample{Valence: 0.3, Arousal: arousal}
		ranked := recommend.Rank(testCatalog(), mood)

		require.Len(t, ranked, 2)
		for _, r := range ranked {
			assert.Contains(t, []domain.Category{domain.CategoryBreathing, domain.CategoryGrounding}, r.Category)
			assert.Equal(t, 20, r.Priority)
		}
		// equal priority keeps catalog order
		assert.Equal(t, []string{"breathing", "grounding"}, ids(ranked))
	}
}

func TestRankDepressionScenario(t *testing.T) {
	mood := &domain.MoodSample{Valence: -0.7, Arousal: 0.2}
	ranked := recommend.Rank(testCatalog(), mood)

	assert.Equal(t, []string{"grounding", "movement", "creative"}, ids(ranked))
	assert.Equal(t, []int{15, 12, 10}, priorities(ranked))
}

func TestRankDepressionExcludesOtherCategories(t *testing.T) {
	cat := append(testCatalog(), act("unknown", domain.Category("sound-bath"), true))
	for _, valence := range []float64{-0.51, -0.75, -1} {
		ranked := recommend.Rank(cat, &domain.MoodSample{Valence: valence, Arousal: 0.6})
		for _, r := range ranked {
			assert.Contains(t,
				[]domain.Category{domain.CategoryGrounding, domain.CategoryMovement, domain.CategoryCreative},
				r.Category)
		}
	}
}

func TestRankNoMoodReturnsEverythingFeaturedFirst(t *testing.T) {
	cat := []domain.Activity{
		act("a", domain.CategoryMindfulness, false),
		act("b", domain.CategoryBreathing, true),
		act("c", domain.CategoryGrounding, false),
		act("d", domain.CategoryCreative, true),
	}
	ranked := recommend.Rank(cat, nil)

	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(ranked))
	assert.Equal(t, []int{10, 10, 5, 5}, priorities(ranked))
}

func TestRankNeutralMoodUsesFeaturedPriority(t *testing.T) {
	ranked := recommend.Rank(testCatalog(), &domain.MoodSample{Valence: 0.5, Arousal: 0})
	require.Len(t, ranked, 5)
	assert.Equal(t, "breathing", string(ranked[0].ID))
	assert.Equal(t, 10, ranked[0].Priority)
	for _, r := range ranked[1:] {
		assert.Equal(t, 5, r.Priority)
	}
}

func TestRankUnknownCategoryGetsDefaultPriority(t *testing.T) {
	cat := []domain.Activity{act("x", domain.Category("sound-bath"), false)}
	ranked := recommend.Rank(cat, nil)
	require.Len(t, ranked, 1)
	assert.Equal(t, 5, ranked[0].Priority)
}

func TestRankIsIdempotent(t *testing.T) {
	moods := []*domain.MoodSample{
		nil,
		{Valence: -0.7, Arousal: 0.2},
		{Valence: 0.1, Arousal: 0.9},
		{Valence: 0.4, Arousal: -0.4},
	}
	for _, m := range moods {
		first := recommend.Rank(testCatalog(), m)
		second := recommend.Rank(testCatalog(), m)
		assert.Equal(t, first, second)
	}
}

func TestRankEmptyCatalog(t *testing.T) {
	assert.Empty(t, recommend.Rank(nil, nil))
	assert.Empty(t, recommend.Rank([]domain.Activity{act("m", domain.CategoryMindfulness, false)},
		&domain.MoodSample{Arousal: 0.9}))
}

func TestRankDoesNotSynthesizeEntries(t *testing.T) {
	cat := testCatalog()
	byID := make(map[domain.ActivityID]domain.Activity, len(cat))
	for _, a := range cat {
		byID[a.ID] = a
	}
	ranked := recommend.Rank(cat, &domain.MoodSample{Valence: -0.9, Arousal: -0.9})
	for _, r := range ranked {
		orig, ok := byID[r.ID]
		require.True(t, ok)
		assert.Equal(t, orig, r.Activity)
	}
}
