package recommend

import (
	"slices"

	"github.com/PabloGalante/innerguide/internal/domain"
)

const (
	anxietyArousal    = 0.6
	depressionValence = -0.5

	priorityFeatured = 10
	priorityDefault  = 5
)

type StrategyKind int

const (
	Neutral StrategyKind = iota
	Anxiety
	Depression
)

func (k StrategyKind) String() string {
	switch k {
	case Anxiety:
		return "anxiety"
	case Depression:
		return "depression"
	default:
		return "neutral"
	}
}

// Strategy is the filter and priority rule selected for one mood.
// The rules close over the mood they were built from.
type Strategy struct {
	Kind     StrategyKind
	show     func(domain.Activity) bool
	priority func(domain.Activity) int
}

func (s Strategy) ShouldShow(a domain.Activity) bool { return s.show(a) }
func (s Strategy) Priority(a domain.Activity) int    { return s.priority(a) }

// SelectStrategy picks a strategy from the mood alone. A nil mood is Neutral.
func SelectStrategy(mood *domain.MoodSample) Strategy {
	switch {
	case mood == nil:
		return neutralStrategy()
	case mood.Arousal > anxietyArousal:
		return anxietyStrategy(*mood)
	case mood.Valence < depressionValence:
		return depressionStrategy(*mood)
	default:
		return neutralStrategy()
	}
}

func featuredPriority(a domain.Activity) int {
	if a.Featured {
		return priorityFeatured
	}
	return priorityDefault
}

func showAll(domain.Activity) bool { return true }

func neutralStrategy() Strategy {
	return Strategy{Kind: Neutral, show: showAll, priority: featuredPriority}
}

func anxietyStrategy(mood domain.MoodSample) Strategy {
	calming := func(a domain.Activity) bool {
		return a.Category == domain.CategoryBreathing || a.Category == domain.CategoryGrounding
	}
	high := mood.Arousal > anxietyArousal

	return Strategy{
		Kind: Anxiety,
		show: func(a domain.Activity) bool {
			return !high || calming(a)
		},
		priority: func(a domain.Activity) int {
			if high && calming(a) {
				return 20
			}
			return featuredPriority(a)
		},
	}
}

var depressionBoost = map[domain.Category]int{
	domain.CategoryGrounding: 15,
	domain.CategoryMovement:  12,
	domain.CategoryCreative:  10,
}

func depressionStrategy(mood domain.MoodSample) Strategy {
	low := mood.Valence < depressionValence

	return Strategy{
		Kind: Depression,
		show: func(a domain.Activity) bool {
			if !low {
				return true
			}
			_, ok := depressionBoost[a.Category]
			return ok
		},
		priority: func(a domain.Activity) int {
			if !low {
				return featuredPriority(a)
			}
			if p, ok := depressionBoost[a.Category]; ok {
				return p
			}
			return priorityDefault
		},
	}
}

// Rank filters activities through the mood's strategy and orders them by
// descending priority. Ties keep catalog order.
func Rank(activities []domain.Activity, mood *domain.MoodSample) []domain.RankedActivity {
	return rankWith(SelectStrategy(mood), activities)
}

func rankWith(s Strategy, activities []domain.Activity) []domain.RankedActivity {
	out := make([]domain.RankedActivity, 0, len(activities))
	for _, a := range activities {
		if !s.ShouldShow(a) {
			continue
		}
		out = append(out, domain.RankedActivity{Activity: a, Priority: s.Priority(a)})
	}
	slices.SortStableFunc(out, func(a, b domain.RankedActivity) int {
		return b.Priority - a.Priority
	})
	return out
}
