package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/innerguide/internal/app/recommend"
	"github.com/PabloGalante/innerguide/internal/catalog"
	"github.com/PabloGalante/innerguide/internal/domain"
)

var (
	rankValence float64
	rankArousal float64
	rankNoMood  bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Show the activities suggested for a mood",
	Example: `  innerguide rank --valence -0.2 --arousal 0.8
  innerguide rank --no-mood`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().Float64Var(&rankValence, "valence", 0, "mood valence in [-1, 1]")
	rankCmd.Flags().Float64Var(&rankArousal, "arousal", 0, "mood arousal in [-1, 1]")
	rankCmd.Flags().BoolVar(&rankNoMood, "no-mood", false, "rank without a recorded mood")
}

func runRank(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	var mood *domain.MoodSample
	if !rankNoMood {
		mood = &domain.MoodSample{Valence: rankValence, Arousal: rankArousal}
		if err := mood.Validate(); err != nil {
			return err
		}
	}

	printRanking(cmd.OutOrStdout(), mood, recommend.Rank(cat.Activities, mood))
	return nil
}

func printRanking(w io.Writer, mood *domain.MoodSample, ranked []domain.RankedActivity) {
	strategy := recommend.SelectStrategy(mood)
	if mood != nil {
		fmt.Fprintf(w, "%s %s (valence %.2f, arousal %.2f)\n",
			color.CyanString("Mood:"), mood.Label(), mood.Valence, mood.Arousal)
	} else {
		fmt.Fprintf(w, "%s not recorded\n", color.CyanString("Mood:"))
	}
	fmt.Fprintf(w, "%s %s\n\n", color.CyanString("Strategy:"), strategy.Kind)

	if len(ranked) == 0 {
		fmt.Fprintln(w, color.YellowString("No activities match this mood."))
		return
	}
	for i, a := range ranked {
		marker := "  "
		if i == 0 {
			marker = color.GreenString("★ ")
		}
		vr := ""
		if a.VREnabled {
			vr = color.MagentaString(" [VR]")
		}
		fmt.Fprintf(w, "%s%-32s %s%s\n", marker, a.Title,
			color.HiBlackString("%s · %d min · priority %d", a.Category, a.DurationMinutes, a.Priority), vr)
	}
}
