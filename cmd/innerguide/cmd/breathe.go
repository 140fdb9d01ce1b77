package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/innerguide/internal/app/breathing"
)

var (
	breatheMode   string
	breatheCycles int
)

var breatheCmd = &cobra.Command{
	Use:   "breathe",
	Short: "Pace a guided breathing exercise in the terminal",
	RunE:  runBreathe,
}

func init() {
	breatheCmd.Flags().StringVar(&breatheMode, "mode", "box", "box, deep or mindful")
	breatheCmd.Flags().IntVar(&breatheCycles, "cycles", 4, "number of full cycles")
}

func runBreathe(cmd *cobra.Command, args []string) error {
	if breatheCycles < 1 {
		return errors.New("--cycles must be at least 1")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	pacer := breathing.NewPacer(breathing.ParseMode(breatheMode))
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s, %d cycles of %s\n", color.CyanString("Breathing:"),
		pacer.Mode(), breatheCycles, breathing.CycleDuration(pacer.Mode()))

	err := pacer.Run(ctx, breatheCycles, func(p breathing.Phase) {
		fmt.Fprintf(out, "  %-24s %s\n", color.GreenString(p.Cue), color.HiBlackString("%.0fs", p.Seconds))
	})
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, color.YellowString("stopped"))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, color.GreenString("Well done."))
	return nil
}
