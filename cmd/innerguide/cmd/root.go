package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "innerguide",
	Short:         "innerguide: mood check-ins, guided activities and a supportive chat",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(breatheCmd)
	rootCmd.AddCommand(tokenCmd)
}
