package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is the release version stamped into the banner.
const Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "emojistudy",
	Short: "Emojistudy runs the emoji password usability study",
	Long: `A local web application for a within-subjects password usability study:
participants create, confirm, and re-enter a plain text password and an
emoji-augmented password, then answer a short questionnaire. Timing data and
derived structural features are collected; raw passwords are never stored.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
