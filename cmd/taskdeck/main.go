// Package main implements the taskdeck command line tool.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Manage a personal task list from the terminal",
	Long: `Taskdeck keeps a personal task list in MongoDB.

Run it without arguments to open the interactive shell, or use the
subcommands for one-shot operations.`,
	RunE:         runShell,
	SilenceUsage: true,
}
