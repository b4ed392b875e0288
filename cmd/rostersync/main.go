package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd only selects which flow runs; all wiring lives in wire.go and the
// business logic in internal packages.
var rootCmd = &cobra.Command{
	Use:   "rostersync",
	Short: "Sync shift professionals into the chat platform",
	Long: `rostersync is a batch integration job. It reads a roster of shift
professionals, either from the scheduling API or from a CSV file, and
synchronizes them into the chat platform by creating subscribers and
attaching tags.

Configuration comes from the environment: CHAT_API_URL and CHAT_API_TOKEN are
always required; SCHEDULE_API_URL and SCHEDULE_API_TOKEN are required by the
tag flow.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(tagCmd, onboardCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
