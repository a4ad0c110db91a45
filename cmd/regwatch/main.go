package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	seedFile   string
)

func main() {
	root := &cobra.Command{
		Use:           "regwatch",
		Short:         "Detects and classifies changes between versions of regulatory documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "settings.env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&seedFile, "seed", "", "YAML/JSON captures file loaded into the in-memory store when no DSN is configured")

	root.AddCommand(
		newServeCommand(),
		newSyncCommand(),
		newReportCommand(),
		newIngestCommand(),
		newResetDBCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
