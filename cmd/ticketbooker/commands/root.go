package commands

import (
	"context"
	"fmt"
	"os"

	"ticketbooker/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose    *bool
	sitesPath  *string
	configPath *string
)

var rootCmd = &cobra.Command{
	Use:   "ticketbooker",
	Short: "ticketbooker is a CLI that books concert tickets by driving a browser through a ticketing site.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
	SilenceUsage: true,
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every step in detail.")
	sitesPath = rootCmd.PersistentFlags().String("sites", "sites.json5", "Selector overrides merged over the built-in sites.")
	configPath = rootCmd.PersistentFlags().String("config", "ticketbooker.json5", "Application config (history, smtp, browser).")
}

// ExecuteContext runs the CLI, the error has already been printed.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
