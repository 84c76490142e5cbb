package commands

import (
	"os"
	"strings"

	"ticketbooker/internal/handler"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sitesCmd)
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Lists the supported sites and their configuration.",
	Run: func(cmd *cobra.Command, args []string) {
		registry := loadRegistry()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Site", "Name", "Base URL", "Login fields", "Zone fallback", "Missing selectors"})
		for _, site := range registry.All() {
			fields := "xpath"
			if sel, ok := site.Selector("username_field"); ok {
				fields = sel.By.String()
			}
			fallback := "no"
			if handler.HasZoneFallback(site.ID) {
				fallback = "yes"
			}
			missing := strings.Join(handler.MissingSelectors(site), ", ")
			if !handler.Supported(site.ID) {
				missing = "(no handler)"
			}
			t.AppendRow(table.Row{site.ID, site.DisplayName, site.BaseURL, fields, fallback, missing})
		}
		t.Render()
	},
}
