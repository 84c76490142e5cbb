package commands

import (
	"fmt"
	"os"
	"time"

	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/probe"
	"ticketbooker/internal/sites"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	checkWebsite *string
	checkAll     *bool
	checkConcert *string
)

func init() {
	checkWebsite = checkCmd.Flags().StringP("website", "w", "", "The site to check.")
	checkAll = checkCmd.Flags().Bool("all", false, "Check every site.")
	checkConcert = checkCmd.Flags().String("concert", "", "Also look for links to this concert on the landing page.")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check (--website <site> | --all) [--concert <name>]",
	Short: "Checks that sites are reachable without starting a browser.",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := loadRegistry()

		var list []sites.Site
		if *checkAll {
			list = registry.All()
		} else {
			list = []sites.Site{lookupSite(registry, *checkWebsite)}
		}

		p := probe.NewProber(telemetry.SlogAPI{}, 30*time.Second)
		results := p.CheckAll(cmd.Context(), list, *checkConcert)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Site", "Status", "Time", "Title", "Login", "Concert links"})
		failed := 0
		for _, r := range results {
			status := fmt.Sprint(r.StatusCode)
			if r.Err != nil {
				status = r.Err.Error()
			}
			if !r.Reachable() {
				failed++
			}
			login := "not found"
			if r.LoginFound {
				login = "found"
			}
			links := "-"
			if *checkConcert != "" {
				links = fmt.Sprint(len(r.ConcertLinks))
			}
			t.AppendRow(table.Row{r.Site, status, r.Elapsed.Round(time.Millisecond), r.Title, login, links})
		}
		t.Render()

		if failed > 0 {
			return fmt.Errorf("%d of %d sites unreachable", failed, len(results))
		}
		return nil
	},
}
