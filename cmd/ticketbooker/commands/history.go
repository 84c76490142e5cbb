package commands

import (
	"fmt"
	"os"
	"time"

	"ticketbooker/internal/booking"
	"ticketbooker/internal/history"
	"ticketbooker/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	historyDb    *string
	historySite  *string
	historyLimit *int
)

func init() {
	historyDb = historyCmd.Flags().String("db", "", "The history database (default from config).")
	historySite = historyCmd.Flags().StringP("website", "w", "", "Only show attempts on this site.")
	historyLimit = historyCmd.Flags().IntP("limit", "n", 20, "How many attempts to show.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--website <site>] [--limit <n>]",
	Short: "Lists past booking attempts.",
	Run: func(cmd *cobra.Command, args []string) {
		path := *historyDb
		if path == "" {
			path = loadConfig().HistoryDb
		}
		store, err := history.Open(path)
		if err != nil {
			serviceutil.Fatal("failed to open history", err)
		}
		defer store.Close()

		attempts, err := store.Recent(cmd.Context(), *historySite, *historyLimit)
		if err != nil {
			serviceutil.Fatal("failed to read history", err)
		}
		counts, err := store.Counts(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to read history", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Run", "Started", "Site", "Concert", "Zone", "Seats", "Status", "Error"})
		for _, a := range attempts {
			zone := a.Zone
			if a.UsedFallback {
				zone += " (fallback)"
			}
			t.AppendRow(table.Row{
				a.RunID,
				a.StartedAt.Format(time.DateTime),
				a.Site,
				a.Concert,
				zone,
				fmt.Sprintf("%d/%d", a.SeatsSelected, a.SeatsRequested),
				a.Status,
				a.Error,
			})
		}
		t.AppendFooter(table.Row{
			"", "", "", "", "",
			"booked",
			counts[booking.StatusBooked],
			fmt.Sprintf("of %d attempts", total(counts)),
		})
		t.Render()
	},
}

func total(counts map[booking.Status]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
