package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"ticketbooker/internal/booking"
	"ticketbooker/internal/browser"
	"ticketbooker/internal/components/chrono"
	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/handler"
	"ticketbooker/internal/history"
	"ticketbooker/internal/intent"
	"ticketbooker/internal/notify"
	"ticketbooker/lib/serviceutil"
	libtelemetry "ticketbooker/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	bookWebsite  *string
	bookUser     *string
	bookDryRun   *bool
	bookTimeout  *int
	bookHeadless *bool
	bookKeepOpen *bool
	bookHistory  *string
	bookCron     *string
)

var errBookingFailed = errors.New("booking did not go through")

func init() {
	bookWebsite = bookCmd.Flags().StringP("website", "w", "", "The site to book on, asked for when empty.")
	bookUser = bookCmd.Flags().StringP("user", "u", "userdetail.json", "The user intent file.")
	bookDryRun = bookCmd.Flags().Bool("dry-run", false, "Select seats but stop before confirming.")
	bookTimeout = bookCmd.Flags().Int("timeout", 0, "Seconds to wait for a page to navigate (default from config, 30).")
	bookHeadless = bookCmd.Flags().Bool("headless", false, "Run chrome without a window.")
	bookKeepOpen = bookCmd.Flags().Bool("keep-open", false, "Keep the browser open until enter is pressed.")
	bookHistory = bookCmd.Flags().String("history", "", "Attempt history database (default from config, empty config disables it).")
	bookCron = bookCmd.Flags().String("cron", "", "Retry on this cron schedule (Bangkok time) until a booking goes through.")
	rootCmd.AddCommand(bookCmd)
}

var bookCmd = &cobra.Command{
	Use:   "book [--website <site>] [--user <userdetail.json>] [--dry-run]",
	Short: "Runs one booking attempt against a site.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		registry := loadRegistry()
		site := lookupSite(registry, *bookWebsite)

		user, err := intent.Load(*bookUser)
		if err != nil {
			serviceutil.Fatal("failed to load user intent", err)
		}
		slog.Info("loaded user intent", "intent", user)

		ctx := cmd.Context()
		if mb := libtelemetry.AvailableMemoryMB(ctx); mb > 0 && mb < 512 {
			slog.Warn("host is low on memory, chrome may be slow", "available_mb", mb)
		}
		libtelemetry.InstrumentPerfStats(ctx, 15*time.Second)

		run := bookRun{
			booker: booking.Booker{
				Site:    site,
				User:    user,
				Options: bookOptions(cfg),
				DryRun:  *bookDryRun,
				Tel:     telemetry.SlogAPI{},
			},
			headless: *bookHeadless || cfg.Browser.Headless,
			execPath: cfg.Browser.ExecPath,
			history:  historyPath(cfg, cmd.Flags().Changed("history")),
			keepOpen: *bookKeepOpen,
		}

		var outcome booking.Outcome
		if *bookCron != "" {
			run.keepOpen = false
			outcome, err = bookOnSchedule(ctx, cfg, run, *bookCron)
			if err != nil {
				return err
			}
		} else {
			outcome = book(ctx, cfg, run)
		}

		fmt.Println(outcome.Summary())
		slog.Info(
			"booking finished",
			"run_id", outcome.RunID,
			"status", outcome.Status,
			"seats", outcome.SeatsSelected,
			"took", outcome.Duration().Round(time.Millisecond),
		)
		if !outcome.OK() {
			return errBookingFailed
		}
		return nil
	},
}

func bookOptions(cfg Config) handler.Options {
	opts := handler.DefaultOptions()
	timeout := cfg.Browser.TimeoutSeconds
	if *bookTimeout > 0 {
		timeout = *bookTimeout
	}
	if timeout > 0 {
		opts.NavigationTimeout = time.Duration(timeout) * time.Second
	}
	return opts
}

func historyPath(cfg Config, flagSet bool) string {
	if flagSet {
		return *bookHistory
	}
	return cfg.HistoryDb
}

type bookRun struct {
	booker   booking.Booker
	headless bool
	execPath string
	history  string
	keepOpen bool
}

func book(ctx context.Context, cfg Config, run bookRun) booking.Outcome {
	if run.history != "" {
		store, err := history.Open(run.history)
		if err != nil {
			serviceutil.Fatal("failed to open history", err)
		}
		defer store.Close()
		run.booker.History = store
	}

	chrome, err := browser.NewChrome(ctx, browser.ChromeOptions{
		Headless: run.headless,
		ExecPath: run.execPath,
	})
	if err != nil {
		serviceutil.Fatal("failed to start chrome", err)
	}
	defer chrome.Close()
	run.booker.Session = chrome

	if cfg.Smtp.Enabled() {
		run.booker.Notifier = notify.NewMailer(cfg.Smtp)
	}

	outcome := run.booker.Run(ctx)

	if run.keepOpen {
		fmt.Print("Press Enter to close the browser...")
		waitForEnter(ctx)
	}
	return outcome
}

// bookOnSchedule runs an attempt every time schedule fires until one of them
// succeeds or ctx is cancelled, it returns the last attempt's outcome.
func bookOnSchedule(ctx context.Context, cfg Config, run bookRun, schedule string) (booking.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scheduler := chrono.NewStandardCron(telemetry.SlogAPI{})
	defer scheduler.Stop()

	var mu sync.Mutex
	var last booking.Outcome
	err := scheduler.Cron(schedule, func() {
		if ctx.Err() != nil {
			return
		}
		outcome := book(ctx, cfg, run)
		slog.Info("scheduled attempt finished", "run_id", outcome.RunID, "status", outcome.Status)

		mu.Lock()
		last = outcome
		mu.Unlock()
		if outcome.OK() {
			cancel()
		}
	})
	if err != nil {
		return booking.Outcome{}, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	slog.Info("waiting for scheduled attempts", "schedule", schedule, "now", chrono.StandardTime{}.Now().Format(time.DateTime))

	<-ctx.Done()
	scheduler.Stop()

	mu.Lock()
	defer mu.Unlock()
	if last.RunID == "" {
		return booking.Outcome{}, errors.New("stopped before any scheduled attempt ran")
	}
	return last, nil
}

func waitForEnter(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		bufio.NewReader(os.Stdin).ReadString('\n')
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
