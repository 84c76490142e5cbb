package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ticketbooker/internal/browser"
	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/handler"
	"ticketbooker/internal/intent"
	"ticketbooker/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	loginWebsite *string
	loginUser    *string
	loginDryRun  *bool
	loginDebug   *bool
)

var errLoginFailed = errors.New("login test failed")

func init() {
	loginWebsite = loginCmd.Flags().StringP("website", "w", "", "The site to log in to, asked for when empty.")
	loginUser = loginCmd.Flags().StringP("user", "u", "userdetail.json", "The user intent file holding the credentials.")
	loginDryRun = loginCmd.Flags().Bool("dry-run", false, "Stop once the login button is found.")
	loginDebug = loginCmd.Flags().Bool("debug", false, "Show the browser and keep it open until enter is pressed.")
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login --website <site> [--user <userdetail.json>] [--dry-run] [--debug]",
	Short: "Checks that the credentials log in to a site.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		site := lookupSite(loadRegistry(), *loginWebsite)

		user, err := intent.Load(*loginUser)
		if err != nil {
			serviceutil.Fatal("failed to load user intent", err)
		}

		ctx := cmd.Context()
		chrome, err := browser.NewChrome(ctx, browser.ChromeOptions{
			Headless: !*loginDebug,
			ExecPath: cfg.Browser.ExecPath,
		})
		if err != nil {
			serviceutil.Fatal("failed to start chrome", err)
		}
		defer chrome.Close()

		result, err := handler.CheckLogin(ctx, site, chrome, user, bookOptions(cfg), telemetry.SlogAPI{}, *loginDryRun)
		if err != nil {
			slog.Error("login test stopped", "site", site.ID, "err", err)
		}
		fmt.Println(loginSummary(result))

		if *loginDebug {
			fmt.Print("Press Enter to close the browser...")
			waitForEnter(ctx)
		}

		if err != nil || !result.Passed() {
			return errLoginFailed
		}
		return nil
	},
}

func loginSummary(r handler.LoginResult) string {
	switch {
	case !r.ButtonFound:
		return "login button not found"
	case r.DryRun:
		return "dry run: login button found, not logging in"
	case !r.URLChanged && len(r.ErrorWords) > 0:
		return fmt.Sprintf("login failed, page mentions: %s", strings.Join(r.ErrorWords, ", "))
	case !r.URLChanged:
		return "login may have failed, the url did not change"
	case len(r.SuccessWords) > 0:
		return fmt.Sprintf("logged in, page mentions: %s", strings.Join(r.SuccessWords, ", "))
	}
	return "logged in, but the page has no clear sign of it"
}
