package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"ticketbooker/internal/browser"
	"ticketbooker/internal/sites"
	"ticketbooker/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	inspectWebsite     *string
	inspectPage        *string
	inspectHeadless    *bool
	inspectInteractive *bool
)

func init() {
	inspectWebsite = inspectCmd.Flags().StringP("website", "w", "", "The site to inspect.")
	inspectPage = inspectCmd.Flags().String("page", "main", "Which selectors to look for: main, login or booking.")
	inspectHeadless = inspectCmd.Flags().Bool("headless", false, "Run chrome without a window.")
	inspectInteractive = inspectCmd.Flags().BoolP("interactive", "i", false, "Prompt for selectors after the report.")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect --website <site> [--page main|login|booking] [--interactive]",
	Short: "Opens a site in chrome and reports what every configured selector matches.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		site := lookupSite(loadRegistry(), *inspectWebsite)

		keys, err := inspectKeys(site, *inspectPage)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		chrome, err := browser.NewChrome(ctx, browser.ChromeOptions{
			Headless: *inspectHeadless || cfg.Browser.Headless,
			ExecPath: cfg.Browser.ExecPath,
		})
		if err != nil {
			serviceutil.Fatal("failed to start chrome", err)
		}
		defer chrome.Close()

		err = chrome.Navigate(ctx, site.BaseURL)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Key", "Selector", "Matches", "First text", "Class"})
		for _, key := range keys {
			sel, _ := site.Selector(key)
			sel.Value = fillPlaceholders(sel.Value)
			row := describe(ctx, chrome, sel)
			t.AppendRow(append(table.Row{key, sel.String()}, row...))
		}
		t.Render()

		if *inspectInteractive {
			repl(ctx, chrome, site.ID)
		}
		return nil
	},
}

// inspectKeys returns the selector keys that make sense to look for on page,
// main is everything visible before logging in.
func inspectKeys(site sites.Site, page string) ([]string, error) {
	var keys []string
	switch page {
	case "main":
		keys = []string{"login_button", "search_box"}
	case "login":
		for key := range site.LoginSelectors {
			keys = append(keys, key)
		}
	case "booking":
		for key := range site.BookingSelectors {
			keys = append(keys, key)
		}
	default:
		return nil, fmt.Errorf("unknown page %q, expected main, login or booking", page)
	}
	sort.Strings(keys)

	out := keys[:0]
	for _, key := range keys {
		if _, ok := site.Selector(key); ok {
			out = append(out, key)
		}
	}
	return out, nil
}

func fillPlaceholders(value string) string {
	return strings.NewReplacer("{show}", "1", "{option}", "2").Replace(value)
}

// describe never waits long, a selector that does not match straight away
// on the page being inspected is reported as zero matches.
func describe(ctx context.Context, s browser.Session, sel browser.Selector) table.Row {
	elements, err := browser.FindAll(ctx, s, sel, 2*time.Second, browser.DefaultPollInterval)
	if err != nil {
		return table.Row{err.Error(), "", ""}
	}
	if len(elements) == 0 {
		return table.Row{0, "", ""}
	}
	text, err := elements[0].Text(ctx)
	if err != nil {
		slog.Debug("read element text", "selector", sel, "err", err)
	}
	class, _, err := elements[0].Attribute(ctx, "class")
	if err != nil {
		slog.Debug("read element class", "selector", sel, "err", err)
	}
	return table.Row{len(elements), truncate(strings.TrimSpace(text), 40), class}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func repl(ctx context.Context, chrome *browser.Chrome, siteID string) {
	fmt.Println("commands: find <xpath>, click <xpath>, text <xpath>, url, screenshot, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() || ctx.Err() != nil {
			return
		}
		command, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch command {
		case "":
		case "quit", "exit":
			return
		case "url":
			current, err := chrome.CurrentURL(ctx)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println(current)
		case "find":
			fmt.Println(describe(ctx, chrome, browser.XPath(arg)))
		case "text", "click":
			el, err := browser.Find(ctx, chrome, browser.XPath(arg), 2*time.Second, browser.DefaultPollInterval)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if command == "click" {
				err = el.Click(ctx)
				if err != nil {
					fmt.Println(err)
				}
				continue
			}
			text, err := el.Text(ctx)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println(text)
		case "screenshot":
			buf, err := chrome.Screenshot(ctx)
			if err != nil {
				fmt.Println(err)
				continue
			}
			name := fmt.Sprintf("debug_%s_%d.png", siteID, time.Now().Unix())
			err = os.WriteFile(name, buf, 0644)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println("saved", name)
		default:
			fmt.Printf("unknown command %q\n", command)
		}
	}
}
