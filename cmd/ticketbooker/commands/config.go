package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"ticketbooker/internal/notify"
	"ticketbooker/internal/sites"
	"ticketbooker/lib/configutil"
	"ticketbooker/lib/serviceutil"
)

type BrowserConfig struct {
	Headless       bool   `json:"headless"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	ExecPath       string `json:"exec_path"`
}

type Config struct {
	HistoryDb string            `json:"history_db"`
	Smtp      notify.SmtpConfig `json:"smtp"`
	Browser   BrowserConfig     `json:"browser"`
}

func defaultConfig() Config {
	return Config{
		HistoryDb: "ticketbooker.db",
		Browser: BrowserConfig{
			TimeoutSeconds: 30,
		},
	}
}

func loadConfig() Config {
	cfg, err := configutil.Overlay(defaultConfig(), *configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

func loadRegistry() sites.Registry {
	registry, err := sites.Load(*sitesPath)
	if err != nil {
		serviceutil.Fatal("failed to read sites", err)
	}
	return registry
}

// lookupSite resolves the --website flag, asking for it when it was not
// given.
func lookupSite(registry sites.Registry, website string) sites.Site {
	if website == "" {
		fmt.Printf("Supported websites: %s\n", strings.Join(registry.IDs(), ", "))
		fmt.Print("Enter website name: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			serviceutil.Fatal("no website given", err)
		}
		website = strings.TrimSpace(line)
	}
	site, err := registry.Lookup(website)
	if err != nil {
		serviceutil.Fatal("unsupported website", err)
	}
	return site
}
