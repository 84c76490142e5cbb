package commands

import (
	"fmt"
	"strings"

	"ticketbooker/internal/handler"
	"ticketbooker/internal/intent"
	"ticketbooker/internal/sites"

	"github.com/spf13/cobra"
)

var (
	validateUser    *string
	validateWebsite *string
)

func init() {
	validateUser = validateCmd.Flags().StringP("user", "u", "userdetail.json", "The user intent file.")
	validateWebsite = validateCmd.Flags().StringP("website", "w", "", "Only validate this site.")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [--user <userdetail.json>] [--website <site>]",
	Short: "Validates the user intent file and the site configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var problems []string

		user, err := intent.Load(*validateUser)
		if err != nil {
			problems = append(problems, fmt.Sprintf("user intent: %v", err))
		} else {
			fmt.Printf("user intent ok: %s\n", user)
		}

		registry, err := sites.Load(*sitesPath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("sites: %v", err))
			registry = sites.Default()
		}

		list := registry.All()
		if *validateWebsite != "" {
			site, err := registry.Lookup(*validateWebsite)
			if err != nil {
				return err
			}
			list = []sites.Site{site}
		}
		for _, site := range list {
			if !handler.Supported(site.ID) {
				problems = append(problems, fmt.Sprintf("site %s: no handler for this site", site.ID))
				continue
			}
			missing := handler.MissingSelectors(site)
			if len(missing) > 0 {
				problems = append(problems, fmt.Sprintf("site %s: missing selectors %s", site.ID, strings.Join(missing, ", ")))
				continue
			}
			fmt.Printf("site %s ok\n", site.ID)
		}

		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Println(p)
			}
			return fmt.Errorf("%d problem(s) found", len(problems))
		}
		return nil
	},
}
