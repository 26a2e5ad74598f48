// internal/cli/robots.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/ui"
)

var robotsShow bool

// robotsCmd represents the robots command
var robotsCmd = &cobra.Command{
	Use:   "robots <url>...",
	Short: "Check URLs against their sites' robots.txt",
	Long: `Fetches robots.txt for each URL's origin and reports whether fetching
the URL is allowed for this scraper's user agent. A missing or
unreachable robots.txt counts as allowed.

The check is advisory: scrape does not refuse disallowed URLs, it only
warns about them.`,
	Example: `  # Check a single URL
  harvest robots https://example.com/private/page

  # Check several URLs at once (robots.txt is fetched once per site)
  harvest robots https://example.com/a https://example.com/b https://other.test/c

  # Print the raw robots.txt alongside the verdicts
  harvest robots https://example.com/page --show`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRobots,
}

func init() {
	rootCmd.AddCommand(robotsCmd)

	robotsCmd.Flags().BoolVar(&robotsShow, "show", false, "Print the raw robots.txt content for each URL's origin")
}

func runRobots(cmd *cobra.Command, args []string) error {
	application := GetApp()

	check := application.Robots.Check(cmd.Context(), args)
	for _, verdict := range check.Results {
		if verdict.Allowed {
			fmt.Printf("%s %s (%s)\n", ui.Success("allowed"), verdict.URL, verdict.Source)
		} else {
			fmt.Printf("%s %s (%s)\n", ui.Error("disallowed"), verdict.URL, verdict.RobotsURL)
		}
	}

	if robotsShow {
		seen := make(map[string]bool)
		for _, verdict := range check.Results {
			if seen[verdict.RobotsURL] {
				continue
			}
			seen[verdict.RobotsURL] = true

			file, err := application.Robots.Fetch(cmd.Context(), verdict.URL)
			if err != nil {
				fmt.Printf("\n%s: %v\n", verdict.RobotsURL, err)
				continue
			}
			if !file.Exists {
				fmt.Printf("\n%s: not found\n", file.RobotsURL)
				continue
			}
			fmt.Printf("\n%s\n%s\n", ui.Bold(file.RobotsURL), file.Content)
		}
	}

	if !check.AllAllowed {
		fmt.Println(ui.Info("Some URLs are disallowed; scraping them anyway is your call."))
	}
	return nil
}
