// internal/cli/scrape.go
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/export"
	"github.com/law-makers/harvest/internal/template"
	"github.com/law-makers/harvest/internal/ui"
	"github.com/law-makers/harvest/internal/utils/headers"
	"github.com/law-makers/harvest/pkg/models"
)

var (
	scrapeSelector    string
	scrapeExcludeTags []string
	scrapeOutput      string
	scrapeHeaders     []string
	scrapeTemplate    string
	scrapeRanges      []string
	scrapeLists       []string
	scrapeSkipRobots  bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [urls...]",
	Short: "Scrape a list of URLs sequentially",
	Long: `Fetches each URL in order, pausing between requests, and extracts content
with an optional CSS selector. Results stream to the terminal as they
arrive; Ctrl-C stops the run after the current URL and still prints a
summary of what finished.

URLs come either from positional arguments or from a --template expanded
with --range and --list placeholders.`,
	Example: `  # Scrape two pages, extracting titles
  harvest scrape https://example.com/1 https://example.com/2 --selector "h1.title"

  # Scrape a paginated listing via a template
  harvest scrape --template "https://example.com/page/{page}" --range "page=1:10" --selector ".item"

  # Drop navigation noise from extracted elements
  harvest scrape https://example.com --selector "article" --exclude-tag nav --exclude-tag footer

  # Save a report
  harvest scrape https://example.com/1 --selector "h1" --output report.csv

  # Send custom headers
  harvest scrape https://example.com -H "Accept-Language: de"`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&scrapeSelector, "selector", "s", "", "CSS selector to extract (e.g., .price, #content)")
	scrapeCmd.Flags().StringArrayVar(&scrapeExcludeTags, "exclude-tag", nil, "Tag to remove from matched elements before extraction")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "File path to save the report (.json, .csv, .md)")
	scrapeCmd.Flags().StringArrayVarP(&scrapeHeaders, "header", "H", nil, "Custom headers (e.g., -H \"Accept-Language: de\")")
	scrapeCmd.Flags().StringVarP(&scrapeTemplate, "template", "t", "", "URL template with {name} placeholders")
	scrapeCmd.Flags().StringArrayVar(&scrapeRanges, "range", nil, "Numeric placeholder as name=start:end[:step]")
	scrapeCmd.Flags().StringArrayVar(&scrapeLists, "list", nil, "List placeholder as name=value1,value2,...")
	scrapeCmd.Flags().BoolVar(&scrapeSkipRobots, "no-robots", false, "Skip the advisory robots.txt check")
}

func runScrape(cmd *cobra.Command, args []string) error {
	application := GetApp()
	cfg := application.Config

	urls, err := collectScrapeURLs(args)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given: pass them as arguments or use --template")
	}
	if len(urls) > cfg.MaxURLs {
		return fmt.Errorf("%d URLs exceeds the limit of %d per run", len(urls), cfg.MaxURLs)
	}

	// Ctrl-C cancels the run cooperatively: the current URL finishes (or
	// its in-flight request aborts) and the summary still prints.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RobotsCheck && !scrapeSkipRobots {
		check := application.Robots.Check(ctx, urls)
		for _, verdict := range check.Results {
			if !verdict.Allowed {
				fmt.Fprintf(os.Stderr, "%s %s is disallowed by %s\n",
					ui.Info("warning:"), verdict.URL, verdict.RobotsURL)
			}
		}
	}

	req := models.ScrapeRequest{
		URLs:        urls,
		Selector:    scrapeSelector,
		ExcludeTags: scrapeExcludeTags,
		Delay:       cfg.SleepInterval,
		Timeout:     cfg.HTTPTimeout,
		Headers:     headers.ParseHeaders(scrapeHeaders),
	}

	bar := progressbar.NewOptions(len(urls),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("scraping"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var results []models.ScrapeResult
	var summary *models.Summary

	for ev := range application.Orchestrator.Run(ctx, req) {
		switch ev.Type {
		case models.EventProgress:
			log.Debug().Int("index", ev.Index).Str("url", ev.URL).Msg("Fetching URL")
		case models.EventResult:
			results = append(results, *ev.Result)
			printResultRow(ev.Result)
			_ = bar.Add(1)
		case models.EventComplete, models.EventCancelled:
			summary = ev.Summary
		}
	}
	_ = bar.Finish()

	printSummary(summary)

	if scrapeOutput != "" {
		report := export.Report{Results: results, Summary: summary}
		if err := export.Save(report, scrapeOutput); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Printf("Saved report to %s\n", scrapeOutput)
	}

	return nil
}

// collectScrapeURLs merges positional URLs with template expansion.
func collectScrapeURLs(args []string) ([]string, error) {
	urls := append([]string{}, args...)

	if scrapeTemplate != "" {
		specs, err := parsePlaceholderFlags(scrapeRanges, scrapeLists)
		if err != nil {
			return nil, err
		}
		urls = append(urls, template.Expand(scrapeTemplate, specs)...)
	} else if len(scrapeRanges) > 0 || len(scrapeLists) > 0 {
		return nil, fmt.Errorf("--range and --list require --template")
	}

	return urls, nil
}

func printResultRow(r *models.ScrapeResult) {
	if r.Success {
		fmt.Printf("%s %s (%d values)\n", ui.Success("ok"), r.URL, len(r.ExtractedData))
		return
	}
	fmt.Printf("%s %s: %s\n", ui.Error("failed"), r.URL, r.Error)
}

func printSummary(s *models.Summary) {
	if s == nil {
		return
	}
	line := fmt.Sprintf("%d URLs: %d succeeded, %d failed", s.Total, s.SuccessCount, s.ErrorCount)
	if s.Cancelled {
		line += " (cancelled)"
	}
	fmt.Println(ui.Bold(line))
}
