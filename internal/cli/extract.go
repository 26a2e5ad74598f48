// internal/cli/extract.go
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/extract"
)

var (
	extractSelector    string
	extractExcludeTags []string
	extractInspect     bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <url|file|->",
	Short: "Extract elements from a page or local HTML",
	Long: `Runs a CSS selector against an HTML document and prints the matched
elements' text, one per line. The document comes from a URL, a local
file, or stdin when the argument is "-".

With --inspect, prints structural details (tag, id, classes, data
attributes) for the first matches instead of their text, which helps
when figuring out the right selector for a site.`,
	Example: `  # Extract from a live page
  harvest extract https://example.com --selector "h1.title"

  # Extract from a saved page
  harvest extract page.html --selector ".price"

  # Pipe HTML in
  curl -s https://example.com | harvest extract - --selector "a"

  # Inspect matches to refine a selector
  harvest extract page.html --selector "div" --inspect`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractSelector, "selector", "s", "", "CSS selector to extract")
	extractCmd.Flags().StringArrayVar(&extractExcludeTags, "exclude-tag", nil, "Tag to remove from matched elements before extraction")
	extractCmd.Flags().BoolVar(&extractInspect, "inspect", false, "Print element structure instead of text")
	_ = extractCmd.MarkFlagRequired("selector")
}

func runExtract(cmd *cobra.Command, args []string) error {
	htmlSrc, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}

	if extractInspect {
		infos, total, err := extract.Inspect(htmlSrc, extractSelector)
		if err != nil {
			return err
		}
		for _, info := range infos {
			line := "<" + info.Tag
			if info.ID != "" {
				line += " id=" + info.ID
			}
			if len(info.Classes) > 0 {
				line += " class=" + strings.Join(info.Classes, ",")
			}
			for k, v := range info.DataAttrs {
				line += fmt.Sprintf(" %s=%s", k, v)
			}
			fmt.Printf("%s> %s\n", line, info.Text)
		}
		if total > len(infos) {
			fmt.Printf("... %d matches total\n", total)
		}
		return nil
	}

	texts, err := extract.Texts(htmlSrc, extractSelector, extractExcludeTags)
	if err != nil {
		return err
	}
	for _, text := range texts {
		fmt.Println(text)
	}
	return nil
}

// loadDocument reads HTML from a URL, a local file, or stdin ("-").
func loadDocument(cmd *cobra.Command, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		application := GetApp()
		page, err := application.Fetcher.Fetch(cmd.Context(), source, application.Config.HTTPTimeout, nil)
		if err != nil {
			return "", err
		}
		if page.StatusCode < 200 || page.StatusCode > 299 {
			return "", fmt.Errorf("fetch returned HTTP %d", page.StatusCode)
		}
		return page.Body, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	return string(data), nil
}
