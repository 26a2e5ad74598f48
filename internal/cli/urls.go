// internal/cli/urls.go
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/template"
	"github.com/law-makers/harvest/pkg/models"
)

var (
	urlsTemplate string
	urlsRanges   []string
	urlsLists    []string
	urlsPreview  bool
)

// urlsCmd represents the urls command
var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Expand a URL template into the full URL list",
	Long: `Expands {name} placeholders in a URL template using numeric ranges or
explicit value lists, and prints the resulting URLs one per line.

Multiple placeholders produce the Cartesian product of their values; the
first placeholder in the template varies slowest.`,
	Example: `  # Pages 1 through 10
  harvest urls --template "https://example.com/page/{page}" --range "page=1:10"

  # Every other page
  harvest urls --template "https://example.com/page/{page}" --range "page=1:20:2"

  # Two placeholders
  harvest urls --template "https://example.com/{cat}/{page}" --list "cat=books,music" --range "page=1:5"

  # Preview without generating everything
  harvest urls --template "https://example.com/item/{id}" --range "id=1:100000" --preview`,
	RunE: runURLs,
}

func init() {
	rootCmd.AddCommand(urlsCmd)

	urlsCmd.Flags().StringVarP(&urlsTemplate, "template", "t", "", "URL template with {name} placeholders")
	urlsCmd.Flags().StringArrayVar(&urlsRanges, "range", nil, "Numeric placeholder as name=start:end[:step]")
	urlsCmd.Flags().StringArrayVar(&urlsLists, "list", nil, "List placeholder as name=value1,value2,...")
	urlsCmd.Flags().BoolVar(&urlsPreview, "preview", false, "Print a short sample and the total count instead of every URL")
	_ = urlsCmd.MarkFlagRequired("template")
}

func runURLs(cmd *cobra.Command, args []string) error {
	specs, err := parsePlaceholderFlags(urlsRanges, urlsLists)
	if err != nil {
		return err
	}

	if urlsPreview {
		preview := template.Sample(urlsTemplate, specs, GetApp().Config.PreviewLimit)
		for _, u := range preview.Sample {
			fmt.Println(u)
		}
		fmt.Printf("... %d URLs total\n", preview.Total)
		return nil
	}

	for _, u := range template.Expand(urlsTemplate, specs) {
		fmt.Println(u)
	}
	return nil
}

// parsePlaceholderFlags converts --range and --list flag values into
// placeholder specs keyed by name.
func parsePlaceholderFlags(ranges, lists []string) (map[string]models.PlaceholderSpec, error) {
	specs := make(map[string]models.PlaceholderSpec)

	for _, r := range ranges {
		name, value, ok := strings.Cut(r, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --range %q: expected name=start:end[:step]", r)
		}

		parts := strings.Split(value, ":")
		if len(parts) != 2 && len(parts) != 3 {
			return nil, fmt.Errorf("invalid --range %q: expected name=start:end[:step]", r)
		}

		nums := make([]int, len(parts))
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("invalid --range %q: %q is not a number", r, p)
			}
			nums[i] = n
		}

		spec := models.PlaceholderSpec{Type: models.PlaceholderRange, Start: nums[0], End: nums[1]}
		if len(nums) == 3 {
			spec.Step = nums[2]
		}
		specs[name] = spec
	}

	for _, l := range lists {
		name, value, ok := strings.Cut(l, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --list %q: expected name=value1,value2,...", l)
		}
		specs[name] = models.PlaceholderSpec{
			Type:   models.PlaceholderList,
			Values: strings.Split(value, ","),
		}
	}

	return specs, nil
}
