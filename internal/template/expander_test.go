package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/harvest/pkg/models"
)

func TestExpand_SingleRange(t *testing.T) {
	urls := Expand("https://example.com/p/{n}", map[string]models.PlaceholderSpec{
		"n": {Type: models.PlaceholderRange, Start: 1, End: 3, Step: 1},
	})

	require.Equal(t, []string{
		"https://example.com/p/1",
		"https://example.com/p/2",
		"https://example.com/p/3",
	}, urls)
}

func TestExpand_RangeStep(t *testing.T) {
	tests := []struct {
		name  string
		spec  models.PlaceholderSpec
		count int
	}{
		{"step 1", models.PlaceholderSpec{Type: models.PlaceholderRange, Start: 1, End: 10, Step: 1}, 10},
		{"step 3 uneven", models.PlaceholderSpec{Type: models.PlaceholderRange, Start: 1, End: 10, Step: 3}, 4},
		{"step 3 exact", models.PlaceholderSpec{Type: models.PlaceholderRange, Start: 0, End: 9, Step: 3}, 4},
		{"single value", models.PlaceholderSpec{Type: models.PlaceholderRange, Start: 5, End: 5, Step: 1}, 1},
		{"start after end", models.PlaceholderSpec{Type: models.PlaceholderRange, Start: 10, End: 1, Step: 1}, 0},
		{"negative step", models.PlaceholderSpec{Type: models.PlaceholderRange, Start: 1, End: 10, Step: -2}, 0},
		{"zero step defaults to 1", models.PlaceholderSpec{Type: models.PlaceholderRange, Start: 1, End: 4}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urls := Expand("https://example.com/{x}", map[string]models.PlaceholderSpec{"x": tt.spec})
			assert.Len(t, urls, tt.count)
		})
	}
}

func TestExpand_ListTrimsAndDropsEmpty(t *testing.T) {
	urls := Expand("https://example.com/tag/{t}", map[string]models.PlaceholderSpec{
		"t": {Type: models.PlaceholderList, Values: []string{" go ", "", "  ", "web"}},
	})

	require.Equal(t, []string{
		"https://example.com/tag/go",
		"https://example.com/tag/web",
	}, urls)
}

func TestExpand_NoPlaceholders(t *testing.T) {
	urls := Expand("https://example.com/static", nil)
	require.Equal(t, []string{"https://example.com/static"}, urls)
}

func TestExpand_UnmatchedPlaceholderLeftVerbatim(t *testing.T) {
	urls := Expand("https://example.com/{missing}/p/{n}", map[string]models.PlaceholderSpec{
		"n": {Type: models.PlaceholderRange, Start: 1, End: 2, Step: 1},
	})

	require.Equal(t, []string{
		"https://example.com/{missing}/p/1",
		"https://example.com/{missing}/p/2",
	}, urls)
}

func TestExpand_CartesianOrder(t *testing.T) {
	// First-appearing placeholder varies slowest.
	urls := Expand("https://example.com/{cat}/{n}", map[string]models.PlaceholderSpec{
		"cat": {Type: models.PlaceholderList, Values: []string{"a", "b"}},
		"n":   {Type: models.PlaceholderRange, Start: 1, End: 2, Step: 1},
	})

	require.Equal(t, []string{
		"https://example.com/a/1",
		"https://example.com/a/2",
		"https://example.com/b/1",
		"https://example.com/b/2",
	}, urls)
}

func TestExpand_RepeatedPlaceholder(t *testing.T) {
	urls := Expand("https://{host}.example.com/{host}/{n}", map[string]models.PlaceholderSpec{
		"host": {Type: models.PlaceholderList, Values: []string{"www"}},
		"n":    {Type: models.PlaceholderRange, Start: 1, End: 1, Step: 1},
	})

	require.Equal(t, []string{"https://www.example.com/www/1"}, urls)
}

func TestSample_MatchesExpand(t *testing.T) {
	cases := []struct {
		name     string
		template string
		specs    map[string]models.PlaceholderSpec
	}{
		{"plain", "https://example.com", nil},
		{"range", "https://example.com/p/{n}", map[string]models.PlaceholderSpec{
			"n": {Type: models.PlaceholderRange, Start: 1, End: 42, Step: 4},
		}},
		{"empty range", "https://example.com/p/{n}", map[string]models.PlaceholderSpec{
			"n": {Type: models.PlaceholderRange, Start: 9, End: 3, Step: 1},
		}},
		{"multi", "https://example.com/{a}/{b}", map[string]models.PlaceholderSpec{
			"a": {Type: models.PlaceholderList, Values: []string{"x", "y", "z"}},
			"b": {Type: models.PlaceholderRange, Start: 0, End: 10, Step: 2},
		}},
		{"spare spec entry", "https://example.com/p/{n}", map[string]models.PlaceholderSpec{
			"n":      {Type: models.PlaceholderRange, Start: 1, End: 3, Step: 1},
			"unused": {Type: models.PlaceholderList, Values: []string{"a", "b"}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			all := Expand(tc.template, tc.specs)
			preview := Sample(tc.template, tc.specs, 5)

			assert.Equal(t, len(all), preview.Total, "preview total must match full expansion")
			if len(all) < 5 {
				assert.Equal(t, len(all), len(preview.Sample))
			} else {
				assert.Len(t, preview.Sample, 5)
			}
			for i, url := range preview.Sample {
				assert.Equal(t, all[i], url)
			}
		})
	}
}

func TestSample_DoesNotMaterializeBatch(t *testing.T) {
	preview := Sample("https://example.com/{a}/{b}", map[string]models.PlaceholderSpec{
		"a": {Type: models.PlaceholderRange, Start: 1, End: 1000, Step: 1},
		"b": {Type: models.PlaceholderRange, Start: 1, End: 1000, Step: 1},
	}, 5)

	require.Len(t, preview.Sample, 5)
	require.Equal(t, 1000000, preview.Total)
	require.Equal(t, "https://example.com/1/1", preview.Sample[0])
	require.Equal(t, "https://example.com/1/5", preview.Sample[4])
}
