package export

import (
	"encoding/csv"
	"os"
	"strconv"
)

// SaveCSV writes one row per extracted value, so spreadsheet users get the
// data in a directly filterable shape. URLs with no extracted values (and
// failed URLs) still produce one row each.
func SaveCSV(report Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"URL", "Status", "StatusCode", "Extracted", "Error"}); err != nil {
		return err
	}

	for _, r := range report.Results {
		code := ""
		if r.StatusCode != 0 {
			code = strconv.Itoa(r.StatusCode)
		}
		if len(r.ExtractedData) == 0 {
			if err := writer.Write([]string{r.URL, statusLabel(r), code, "", r.Error}); err != nil {
				return err
			}
			continue
		}
		for _, value := range r.ExtractedData {
			if err := writer.Write([]string{r.URL, statusLabel(r), code, value, r.Error}); err != nil {
				return err
			}
		}
	}

	return nil
}
