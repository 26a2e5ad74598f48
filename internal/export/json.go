package export

import (
	"encoding/json"
	"os"
)

// SaveJSON writes an indented JSON export of the report to path.
func SaveJSON(report Report, path string) error {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}
