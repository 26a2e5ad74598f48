// cmd/harvest/main.go
package main

import (
	"github.com/law-makers/harvest/internal/cli"
)

func main() {
	// Signal handling lives in the commands that need it (scrape, serve),
	// so an interrupt cancels the run cooperatively instead of killing the
	// process mid-request.
	cli.Execute()
}
