package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format only")
	cmd.PersistentFlags().String("timeout", "30s", "Hard timeout per request")
	cmd.PersistentFlags().String("delay", "", "Pause between requests (e.g., 5s)")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
}
