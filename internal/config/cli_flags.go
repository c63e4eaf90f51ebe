package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().String("proxy", "", "HTTP/SOCKS5 proxy (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", "", "Hard timeout for fetch requests")
	cmd.PersistentFlags().String("probe-timeout", "", "Timeout for each analysis probe request")
	cmd.PersistentFlags().String("cache-ttl", "", "How long strategy recommendations stay cached")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("sources", "", "Path to the sources file")
	cmd.PersistentFlags().Int("concurrency", DefaultConcurrency, "How many sources to scrape in parallel")
	cmd.PersistentFlags().Bool("no-headless", false, "Run the browser with a visible window")
}
