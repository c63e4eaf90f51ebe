package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/job-radar/radar/internal/ui"
	"github.com/spf13/cobra"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Probe a site and recommend a scraping strategy",
	Long: `Analyze probes the URL with plain HTTP requests, inspects the response
for API endpoints, JavaScript weight, SPA markers and anti-bot measures,
and recommends one of: api, requests, selenium.

The recommendation is cached per origin, so repeated analyses of the
same site are free until the cache entry expires.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		rec := a.Analyzer.Analyze(cmd.Context(), args[0])

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		fmt.Printf("%s %s\n", ui.Bold("Strategy:"), ui.Highlight(rec.Strategy.String()))
		fmt.Printf("%s %.2f\n", ui.Bold("Confidence:"), rec.Confidence)
		fmt.Println(ui.Bold("Rationale:"))
		for _, reason := range rec.Rationale {
			fmt.Printf("  - %s\n", reason)
		}

		s := rec.Signals
		fmt.Println(ui.Bold("Signals:"))
		fmt.Printf("  api evidence:   %v (confidence %.2f)\n", s.HasAPIEvidence, s.APIConfidence)
		for _, endpoint := range s.APIEndpoints {
			fmt.Printf("    endpoint: %s\n", endpoint)
		}
		fmt.Printf("  js complexity:  %.2f\n", s.JSComplexityScore)
		fmt.Printf("  spa likely:     %v\n", s.IsSPALikely)
		fmt.Printf("  anti-bot score: %.2f\n", s.AntiBotScore)
		fmt.Printf("  response time:  %dms\n", s.ResponseTimeMs)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json-output", false, "Print the recommendation as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
