package cli

import (
	"fmt"

	"github.com/job-radar/radar/internal/config"
	"github.com/job-radar/radar/internal/output"
	"github.com/job-radar/radar/internal/runner"
	"github.com/job-radar/radar/internal/store"
	"github.com/job-radar/radar/internal/ui"
	"github.com/job-radar/radar/pkg/models"
	"github.com/spf13/cobra"
)

var (
	runSourceID   string
	runDryRun     bool
	runOutput     string
	runFormat     string
	runNoProgress bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape all enabled sources and store new postings",
	Long: `Run scrapes every enabled source from the sources file. Auto-mode
sources get their strategy from the analyzer; fixed-mode sources use
the configured one. New postings are stored in Notion unless --dry-run
is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()

		sources, err := config.LoadSources(a.Config.SourcesFile)
		if err != nil {
			return err
		}
		if runSourceID != "" {
			sources = filterSource(sources, runSourceID)
			if len(sources) == 0 {
				return fmt.Errorf("unknown source %q", runSourceID)
			}
		}

		var st store.Store
		if !runDryRun {
			st, err = a.Store()
			if err != nil {
				return err
			}
			if err := st.TestConnection(cmd.Context()); err != nil {
				return fmt.Errorf("notion connection check failed: %w", err)
			}
		}

		r, err := runner.New(runner.Options{
			Analyzer:     a.Analyzer,
			Engines:      a.Engines,
			Extractors:   a.Extractors,
			Store:        st,
			Limiter:      a.RateLimiter,
			FetchTimeout: a.Config.HTTPTimeout,
			Proxy:        a.Config.Proxy,
			Concurrency:  a.Config.Concurrency,
			DryRun:       runDryRun,
			ShowProgress: !runNoProgress && !a.Config.JSONLog,
		})
		if err != nil {
			return err
		}

		summary, err := r.Run(cmd.Context(), sources)
		if err != nil {
			return err
		}

		if runOutput != "" {
			format, err := output.ParseFormat(runFormat)
			if err != nil {
				return err
			}
			if err := output.Save(summary.Jobs, runOutput, format); err != nil {
				return fmt.Errorf("failed to write %s: %w", runOutput, err)
			}
			fmt.Printf("%s wrote %d jobs to %s\n", ui.Success("✓"), len(summary.Jobs), runOutput)
		}

		fmt.Printf("%s run %s: %d jobs found, %d added, %d sources failed (%.1fs)\n",
			ui.Success("✓"), summary.RunID, summary.JobsFound, summary.JobsAdded,
			summary.Failed, summary.Elapsed.Seconds())
		for _, result := range summary.Results {
			if result.Err != nil {
				fmt.Printf("  %s %s: %v\n", ui.Error("✗"), result.Source.ID, result.Err)
			}
		}
		return nil
	},
}

func filterSource(sources []models.Source, id string) []models.Source {
	for _, src := range sources {
		if src.ID == id {
			src.Enabled = true
			return []models.Source{src}
		}
	}
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runSourceID, "source", "", "Scrape only this source ID")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Extract jobs but do not write to Notion")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Also write scraped jobs to this file")
	runCmd.Flags().StringVar(&runFormat, "format", "json", "Output file format (json, csv, markdown)")
	runCmd.Flags().BoolVar(&runNoProgress, "no-progress", false, "Disable the progress bar")
	rootCmd.AddCommand(runCmd)
}
