// internal/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/job-radar/radar/internal/app"
	"github.com/job-radar/radar/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "radar",
	Short:   "Scrape AI job boards with the right strategy per site",
	Long: `Radar scrapes configured job boards and stores new AI-related postings.

For each source it picks the cheapest scraping strategy that works:
a discovered JSON API, plain HTTP requests, or a headless browser.
The choice is probed automatically and cached per origin.`,
	Version: "0.1.0",
}

// Execute runs the root command. An interrupt or SIGTERM cancels the
// command context so in-flight fetches and browser sessions stop, and
// the application is released on every exit path, including command
// errors that skip PersistentPostRun.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	closeApp()
	if err != nil {
		os.Exit(1)
	}
}

// closeApp releases the application if a command initialized one
func closeApp() {
	if a := GetApp(); a != nil {
		a.Close()
		SetApp(nil)
	}
}

func init() {
	config.RegisterFlags(rootCmd)

	// Lazily initialize the application before running commands (avoid starting app for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp() != nil {
			return nil
		}
		cfg, err := config.Load(rootCmd)
		if err != nil {
			return err
		}
		application, err := app.New(cfg)
		if err != nil {
			return err
		}
		SetApp(application)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		closeApp()
	}
}
