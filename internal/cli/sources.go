package cli

import (
	"fmt"

	"github.com/job-radar/radar/internal/config"
	"github.com/job-radar/radar/internal/ui"
	"github.com/job-radar/radar/pkg/models"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the configured job boards",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		sources, err := config.LoadSources(a.Config.SourcesFile)
		if err != nil {
			return err
		}

		for _, src := range sources {
			state := ui.Error("disabled")
			if src.Enabled {
				state = ui.Success("enabled")
			}
			fmt.Printf("%s  %s (%s, mode=%s)\n", state, ui.Bold(src.ID), src.Name, src.Mode)
			if src.URL != "" {
				fmt.Printf("    url: %s\n", src.URL)
			}
			if src.APIURL != "" {
				fmt.Printf("    api: %s\n", src.APIURL)
			}
		}
		return nil
	},
}

var sourcesEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if err := config.SetSourceEnabled(a.Config.SourcesFile, args[0], true); err != nil {
			return err
		}
		fmt.Printf("%s enabled %s\n", ui.Success("✓"), args[0])
		return nil
	},
}

var sourcesDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if err := config.SetSourceEnabled(a.Config.SourcesFile, args[0], false); err != nil {
			return err
		}
		fmt.Printf("%s disabled %s\n", ui.Success("✓"), args[0])
		return nil
	},
}

var sourcesSetModeCmd = &cobra.Command{
	Use:   "set-mode <id> <auto|api|requests|selenium>",
	Short: "Set how a source's scraping strategy is chosen",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		mode := models.SourceMode(args[1])
		if err := config.SetSourceMode(a.Config.SourcesFile, args[0], mode); err != nil {
			return err
		}
		fmt.Printf("%s %s now uses mode %s\n", ui.Success("✓"), args[0], mode)
		return nil
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd, sourcesEnableCmd, sourcesDisableCmd, sourcesSetModeCmd)
	rootCmd.AddCommand(sourcesCmd)
}
