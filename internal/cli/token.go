package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/job-radar/radar/internal/auth"
	"github.com/job-radar/radar/internal/ui"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the stored Notion integration token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store the Notion token in the OS keyring",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			fmt.Print("Token: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			token = strings.TrimSpace(line)
		}

		if err := auth.SaveToken(token); err != nil {
			return err
		}
		fmt.Printf("%s token stored\n", ui.Success("✓"))
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored token (masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := auth.LoadToken()
		if err != nil {
			return err
		}
		fmt.Println(auth.MaskToken(token))
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.DeleteToken(); err != nil {
			return err
		}
		fmt.Printf("%s token removed\n", ui.Success("✓"))
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenShowCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}
