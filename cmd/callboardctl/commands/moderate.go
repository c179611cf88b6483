package commands

import (
	"fmt"

	"github.com/localnerve/callboard/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// toggleCmd builds a hide or show subcommand over a single id
func toggleCmd(use, what string, active bool, set func(db *gorm.DB, id uint, active bool) error) *cobra.Command {
	verb := "hidden"
	if active {
		verb = "shown"
	}
	return &cobra.Command{
		Use:   use + " ID",
		Short: fmt.Sprintf("Mark a %s as %s", what, verb),
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := set(e.db, id, active); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s\n", what, id, verb)
			return nil
		}),
	}
}

var adCmd = &cobra.Command{
	Use:   "ad",
	Short: "Moderate ads",
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Moderate comments",
}

func init() {
	adCmd.AddCommand(
		toggleCmd("hide", "ad", false, services.SetAdActive),
		toggleCmd("show", "ad", true, services.SetAdActive),
	)
	commentCmd.AddCommand(
		toggleCmd("hide", "comment", false, services.SetCommentActive),
		toggleCmd("show", "comment", true, services.SetCommentActive),
	)
	rootCmd.AddCommand(adCmd, commentCmd)
}
