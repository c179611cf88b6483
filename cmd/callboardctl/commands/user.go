package commands

import (
	"fmt"

	"github.com/localnerve/callboard/internal/media"
	"github.com/localnerve/callboard/internal/services"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete USERNAME",
	Short: "Delete a user with their ads, comments on those ads and images",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		user, err := services.FindUserByUsername(e.db, args[0])
		if err != nil {
			return err
		}
		files, err := services.DeleteUser(e.db, user.ID)
		if err != nil {
			return err
		}

		storage, err := media.NewFileStorage(e.cfg.MediaRoot, e.log)
		if err != nil {
			return err
		}
		storage.Remove(files...)

		fmt.Fprintf(cmd.OutOrStdout(), "deleted user %q and %d files\n", user.Username, len(files))
		return nil
	}),
}

func init() {
	userCmd.AddCommand(userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
