package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/localnerve/callboard/data"
	"github.com/localnerve/callboard/internal/services"
	"github.com/spf13/cobra"
)

var (
	// Rubric flags
	rubricOrder  int16
	rubricParent uint
	seedFile     string
)

// rubricCmd groups the rubric subcommands
var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Manage the rubric tree",
}

var rubricListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every rubric",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		rubrics, err := services.AllRubrics(e.db)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tORDER\tSUPER")
		for _, r := range rubrics {
			super := "-"
			if r.SuperRubricID != nil {
				super = strconv.FormatUint(uint64(*r.SuperRubricID), 10)
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", r.ID, r.Name, r.SortOrder, super)
		}
		return w.Flush()
	}),
}

var rubricAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a rubric",
	Long: `Add a super-rubric, or a sub-rubric when --parent names a super-rubric id.

Examples:
  callboardctl rubric add Realty --order 1
  callboardctl rubric add Flats --parent 1`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		var parent *uint
		if rubricParent != 0 {
			parent = &rubricParent
		}
		rubric, err := services.CreateRubric(e.db, args[0], rubricOrder, parent)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created rubric %d %q\n", rubric.ID, rubric.Name)
		return nil
	}),
}

var rubricDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a rubric no ad or sub-rubric refers to",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := services.DeleteRubric(e.db, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted rubric %d\n", id)
		return nil
	}),
}

var rubricSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default rubric tree",
	Long: `Create the rubrics of a YAML tree that do not exist yet. Without --file the
built-in default tree is used.`,
	Args: cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		raw := data.SeedRubrics
		if seedFile != "" {
			var err error
			if raw, err = os.ReadFile(seedFile); err != nil {
				return err
			}
		}
		tree, err := services.ParseSeed(raw)
		if err != nil {
			return err
		}
		created, err := services.SeedRubrics(e.db, tree, e.log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d rubrics\n", created)
		return nil
	}),
}

func parseID(arg string) (uint, error) {
	n, err := strconv.ParseUint(arg, 10, 0)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return uint(n), nil
}

func init() {
	rubricAddCmd.Flags().Int16Var(&rubricOrder, "order", 0, "sort order")
	rubricAddCmd.Flags().UintVar(&rubricParent, "parent", 0, "id of the super-rubric")
	rubricSeedCmd.Flags().StringVar(&seedFile, "file", "", "YAML rubric tree")

	rubricCmd.AddCommand(rubricListCmd, rubricAddCmd, rubricDeleteCmd, rubricSeedCmd)
	rootCmd.AddCommand(rubricCmd)
}
