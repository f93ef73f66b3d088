package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage categories, series and bookmarks",
	}
	cmd.AddCommand(newTagListCmd(a), newTagAddCmd(a), newTagDeleteCmd(a))
	return cmd
}

func parseKind(s string) (types.TagKind, error) {
	k, err := types.ParseTagKind(s)
	if err != nil {
		return 0, userError(err)
	}
	return k, nil
}

func newTagListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <category|series|bookmark>",
		Short: "List tags of one kind",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			lib, err := a.library()
			if err != nil {
				return err
			}
			tags, err := lib.Tags(kind)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				if tags == nil {
					tags = []types.Tag{}
				}
				return writeJSON(cmd.OutOrStdout(), tags)
			}
			rows := make([][]string, 0, len(tags))
			for _, t := range tags {
				rows = append(rows, []string{strconv.FormatInt(t.ID, 10), t.Name})
			}
			return writeTable(cmd.OutOrStdout(), []string{"ID", "NAME"}, rows)
		},
	}
}

func newTagAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <category|series> <name>",
		Short: "Add a category or series",
		Args:  userArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			lib, err := a.library()
			if err != nil {
				return err
			}
			t, err := lib.AddTag(kind, args[1])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %d %s\n", t.Kind, t.ID, t.Name)
			return nil
		},
	}
}

func newTagDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category|series> <id>",
		Short: "Delete an unused category or series",
		Args:  userArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			lib, err := a.library()
			if err != nil {
				return err
			}
			t, err := lib.TagByID(kind, id)
			if err != nil {
				return err
			}
			if t == nil {
				return userError(fmt.Errorf("%w: %s %d", types.ErrNotFound, kind, id))
			}
			if err := lib.DeleteTag(*t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d %s\n", t.Kind, t.ID, t.Name)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError(fmt.Errorf("%w: id %q", types.ErrInvalidValue, s))
	}
	return id, nil
}
