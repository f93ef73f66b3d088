package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/library"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

func newBookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Show, change or delete one book",
	}
	cmd.AddCommand(newBookShowCmd(a), newBookSetCmd(a), newBookDeleteCmd(a))
	return cmd
}

// findBook loads a book by id or reports it missing.
func findBook(lib *library.Library, arg string) (*types.Book, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	b, err := lib.GetBook(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, userError(fmt.Errorf("%w: book %d", types.ErrNotFound, id))
	}
	return b, nil
}

func newBookShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a book with its authors",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			b, err := findBook(lib, args[0])
			if err != nil {
				return err
			}
			authors, err := lib.AuthorsForBook(b.BookID)
			if err != nil {
				return err
			}
			rec := append(b.Values(), types.Field{Name: "authors", Value: authors})
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			rows := make([][]string, 0, len(rec))
			for _, f := range rec {
				rows = append(rows, []string{f.Name, text(rec, f.Name)})
			}
			return writeTable(cmd.OutOrStdout(), []string{"FIELD", "VALUE"}, rows)
		},
	}
}

func newBookSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <column=value>...",
		Short: "Change columns of a book",
		Long: `Set changes book columns in one update.

Example:
  booklib book set 12 rating=5 bookmark=true
  booklib book set 12 category=3 series=2 series_num=1`,
		Args: userArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseChanges(types.BookModel, args[1:])
			if err != nil {
				return userError(err)
			}
			lib, err := a.library()
			if err != nil {
				return err
			}
			b, err := findBook(lib, args[0])
			if err != nil {
				return err
			}
			if err := lib.UpdateItem(b, changes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated book %d\n", b.BookID)
			return nil
		},
	}
}

// parseChanges turns column=value arguments into typed changes for m.
func parseChanges(m *types.Model, pairs []string) (map[string]any, error) {
	changes := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q (expected column=value)", types.ErrInvalidValue, p)
		}
		c, ok := m.Column(name)
		if !ok || name == m.PrimaryKey {
			return nil, fmt.Errorf("%w: %s.%s", types.ErrUnknownColumn, m.Table, name)
		}
		v, err := parseValue(c, raw)
		if err != nil {
			return nil, err
		}
		changes[name] = v
	}
	return changes, nil
}

func parseValue(c types.Column, raw string) (any, error) {
	if !strings.HasPrefix(c.Type, "INTEGER") {
		return raw, nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s=%q is not a number", types.ErrInvalidValue, c.Name, raw)
}

func newBookDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book and its orphaned authors",
		Long:  "Delete removes the book row. The file stays on disk until \"booklib clean\".",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			b, err := findBook(lib, args[0])
			if err != nil {
				return err
			}
			if err := lib.DelItem(b); err != nil {
				return err
			}
			orphans, err := lib.CleanOrphans()
			if err != nil {
				return err
			}
			a.logger.Debug("orphans removed", "authorships", orphans.Authorships, "authors", orphans.Authors)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted book %d %s\n", b.BookID, b.Title)
			return nil
		},
	}
}
