package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/library"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// listColumns are shown by the text output of list.
var listColumns = []string{"book_id", "title", "authors", "category", "series", "rating", "time_created"}

type listFlags struct {
	search     string
	category   int64
	series     int64
	bookmarks  bool
	duplicates bool
}

func newListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, newest first",
		Long: fmt.Sprintf(`List books with an optional filter.

--search takes column=text; columns: %s.

Example:
  booklib list --search title=dune
  booklib list --search authors=herbert
  booklib list --category 1 --json
  booklib list --duplicates`, strings.Join(library.SearchColumns, ", ")),
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := f.filter(cmd)
			if err != nil {
				return userError(err)
			}
			lib, err := a.library()
			if err != nil {
				return err
			}
			rows, err := lib.ListBooks(filter)
			if err != nil {
				return err
			}
			return a.printBooks(cmd, rows)
		},
	}
	cmd.Flags().StringVar(&f.search, "search", "", "column=text to match")
	cmd.Flags().Int64Var(&f.category, "category", 0, "category id")
	cmd.Flags().Int64Var(&f.series, "series", 0, "series id")
	cmd.Flags().BoolVar(&f.bookmarks, "bookmarks", false, "bookmarked books only")
	cmd.Flags().BoolVar(&f.duplicates, "duplicates", false, "books sharing a title")
	cmd.MarkFlagsMutuallyExclusive("search", "category", "series", "bookmarks", "duplicates")
	return cmd
}

func (f listFlags) filter(cmd *cobra.Command) (library.BookFilter, error) {
	switch {
	case f.search != "":
		col, val, ok := strings.Cut(f.search, "=")
		if !ok {
			return library.BookFilter{}, fmt.Errorf("invalid search %q (expected column=text)", f.search)
		}
		return library.SearchBooks(strings.TrimSpace(col), val), nil
	case cmd.Flags().Changed("category"):
		return library.BooksWithTag(types.Tag{Kind: types.TagCategory, ID: f.category}), nil
	case cmd.Flags().Changed("series"):
		return library.BooksWithTag(types.Tag{Kind: types.TagSeries, ID: f.series}), nil
	case f.bookmarks:
		return library.Bookmarked(), nil
	case f.duplicates:
		return library.Duplicates(), nil
	}
	return library.AllBooks(), nil
}

func (a *app) printBooks(cmd *cobra.Command, rows []types.Record) error {
	if a.flags.jsonMode {
		if rows == nil {
			rows = []types.Record{}
		}
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No books")
		return nil
	}
	lines := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, len(listColumns))
		for i, c := range listColumns {
			line[i] = text(r, c)
		}
		lines = append(lines, line)
	}
	header := make([]string, len(listColumns))
	for i, c := range listColumns {
		header[i] = strings.ToUpper(c)
	}
	return writeTable(cmd.OutOrStdout(), header, lines)
}
