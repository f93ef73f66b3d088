package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

func newAuthorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "author",
		Short: "Search, add and link authors",
	}
	cmd.AddCommand(newAuthorSearchCmd(a), newAuthorAddCmd(a), newAuthorLinkCmd(a))
	return cmd
}

func newAuthorSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find authors by last name",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			authors, err := lib.SearchAuthors(args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				recs := make([]types.Record, 0, len(authors))
				for _, au := range authors {
					recs = append(recs, au.Values())
				}
				return writeJSON(cmd.OutOrStdout(), recs)
			}
			rows := make([][]string, 0, len(authors))
			for _, au := range authors {
				rows = append(rows, []string{strconv.FormatInt(au.AuthorID, 10), au.FullName()})
			}
			return writeTable(cmd.OutOrStdout(), []string{"ID", "NAME"}, rows)
		},
	}
}

func newAuthorAddCmd(a *app) *cobra.Command {
	var patronymic string
	cmd := &cobra.Command{
		Use:   "add <first> <last>",
		Short: "Add an author",
		Args:  userArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			au, err := lib.AddAuthor(args[0], args[1], patronymic)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added author %d %s\n", au.AuthorID, au.FullName())
			return nil
		},
	}
	cmd.Flags().StringVar(&patronymic, "patronymic", "", "author patronymic")
	return cmd
}

func newAuthorLinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "link <book-id> <author-id>",
		Short: "Add an author to a book",
		Args:  userArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			authorID, err := parseID(args[1])
			if err != nil {
				return err
			}
			lib, err := a.library()
			if err != nil {
				return err
			}
			b, err := findBook(lib, args[0])
			if err != nil {
				return err
			}
			au, err := lib.AuthorByID(authorID)
			if err != nil {
				return err
			}
			if au == nil {
				return userError(fmt.Errorf("%w: author %d", types.ErrNotFound, authorID))
			}
			if err := lib.AddAuthorship(b.BookID, au.AuthorID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to book %d\n", au.FullName(), b.BookID)
			return nil
		},
	}
}
