package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/export"
	"github.com/mesh-intelligence/booklib/internal/library"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Write every book to a semicolon-separated CSV file",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			rows, err := lib.ListBooks(library.AllBooks())
			if err != nil {
				return err
			}
			if err := export.WriteFile(args[0], library.BookColumns, rows); err != nil {
				return systemError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d books to %s\n", len(rows), args[0])
			return nil
		},
	}
}
