package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/files"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Add book files to the library",
		Long: `Add copies each file into the library and records it in the new category.
Title and author are taken from names like "First Last - Title.pdf".`,
		Args: userArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			cfg, err := a.libraryConfig()
			if err != nil {
				return err
			}
			store := files.NewStore(cfg, a.logger)

			var (
				added  []types.ParsedFile
				books  []types.Record
				failed int
			)
			for _, src := range args {
				pf, err := store.Inspect(src)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: %v\n", src, err)
					failed++
					continue
				}
				b, err := lib.AddBook(pf)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: %v\n", src, err)
					failed++
					continue
				}
				added = append(added, pf)
				books = append(books, b.Values())
			}

			if err := store.CopyBooks(cmd.Context(), added); err != nil {
				return systemError(fmt.Errorf("copy files: %w", err))
			}
			if _, err := store.CleanTemp(); err != nil {
				a.logger.Warn("temp directories not removed", "error", err)
			}

			if a.flags.jsonMode {
				if books == nil {
					books = []types.Record{}
				}
				if err := writeJSON(cmd.OutOrStdout(), books); err != nil {
					return err
				}
			} else {
				for _, b := range books {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", text(b, "book_id"), text(b, "title"))
				}
			}
			if failed > 0 {
				return userError(fmt.Errorf("%w: %d of %d files not added", types.ErrInvalidFile, failed, len(args)))
			}
			return nil
		},
	}
}
