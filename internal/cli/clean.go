package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/files"
)

// cleanReport is the outcome of one clean run.
type cleanReport struct {
	Authorships int64 `json:"authorships"`
	Authors     int64 `json:"authors"`
	Series      int64 `json:"series"`
	Categories  int64 `json:"categories"`
	Files       int   `json:"files"`
	TempDirs    int   `json:"temp_dirs"`
}

func newCleanCmd(a *app) *cobra.Command {
	var withTags bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove orphaned rows and unlinked files",
		Long: `Clean removes authors and authorships no book uses, series without books,
library files no book references, and leftover temp directories.
With --tags it also removes categories without books, except the default one.`,
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			cfg, err := a.libraryConfig()
			if err != nil {
				return err
			}

			var rep cleanReport
			orphans, err := lib.CleanOrphans()
			if err != nil {
				return err
			}
			rep.Authorships, rep.Authors = orphans.Authorships, orphans.Authors
			if rep.Series, err = lib.DeleteOrphanSeries(); err != nil {
				return err
			}
			if withTags {
				if rep.Categories, err = lib.DeleteOrphanCategories(); err != nil {
					return err
				}
			}

			referenced, err := lib.Files()
			if err != nil {
				return err
			}
			store := files.NewStore(cfg, a.logger)
			if rep.Files, err = store.CleanUnlinked(cmd.Context(), referenced); err != nil {
				return systemError(fmt.Errorf("clean files: %w", err))
			}
			if rep.TempDirs, err = store.CleanTemp(); err != nil {
				return systemError(fmt.Errorf("clean temp: %w", err))
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Removed %d authorships, %d authors, %d series, %d categories\n",
				rep.Authorships, rep.Authors, rep.Series, rep.Categories)
			fmt.Fprintf(w, "Removed %d files, %d temp directories\n", rep.Files, rep.TempDirs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withTags, "tags", false, "also remove empty categories")
	return cmd
}
