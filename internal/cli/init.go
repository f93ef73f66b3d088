package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/files"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the library",
		Long:  "Write config.yaml if missing, create the library directories and the database.",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.libraryConfig()
			if err != nil {
				return err
			}
			if _, err := writeConfigIfMissing(a.configDir, cfg, a.config); err != nil {
				return systemError(fmt.Errorf("write config: %w", err))
			}
			if err := files.NewStore(cfg, a.logger).EnsureDirs(); err != nil {
				return systemError(err)
			}
			if _, err := a.library(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Library initialized at %s\n", cfg.LibraryDir)
			return nil
		},
	}
}
