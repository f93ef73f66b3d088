// Package cli implements the booklib command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/booklib/internal/library"
	"github.com/mesh-intelligence/booklib/internal/logger"
	"github.com/mesh-intelligence/booklib/internal/paths"
	"github.com/mesh-intelligence/booklib/pkg/booklib"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir  string
	libraryDir string
	logLevel   string
	jsonMode   bool
}

// app carries the state shared by the subcommands of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	config    *viper.Viper
	logger    *slog.Logger
	lib       *library.Library
}

// newRootCmd creates the top-level "booklib" command with global flags
// and all subcommands registered.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "booklib",
		Short:   "A personal library of book files",
		Long:    "Booklib keeps book files in a library directory and tracks them in a\nSQLite database with authors, categories, series and bookmarks.",
		Version: booklib.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return userError(err) })

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.libraryDir, "library-dir", "", "library directory (default: ~/Booklib)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newTagCmd(a))
	root.AddCommand(newBookCmd(a))
	root.AddCommand(newAuthorCmd(a))
	root.AddCommand(newCleanCmd(a))
	root.AddCommand(newExportCmd(a))

	return root
}

// Execute runs booklib with the process arguments and exits with the
// appropriate code.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes one booklib invocation and returns its exit code. The
// library is closed before Run returns, whether or not the command failed.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{logger: logger.Discard()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil && cerr != nil {
		err = systemError(fmt.Errorf("close library: %w", cerr))
	}
	if err != nil {
		fmt.Fprintln(stderr, "booklib:", err)
	}
	return exitCode(err)
}

// setup resolves the config directory, reads config.yaml and builds the
// logger. The library itself opens lazily.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(dir)
	if err != nil {
		return systemError(err)
	}
	a.configDir = dir
	a.config = v

	level := v.GetString(cfgKeyLogLevel)
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	a.logger = logger.New(logger.Config{
		Writer: cmd.ErrOrStderr(),
		Format: v.GetString(cfgKeyLogFormat),
		Level:  logger.ParseLevel(level),
	})
	return nil
}

// libraryConfig resolves where the library lives.
func (a *app) libraryConfig() (types.Config, error) {
	dir, err := paths.ResolveLibraryDir(a.flags.libraryDir, a.config.GetString(cfgKeyLibraryDir))
	if err != nil {
		return types.Config{}, systemError(fmt.Errorf("resolve library dir: %w", err))
	}
	cfg := types.Config{
		LibraryDir: dir,
		DBFilename: a.config.GetString(cfgKeyDBFilename),
		TempPrefix: a.config.GetString(cfgKeyTempPrefix),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError(err)
	}
	return cfg, nil
}

// library opens the library database on first use.
func (a *app) library() (*library.Library, error) {
	if a.lib != nil {
		return a.lib, nil
	}
	cfg, err := a.libraryConfig()
	if err != nil {
		return nil, err
	}
	lib, err := booklib.Open(cfg, a.logger)
	if err != nil {
		return nil, systemError(fmt.Errorf("open library: %w", err))
	}
	a.lib = lib
	return lib, nil
}

func (a *app) close() error {
	if a.lib == nil {
		return nil
	}
	err := a.lib.Close()
	a.lib = nil
	return err
}

// cliError attaches an exit code to an error.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func userError(err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: exitUserError, err: err}
}

func systemError(err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: exitSysError, err: err}
}

// userSentinels are library errors caused by bad input.
var userSentinels = []error{
	types.ErrInvalidFile,
	types.ErrInvalidName,
	types.ErrInvalidKind,
	types.ErrInvalidValue,
	types.ErrUnknownColumn,
	types.ErrUnknownFilter,
	types.ErrNoChanges,
	types.ErrNotFound,
	types.ErrNotPersisted,
	types.ErrReservedTag,
	types.ErrTagInUse,
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	for _, s := range userSentinels {
		if errors.Is(err, s) {
			return exitUserError
		}
	}
	return exitSysError
}

// userArgs marks positional argument errors as user errors.
func userArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return userError(check(cmd, args))
	}
}
