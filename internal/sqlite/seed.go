package sqlite

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// DefaultCategories are inserted into a new database in this order, so the
// first one receives types.ReservedCategoryID.
var DefaultCategories = []string{
	"new",
	"prog",
	"prog_python",
	"prog_javascript",
	"prog_c",
	"prog_sql",
	"comp",
	"comp_linux",
	"culture",
	"math",
	"classic",
	"adventure",
	"business",
	"psychology",
	"sci-fi",
	"sci-fi_fantasy",
	"sci-fi_space",
	"sport",
}

// Initialize creates every table in types.Models, seeds the default
// categories and commits.
func Initialize(e *Executor) error {
	for _, m := range types.Models {
		if err := e.CreateTable(m); err != nil {
			_ = e.Rollback()
			return err
		}
	}
	for _, name := range DefaultCategories {
		if _, err := e.Insert(types.NewCategory(name)); err != nil {
			_ = e.Rollback()
			return fmt.Errorf("%w: seed category %s: %v", types.ErrSchema, name, err)
		}
	}
	return e.Commit()
}

// Open returns an executor for the database at path, creating and
// initializing the file when it does not exist yet.
func Open(path string, logger *slog.Logger) (*Executor, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	_, err := os.Stat(path)
	fresh := errors.Is(err, os.ErrNotExist)
	if err != nil && !fresh {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	e := NewExecutor(path, logger)
	if !fresh {
		return e, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	logger.Info("initializing database", "path", path)
	if err := Initialize(e); err != nil {
		_ = e.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return e, nil
}
