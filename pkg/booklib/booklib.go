// Package booklib is the public entry point for opening a book library.
package booklib

import (
	"log/slog"

	"github.com/mesh-intelligence/booklib/internal/library"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Version is the booklib release.
const Version = "0.1.0"

// Open validates cfg and opens the library database, creating and seeding
// it on first use. The caller must Close the returned library.
//
// Example:
//
//	lib, err := booklib.Open(types.Config{LibraryDir: "/home/me/Booklib"}, nil)
//	if err != nil {
//	    return err
//	}
//	defer lib.Close()
func Open(cfg types.Config, logger *slog.Logger) (*library.Library, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return library.Open(cfg.DBPath(), logger)
}
