package types

import (
	"errors"
	"path/filepath"
)

// Defaults applied when a setting is absent.
const (
	DefaultDBFilename = "booklib.db"
	DefaultTempPrefix = "booklib_"
)

// Library subdirectories.
const (
	BooksDir  = "books"
	CoversDir = "covers"
	ThumbsDir = "thumbs"
)

// Config locates a library on disk.
type Config struct {
	LibraryDir string `json:"library_dir" yaml:"library_dir"`
	DBFilename string `json:"db_filename" yaml:"db_filename"`
	TempPrefix string `json:"temp_prefix" yaml:"temp_prefix"`
}

// Config validation errors.
var (
	ErrLibraryDirEmpty = errors.New("library directory must not be empty")
	ErrDBFilenameBad   = errors.New("database file name must be a plain file name")
)

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.LibraryDir == "" {
		return ErrLibraryDirEmpty
	}
	if c.DBFilename != "" && filepath.Base(c.DBFilename) != c.DBFilename {
		return ErrDBFilenameBad
	}
	return nil
}

// DBPath returns the database file path.
func (c Config) DBPath() string {
	name := c.DBFilename
	if name == "" {
		name = DefaultDBFilename
	}
	return filepath.Join(c.LibraryDir, name)
}

// Dir returns a library subdirectory such as BooksDir.
func (c Config) Dir(sub string) string {
	return filepath.Join(c.LibraryDir, sub)
}

// Prefix returns the temp directory prefix.
func (c Config) Prefix() string {
	if c.TempPrefix == "" {
		return DefaultTempPrefix
	}
	return c.TempPrefix
}
