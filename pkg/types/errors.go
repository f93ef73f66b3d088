package types

import "errors"

// Schema and statement errors.
var (
	ErrSchema        = errors.New("schema error")
	ErrEmptyQuery    = errors.New("no query")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNoKey         = errors.New("entity has no addressable key")
	ErrNoChanges     = errors.New("no attributes to update")
	ErrInvalidOrder  = errors.New("invalid sort direction")
	ErrNoInsertID    = errors.New("no row id after insert")
	ErrInvalidValue  = errors.New("invalid column value")
)

// Library operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrNotPersisted  = errors.New("tag is not stored in the database")
	ErrReservedTag   = errors.New("tag is reserved for new books")
	ErrTagInUse      = errors.New("tag has associated books")
	ErrInvalidFile   = errors.New("invalid book file data")
	ErrInvalidName   = errors.New("invalid name")
	ErrUnknownFilter = errors.New("unknown book filter")
	ErrInvalidKind   = errors.New("invalid tag kind")
)
