// Package library implements the booklib operations on top of the sqlite
// executor: book listings and searches, adding books with their authors,
// tag management, and orphan cleanup.
//
// Every mutating call clears the success flag when it starts and sets it when
// it completes; Success reports and resets it.
package library

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/booklib/internal/sqlite"
)

// Library is the query facade over one library database. It is not safe for
// concurrent use.
type Library struct {
	exec     *sqlite.Executor
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
	success  bool
}

// Option configures a Library.
type Option func(*Library)

// WithClock replaces the clock used for time_created.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithLogger sets the logger for warnings and cleanup reports.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) { l.logger = logger }
}

// New wraps an executor.
func New(exec *sqlite.Executor, opts ...Option) *Library {
	l := &Library{
		exec:     exec,
		logger:   slog.New(slog.DiscardHandler),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open opens the library database at path, initializing it when new.
func Open(path string, logger *slog.Logger, opts ...Option) (*Library, error) {
	exec, err := sqlite.Open(path, logger)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		opts = append([]Option{WithLogger(logger)}, opts...)
	}
	return New(exec, opts...), nil
}

// Success reports whether the most recent mutating call completed, then
// resets the flag.
func (l *Library) Success() bool {
	ok := l.success
	l.success = false
	return ok
}

// LastInsertID returns the row id assigned by the most recent insert.
func (l *Library) LastInsertID() int64 {
	return l.exec.LastInsertID()
}

// Close discards uncommitted work and closes the database.
func (l *Library) Close() error {
	return l.exec.Close()
}

// commit ends a mutating call: it commits and records the outcome.
func (l *Library) commit() error {
	if err := l.exec.Commit(); err != nil {
		return err
	}
	l.success = true
	return nil
}

// abort rolls back and returns err.
func (l *Library) abort(err error) error {
	if rbErr := l.exec.Rollback(); rbErr != nil {
		l.logger.Error("rollback failed", "error", rbErr)
	}
	return err
}
