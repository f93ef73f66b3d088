// Package files moves book files in and out of the library directory. It
// guesses book data from file names, copies sources into the library under
// clean unique names, and removes files the database no longer references.
package files

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

const fb2ZipExt = ".fb2.zip"

// BookExts are the accepted book file extensions.
var BookExts = []string{".pdf", ".epub", ".fb2", fb2ZipExt, ".djvu", ".azw", ".azw3", ".mobi", ".txt", ".chm"}

// Supported reports whether name has one of BookExts.
func Supported(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range BookExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// copyWorkers bounds concurrent file copies.
const copyWorkers = 4

// Store manages the files of one library.
type Store struct {
	cfg     types.Config
	logger  *slog.Logger
	tempDir string

	mu       sync.Mutex
	reserved map[string]struct{} // names handed out by TargetName
}

// NewStore returns a store for the library described by cfg.
func NewStore(cfg types.Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		cfg:      cfg,
		logger:   logger,
		tempDir:  os.TempDir(),
		reserved: make(map[string]struct{}),
	}
}

// Dirs returns the library subdirectories holding files.
func (s *Store) Dirs() []string {
	return []string{s.cfg.Dir(types.BooksDir), s.cfg.Dir(types.CoversDir), s.cfg.Dir(types.ThumbsDir)}
}

// EnsureDirs creates the library subdirectories.
func (s *Store) EnsureDirs() error {
	for _, dir := range s.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// TargetName returns the library name for a source file, adding a random
// suffix when a book with that name is already stored or was returned by an
// earlier call.
func (s *Store) TargetName(fileName string) string {
	name := LibraryName(filepath.Base(fileName))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken(name) {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext) + "_" + uuid.NewString()[:8] + ext
	}
	s.reserved[name] = struct{}{}
	return name
}

func (s *Store) taken(name string) bool {
	if _, ok := s.reserved[name]; ok {
		return true
	}
	_, err := os.Stat(filepath.Join(s.cfg.Dir(types.BooksDir), name))
	return err == nil
}

// Inspect describes a source file for AddBook. Compressed fb2 files are
// unpacked into a temp directory first. A PNG next to the source with the
// same base name becomes the cover.
func (s *Store) Inspect(src string) (types.ParsedFile, error) {
	info, err := os.Stat(src)
	if err != nil {
		return types.ParsedFile{}, fmt.Errorf("%w: %v", types.ErrInvalidFile, err)
	}
	if !info.Mode().IsRegular() {
		return types.ParsedFile{}, fmt.Errorf("%w: %s is not a regular file", types.ErrInvalidFile, src)
	}

	fileName := filepath.Base(src)
	if !Supported(fileName) {
		return types.ParsedFile{}, fmt.Errorf("%w: unsupported file type %s", types.ErrInvalidFile, fileName)
	}
	title, authors := InfoFromFileName(fileName)
	if strings.HasSuffix(strings.ToLower(fileName), fb2ZipExt) {
		unpacked, err := s.unzipFB2(src)
		if err != nil {
			s.logger.Warn("fb2 archive not unpacked", "file", src, "error", err)
		} else {
			src = unpacked
			fileName = filepath.Base(unpacked)
		}
	}

	pf := types.ParsedFile{
		SourcePath:   src,
		Title:        title,
		Authors:      authors,
		BookFileName: s.TargetName(fileName),
	}
	if _, err := os.Stat(coverSource(pf.SourcePath)); err == nil {
		pf.CoverFileName = CoverName(pf.BookFileName)
	}
	return pf, nil
}

func coverSource(src string) string {
	return stripExt(src) + ".png"
}

// unzipFB2 extracts the first .fb2 entry of an archive into a new temp
// directory carrying the configured prefix.
func (s *Store) unzipFB2(src string) (string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return "", err
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".fb2") {
			continue
		}
		dir, err := os.MkdirTemp(s.tempDir, s.cfg.Prefix())
		if err != nil {
			return "", err
		}
		dst := filepath.Join(dir, filepath.Base(f.Name))
		if err := extract(f, dst); err != nil {
			return "", err
		}
		return dst, nil
	}
	return "", errors.New("no fb2 entry in archive")
}

func extract(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CopyBooks copies each parsed file, and its cover when it has one, into
// the library. Copies run concurrently; the first failure cancels the rest.
func (s *Store) CopyBooks(ctx context.Context, books []types.ParsedFile) error {
	if err := s.EnsureDirs(); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(copyWorkers)
	for _, pf := range books {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst := filepath.Join(s.cfg.Dir(types.BooksDir), pf.BookFileName)
			if err := copyFile(pf.SourcePath, dst); err != nil {
				return fmt.Errorf("copy %s: %w", pf.SourcePath, err)
			}
			if pf.CoverFileName == "" {
				return nil
			}
			cover := filepath.Join(s.cfg.Dir(types.CoversDir), pf.CoverFileName)
			if err := copyFile(coverSource(pf.SourcePath), cover); err != nil {
				s.logger.Warn("cover not copied", "file", pf.SourcePath, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// CleanUnlinked removes library files whose name is not in referenced, and
// empty files. Missing library directories are skipped. It returns the
// number of files removed.
func (s *Store) CleanUnlinked(ctx context.Context, referenced []string) (int, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		keep[name] = struct{}{}
	}

	var removed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for _, dir := range s.Dirs() {
		g.Go(func() error {
			entries, err := os.ReadDir(dir)
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			if err != nil {
				return err
			}
			for _, e := range entries {
				if err := ctx.Err(); err != nil {
					return err
				}
				if e.IsDir() {
					continue
				}
				info, err := e.Info()
				if err != nil {
					return err
				}
				if _, ok := keep[e.Name()]; ok && info.Size() > 0 {
					continue
				}
				if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
					return err
				}
				removed.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	n := int(removed.Load())
	s.logger.Info("removed unlinked files", "count", n)
	return n, err
}

// CleanTemp removes temp directories created with the configured prefix.
func (s *Store) CleanTemp() (int, error) {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		return 0, err
	}
	prefix := s.cfg.Prefix()
	var g errgroup.Group
	var removed atomic.Int64
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		path := filepath.Join(s.tempDir, e.Name())
		g.Go(func() error {
			if err := os.RemoveAll(path); err != nil {
				return err
			}
			removed.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return int(removed.Load()), err
}
