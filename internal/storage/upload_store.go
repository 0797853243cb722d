package storage

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"corporate-agent/pkg/log"
)

// UploadedFile references one client file persisted into an upload scope.
type UploadedFile struct {
	Name string // original filename as submitted
	Path string // location of the transient copy
}

// UploadStore writes client uploads to per-request scopes under a base
// directory. The filesystem is abstracted so tests run in memory.
type UploadStore struct {
	fs      afero.Fs
	baseDir string
}

// NewUploadStore prepares the base directory for transient uploads.
func NewUploadStore(fs afero.Fs, baseDir string) (*UploadStore, error) {
	if err := fs.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{fs: fs, baseDir: baseDir}, nil
}

// Fs exposes the underlying filesystem, for consumers that read the saved
// copies back.
func (s *UploadStore) Fs() afero.Fs {
	return s.fs
}

// NewScope allocates a fresh request-scoped directory. Scopes are named by
// UUID so simultaneous requests can never collide on filenames.
func (s *UploadStore) NewScope() (*UploadScope, error) {
	dir := filepath.Join(s.baseDir, uuid.NewString())
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload scope: %w", err)
	}
	return &UploadScope{fs: s.fs, dir: dir}, nil
}

// UploadScope holds the transient copies for a single request. Release must
// be called on every exit path once the response is produced.
type UploadScope struct {
	fs  afero.Fs
	dir string
	n   int
}

// Dir returns the scope directory.
func (sc *UploadScope) Dir() string {
	return sc.dir
}

// Save writes one client file into the scope. Files are prefixed with their
// position so a batch may contain the same filename twice.
func (sc *UploadScope) Save(name string, r io.Reader) (UploadedFile, error) {
	base := path.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == "/" {
		return UploadedFile{}, fmt.Errorf("missing filename")
	}

	sc.n++
	dst := filepath.Join(sc.dir, fmt.Sprintf("%02d_%s", sc.n, base))

	f, err := sc.fs.Create(dst)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("create upload copy: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return UploadedFile{}, fmt.Errorf("write upload copy: %w", err)
	}
	return UploadedFile{Name: base, Path: dst}, nil
}

// Release removes the scope directory and everything in it.
func (sc *UploadScope) Release() {
	if err := sc.fs.RemoveAll(sc.dir); err != nil {
		log.Warnf("⚠️  Failed to release upload scope %s: %v", sc.dir, err)
	}
}
