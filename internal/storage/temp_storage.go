package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"corporate-agent/pkg/log"
)

// Artifact kinds held by TempStorage.
const (
	KindReviewed = "reviewed"
	KindReport   = "report"
)

// StoredFile is one artifact kept for download: an annotated document copy
// or a combined JSON report.
type StoredFile struct {
	ID        string
	Name      string // download filename presented to the client
	Path      string
	Kind      string
	Size      int64
	CreatedAt time.Time
}

// TempStorage keeps review artifacts on disk for a bounded time. Entries
// live in an expiring cache whose eviction hook removes the backing file,
// so disk usage stays bounded without a bespoke janitor.
type TempStorage struct {
	baseDir string
	ttl     time.Duration
	cache   *gocache.Cache
}

// NewTempStorage creates the artifact directory and starts the expiry
// janitor.
func NewTempStorage(baseDir string, ttl time.Duration) (*TempStorage, error) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	cleanup := time.Minute
	if ttl < cleanup {
		cleanup = ttl
	}

	c := gocache.New(ttl, cleanup)
	c.OnEvicted(func(id string, v interface{}) {
		sf, ok := v.(*StoredFile)
		if !ok {
			return
		}
		if err := os.Remove(sf.Path); err != nil && !os.IsNotExist(err) {
			log.Warnf("⚠️  Failed to delete expired artifact %s: %v", sf.Path, err)
			return
		}
		log.Debugf("🗑️  Deleted expired artifact: id=%s kind=%s", id, sf.Kind)
	})

	log.Infof("✅ Artifact storage initialized: ttl=%v dir=%s", ttl, baseDir)
	return &TempStorage{baseDir: baseDir, ttl: ttl, cache: c}, nil
}

// StoreFile moves the file at src into storage and returns its download ID.
func (ts *TempStorage) StoreFile(src, name, kind string) (string, error) {
	id := uuid.NewString()
	dst := filepath.Join(ts.baseDir, id+filepath.Ext(name))

	if err := moveFile(src, dst); err != nil {
		return "", fmt.Errorf("store artifact: %w", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return "", fmt.Errorf("stat artifact: %w", err)
	}

	ts.put(id, &StoredFile{
		ID:        id,
		Name:      name,
		Path:      dst,
		Kind:      kind,
		Size:      info.Size(),
		CreatedAt: time.Now(),
	})
	return id, nil
}

// StoreBytes writes data as a new artifact and returns its download ID.
func (ts *TempStorage) StoreBytes(data []byte, name, kind string) (string, error) {
	id := uuid.NewString()
	dst := filepath.Join(ts.baseDir, id+filepath.Ext(name))

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("store artifact: %w", err)
	}

	ts.put(id, &StoredFile{
		ID:        id,
		Name:      name,
		Path:      dst,
		Kind:      kind,
		Size:      int64(len(data)),
		CreatedAt: time.Now(),
	})
	return id, nil
}

func (ts *TempStorage) put(id string, sf *StoredFile) {
	ts.cache.SetDefault(id, sf)
	log.Debugf("📦 Stored artifact: id=%s kind=%s name=%s size=%d", id, sf.Kind, sf.Name, sf.Size)
}

// Get returns a stored artifact by ID, or an error when it is unknown or
// already expired.
func (ts *TempStorage) Get(id string) (*StoredFile, error) {
	v, ok := ts.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("artifact not found or expired: %s", id)
	}
	return v.(*StoredFile), nil
}

// Stats reports storage counters for the health endpoint.
func (ts *TempStorage) Stats() map[string]interface{} {
	items := ts.cache.Items()
	var total int64
	for _, it := range items {
		if sf, ok := it.Object.(*StoredFile); ok {
			total += sf.Size
		}
	}
	return map[string]interface{}{
		"total_files":   len(items),
		"total_size_mb": float64(total) / (1024 * 1024),
		"ttl_minutes":   ts.ttl.Minutes(),
	}
}

// Stop evicts everything, deleting the backing files. Flush would skip the
// eviction hook, so entries are deleted one by one.
func (ts *TempStorage) Stop() {
	for id := range ts.cache.Items() {
		ts.cache.Delete(id)
	}
	log.Infof("🛑 Artifact storage stopped")
}

// moveFile renames src to dst, falling back to copy+remove across devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
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
	return os.Remove(src)
}
