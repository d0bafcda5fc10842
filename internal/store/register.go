package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Registration is a scoped registration transaction. The caller writes the
// artifact into Path, then either Commit (publishing the tag) or Rollback
// (removing every trace of the version). A registration that is never
// committed is invisible to Resolve and List.
type Registration struct {
	// ID identifies this transaction, for logging.
	ID string
	// Tag is the allocated name:version.
	Tag string
	// Path is the version directory the artifact must be written into.
	Path string

	st   *Store
	info ModelInfo
	done bool
}

// Register opens a registration transaction for a new version of name.
// The version is allocated immediately; the tag commits only when the
// returned Registration is committed.
func (s *Store) Register(name, module string, metadata map[string]any, frameworkContext map[string]string) (*Registration, error) {
	if !nameRe.MatchString(name) {
		return nil, ErrInvalidName(name)
	}
	if module == "" {
		return nil, fmt.Errorf("register %s: empty module", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	version, err := s.nextVersionLocked(name)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, name, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("reserve %s:%s: %w", name, version, err)
	}
	tag := name + ":" + version
	return &Registration{
		ID:   uuid.NewString(),
		Tag:  tag,
		Path: dir,
		st:   s,
		info: ModelInfo{
			Tag:       tag,
			Name:      name,
			Version:   version,
			Module:    module,
			CreatedAt: time.Now().UTC(),
			Metadata:  metadata,
			Context:   frameworkContext,
		},
	}, nil
}

// Commit publishes the version by writing its manifest. After Commit the tag
// resolves; Rollback becomes a no-op.
func (r *Registration) Commit() (ModelInfo, error) {
	if r.done {
		return ModelInfo{}, fmt.Errorf("registration %s already closed", r.ID)
	}
	b, err := yaml.Marshal(r.info)
	if err != nil {
		return ModelInfo{}, fmt.Errorf("marshal manifest: %w", err)
	}
	// Write-then-rename so a crash mid-write never leaves a committed tag
	// pointing at a half-written manifest.
	tmp := filepath.Join(r.Path, manifestFile+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return ModelInfo{}, fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(r.Path, manifestFile)); err != nil {
		return ModelInfo{}, fmt.Errorf("publish manifest: %w", err)
	}
	r.done = true
	info := r.info
	info.Path = r.Path
	return info, nil
}

// Rollback discards the reserved version. Safe to defer alongside Commit.
func (r *Registration) Rollback() {
	if r.done {
		return
	}
	r.done = true
	_ = os.RemoveAll(r.Path)
	// Drop the name directory if this was its only version.
	_ = os.Remove(filepath.Dir(r.Path))
}

// nextVersionLocked allocates the next version for name, counting reserved
// but uncommitted versions too so concurrent registrations never collide.
func (s *Store) nextVersionLocked(name string) (string, error) {
	max := 0
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("scan versions of %s: %w", name, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if n, err := versionNumber(e.Name()); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("v%d", max+1), nil
}
