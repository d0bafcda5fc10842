package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"runnerd/internal/common/fsutil"
)

// manifestFile is the per-version manifest whose presence marks a committed
// registration. A version directory without it is treated as unregistered.
const manifestFile = "model.yaml"

// latestVersion is the pseudo-version resolving to the newest committed version.
const latestVersion = "latest"

var (
	nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	// versionRe bounds what an explicit version may look like. Anything
	// else would be joined into filesystem paths, so reject it up front.
	versionRe = regexp.MustCompile(`^v[0-9]+$`)
)

// ModelInfo is the metadata resolved from a tag. It is written once at
// registration time and read-only afterwards.
type ModelInfo struct {
	Tag       string            `yaml:"tag"`
	Name      string            `yaml:"name"`
	Version   string            `yaml:"version"`
	Module    string            `yaml:"module"`
	CreatedAt time.Time         `yaml:"created_at"`
	Metadata  map[string]any    `yaml:"metadata,omitempty"`
	Context   map[string]string `yaml:"context,omitempty"`
	// Path is the absolute version directory holding the artifact.
	// Derived from the store root at resolve time, not persisted.
	Path string `yaml:"-"`
}

// Store is a filesystem-backed model store. Layout:
//
//	<root>/<name>/<version>/model.yaml
//	<root>/<name>/<version>/<artifact files>
//
// Versions are allocated per name as v1, v2, ... in registration order.
type Store struct {
	mu   sync.Mutex
	root string
}

// Open prepares a store rooted at dir, creating it if needed.
// A leading '~' in dir is expanded to the user's home directory.
func Open(dir string) (*Store, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute store root directory.
func (s *Store) Root() string { return s.root }

// ParseTag splits a tag into name and version. A bare name (or name:latest)
// leaves the version empty, meaning "newest committed version".
func ParseTag(tag string) (name, version string, err error) {
	if tag == "" {
		return "", "", ErrInvalidTag(tag)
	}
	name = tag
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		name, version = tag[:i], tag[i+1:]
		if version == "" || strings.ContainsRune(version, ':') {
			return "", "", ErrInvalidTag(tag)
		}
	}
	if version == latestVersion {
		version = ""
	}
	if !nameRe.MatchString(name) {
		return "", "", ErrInvalidTag(tag)
	}
	if version != "" && !versionRe.MatchString(version) {
		return "", "", ErrInvalidTag(tag)
	}
	return name, version, nil
}

// Resolve looks up a tag and returns its committed ModelInfo.
func (s *Store) Resolve(tag string) (ModelInfo, error) {
	name, version, err := ParseTag(tag)
	if err != nil {
		return ModelInfo{}, err
	}
	if version == "" {
		version, err = s.newestVersion(name)
		if err != nil {
			return ModelInfo{}, err
		}
	}
	return s.readManifest(name, version)
}

// List returns all committed model versions, newest version first per name.
func (s *Store) List() ([]ModelInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read store root: %w", err)
	}
	var out []ModelInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		versions, err := s.committedVersions(name)
		if err != nil {
			continue
		}
		for _, v := range versions {
			info, err := s.readManifest(name, v)
			if err != nil {
				continue
			}
			out = append(out, info)
		}
	}
	return out, nil
}

// Delete removes a committed model version from the store.
func (s *Store) Delete(tag string) error {
	info, err := s.Resolve(tag)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.RemoveAll(info.Path); err != nil {
		return fmt.Errorf("delete %s: %w", info.Tag, err)
	}
	// Drop the name directory when its last version is gone.
	_ = os.Remove(filepath.Dir(info.Path))
	return nil
}

func (s *Store) readManifest(name, version string) (ModelInfo, error) {
	dir := filepath.Join(s.root, name, version)
	b, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return ModelInfo{}, ErrTagNotFound(name + ":" + version)
	}
	var info ModelInfo
	if err := yaml.Unmarshal(b, &info); err != nil {
		return ModelInfo{}, fmt.Errorf("manifest %s:%s: %w", name, version, err)
	}
	info.Path = dir
	return info, nil
}

// committedVersions lists version directories of name that carry a manifest,
// sorted newest first.
func (s *Store) committedVersions(name string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if err != nil {
		return nil, ErrTagNotFound(name)
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := versionNumber(e.Name()); err != nil {
			continue
		}
		if !fsutil.PathExists(filepath.Join(s.root, name, e.Name(), manifestFile)) {
			continue
		}
		versions = append(versions, e.Name())
	}
	sort.Slice(versions, func(i, j int) bool {
		ni, _ := versionNumber(versions[i])
		nj, _ := versionNumber(versions[j])
		return ni > nj
	})
	return versions, nil
}

func (s *Store) newestVersion(name string) (string, error) {
	versions, err := s.committedVersions(name)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", ErrTagNotFound(name)
	}
	return versions[0], nil
}

func versionNumber(v string) (int, error) {
	if !strings.HasPrefix(v, "v") {
		return 0, fmt.Errorf("not a version: %s", v)
	}
	return strconv.Atoi(v[1:])
}
