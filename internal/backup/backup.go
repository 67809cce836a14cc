package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/paths"
	"github.com/airc-dev/airc/pkg/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ManifestVersion is the current manifest format version.
const ManifestVersion = 1

// DefaultRetention is how many snapshots are kept per project.
const DefaultRetention = 5

// ErrNoSnapshots indicates no snapshots exist for the project.
var ErrNoSnapshots = errors.New("no snapshots found")

// Manifest describes one snapshot.
type Manifest struct {
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	Files       []File    `json:"files"`
	AircVersion string    `json:"airc_version"`

	// ID is the snapshot's directory name, derived from its location
	// rather than stored.
	ID string `json:"-"`
}

// File describes one captured file.
type File struct {
	OriginalPath string      `json:"original_path"`
	RelPath      string      `json:"rel_path"`
	SHA256       string      `json:"sha256"`
	Mode         fs.FileMode `json:"mode"`
}

// Manager captures and prunes snapshots for one project.
type Manager struct {
	dir       string
	retention int
}

// Option configures a Manager.
type Option func(*Manager)

// WithDir overrides the snapshot directory.
func WithDir(dir string) Option {
	return func(m *Manager) {
		m.dir = dir
	}
}

// WithRetention overrides how many snapshots are kept.
func WithRetention(n int) Option {
	return func(m *Manager) {
		m.retention = n
	}
}

// NewManager returns a manager storing snapshots under the project's
// .airc/backups directory.
func NewManager(projectRoot string, opts ...Option) *Manager {
	m := &Manager{
		dir:       paths.BackupDir(projectRoot),
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the snapshot root.
func (m *Manager) Dir() string {
	return m.dir
}

// Snapshot captures the given paths into a new timestamped snapshot.
// Directories are captured recursively; paths that do not exist are
// skipped. Returns (nil, nil) when nothing existed to capture. After a
// successful capture, snapshots beyond the retention count are pruned.
func (m *Manager) Snapshot(capture []string) (*Manifest, error) {
	id, dir, err := m.newSnapshotDir()
	if err != nil {
		return nil, err
	}

	var files []File
	for _, p := range capture {
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", p)
		}

		if info.IsDir() {
			captured, err := m.captureDir(p, dir)
			if err != nil {
				return nil, errors.Wrapf(err, "capturing directory %s", p)
			}
			files = append(files, captured...)
		} else {
			f, err := m.captureFile(p, dir)
			if err != nil {
				return nil, errors.Wrapf(err, "capturing file %s", p)
			}
			files = append(files, *f)
		}
	}

	if len(files) == 0 {
		os.RemoveAll(dir)
		return nil, nil
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   time.Now().UTC(),
		Files:       files,
		AircVersion: Version,
		ID:          id,
	}
	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, "manifest.json"), manifest); err != nil {
		return nil, errors.Wrap(err, "writing snapshot manifest")
	}

	if err := m.Prune(m.retention); err != nil {
		return nil, err
	}
	return manifest, nil
}

// newSnapshotDir creates a fresh snapshot directory. The ID is the
// creation timestamp, suffixed when two snapshots land in the same
// second.
func (m *Manager) newSnapshotDir() (id, dir string, err error) {
	if err := paths.EnsureDir(m.dir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "creating snapshot root")
	}

	base := time.Now().Format("20060102T150405")
	for attempt := 1; ; attempt++ {
		id = base
		if attempt > 1 {
			id = fmt.Sprintf("%s-%d", base, attempt)
		}
		dir = filepath.Join(m.dir, id)
		err = os.Mkdir(dir, 0o755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", errors.Wrap(err, "creating snapshot directory")
		}
	}
}

// captureFile copies one file into the snapshot.
func (m *Manager) captureFile(src, dir string) (*File, error) {
	rel := storageRelPath(src)
	dst := filepath.Join(dir, rel)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating snapshot subdirectory")
	}

	hash, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}

	return &File{
		OriginalPath: src,
		RelPath:      rel,
		SHA256:       hash,
		Mode:         mode,
	}, nil
}

// captureDir copies every regular file under srcDir into the snapshot.
func (m *Manager) captureDir(srcDir, dir string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		f, err := m.captureFile(path, dir)
		if err != nil {
			return err
		}
		files = append(files, *f)
		return nil
	})
	return files, err
}

// List returns all snapshots, newest first.
func (m *Manager) List() ([]Manifest, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshots
		}
		return nil, errors.Wrap(err, "reading snapshot directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(entry.Name())
		if err != nil {
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, ErrNoSnapshots
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return manifests, nil
}

// Get reads the manifest for one snapshot.
func (m *Manager) Get(id string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, id, "manifest.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoSnapshots, "snapshot %s not found", id)
		}
		return nil, errors.Wrap(err, "reading snapshot manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest for snapshot %s", id)
	}
	manifest.ID = id
	return &manifest, nil
}

// Prune removes snapshots beyond the keep count, oldest first.
func (m *Manager) Prune(keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoSnapshots) {
			return nil
		}
		return err
	}

	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(filepath.Join(m.dir, manifests[i].ID)); err != nil {
			return errors.Wrapf(err, "removing snapshot %s", manifests[i].ID)
		}
	}
	return nil
}

// copyFile copies src to dst, returning the content hash and the
// source's mode, which is applied to the copy.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = info.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating snapshot copy")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dstFile, h), srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing snapshot copy")
	}
	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// storageRelPath maps an absolute path to its location inside the
// snapshot directory. The full path minus its leading separator keeps
// captures from different roots (project files, global editor files)
// from colliding.
func storageRelPath(absPath string) string {
	clean := filepath.Clean(absPath)
	if len(clean) > 0 && clean[0] == filepath.Separator {
		clean = clean[1:]
	}
	return clean
}
