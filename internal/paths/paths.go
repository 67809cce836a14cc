package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "airc"

// ProjectDir is the directory airc owns inside a project root. It holds
// the cache tree, backups, and pointer-skill copies.
const ProjectDir = ".airc"

// Descriptor file names looked up at a project root.
const (
	// DescriptorFile is the project descriptor.
	DescriptorFile = "ai.json"

	// LocalOverrideFile is the companion override descriptor. It uses the
	// same shape as the descriptor minus extends and is merged last.
	LocalOverrideFile = "ai.local.json"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrProjectRootRequired indicates an operation needs a project root but
	// none was provided.
	ErrProjectRootRequired = errors.New("project root is required")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with the given
// permissions. If perm is 0, DefaultDirPerm (0700) is used. Idempotent.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or an empty string when it
// cannot be determined. Use ResolveHome for error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
func DataHome() string {
	return xdg.DataHome
}

// CacheHome returns the XDG cache home directory.
// On Linux: ~/.cache
// On macOS: ~/Library/Caches
func CacheHome() string {
	return xdg.CacheHome
}

// ToolConfigDir returns the directory holding airc's own configuration.
// Returns: <ConfigHome>/airc/
func ToolConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// TrackingFilePath returns the per-user tracking store path. The store
// maps globally-installed entries to the projects depending on them.
// Returns: <DataHome>/airc/tracking.json
func TrackingFilePath() string {
	return filepath.Join(DataHome(), AppName, "tracking.json")
}

// DescriptorPath returns the descriptor path for a project root.
func DescriptorPath(projectRoot string) string {
	return filepath.Join(projectRoot, DescriptorFile)
}

// LocalOverridePath returns the local override path for a project root.
func LocalOverridePath(projectRoot string) string {
	return filepath.Join(projectRoot, LocalOverrideFile)
}

// CacheDir returns the project-scoped cache root.
// Returns: <projectRoot>/.airc/cache/
func CacheDir(projectRoot string) string {
	return filepath.Join(projectRoot, ProjectDir, "cache")
}

// GitCacheDir returns the ephemeral git download space for a project.
// Every download into this tree is force-replaced and deleted after the
// consuming operation completes.
// Returns: <projectRoot>/.airc/cache/git/
func GitCacheDir(projectRoot string) string {
	return filepath.Join(CacheDir(projectRoot), "git")
}

// PackageCacheDir returns the persistent package install space for a
// project. Installed packages are kept until explicitly cleared.
// Returns: <projectRoot>/.airc/cache/packages/
func PackageCacheDir(projectRoot string) string {
	return filepath.Join(CacheDir(projectRoot), "packages")
}

// BackupDir returns the pre-overwrite snapshot space for a project.
// Returns: <projectRoot>/.airc/backups/
func BackupDir(projectRoot string) string {
	return filepath.Join(projectRoot, ProjectDir, "backups")
}

// PointerSkillDir returns the directory skill trees are copied into for
// editors without a native skill concept.
// Returns: <projectRoot>/.airc/skills/
func PointerSkillDir(projectRoot string) string {
	return filepath.Join(projectRoot, ProjectDir, "skills")
}

// NodeModulesDir returns the project's node_modules tree, consulted for
// registry references that do not pin a version.
func NodeModulesDir(projectRoot string) string {
	return filepath.Join(projectRoot, "node_modules")
}
