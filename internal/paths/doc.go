// Package paths centralizes filesystem path resolution for airc.
//
// It covers the XDG base directories (via adrg/xdg), the per-user tracking
// store, airc's own tool configuration, and the project-scoped cache tree:
//
//	<project>/.airc/cache/git/       ephemeral git downloads (always emptied)
//	<project>/.airc/cache/packages/  persistent package installs
//	<project>/.airc/backups/         pre-overwrite snapshots
//	<project>/.airc/skills/          pointer-skill copies
//
// Editor-specific paths (rules directories, settings files, global-scope
// config locations) are owned by the editor strategies, not by this package.
package paths
