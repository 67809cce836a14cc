// Package backup snapshots editor configuration files before airc
// overwrites them.
//
// Each snapshot is a timestamped directory under the project's
// .airc/backups tree:
//
//	.airc/backups/
//	└── {timestamp}/
//	    ├── manifest.json
//	    └── {copied files...}
//
// The manifest records every captured file with its original path,
// permissions, and a SHA256 checksum, so a snapshot can be restored by
// hand and verified against tampering. Snapshots are pruned to a
// retention count after every capture; `airc clean --backups` removes
// the tree outright.
package backup
