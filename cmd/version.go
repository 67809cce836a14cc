// Package cmd carries build metadata for airc binaries.
package cmd

import "runtime/debug"

// Release builds overwrite these via
// -ldflags "-X github.com/airc-dev/airc/cmd.Version=...".
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)

// Binaries built with `go install module@version` carry no ldflags,
// but the toolchain stamps equivalent metadata into the binary. Fall
// back to that so `airc version` is never just "dev" for module
// builds.
func init() {
	if Version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			Commit = s.Value
		case "vcs.time":
			Date = s.Value
		}
	}
}
