package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/airc-dev/airc/internal/config"
	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/editors/registry"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/paths"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// projectRoot resolves the directory commands operate on: the --project
// flag when given, the working directory otherwise. Always absolute.
func projectRoot() (string, error) {
	root := projectFlag
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "resolving working directory")
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, "resolving project root %s", root)
	}
	return abs, nil
}

// selectEditors resolves the editors a command targets. The --editor
// flag wins, then default_editors from the tool configuration, then
// project detection. A project with no editor traces targets every
// supported editor, so a first apply still produces output.
func selectEditors(env editors.Env) ([]editors.Editor, error) {
	if len(editorFlag) > 0 {
		return registry.Resolve(editorFlag)
	}
	if tc := toolConfig(); len(tc.DefaultEditors) > 0 {
		eds, err := registry.Resolve(tc.DefaultEditors)
		if err != nil {
			return nil, errors.NewConfigError(err)
		}
		return eds, nil
	}
	if detected := registry.Detect(env); len(detected) > 0 {
		return detected, nil
	}
	return registry.All(), nil
}

// toolConfig returns the loaded tool configuration, or the defaults
// when loading has not happened or failed. Load failures are reported
// separately by the root command.
func toolConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return &config.Config{
		Version:     config.DefaultVersion,
		Concurrency: config.DefaultConcurrency,
		Backup:      config.BackupConfig{RetentionCount: config.DefaultRetentionCount},
	}
}

// displayPath shortens p for output: paths under the project root
// become relative, paths under the home directory get a ~ prefix.
func displayPath(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	if home := paths.Home(); home != "" {
		if rel, err := filepath.Rel(home, p); err == nil && !strings.HasPrefix(rel, "..") {
			return "~" + string(filepath.Separator) + rel
		}
	}
	return p
}

// confirm prompts the user for a yes/no confirmation.
// Returns true only if the user enters "y" or "yes" (case-insensitive).
func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N] ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// plural returns the singular or plural form based on n.
func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
