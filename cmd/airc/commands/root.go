// Package commands implements the CLI commands for airc.
package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airc-dev/airc/cmd"
	"github.com/airc-dev/airc/internal/config"
	"github.com/airc-dev/airc/internal/editors/registry"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/logging"
)

// editorFlag holds the value of the --editor flag.
var editorFlag []string

// projectFlag overrides the project root. Empty means the working
// directory.
var projectFlag string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// cfg is the tool configuration loaded by initConfig.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringSliceVarP(&editorFlag, "editor", "e", nil,
		"target editor(s) by id (default: all detected)")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "",
		"project root (default: current directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("airc version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "airc",
	Short: "Compile one AI agent configuration for every editor",
	Long: `airc compiles a single project descriptor (ai.json) into the native
configuration layout of each supported editor: Claude Code, Cursor,
Windsurf, Zed, Codex, GitHub Copilot, Kiro, and Gemini CLI.

The descriptor declares skills, rules, prompts, MCP servers, and hooks
once. Entries reference local files, git repositories, or registry
packages, and descriptors inherit from ancestors through extends.
airc resolves the chain, fetches what is referenced, and writes each
editor's files, so the same configuration follows the project into
whatever editor is in use.

Use the --editor flag to target specific editors, or omit it to target
every editor detected in the project.`,
	Example: `  # Scaffold a descriptor
  airc init

  # Preview what would be written
  airc plan

  # Compile for every detected editor
  airc apply

  # Compile for one editor only
  airc apply --editor cursor

  See Also: airc init, airc validate, airc editors`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return validateEditorFlag(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("AIRC_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	logger, err := logging.New(logging.Config{
		Level:  level,
		Format: logging.Format(logFormat),
		Output: cmd.ErrOrStderr(),
		File:   logFile,
	})
	if err != nil {
		return errors.NewUserError(err, "failed to open log file")
	}
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// validateEditorFlag checks that all specified editors are known.
func validateEditorFlag(cmd *cobra.Command, _ []string) error {
	// Skip validation for help and version commands
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	// Check for config load errors first
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	if len(editorFlag) == 0 {
		return nil
	}

	var invalid []string
	for _, id := range editorFlag {
		if _, err := registry.Get(id); err != nil {
			invalid = append(invalid, id)
		}
	}

	if len(invalid) > 0 {
		err := errors.Newf("invalid editor(s): %s (valid: %s)",
			strings.Join(invalid, ", "),
			strings.Join(registry.IDs(), ", "))
		return errors.NewUserError(err, "Run 'airc editors' to see supported editors")
	}

	return nil
}

// GetEditorFlag returns the current value of the --editor flag.
// This is used by subcommands to access the flag value.
func GetEditorFlag() []string {
	return editorFlag
}

// Execute runs the root command. Errors come back to main unprinted;
// SilenceErrors keeps cobra from reporting them twice.
func Execute() error {
	return rootCmd.Execute()
}
