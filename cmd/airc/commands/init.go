package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/editors/registry"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/paths"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"Overwrite an existing ai.json")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a project descriptor",
	Long: `Create a starter ai.json in the project root.

The descriptor is JSON with comments. Fill in skills, rules, prompts,
MCP servers, and hooks, then run 'airc apply' to compile them into
editor configurations. Personal overrides go in ai.local.json next to
it, which should stay out of version control.`,
	Example: `  # Scaffold ai.json in the current project
  airc init

  # Overwrite an existing descriptor
  airc init --force

  See Also: airc validate, airc apply`,
	RunE: runInit,
}

// starterDescriptor is the scaffold written by init. Comments survive
// because descriptors are parsed as JSONC.
const starterDescriptor = `{
  "$schema": "https://airc-dev.github.io/schema/ai.schema.json",

  // Inherit shared configuration from another descriptor:
  // "extends": ["../shared/ai.json"],

  "skills": {},
  "rules": {},
  "prompts": {},
  "mcp": {},
  "hooks": {}
}
`

func runInit(_ *cobra.Command, _ []string) error {
	return runInitWithWriter(os.Stdout)
}

func runInitWithWriter(w io.Writer) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	descriptorPath := paths.DescriptorPath(root)

	if _, err := os.Stat(descriptorPath); err == nil && !initForce {
		fmt.Fprintf(w, "Descriptor already exists at %s\n", descriptorPath)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	if err := os.WriteFile(descriptorPath, []byte(starterDescriptor), 0o644); err != nil {
		return errors.Wrap(err, "writing descriptor")
	}

	fmt.Fprintf(w, "%s✓ Created %s%s\n", colorGreen, descriptorPath, colorReset)

	if detected := registry.Detect(editors.NewEnv(root)); len(detected) > 0 {
		names := make([]string, len(detected))
		for i, ed := range detected {
			names[i] = ed.ID()
		}
		fmt.Fprintf(w, "Detected editors: %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next: add entries to ai.json, then run 'airc plan'")
	return nil
}
