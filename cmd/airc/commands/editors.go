package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/editors/registry"
)

func init() {
	rootCmd.AddCommand(editorsCmd)
}

var editorsCmd = &cobra.Command{
	Use:   "editors",
	Short: "List supported editors and their capabilities",
	Long: `List every supported editor with its identifier, where its rules
live, and which capabilities it can express natively.

Editors without native skill support receive pointer rules that link
to materialized skill directories. MCP scope "user" means the editor
only reads a user-wide configuration file; writes to it are recorded
in the tracking registry so 'airc prune' can clean them up later.`,
	Example: `  airc editors

  See Also: airc apply, airc status`,
	RunE: runEditors,
}

func runEditors(_ *cobra.Command, _ []string) error {
	return runEditorsWithWriter(os.Stdout)
}

func runEditorsWithWriter(w io.Writer) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	env := editors.NewEnv(root)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sEDITOR%s\t%sID%s\t%sRULES%s\t%sSKILLS%s\t%sMCP%s\t%sPROMPTS%s\t%sHOOKS%s\t%sDETECTED%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, ed := range registry.All() {
		detected := colorGray + "-" + colorReset
		if ed.Detected(env) {
			detected = colorGreen + "✓" + colorReset
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ed.DisplayName(),
			ed.ID(),
			rulesColumn(ed),
			skillsColumn(ed),
			mcpColumn(ed),
			yesNo(ed.Prompts().Supported()),
			yesNo(ed.Hooks().Supported()),
			detected)
	}
	return tw.Flush()
}

// rulesColumn shows where the editor keeps its rules.
func rulesColumn(ed editors.Editor) string {
	p := ed.Rules().Paths()
	if p.File != "" {
		return p.File
	}
	return p.Dir + "/"
}

// skillsColumn distinguishes native skill directories from pointer
// rules.
func skillsColumn(ed editors.Editor) string {
	if !ed.Skills().Supported() {
		return "-"
	}
	if ed.Skills().Native() {
		return "native"
	}
	return "pointer"
}

// mcpColumn shows whether MCP config is project-scoped or user-wide.
func mcpColumn(ed editors.Editor) string {
	s := ed.MCP()
	if !s.Supported() {
		return "-"
	}
	if s.GlobalOnly() {
		return "user"
	}
	return "project"
}

func yesNo(supported bool) string {
	if supported {
		return "yes"
	}
	return "-"
}
