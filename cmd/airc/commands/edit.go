package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airc-dev/airc/internal/editor"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/paths"
)

var editLocal bool

func init() {
	editCmd.Flags().BoolVar(&editLocal, "local", false,
		"edit ai.local.json instead of ai.json")
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the descriptor in your editor",
	Long: `Open ai.json in the editor named by $EDITOR, falling back to
$VISUAL, nano, and vi.

With --local, ai.local.json is opened instead. The local override file
is created on first edit; it merges over ai.json and should stay out
of version control.`,
	Example: `  # Edit the shared descriptor
  airc edit

  # Edit personal overrides
  airc edit --local

  See Also: airc init, airc validate`,
	RunE: runEdit,
}

func runEdit(_ *cobra.Command, _ []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	path := paths.DescriptorPath(root)
	if editLocal {
		path = paths.LocalOverridePath(root)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if !editLocal {
			return errors.NewUserError(errors.Newf("no descriptor at %s", path),
				"Run 'airc init' to create one")
		}
		if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
			return errors.Wrap(err, "creating local override")
		}
	}

	fmt.Printf("Location: %s\n", path)
	return editor.Open(path)
}
