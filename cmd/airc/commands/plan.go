package commands

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(planCmd)
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the changes apply would make",
	Long: `Run the full resolution pipeline and show what apply would write,
without touching any file.

References are still fetched so the comparison is against the real
desired state; downloads land in the cache and make the following
apply cheaper.`,
	Example: `  # Preview for every detected editor
  airc plan

  # Preview for one editor
  airc plan --editor zed

  See Also: airc apply, airc status`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApply(cmd.Context(), os.Stdout, true)
	},
}
