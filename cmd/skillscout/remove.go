package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillscout/pkg/installer"
	"github.com/jingkaihe/skillscout/pkg/presenter"
)

var removeCmd = &cobra.Command{
	Use:   "remove <name>...",
	Short: "Remove installed skills",
	Long: `Remove one or more installed skills by local name.

Examples:
  skillscout remove anthropics-pdf-tools
  skillscout remove anthropics-pdf-tools -g
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")

		dir, err := installer.DefaultDir(global)
		if err != nil {
			return err
		}
		inst := installer.New(dir)

		store, err := newStore()
		if err != nil {
			return err
		}

		for _, name := range args {
			if err := inst.Remove(name); err != nil {
				return err
			}
			if err := store.ForgetInstalled(name); err != nil {
				presenter.Warning(fmt.Sprintf("Failed to update install records: %s", err))
			}
			presenter.Success(fmt.Sprintf("Removed %s", name))
		}

		return nil
	},
}

func init() {
	removeCmd.Flags().BoolP("global", "g", false, "Remove from the global skills directory")
}
