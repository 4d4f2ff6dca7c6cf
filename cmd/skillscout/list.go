package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillscout/pkg/installer"
	"github.com/jingkaihe/skillscout/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed skills",
	Long: `List the skills installed in the local (./.claude/skills) or global
(~/.claude/skills) skills directory.

Examples:
  skillscout list
  skillscout list -g
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		global, _ := cmd.Flags().GetBool("global")

		dir, err := installer.DefaultDir(global)
		if err != nil {
			return err
		}

		skills, err := installer.New(dir).ListInstalled()
		if err != nil {
			return err
		}
		if len(skills) == 0 {
			presenter.Info("No skills installed")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDESCRIPTION")
		for _, skill := range skills {
			description := skill.Description
			if description == "" {
				description = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\n", skill.LocalName, description)
		}
		tw.Flush()

		presenter.Info(fmt.Sprintf("%d skills in %s", len(skills), dir))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolP("global", "g", false, "List the global skills directory")
}
