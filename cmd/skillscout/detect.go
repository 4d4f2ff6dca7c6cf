package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillscout/pkg/detector"
	"github.com/jingkaihe/skillscout/pkg/github"
	"github.com/jingkaihe/skillscout/pkg/presenter"
	"github.com/jingkaihe/skillscout/pkg/types"
)

var detectCmd = &cobra.Command{
	Use:   "detect [owner/repo...]",
	Short: "Score repositories for skill content",
	Long: `Classify repositories as skill repositories or not, with a confidence
score and the matched indicators. Without arguments the previously scraped
list is used.

Examples:
  skillscout detect anthropics/skills
  skillscout detect                         # score the scraped list
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, err := resolveRepos(args)
		if err != nil {
			return err
		}

		gateway := github.NewClient(cmd.Context(), viper.GetString("github_token"))
		d := detector.New(gateway)

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "REPOSITORY\tSKILL REPO\tCONFIDENCE\tEST. SKILLS\tINDICATORS")

		for _, repo := range repos {
			result := d.Classify(cmd.Context(), repo)

			verdict := "no"
			if result.IsSkillRepo {
				verdict = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%.0f%%\t%d\t%s\n",
				repo.FullName(), verdict, result.Confidence*100,
				result.EstimatedCount, formatIndicators(result.MatchedIndicators))
		}
		tw.Flush()

		presenter.Info(fmt.Sprintf("Scored %d repositories", len(repos)))
		return nil
	},
}

func formatIndicators(indicators []types.Indicator) string {
	if len(indicators) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(indicators))
	for _, ind := range indicators {
		part := string(ind.Type) + ":" + ind.Value
		if ind.Count > 1 {
			part += fmt.Sprintf("(%d)", ind.Count)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
