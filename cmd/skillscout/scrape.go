package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillscout/pkg/presenter"
	"github.com/jingkaihe/skillscout/pkg/scraper"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape an awesome list for candidate skill repositories",
	Long: `Scrape a GitHub awesome list (or a direct skill repository) and save
the discovered repositories for later detect and extract runs.

Examples:
  skillscout scrape https://github.com/user/awesome-agent-skills
  skillscout scrape https://github.com/user/awesome-agent-skills --details
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		details, _ := cmd.Flags().GetBool("details")

		s := scraper.New()
		presenter.Info(fmt.Sprintf("Scraping %s...", args[0]))

		repos, err := s.ScrapeAwesomeList(cmd.Context(), args[0])
		if err != nil {
			return errors.Wrap(err, "failed to scrape list")
		}
		if len(repos) == 0 {
			presenter.Warning("No repositories found")
			return nil
		}

		if details {
			for i := range repos {
				s.FetchRepoDetails(cmd.Context(), &repos[i])
			}
		}

		store, err := newStore()
		if err != nil {
			return err
		}
		if err := store.SaveRepos(repos); err != nil {
			return errors.Wrap(err, "failed to save repositories")
		}

		presenter.Success(fmt.Sprintf("Found %d repositories", len(repos)))
		for _, repo := range repos {
			line := "  " + repo.FullName()
			if repo.Description != "" {
				line += " - " + repo.Description
			}
			presenter.Info(line)
		}
		presenter.Info(fmt.Sprintf("Saved to %s", store.ReposPath()))

		return nil
	},
}

func init() {
	scrapeCmd.Flags().Bool("details", false, "Fetch each repository's README for a description")
}
