package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillscout/pkg/logger"
	"github.com/jingkaihe/skillscout/pkg/storage"
	"github.com/jingkaihe/skillscout/pkg/types"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLSCOUT")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillscout")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillscout",
	Short: "Discover, detect, and extract agent skills from GitHub",
	Long: `Skillscout scrapes awesome lists for candidate repositories, scores how
likely each one is to contain agent skills, and extracts or wraps them as
locally installed SKILL.md packages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))

		if logFile := viper.GetString("log_file"); logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return errors.Wrapf(err, "failed to open log file %s", logFile)
			}
			logger.AddFileOutput(os.Stderr, f)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// dataDir is where scraped repository lists and install records live.
func dataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(homeDir, ".skillscout"), nil
}

func newStore() (*storage.Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return storage.New(dir), nil
}

// parseRepoArg turns an "owner/repo" argument into a repository reference.
func parseRepoArg(arg string) (types.RepositoryRef, error) {
	parts := strings.Split(strings.TrimSuffix(arg, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return types.RepositoryRef{}, errors.Errorf("invalid repository %q: expected owner/repo", arg)
	}
	return types.RepositoryRef{
		Owner: parts[0],
		Name:  parts[1],
		URL:   fmt.Sprintf("https://github.com/%s/%s", parts[0], parts[1]),
	}, nil
}

// resolveRepos returns the repositories to operate on: explicit args win,
// otherwise the previously scraped list.
func resolveRepos(args []string) ([]types.RepositoryRef, error) {
	if len(args) > 0 {
		repos := make([]types.RepositoryRef, 0, len(args))
		for _, arg := range args {
			repo, err := parseRepoArg(arg)
			if err != nil {
				return nil, err
			}
			repos = append(repos, repo)
		}
		return repos, nil
	}

	store, err := newStore()
	if err != nil {
		return nil, err
	}
	repos, err := store.LoadRepos()
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, errors.New("no repositories: pass owner/repo arguments or run 'skillscout scrape' first")
	}
	return repos, nil
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
