package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillscout/pkg/detector"
	"github.com/jingkaihe/skillscout/pkg/engine"
	"github.com/jingkaihe/skillscout/pkg/extractor"
	"github.com/jingkaihe/skillscout/pkg/github"
	"github.com/jingkaihe/skillscout/pkg/installer"
	"github.com/jingkaihe/skillscout/pkg/presenter"
	"github.com/jingkaihe/skillscout/pkg/storage"
	"github.com/jingkaihe/skillscout/pkg/types"
	"github.com/jingkaihe/skillscout/pkg/ui"
)

var extractCmd = &cobra.Command{
	Use:   "extract [owner/repo...]",
	Short: "Extract skills from repositories and install them locally",
	Long: `Run the full pipeline: classify each repository, extract real skills or
generate metadata wrappers according to the mode, and install the results
into the skills directory.

Modes:
  metadata  wrapper manifests only, no cloning
  extract   always clone and extract
  both      extract skill repositories, wrap the rest

Examples:
  skillscout extract anthropics/skills --mode extract
  skillscout extract --all --yes            # whole scraped list, no prompts
  skillscout extract user/repo -g           # install globally
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		modeStr, _ := flags.GetString("mode")
		autoDetect, _ := flags.GetBool("auto-detect")
		confirm, _ := flags.GetBool("confirm")
		maxSkills, _ := flags.GetInt("max-skills")
		depth, _ := flags.GetInt("depth")
		skipExisting, _ := flags.GetBool("skip-existing")
		global, _ := flags.GetBool("global")
		workers, _ := flags.GetInt("workers")
		all, _ := flags.GetBool("all")
		yes, _ := flags.GetBool("yes")

		mode, err := types.ParseMode(modeStr)
		if err != nil {
			return err
		}

		installDir, err := installer.DefaultDir(global)
		if err != nil {
			return err
		}

		config := types.ExtractionConfig{
			Mode:              mode,
			AutoDetect:        autoDetect,
			ConfirmExtraction: confirm && !yes,
			MaxSkillsPerRepo:  maxSkills,
			SkipExisting:      skipExisting,
			CloneDepth:        depth,
			InstallDir:        installDir,
		}
		if err := config.Validate(); err != nil {
			return err
		}

		repos, err := resolveRepos(args)
		if err != nil {
			return err
		}
		if !all {
			repos, err = ui.SelectRepositories(repos)
			if err != nil {
				return err
			}
			if len(repos) == 0 {
				presenter.Info("Nothing selected")
				return nil
			}
		}

		gateway := github.NewClient(cmd.Context(), viper.GetString("github_token"))
		observer := newProgressObserver()

		eng := engine.New(
			detector.New(gateway),
			extractor.New(),
			engine.WithWorkers(workers),
			engine.WithObserver(observer),
		)

		presenter.Section(fmt.Sprintf("Processing %d repositories (mode: %s)", len(repos), mode))
		outcomes := eng.Run(cmd.Context(), repos, config)

		var artifacts []types.ExtractedArtifact
		confidences := map[string]float64{}
		failed := 0
		for _, outcome := range outcomes {
			if !outcome.Succeeded {
				failed++
				presenter.Warning(fmt.Sprintf("%s: %s", outcome.Repo.FullName(), outcome.ErrorDetail))
				continue
			}
			if outcome.Skipped > 0 {
				presenter.Warning(fmt.Sprintf("%s: %d skills over the per-repo limit were skipped",
					outcome.Repo.FullName(), outcome.Skipped))
			}
			for _, artifact := range outcome.Artifacts {
				confidences[artifact.LocalName] = observer.confidence(outcome.Repo)
				artifacts = append(artifacts, artifact)
			}
		}

		if len(artifacts) == 0 {
			presenter.Info("Nothing to install")
			return nil
		}

		inst := installer.New(config.InstallDir, installer.WithSkipExisting(skipExisting))

		result, err := inst.Install(artifacts)
		if err != nil {
			presenter.Warning(fmt.Sprintf("Some installs failed: %s", err))
		}

		if err := recordInstalls(result.Installed, artifacts, confidences); err != nil {
			presenter.Warning(fmt.Sprintf("Failed to update install records: %s", err))
		}

		presenter.Separator()
		presenter.Success(fmt.Sprintf("Installed %d skills to %s", len(result.Installed), installDir))
		if len(result.Installed) > 0 {
			presenter.Info("  " + strings.Join(result.Installed, ", "))
		}
		if len(result.Skipped) > 0 {
			presenter.Info(fmt.Sprintf("Skipped %d already installed: %s",
				len(result.Skipped), strings.Join(result.Skipped, ", ")))
		}
		if len(result.Failed)+failed > 0 {
			presenter.Warning(fmt.Sprintf("%d repositories and %d installs failed",
				failed, len(result.Failed)))
		}

		return nil
	},
}

func recordInstalls(installed []string, artifacts []types.ExtractedArtifact, confidences map[string]float64) error {
	byName := make(map[string]types.ExtractedArtifact, len(artifacts))
	for _, artifact := range artifacts {
		byName[artifact.LocalName] = artifact
	}

	records := make([]storage.InstalledRecord, 0, len(installed))
	now := time.Now().UTC()
	for _, name := range installed {
		artifact := byName[name]
		records = append(records, storage.InstalledRecord{
			LocalName:   name,
			SourceRepo:  artifact.SourceRepo.FullName(),
			SourceURL:   artifact.SourceRepo.URL,
			Confidence:  confidences[name],
			InstalledAt: now,
		})
	}

	store, err := newStore()
	if err != nil {
		return err
	}
	return store.RecordInstalled(records)
}

// progressObserver reports worker progress through the presenter and
// serializes confirmation prompts.
type progressObserver struct {
	mu          sync.Mutex
	confidences map[string]float64
}

func newProgressObserver() *progressObserver {
	return &progressObserver{confidences: map[string]float64{}}
}

func (o *progressObserver) confidence(repo types.RepositoryRef) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.confidences[repo.Key()]
}

func (o *progressObserver) ClassifyStart(repo types.RepositoryRef) {
	presenter.Info(fmt.Sprintf("Classifying %s...", repo.FullName()))
}

func (o *progressObserver) ClassifyDone(repo types.RepositoryRef, result types.ClassificationResult) {
	o.mu.Lock()
	o.confidences[repo.Key()] = result.Confidence
	o.mu.Unlock()

	verdict := "not a skill repo"
	if result.IsSkillRepo {
		verdict = fmt.Sprintf("skill repo, ~%d skills", result.EstimatedCount)
	}
	presenter.Info(fmt.Sprintf("  %s: %.0f%% (%s)", repo.FullName(), result.Confidence*100, verdict))
}

func (o *progressObserver) ExtractStart(repo types.RepositoryRef) {
	presenter.Info(fmt.Sprintf("Extracting from %s...", repo.FullName()))
}

func (o *progressObserver) ExtractDone(repo types.RepositoryRef, outcome types.ExtractionOutcome) {
	if outcome.Succeeded {
		presenter.Success(fmt.Sprintf("%s: %d skills extracted", repo.FullName(), len(outcome.Artifacts)))
	}
}

func (o *progressObserver) ConfirmExtraction(repo types.RepositoryRef, result types.ClassificationResult) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	answer := presenter.Prompt(
		fmt.Sprintf("Extract skills from %s (confidence %.0f%%)?", repo.FullName(), result.Confidence*100),
		"Y", "n",
	)
	answer = strings.ToLower(answer)
	return answer == "" || answer == "y" || answer == "yes"
}

func init() {
	extractCmd.Flags().String("mode", string(types.ModeBoth), "Extraction mode (metadata, extract, both)")
	extractCmd.Flags().Bool("auto-detect", true, "Classify repositories before deciding how to handle them")
	extractCmd.Flags().Bool("confirm", false, "Ask before cloning each repository")
	extractCmd.Flags().Int("max-skills", 50, "Maximum skills extracted per repository")
	extractCmd.Flags().Int("depth", 1, "Git clone depth")
	extractCmd.Flags().Bool("skip-existing", true, "Leave already-installed skills untouched")
	extractCmd.Flags().BoolP("global", "g", false, "Install to ~/.claude/skills instead of ./.claude/skills")
	extractCmd.Flags().Int("workers", 4, "Repositories processed concurrently")
	extractCmd.Flags().Bool("all", false, "Process every repository without the interactive picker")
	extractCmd.Flags().BoolP("yes", "y", false, "Assume yes for every confirmation")
}
