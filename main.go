package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ghostty-org/l10n-tools/internal/app"
	"github.com/ghostty-org/l10n-tools/internal/config"
	gh "github.com/ghostty-org/l10n-tools/internal/github"
	"github.com/ghostty-org/l10n-tools/internal/logger"
	"github.com/urfave/cli/v2"
)

func newCommand() *cli.App {
	return &cli.App{
		Name:  "l10n-review",
		Usage: "Request reviews from the localization teams owning the files changed in a pull request",
		Description: "Every flag can be set through its environment variable, so the command runs without flags in CI.\n" +
			"Exits with status 1 when the PR, its files, the CODEOWNERS file or an owning team cannot be fetched.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "token",
				EnvVars:  []string{"GITHUB_TOKEN"},
				Usage:    "GitHub authentication token",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "pr",
				EnvVars:  []string{"PR_NUMBER"},
				Usage:    "Pull Request number",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "repo",
				EnvVars: []string{"GITHUB_REPOSITORY"},
				Usage:   "GitHub repo name (owner/repo), overrides the config file",
			},
			&cli.StringFlag{
				Name:    "dir",
				EnvVars: []string{"GITHUB_WORKSPACE"},
				Value:   ".",
				Usage:   "Directory containing " + config.FileName,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				EnvVars: []string{"L10N_REVIEW_QUIET"},
				Usage:   "Only log warnings and errors",
			},
		},
		Action: func(cCtx *cli.Context) error {
			log := logger.New(os.Stderr, logger.Level(true, cCtx.Bool("quiet")))

			if cCtx.Int("pr") <= 0 {
				return fmt.Errorf("invalid PR number: %d", cCtx.Int("pr"))
			}
			settings, err := loadSettings(cCtx.String("dir"), cCtx.String("repo"), log)
			if err != nil {
				return err
			}

			application := app.New(app.Config{
				Token:    cCtx.String("token"),
				PR:       cCtx.Int("pr"),
				Settings: settings,
			}, log)
			result, err := application.Run(cCtx.Context)
			if err != nil {
				logger.Fatal(log, "Review request process failed", gh.ResponseDetail(err)...)
			}

			log.Info("Review requests done",
				slog.Any("owning_teams", result.OwningTeams),
				slog.Any("requested", result.Requested),
				slog.Any("failed", result.Failed))
			return nil
		},
	}
}

// loadSettings reads the config file in dir, falling back to the defaults when it is unusable
func loadSettings(dir, repo string, log *slog.Logger) (*config.Config, error) {
	settings, err := config.ReadConfig(dir)
	if err != nil {
		log.Warn("Error reading "+config.FileName+" - using default config", slog.Any("error", err))
	}
	if repo != "" {
		if err := settings.SetRepository(repo); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

func main() {
	err := newCommand().Run(os.Args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
