package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ghostty-org/l10n-tools/internal/config"
	gh "github.com/ghostty-org/l10n-tools/internal/github"
	"github.com/ghostty-org/l10n-tools/pkg/codeowners"
	f "github.com/ghostty-org/l10n-tools/pkg/functional"
	"golang.org/x/sync/errgroup"
)

// Result describes what a run did
type Result struct {
	ChangedFiles []string `json:"changed_files"`
	OwningTeams  []string `json:"owning_teams"`
	Author       string   `json:"author"`
	Requested    []string `json:"requested"`
	Failed       []string `json:"failed"`
}

// Config holds the application configuration
type Config struct {
	Token    string
	PR       int
	Settings *config.Config
}

// App represents the application with its dependencies
type App struct {
	config *Config
	client gh.Client
	logger *slog.Logger
}

// New creates a new App instance with a GitHub client for the configured repository
func New(cfg Config, logger *slog.Logger) *App {
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}
	client := gh.NewClient(cfg.Settings.Org, cfg.Settings.Repo, cfg.Token)
	return NewWithClient(cfg, client, logger)
}

func NewWithClient(cfg Config, client gh.Client, logger *slog.Logger) *App {
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}
	return &App{
		config: &cfg,
		client: client,
		logger: logger,
	}
}

// Run requests reviews on the PR from the members of every locale team owning a changed file.
// Any error returned is fatal; failed review requests are reported in the Result instead.
func (a *App) Run(ctx context.Context) (*Result, error) {
	pr := a.config.PR
	a.logger.Debug("Starting review request process", slog.Int("pr", pr))

	if err := a.client.CheckToken(ctx); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	changedFiles, err := a.changedFiles(ctx, pr)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Fetching PR author...")
	author, err := a.client.GetPRAuthor(ctx, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR author: %w", err)
	}
	a.logger.Debug("Found author", slog.String("author", author))

	rules, err := a.readCodeowners(ctx)
	if err != nil {
		return nil, err
	}

	teams := a.owningTeams(rules, changedFiles)

	reviewers, err := a.expandReviewers(ctx, teams, author)
	if err != nil {
		return nil, err
	}

	requested, failed := a.requestReviews(ctx, pr, author, reviewers.Logins())
	return &Result{
		ChangedFiles: changedFiles,
		OwningTeams:  teams,
		Author:       author,
		Requested:    requested,
		Failed:       failed,
	}, nil
}

func (a *App) changedFiles(ctx context.Context, pr int) ([]string, error) {
	a.logger.Debug("Gathering changed files...")
	files, err := a.client.ListChangedFiles(ctx, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to gather changed files: %w", err)
	}
	files = f.Filtered(files, func(file string) bool {
		if a.config.Settings.IsIgnored(file) {
			a.logger.Debug("Ignoring changed file", slog.String("file", file))
			return false
		}
		return true
	})
	a.logger.Debug("Changed files", slog.Any("files", files))
	return files, nil
}

func (a *App) readCodeowners(ctx context.Context) (codeowners.Rules, error) {
	a.logger.Debug("Fetching CODEOWNERS file...", slog.String("path", a.config.Settings.CodeownersPath))
	content, err := a.client.GetFileContent(ctx, a.config.Settings.CodeownersPath)
	if err != nil {
		return codeowners.Rules{}, fmt.Errorf("failed to fetch CODEOWNERS file: %w", err)
	}
	a.logger.Debug("Parsing CODEOWNERS file...")
	return codeowners.Parse(content, a.config.Settings.Org, a.logger), nil
}

func (a *App) owningTeams(rules codeowners.Rules, files []string) []string {
	for _, file := range files {
		if team, ok := rules.OwnerOf(file); ok {
			a.logger.Debug("Found owner", slog.String("file", file), slog.String("owner", team))
		} else {
			a.logger.Debug("No owner found", slog.String("file", file))
		}
	}
	return rules.OwningTeams(files)
}

// teamMembers returns the members of team, or nothing if the team is not under the localization parent team
func (a *App) teamMembers(ctx context.Context, team string) ([]string, error) {
	a.logger.Debug("Fetching team...", slog.String("team", team))
	t, err := a.client.GetTeam(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team %q: %w", team, err)
	}

	parent := a.config.Settings.ParentTeam
	if !t.HasParent(parent) {
		a.logger.Warn("Team does not have the required parent", slog.String("team", team), slog.String("parent", parent))
		return []string{}, nil
	}

	a.logger.Debug("Fetching team members...", slog.String("team", team))
	members, err := a.client.ListTeamMembers(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team %q members: %w", team, err)
	}
	a.logger.Debug("Team members", slog.String("team", team), slog.Any("members", members))
	return members, nil
}

// expandReviewers fetches the members of all teams concurrently. A failing team does not stop the
// others, but fails the expansion once every fetch has finished.
func (a *App) expandReviewers(ctx context.Context, teams []string, author string) (*codeowners.ReviewerSet, error) {
	memberLists := make([][]string, len(teams))
	var g errgroup.Group
	for i, team := range teams {
		g.Go(func() error {
			members, err := a.teamMembers(ctx, team)
			if err != nil {
				a.logger.Error("Failed to fetch team", append([]any{slog.String("team", team)}, gh.ResponseDetail(err)...)...)
				return err
			}
			memberLists[i] = members
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reviewers := codeowners.NewReviewerSet(author)
	for _, members := range memberLists {
		reviewers.Add(members...)
	}
	return reviewers, nil
}

// requestReview asks login to review the PR unless login is the author.
// It reports whether a request was made.
func (a *App) requestReview(ctx context.Context, pr int, author, login string) (bool, error) {
	if codeowners.NewSlug(login).EqualsString(author) {
		a.logger.Debug("Skipping review request for PR author", slog.String("user", login))
		return false, nil
	}
	a.logger.Debug("Requesting review...", slog.String("user", login))
	if err := a.client.RequestReviewer(ctx, pr, login); err != nil {
		return false, err
	}
	return true, nil
}

// requestReviews issues one request per login concurrently. Failures are logged and returned, never fatal.
func (a *App) requestReviews(ctx context.Context, pr int, author string, logins []string) (requested []string, failed []string) {
	type outcome struct {
		requested bool
		err       error
	}
	outcomes := make([]outcome, len(logins))
	var g errgroup.Group
	for i, login := range logins {
		g.Go(func() error {
			ok, err := a.requestReview(ctx, pr, author, login)
			if err != nil {
				a.logger.Error("Failed to request review", append([]any{slog.String("user", login)}, gh.ResponseDetail(err)...)...)
			}
			outcomes[i] = outcome{ok, err}
			return nil
		})
	}
	_ = g.Wait()

	requested = make([]string, 0, len(logins))
	failed = make([]string, 0)
	for i, login := range logins {
		switch {
		case outcomes[i].err != nil:
			failed = append(failed, login)
		case outcomes[i].requested:
			requested = append(requested, login)
		}
	}
	return requested, failed
}
