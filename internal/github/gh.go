package gh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v63/github"
)

// Team is the subset of a GitHub team used to decide reviewer eligibility
type Team struct {
	Slug       string
	ParentSlug string
}

// HasParent reports whether the team is nested directly under parent
func (t *Team) HasParent(parent string) bool {
	return t.ParentSlug != "" && t.ParentSlug == parent
}

type Client interface {
	CheckToken(ctx context.Context) error
	GetFileContent(ctx context.Context, path string) (string, error)
	ListChangedFiles(ctx context.Context, pr int) ([]string, error)
	GetPRAuthor(ctx context.Context, pr int) (string, error)
	GetTeam(ctx context.Context, slug string) (*Team, error)
	ListTeamMembers(ctx context.Context, slug string) ([]string, error)
	RequestReviewer(ctx context.Context, pr int, login string) error
}

type GHClient struct {
	owner  string
	repo   string
	client *github.Client
}

// NewClient returns a Client for the owner/repo repository. Teams are looked up in owner's organization.
func NewClient(owner, repo, token string) Client {
	client := github.NewClient(nil).WithAuthToken(token)
	return &GHClient{
		owner,
		repo,
		client,
	}
}

// CheckToken makes the cheapest authenticated request to fail fast on a bad token
func (gh *GHClient) CheckToken(ctx context.Context) error {
	_, res, err := gh.client.RateLimit.Get(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	return nil
}

func (gh *GHClient) GetFileContent(ctx context.Context, path string) (string, error) {
	file, _, res, err := gh.client.Repositories.GetContents(ctx, gh.owner, gh.repo, path, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if file == nil {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return file.GetContent()
}

func (gh *GHClient) ListChangedFiles(ctx context.Context, pr int) ([]string, error) {
	allFiles := make([]string, 0)
	listFiles := func(page int) (*github.Response, error) {
		listOptions := &github.ListOptions{PerPage: 100, Page: page}
		files, res, err := gh.client.PullRequests.ListFiles(ctx, gh.owner, gh.repo, pr, listOptions)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = res.Body.Close()
		}()
		for _, file := range files {
			allFiles = append(allFiles, file.GetFilename())
		}
		return res, err
	}
	err := walkPaginatedApi(listFiles)
	if err != nil {
		return nil, err
	}
	return allFiles, nil
}

func (gh *GHClient) GetPRAuthor(ctx context.Context, pr int) (string, error) {
	pull, res, err := gh.client.PullRequests.Get(ctx, gh.owner, gh.repo, pr)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	login := pull.GetUser().GetLogin()
	if login == "" {
		return "", fmt.Errorf("PR #%d has no author", pr)
	}
	return login, nil
}

func (gh *GHClient) GetTeam(ctx context.Context, slug string) (*Team, error) {
	team, res, err := gh.client.Teams.GetTeamBySlug(ctx, gh.owner, slug)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	return &Team{
		Slug:       team.GetSlug(),
		ParentSlug: team.GetParent().GetSlug(),
	}, nil
}

func (gh *GHClient) ListTeamMembers(ctx context.Context, slug string) ([]string, error) {
	allMembers := make([]string, 0)
	getMembers := func(page int) (*github.Response, error) {
		listOptions := &github.TeamListTeamMembersOptions{ListOptions: github.ListOptions{PerPage: 100, Page: page}}
		users, res, err := gh.client.Teams.ListTeamMembersBySlug(ctx, gh.owner, slug, listOptions)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = res.Body.Close()
		}()
		for _, user := range users {
			allMembers = append(allMembers, user.GetLogin())
		}
		return res, err
	}
	err := walkPaginatedApi(getMembers)
	if err != nil {
		return nil, err
	}
	return allMembers, nil
}

// RequestReviewer requests a review from a single user
func (gh *GHClient) RequestReviewer(ctx context.Context, pr int, login string) error {
	reviewersRequest := github.ReviewersRequest{Reviewers: []string{login}}
	_, res, err := gh.client.PullRequests.RequestReviewers(ctx, gh.owner, gh.repo, pr, reviewersRequest)
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	return nil
}

// ResponseDetail returns log attributes describing the GitHub response behind err, if any
func ResponseDetail(err error) []any {
	attrs := []any{slog.Any("error", err)}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		if ghErr.Response != nil {
			attrs = append(attrs, slog.Int("status", ghErr.Response.StatusCode))
		}
		attrs = append(attrs, slog.String("message", ghErr.Message))
		if ghErr.DocumentationURL != "" {
			attrs = append(attrs, slog.String("documentation_url", ghErr.DocumentationURL))
		}
		for i, e := range ghErr.Errors {
			attrs = append(attrs, slog.String(fmt.Sprintf("errors.%d", i), e.Error()))
		}
		return attrs
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		attrs = append(attrs, slog.Int("status", http.StatusForbidden), slog.Time("reset", rateErr.Rate.Reset.Time))
	}
	return attrs
}

func walkPaginatedApi(apiCall func(int) (*github.Response, error)) error {
	page := 1
	for {
		res, err := apiCall(page)
		if err != nil {
			return err
		}
		if res.NextPage == 0 {
			break
		}
		page = res.NextPage
	}
	return nil
}
