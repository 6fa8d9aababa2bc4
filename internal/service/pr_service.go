package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ahmednasr/contexthub/internal/models"
	"github.com/ahmednasr/contexthub/internal/smartsearch"
)

// PullFetcher is the subset of the GitHub client the PR service needs.
type PullFetcher interface {
	ListPullRequests(ctx context.Context, owner, repo, state string, perPage int) ([]models.PullRequest, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (models.PullRequest, error)
	ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]models.PRFile, error)
}

// PRDetail is a pull request with its changed files grouped by area.
type PRDetail struct {
	models.PRData
	Impact models.PRImpact `json:"impact"`
}

type listPullsParams struct {
	State   string `validate:"omitempty,oneof=open closed all"`
	PerPage int    `validate:"omitempty,min=1,max=100"`
}

type pullParams struct {
	Number int `validate:"gt=0"`
}

// PRService lists pull requests and summarizes their impact.
type PRService struct {
	gh PullFetcher
}

// NewPRService wires dependencies.
func NewPRService(gh PullFetcher) *PRService {
	return &PRService{gh: gh}
}

// ListPullRequests lists pull requests of ref. state defaults to "all".
func (s *PRService) ListPullRequests(ctx context.Context, ref RepoRef, state string, perPage int) ([]models.PullRequest, error) {
	if err := validateStruct(listPullsParams{State: state, PerPage: perPage}); err != nil {
		return nil, err
	}
	prs, err := s.gh.ListPullRequests(ctx, ref.Owner, ref.Name, state, perPage)
	if err != nil {
		return nil, fmt.Errorf("list pull requests for %s/%s: %w", ref.Owner, ref.Name, err)
	}
	log.Printf("[PR Service] Fetched %d pull requests for %s/%s", len(prs), ref.Owner, ref.Name)
	return prs, nil
}

// GetPullRequest fetches a pull request and its files concurrently.
func (s *PRService) GetPullRequest(ctx context.Context, ref RepoRef, number int) (PRDetail, error) {
	if err := validateStruct(pullParams{Number: number}); err != nil {
		return PRDetail{}, err
	}

	var (
		pr    models.PullRequest
		files []models.PRFile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pr, err = s.gh.GetPullRequest(gctx, ref.Owner, ref.Name, number)
		return err
	})
	g.Go(func() error {
		var err error
		files, err = s.gh.ListPullRequestFiles(gctx, ref.Owner, ref.Name, number)
		return err
	})
	if err := g.Wait(); err != nil {
		return PRDetail{}, fmt.Errorf("PR #%d in %s/%s: %w", number, ref.Owner, ref.Name, err)
	}

	data := ToPRData(pr, files)
	return PRDetail{PRData: data, Impact: AnalyzePRImpact(files)}, nil
}

// ToPRData flattens a pull request and its files. Merged pull requests
// report state "merged".
func ToPRData(pr models.PullRequest, files []models.PRFile) models.PRData {
	state := pr.State
	if pr.MergedAt != nil {
		state = "merged"
	}
	author := pr.User.Login
	if author == "" {
		author = "unknown"
	}
	if files == nil {
		files = []models.PRFile{}
	}
	return models.PRData{
		Number:       pr.Number,
		Title:        pr.Title,
		Author:       author,
		State:        state,
		FilesChanged: pr.ChangedFiles,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		ChangedFiles: files,
	}
}

// AnalyzePRImpact groups changed files into the index buckets by path.
// Every bucket is present in the result, possibly empty.
func AnalyzePRImpact(files []models.PRFile) models.PRImpact {
	impact := make(models.PRImpact, len(models.Buckets))
	for _, b := range models.Buckets {
		impact[b] = []string{}
	}
	for _, f := range files {
		b := models.BucketFor(smartsearch.DetectCategory(f.Filename, ""))
		impact[b] = append(impact[b], f.Filename)
	}
	return impact
}
