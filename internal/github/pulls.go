package github

import (
	"context"
	"strconv"

	"github.com/ahmednasr/contexthub/internal/models"
)

// ListPullRequests lists pull requests, most recently updated first.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo, state string, perPage int) ([]models.PullRequest, error) {
	if state == "" {
		state = "all"
	}
	if perPage <= 0 {
		perPage = 30
	}
	q := map[string][]string{
		"state":     {state},
		"per_page":  {strconv.Itoa(perPage)},
		"sort":      {"updated"},
		"direction": {"desc"},
	}

	var prs []models.PullRequest
	if err := c.get(ctx, c.repoURL(owner, repo, "pulls"), q, &prs); err != nil {
		return nil, err
	}
	return prs, nil
}

// GetPullRequest fetches a single pull request with its size counters.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (models.PullRequest, error) {
	var pr models.PullRequest
	if err := c.get(ctx, c.repoURL(owner, repo, "pulls", strconv.Itoa(number)), nil, &pr); err != nil {
		return models.PullRequest{}, err
	}
	return pr, nil
}

// ListPullRequestFiles returns up to 100 files changed by a pull request.
func (c *Client) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]models.PRFile, error) {
	var files []models.PRFile
	q := map[string][]string{"per_page": {"100"}}
	if err := c.get(ctx, c.repoURL(owner, repo, "pulls", strconv.Itoa(number), "files"), q, &files); err != nil {
		return nil, err
	}
	return files, nil
}
