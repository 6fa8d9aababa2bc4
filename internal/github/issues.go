package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ahmednasr/contexthub/internal/models"
)

// IssueSearchParams narrows an issue search. SearchAllRepos ignores RepoURL.
type IssueSearchParams struct {
	Languages      []string
	Labels         []string
	KnowledgeLevel models.KnowledgeLevel
	PerPage        int
	Sort           string // created | updated | comments
	RepoURL        string
	SearchAllRepos bool
}

var repoFilterRe = regexp.MustCompile(`github\.com/([^/]+/[^/]+)|^([^/]+/[^/]+)$`)

var levelLabels = map[models.KnowledgeLevel][]string{
	models.LevelBeginner:     {"good first issue", "good-first-issue", "beginner-friendly", "beginner", "easy", "starter", "newcomer"},
	models.LevelIntermediate: {"help wanted", "help-wanted", "enhancement", "feature"},
	models.LevelAdvanced:     {"help wanted", "complex", "architecture", "refactor"},
	models.LevelExpert:       {"help wanted", "hard", "complex", "architecture", "performance", "security"},
}

// LabelsForKnowledgeLevel returns the search labels for a level, falling back
// to the beginner set.
func LabelsForKnowledgeLevel(level models.KnowledgeLevel) []string {
	if l, ok := levelLabels[level]; ok {
		return l
	}
	return levelLabels[models.LevelBeginner]
}

// ParseRepoFilter extracts "owner/repo" from a github.com URL or a bare
// "owner/repo" string.
func ParseRepoFilter(s string) (string, bool) {
	m := repoFilterRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	repo := m[1]
	if repo == "" {
		repo = m[2]
	}
	return strings.TrimSuffix(repo, ".git"), true
}

// BuildIssueQuery renders the search query for p. Only the first language and
// the first label of the merged label list are used; the search API returns
// little once several are combined.
func BuildIssueQuery(p IssueSearchParams) string {
	parts := []string{"is:issue", "is:open", "no:assignee"}

	if !p.SearchAllRepos && p.RepoURL != "" {
		if repo, ok := ParseRepoFilter(p.RepoURL); ok {
			parts = append(parts, "repo:"+repo)
		}
	}

	if len(p.Languages) > 0 {
		parts = append(parts, "language:"+p.Languages[0])
	}

	level := p.KnowledgeLevel
	if level == "" {
		level = models.LevelBeginner
	}
	labels := mergeLabels(p.Labels, LabelsForKnowledgeLevel(level))
	if len(labels) > 0 {
		parts = append(parts, fmt.Sprintf("label:%q", labels[0]))
	}

	switch level {
	case models.LevelBeginner:
		parts = append(parts, "comments:<5")
	case models.LevelIntermediate:
		parts = append(parts, "comments:2..15")
	}
	return strings.Join(parts, " ")
}

func mergeLabels(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, l := range lists {
		for _, s := range l {
			if _, ok := seen[s]; ok || s == "" {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// SearchIssues searches open, unassigned issues across GitHub. Results are
// cached in memory and secondary rate limits are retried with backoff.
func (c *Client) SearchIssues(ctx context.Context, p IssueSearchParams) ([]models.Issue, error) {
	if p.PerPage <= 0 {
		p.PerPage = 10
	}
	if p.Sort == "" {
		p.Sort = "updated"
	}
	query := BuildIssueQuery(p)
	key := query + "|" + p.Sort + "|" + strconv.Itoa(p.PerPage)

	if issues, ok := c.cachedSearch(key); ok {
		log.Printf("[GitHub] using cached search results for %q", query)
		return issues, nil
	}
	log.Printf("[GitHub] searching issues: %s", query)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryBase
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	attempt := 0
	var issues []models.Issue
	err := backoff.Retry(func() error {
		attempt++
		res, err := c.searchOnce(ctx, query, p.Sort, p.PerPage)
		if err == nil {
			issues = res
			return nil
		}
		if errors.Is(err, ErrSecondaryRateLimit) {
			log.Printf("[GitHub] secondary rate limit hit (attempt %d/%d)", attempt, c.maxAttempts)
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxAttempts-1)), ctx))

	switch {
	case err == nil:
	case errors.Is(err, ErrSecondaryRateLimit):
		return nil, fmt.Errorf("search issues failed after %d attempts, wait 1-2 minutes before trying again: %w", attempt, err)
	case errors.Is(err, ErrRateLimited):
		return nil, fmt.Errorf("search issues: wait a few minutes or set GITHUB_TOKEN for a higher limit: %w", err)
	default:
		return nil, fmt.Errorf("search issues: %w", err)
	}

	c.storeSearch(key, issues)
	log.Printf("[GitHub] found %d issues", len(issues))
	return issues, nil
}

func (c *Client) searchOnce(ctx context.Context, query, sort string, perPage int) ([]models.Issue, error) {
	q := map[string][]string{
		"q":        {query},
		"sort":     {sort},
		"order":    {"desc"},
		"per_page": {strconv.Itoa(perPage)},
	}
	var res struct {
		TotalCount int               `json:"total_count"`
		Items      []json.RawMessage `json:"items"`
	}
	if err := c.get(ctx, c.baseURL+"/search/issues", q, &res); err != nil {
		return nil, err
	}

	issues := make([]models.Issue, 0, len(res.Items))
	for _, raw := range res.Items {
		var is models.Issue
		if err := json.Unmarshal(raw, &is); err != nil {
			return nil, fmt.Errorf("decode search item: %w", err)
		}
		if is.PullRequest != nil {
			continue
		}
		issues = append(issues, normalizeIssue(is))
	}
	return issues, nil
}

// normalizeIssue fills the repository identity and author defaults.
func normalizeIssue(is models.Issue) models.Issue {
	if is.Repo == nil && is.RepositoryURL != "" {
		parts := strings.Split(strings.TrimRight(is.RepositoryURL, "/"), "/")
		if len(parts) >= 2 {
			owner, name := parts[len(parts)-2], parts[len(parts)-1]
			is.Repo = &models.IssueRepo{Owner: owner, Name: name, FullName: owner + "/" + name}
		}
	}
	if is.User.Login == "" {
		is.User.Login = "unknown"
	}
	for i := range is.Labels {
		if is.Labels[i].Color == "" {
			is.Labels[i].Color = "000000"
		}
	}
	return is
}

func (c *Client) cachedSearch(key string) ([]models.Issue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.searchCache[key]
	if !ok || time.Since(e.at) >= c.searchCacheTTL {
		return nil, false
	}
	return e.issues, true
}

func (c *Client) storeSearch(key string, issues []models.Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchCache[key] = cachedSearch{issues: issues, at: time.Now()}
}

// ListRepoIssues fetches issues for a repo, dropping pull requests.
//
//	state: "open" | "closed" | "all"
//	perPage: max items per page (1..100)
func (c *Client) ListRepoIssues(ctx context.Context, owner, repo, state string, perPage int) ([]models.Issue, error) {
	q := map[string][]string{"filter": {"all"}}
	if state != "" {
		q["state"] = []string{state}
	}
	if perPage > 0 {
		q["per_page"] = []string{strconv.Itoa(perPage)}
	}

	var raw []models.Issue
	if err := c.get(ctx, c.repoURL(owner, repo, "issues"), q, &raw); err != nil {
		return nil, err
	}
	issues := make([]models.Issue, 0, len(raw))
	for _, is := range raw {
		if is.PullRequest != nil {
			continue
		}
		issues = append(issues, normalizeIssue(is))
	}
	return issues, nil
}

// GetIssue retrieves a single issue by number.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (models.Issue, error) {
	var issue models.Issue
	if err := c.get(ctx, c.repoURL(owner, repo, "issues", strconv.Itoa(number)), nil, &issue); err != nil {
		return models.Issue{}, err
	}
	return normalizeIssue(issue), nil
}
