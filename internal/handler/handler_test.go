package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmednasr/contexthub/internal/github"
	"github.com/ahmednasr/contexthub/internal/models"
	"github.com/ahmednasr/contexthub/internal/service"
)

type fixture struct {
	app    *fiber.App
	repos  *mockRepos
	pulls  *mockPulls
	issues *mockIssues
	gh     *mockRateLimiter
}

func newFixture(dbErr error) *fixture {
	f := &fixture{
		app:    NewApp(fiber.Config{}),
		repos:  new(mockRepos),
		pulls:  new(mockPulls),
		issues: new(mockIssues),
		gh:     new(mockRateLimiter),
	}
	RegisterRoutes(f.app, Services{
		Repos:  f.repos,
		Pulls:  f.pulls,
		Issues: f.issues,
		DB:     mockPinger{err: dbErr},
		GitHub: f.gh,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

var shop = service.RepoRef{Owner: "acme", Name: "shop", Branch: "main"}

func TestLoadRepo(t *testing.T) {
	f := newFixture(nil)
	f.repos.On("StartLoad", shop).Return(service.RepoState{Owner: "acme", Repo: "shop", Branch: "main", IsIndexing: true})

	status, body := f.do(t, http.MethodPost, "/api/v1/repos/load", `{"repo":"https://github.com/acme/shop"}`)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, true, body["is_indexing"])

	status, body = f.do(t, http.MethodPost, "/api/v1/repos/load", `{"repo":"not a repo"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "invalid input")

	status, _ = f.do(t, http.MethodPost, "/api/v1/repos/load", `{"repo":`)
	assert.Equal(t, http.StatusBadRequest, status)
	f.repos.AssertNumberOfCalls(t, "StartLoad", 1)
}

func TestLoadRepoAlreadyLoaded(t *testing.T) {
	f := newFixture(nil)
	f.repos.On("StartLoad", shop).Return(service.RepoState{Owner: "acme", Repo: "shop", Branch: "main"})

	status, _ := f.do(t, http.MethodPost, "/api/v1/repos/load", `{"repo":"acme/shop","branch":"main"}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestCurrentAndClear(t *testing.T) {
	f := newFixture(nil)
	f.repos.On("Current").Return(service.RepoState{Owner: "acme", Repo: "shop", Error: "boom"})
	f.repos.On("ClearRepo").Return().Once()

	status, body := f.do(t, http.MethodGet, "/api/v1/repos/current", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "boom", body["error"])

	status, _ = f.do(t, http.MethodDelete, "/api/v1/repos/current", "")
	assert.Equal(t, http.StatusNoContent, status)
	f.repos.AssertExpectations(t)
}

func TestSearch(t *testing.T) {
	f := newFixture(nil)
	f.repos.On("Search", "login flow", 10).Return([]models.FileMetadata{{Path: "src/auth/login.ts", Score: 80}}, nil)
	f.repos.On("Search", "", 3).Return(nil, service.ErrNoRepoLoaded)

	status, body := f.do(t, http.MethodGet, "/api/v1/search?q=login+flow", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "authentication", body["domain"])
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "src/auth/login.ts", results[0].(map[string]interface{})["path"])

	status, _ = f.do(t, http.MethodGet, "/api/v1/search?k=3", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodGet, "/api/v1/search?q=x&k=0", "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = f.do(t, http.MethodGet, "/api/v1/search?q=x&k=abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTreeAndFiles(t *testing.T) {
	f := newFixture(nil)
	f.repos.On("Tree").Return("└── 📁 src", nil)
	f.repos.On("FileDetail", mock.Anything, "src/auth/login.ts").Return(service.FileDetail{
		File:     models.FileContent{Path: "src/auth/login.ts", Content: "x"},
		Metadata: &models.FileMetadata{Path: "src/auth/login.ts", Category: models.CategoryAuth},
	}, nil)
	f.repos.On("FileDetail", mock.Anything, "missing.ts").
		Return(service.FileDetail{}, fmt.Errorf("fetch missing.ts: %w", github.ErrNotFound))

	status, body := f.do(t, http.MethodGet, "/api/v1/tree", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "└── 📁 src", body["tree"])

	status, body = f.do(t, http.MethodGet, "/api/v1/files/src/auth/login.ts", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "auth", body["metadata"].(map[string]interface{})["category"])

	status, _ = f.do(t, http.MethodGet, "/api/v1/files/missing.ts", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestREADME(t *testing.T) {
	f := newFixture(nil)
	f.repos.On("README", mock.Anything, shop, true).Return(service.README{Path: "README.md", Content: "# Shop", Summary: "A shop."}, nil)

	status, body := f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/readme?summary=true", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "A shop.", body["summary"])

	status, _ = f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/readme?summary=maybe", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDependencies(t *testing.T) {
	f := newFixture(nil)
	f.repos.On("Dependencies", mock.Anything, shop).Return(models.DependencyReport{
		Owner: "acme", Repo: "shop", Branch: "main",
		Dependencies: []models.Dependency{{Name: "react", Version: "^18.2.0", Kind: models.DependencyProd}},
		Counts:       map[models.DependencyKind]int{models.DependencyProd: 1},
	}, nil)
	dev := service.RepoRef{Owner: "acme", Name: "shop", Branch: "develop"}
	f.repos.On("Dependencies", mock.Anything, dev).
		Return(models.DependencyReport{}, fmt.Errorf("fetch package.json: %w", github.ErrNotFound))
	broken := service.RepoRef{Owner: "acme", Name: "shop", Branch: "broken"}
	f.repos.On("Dependencies", mock.Anything, broken).
		Return(models.DependencyReport{}, fmt.Errorf("%w: unexpected end of JSON input", service.ErrMalformedManifest))

	status, body := f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/dependencies", "")
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body["dependencies"], 1)
	assert.Equal(t, "dependency", body["dependencies"].([]interface{})[0].(map[string]interface{})["type"])

	status, _ = f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/dependencies?branch=develop", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/dependencies?branch=broken", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestPulls(t *testing.T) {
	f := newFixture(nil)
	f.pulls.On("ListPullRequests", mock.Anything, shop, "open", 30).Return([]models.PullRequest{{Number: 5}}, nil)
	f.pulls.On("GetPullRequest", mock.Anything, shop, 5).Return(service.PRDetail{
		PRData: models.PRData{Number: 5, State: "merged"},
		Impact: models.PRImpact{models.BucketAPI: {"src/api/routes.ts"}},
	}, nil)
	f.pulls.On("GetPullRequest", mock.Anything, shop, 6).
		Return(service.PRDetail{}, fmt.Errorf("PR #6: %w", github.ErrRateLimited))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/acme/shop/pulls?state=open", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/pulls/5", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "merged", body["state"])
	assert.Contains(t, body["impact"], "api")

	status, _ = f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/pulls/6", "")
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, _ = f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/pulls/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProfiles(t *testing.T) {
	f := newFixture(nil)
	created := &models.UserProfile{ID: "4f6c1d2e-0000-4000-8000-000000000001", Skills: []string{"go"}, HasCompleted: true}
	f.issues.On("CreateProfile", mock.Anything, mock.AnythingOfType("models.ProfileRequest")).Return(created, nil)
	f.issues.On("GetProfile", mock.Anything, created.ID).Return(created, nil)
	f.issues.On("GetProfile", mock.Anything, "gone").Return(nil, service.ErrProfileNotFound)
	f.issues.On("UpdateProfile", mock.Anything, created.ID, mock.Anything).
		Return(nil, fmt.Errorf("%w: tech_stack", service.ErrInvalidInput))
	f.issues.On("DeleteProfile", mock.Anything, created.ID).Return(nil)

	status, body := f.do(t, http.MethodPost, "/api/v1/profiles", `{"skills":["go"],"has_completed":true}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, created.ID, body["id"])

	status, _ = f.do(t, http.MethodGet, "/api/v1/profiles/"+created.ID, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodGet, "/api/v1/profiles/gone", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodPut, "/api/v1/profiles/"+created.ID, `{"tech_stack":[{"name":"Go","knowledge_level":"guru"}]}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodDelete, "/api/v1/profiles/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestExplore(t *testing.T) {
	f := newFixture(nil)
	f.issues.On("Explore", mock.Anything, models.ExploreRequest{ProfileID: "p1", SearchAllRepos: true}).Return(service.ExploreResult{
		Query:   "is:issue is:open no:assignee",
		Results: []models.IssueMatchResult{{Issue: models.Issue{Number: 3}, MatchScore: 23}},
	}, nil)
	f.issues.On("Explore", mock.Anything, models.ExploreRequest{ProfileID: "p2"}).
		Return(service.ExploreResult{}, errors.New("mongo down"))

	status, body := f.do(t, http.MethodPost, "/api/v1/issues/explore", `{"profile_id":"p1","search_all_repos":true}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["results"], 1)

	status, body = f.do(t, http.MethodPost, "/api/v1/issues/explore", `{"profile_id":"p2"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "mongo down", body["error"])
}

func TestRepoIssues(t *testing.T) {
	f := newFixture(nil)
	profileID := "4f6c1d2e-0000-4000-8000-000000000001"
	f.issues.On("RepoIssues", mock.Anything, shop, service.RepoIssuesQuery{State: "open", PerPage: 30, ProfileID: profileID}).
		Return([]models.IssueMatchResult{{Issue: models.Issue{Number: 3}, MatchScore: 23}}, nil)
	f.issues.On("RepoIssue", mock.Anything, shop, 3, "").
		Return(models.IssueMatchResult{Issue: models.Issue{Number: 3, Title: "React hook bug"}}, nil)
	f.issues.On("RepoIssue", mock.Anything, shop, 9, "").
		Return(models.IssueMatchResult{}, fmt.Errorf("get issue: %w", github.ErrNotFound))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/acme/shop/issues?profile_id="+profileID, nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []models.IssueMatchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, 23, listed[0].MatchScore)

	status, body := f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/issues/3", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "React hook bug", body["issue"].(map[string]interface{})["title"])

	status, _ = f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/issues/9", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodGet, "/api/v1/repos/acme/shop/issues/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthAndRateLimit(t *testing.T) {
	f := newFixture(nil)
	f.gh.On("RateLimit", mock.Anything).Return(models.RateLimitInfo{Limit: 5000, Remaining: 4999, Percentage: 99}, nil)

	status, body := f.do(t, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = f.do(t, http.MethodGet, "/api/v1/rate-limit", "")
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 4999, body["remaining"])

	down := newFixture(errors.New("no primary"))
	status, body = down.do(t, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
}
