package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ahmednasr/contexthub/internal/github"
	"github.com/ahmednasr/contexthub/internal/models"
)

type mockGitHub struct{ mock.Mock }

func (m *mockGitHub) FetchRepoTree(ctx context.Context, owner, repo, branch string) ([]models.TreeItem, error) {
	args := m.Called(ctx, owner, repo, branch)
	tree, _ := args.Get(0).([]models.TreeItem)
	return tree, args.Error(1)
}

func (m *mockGitHub) FetchFileContent(ctx context.Context, owner, repo, path, branch string) (models.FileContent, error) {
	args := m.Called(ctx, owner, repo, path, branch)
	return args.Get(0).(models.FileContent), args.Error(1)
}

func (m *mockGitHub) FetchREADME(ctx context.Context, owner, repo, branch string) (models.FileContent, error) {
	args := m.Called(ctx, owner, repo, branch)
	return args.Get(0).(models.FileContent), args.Error(1)
}

func (m *mockGitHub) ListPullRequests(ctx context.Context, owner, repo, state string, perPage int) ([]models.PullRequest, error) {
	args := m.Called(ctx, owner, repo, state, perPage)
	prs, _ := args.Get(0).([]models.PullRequest)
	return prs, args.Error(1)
}

func (m *mockGitHub) GetPullRequest(ctx context.Context, owner, repo string, number int) (models.PullRequest, error) {
	args := m.Called(ctx, owner, repo, number)
	return args.Get(0).(models.PullRequest), args.Error(1)
}

func (m *mockGitHub) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]models.PRFile, error) {
	args := m.Called(ctx, owner, repo, number)
	files, _ := args.Get(0).([]models.PRFile)
	return files, args.Error(1)
}

func (m *mockGitHub) SearchIssues(ctx context.Context, p github.IssueSearchParams) ([]models.Issue, error) {
	args := m.Called(ctx, p)
	issues, _ := args.Get(0).([]models.Issue)
	return issues, args.Error(1)
}

func (m *mockGitHub) ListRepoIssues(ctx context.Context, owner, repo, state string, perPage int) ([]models.Issue, error) {
	args := m.Called(ctx, owner, repo, state, perPage)
	issues, _ := args.Get(0).([]models.Issue)
	return issues, args.Error(1)
}

func (m *mockGitHub) GetIssue(ctx context.Context, owner, repo string, number int) (models.Issue, error) {
	args := m.Called(ctx, owner, repo, number)
	return args.Get(0).(models.Issue), args.Error(1)
}

type mockIndexStore struct{ mock.Mock }

func (m *mockIndexStore) Find(ctx context.Context, owner, repo, branch string) (*models.StoredIndex, error) {
	args := m.Called(ctx, owner, repo, branch)
	s, _ := args.Get(0).(*models.StoredIndex)
	return s, args.Error(1)
}

func (m *mockIndexStore) Upsert(ctx context.Context, s models.StoredIndex) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockIndexStore) Delete(ctx context.Context, owner, repo, branch string) error {
	return m.Called(ctx, owner, repo, branch).Error(0)
}

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.UserProfile)
	return p, args.Error(1)
}

func (m *mockProfiles) Set(ctx context.Context, p *models.UserProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfiles) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockIssueCache struct{ mock.Mock }

func (m *mockIssueCache) Get(ctx context.Context, key, hash string) ([]models.IssueMatchResult, error) {
	args := m.Called(ctx, key, hash)
	r, _ := args.Get(0).([]models.IssueMatchResult)
	return r, args.Error(1)
}

func (m *mockIssueCache) Set(ctx context.Context, key, hash string, results []models.IssueMatchResult) error {
	return m.Called(ctx, key, hash, results).Error(0)
}

func (m *mockIssueCache) Clear(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockLLM struct{ mock.Mock }

func (m *mockLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
