package handler

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ahmednasr/contexthub/internal/models"
	"github.com/ahmednasr/contexthub/internal/service"
)

type mockRepos struct{ mock.Mock }

func (m *mockRepos) Current() service.RepoState {
	return m.Called().Get(0).(service.RepoState)
}

func (m *mockRepos) StartLoad(ref service.RepoRef) service.RepoState {
	return m.Called(ref).Get(0).(service.RepoState)
}

func (m *mockRepos) Reindex(ctx context.Context, ref service.RepoRef) (service.RepoState, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(service.RepoState), args.Error(1)
}

func (m *mockRepos) ClearRepo() { m.Called() }

func (m *mockRepos) Tree() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockRepos) FileDetail(ctx context.Context, path string) (service.FileDetail, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(service.FileDetail), args.Error(1)
}

func (m *mockRepos) README(ctx context.Context, ref service.RepoRef, summarize bool) (service.README, error) {
	args := m.Called(ctx, ref, summarize)
	return args.Get(0).(service.README), args.Error(1)
}

func (m *mockRepos) Dependencies(ctx context.Context, ref service.RepoRef) (models.DependencyReport, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(models.DependencyReport), args.Error(1)
}

func (m *mockRepos) Search(query string, k int) ([]models.FileMetadata, error) {
	args := m.Called(query, k)
	r, _ := args.Get(0).([]models.FileMetadata)
	return r, args.Error(1)
}

type mockPulls struct{ mock.Mock }

func (m *mockPulls) ListPullRequests(ctx context.Context, ref service.RepoRef, state string, perPage int) ([]models.PullRequest, error) {
	args := m.Called(ctx, ref, state, perPage)
	r, _ := args.Get(0).([]models.PullRequest)
	return r, args.Error(1)
}

func (m *mockPulls) GetPullRequest(ctx context.Context, ref service.RepoRef, number int) (service.PRDetail, error) {
	args := m.Called(ctx, ref, number)
	return args.Get(0).(service.PRDetail), args.Error(1)
}

type mockIssues struct{ mock.Mock }

func (m *mockIssues) CreateProfile(ctx context.Context, req models.ProfileRequest) (*models.UserProfile, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(*models.UserProfile)
	return p, args.Error(1)
}

func (m *mockIssues) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.UserProfile)
	return p, args.Error(1)
}

func (m *mockIssues) UpdateProfile(ctx context.Context, id string, req models.ProfileRequest) (*models.UserProfile, error) {
	args := m.Called(ctx, id, req)
	p, _ := args.Get(0).(*models.UserProfile)
	return p, args.Error(1)
}

func (m *mockIssues) DeleteProfile(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockIssues) Explore(ctx context.Context, req models.ExploreRequest) (service.ExploreResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(service.ExploreResult), args.Error(1)
}

func (m *mockIssues) RepoIssues(ctx context.Context, ref service.RepoRef, q service.RepoIssuesQuery) ([]models.IssueMatchResult, error) {
	args := m.Called(ctx, ref, q)
	r, _ := args.Get(0).([]models.IssueMatchResult)
	return r, args.Error(1)
}

func (m *mockIssues) RepoIssue(ctx context.Context, ref service.RepoRef, number int, profileID string) (models.IssueMatchResult, error) {
	args := m.Called(ctx, ref, number, profileID)
	return args.Get(0).(models.IssueMatchResult), args.Error(1)
}

type mockPinger struct{ err error }

func (p mockPinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

type mockRateLimiter struct{ mock.Mock }

func (m *mockRateLimiter) RateLimit(ctx context.Context) (models.RateLimitInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.RateLimitInfo), args.Error(1)
}
