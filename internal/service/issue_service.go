package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmednasr/contexthub/internal/github"
	"github.com/ahmednasr/contexthub/internal/matcher"
	"github.com/ahmednasr/contexthub/internal/models"
)

// ---- Repository layer contracts -------------------------------------------

// ProfileStore persists onboarding profiles.
type ProfileStore interface {
	Get(ctx context.Context, id string) (*models.UserProfile, error)
	Set(ctx context.Context, p *models.UserProfile) error
	Delete(ctx context.Context, id string) error
}

// IssueCache stores ranked results per profile and scope.
type IssueCache interface {
	Get(ctx context.Context, key, profileHash string) ([]models.IssueMatchResult, error)
	Set(ctx context.Context, key, profileHash string, results []models.IssueMatchResult) error
	Clear(ctx context.Context, key string) error
}

// IssueSearcher is the subset of the GitHub client the issue service needs.
type IssueSearcher interface {
	SearchIssues(ctx context.Context, p github.IssueSearchParams) ([]models.Issue, error)
	ListRepoIssues(ctx context.Context, owner, repo, state string, perPage int) ([]models.Issue, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (models.Issue, error)
}

// ErrProfileNotFound is returned for unknown or expired profiles.
var ErrProfileNotFound = fmt.Errorf("%w: profile", ErrNotFound)

const (
	defaultExplorePerPage = 20
	summarizedResults     = 3
)

// RepoIssuesQuery filters and optionally ranks the issues of one repository.
type RepoIssuesQuery struct {
	State     string `validate:"omitempty,oneof=open closed all"`
	PerPage   int    `validate:"omitempty,min=1,max=100"`
	ProfileID string `validate:"omitempty,uuid"`
}

type issueParams struct {
	Number    int    `validate:"gt=0"`
	ProfileID string `validate:"omitempty,uuid"`
}

// ExploreResult is the response of Explore.
type ExploreResult struct {
	Query          string                    `json:"query"`
	KnowledgeLevel models.KnowledgeLevel     `json:"knowledge_level"`
	Results        []models.IssueMatchResult `json:"results"`
	Cached         bool                      `json:"cached"`
}

// IssueService manages profiles and matches open issues against them.
type IssueService struct {
	gh       IssueSearcher
	profiles ProfileStore
	cache    IssueCache
	llm      LLMClient
	now      func() time.Time
}

// NewIssueService wires dependencies. cache and llm may be nil.
func NewIssueService(gh IssueSearcher, profiles ProfileStore, cache IssueCache, llm LLMClient) *IssueService {
	if llm == nil {
		llm = NewDummyLLM()
	}
	return &IssueService{
		gh:       gh,
		profiles: profiles,
		cache:    cache,
		llm:      llm,
		now:      time.Now,
	}
}

// CreateProfile stores a new profile under a fresh id.
func (s *IssueService) CreateProfile(ctx context.Context, req models.ProfileRequest) (*models.UserProfile, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	p := &models.UserProfile{
		ID:           uuid.NewString(),
		Skills:       cleanSkills(req.Skills),
		TechStack:    req.TechStack,
		HasCompleted: req.HasCompleted,
	}
	if err := s.profiles.Set(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("[Issue Service] Created profile %s", p.ID)
	return p, nil
}

// GetProfile returns a stored profile.
func (s *IssueService) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, fmt.Errorf("%w: profile id %q", ErrInvalidInput, id)
	}
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// UpdateProfile replaces the skills and tech stack of an existing profile.
func (s *IssueService) UpdateProfile(ctx context.Context, id string, req models.ProfileRequest) (*models.UserProfile, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	p, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Skills = cleanSkills(req.Skills)
	p.TechStack = req.TechStack
	p.HasCompleted = req.HasCompleted
	if err := s.profiles.Set(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProfile removes a profile.
func (s *IssueService) DeleteProfile(ctx context.Context, id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%w: profile id %q", ErrInvalidInput, id)
	}
	return s.profiles.Delete(ctx, id)
}

// Explore finds open issues suited to the profile, ranked best first.
func (s *IssueService) Explore(ctx context.Context, req models.ExploreRequest) (ExploreResult, error) {
	if err := validateStruct(req); err != nil {
		return ExploreResult{}, err
	}
	profile, err := s.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return ExploreResult{}, err
	}
	if !profile.HasCompleted {
		return ExploreResult{}, fmt.Errorf("%w: complete onboarding before exploring issues", ErrInvalidInput)
	}

	params := github.IssueSearchParams{
		Languages:      matcher.Languages(*profile),
		Labels:         req.Labels,
		KnowledgeLevel: matcher.MaxKnowledgeLevel(profile.TechStack),
		PerPage:        req.PerPage,
		RepoURL:        req.RepoURL,
		SearchAllRepos: req.SearchAllRepos,
	}
	if params.PerPage == 0 {
		params.PerPage = defaultExplorePerPage
	}
	out := ExploreResult{
		Query:          github.BuildIssueQuery(params),
		KnowledgeLevel: params.KnowledgeLevel,
	}

	hash := matcher.ProfileHash(*profile)
	key := cacheKey(profile.ID, req)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key, hash)
		if err != nil {
			log.Printf("[Issue Service] Cache lookup %s failed: %v", key, err)
		}
		if cached != nil {
			out.Results, out.Cached = cached, true
			return out, nil
		}
	}

	issues, err := s.gh.SearchIssues(ctx, params)
	if err != nil {
		return ExploreResult{}, err
	}
	results := matcher.MatchIssuesAt(issues, *profile, s.now())
	s.attachSummaries(ctx, results)
	log.Printf("[Issue Service] %d of %d issues matched profile %s", len(results), len(issues), profile.ID)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, hash, results); err != nil {
			log.Printf("[Issue Service] Failed to cache %s: %v", key, err)
		}
	}
	out.Results = results
	return out, nil
}

// RepoIssues lists the issues of ref. Without a profile they are returned
// unscored in GitHub's order; with one they are ranked and non-matching
// issues are dropped.
func (s *IssueService) RepoIssues(ctx context.Context, ref RepoRef, q RepoIssuesQuery) ([]models.IssueMatchResult, error) {
	if err := validateStruct(q); err != nil {
		return nil, err
	}
	if q.State == "" {
		q.State = "open"
	}

	var profile *models.UserProfile
	if q.ProfileID != "" {
		p, err := s.GetProfile(ctx, q.ProfileID)
		if err != nil {
			return nil, err
		}
		profile = p
	}

	issues, err := s.gh.ListRepoIssues(ctx, ref.Owner, ref.Name, q.State, q.PerPage)
	if err != nil {
		return nil, fmt.Errorf("list issues for %s/%s: %w", ref.Owner, ref.Name, err)
	}
	log.Printf("[Issue Service] Fetched %d %s issues for %s/%s", len(issues), q.State, ref.Owner, ref.Name)

	if profile == nil {
		out := make([]models.IssueMatchResult, len(issues))
		for i, is := range issues {
			out[i] = models.IssueMatchResult{Issue: is, MatchReasons: []string{}}
		}
		return out, nil
	}
	return matcher.MatchIssuesAt(issues, *profile, s.now()), nil
}

// RepoIssue fetches one issue of ref, scored against the profile when one is
// given, with a model summary when available.
func (s *IssueService) RepoIssue(ctx context.Context, ref RepoRef, number int, profileID string) (models.IssueMatchResult, error) {
	if err := validateStruct(issueParams{Number: number, ProfileID: profileID}); err != nil {
		return models.IssueMatchResult{}, err
	}

	var profile *models.UserProfile
	if profileID != "" {
		p, err := s.GetProfile(ctx, profileID)
		if err != nil {
			return models.IssueMatchResult{}, err
		}
		profile = p
	}

	issue, err := s.gh.GetIssue(ctx, ref.Owner, ref.Name, number)
	if err != nil {
		return models.IssueMatchResult{}, fmt.Errorf("get issue %s/%s#%d: %w", ref.Owner, ref.Name, number, err)
	}

	res := models.IssueMatchResult{Issue: issue, MatchReasons: []string{}}
	if profile != nil {
		res = matcher.ScoreIssue(issue, *profile, s.now())
	}
	one := []models.IssueMatchResult{res}
	s.attachSummaries(ctx, one)
	return one[0], nil
}

// attachSummaries fills AISummary for the top results. Failures leave the
// summary empty.
func (s *IssueService) attachSummaries(ctx context.Context, results []models.IssueMatchResult) {
	for i := 0; i < len(results) && i < summarizedResults; i++ {
		summary, err := summarizeIssue(ctx, s.llm, results[i].Issue)
		if errors.Is(err, ErrAIUnavailable) {
			return
		}
		if err != nil {
			log.Printf("[Issue Service] Summary for issue #%d failed: %v", results[i].Issue.Number, err)
			continue
		}
		results[i].AISummary = summary
	}
}

// cacheKey scopes cached results by profile, repository filter and labels.
func cacheKey(profileID string, req models.ExploreRequest) string {
	scope := "all"
	if !req.SearchAllRepos && req.RepoURL != "" {
		if repo, ok := github.ParseRepoFilter(req.RepoURL); ok {
			scope = repo
		}
	}
	labels := append([]string(nil), req.Labels...)
	sort.Strings(labels)
	return fmt.Sprintf("%s:%s:%s:%d", profileID, scope, strings.Join(labels, ","), req.PerPage)
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := map[string]struct{}{}
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(s)]; ok {
			continue
		}
		seen[strings.ToLower(s)] = struct{}{}
		out = append(out, s)
	}
	return out
}
