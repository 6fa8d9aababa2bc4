package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ahmednasr/contexthub/internal/models"
	"github.com/ahmednasr/contexthub/internal/smartsearch"
	"github.com/ahmednasr/contexthub/internal/treebuilder"
)

// ---- Collaborator contracts ------------------------------------------------

// RepoFetcher is the subset of the GitHub client the repo service needs.
type RepoFetcher interface {
	FetchRepoTree(ctx context.Context, owner, repo, branch string) ([]models.TreeItem, error)
	FetchFileContent(ctx context.Context, owner, repo, path, branch string) (models.FileContent, error)
	FetchREADME(ctx context.Context, owner, repo, branch string) (models.FileContent, error)
}

// IndexStore persists built indexes between runs.
type IndexStore interface {
	Find(ctx context.Context, owner, repo, branch string) (*models.StoredIndex, error)
	Upsert(ctx context.Context, s models.StoredIndex) error
	Delete(ctx context.Context, owner, repo, branch string) error
}

// ErrNoRepoLoaded is returned by lookups before any repository is indexed.
var ErrNoRepoLoaded = fmt.Errorf("%w: no repository loaded", ErrNotFound)

// ErrSuperseded means a newer load or a clear replaced this build.
var ErrSuperseded = errors.New("load superseded by a newer request")

const (
	treeDepth   = 4
	loadTimeout = 5 * time.Minute
)

// ---- Return DTOs -----------------------------------------------------------

// FileDetail is a fetched file plus its on-demand analysis.
type FileDetail struct {
	File     models.FileContent   `json:"file"`
	Metadata *models.FileMetadata `json:"metadata,omitempty"`
}

// README is a repository README with an optional model summary.
type README struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Summary string `json:"summary,omitempty"`
}

// ---- Service ---------------------------------------------------------------

// RepoService loads a repository into the index and answers queries over it.
type RepoService struct {
	gh      RepoFetcher
	store   IndexStore
	indexer *smartsearch.Indexer
	state   *AppState
	llm     LLMClient
	now     func() time.Time

	wg sync.WaitGroup
}

// NewRepoService wires dependencies. store and llm may be nil.
func NewRepoService(gh RepoFetcher, store IndexStore, indexer *smartsearch.Indexer, state *AppState, llm LLMClient) *RepoService {
	if llm == nil {
		llm = NewDummyLLM()
	}
	return &RepoService{
		gh:      gh,
		store:   store,
		indexer: indexer,
		state:   state,
		llm:     llm,
		now:     time.Now,
	}
}

// Current returns the loaded repository state.
func (s *RepoService) Current() RepoState { return s.state.Snapshot() }

// LoadRepo indexes ref synchronously. An already loaded ref returns at once.
func (s *RepoService) LoadRepo(ctx context.Context, ref RepoRef) (RepoState, error) {
	if s.state.IsLoaded(ref) {
		log.Printf("[Repo Service] %s already loaded", ref)
		return s.state.Snapshot(), nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	gen := s.state.Begin(ref, cancel)
	return s.load(ctx, gen, ref)
}

// StartLoad begins indexing ref in the background and returns the state
// immediately, already marked as indexing.
func (s *RepoService) StartLoad(ref RepoRef) RepoState {
	if s.state.IsLoaded(ref) {
		return s.state.Snapshot()
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	gen := s.state.Begin(ref, cancel)
	snap := s.state.Snapshot()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		if _, err := s.load(ctx, gen, ref); err != nil {
			log.Printf("[Repo Service] Background load of %s failed: %v", ref, err)
		}
	}()
	return snap
}

// Wait blocks until background loads have finished.
func (s *RepoService) Wait() { s.wg.Wait() }

func (s *RepoService) load(ctx context.Context, gen uint64, ref RepoRef) (RepoState, error) {
	fail := func(err error) (RepoState, error) {
		s.state.Fail(gen, err)
		return s.state.Snapshot(), err
	}

	if stored := s.cached(ctx, ref); stored != nil {
		at := stored.IndexedAt
		if at.IsZero() {
			at = s.now().UTC()
		}
		if !s.state.Commit(gen, stored.Index, stored.TreeStructure, at) {
			return s.state.Snapshot(), ErrSuperseded
		}
		log.Printf("[Repo Service] Loaded %s from cache (%d files)", ref, stored.Index.Len())
		return s.state.Snapshot(), nil
	}

	tree, err := s.gh.FetchRepoTree(ctx, ref.Owner, ref.Name, ref.Branch)
	if err != nil {
		return fail(err)
	}

	res, err := s.indexer.Build(ctx, tree, ref.Owner, ref.Name, ref.Branch)
	if err != nil {
		return fail(err)
	}

	paths := make([]string, 0, len(tree))
	for _, item := range tree {
		paths = append(paths, item.Path)
	}
	diagram := treebuilder.GenerateTreeDiagram(paths, treeDepth)
	at := s.now().UTC()

	if s.store != nil {
		err := s.store.Upsert(ctx, models.StoredIndex{
			ID:            models.IndexID(ref.Owner, ref.Name, ref.Branch),
			Owner:         ref.Owner,
			Repo:          ref.Name,
			Branch:        ref.Branch,
			Index:         res.Index,
			TreeStructure: diagram,
			IndexedAt:     at,
		})
		if err != nil {
			// Non-fatal: the index is still usable for this session.
			log.Printf("[Repo Service] Failed to persist index for %s: %v", ref, err)
		}
	}

	if !s.state.Commit(gen, res.Index, diagram, at) {
		return s.state.Snapshot(), ErrSuperseded
	}
	log.Printf("[Repo Service] Indexed %s: %d files, %d skipped", ref, res.Index.Len(), len(res.Skipped))
	return s.state.Snapshot(), nil
}

func (s *RepoService) cached(ctx context.Context, ref RepoRef) *models.StoredIndex {
	if s.store == nil {
		return nil
	}
	stored, err := s.store.Find(ctx, ref.Owner, ref.Name, ref.Branch)
	if err != nil {
		log.Printf("[Repo Service] Index cache lookup for %s failed: %v", ref, err)
		return nil
	}
	if stored == nil || stored.Index.Len() == 0 {
		return nil
	}
	return stored
}

// Reindex drops the stored index for ref and loads it again in the background.
func (s *RepoService) Reindex(ctx context.Context, ref RepoRef) (RepoState, error) {
	if s.store != nil {
		if err := s.store.Delete(ctx, ref.Owner, ref.Name, ref.Branch); err != nil {
			return RepoState{}, err
		}
	}
	s.state.Clear()
	return s.StartLoad(ref), nil
}

// ClearRepo forgets the loaded repository and cancels any build in flight.
func (s *RepoService) ClearRepo() {
	s.state.Clear()
	log.Printf("[Repo Service] Cleared repository state")
}

// Search resolves a free-text query against the loaded index. A blank query
// returns no results.
func (s *RepoService) Search(query string, k int) ([]models.FileMetadata, error) {
	if strings.TrimSpace(query) == "" {
		return []models.FileMetadata{}, nil
	}
	snap := s.state.Snapshot()
	if !snap.Loaded() {
		return nil, ErrNoRepoLoaded
	}
	return smartsearch.ResolveQueryTopK(query, snap.Index, k), nil
}

// Tree returns the diagram of the loaded repository.
func (s *RepoService) Tree() (string, error) {
	snap := s.state.Snapshot()
	if !snap.Loaded() {
		return "", ErrNoRepoLoaded
	}
	return snap.TreeStructure, nil
}

// FileDetail fetches path from the loaded repository and analyses it.
func (s *RepoService) FileDetail(ctx context.Context, path string) (FileDetail, error) {
	snap := s.state.Snapshot()
	if snap.Owner == "" {
		return FileDetail{}, ErrNoRepoLoaded
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return FileDetail{}, fmt.Errorf("%w: file path is required", ErrInvalidInput)
	}

	fc, err := s.gh.FetchFileContent(ctx, snap.Owner, snap.Repo, path, snap.Branch)
	if err != nil {
		return FileDetail{}, err
	}
	if fc.Binary {
		return FileDetail{File: fc}, nil
	}
	meta := smartsearch.AnalyzeFile(fc.Path, fc.Content)
	meta.Content = ""
	return FileDetail{File: fc, Metadata: &meta}, nil
}

// README fetches the README of ref and optionally summarizes it. A missing
// model leaves the summary empty.
func (s *RepoService) README(ctx context.Context, ref RepoRef, summarize bool) (README, error) {
	fc, err := s.gh.FetchREADME(ctx, ref.Owner, ref.Name, ref.Branch)
	if err != nil {
		return README{}, err
	}
	out := README{Path: fc.Path, Content: fc.Content}
	if !summarize || fc.Content == "" {
		return out, nil
	}

	summary, err := summarizeREADME(ctx, s.llm, ref, fc.Content)
	switch {
	case errors.Is(err, ErrAIUnavailable):
	case err != nil:
		log.Printf("[Repo Service] README summary for %s failed: %v", ref, err)
	default:
		out.Summary = summary
	}
	return out, nil
}
