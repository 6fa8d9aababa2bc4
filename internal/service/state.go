package service

import (
	"context"
	"sync"
	"time"

	"github.com/ahmednasr/contexthub/internal/models"
)

// RepoState is a point-in-time view of the loaded repository.
type RepoState struct {
	Owner         string                `json:"owner,omitempty"`
	Repo          string                `json:"repo,omitempty"`
	Branch        string                `json:"branch,omitempty"`
	Index         models.RepoIndex      `json:"-"`
	TreeStructure string                `json:"-"`
	IsIndexing    bool                  `json:"is_indexing"`
	Error         string                `json:"error,omitempty"`
	IndexedAt     time.Time             `json:"indexed_at,omitempty"`
	FileCounts    map[models.Bucket]int `json:"file_counts,omitempty"`
}

// Loaded reports whether a finished index is available.
func (s RepoState) Loaded() bool {
	return s.Owner != "" && !s.IsIndexing && s.Error == "" && !s.IndexedAt.IsZero()
}

// AppState holds the currently explored repository. Each Begin starts a new
// generation; results from older generations are discarded.
type AppState struct {
	mu     sync.RWMutex
	cur    RepoState
	gen    uint64
	cancel context.CancelFunc
}

// NewAppState returns an empty state.
func NewAppState() *AppState { return &AppState{} }

// Snapshot returns a copy of the current state.
func (s *AppState) Snapshot() RepoState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// IsLoaded reports whether ref is loaded with a non-empty index. Empty
// indexes are rebuilt on the next load.
func (s *AppState) IsLoaded(ref RepoRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Loaded() && s.cur.Index.Len() > 0 && s.cur.Owner == ref.Owner && s.cur.Repo == ref.Name && s.cur.Branch == ref.Branch
}

// Begin marks ref as indexing, cancelling any build still in flight, and
// returns the generation the caller must pass to Commit or Fail.
func (s *AppState) Begin(ref RepoRef, cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.cancel = cancel
	s.cur = RepoState{Owner: ref.Owner, Repo: ref.Name, Branch: ref.Branch, IsIndexing: true}
	return s.gen
}

// Commit publishes a finished index. It returns false when gen is stale.
func (s *AppState) Commit(gen uint64, idx models.RepoIndex, tree string, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.cur.Index = idx
	s.cur.TreeStructure = tree
	s.cur.IndexedAt = at
	s.cur.FileCounts = idx.Counts()
	s.cur.IsIndexing = false
	s.cur.Error = ""
	s.cancel = nil
	return true
}

// Fail records a build error. It returns false when gen is stale.
func (s *AppState) Fail(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.cur.IsIndexing = false
	s.cur.Error = err.Error()
	s.cancel = nil
	return true
}

// Clear forgets the current repository and cancels any build in flight.
func (s *AppState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.cur = RepoState{}
}
