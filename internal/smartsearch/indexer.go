package smartsearch

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ahmednasr/contexthub/internal/models"
)

const (
	// DefaultMaxFiles caps how many files one build fetches.
	DefaultMaxFiles = 150
	// DefaultBatchSize is the number of concurrent fetches per batch.
	DefaultBatchSize = 10
)

// ContentFetcher retrieves the text of one repository file.
type ContentFetcher interface {
	FetchFileContent(ctx context.Context, owner, repo, path, branch string) (models.FileContent, error)
}

// FileOutcome is the per-file result of a build: either Meta is set or the
// file was skipped for Reason.
type FileOutcome struct {
	Path   string
	Meta   *models.FileMetadata
	Reason string
	Err    error
}

// Skipped reports whether the file was left out of the index.
func (o FileOutcome) Skipped() bool { return o.Meta == nil }

// BuildResult is the outcome of one index build.
type BuildResult struct {
	Index    models.RepoIndex
	Selected int           // files chosen for fetching
	Skipped  []FileOutcome // files that failed or were unusable
}

// Indexer builds RepoIndex values from a tree listing.
type Indexer struct {
	fetcher     ContentFetcher
	maxFiles    int
	batchSize   int
	keepContent bool
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithMaxFiles overrides the per-build fetch cap.
func WithMaxFiles(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.maxFiles = n
		}
	}
}

// WithBatchSize overrides the number of concurrent fetches per batch.
func WithBatchSize(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

// WithKeepContent retains raw file text in the index.
func WithKeepContent(keep bool) Option {
	return func(ix *Indexer) { ix.keepContent = keep }
}

// NewIndexer wires a fetcher with the default limits.
func NewIndexer(fetcher ContentFetcher, opts ...Option) *Indexer {
	ix := &Indexer{
		fetcher:   fetcher,
		maxFiles:  DefaultMaxFiles,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// BuildRepoIndex builds an index with default settings.
func BuildRepoIndex(ctx context.Context, fetcher ContentFetcher, tree []models.TreeItem, owner, repo, branch string) (models.RepoIndex, error) {
	res, err := NewIndexer(fetcher).Build(ctx, tree, owner, repo, branch)
	if err != nil {
		return models.RepoIndex{}, err
	}
	return res.Index, nil
}

// Build filters and ranks the tree, fetches the top files batch by batch and
// files each analyzed file into its bucket. Individual fetch failures are
// logged and skipped. Cancellation of ctx at any point, including during a
// batch, aborts the build with ctx.Err() and no partial index.
func (ix *Indexer) Build(ctx context.Context, tree []models.TreeItem, owner, repo, branch string) (*BuildResult, error) {
	log.Printf("[Indexer] Building index for %s/%s@%s", owner, repo, branch)

	files := PrioritizeFiles(FilterCodeFiles(tree))
	if len(files) > ix.maxFiles {
		files = files[:ix.maxFiles]
	}
	log.Printf("[Indexer] Analyzing %d files", len(files))

	res := &BuildResult{Index: models.NewRepoIndex(), Selected: len(files)}
	analyzed := 0

	for start := 0; start < len(files); start += ix.batchSize {
		if err := ctx.Err(); err != nil {
			log.Printf("[Indexer] Build for %s/%s cancelled after %d files", owner, repo, analyzed)
			return nil, err
		}

		end := min(start+ix.batchSize, len(files))
		outcomes := ix.fetchBatch(ctx, files[start:end], owner, repo, branch)
		if err := ctx.Err(); err != nil {
			log.Printf("[Indexer] Build for %s/%s cancelled mid-batch after %d files", owner, repo, analyzed)
			return nil, err
		}

		for _, o := range outcomes {
			if o.Skipped() {
				log.Printf("[Indexer] Failed to analyze %s: %s", o.Path, o.Reason)
				res.Skipped = append(res.Skipped, o)
				continue
			}
			res.Index.Add(*o.Meta)
			analyzed++
		}
		log.Printf("[Indexer] Analyzed %d/%d files", analyzed, len(files))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Printf("[Indexer] Index complete for %s/%s: %v", owner, repo, res.Index.Counts())
	return res, nil
}

// fetchBatch fetches and analyzes one batch concurrently. Outcomes keep the
// batch's priority order regardless of completion order.
func (ix *Indexer) fetchBatch(ctx context.Context, batch []models.TreeItem, owner, repo, branch string) []FileOutcome {
	outcomes := make([]FileOutcome, len(batch))
	g, gctx := errgroup.WithContext(ctx)

	for i, item := range batch {
		g.Go(func() error {
			outcomes[i] = ix.analyzeOne(gctx, item.Path, owner, repo, branch)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return outcomes
}

func (ix *Indexer) analyzeOne(ctx context.Context, path, owner, repo, branch string) (out FileOutcome) {
	out.Path = path
	defer func() {
		if r := recover(); r != nil {
			out = FileOutcome{Path: path, Reason: fmt.Sprintf("analysis panicked: %v", r)}
		}
	}()

	fc, err := ix.fetcher.FetchFileContent(ctx, owner, repo, path, branch)
	if err != nil {
		out.Err = err
		out.Reason = err.Error()
		return out
	}
	if fc.Binary {
		out.Reason = "binary file"
		return out
	}

	meta := AnalyzeFile(path, fc.Content)
	if !ix.keepContent {
		meta.Content = ""
	}
	out.Meta = &meta
	return out
}
