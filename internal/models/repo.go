package models

import "time"

// Category is the single classification label assigned to a source file.
type Category string

const (
	CategoryAuth     Category = "auth"
	CategoryPayment  Category = "payment"
	CategoryAPI      Category = "api"
	CategoryDatabase Category = "database"
	CategoryTesting  Category = "testing"
	CategoryConfig   Category = "config"
	CategoryOther    Category = "other"
)

// Bucket names one of the seven collections inside a RepoIndex.
type Bucket string

const (
	BucketAuthentication Bucket = "authentication"
	BucketPayments       Bucket = "payments"
	BucketAPI            Bucket = "api"
	BucketDatabase       Bucket = "database"
	BucketTesting        Bucket = "testing"
	BucketConfig         Bucket = "config"
	BucketOther          Bucket = "other"
)

// Buckets lists every bucket in canonical order.
var Buckets = []Bucket{
	BucketAuthentication,
	BucketPayments,
	BucketAPI,
	BucketDatabase,
	BucketTesting,
	BucketConfig,
	BucketOther,
}

// categoryBuckets is the exhaustive category → bucket routing table.
var categoryBuckets = map[Category]Bucket{
	CategoryAuth:     BucketAuthentication,
	CategoryPayment:  BucketPayments,
	CategoryAPI:      BucketAPI,
	CategoryDatabase: BucketDatabase,
	CategoryTesting:  BucketTesting,
	CategoryConfig:   BucketConfig,
	CategoryOther:    BucketOther,
}

// BucketFor returns the bucket a category is filed under. Unknown categories
// land in BucketOther.
func BucketFor(c Category) Bucket {
	if b, ok := categoryBuckets[c]; ok {
		return b
	}
	return BucketOther
}

// FileMetadata is one analyzed source file.
type FileMetadata struct {
	Path      string   `bson:"path"              json:"path"`
	Content   string   `bson:"content,omitempty" json:"content,omitempty"`
	Keywords  []string `bson:"keywords"          json:"keywords"`
	Imports   []string `bson:"imports"           json:"imports"`
	Exports   []string `bson:"exports"           json:"exports"`
	Functions []string `bson:"functions"         json:"functions"`
	Category  Category `bson:"category"          json:"category"`
	Score     int      `bson:"-"                 json:"score,omitempty"` // set by the resolver only
}

// RepoIndex is the categorized index for one repository@branch.
type RepoIndex struct {
	Authentication []FileMetadata `bson:"authentication" json:"authentication"`
	Payments       []FileMetadata `bson:"payments"       json:"payments"`
	API            []FileMetadata `bson:"api"            json:"api"`
	Database       []FileMetadata `bson:"database"       json:"database"`
	Testing        []FileMetadata `bson:"testing"        json:"testing"`
	Config         []FileMetadata `bson:"config"         json:"config"`
	Other          []FileMetadata `bson:"other"          json:"other"`
}

// NewRepoIndex returns an index with all seven buckets present and empty.
func NewRepoIndex() RepoIndex {
	return RepoIndex{
		Authentication: []FileMetadata{},
		Payments:       []FileMetadata{},
		API:            []FileMetadata{},
		Database:       []FileMetadata{},
		Testing:        []FileMetadata{},
		Config:         []FileMetadata{},
		Other:          []FileMetadata{},
	}
}

func (idx *RepoIndex) slot(b Bucket) *[]FileMetadata {
	switch b {
	case BucketAuthentication:
		return &idx.Authentication
	case BucketPayments:
		return &idx.Payments
	case BucketAPI:
		return &idx.API
	case BucketDatabase:
		return &idx.Database
	case BucketTesting:
		return &idx.Testing
	case BucketConfig:
		return &idx.Config
	default:
		return &idx.Other
	}
}

// Bucket returns the files filed under b.
func (idx RepoIndex) Bucket(b Bucket) []FileMetadata {
	return *idx.slot(b)
}

// Add files meta under the bucket of its category.
func (idx *RepoIndex) Add(meta FileMetadata) {
	s := idx.slot(BucketFor(meta.Category))
	*s = append(*s, meta)
}

// All concatenates every bucket in canonical order.
func (idx RepoIndex) All() []FileMetadata {
	out := make([]FileMetadata, 0, idx.Len())
	for _, b := range Buckets {
		out = append(out, idx.Bucket(b)...)
	}
	return out
}

// Len is the total number of indexed files.
func (idx RepoIndex) Len() int {
	n := 0
	for _, b := range Buckets {
		n += len(idx.Bucket(b))
	}
	return n
}

// Counts reports the size of each bucket.
func (idx RepoIndex) Counts() map[Bucket]int {
	counts := make(map[Bucket]int, len(Buckets))
	for _, b := range Buckets {
		counts[b] = len(idx.Bucket(b))
	}
	return counts
}

// TreeItem is one entry of a recursive git tree listing.
type TreeItem struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"` // "blob" | "tree"
	SHA  string `json:"sha"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
}

const (
	TreeItemBlob = "blob"
	TreeItemTree = "tree"
)

// FileContent is the result of a contents lookup. Binary files carry a
// download URL instead of text.
type FileContent struct {
	Path        string `json:"path"`
	Content     string `json:"content,omitempty"`
	Binary      bool   `json:"binary"`
	DownloadURL string `json:"download_url,omitempty"`
}

// StoredIndex is the persisted form of a built index.
type StoredIndex struct {
	ID            string    `bson:"_id"            json:"id"` // "owner/repo@branch"
	Owner         string    `bson:"owner"          json:"owner"`
	Repo          string    `bson:"repo"           json:"repo"`
	Branch        string    `bson:"branch"         json:"branch"`
	Index         RepoIndex `bson:"index"          json:"index"`
	TreeStructure string    `bson:"tree_structure" json:"tree_structure"`
	IndexedAt     time.Time `bson:"indexed_at"     json:"indexed_at"`
}

// IndexID is the storage key for owner/repo@branch.
func IndexID(owner, repo, branch string) string {
	return owner + "/" + repo + "@" + branch
}

// RateLimitInfo mirrors GitHub's core rate limit bucket.
type RateLimitInfo struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	Remaining  int       `json:"remaining"`
	Reset      time.Time `json:"reset"`
	Percentage int       `json:"percentage"`
}
