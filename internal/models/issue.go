package models

import "time"

// Label is a GitHub issue label.
type Label struct {
	Name  string `json:"name"  bson:"name"`
	Color string `json:"color" bson:"color"`
}

// IssueUser is the issue author.
type IssueUser struct {
	Login     string `json:"login"      bson:"login"`
	AvatarURL string `json:"avatar_url" bson:"avatar_url"`
}

// IssueRepo identifies the repository an issue came from.
type IssueRepo struct {
	Owner    string `json:"owner"     bson:"owner"`
	Name     string `json:"name"      bson:"name"`
	FullName string `json:"full_name" bson:"full_name"`
}

// Issue captures the fields we care about from GitHub's REST API.
type Issue struct {
	ID            int64      `json:"id"             bson:"id"`
	Number        int        `json:"number"         bson:"number"`
	Title         string     `json:"title"          bson:"title"`
	Body          string     `json:"body"           bson:"body"`
	State         string     `json:"state"          bson:"state"`
	HTMLURL       string     `json:"html_url"       bson:"html_url"`
	RepositoryURL string     `json:"repository_url" bson:"repository_url"`
	Labels        []Label    `json:"labels"         bson:"labels"`
	Comments      int        `json:"comments"       bson:"comments"`
	CreatedAt     time.Time  `json:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"     bson:"updated_at"`
	User          IssueUser  `json:"user"           bson:"user"`
	Score         float64    `json:"score,omitempty" bson:"score,omitempty"`
	Repo          *IssueRepo `json:"repo,omitempty" bson:"repo,omitempty"`

	// PullRequest is non-nil when a search hit is a pull request.
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request,omitempty" bson:"-"`
}

// IssueMatchResult is an issue ranked against a user profile.
type IssueMatchResult struct {
	Issue        Issue    `json:"issue"                bson:"issue"`
	MatchScore   int      `json:"match_score"          bson:"match_score"`
	MatchReasons []string `json:"match_reasons"        bson:"match_reasons"`
	AISummary    string   `json:"ai_summary,omitempty" bson:"ai_summary,omitempty"`
}

// IssueCacheEntry is a cached Explore result. It is only valid for the
// profile it was computed from.
type IssueCacheEntry struct {
	Key         string             `json:"key"          bson:"_id"`
	ProfileHash string             `json:"profile_hash" bson:"profile_hash"`
	Results     []IssueMatchResult `json:"results"      bson:"results"`
	Timestamp   time.Time          `json:"timestamp"    bson:"timestamp"`
}
