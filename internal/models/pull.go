package models

import "time"

// PullRequest is a pull request as listed or fetched from GitHub.
type PullRequest struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Body         string     `json:"body,omitempty"`
	State        string     `json:"state"`
	Draft        bool       `json:"draft"`
	HTMLURL      string     `json:"html_url"`
	User         IssueUser  `json:"user"`
	Labels       []Label    `json:"labels"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	MergedAt     *time.Time `json:"merged_at"`
	Additions    int        `json:"additions,omitempty"`
	Deletions    int        `json:"deletions,omitempty"`
	ChangedFiles int        `json:"changed_files,omitempty"`
	Commits      int        `json:"commits,omitempty"`
}

// PRFile is one file touched by a pull request.
type PRFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}

// PRData is a pull request together with its changed files.
type PRData struct {
	Number       int      `json:"number"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	State        string   `json:"state"` // open | closed | merged
	FilesChanged int      `json:"files_changed"`
	Additions    int      `json:"additions"`
	Deletions    int      `json:"deletions"`
	ChangedFiles []PRFile `json:"changed_files"`
}

// PRImpact groups the changed files of a pull request by bucket.
type PRImpact map[Bucket][]string
