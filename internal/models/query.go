package models

// SearchRequest is the payload for GET /search.
type SearchRequest struct {
	Query string `json:"q" query:"q"` // free-text query
	TopK  int    `json:"k" query:"k"` // optional; default handled in handler
}

// LoadRepoRequest is the payload for POST /repos/load.
type LoadRepoRequest struct {
	Repo   string `json:"repo"`   // "owner/repo" or a github.com URL
	Branch string `json:"branch"` // defaults to "main"
}

// ProfileRequest is the payload for POST /profiles and PUT /profiles/:id.
type ProfileRequest struct {
	Skills       []string    `json:"skills"`
	TechStack    []TechStack `json:"tech_stack" validate:"dive"`
	HasCompleted bool        `json:"has_completed"`
}

// ExploreRequest is the payload for POST /issues/explore.
type ExploreRequest struct {
	ProfileID      string   `json:"profile_id"       validate:"required"`
	RepoURL        string   `json:"repo_url"`
	SearchAllRepos bool     `json:"search_all_repos"`
	Labels         []string `json:"labels"`
	PerPage        int      `json:"per_page"         validate:"omitempty,min=1,max=100"`
}
