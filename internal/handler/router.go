package handler

import (
	"github.com/gofiber/fiber/v2"
)

// RepoAPI is the repo service as seen by the repo and search routes.
type RepoAPI interface {
	RepoService
	Searcher
}

// Services bundles everything the routes depend on.
type Services struct {
	Repos  RepoAPI
	Pulls  PRService
	Issues IssueService
	DB     Pinger
	GitHub RateLimiter
}

// NewApp returns a Fiber app with the JSON error handler installed.
func NewApp(cfg fiber.Config) *fiber.App {
	cfg.ErrorHandler = ErrorHandler
	return fiber.New(cfg)
}

// RegisterRoutes mounts every route under /api/v1.
func RegisterRoutes(app *fiber.App, s Services) {
	v1 := app.Group("/api/v1")
	NewRepoHandler(s.Repos).Register(v1)
	NewSearchHandler(s.Repos).Register(v1)
	NewPullHandler(s.Pulls).Register(v1)
	NewIssueHandler(s.Issues).Register(v1)
	NewHealthHandler(s.DB, s.GitHub).Register(v1)
}
