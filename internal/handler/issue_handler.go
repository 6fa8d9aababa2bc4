package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/contexthub/internal/models"
	"github.com/ahmednasr/contexthub/internal/service"
)

// IssueService is what IssueHandler needs from the issue service.
type IssueService interface {
	CreateProfile(ctx context.Context, req models.ProfileRequest) (*models.UserProfile, error)
	GetProfile(ctx context.Context, id string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, id string, req models.ProfileRequest) (*models.UserProfile, error)
	DeleteProfile(ctx context.Context, id string) error
	Explore(ctx context.Context, req models.ExploreRequest) (service.ExploreResult, error)
	RepoIssues(ctx context.Context, ref service.RepoRef, q service.RepoIssuesQuery) ([]models.IssueMatchResult, error)
	RepoIssue(ctx context.Context, ref service.RepoRef, number int, profileID string) (models.IssueMatchResult, error)
}

// IssueHandler wires HTTP → IssueService.
type IssueHandler struct {
	svc IssueService
}

// NewIssueHandler creates an IssueHandler instance.
func NewIssueHandler(svc IssueService) *IssueHandler {
	return &IssueHandler{svc: svc}
}

// Register mounts the profile and issue exploration routes.
func (h *IssueHandler) Register(r fiber.Router) {
	r.Post("/profiles", h.createProfile)
	r.Get("/profiles/:id", h.getProfile)
	r.Put("/profiles/:id", h.updateProfile)
	r.Delete("/profiles/:id", h.deleteProfile)
	r.Post("/issues/explore", h.explore)
	r.Get("/repos/:owner/:name/issues", h.listRepoIssues)
	r.Get("/repos/:owner/:name/issues/:number", h.getRepoIssue)
}

// createProfile handles POST /profiles
func (h *IssueHandler) createProfile(c *fiber.Ctx) error {
	var req models.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	p, err := h.svc.CreateProfile(c.UserContext(), req)
	if err != nil {
		return httpError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// getProfile handles GET /profiles/:id
func (h *IssueHandler) getProfile(c *fiber.Ctx) error {
	p, err := h.svc.GetProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(p)
}

// updateProfile handles PUT /profiles/:id
func (h *IssueHandler) updateProfile(c *fiber.Ctx) error {
	var req models.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	p, err := h.svc.UpdateProfile(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(p)
}

// deleteProfile handles DELETE /profiles/:id
func (h *IssueHandler) deleteProfile(c *fiber.Ctx) error {
	if err := h.svc.DeleteProfile(c.UserContext(), c.Params("id")); err != nil {
		return httpError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// explore handles POST /issues/explore
func (h *IssueHandler) explore(c *fiber.Ctx) error {
	var req models.ExploreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	res, err := h.svc.Explore(c.UserContext(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(res)
}

// listRepoIssues handles GET /repos/:owner/:name/issues?state=open&per_page=30&profile_id=
func (h *IssueHandler) listRepoIssues(c *fiber.Ctx) error {
	ref, err := service.NewRepoRef(c.Params("owner"), c.Params("name"), "")
	if err != nil {
		return httpError(err)
	}
	issues, err := h.svc.RepoIssues(c.UserContext(), ref, service.RepoIssuesQuery{
		State:     c.Query("state", "open"),
		PerPage:   c.QueryInt("per_page", 30),
		ProfileID: c.Query("profile_id"),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(issues)
}

// getRepoIssue handles GET /repos/:owner/:name/issues/:number?profile_id=
func (h *IssueHandler) getRepoIssue(c *fiber.Ctx) error {
	ref, err := service.NewRepoRef(c.Params("owner"), c.Params("name"), "")
	if err != nil {
		return httpError(err)
	}
	number, err := strconv.Atoi(c.Params("number"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "issue number must be an integer")
	}

	issue, err := h.svc.RepoIssue(c.UserContext(), ref, number, c.Query("profile_id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(issue)
}
