package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/contexthub/internal/models"
	"github.com/ahmednasr/contexthub/internal/service"
)

// PRService is what PullHandler needs from the PR service.
type PRService interface {
	ListPullRequests(ctx context.Context, ref service.RepoRef, state string, perPage int) ([]models.PullRequest, error)
	GetPullRequest(ctx context.Context, ref service.RepoRef, number int) (service.PRDetail, error)
}

// PullHandler wires HTTP → PRService.
type PullHandler struct {
	svc PRService
}

// NewPullHandler creates a PullHandler instance.
func NewPullHandler(svc PRService) *PullHandler {
	return &PullHandler{svc: svc}
}

// Register mounts the pull request routes on the given router group.
func (h *PullHandler) Register(r fiber.Router) {
	r.Get("/repos/:owner/:name/pulls", h.list)
	r.Get("/repos/:owner/:name/pulls/:number", h.get)
}

// list handles GET /repos/:owner/:name/pulls?state=open&per_page=30
func (h *PullHandler) list(c *fiber.Ctx) error {
	ref, err := service.NewRepoRef(c.Params("owner"), c.Params("name"), "")
	if err != nil {
		return httpError(err)
	}
	perPage := c.QueryInt("per_page", 30)

	prs, err := h.svc.ListPullRequests(c.UserContext(), ref, c.Query("state", "all"), perPage)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(prs)
}

// get handles GET /repos/:owner/:name/pulls/:number
func (h *PullHandler) get(c *fiber.Ctx) error {
	ref, err := service.NewRepoRef(c.Params("owner"), c.Params("name"), "")
	if err != nil {
		return httpError(err)
	}
	number, err := strconv.Atoi(c.Params("number"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "pull request number must be an integer")
	}

	detail, err := h.svc.GetPullRequest(c.UserContext(), ref, number)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(detail)
}
