package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/contexthub/internal/models"
	"github.com/ahmednasr/contexthub/internal/service"
)

// RepoService is what RepoHandler needs from the repo service.
type RepoService interface {
	Current() service.RepoState
	StartLoad(ref service.RepoRef) service.RepoState
	Reindex(ctx context.Context, ref service.RepoRef) (service.RepoState, error)
	ClearRepo()
	Tree() (string, error)
	FileDetail(ctx context.Context, path string) (service.FileDetail, error)
	README(ctx context.Context, ref service.RepoRef, summarize bool) (service.README, error)
	Dependencies(ctx context.Context, ref service.RepoRef) (models.DependencyReport, error)
}

// RepoHandler wires HTTP → RepoService.
type RepoHandler struct {
	svc RepoService
}

// NewRepoHandler creates a new RepoHandler.
func NewRepoHandler(svc RepoService) *RepoHandler {
	return &RepoHandler{svc: svc}
}

// Register mounts the repository routes on the supplied router group.
func (h *RepoHandler) Register(r fiber.Router) {
	r.Post("/repos/load", h.load)
	r.Post("/repos/reindex", h.reindex)
	r.Get("/repos/current", h.current)
	r.Delete("/repos/current", h.clear)
	r.Get("/repos/:owner/:name/readme", h.readme)
	r.Get("/repos/:owner/:name/dependencies", h.dependencies)
	r.Get("/tree", h.tree)
	r.Get("/files/*", h.file)
}

func parseLoadRequest(c *fiber.Ctx) (service.RepoRef, error) {
	var req models.LoadRepoRequest
	if err := c.BodyParser(&req); err != nil {
		return service.RepoRef{}, fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	ref, err := service.ParseRepoRef(req.Repo, req.Branch)
	if err != nil {
		return service.RepoRef{}, httpError(err)
	}
	return ref, nil
}

// load handles POST /repos/load {"repo": "owner/name", "branch": "main"}
func (h *RepoHandler) load(c *fiber.Ctx) error {
	ref, err := parseLoadRequest(c)
	if err != nil {
		return err
	}
	state := h.svc.StartLoad(ref)
	if !state.IsIndexing {
		return c.JSON(state)
	}
	return c.Status(fiber.StatusAccepted).JSON(state)
}

// reindex handles POST /repos/reindex
func (h *RepoHandler) reindex(c *fiber.Ctx) error {
	ref, err := parseLoadRequest(c)
	if err != nil {
		return err
	}
	state, err := h.svc.Reindex(c.UserContext(), ref)
	if err != nil {
		return httpError(err)
	}
	return c.Status(fiber.StatusAccepted).JSON(state)
}

// current handles GET /repos/current
func (h *RepoHandler) current(c *fiber.Ctx) error {
	return c.JSON(h.svc.Current())
}

// clear handles DELETE /repos/current
func (h *RepoHandler) clear(c *fiber.Ctx) error {
	h.svc.ClearRepo()
	return c.SendStatus(fiber.StatusNoContent)
}

// tree handles GET /tree
func (h *RepoHandler) tree(c *fiber.Ctx) error {
	tree, err := h.svc.Tree()
	if err != nil {
		return httpError(err)
	}
	return c.JSON(fiber.Map{"tree": tree})
}

// file handles GET /files/<path>
func (h *RepoHandler) file(c *fiber.Ctx) error {
	path := c.Params("*")
	if path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "file path is required")
	}
	detail, err := h.svc.FileDetail(c.UserContext(), path)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(detail)
}

// readme handles GET /repos/:owner/:name/readme?branch=main&summary=true
func (h *RepoHandler) readme(c *fiber.Ctx) error {
	ref, err := service.NewRepoRef(c.Params("owner"), c.Params("name"), c.Query("branch"))
	if err != nil {
		return httpError(err)
	}
	summarize, err := strconv.ParseBool(c.Query("summary", "false"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "summary must be a boolean")
	}

	readme, err := h.svc.README(c.UserContext(), ref, summarize)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(readme)
}

// dependencies handles GET /repos/:owner/:name/dependencies?branch=main
func (h *RepoHandler) dependencies(c *fiber.Ctx) error {
	ref, err := service.NewRepoRef(c.Params("owner"), c.Params("name"), c.Query("branch"))
	if err != nil {
		return httpError(err)
	}
	report, err := h.svc.Dependencies(c.UserContext(), ref)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(report)
}
