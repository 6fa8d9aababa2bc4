package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/contexthub/internal/models"
	"github.com/ahmednasr/contexthub/internal/smartsearch"
)

const maxTopK = 50

// Searcher resolves queries against the loaded index.
type Searcher interface {
	Search(query string, k int) ([]models.FileMetadata, error)
}

// SearchHandler wires HTTP → Searcher.
type SearchHandler struct {
	svc Searcher
}

// NewSearchHandler returns a handler instance.
func NewSearchHandler(svc Searcher) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Register mounts GET /search on the given router group.
func (h *SearchHandler) Register(r fiber.Router) {
	r.Get("/search", h.search)
}

// search handles GET /search?q=some+text&k=10
func (h *SearchHandler) search(c *fiber.Ctx) error {
	kParam := c.Query("k", strconv.Itoa(smartsearch.DefaultTopK))
	k, err := strconv.Atoi(kParam)
	if err != nil || k <= 0 || k > maxTopK {
		return fiber.NewError(fiber.StatusBadRequest, "k must be an integer between 1 and 50")
	}

	req := models.SearchRequest{
		Query: c.Query("q"),
		TopK:  k,
	}

	results, err := h.svc.Search(req.Query, req.TopK)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"query":   req.Query,
		"intent":  smartsearch.ExtractIntent(req.Query),
		"domain":  smartsearch.ExtractDomain(req.Query),
		"results": results,
	})
}
