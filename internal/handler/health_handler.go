package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ahmednasr/contexthub/internal/models"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// RateLimiter reports the GitHub API quota.
type RateLimiter interface {
	RateLimit(ctx context.Context) (models.RateLimitInfo, error)
}

type HealthHandler struct {
	db Pinger
	gh RateLimiter
}

func NewHealthHandler(db Pinger, gh RateLimiter) *HealthHandler {
	return &HealthHandler{db: db, gh: gh}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
	r.Get("/rate-limit", h.rateLimit)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	db := h.checkDB(c.UserContext())
	status := fiber.Map{
		"status": "ok",
		"dbs": fiber.Map{
			"main": db,
		},
	}
	if db == "error" {
		status["status"] = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}

func (h *HealthHandler) checkDB(ctx context.Context) string {
	if h.db == nil {
		return "not_configured"
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx, readpref.Primary()); err != nil {
		return "error"
	}
	return "connected"
}

// rateLimit handles GET /rate-limit
func (h *HealthHandler) rateLimit(c *fiber.Ctx) error {
	info, err := h.gh.RateLimit(c.UserContext())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(info)
}
