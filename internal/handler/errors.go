package handler

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/contexthub/internal/github"
	"github.com/ahmednasr/contexthub/internal/service"
)

// httpError maps service and GitHub errors onto status codes.
func httpError(err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrMalformedManifest):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound), github.IsNotFound(err):
		status = fiber.StatusNotFound
	case github.IsRateLimited(err):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, github.ErrUnauthorized):
		status = fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = fiber.StatusGatewayTimeout
	}
	return fiber.NewError(status, err.Error())
}

// ErrorHandler renders every error as {"error": "..."}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("[Handler] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
