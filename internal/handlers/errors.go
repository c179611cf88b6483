package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/callboard/internal/middleware"
	"github.com/localnerve/callboard/internal/types"
	"github.com/localnerve/callboard/internal/utils"
	"go.uber.org/zap"
)

type errorPage struct {
	title   string
	message string
}

// Error pages show a fixed notice per status. The wrapped error only goes to the log.
var errorPages = map[int]errorPage{
	fiber.StatusBadRequest:   {"Bad request", "The request could not be processed."},
	fiber.StatusUnauthorized: {"Not signed in", "Log in to continue."},
	fiber.StatusForbidden:    {"Forbidden", "You are not allowed to do that."},
	fiber.StatusNotFound:     {"Page not found", "The page you are looking for does not exist."},
	fiber.StatusConflict:     {"Still in use", "This item is still referenced and cannot be removed."},
}

var defaultErrorPage = errorPage{"Something went wrong", "The server could not complete the request."}

// ErrorHandler renders errors as the JSON envelope under /api/ and as an HTML page elsewhere
func (h *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	classified := types.Classify(err)

	if classified.Code >= fiber.StatusInternalServerError {
		h.Log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.Error(err))
		classified.Message = "Internal server error"
	} else {
		h.Log.Debug("request rejected",
			zap.String("url", c.OriginalURL()),
			zap.Int("status", classified.Code),
			zap.Error(err))
	}

	if utils.WantsJSON(c) {
		return utils.ErrorResponse(c, classified.Message, classified.Code, classified.Type)
	}

	page, ok := errorPages[classified.Code]
	if !ok {
		page = defaultErrorPage
	}

	c.Status(classified.Code)
	renderErr := c.Render("errors/error", fiber.Map{
		"Title":   page.title,
		"Status":  classified.Code,
		"Message": page.message,
		"User":    middleware.CurrentUser(c),
	}, layout)
	if renderErr != nil {
		h.Log.Error("failed to render error page", zap.Error(renderErr))
		return c.Status(classified.Code).SendString(page.title)
	}
	return nil
}

// NotFound is the catch-all route
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return fiber.ErrNotFound
}
