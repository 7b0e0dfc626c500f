package handlers

import (
	"errors"
	"log/slog"
	"strings"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/meeyqueue/case-backend/internal/apperr"
	"github.com/meeyqueue/case-backend/internal/dto"
)

func respond(c *fiber.Ctx, message string, data any) error {
	return c.JSON(dto.APIResponse{Status: fiber.StatusOK, Message: message, Data: data})
}

// fail renders err in the response envelope. Internal errors are logged and
// reported to Sentry; their text never reaches the client.
func fail(c *fiber.Ctx, err error) error {
	status := apperr.StatusOf(err)
	body := dto.APIResponse{Status: status, Message: "Internal server error"}

	var appErr *apperr.Error
	if status < fiber.StatusInternalServerError && errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Data = appErr.Data
	} else {
		traceID, _ := c.Locals("requestid").(string)
		// Fiber's Method, Path and Params alias request buffers that are reused
		// after the handler returns; log records outlive the request.
		path := utils.CopyString(c.Path())
		attrs := []any{
			"method", utils.CopyString(c.Method()),
			"path", path,
			"trace_id", traceID,
			"error", err.Error(),
		}
		if uid := c.Params("uid"); uid != "" && strings.HasPrefix(path, "/api/case") {
			attrs = append(attrs, "case_id", utils.CopyString(uid))
		}
		slog.ErrorContext(c.UserContext(), "request failed", attrs...)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return fail(c, apperr.BadRequest("Invalid request body", nil))
}
