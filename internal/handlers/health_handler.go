package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/meeyqueue/case-backend/internal/dto"
)

type HealthHandler struct {
	pingDB func() error
	redis  redis.Cmdable
}

// NewHealthHandler reports database health, and Redis health when rdb is non-nil.
func NewHealthHandler(pingDB func() error, rdb redis.Cmdable) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, redis: rdb}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
	}

	if err := h.pingDB(); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy: " + err.Error()
	}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		resp.Redis = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			resp.Status = "degraded"
			resp.Redis = "unhealthy: " + err.Error()
		}
	}

	code := fiber.StatusOK
	if resp.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.APIResponse{Status: code, Message: "Health checked.", Data: resp})
}
