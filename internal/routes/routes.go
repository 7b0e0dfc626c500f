package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meeyqueue/case-backend/internal/config"
	"github.com/meeyqueue/case-backend/internal/dto"
	"github.com/meeyqueue/case-backend/internal/handlers"
	"github.com/meeyqueue/case-backend/internal/middleware"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Case   *handlers.CaseHandler
	User   *handlers.UserHandler
	Kiosk  *handlers.KioskManagerHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers, gatherer prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Status:  fiber.StatusTooManyRequests,
				Message: "Too many requests, please try again later.",
			})
		},
	}))

	api.Get("/health", h.Health.Check)

	authed := middleware.JWTProtected(cfg)
	staff := []fiber.Handler{authed, middleware.Staff()}
	admin := middleware.AdminRequired(cfg)
	with := func(chain []fiber.Handler, handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, chain...), handler)
	}

	// Cases
	cases := api.Group("/case")
	cases.Get("/", with(staff, h.Case.List)...)
	cases.Get("/:uid", with(staff, h.Case.Get)...)
	cases.Get("/:uid/attachments", with(staff, h.Case.Attachments)...)
	cases.Get("/:uid/events", with(staff, h.Case.Events)...)
	cases.Patch("/:uid/assign", with(staff, h.Case.Assign)...)
	cases.Post("/:uid/assign", with(staff, h.Case.Assign)...)
	cases.Post("/:uid/categorize", with(staff, h.Case.Categorize)...)
	cases.Patch("/:uid", with(staff, h.Case.Close)...)
	cases.Post("/:uid/close", with(staff, h.Case.Close)...)
	cases.Delete("/:uid", with(admin, h.Case.Delete)...)

	// Users
	users := api.Group("/user")
	users.Get("/", with(staff, h.User.List)...)
	users.Post("/", authed, h.User.Create)
	users.Post("/search", with(staff, h.User.Search)...)
	users.Get("/:uid", with(staff, h.User.Get)...)
	users.Delete("/:uid", with(admin, h.User.Delete)...)
	users.Post("/:uid/case", authed, h.Case.Create)

	// Kiosk managers
	kiosk := api.Group("/kiosk/manager")
	kiosk.Get("/", with(admin, h.Kiosk.List)...)
	kiosk.Post("/", with(admin, h.Kiosk.Create)...)
	kiosk.Delete("/:uid", with(admin, h.Kiosk.Delete)...)
}
