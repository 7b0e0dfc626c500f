package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meeyqueue/case-backend/internal/apperr"
	"github.com/meeyqueue/case-backend/internal/dto"
	"github.com/meeyqueue/case-backend/internal/services"
)

type KioskManagerHandler struct {
	identityService *services.IdentityService
}

func NewKioskManagerHandler(identityService *services.IdentityService) *KioskManagerHandler {
	return &KioskManagerHandler{identityService: identityService}
}

func (h *KioskManagerHandler) List(c *fiber.Ctx) error {
	managers, err := h.identityService.ListKioskManagers(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Kiosk managers retrieved.", managers)
}

func (h *KioskManagerHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateKioskManagerRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	manager, err := h.identityService.CreateKioskManager(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Kiosk manager created.", manager)
}

func (h *KioskManagerHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return fail(c, apperr.NotFound("KioskManager not found", fiber.Map{"uid": c.Params("uid")}))
	}
	manager, err := h.identityService.DeleteKioskManager(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Kiosk manager deleted.", manager)
}
