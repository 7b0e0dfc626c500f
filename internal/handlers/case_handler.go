package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meeyqueue/case-backend/internal/dto"
	"github.com/meeyqueue/case-backend/internal/services"
)

type CaseHandler struct {
	caseService *services.CaseService
}

func NewCaseHandler(caseService *services.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

func (h *CaseHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	created, err := h.caseService.Create(c.UserContext(), c.Params("uid"), req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Case created.", created)
}

func (h *CaseHandler) List(c *fiber.Ctx) error {
	cases, err := h.caseService.List(c.UserContext(), dto.NewCaseListQuery(c.Queries()))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Cases retrieved.", cases)
}

func (h *CaseHandler) Get(c *fiber.Ctx) error {
	found, err := h.caseService.Get(c.UserContext(), c.Params("uid"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Case retrieved.", found)
}

func (h *CaseHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if _, err := h.caseService.Assign(c.UserContext(), c.Params("uid"), req); err != nil {
		return fail(c, err)
	}
	return respond(c, "Case is assigned.", nil)
}

func (h *CaseHandler) Categorize(c *fiber.Ctx) error {
	var req dto.CategorizeCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if _, err := h.caseService.Categorize(c.UserContext(), c.Params("uid"), req); err != nil {
		return fail(c, err)
	}
	return respond(c, "Case is categorized as "+req.Category+".", nil)
}

func (h *CaseHandler) Close(c *fiber.Ctx) error {
	var req dto.CloseCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	updated, err := h.caseService.Close(c.UserContext(), c.Params("uid"), req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Case is updated and closed.", updated)
}

func (h *CaseHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.caseService.Delete(c.UserContext(), c.Params("uid"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Case '"+deleted.ID.String()+"' delete successfully", deleted)
}

func (h *CaseHandler) Attachments(c *fiber.Ctx) error {
	links, err := h.caseService.Attachments(c.UserContext(), c.Params("uid"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Attachments retrieved.", links)
}

func (h *CaseHandler) Events(c *fiber.Ctx) error {
	events, err := h.caseService.Events(c.UserContext(), c.Params("uid"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Case events retrieved.", events)
}
