package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meeyqueue/case-backend/internal/apperr"
	"github.com/meeyqueue/case-backend/internal/dto"
	"github.com/meeyqueue/case-backend/internal/services"
)

type UserHandler struct {
	identityService *services.IdentityService
}

func NewUserHandler(identityService *services.IdentityService) *UserHandler {
	return &UserHandler{identityService: identityService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.identityService.ListUsers(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "Users retrieved.", users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return fail(c, apperr.NotFound("User not found", fiber.Map{"uid": c.Params("uid")}))
	}
	user, err := h.identityService.GetUser(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "User retrieved.", user)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.identityService.CreateUser(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "User created.", user)
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.Phone == nil {
		return fail(c, apperr.BadRequest("phone is required", nil))
	}

	user, err := h.identityService.SearchUser(c.UserContext(), *req.Phone)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "User found.", user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return fail(c, apperr.BadRequest("Something went wrong, user not deleted.", fiber.Map{"uid": c.Params("uid")}))
	}
	user, err := h.identityService.DeleteUser(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, "User '"+user.ID.String()+"' delete successfully", user)
}
