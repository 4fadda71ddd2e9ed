package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nkoncar/collecto-api/internal/middleware"
	"github.com/nkoncar/collecto-api/pkg/dto"
)

type AdminHandler struct {
	userService UserServiceInterface
}

func NewAdminHandler(userService UserServiceInterface) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// RequireAdmin guards the admin route group. It runs after Auth, so the
// role claim is already in the context.
func RequireAdmin(c *drift.Context) {
	actor := middleware.GetActor(c)
	if actor.ID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}
	if !actor.IsAdmin() {
		c.Forbidden("admin access required")
		return
	}
	c.Next()
}

func (h *AdminHandler) ListUsers(c *drift.Context) {
	users, err := h.userService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to get users")
		return
	}
	_ = c.JSON(200, users)
}

func (h *AdminHandler) UpdateRole(c *drift.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	user, err := h.userService.SetRole(context.Background(), userID, req.Role)
	if err != nil {
		respondError(c, err, "failed to update role")
		return
	}
	_ = c.JSON(200, user)
}

func (h *AdminHandler) UpdateStatus(c *drift.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	user, err := h.userService.SetActive(context.Background(), userID, *req.IsActive)
	if err != nil {
		respondError(c, err, "failed to update status")
		return
	}
	_ = c.JSON(200, user)
}

func (h *AdminHandler) DeleteUser(c *drift.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	if userID == middleware.GetUserID(c) {
		c.BadRequest("cannot delete your own account")
		return
	}

	if err := h.userService.Delete(context.Background(), userID); err != nil {
		respondError(c, err, "failed to delete user")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "user deleted"})
}
