package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/infogov/infogov-api/internal/core/ports"
)

// RoleHandler lists the fixed system roles.
type RoleHandler struct {
	roles ports.RoleRepository
}

func NewRoleHandler(roles ports.RoleRepository) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /api/v1/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	roles, err := h.roles.List(c.Request().Context())
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "roles retrieved", roles)
}
