package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/infogov/infogov-api/internal/core/ports"
)

// UserHandler exposes the administrative users resource.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns a page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        name         query  string  false  "Filter by name substring"
// @Param        email        query  string  false  "Filter by email substring"
// @Param        role         query  string  false  "Filter by role name"
// @Param        role_id      query  string  false  "Filter by role reference"
// @Param        with_trashed query  bool    false  "Include soft-deleted rows"
// @Param        sort_by      query  string  false  "Sort column"
// @Param        sort_direction query string false  "asc or desc"
// @Param        page         query  int     false  "Page number"
// @Param        per_page     query  int     false  "Page size, max 100"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	input := ports.ListUsersInput{
		Name:          c.QueryParam("name"),
		Email:         c.QueryParam("email"),
		Role:          c.QueryParam("role"),
		RoleID:        c.QueryParam("role_id"),
		WithTrashed:   parseBool(c.QueryParam("with_trashed")),
		SortBy:        c.QueryParam("sort_by"),
		SortDirection: c.QueryParam("sort_direction"),
		Page:          parseInt(c.QueryParam("page")),
		PerPage:       parseInt(c.QueryParam("per_page")),
	}

	result, err := h.users.List(c.Request().Context(), subject, input)
	if err != nil {
		return err
	}

	return respondPage(c, result.Items, len(result.Items),
		result.Page, result.PerPage, result.LastPage, result.Total)
}

// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  createUserRequest  true  "User"
// @Success      201   {object}  map[string]any
// @Router       /api/v1/admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), subject, ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "user created", user)
}

// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/admin/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), subject, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "user retrieved", user)
}

// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "User ID"
// @Param        body  body  updateUserRequest  true  "User"
// @Success      200   {object}  map[string]any
// @Router       /api/v1/admin/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), subject, c.Param("id"), ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "user updated", user)
}

// Delete soft-deletes a user. Self-deletion is refused by policy.
//
// @Summary      Soft-delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.users.SoftDelete(c.Request().Context(), subject, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "user deleted", nil)
}

// @Summary      Restore a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/admin/users/{id}/restore [post]
func (h *UserHandler) Restore(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.users.Restore(c.Request().Context(), subject, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "user restored", user)
}

// @Summary      Permanently delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/admin/users/{id}/force [delete]
func (h *UserHandler) ForceDelete(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.users.HardDelete(c.Request().Context(), subject, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "user permanently deleted", nil)
}
