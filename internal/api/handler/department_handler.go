package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/infogov/infogov-api/internal/core/ports"
)

// DepartmentHandler exposes the departments resource.
type DepartmentHandler struct {
	departments ports.DepartmentService
}

func NewDepartmentHandler(departments ports.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// List returns a page of departments.
//
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        name         query  string  false  "Filter by name substring"
// @Param        code         query  string  false  "Filter by code substring"
// @Param        active       query  string  false  "Filter by active flag (true/1/false/0)"
// @Param        with_trashed query  bool    false  "Include soft-deleted rows"
// @Param        sort_by      query  string  false  "Sort column"
// @Param        sort_direction query string false  "asc or desc"
// @Param        page         query  int     false  "Page number"
// @Param        per_page     query  int     false  "Page size, max 100"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/departments [get]
func (h *DepartmentHandler) List(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	input := ports.ListDepartmentsInput{
		Name:          c.QueryParam("name"),
		Code:          c.QueryParam("code"),
		Active:        c.QueryParam("active"),
		WithTrashed:   parseBool(c.QueryParam("with_trashed")),
		SortBy:        c.QueryParam("sort_by"),
		SortDirection: c.QueryParam("sort_direction"),
		Page:          parseInt(c.QueryParam("page")),
		PerPage:       parseInt(c.QueryParam("per_page")),
	}

	result, err := h.departments.List(c.Request().Context(), subject, input)
	if err != nil {
		return err
	}

	return respondPage(c, result.Items, len(result.Items),
		result.Page, result.PerPage, result.LastPage, result.Total)
}

// @Summary      Create a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  departmentRequest  true  "Department"
// @Success      201   {object}  map[string]any
// @Router       /api/v1/departments [post]
func (h *DepartmentHandler) Create(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	var req departmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dept, err := h.departments.Create(c.Request().Context(), subject, ports.UpsertDepartmentInput{
		Name:   req.Name,
		Code:   req.Code,
		Active: req.Active,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "department created", dept)
}

// @Summary      Get a department
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Department ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/departments/{id} [get]
func (h *DepartmentHandler) Get(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	dept, err := h.departments.Get(c.Request().Context(), subject, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "department retrieved", dept)
}

// @Summary      Update a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "Department ID"
// @Param        body  body  departmentRequest  true  "Department"
// @Success      200   {object}  map[string]any
// @Router       /api/v1/departments/{id} [put]
func (h *DepartmentHandler) Update(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	var req departmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dept, err := h.departments.Update(c.Request().Context(), subject, c.Param("id"), ports.UpsertDepartmentInput{
		Name:   req.Name,
		Code:   req.Code,
		Active: req.Active,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "department updated", dept)
}

// Delete soft-deletes a department.
//
// @Summary      Soft-delete a department
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Department ID"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/departments/{id} [delete]
func (h *DepartmentHandler) Delete(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.departments.SoftDelete(c.Request().Context(), subject, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "department deleted", nil)
}

// Restore brings a soft-deleted department back.
//
// @Summary      Restore a department
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Department ID"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/departments/{id}/restore [post]
func (h *DepartmentHandler) Restore(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	dept, err := h.departments.Restore(c.Request().Context(), subject, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "department restored", dept)
}

// ForceDelete removes a department permanently, trashed or not.
//
// @Summary      Permanently delete a department
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Department ID"
// @Success      200  {object}  map[string]any
// @Router       /api/v1/departments/{id}/force [delete]
func (h *DepartmentHandler) ForceDelete(c echo.Context) error {
	subject, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.departments.HardDelete(c.Request().Context(), subject, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "department permanently deleted", nil)
}
