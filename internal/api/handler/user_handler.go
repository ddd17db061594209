package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/useraccounts/account-service/internal/api/metrics"
	"github.com/useraccounts/account-service/internal/api/middleware"
	"github.com/useraccounts/account-service/internal/core/domain"
	"github.com/useraccounts/account-service/internal/core/ports"
)

// UserHandler serves account CRUD. Every mutating endpoint follows the same
// order: resolve the target by email (404 when absent), resolve the caller
// from the bearer token, apply the permission rule, then mutate.
type UserHandler struct {
	userService ports.UserService
	authService ports.AuthService
}

func NewUserHandler(userService ports.UserService, authService ports.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

// --- Request / Response types ---

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	IsActive *bool `json:"is_active"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// List handles GET /users with optional role, offset, and limit query
// parameters.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        role    query     string  false  "Filter by role (user|admin)"
// @Param        offset  query     int     false  "Pagination offset"
// @Param        limit   query     int     false  "Pagination limit"
// @Success      200     {array}   domain.User
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var filter ports.UserFilter

	if raw := c.QueryParam("role"); raw != "" {
		role := domain.Role(raw)
		if !role.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown role: "+raw)
		}
		filter.Role = &role
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || offset < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
		}
		filter.Offset = &offset
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		filter.Limit = &limit
	}

	users, err := h.userService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Create handles POST /users — open registration with the default role.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Registration details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, user)
}

// Update handles PATCH /users/:email — owner-or-admin field update.
//
// @Summary      Update a user's fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string             true  "Target user email"
// @Param        body   body      updateUserRequest  true  "Fields to update"
// @Success      200    {object}  domain.User
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /users/{email} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	target, err := h.userService.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}

	caller, err := h.authService.RequireUser(c.Request().Context(), middleware.Token(c))
	if err != nil {
		metrics.TokenResolutionsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.TokenResolutionsTotal.WithLabelValues("success").Inc()

	updated, err := h.userService.Update(c.Request().Context(), caller, target, ports.UpdateUserInput{
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateRole handles PATCH /users/:email/role — admin-only role change.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string             true  "Target user email"
// @Param        body   body      updateRoleRequest  true  "New role"
// @Success      200    {object}  domain.User
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /users/{email}/role [patch]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	target, err := h.userService.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}

	caller, err := h.authService.RequireUser(c.Request().Context(), middleware.Token(c))
	if err != nil {
		metrics.TokenResolutionsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.TokenResolutionsTotal.WithLabelValues("success").Inc()

	updated, err := h.userService.UpdateRole(c.Request().Context(), caller, target, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /users/:email — owner-or-admin removal. The deleted
// representation is returned, mirroring the update endpoints.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Target user email"
// @Success      200    {object}  domain.User
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /users/{email} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	target, err := h.userService.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}

	caller, err := h.authService.RequireUser(c.Request().Context(), middleware.Token(c))
	if err != nil {
		metrics.TokenResolutionsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.TokenResolutionsTotal.WithLabelValues("success").Inc()

	if err := h.userService.Delete(c.Request().Context(), caller, target); err != nil {
		return err
	}

	metrics.UsersDeletedTotal.Inc()
	return c.JSON(http.StatusOK, target)
}
