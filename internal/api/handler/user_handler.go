package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/loadboard/access-api/internal/core/ports"
)

// UserHandler exposes user administration. Every route is admin-only; the
// RBAC middleware enforces that before a request reaches this handler.
type UserHandler struct {
	users ports.UserService
	log   zerolog.Logger
}

func NewUserHandler(users ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// List returns every user joined with its permission profile and data account.
//
// @Summary      List users
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.UserDetail
// @Failure      401  {object}  map[string]string
// @Router       /user [get]
func (h *UserHandler) List(c echo.Context) error {
	details, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// Create registers a new user, seeding its permission profile when one is
// included in the payload.
//
// @Summary      Create user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /user [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions.toUpdate(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update applies a partial user update, including the nested permission
// payload when one is present.
//
// @Summary      Update user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string             true  "User ID"
// @Param        body    body      updateUserRequest  true  "Fields to change"
// @Success      200     {object}  ports.UserDetail
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /user/{userId} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.users.Update(c.Request().Context(), c.Param("userId"), ports.UpdateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		IsBanned:    req.IsBanned,
		Permissions: req.Permissions.toUpdate(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Delete removes a user together with its permission profile and sessions,
// reporting each cleanup step independently.
//
// @Summary      Delete user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  ports.CascadeOutcome
// @Failure      404     {object}  map[string]string
// @Router       /user/{userId} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	outcome, err := h.users.Delete(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, outcome)
}

// CreatePermission provisions a permission profile for an existing user.
//
// @Summary      Create permission profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPermissionRequest  true  "Profile"
// @Success      201   {object}  domain.Permission
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /user/permissions [post]
func (h *UserHandler) CreatePermission(c echo.Context) error {
	var req createPermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	perm, err := h.users.CreatePermission(c.Request().Context(), req.UserID, *req.permissionPayload.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, perm)
}

// UpdatePermission applies a partial update to a user's permission profile.
//
// @Summary      Update permission profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string             true  "User ID"
// @Param        body    body      permissionPayload  true  "Fields to change"
// @Success      200     {object}  domain.Permission
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /user/permissions/{userId} [put]
func (h *UserHandler) UpdatePermission(c echo.Context) error {
	var req permissionPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	perm, err := h.users.UpdatePermission(c.Request().Context(), c.Param("userId"), *req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perm)
}

// Sessions lists a user's sessions, revoked ones included.
//
// @Summary      List user sessions
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {array}   domain.Session
// @Router       /user/sessions/{userId} [get]
func (h *UserHandler) Sessions(c echo.Context) error {
	sessions, err := h.users.Sessions(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessions)
}

// DeleteSession hard-deletes a session record by its ID.
//
// @Summary      Delete session
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /user/session/{sessionId} [delete]
func (h *UserHandler) DeleteSession(c echo.Context) error {
	if err := h.users.DeleteSession(c.Request().Context(), c.Param("sessionId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "session deleted"})
}
