package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/loadboard/access-api/internal/core/ports"
)

type createDataSessionRequest struct {
	Name   string `json:"name" validate:"required"`
	Proxy  string `json:"proxy" validate:"required"`
	Domain string `json:"domain"`
}

type updateDataSessionRequest struct {
	Name       *string `json:"name"`
	Proxy      *string `json:"proxy"`
	Domain     *string `json:"domain"`
	IsLoggedIn *bool   `json:"is_logged_in"`
}

// DataSessionHandler exposes proxy-bound account administration.
type DataSessionHandler struct {
	sessions ports.DataSessionService
	log      zerolog.Logger
}

func NewDataSessionHandler(sessions ports.DataSessionService, log zerolog.Logger) *DataSessionHandler {
	return &DataSessionHandler{sessions: sessions, log: log}
}

// List returns every data session annotated with its referencing-user count.
//
// @Summary      List data sessions
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.DataSession
// @Router       /session [get]
func (h *DataSessionHandler) List(c echo.Context) error {
	sessions, err := h.sessions.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessions)
}

// Create registers a new data session.
//
// @Summary      Create data session
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDataSessionRequest  true  "New data session"
// @Success      201   {object}  domain.DataSession
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /session [post]
func (h *DataSessionHandler) Create(c echo.Context) error {
	var req createDataSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ds, err := h.sessions.Create(c.Request().Context(), ports.CreateDataSessionInput{
		Name:   req.Name,
		Proxy:  req.Proxy,
		Domain: req.Domain,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ds)
}

// Update applies a partial update to a data session.
//
// @Summary      Update data session
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Data session ID"
// @Param        body  body      updateDataSessionRequest  true  "Fields to change"
// @Success      200   {object}  domain.DataSession
// @Failure      404   {object}  map[string]string
// @Router       /session/{id} [put]
func (h *DataSessionHandler) Update(c echo.Context) error {
	var req updateDataSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ds, err := h.sessions.Update(c.Request().Context(), c.Param("id"), ports.DataSessionUpdate{
		Name:       req.Name,
		Proxy:      req.Proxy,
		Domain:     req.Domain,
		IsLoggedIn: req.IsLoggedIn,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds)
}

// Delete removes a data session and its attached bundle file.
//
// @Summary      Delete data session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Data session ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /session/{id} [delete]
func (h *DataSessionHandler) Delete(c echo.Context) error {
	if err := h.sessions.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "data session deleted"})
}
