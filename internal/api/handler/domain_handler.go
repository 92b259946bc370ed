package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/loadboard/access-api/internal/core/ports"
)

type domainRequest struct {
	Domain string `json:"domain" validate:"required"`
}

// DomainHandler exposes the approved-domain whitelist.
type DomainHandler struct {
	whitelist ports.WhitelistService
}

func NewDomainHandler(whitelist ports.WhitelistService) *DomainHandler {
	return &DomainHandler{whitelist: whitelist}
}

// List returns every whitelisted domain.
//
// @Summary      List whitelisted domains
// @Tags         domain
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.WhitelistedDomain
// @Router       /domain [get]
func (h *DomainHandler) List(c echo.Context) error {
	domains, err := h.whitelist.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domains)
}

// Create adds a domain to the whitelist.
//
// @Summary      Whitelist a domain
// @Tags         domain
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domainRequest  true  "Domain name"
// @Success      201   {object}  domain.WhitelistedDomain
// @Failure      409   {object}  map[string]string
// @Router       /domain [post]
func (h *DomainHandler) Create(c echo.Context) error {
	var req domainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d, err := h.whitelist.Create(c.Request().Context(), req.Domain)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

// Update renames a whitelisted domain.
//
// @Summary      Update whitelisted domain
// @Tags         domain
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Domain ID"
// @Param        body  body      domainRequest  true  "New name"
// @Success      200   {object}  domain.WhitelistedDomain
// @Failure      404   {object}  map[string]string
// @Router       /domain/{id} [put]
func (h *DomainHandler) Update(c echo.Context) error {
	var req domainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d, err := h.whitelist.Update(c.Request().Context(), c.Param("id"), req.Domain)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Delete removes a domain from the whitelist.
//
// @Summary      Delete whitelisted domain
// @Tags         domain
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Domain ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /domain/{id} [delete]
func (h *DomainHandler) Delete(c echo.Context) error {
	if err := h.whitelist.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "domain deleted"})
}
