package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/api/dto"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// ClientsHandler manages client registry endpoints.
type ClientsHandler struct {
	service *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService) *ClientsHandler {
	return &ClientsHandler{service: clientService}
}

func clientInputFromRequest(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		CompanyName:         req.CompanyName,
		VATNumber:           req.VATNumber,
		FiscalCode:          req.FiscalCode,
		PrimaryEmail:        req.PrimaryEmail,
		SecondaryEmails:     req.SecondaryEmails,
		Phones:              req.Phones,
		InternallyManaged:   req.InternallyManaged,
		ReferenceTechnician: req.ReferenceTechnician,
		Notes:               req.Notes,
	}
}

func siteInputFromRequest(req dto.SiteRequest) service.SiteInput {
	return service.SiteInput{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Province:     req.Province,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		PrimarySite:  req.PrimarySite,
	}
}

// CreateClient POST /clients.
func (h *ClientsHandler) CreateClient(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	client, err := h.service.Create(c.Context(), clientInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// ListClients GET /clients.
func (h *ClientsHandler) ListClients(c *fiber.Ctx) error {
	filter := repository.ClientFilter{Limit: 50}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if active := c.Query("active"); active != "" {
		if parsed, err := strconv.ParseBool(active); err == nil {
			filter.Active = &parsed
		}
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	clients, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, dto.NewClientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetClient GET /clients/:id.
func (h *ClientsHandler) GetClient(c *fiber.Ctx) error {
	client, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// UpdateClient PUT /clients/:id.
func (h *ClientsHandler) UpdateClient(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	client, err := h.service.Update(c.Context(), c.Params("id"), clientInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// DeactivateClient DELETE /clients/:id.
func (h *ClientsHandler) DeactivateClient(c *fiber.Ctx) error {
	if err := h.service.Deactivate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReactivateClient POST /clients/:id/reactivate.
func (h *ClientsHandler) ReactivateClient(c *fiber.Ctx) error {
	if err := h.service.Reactivate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"active": true}})
}

// AddSite POST /clients/:id/sites.
func (h *ClientsHandler) AddSite(c *fiber.Ctx) error {
	var req dto.SiteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	site, err := h.service.AddSite(c.Context(), c.Params("id"), siteInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewSiteResponse(site)})
}

// ListSites GET /clients/:id/sites.
func (h *ClientsHandler) ListSites(c *fiber.Ctx) error {
	sites, err := h.service.ListSites(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.SiteResponse, 0, len(sites))
	for i := range sites {
		items = append(items, dto.NewSiteResponse(&sites[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateSite PUT /clients/:id/sites/:siteId.
func (h *ClientsHandler) UpdateSite(c *fiber.Ctx) error {
	var req dto.SiteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	site, err := h.service.UpdateSite(c.Context(), c.Params("id"), c.Params("siteId"), siteInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSiteResponse(site)})
}

// DeleteSite DELETE /clients/:id/sites/:siteId.
func (h *ClientsHandler) DeleteSite(c *fiber.Ctx) error {
	if err := h.service.RemoveSite(c.Context(), c.Params("id"), c.Params("siteId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
