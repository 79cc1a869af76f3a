package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/api/dto"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/auth"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// RequestsHandler manages request endpoints.
type RequestsHandler struct {
	service *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{service: requestService}
}

// CreateRequest POST /requests.
func (h *RequestsHandler) CreateRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ClientID == "" || req.Description == "" {
		return apperrors.NewValidationError("client_id and description required", nil)
	}

	origin := req.Origin
	if principal.User.Role == domain.RoleClient {
		origin = domain.OriginClient
	} else if origin == "" {
		origin = domain.OriginAdmin
	}

	request, err := h.service.Create(c.Context(), principal.User, service.RequestCreateInput{
		ClientID:      req.ClientID,
		SiteID:        req.SiteID,
		ScopeID:       req.ScopeID,
		Description:   req.Description,
		Origin:        origin,
		Priority:      req.Priority,
		AppointmentAt: req.AppointmentAt,
		SupervisorID:  req.SupervisorID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewRequestDetail(request)})
}

// ListRequests GET /requests.
func (h *RequestsHandler) ListRequests(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	filter := repository.RequestFilter{Limit: 50}
	if state := c.Query("state"); state != "" {
		st := domain.RequestState(state)
		filter.State = &st
	}
	if clientID := c.Query("client_id"); clientID != "" {
		filter.ClientID = &clientID
	}
	if priority := c.Query("priority"); priority != "" {
		filter.Priority = &priority
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	requests, err := h.service.List(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.RequestSummary, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewRequestSummary(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetRequest GET /requests/:id.
func (h *RequestsHandler) GetRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	request, err := h.service.GetByID(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestDetail(request)})
}

// UpdateRequest PUT /requests/:id.
func (h *RequestsHandler) UpdateRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	request, err := h.service.Update(c.Context(), principal.User, c.Params("id"), service.RequestUpdateInput{
		SiteID:        req.SiteID,
		ScopeID:       req.ScopeID,
		Description:   req.Description,
		Priority:      req.Priority,
		AppointmentAt: req.AppointmentAt,
		SupervisorID:  req.SupervisorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestDetail(request)})
}

// TransitionRequest POST /requests/:id/transition.
func (h *RequestsHandler) TransitionRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TransitionRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.State == "" {
		return apperrors.NewValidationError("state required", nil)
	}

	request, err := h.service.Transition(c.Context(), principal.User, c.Params("id"), service.RequestTransitionInput{
		Target: req.State,
		Reason: req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestDetail(request)})
}

// DeleteRequest DELETE /requests/:id.
func (h *RequestsHandler) DeleteRequest(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
