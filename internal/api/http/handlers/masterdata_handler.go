package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/api/dto"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// MasterdataHandler manages scope and work type endpoints.
type MasterdataHandler struct {
	service *service.MasterdataService
}

// NewMasterdataHandler constructs handler.
func NewMasterdataHandler(masterdataService *service.MasterdataService) *MasterdataHandler {
	return &MasterdataHandler{service: masterdataService}
}

func activeQuery(c *fiber.Ctx) *bool {
	if raw := c.Query("active"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return &parsed
		}
	}
	return nil
}

// CreateScope POST /scopes.
func (h *MasterdataHandler) CreateScope(c *fiber.Ctx) error {
	var req dto.ScopeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	scope, err := h.service.CreateScope(c.Context(), service.ScopeInput{
		Name:         req.Name,
		Description:  req.Description,
		SupervisorID: req.SupervisorID,
		Active:       req.Active,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewScopeResponse(scope)})
}

// ListScopes GET /scopes.
func (h *MasterdataHandler) ListScopes(c *fiber.Ctx) error {
	scopes, err := h.service.ListScopes(c.Context(), activeQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.ScopeResponse, 0, len(scopes))
	for i := range scopes {
		items = append(items, dto.NewScopeResponse(&scopes[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetScope GET /scopes/:id.
func (h *MasterdataHandler) GetScope(c *fiber.Ctx) error {
	scope, err := h.service.GetScope(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScopeResponse(scope)})
}

// UpdateScope PUT /scopes/:id.
func (h *MasterdataHandler) UpdateScope(c *fiber.Ctx) error {
	var req dto.ScopeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	scope, err := h.service.UpdateScope(c.Context(), c.Params("id"), service.ScopeInput{
		Name:         req.Name,
		Description:  req.Description,
		SupervisorID: req.SupervisorID,
		Active:       req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScopeResponse(scope)})
}

// CreateWorkType POST /work-types.
func (h *MasterdataHandler) CreateWorkType(c *fiber.Ctx) error {
	var req dto.WorkTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	wt, err := h.service.CreateWorkType(c.Context(), service.WorkTypeInput{
		Name:             req.Name,
		Billable:         req.Billable,
		ScopeID:          req.ScopeID,
		EstimatedMinutes: req.EstimatedMinutes,
		Active:           req.Active,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewWorkTypeResponse(wt)})
}

// ListWorkTypes GET /work-types.
func (h *MasterdataHandler) ListWorkTypes(c *fiber.Ctx) error {
	var scopeID *string
	if raw := c.Query("scope_id"); raw != "" {
		scopeID = &raw
	}
	workTypes, err := h.service.ListWorkTypes(c.Context(), activeQuery(c), scopeID)
	if err != nil {
		return err
	}
	items := make([]dto.WorkTypeResponse, 0, len(workTypes))
	for i := range workTypes {
		items = append(items, dto.NewWorkTypeResponse(&workTypes[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetWorkType GET /work-types/:id.
func (h *MasterdataHandler) GetWorkType(c *fiber.Ctx) error {
	wt, err := h.service.GetWorkType(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkTypeResponse(wt)})
}

// UpdateWorkType PUT /work-types/:id.
func (h *MasterdataHandler) UpdateWorkType(c *fiber.Ctx) error {
	var req dto.WorkTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	wt, err := h.service.UpdateWorkType(c.Context(), c.Params("id"), service.WorkTypeInput{
		Name:             req.Name,
		Billable:         req.Billable,
		ScopeID:          req.ScopeID,
		EstimatedMinutes: req.EstimatedMinutes,
		Active:           req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkTypeResponse(wt)})
}
