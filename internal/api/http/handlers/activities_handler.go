package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/api/dto"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/auth"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// ActivitiesHandler manages activity endpoints.
type ActivitiesHandler struct {
	service *service.ActivityService
}

// NewActivitiesHandler constructs handler.
func NewActivitiesHandler(activityService *service.ActivityService) *ActivitiesHandler {
	return &ActivitiesHandler{service: activityService}
}

// CreateActivity POST /activities.
func (h *ActivitiesHandler) CreateActivity(c *fiber.Ctx) error {
	var req dto.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RequestID == "" || req.Description == "" {
		return apperrors.NewValidationError("request_id and description required", nil)
	}
	act, err := h.service.Create(c.Context(), service.ActivityCreateInput{
		RequestID:         req.RequestID,
		WorkTypeID:        req.WorkTypeID,
		Description:       req.Description,
		Priority:          req.Priority,
		ScheduledAt:       req.ScheduledAt,
		InternalNotes:     req.InternalNotes,
		ExternalReference: req.ExternalReference,
		Resolving:         req.Resolving,
		TechnicianIDs:     req.TechnicianIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewActivityResponse(act)})
}

// ListActivities GET /activities.
func (h *ActivitiesHandler) ListActivities(c *fiber.Ctx) error {
	filter := repository.ActivityFilter{}
	if requestID := c.Query("request_id"); requestID != "" {
		filter.RequestID = &requestID
	}
	if state := c.Query("state"); state != "" {
		st := domain.ActivityState(state)
		filter.State = &st
	}
	acts, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ActivityResponse, 0, len(acts))
	for i := range acts {
		items = append(items, dto.NewActivityResponse(&acts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetActivity GET /activities/:id.
func (h *ActivitiesHandler) GetActivity(c *fiber.Ctx) error {
	act, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityResponse(act)})
}

// UpdateActivity PUT /activities/:id.
func (h *ActivitiesHandler) UpdateActivity(c *fiber.Ctx) error {
	var req dto.UpdateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	act, err := h.service.Update(c.Context(), c.Params("id"), service.ActivityUpdateInput{
		WorkTypeID:        req.WorkTypeID,
		Description:       req.Description,
		Priority:          req.Priority,
		ScheduledAt:       req.ScheduledAt,
		InternalNotes:     req.InternalNotes,
		ExternalReference: req.ExternalReference,
		Resolving:         req.Resolving,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityResponse(act)})
}

// TransitionActivity POST /activities/:id/transition.
func (h *ActivitiesHandler) TransitionActivity(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TransitionActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.State == "" {
		return apperrors.NewValidationError("state required", nil)
	}
	act, err := h.service.Transition(c.Context(), principal.User.ID, c.Params("id"), req.State)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityResponse(act)})
}

// SetBilling POST /activities/:id/billing.
func (h *ActivitiesHandler) SetBilling(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SetBillingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Kind == "" {
		return apperrors.NewValidationError("kind required", nil)
	}
	act, err := h.service.SetBilling(c.Context(), principal.User.ID, c.Params("id"), service.BillingInput{
		Kind:             req.Kind,
		ClientContractID: req.ClientContractID,
		ContractLineID:   req.ContractLineID,
		Hours:            req.Hours,
		Note:             req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityResponse(act)})
}

// CheckIn POST /activities/:id/checkin.
func (h *ActivitiesHandler) CheckIn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entry, err := h.service.CheckIn(c.Context(), principal.User.ID, c.Params("id"), service.CheckInInput{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Note:      req.Note,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTimeEntryResponse(entry)})
}

// CheckOut POST /activities/:id/checkout.
func (h *ActivitiesHandler) CheckOut(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CheckOutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entry, err := h.service.CheckOut(c.Context(), principal.User.ID, c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimeEntryResponse(entry)})
}

// ListTimeEntries GET /activities/:id/time-entries.
func (h *ActivitiesHandler) ListTimeEntries(c *fiber.Ctx) error {
	entries, err := h.service.ListTimeEntries(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TimeEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewTimeEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AssignTechnician POST /activities/:id/technicians.
func (h *ActivitiesHandler) AssignTechnician(c *fiber.Ctx) error {
	var req dto.AssignTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TechnicianID == "" {
		return apperrors.NewValidationError("technician_id required", nil)
	}
	if err := h.service.AssignTechnician(c.Context(), c.Params("id"), req.TechnicianID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"assigned": true}})
}

// UnassignTechnician DELETE /activities/:id/technicians/:technicianId.
func (h *ActivitiesHandler) UnassignTechnician(c *fiber.Ctx) error {
	if err := h.service.UnassignTechnician(c.Context(), c.Params("id"), c.Params("technicianId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteActivity DELETE /activities/:id.
func (h *ActivitiesHandler) DeleteActivity(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
