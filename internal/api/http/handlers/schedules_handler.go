package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/api/dto"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// SchedulesHandler manages recurring deadline endpoints.
type SchedulesHandler struct {
	service *service.ScheduleService
}

// NewSchedulesHandler constructs handler.
func NewSchedulesHandler(scheduleService *service.ScheduleService) *SchedulesHandler {
	return &SchedulesHandler{service: scheduleService}
}

func scheduleInputFromRequest(req dto.ScheduleRequest) service.ScheduleInput {
	return service.ScheduleInput{
		EntityKind:     req.EntityKind,
		EntityID:       req.EntityID,
		Name:           req.Name,
		ActionKind:     req.ActionKind,
		Frequency:      req.Frequency,
		CustomInterval: req.CustomInterval,
		NoticeDays:     req.NoticeDays,
		NextTrigger:    req.NextTrigger,
		Active:         req.Active,
		ActionConfig:   req.ActionConfig,
	}
}

// CreateSchedule POST /schedules.
func (h *SchedulesHandler) CreateSchedule(c *fiber.Ctx) error {
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sched, err := h.service.Create(c.Context(), scheduleInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewScheduleResponse(sched)})
}

// UpdateSchedule PUT /schedules/:id.
func (h *SchedulesHandler) UpdateSchedule(c *fiber.Ctx) error {
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sched, err := h.service.Update(c.Context(), c.Params("id"), scheduleInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScheduleResponse(sched)})
}

// GetSchedule GET /schedules/:id.
func (h *SchedulesHandler) GetSchedule(c *fiber.Ctx) error {
	sched, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScheduleResponse(sched)})
}

// ListSchedules GET /schedules.
func (h *SchedulesHandler) ListSchedules(c *fiber.Ctx) error {
	filter := repository.ScheduleFilter{Active: activeQuery(c)}
	if kind := c.Query("entity_kind"); kind != "" {
		k := domain.ScheduleEntityKind(kind)
		filter.EntityKind = &k
	}
	if entityID := c.Query("entity_id"); entityID != "" {
		filter.EntityID = &entityID
	}
	scheds, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ScheduleResponse, 0, len(scheds))
	for i := range scheds {
		items = append(items, dto.NewScheduleResponse(&scheds[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListUpcoming GET /schedules/upcoming?days=N.
func (h *SchedulesHandler) ListUpcoming(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	if days < 0 {
		return apperrors.NewValidationError("days must not be negative", nil)
	}
	scheds, err := h.service.ListDue(c.Context(), days)
	if err != nil {
		return err
	}
	items := make([]dto.ScheduleResponse, 0, len(scheds))
	for i := range scheds {
		items = append(items, dto.NewScheduleResponse(&scheds[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkTriggered POST /schedules/:id/trigger.
func (h *SchedulesHandler) MarkTriggered(c *fiber.Ctx) error {
	sched, err := h.service.MarkTriggered(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScheduleResponse(sched)})
}

// DeleteSchedule DELETE /schedules/:id.
func (h *SchedulesHandler) DeleteSchedule(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
