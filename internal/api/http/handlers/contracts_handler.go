package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/api/dto"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/auth"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/billing"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// ContractsHandler manages contract template and subscription endpoints.
type ContractsHandler struct {
	service *service.ContractService
}

// NewContractsHandler constructs handler.
func NewContractsHandler(contractService *service.ContractService) *ContractsHandler {
	return &ContractsHandler{service: contractService}
}

func templateInputFromRequest(req dto.TemplateRequest) service.TemplateInput {
	return service.TemplateInput{
		Name:         req.Name,
		Kind:         req.Kind,
		Description:  req.Description,
		Configurable: req.Configurable,
		Active:       req.Active,
	}
}

func lineInputFromRequest(req dto.LineRequest) service.LineInput {
	return service.LineInput{
		LineKind:      req.LineKind,
		Name:          req.Name,
		Description:   req.Description,
		IncludedHours: req.IncludedHours,
		Amount:        req.Amount,
		ScopeID:       req.ScopeID,
		WorkTypeID:    req.WorkTypeID,
		Position:      req.Position,
	}
}

// CreateTemplate POST /contract-templates.
func (h *ContractsHandler) CreateTemplate(c *fiber.Ctx) error {
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tpl, err := h.service.CreateTemplate(c.Context(), templateInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTemplateResponse(tpl)})
}

// UpdateTemplate PUT /contract-templates/:id.
func (h *ContractsHandler) UpdateTemplate(c *fiber.Ctx) error {
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tpl, err := h.service.UpdateTemplate(c.Context(), c.Params("id"), templateInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTemplateResponse(tpl)})
}

// GetTemplate GET /contract-templates/:id.
func (h *ContractsHandler) GetTemplate(c *fiber.Ctx) error {
	tpl, err := h.service.GetTemplate(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTemplateResponse(tpl)})
}

// ListTemplates GET /contract-templates.
func (h *ContractsHandler) ListTemplates(c *fiber.Ctx) error {
	tpls, err := h.service.ListTemplates(c.Context(), activeQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TemplateResponse, 0, len(tpls))
	for i := range tpls {
		items = append(items, dto.NewTemplateResponse(&tpls[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddLine POST /contract-templates/:id/lines.
func (h *ContractsHandler) AddLine(c *fiber.Ctx) error {
	var req dto.LineRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	line, err := h.service.AddLine(c.Context(), c.Params("id"), lineInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewLineResponse(line)})
}

// UpdateLine PUT /contract-templates/:id/lines/:lineId.
func (h *ContractsHandler) UpdateLine(c *fiber.Ctx) error {
	var req dto.LineRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	line, err := h.service.UpdateLine(c.Context(), c.Params("lineId"), lineInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLineResponse(line)})
}

// RemoveLine DELETE /contract-templates/:id/lines/:lineId.
func (h *ContractsHandler) RemoveLine(c *fiber.Ctx) error {
	if err := h.service.RemoveLine(c.Context(), c.Params("lineId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateClientContract POST /contracts.
func (h *ContractsHandler) CreateClientContract(c *fiber.Ctx) error {
	var req dto.CreateClientContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ClientID == "" {
		return apperrors.NewValidationError("client_id required", nil)
	}
	contract, err := h.service.CreateClientContract(c.Context(), service.ClientContractInput{
		ClientID:         req.ClientID,
		TemplateID:       req.TemplateID,
		CustomName:       req.CustomName,
		ActivatedOn:      req.ActivatedOn,
		ExpiresOn:        req.ExpiresOn,
		Kind:             req.Kind,
		FeeAmount:        req.FeeAmount,
		FeeFrequency:     req.FeeFrequency,
		TotalHours:       req.TotalHours,
		AlertThreshold:   req.AlertThreshold,
		SignedAttachment: req.SignedAttachment,
		Notes:            req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewClientContractResponse(contract, billing.RemainingHours(*contract))})
}

// UpdateClientContract PUT /contracts/:id.
func (h *ContractsHandler) UpdateClientContract(c *fiber.Ctx) error {
	var req dto.UpdateClientContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	contract, err := h.service.UpdateClientContract(c.Context(), c.Params("id"), req.CustomName, req.ExpiresOn, req.AlertThreshold, req.State, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientContractResponse(contract, billing.RemainingHours(*contract))})
}

// GetClientContract GET /contracts/:id.
func (h *ContractsHandler) GetClientContract(c *fiber.Ctx) error {
	contract, err := h.service.GetClientContract(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientContractResponse(contract, billing.RemainingHours(*contract))})
}

// ListClientContracts GET /contracts.
func (h *ContractsHandler) ListClientContracts(c *fiber.Ctx) error {
	filter := repository.ClientContractFilter{}
	if clientID := c.Query("client_id"); clientID != "" {
		filter.ClientID = &clientID
	}
	if state := c.Query("state"); state != "" {
		st := domain.ContractState(state)
		filter.State = &st
	}
	if kind := c.Query("kind"); kind != "" {
		k := domain.ContractKind(kind)
		filter.Kind = &k
	}
	contracts, err := h.service.ListClientContracts(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ClientContractResponse, 0, len(contracts))
	for i := range contracts {
		items = append(items, dto.NewClientContractResponse(&contracts[i], billing.RemainingHours(contracts[i])))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RecordUsage POST /contracts/:id/usages.
func (h *ContractsHandler) RecordUsage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UsageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	contract, err := h.service.RecordUsage(c.Context(), principal.User.ID, c.Params("id"), service.UsageInput{
		Hours:          req.Hours,
		ContractLineID: req.ContractLineID,
		Note:           req.Note,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewClientContractResponse(contract, billing.RemainingHours(*contract))})
}

// ListUsages GET /contracts/:id/usages.
func (h *ContractsHandler) ListUsages(c *fiber.Ctx) error {
	usages, err := h.service.ListUsages(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.UsageResponse, 0, len(usages))
	for i := range usages {
		items = append(items, dto.NewUsageResponse(&usages[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// TopUp POST /contracts/:id/topup.
func (h *ContractsHandler) TopUp(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TopUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AdditionalHours <= 0 {
		return apperrors.NewValidationError("additional_hours must be positive", nil)
	}
	contract, err := h.service.TopUp(c.Context(), principal.User.ID, c.Params("id"), req.AdditionalHours, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientContractResponse(contract, billing.RemainingHours(*contract))})
}
