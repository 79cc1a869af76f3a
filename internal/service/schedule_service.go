package service

import (
	"context"
	"strings"
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// ScheduleService covers recurring deadline definitions.
type ScheduleService struct {
	schedules repository.ScheduleRepository
}

// NewScheduleService constructs the service.
func NewScheduleService(schedules repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{schedules: schedules}
}

// ScheduleInput carries the editable fields of a schedule.
type ScheduleInput struct {
	EntityKind     domain.ScheduleEntityKind
	EntityID       *string
	Name           string
	ActionKind     domain.ScheduleActionKind
	Frequency      domain.ScheduleFrequency
	CustomInterval *string
	NoticeDays     int
	NextTrigger    *time.Time
	Active         bool
	ActionConfig   map[string]any
}

var validEntityKinds = map[domain.ScheduleEntityKind]bool{
	domain.ScheduleEntityContract:      true,
	domain.ScheduleEntityLicense:       true,
	domain.ScheduleEntityProduct:       true,
	domain.ScheduleEntityCertification: true,
	domain.ScheduleEntityContractLine:  true,
	domain.ScheduleEntityCustom:        true,
}

var validActionKinds = map[domain.ScheduleActionKind]bool{
	domain.ScheduleActionCreateRequest: true,
	domain.ScheduleActionNotify:        true,
	domain.ScheduleActionAlert:         true,
	domain.ScheduleActionCustom:        true,
}

var validFrequencies = map[domain.ScheduleFrequency]bool{
	domain.FrequencyDaily:      true,
	domain.FrequencyWeekly:     true,
	domain.FrequencyMonthly:    true,
	domain.FrequencyBimonthly:  true,
	domain.FrequencyQuarterly:  true,
	domain.FrequencyHalfYearly: true,
	domain.FrequencyYearly:     true,
	domain.FrequencyCustom:     true,
}

func (in ScheduleInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.NewValidationError("schedule name is required", nil)
	}
	if !validEntityKinds[in.EntityKind] {
		return apperrors.NewValidationError("unknown entity kind", map[string]any{"entity_kind": string(in.EntityKind)})
	}
	if !validActionKinds[in.ActionKind] {
		return apperrors.NewValidationError("unknown action kind", map[string]any{"action_kind": string(in.ActionKind)})
	}
	if !validFrequencies[in.Frequency] {
		return apperrors.NewValidationError("unknown frequency", map[string]any{"frequency": string(in.Frequency)})
	}
	if in.Frequency == domain.FrequencyCustom && (in.CustomInterval == nil || strings.TrimSpace(*in.CustomInterval) == "") {
		return apperrors.NewValidationError("custom frequency needs an interval expression", nil)
	}
	if in.NoticeDays < 0 {
		return apperrors.NewValidationError("notice days cannot be negative", nil)
	}
	return nil
}

// Create registers a schedule.
func (s *ScheduleService) Create(ctx context.Context, input ScheduleInput) (*domain.Schedule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	sched := &domain.Schedule{
		EntityKind:     input.EntityKind,
		EntityID:       input.EntityID,
		Name:           strings.TrimSpace(input.Name),
		ActionKind:     input.ActionKind,
		Frequency:      input.Frequency,
		CustomInterval: input.CustomInterval,
		NoticeDays:     input.NoticeDays,
		NextTrigger:    input.NextTrigger,
		Active:         input.Active,
		ActionConfig:   input.ActionConfig,
	}
	if sched.ActionConfig == nil {
		sched.ActionConfig = map[string]any{}
	}
	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sched, nil
}

// Update edits a schedule.
func (s *ScheduleService) Update(ctx context.Context, id string, input ScheduleInput) (*domain.Schedule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	sched, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	sched.EntityKind = input.EntityKind
	sched.EntityID = input.EntityID
	sched.Name = strings.TrimSpace(input.Name)
	sched.ActionKind = input.ActionKind
	sched.Frequency = input.Frequency
	sched.CustomInterval = input.CustomInterval
	sched.NoticeDays = input.NoticeDays
	sched.NextTrigger = input.NextTrigger
	sched.Active = input.Active
	if input.ActionConfig != nil {
		sched.ActionConfig = input.ActionConfig
	}

	if err := s.schedules.Update(ctx, sched); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sched, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.schedules.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// GetByID fetches one schedule.
func (s *ScheduleService) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	sched, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sched, nil
}

// List returns schedules matching the filter.
func (s *ScheduleService) List(ctx context.Context, filter repository.ScheduleFilter) ([]domain.Schedule, error) {
	schedules, err := s.schedules.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return schedules, nil
}

// ListDue returns active schedules whose notice window opens within the
// given number of days. Zero means due as of now.
func (s *ScheduleService) ListDue(ctx context.Context, withinDays int) ([]domain.Schedule, error) {
	cutoff := time.Now()
	if withinDays > 0 {
		cutoff = cutoff.AddDate(0, 0, withinDays)
	}
	due, err := s.schedules.ListDue(ctx, cutoff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return due, nil
}

// MarkTriggered stamps a firing and advances the next trigger by the
// schedule's frequency.
func (s *ScheduleService) MarkTriggered(ctx context.Context, id string) (*domain.Schedule, error) {
	sched, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	var next *time.Time
	if sched.NextTrigger != nil {
		if advanced := NextOccurrence(*sched.NextTrigger, sched.Frequency); advanced != nil {
			next = advanced
		}
	}
	if err := s.schedules.MarkTriggered(ctx, id, now, next); err != nil {
		return nil, apperrors.MapError(err)
	}

	sched.LastTrigger = &now
	sched.NextTrigger = next
	return sched, nil
}

// NextOccurrence advances a trigger instant by one period. Custom
// frequencies have no computable next occurrence and return nil.
func NextOccurrence(from time.Time, freq domain.ScheduleFrequency) *time.Time {
	var next time.Time
	switch freq {
	case domain.FrequencyDaily:
		next = from.AddDate(0, 0, 1)
	case domain.FrequencyWeekly:
		next = from.AddDate(0, 0, 7)
	case domain.FrequencyMonthly:
		next = from.AddDate(0, 1, 0)
	case domain.FrequencyBimonthly:
		next = from.AddDate(0, 2, 0)
	case domain.FrequencyQuarterly:
		next = from.AddDate(0, 3, 0)
	case domain.FrequencyHalfYearly:
		next = from.AddDate(0, 6, 0)
	case domain.FrequencyYearly:
		next = from.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &next
}
