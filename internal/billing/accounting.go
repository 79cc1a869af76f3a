// Package billing computes hour-bank consumption for client contracts.
// Like the lifecycle engine it is pure: callers read the contract, apply a
// function, and persist the returned snapshot together with the usage
// record in one transaction.
package billing

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// Policy controls the optional enforcement around hour consumption. Both
// knobs default to off, matching the platform's historical soft-limit
// behavior: remaining hours may go negative and exhaustion stays a manual
// state change.
type Policy struct {
	BlockOverdraw bool
	AutoExhaust   bool
}

// UsageInput describes one hour deduction.
type UsageInput struct {
	Hours          float64
	ActivityID     *string
	ContractLineID *string
	Note           *string
	RecordedByID   *string
	Now            time.Time
}

// RemainingHours returns total minus used hours for hour-bank contracts
// with a total set, nil otherwise.
func RemainingHours(c domain.ClientContract) *float64 {
	if c.Kind != domain.ContractHourBank || c.TotalHours == nil {
		return nil
	}
	remaining := float64(*c.TotalHours) - c.UsedHours
	return &remaining
}

// RecordUsage deducts hours from an hour-bank contract, returning the
// updated contract, the usage record to append, and whether the remaining
// hours fell to or below the contract's alert threshold.
func RecordUsage(c domain.ClientContract, in UsageInput, p Policy) (domain.ClientContract, domain.ContractUsage, bool, error) {
	if in.Hours <= 0 {
		return c, domain.ContractUsage{}, false, apperrors.NewValidationError("hours must be greater than zero", map[string]any{
			"hours": in.Hours,
		})
	}
	if c.Kind != domain.ContractHourBank {
		return c, domain.ContractUsage{}, false, apperrors.NewValidationError("contract is not hour-bank billed", map[string]any{
			"contract_kind": string(c.Kind),
		})
	}

	if p.BlockOverdraw {
		if remaining := RemainingHours(c); remaining != nil && in.Hours > *remaining {
			return c, domain.ContractUsage{}, false, apperrors.NewConflict("insufficient contract hours", map[string]any{
				"requested_hours": in.Hours,
				"remaining_hours": *remaining,
			})
		}
	}

	c.UsedHours += in.Hours

	usage := domain.ContractUsage{
		ClientContractID: c.ID,
		ActivityID:       in.ActivityID,
		ContractLineID:   in.ContractLineID,
		Hours:            in.Hours,
		UsedOn:           in.Now,
		Note:             in.Note,
		RecordedByID:     in.RecordedByID,
	}

	lowHours := false
	if remaining := RemainingHours(c); remaining != nil {
		lowHours = *remaining <= float64(c.AlertThreshold)
		if p.AutoExhaust && *remaining <= 0 && c.State == domain.ContractStateActive {
			c.State = domain.ContractStateExhausted
		}
	}
	return c, usage, lowHours, nil
}

// TopUp adds hours to an hour-bank contract. An exhausted contract becomes
// active again.
func TopUp(c domain.ClientContract, additional int) (domain.ClientContract, error) {
	if additional <= 0 {
		return c, apperrors.NewValidationError("additional hours must be greater than zero", map[string]any{
			"additional_hours": additional,
		})
	}
	if c.Kind != domain.ContractHourBank {
		return c, apperrors.NewValidationError("only hour-bank contracts can be topped up", map[string]any{
			"contract_kind": string(c.Kind),
		})
	}

	total := additional
	if c.TotalHours != nil {
		total += *c.TotalHours
	}
	c.TotalHours = &total

	if c.State == domain.ContractStateExhausted {
		c.State = domain.ContractStateActive
	}
	return c, nil
}
