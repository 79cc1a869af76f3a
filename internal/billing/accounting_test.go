package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/billing"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

var usageDay = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func hourBank(total int, used float64) domain.ClientContract {
	return domain.ClientContract{
		ID:             "c1",
		Kind:           domain.ContractHourBank,
		TotalHours:     &total,
		UsedHours:      used,
		AlertThreshold: 20,
		State:          domain.ContractStateActive,
	}
}

func TestRemainingHours(t *testing.T) {
	c := hourBank(100, 30)
	remaining := billing.RemainingHours(c)
	require.NotNil(t, remaining)
	assert.Equal(t, 70.0, *remaining)

	// flat-fee contracts have no remaining hours
	flat := domain.ClientContract{Kind: domain.ContractFlatFee}
	assert.Nil(t, billing.RemainingHours(flat))

	// hour-bank without a total set is undefined too
	c.TotalHours = nil
	assert.Nil(t, billing.RemainingHours(c))
}

func TestRecordUsage(t *testing.T) {
	c := hourBank(100, 0)
	actID := "act-1"
	updated, usage, low, err := billing.RecordUsage(c, billing.UsageInput{
		Hours:      30,
		ActivityID: &actID,
		Now:        usageDay,
	}, billing.Policy{})
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.UsedHours)
	remaining := billing.RemainingHours(updated)
	require.NotNil(t, remaining)
	assert.Equal(t, 70.0, *remaining)
	assert.False(t, low)
	assert.Equal(t, "c1", usage.ClientContractID)
	assert.Equal(t, 30.0, usage.Hours)
	assert.Equal(t, usageDay, usage.UsedOn)
	require.NotNil(t, usage.ActivityID)
	assert.Equal(t, actID, *usage.ActivityID)
}

func TestRecordUsageRejectsNonPositiveHours(t *testing.T) {
	c := hourBank(100, 0)
	for _, hours := range []float64{0, -2} {
		_, _, _, err := billing.RecordUsage(c, billing.UsageInput{Hours: hours, Now: usageDay}, billing.Policy{})
		var de *apperrors.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "VALIDATION_FAILED", de.Code)
	}
}

func TestRecordUsageSoftLimitAllowsOverdraw(t *testing.T) {
	c := hourBank(10, 8)
	updated, _, low, err := billing.RecordUsage(c, billing.UsageInput{Hours: 5, Now: usageDay}, billing.Policy{})
	require.NoError(t, err)
	remaining := billing.RemainingHours(updated)
	require.NotNil(t, remaining)
	assert.Equal(t, -3.0, *remaining)
	assert.True(t, low)
	assert.Equal(t, domain.ContractStateActive, updated.State, "exhaustion stays manual without AutoExhaust")
}

func TestRecordUsageBlockOverdraw(t *testing.T) {
	c := hourBank(10, 8)
	_, _, _, err := billing.RecordUsage(c, billing.UsageInput{Hours: 5, Now: usageDay}, billing.Policy{BlockOverdraw: true})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CONFLICT", de.Code)

	// an exact drain is still allowed
	updated, _, _, err := billing.RecordUsage(c, billing.UsageInput{Hours: 2, Now: usageDay}, billing.Policy{BlockOverdraw: true})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.UsedHours)
}

func TestRecordUsageAutoExhaust(t *testing.T) {
	c := hourBank(10, 8)
	updated, _, _, err := billing.RecordUsage(c, billing.UsageInput{Hours: 2, Now: usageDay}, billing.Policy{AutoExhaust: true})
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStateExhausted, updated.State)
}

func TestLowHoursAlertThreshold(t *testing.T) {
	c := hourBank(100, 70)
	// 100-70-9 = 21 remaining, above the threshold of 20
	updated, _, low, err := billing.RecordUsage(c, billing.UsageInput{Hours: 9, Now: usageDay}, billing.Policy{})
	require.NoError(t, err)
	assert.False(t, low)

	// one more hour crosses the threshold
	_, _, low, err = billing.RecordUsage(updated, billing.UsageInput{Hours: 1, Now: usageDay}, billing.Policy{})
	require.NoError(t, err)
	assert.True(t, low)
}

func TestTopUp(t *testing.T) {
	c := hourBank(100, 30)
	updated, err := billing.TopUp(c, 10)
	require.NoError(t, err)
	require.NotNil(t, updated.TotalHours)
	assert.Equal(t, 110, *updated.TotalHours)
	remaining := billing.RemainingHours(updated)
	require.NotNil(t, remaining)
	assert.Equal(t, 80.0, *remaining)
}

func TestTopUpReactivatesExhausted(t *testing.T) {
	c := hourBank(10, 10)
	c.State = domain.ContractStateExhausted
	updated, err := billing.TopUp(c, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStateActive, updated.State)
}

func TestTopUpValidation(t *testing.T) {
	_, err := billing.TopUp(hourBank(10, 0), 0)
	require.Error(t, err)

	flat := domain.ClientContract{Kind: domain.ContractFlatFee}
	_, err = billing.TopUp(flat, 5)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)

	// a contract created without a total starts from zero
	bank := domain.ClientContract{Kind: domain.ContractHourBank}
	updated, err := billing.TopUp(bank, 5)
	require.NoError(t, err)
	require.NotNil(t, updated.TotalHours)
	assert.Equal(t, 5, *updated.TotalHours)
}
