package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
)

func TestNextOccurrence(t *testing.T) {
	from := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		freq domain.ScheduleFrequency
		want time.Time
	}{
		{domain.FrequencyDaily, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)},
		{domain.FrequencyWeekly, time.Date(2025, 2, 7, 9, 0, 0, 0, time.UTC)},
		{domain.FrequencyQuarterly, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)},
		{domain.FrequencyYearly, time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := service.NextOccurrence(from, tc.freq)
		require.NotNil(t, got, string(tc.freq))
		assert.Equal(t, tc.want, *got, string(tc.freq))
	}
}

func TestNextOccurrenceMonthly(t *testing.T) {
	// Jan 31 + 1 month normalizes past February
	from := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	got := service.NextOccurrence(from, domain.FrequencyMonthly)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), *got)
}

func TestNextOccurrenceCustomHasNoNext(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, service.NextOccurrence(from, domain.FrequencyCustom))
}
