package service_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/billing"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/events"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { t.rolledBack = true; return nil }

type fakeTxStarter struct {
	tx *fakeTx
}

func (s *fakeTxStarter) Begin(ctx context.Context) (pgx.Tx, error) { return s.tx, nil }

// fakeContractRepo overrides the methods the tests exercise. Anything else
// panics, which flags an unexpected call.
type fakeContractRepo struct {
	repository.ClientContractRepository
	getByID          func(ctx context.Context, id string) (*domain.ClientContract, error)
	insertUsage      func(ctx context.Context, usage *domain.ContractUsage) error
	updateAccounting func(ctx context.Context, c *domain.ClientContract, expectedUsed float64) error
}

func (f *fakeContractRepo) GetByID(ctx context.Context, id string) (*domain.ClientContract, error) {
	return f.getByID(ctx, id)
}

func (f *fakeContractRepo) InsertUsage(ctx context.Context, usage *domain.ContractUsage) error {
	return f.insertUsage(ctx, usage)
}

func (f *fakeContractRepo) UpdateAccounting(ctx context.Context, c *domain.ClientContract, expectedUsed float64) error {
	return f.updateAccounting(ctx, c, expectedUsed)
}

func (f *fakeContractRepo) WithTx(tx pgx.Tx) repository.ClientContractRepository { return f }

func storedHourBank(total int, used float64) *domain.ClientContract {
	return &domain.ClientContract{
		ID:             "cc-1",
		ClientID:       "cl-1",
		Kind:           domain.ContractHourBank,
		TotalHours:     &total,
		UsedHours:      used,
		AlertThreshold: 5,
		State:          domain.ContractStateActive,
	}
}

func newContractService(repo *fakeContractRepo, tx *fakeTx) *service.ContractService {
	return service.NewContractService(service.ContractDependencies{
		ContractRepo: repo,
		Pool:         &fakeTxStarter{tx: tx},
		Dispatcher:   events.NewInMemoryDispatcher(),
		Policy:       billing.Policy{},
		Logger:       zap.NewNop(),
	})
}

func TestRecordUsageGuardsOnUsedHoursSnapshot(t *testing.T) {
	tx := &fakeTx{}
	var gotExpected float64
	var gotUsed float64
	inserted := false

	repo := &fakeContractRepo{
		getByID: func(_ context.Context, id string) (*domain.ClientContract, error) {
			assert.Equal(t, "cc-1", id)
			return storedHourBank(100, 30), nil
		},
		insertUsage: func(_ context.Context, usage *domain.ContractUsage) error {
			inserted = true
			assert.Equal(t, 2.0, usage.Hours)
			return nil
		},
		updateAccounting: func(_ context.Context, c *domain.ClientContract, expectedUsed float64) error {
			gotExpected = expectedUsed
			gotUsed = c.UsedHours
			return nil
		},
	}

	svc := newContractService(repo, tx)
	updated, err := svc.RecordUsage(context.Background(), "u-1", "cc-1", service.UsageInput{Hours: 2})
	require.NoError(t, err)

	// the guard carries the counter the deduction was computed from
	assert.Equal(t, 30.0, gotExpected)
	assert.Equal(t, 32.0, gotUsed)
	assert.Equal(t, 32.0, updated.UsedHours)
	assert.True(t, inserted)
	assert.True(t, tx.committed)
}

func TestRecordUsageConcurrentDeductionConflicts(t *testing.T) {
	tx := &fakeTx{}
	repo := &fakeContractRepo{
		getByID: func(_ context.Context, _ string) (*domain.ClientContract, error) {
			return storedHourBank(100, 30), nil
		},
		insertUsage: func(_ context.Context, _ *domain.ContractUsage) error { return nil },
		updateAccounting: func(_ context.Context, _ *domain.ClientContract, _ float64) error {
			// another deduction moved used_hours between read and write
			return repository.ErrStaleState
		},
	}

	svc := newContractService(repo, tx)
	_, err := svc.RecordUsage(context.Background(), "u-1", "cc-1", service.UsageInput{Hours: 2})

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestTopUpConcurrentChangeConflicts(t *testing.T) {
	repo := &fakeContractRepo{
		getByID: func(_ context.Context, _ string) (*domain.ClientContract, error) {
			return storedHourBank(10, 10), nil
		},
		updateAccounting: func(_ context.Context, _ *domain.ClientContract, _ float64) error {
			return repository.ErrStaleState
		},
	}

	svc := newContractService(repo, &fakeTx{})
	_, err := svc.TopUp(context.Background(), "u-1", "cc-1", 5, nil)

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CONFLICT", de.Code)
}

func TestTopUpGuardsOnUsedHoursSnapshot(t *testing.T) {
	var gotExpected float64
	var gotTotal int
	repo := &fakeContractRepo{
		getByID: func(_ context.Context, _ string) (*domain.ClientContract, error) {
			return storedHourBank(10, 7), nil
		},
		updateAccounting: func(_ context.Context, c *domain.ClientContract, expectedUsed float64) error {
			gotExpected = expectedUsed
			gotTotal = *c.TotalHours
			return nil
		},
	}

	svc := newContractService(repo, &fakeTx{})
	updated, err := svc.TopUp(context.Background(), "u-1", "cc-1", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 7.0, gotExpected)
	assert.Equal(t, 15, gotTotal)
	require.NotNil(t, updated.TotalHours)
	assert.Equal(t, 15, *updated.TotalHours)
}
