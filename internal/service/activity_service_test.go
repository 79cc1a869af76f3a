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

type fakeActivityRepo struct {
	repository.ActivityRepository
	getByID    func(ctx context.Context, id string) (*domain.Activity, error)
	setBilling func(ctx context.Context, act *domain.Activity) error
}

func (f *fakeActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return f.getByID(ctx, id)
}

func (f *fakeActivityRepo) SetBilling(ctx context.Context, act *domain.Activity) error {
	return f.setBilling(ctx, act)
}

func (f *fakeActivityRepo) WithTx(tx pgx.Tx) repository.ActivityRepository { return f }

func completedActivity() *domain.Activity {
	return &domain.Activity{
		ID:        "act-1",
		RequestID: "req-1",
		State:     domain.ActivityStateCompleted,
		Priority:  "normale",
	}
}

func newActivityService(acts *fakeActivityRepo, contracts *fakeContractRepo, tx *fakeTx) *service.ActivityService {
	return service.NewActivityService(service.ActivityDependencies{
		ActivityRepo: acts,
		ContractRepo: contracts,
		Pool:         &fakeTxStarter{tx: tx},
		Dispatcher:   events.NewInMemoryDispatcher(),
		Policy:       billing.Policy{},
		Logger:       zap.NewNop(),
	})
}

func TestSetBillingRejectsUnknownKind(t *testing.T) {
	persisted := false
	acts := &fakeActivityRepo{
		getByID: func(_ context.Context, _ string) (*domain.Activity, error) {
			return completedActivity(), nil
		},
		setBilling: func(_ context.Context, _ *domain.Activity) error {
			persisted = true
			return nil
		},
	}

	svc := newActivityService(acts, nil, &fakeTx{})
	_, err := svc.SetBilling(context.Background(), "u-1", "act-1", service.BillingInput{
		Kind: domain.BillingKind("gratis"),
	})

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.False(t, persisted, "an unknown kind must never reach the database")
}

func TestSetBillingPaidKind(t *testing.T) {
	var saved *domain.Activity
	acts := &fakeActivityRepo{
		getByID: func(_ context.Context, _ string) (*domain.Activity, error) {
			return completedActivity(), nil
		},
		setBilling: func(_ context.Context, act *domain.Activity) error {
			saved = act
			return nil
		},
	}

	svc := newActivityService(acts, nil, &fakeTx{})
	updated, err := svc.SetBilling(context.Background(), "u-1", "act-1", service.BillingInput{
		Kind: domain.BillingPaid,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.NotNil(t, updated.BillingKind)
	assert.Equal(t, domain.BillingPaid, *updated.BillingKind)
}

func TestSetBillingHourBankConcurrentDeductionConflicts(t *testing.T) {
	tx := &fakeTx{}
	acts := &fakeActivityRepo{
		getByID: func(_ context.Context, _ string) (*domain.Activity, error) {
			return completedActivity(), nil
		},
		setBilling: func(_ context.Context, _ *domain.Activity) error {
			t.Fatal("billing must not persist when the contract guard fails")
			return nil
		},
	}
	contracts := &fakeContractRepo{
		getByID: func(_ context.Context, _ string) (*domain.ClientContract, error) {
			return storedHourBank(100, 30), nil
		},
		insertUsage: func(_ context.Context, _ *domain.ContractUsage) error { return nil },
		updateAccounting: func(_ context.Context, _ *domain.ClientContract, _ float64) error {
			return repository.ErrStaleState
		},
	}

	svc := newActivityService(acts, contracts, tx)
	contractID := "cc-1"
	hours := 2.0
	_, err := svc.SetBilling(context.Background(), "u-1", "act-1", service.BillingInput{
		Kind:             domain.BillingHourBank,
		ClientContractID: &contractID,
		Hours:            &hours,
	})

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}
