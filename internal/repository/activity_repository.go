package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	RequestID *string
	State     *domain.ActivityState
	Limit     int
	Offset    int
}

// ActivityRepository persists activities and their technician assignments.
type ActivityRepository interface {
	Create(ctx context.Context, act *domain.Activity) error
	Update(ctx context.Context, act *domain.Activity) error
	UpdateStateGuarded(ctx context.Context, act *domain.Activity, expected domain.ActivityState) error
	SetBilling(ctx context.Context, act *domain.Activity) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)
	AssignTechnician(ctx context.Context, activityID, technicianID string) error
	UnassignTechnician(ctx context.Context, activityID, technicianID string) error
	ListTechnicians(ctx context.Context, activityID string) ([]string, error)
	WithTx(tx pgx.Tx) ActivityRepository
}

type activityRepository struct {
	db DB
}

// NewActivityRepository instantiates the repository.
func NewActivityRepository(db DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) WithTx(tx pgx.Tx) ActivityRepository {
	return &activityRepository{db: tx}
}

const activityColumns = `id, request_id, work_type_id, description, state, priority, scheduled_at,
        internal_notes, external_reference, resolving, billing_kind, client_contract_id,
        contract_line_id, billed_hours, attachments, created_at, updated_at`

func (r *activityRepository) Create(ctx context.Context, act *domain.Activity) error {
	const query = `
        INSERT INTO activities (request_id, work_type_id, description, state, priority, scheduled_at,
            internal_notes, external_reference, resolving, attachments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		act.RequestID, act.WorkTypeID, act.Description, act.State, act.Priority, act.ScheduledAt,
		act.InternalNotes, act.ExternalReference, act.Resolving, act.Attachments,
	).Scan(&act.ID, &act.CreatedAt, &act.UpdatedAt)
}

func (r *activityRepository) Update(ctx context.Context, act *domain.Activity) error {
	const query = `
        UPDATE activities SET work_type_id=$1, description=$2, priority=$3, scheduled_at=$4,
            internal_notes=$5, external_reference=$6, resolving=$7, attachments=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.db.Exec(ctx, query,
		act.WorkTypeID, act.Description, act.Priority, act.ScheduledAt,
		act.InternalNotes, act.ExternalReference, act.Resolving, act.Attachments, act.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStateGuarded persists a state change only if the stored row is still in
// the expected state. A concurrent transition makes it return ErrStaleState.
func (r *activityRepository) UpdateStateGuarded(ctx context.Context, act *domain.Activity, expected domain.ActivityState) error {
	const query = `
        UPDATE activities SET state=$1, updated_at=NOW()
        WHERE id=$2 AND state=$3`
	cmd, err := r.db.Exec(ctx, query, act.State, act.ID, expected)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *activityRepository) SetBilling(ctx context.Context, act *domain.Activity) error {
	const query = `
        UPDATE activities SET billing_kind=$1, client_contract_id=$2, contract_line_id=$3,
            billed_hours=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query,
		act.BillingKind, act.ClientContractID, act.ContractLineID, act.BilledHours, act.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM activities WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE id=$1`, activityColumns)
	var act domain.Activity
	if err := r.scanActivity(r.db.QueryRow(ctx, query, id), &act); err != nil {
		return nil, err
	}
	return &act, nil
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.RequestID != nil {
		args = append(args, *filter.RequestID)
		clauses = append(clauses, fmt.Sprintf("request_id=$%d", len(args)))
	}
	if filter.State != nil {
		args = append(args, *filter.State)
		clauses = append(clauses, fmt.Sprintf("state=$%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE %s ORDER BY created_at`, activityColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Activity
	for rows.Next() {
		var act domain.Activity
		if err := r.scanActivity(rows, &act); err != nil {
			return nil, err
		}
		result = append(result, act)
	}
	return result, rows.Err()
}

func (r *activityRepository) AssignTechnician(ctx context.Context, activityID, technicianID string) error {
	const query = `
        INSERT INTO activity_technicians (activity_id, technician_id)
        VALUES ($1,$2)
        ON CONFLICT (activity_id, technician_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, activityID, technicianID)
	return err
}

func (r *activityRepository) UnassignTechnician(ctx context.Context, activityID, technicianID string) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM activity_technicians WHERE activity_id=$1 AND technician_id=$2`,
		activityID, technicianID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *activityRepository) ListTechnicians(ctx context.Context, activityID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT technician_id FROM activity_technicians WHERE activity_id=$1 ORDER BY assigned_at`,
		activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

func (r *activityRepository) scanActivity(row rowScanner, act *domain.Activity) error {
	return row.Scan(
		&act.ID, &act.RequestID, &act.WorkTypeID, &act.Description, &act.State, &act.Priority,
		&act.ScheduledAt, &act.InternalNotes, &act.ExternalReference, &act.Resolving,
		&act.BillingKind, &act.ClientContractID, &act.ContractLineID, &act.BilledHours,
		&act.Attachments, &act.CreatedAt, &act.UpdatedAt,
	)
}
