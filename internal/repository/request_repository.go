package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// RequestFilter narrows request listings.
type RequestFilter struct {
	State       *domain.RequestState
	ClientID    *string
	CreatedByID *string
	Priority    *string
	Search      *string
	Limit       int
	Offset      int
}

// RequestRepository persists support requests.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	Update(ctx context.Context, req *domain.Request) error
	UpdateStateGuarded(ctx context.Context, req *domain.Request, expected domain.RequestState) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.Request, error)
	Count(ctx context.Context, filter RequestFilter) (int64, error)
	WithTx(tx pgx.Tx) RequestRepository
}

type requestRepository struct {
	db DB
}

// NewRequestRepository instantiates the repository.
func NewRequestRepository(db DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) WithTx(tx pgx.Tx) RequestRepository {
	return &requestRepository{db: tx}
}

const requestColumns = `id, number, client_id, site_id, scope_id, description, state, origin, priority,
        appointment_at, created_by_id, supervisor_id, auto_validated, validated_by_id, validated_at,
        validation_due, reopened_at, reopen_reason, created_at, updated_at`

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	const query = `
        INSERT INTO requests (client_id, site_id, scope_id, description, state, origin, priority,
            appointment_at, created_by_id, supervisor_id, auto_validated, validation_due)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, number, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		req.ClientID, req.SiteID, req.ScopeID, req.Description, req.State, req.Origin, req.Priority,
		req.AppointmentAt, req.CreatedByID, req.SupervisorID, req.AutoValidated, req.ValidationDue,
	).Scan(&req.ID, &req.Number, &req.CreatedAt, &req.UpdatedAt)
}

func (r *requestRepository) Update(ctx context.Context, req *domain.Request) error {
	const query = `
        UPDATE requests SET site_id=$1, scope_id=$2, description=$3, priority=$4, appointment_at=$5,
            supervisor_id=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.db.Exec(ctx, query,
		req.SiteID, req.ScopeID, req.Description, req.Priority, req.AppointmentAt,
		req.SupervisorID, req.ID)
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
func (r *requestRepository) UpdateStateGuarded(ctx context.Context, req *domain.Request, expected domain.RequestState) error {
	const query = `
        UPDATE requests SET state=$1, auto_validated=$2, validated_by_id=$3, validated_at=$4,
            reopened_at=$5, reopen_reason=$6, updated_at=NOW()
        WHERE id=$7 AND state=$8`
	cmd, err := r.db.Exec(ctx, query,
		req.State, req.AutoValidated, req.ValidatedByID, req.ValidatedAt,
		req.ReopenedAt, req.ReopenReason, req.ID, expected)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id=$1`, requestColumns)
	var req domain.Request
	if err := r.scanRequest(r.db.QueryRow(ctx, query, id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	clauses, args := buildRequestClauses(filter)
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE %s ORDER BY number DESC`, requestColumns, strings.Join(clauses, " AND "))
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

	var result []domain.Request
	for rows.Next() {
		var req domain.Request
		if err := r.scanRequest(rows, &req); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *requestRepository) Count(ctx context.Context, filter RequestFilter) (int64, error) {
	clauses, args := buildRequestClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM requests WHERE %s`, strings.Join(clauses, " AND "))
	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildRequestClauses(filter RequestFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.State != nil {
		args = append(args, *filter.State)
		clauses = append(clauses, fmt.Sprintf("state=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.CreatedByID != nil {
		args = append(args, *filter.CreatedByID)
		clauses = append(clauses, fmt.Sprintf("created_by_id=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("description ILIKE $%d", len(args)))
	}
	return clauses, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *requestRepository) scanRequest(row rowScanner, req *domain.Request) error {
	return row.Scan(
		&req.ID, &req.Number, &req.ClientID, &req.SiteID, &req.ScopeID, &req.Description,
		&req.State, &req.Origin, &req.Priority, &req.AppointmentAt, &req.CreatedByID,
		&req.SupervisorID, &req.AutoValidated, &req.ValidatedByID, &req.ValidatedAt,
		&req.ValidationDue, &req.ReopenedAt, &req.ReopenReason, &req.CreatedAt, &req.UpdatedAt,
	)
}
