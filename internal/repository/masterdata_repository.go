package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ScopeRepository persists scope definitions.
type ScopeRepository interface {
	Create(ctx context.Context, scope *domain.Scope) error
	Update(ctx context.Context, scope *domain.Scope) error
	GetByID(ctx context.Context, id string) (*domain.Scope, error)
	List(ctx context.Context, active *bool) ([]domain.Scope, error)
}

type scopeRepository struct {
	db DB
}

// NewScopeRepository instantiates the repository.
func NewScopeRepository(db DB) ScopeRepository {
	return &scopeRepository{db: db}
}

const scopeColumns = `id, name, description, supervisor_id, active, created_at, updated_at`

func (r *scopeRepository) Create(ctx context.Context, scope *domain.Scope) error {
	const query = `
        INSERT INTO scopes (name, description, supervisor_id, active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		scope.Name, scope.Description, scope.SupervisorID, scope.Active,
	).Scan(&scope.ID, &scope.CreatedAt, &scope.UpdatedAt)
}

func (r *scopeRepository) Update(ctx context.Context, scope *domain.Scope) error {
	const query = `
        UPDATE scopes SET name=$1, description=$2, supervisor_id=$3, active=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query,
		scope.Name, scope.Description, scope.SupervisorID, scope.Active, scope.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *scopeRepository) GetByID(ctx context.Context, id string) (*domain.Scope, error) {
	query := fmt.Sprintf(`SELECT %s FROM scopes WHERE id=$1`, scopeColumns)
	var scope domain.Scope
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&scope.ID, &scope.Name, &scope.Description, &scope.SupervisorID,
		&scope.Active, &scope.CreatedAt, &scope.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &scope, nil
}

func (r *scopeRepository) List(ctx context.Context, active *bool) ([]domain.Scope, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if active != nil {
		args = append(args, *active)
		clauses = append(clauses, fmt.Sprintf("active=$%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM scopes WHERE %s ORDER BY name`, scopeColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Scope
	for rows.Next() {
		var scope domain.Scope
		if err := rows.Scan(
			&scope.ID, &scope.Name, &scope.Description, &scope.SupervisorID,
			&scope.Active, &scope.CreatedAt, &scope.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, scope)
	}
	return result, rows.Err()
}

// WorkTypeRepository persists work type definitions.
type WorkTypeRepository interface {
	Create(ctx context.Context, wt *domain.WorkType) error
	Update(ctx context.Context, wt *domain.WorkType) error
	GetByID(ctx context.Context, id string) (*domain.WorkType, error)
	List(ctx context.Context, active *bool, scopeID *string) ([]domain.WorkType, error)
}

type workTypeRepository struct {
	db DB
}

// NewWorkTypeRepository instantiates the repository.
func NewWorkTypeRepository(db DB) WorkTypeRepository {
	return &workTypeRepository{db: db}
}

const workTypeColumns = `id, name, billable, scope_id, estimated_minutes, active, created_at, updated_at`

func (r *workTypeRepository) Create(ctx context.Context, wt *domain.WorkType) error {
	const query = `
        INSERT INTO work_types (name, billable, scope_id, estimated_minutes, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		wt.Name, wt.Billable, wt.ScopeID, wt.EstimatedMinutes, wt.Active,
	).Scan(&wt.ID, &wt.CreatedAt, &wt.UpdatedAt)
}

func (r *workTypeRepository) Update(ctx context.Context, wt *domain.WorkType) error {
	const query = `
        UPDATE work_types SET name=$1, billable=$2, scope_id=$3, estimated_minutes=$4, active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.db.Exec(ctx, query,
		wt.Name, wt.Billable, wt.ScopeID, wt.EstimatedMinutes, wt.Active, wt.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workTypeRepository) GetByID(ctx context.Context, id string) (*domain.WorkType, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_types WHERE id=$1`, workTypeColumns)
	var wt domain.WorkType
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&wt.ID, &wt.Name, &wt.Billable, &wt.ScopeID, &wt.EstimatedMinutes,
		&wt.Active, &wt.CreatedAt, &wt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *workTypeRepository) List(ctx context.Context, active *bool, scopeID *string) ([]domain.WorkType, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if active != nil {
		args = append(args, *active)
		clauses = append(clauses, fmt.Sprintf("active=$%d", len(args)))
	}
	if scopeID != nil {
		args = append(args, *scopeID)
		clauses = append(clauses, fmt.Sprintf("scope_id=$%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM work_types WHERE %s ORDER BY name`, workTypeColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkType
	for rows.Next() {
		var wt domain.WorkType
		if err := rows.Scan(
			&wt.ID, &wt.Name, &wt.Billable, &wt.ScopeID, &wt.EstimatedMinutes,
			&wt.Active, &wt.CreatedAt, &wt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, wt)
	}
	return result, rows.Err()
}
