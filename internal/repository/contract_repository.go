package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ContractTemplateRepository persists reusable contract templates and their lines.
type ContractTemplateRepository interface {
	Create(ctx context.Context, tpl *domain.ContractTemplate) error
	Update(ctx context.Context, tpl *domain.ContractTemplate) error
	GetByID(ctx context.Context, id string) (*domain.ContractTemplate, error)
	List(ctx context.Context, active *bool) ([]domain.ContractTemplate, error)
	CreateLine(ctx context.Context, line *domain.ContractLine) error
	UpdateLine(ctx context.Context, line *domain.ContractLine) error
	DeleteLine(ctx context.Context, id string) error
	GetLine(ctx context.Context, id string) (*domain.ContractLine, error)
	ListLines(ctx context.Context, templateID string) ([]domain.ContractLine, error)
}

type contractTemplateRepository struct {
	db DB
}

// NewContractTemplateRepository instantiates the repository.
func NewContractTemplateRepository(db DB) ContractTemplateRepository {
	return &contractTemplateRepository{db: db}
}

const templateColumns = `id, name, kind, description, configurable, active, created_at, updated_at`

const lineColumns = `id, template_id, line_kind, name, description, included_hours, amount,
        scope_id, work_type_id, position, created_at, updated_at`

func (r *contractTemplateRepository) Create(ctx context.Context, tpl *domain.ContractTemplate) error {
	const query = `
        INSERT INTO contract_templates (name, kind, description, configurable, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		tpl.Name, tpl.Kind, tpl.Description, tpl.Configurable, tpl.Active,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
}

func (r *contractTemplateRepository) Update(ctx context.Context, tpl *domain.ContractTemplate) error {
	const query = `
        UPDATE contract_templates SET name=$1, kind=$2, description=$3, configurable=$4, active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.db.Exec(ctx, query,
		tpl.Name, tpl.Kind, tpl.Description, tpl.Configurable, tpl.Active, tpl.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contractTemplateRepository) GetByID(ctx context.Context, id string) (*domain.ContractTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM contract_templates WHERE id=$1`, templateColumns)
	var tpl domain.ContractTemplate
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&tpl.ID, &tpl.Name, &tpl.Kind, &tpl.Description, &tpl.Configurable,
		&tpl.Active, &tpl.CreatedAt, &tpl.UpdatedAt,
	); err != nil {
		return nil, err
	}
	lines, err := r.ListLines(ctx, tpl.ID)
	if err != nil {
		return nil, err
	}
	tpl.Lines = lines
	return &tpl, nil
}

func (r *contractTemplateRepository) List(ctx context.Context, active *bool) ([]domain.ContractTemplate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if active != nil {
		args = append(args, *active)
		clauses = append(clauses, fmt.Sprintf("active=$%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM contract_templates WHERE %s ORDER BY name`, templateColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContractTemplate
	for rows.Next() {
		var tpl domain.ContractTemplate
		if err := rows.Scan(
			&tpl.ID, &tpl.Name, &tpl.Kind, &tpl.Description, &tpl.Configurable,
			&tpl.Active, &tpl.CreatedAt, &tpl.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tpl)
	}
	return result, rows.Err()
}

func (r *contractTemplateRepository) CreateLine(ctx context.Context, line *domain.ContractLine) error {
	const query = `
        INSERT INTO contract_lines (template_id, line_kind, name, description, included_hours,
            amount, scope_id, work_type_id, position)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		line.TemplateID, line.LineKind, line.Name, line.Description, line.IncludedHours,
		line.Amount, line.ScopeID, line.WorkTypeID, line.Position,
	).Scan(&line.ID, &line.CreatedAt, &line.UpdatedAt)
}

func (r *contractTemplateRepository) UpdateLine(ctx context.Context, line *domain.ContractLine) error {
	const query = `
        UPDATE contract_lines SET line_kind=$1, name=$2, description=$3, included_hours=$4,
            amount=$5, scope_id=$6, work_type_id=$7, position=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.db.Exec(ctx, query,
		line.LineKind, line.Name, line.Description, line.IncludedHours,
		line.Amount, line.ScopeID, line.WorkTypeID, line.Position, line.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contractTemplateRepository) DeleteLine(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM contract_lines WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contractTemplateRepository) GetLine(ctx context.Context, id string) (*domain.ContractLine, error) {
	query := fmt.Sprintf(`SELECT %s FROM contract_lines WHERE id=$1`, lineColumns)
	var line domain.ContractLine
	if err := r.scanLine(r.db.QueryRow(ctx, query, id), &line); err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *contractTemplateRepository) ListLines(ctx context.Context, templateID string) ([]domain.ContractLine, error) {
	query := fmt.Sprintf(`SELECT %s FROM contract_lines WHERE template_id=$1 ORDER BY position`, lineColumns)
	rows, err := r.db.Query(ctx, query, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContractLine
	for rows.Next() {
		var line domain.ContractLine
		if err := r.scanLine(rows, &line); err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

func (r *contractTemplateRepository) scanLine(row rowScanner, line *domain.ContractLine) error {
	return row.Scan(
		&line.ID, &line.TemplateID, &line.LineKind, &line.Name, &line.Description,
		&line.IncludedHours, &line.Amount, &line.ScopeID, &line.WorkTypeID, &line.Position,
		&line.CreatedAt, &line.UpdatedAt,
	)
}
