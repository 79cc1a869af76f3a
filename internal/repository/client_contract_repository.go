package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ClientContractFilter narrows client-contract listings.
type ClientContractFilter struct {
	ClientID *string
	State    *domain.ContractState
	Kind     *domain.ContractKind
}

// ClientContractRepository persists client contract instances and their
// hour-usage ledger.
type ClientContractRepository interface {
	Create(ctx context.Context, c *domain.ClientContract) error
	Update(ctx context.Context, c *domain.ClientContract) error
	UpdateAccounting(ctx context.Context, c *domain.ClientContract, expectedUsed float64) error
	GetByID(ctx context.Context, id string) (*domain.ClientContract, error)
	List(ctx context.Context, filter ClientContractFilter) ([]domain.ClientContract, error)
	InsertUsage(ctx context.Context, usage *domain.ContractUsage) error
	ListUsages(ctx context.Context, contractID string) ([]domain.ContractUsage, error)
	WithTx(tx pgx.Tx) ClientContractRepository
}

type clientContractRepository struct {
	db DB
}

// NewClientContractRepository instantiates the repository.
func NewClientContractRepository(db DB) ClientContractRepository {
	return &clientContractRepository{db: db}
}

func (r *clientContractRepository) WithTx(tx pgx.Tx) ClientContractRepository {
	return &clientContractRepository{db: tx}
}

const clientContractColumns = `id, client_id, template_id, custom_name, activated_on, expires_on,
        kind, fee_amount, fee_frequency, total_hours, used_hours, alert_threshold, state,
        signed_attachment, notes, created_at, updated_at`

const usageColumns = `id, client_contract_id, activity_id, contract_line_id, hours, used_on,
        note, recorded_by_id, created_at`

func (r *clientContractRepository) Create(ctx context.Context, c *domain.ClientContract) error {
	const query = `
        INSERT INTO client_contracts (client_id, template_id, custom_name, activated_on, expires_on,
            kind, fee_amount, fee_frequency, total_hours, used_hours, alert_threshold, state,
            signed_attachment, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		c.ClientID, c.TemplateID, c.CustomName, c.ActivatedOn, c.ExpiresOn,
		c.Kind, c.FeeAmount, c.FeeFrequency, c.TotalHours, c.UsedHours, c.AlertThreshold, c.State,
		c.SignedAttachment, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *clientContractRepository) Update(ctx context.Context, c *domain.ClientContract) error {
	const query = `
        UPDATE client_contracts SET custom_name=$1, activated_on=$2, expires_on=$3, fee_amount=$4,
            fee_frequency=$5, alert_threshold=$6, state=$7, signed_attachment=$8, notes=$9,
            updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.db.Exec(ctx, query,
		c.CustomName, c.ActivatedOn, c.ExpiresOn, c.FeeAmount,
		c.FeeFrequency, c.AlertThreshold, c.State, c.SignedAttachment, c.Notes, c.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateAccounting writes only the hour counters and the derived state,
// guarded on the used_hours snapshot the caller computed from. Zero rows
// means a concurrent deduction or top-up won; the caller must reload and
// retry. Used inside usage and top-up transactions.
func (r *clientContractRepository) UpdateAccounting(ctx context.Context, c *domain.ClientContract, expectedUsed float64) error {
	const query = `
        UPDATE client_contracts SET used_hours=$1, total_hours=$2, state=$3, updated_at=NOW()
        WHERE id=$4 AND used_hours=$5`
	cmd, err := r.db.Exec(ctx, query, c.UsedHours, c.TotalHours, c.State, c.ID, expectedUsed)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *clientContractRepository) GetByID(ctx context.Context, id string) (*domain.ClientContract, error) {
	query := fmt.Sprintf(`SELECT %s FROM client_contracts WHERE id=$1`, clientContractColumns)
	var c domain.ClientContract
	if err := r.scanContract(r.db.QueryRow(ctx, query, id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientContractRepository) List(ctx context.Context, filter ClientContractFilter) ([]domain.ClientContract, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.State != nil {
		args = append(args, *filter.State)
		clauses = append(clauses, fmt.Sprintf("state=$%d", len(args)))
	}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM client_contracts WHERE %s ORDER BY activated_on DESC`,
		clientContractColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClientContract
	for rows.Next() {
		var c domain.ClientContract
		if err := r.scanContract(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *clientContractRepository) InsertUsage(ctx context.Context, usage *domain.ContractUsage) error {
	const query = `
        INSERT INTO contract_usages (client_contract_id, activity_id, contract_line_id, hours,
            used_on, note, recorded_by_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		usage.ClientContractID, usage.ActivityID, usage.ContractLineID, usage.Hours,
		usage.UsedOn, usage.Note, usage.RecordedByID,
	).Scan(&usage.ID, &usage.CreatedAt)
}

func (r *clientContractRepository) ListUsages(ctx context.Context, contractID string) ([]domain.ContractUsage, error) {
	query := fmt.Sprintf(`SELECT %s FROM contract_usages WHERE client_contract_id=$1 ORDER BY used_on, created_at`, usageColumns)
	rows, err := r.db.Query(ctx, query, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContractUsage
	for rows.Next() {
		var usage domain.ContractUsage
		if err := rows.Scan(
			&usage.ID, &usage.ClientContractID, &usage.ActivityID, &usage.ContractLineID,
			&usage.Hours, &usage.UsedOn, &usage.Note, &usage.RecordedByID, &usage.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, usage)
	}
	return result, rows.Err()
}

func (r *clientContractRepository) scanContract(row rowScanner, c *domain.ClientContract) error {
	return row.Scan(
		&c.ID, &c.ClientID, &c.TemplateID, &c.CustomName, &c.ActivatedOn, &c.ExpiresOn,
		&c.Kind, &c.FeeAmount, &c.FeeFrequency, &c.TotalHours, &c.UsedHours, &c.AlertThreshold,
		&c.State, &c.SignedAttachment, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
}
