package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ClientFilter captures client listing parameters.
type ClientFilter struct {
	Search *string
	Active *bool
	Limit  int
	Offset int
}

// ClientRepository encapsulates client and site persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
	SetActive(ctx context.Context, id string, active bool) error

	CreateSite(ctx context.Context, site *domain.ClientSite) error
	UpdateSite(ctx context.Context, site *domain.ClientSite) error
	DeleteSite(ctx context.Context, clientID, siteID string) error
	ListSites(ctx context.Context, clientID string) ([]domain.ClientSite, error)
	GetSite(ctx context.Context, clientID, siteID string) (*domain.ClientSite, error)
	WithTx(tx pgx.Tx) ClientRepository
}

type clientRepository struct {
	db DB
}

// NewClientRepository instantiates the repository.
func NewClientRepository(db DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) WithTx(tx pgx.Tx) ClientRepository {
	return &clientRepository{db: tx}
}

const clientColumns = `id, company_name, vat_number, fiscal_code, primary_email, secondary_emails,
       phones, internally_managed, reference_technician_id, notes, active, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (company_name, vat_number, fiscal_code, primary_email, secondary_emails,
            phones, internally_managed, reference_technician_id, notes, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		client.CompanyName,
		client.VATNumber,
		client.FiscalCode,
		client.PrimaryEmail,
		client.SecondaryEmails,
		client.Phones,
		client.InternallyManaged,
		client.ReferenceTechnician,
		client.Notes,
		client.Active,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET company_name=$1, vat_number=$2, fiscal_code=$3, primary_email=$4,
            secondary_emails=$5, phones=$6, internally_managed=$7, reference_technician_id=$8,
            notes=$9, active=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.db.Exec(ctx, query,
		client.CompanyName,
		client.VATNumber,
		client.FiscalCode,
		client.PrimaryEmail,
		client.SecondaryEmails,
		client.Phones,
		client.InternallyManaged,
		client.ReferenceTechnician,
		client.Notes,
		client.Active,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.fetchSingle(ctx, fmt.Sprintf(`SELECT %s FROM clients WHERE id=$1`, clientColumns), id)
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return r.fetchSingle(ctx, fmt.Sprintf(`SELECT %s FROM clients WHERE primary_email=$1`, clientColumns), email)
}

func (r *clientRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&client.ID,
		&client.CompanyName,
		&client.VATNumber,
		&client.FiscalCode,
		&client.PrimaryEmail,
		&client.SecondaryEmails,
		&client.Phones,
		&client.InternallyManaged,
		&client.ReferenceTechnician,
		&client.Notes,
		&client.Active,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]domain.Client, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("LOWER(company_name) LIKE $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM clients WHERE %s ORDER BY company_name LIMIT %d OFFSET %d`,
		clientColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.CompanyName,
			&client.VATNumber,
			&client.FiscalCode,
			&client.PrimaryEmail,
			&client.SecondaryEmails,
			&client.Phones,
			&client.InternallyManaged,
			&client.ReferenceTechnician,
			&client.Notes,
			&client.Active,
			&client.CreatedAt,
			&client.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

func (r *clientRepository) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE clients SET active=$1, updated_at=NOW() WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const siteColumns = `id, client_id, name, address, city, postal_code, province, latitude, longitude,
       contact_name, contact_phone, contact_email, primary_site, active, created_at, updated_at`

func (r *clientRepository) CreateSite(ctx context.Context, site *domain.ClientSite) error {
	const query = `
        INSERT INTO client_sites (client_id, name, address, city, postal_code, province, latitude,
            longitude, contact_name, contact_phone, contact_email, primary_site, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		site.ClientID,
		site.Name,
		site.Address,
		site.City,
		site.PostalCode,
		site.Province,
		site.Latitude,
		site.Longitude,
		site.ContactName,
		site.ContactPhone,
		site.ContactEmail,
		site.PrimarySite,
		site.Active,
	).Scan(&site.ID, &site.CreatedAt, &site.UpdatedAt)
}

func (r *clientRepository) UpdateSite(ctx context.Context, site *domain.ClientSite) error {
	const query = `
        UPDATE client_sites SET name=$1, address=$2, city=$3, postal_code=$4, province=$5,
            latitude=$6, longitude=$7, contact_name=$8, contact_phone=$9, contact_email=$10,
            primary_site=$11, active=$12, updated_at=NOW()
        WHERE id=$13 AND client_id=$14`
	cmd, err := r.db.Exec(ctx, query,
		site.Name,
		site.Address,
		site.City,
		site.PostalCode,
		site.Province,
		site.Latitude,
		site.Longitude,
		site.ContactName,
		site.ContactPhone,
		site.ContactEmail,
		site.PrimarySite,
		site.Active,
		site.ID,
		site.ClientID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) DeleteSite(ctx context.Context, clientID, siteID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM client_sites WHERE id=$1 AND client_id=$2`, siteID, clientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetSite(ctx context.Context, clientID, siteID string) (*domain.ClientSite, error) {
	query := fmt.Sprintf(`SELECT %s FROM client_sites WHERE id=$1 AND client_id=$2`, siteColumns)
	var site domain.ClientSite
	if err := r.db.QueryRow(ctx, query, siteID, clientID).Scan(
		&site.ID,
		&site.ClientID,
		&site.Name,
		&site.Address,
		&site.City,
		&site.PostalCode,
		&site.Province,
		&site.Latitude,
		&site.Longitude,
		&site.ContactName,
		&site.ContactPhone,
		&site.ContactEmail,
		&site.PrimarySite,
		&site.Active,
		&site.CreatedAt,
		&site.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *clientRepository) ListSites(ctx context.Context, clientID string) ([]domain.ClientSite, error) {
	query := fmt.Sprintf(`SELECT %s FROM client_sites WHERE client_id=$1 ORDER BY primary_site DESC, name`, siteColumns)
	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClientSite
	for rows.Next() {
		var site domain.ClientSite
		if err := rows.Scan(
			&site.ID,
			&site.ClientID,
			&site.Name,
			&site.Address,
			&site.City,
			&site.PostalCode,
			&site.Province,
			&site.Latitude,
			&site.Longitude,
			&site.ContactName,
			&site.ContactPhone,
			&site.ContactEmail,
			&site.PrimarySite,
			&site.Active,
			&site.CreatedAt,
			&site.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, site)
	}
	return result, rows.Err()
}
