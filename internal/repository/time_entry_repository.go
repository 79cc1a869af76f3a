package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// TimeEntryRepository persists technician check-in/check-out records.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	Close(ctx context.Context, entry *domain.TimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	FindOpen(ctx context.Context, activityID, technicianID string) (*domain.TimeEntry, error)
	ListByActivity(ctx context.Context, activityID string) ([]domain.TimeEntry, error)
	WithTx(tx pgx.Tx) TimeEntryRepository
}

type timeEntryRepository struct {
	db DB
}

// NewTimeEntryRepository instantiates the repository.
func NewTimeEntryRepository(db DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func (r *timeEntryRepository) WithTx(tx pgx.Tx) TimeEntryRepository {
	return &timeEntryRepository{db: tx}
}

const timeEntryColumns = `id, activity_id, technician_id, started_at, ended_at, duration_minutes,
        start_latitude, start_longitude, note, created_at`

func (r *timeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	const query = `
        INSERT INTO time_entries (activity_id, technician_id, started_at, start_latitude, start_longitude, note)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		entry.ActivityID, entry.TechnicianID, entry.StartedAt,
		entry.StartLatitude, entry.StartLongitude, entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *timeEntryRepository) Close(ctx context.Context, entry *domain.TimeEntry) error {
	const query = `
        UPDATE time_entries SET ended_at=$1, duration_minutes=$2, note=$3
        WHERE id=$4 AND ended_at IS NULL`
	cmd, err := r.db.Exec(ctx, query,
		entry.EndedAt, entry.DurationMinutes, entry.Note, entry.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *timeEntryRepository) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM time_entries WHERE id=$1`, timeEntryColumns)
	var entry domain.TimeEntry
	if err := r.scanEntry(r.db.QueryRow(ctx, query, id), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) FindOpen(ctx context.Context, activityID, technicianID string) (*domain.TimeEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM time_entries WHERE activity_id=$1 AND technician_id=$2 AND ended_at IS NULL`, timeEntryColumns)
	var entry domain.TimeEntry
	if err := r.scanEntry(r.db.QueryRow(ctx, query, activityID, technicianID), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) ListByActivity(ctx context.Context, activityID string) ([]domain.TimeEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM time_entries WHERE activity_id=$1 ORDER BY started_at`, timeEntryColumns)
	rows, err := r.db.Query(ctx, query, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimeEntry
	for rows.Next() {
		var entry domain.TimeEntry
		if err := r.scanEntry(rows, &entry); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *timeEntryRepository) scanEntry(row rowScanner, entry *domain.TimeEntry) error {
	return row.Scan(
		&entry.ID, &entry.ActivityID, &entry.TechnicianID, &entry.StartedAt, &entry.EndedAt,
		&entry.DurationMinutes, &entry.StartLatitude, &entry.StartLongitude, &entry.Note,
		&entry.CreatedAt,
	)
}
