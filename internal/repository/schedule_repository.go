package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ScheduleFilter narrows schedule listings.
type ScheduleFilter struct {
	EntityKind *domain.ScheduleEntityKind
	EntityID   *string
	Active     *bool
}

// ScheduleRepository persists recurring deadline definitions.
type ScheduleRepository interface {
	Create(ctx context.Context, s *domain.Schedule) error
	Update(ctx context.Context, s *domain.Schedule) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	List(ctx context.Context, filter ScheduleFilter) ([]domain.Schedule, error)
	ListDue(ctx context.Context, before time.Time) ([]domain.Schedule, error)
	MarkTriggered(ctx context.Context, id string, triggeredAt time.Time, next *time.Time) error
}

type scheduleRepository struct {
	db DB
}

// NewScheduleRepository instantiates the repository.
func NewScheduleRepository(db DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `id, entity_kind, entity_id, name, action_kind, frequency, custom_interval,
        notice_days, last_trigger, next_trigger, active, action_config, created_at, updated_at`

func (r *scheduleRepository) Create(ctx context.Context, s *domain.Schedule) error {
	const query = `
        INSERT INTO schedules (entity_kind, entity_id, name, action_kind, frequency, custom_interval,
            notice_days, next_trigger, active, action_config)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		s.EntityKind, s.EntityID, s.Name, s.ActionKind, s.Frequency, s.CustomInterval,
		s.NoticeDays, s.NextTrigger, s.Active, s.ActionConfig,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *scheduleRepository) Update(ctx context.Context, s *domain.Schedule) error {
	const query = `
        UPDATE schedules SET entity_kind=$1, entity_id=$2, name=$3, action_kind=$4, frequency=$5,
            custom_interval=$6, notice_days=$7, next_trigger=$8, active=$9, action_config=$10,
            updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.db.Exec(ctx, query,
		s.EntityKind, s.EntityID, s.Name, s.ActionKind, s.Frequency,
		s.CustomInterval, s.NoticeDays, s.NextTrigger, s.Active, s.ActionConfig, s.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM schedules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedules WHERE id=$1`, scheduleColumns)
	var s domain.Schedule
	if err := r.scanSchedule(r.db.QueryRow(ctx, query, id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) List(ctx context.Context, filter ScheduleFilter) ([]domain.Schedule, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.EntityKind != nil {
		args = append(args, *filter.EntityKind)
		clauses = append(clauses, fmt.Sprintf("entity_kind=$%d", len(args)))
	}
	if filter.EntityID != nil {
		args = append(args, *filter.EntityID)
		clauses = append(clauses, fmt.Sprintf("entity_id=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active=$%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM schedules WHERE %s ORDER BY next_trigger NULLS LAST`,
		scheduleColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListDue returns active schedules whose trigger window opens before the given
// instant, notice days included.
func (r *scheduleRepository) ListDue(ctx context.Context, before time.Time) ([]domain.Schedule, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM schedules
        WHERE active = TRUE
          AND next_trigger IS NOT NULL
          AND next_trigger - (notice_days * INTERVAL '1 day') <= $1
        ORDER BY next_trigger`, scheduleColumns)
	rows, err := r.db.Query(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *scheduleRepository) MarkTriggered(ctx context.Context, id string, triggeredAt time.Time, next *time.Time) error {
	const query = `
        UPDATE schedules SET last_trigger=$1, next_trigger=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, triggeredAt, next, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *scheduleRepository) collect(rows pgx.Rows) ([]domain.Schedule, error) {
	var result []domain.Schedule
	for rows.Next() {
		var s domain.Schedule
		if err := r.scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *scheduleRepository) scanSchedule(row rowScanner, s *domain.Schedule) error {
	return row.Scan(
		&s.ID, &s.EntityKind, &s.EntityID, &s.Name, &s.ActionKind, &s.Frequency,
		&s.CustomInterval, &s.NoticeDays, &s.LastTrigger, &s.NextTrigger, &s.Active,
		&s.ActionConfig, &s.CreatedAt, &s.UpdatedAt,
	)
}
