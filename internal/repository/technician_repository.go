package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/technicalhatchet/fieldserve/internal/domain"
)

// TechnicianRepository encapsulates technician persistence, including the
// availability blob.
type TechnicianRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	ListActive(ctx context.Context) ([]domain.Technician, error)
	UpdateAvailability(ctx context.Context, id string, availability *domain.Availability, status *domain.TechnicianStatus, updatedBy string) (*domain.Technician, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

const technicianSelect = `
        SELECT t.id, t.user_id, t.employee_id, u.first_name || ' ' || u.last_name,
               t.skills, t.hourly_rate, t.max_daily_jobs, t.status, t.availability,
               t.notes, t.created_at, t.updated_at
        FROM technicians t
        JOIN users u ON u.id = t.user_id`

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	row := r.pool.QueryRow(ctx, technicianSelect+` WHERE t.id=$1`, id)
	return scanTechnician(row)
}

func (r *technicianRepository) ListActive(ctx context.Context) ([]domain.Technician, error) {
	rows, err := r.pool.Query(ctx, technicianSelect+` WHERE t.status='active' ORDER BY u.first_name, u.last_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		tech, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *tech)
	}
	return result, rows.Err()
}

func (r *technicianRepository) UpdateAvailability(ctx context.Context, id string, availability *domain.Availability, status *domain.TechnicianStatus, updatedBy string) (*domain.Technician, error) {
	blob, err := json.Marshal(availability)
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}

	cmd, err := r.pool.Exec(ctx, `
        UPDATE technicians
        SET availability=$1, status=COALESCE($2, status), updated_at=NOW()
        WHERE id=$3`,
		blob, status, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTechnician(row rowScanner) (*domain.Technician, error) {
	var (
		tech domain.Technician
		blob []byte
	)
	if err := row.Scan(
		&tech.ID,
		&tech.UserID,
		&tech.EmployeeID,
		&tech.Name,
		&tech.Skills,
		&tech.HourlyRate,
		&tech.MaxDailyJobs,
		&tech.Status,
		&blob,
		&tech.Notes,
		&tech.CreatedAt,
		&tech.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(blob) > 0 {
		var availability domain.Availability
		if err := json.Unmarshal(blob, &availability); err != nil {
			return nil, fmt.Errorf("decode availability for technician %s: %w", tech.ID, err)
		}
		tech.Availability = &availability
	}
	return &tech, nil
}
