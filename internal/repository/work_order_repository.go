package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/technicalhatchet/fieldserve/internal/domain"
	"github.com/technicalhatchet/fieldserve/internal/schedule"
	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

// WorkOrderFilter captures search parameters for work order listings.
type WorkOrderFilter struct {
	ClientID      *string
	TechnicianID  *string
	Statuses      []domain.WorkOrderStatus
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	Limit         int
	Offset        int
}

// ScheduleParams describes a scheduling commit for one work order.
type ScheduleParams struct {
	WorkOrderID  string
	TechnicianID *string
	Start        time.Time
	End          time.Time
	Description  *string
	UpdatedBy    *string
}

// ConflictGuard inspects the technician's existing active bookings inside the
// scheduling transaction and returns an error to abort the commit. Keeping the
// decision in a callback lets the overlap predicate live in one place.
type ConflictGuard func(existing []schedule.Booking) error

// WorkOrderRepository encapsulates work order persistence.
type WorkOrderRepository interface {
	Create(ctx context.Context, order *domain.WorkOrder) error
	Update(ctx context.Context, order *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	List(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error)
	ActiveBookings(ctx context.Context, technicianID string, from, to time.Time) ([]schedule.Booking, error)
	Schedule(ctx context.Context, params ScheduleParams, guard ConflictGuard) (*domain.WorkOrder, error)
}

type workOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository instantiates repository.
func NewWorkOrderRepository(pool *pgxpool.Pool) WorkOrderRepository {
	return &workOrderRepository{pool: pool}
}

const workOrderColumns = `id, order_number, client_id, title, description, priority, status,
               scheduled_start, scheduled_end, actual_start, actual_end,
               estimated_duration_minutes, assigned_technician_id,
               created_by, updated_by, created_at, updated_at`

func (r *workOrderRepository) Create(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        INSERT INTO work_orders (order_number, client_id, title, description, priority, status,
                                 estimated_duration_minutes, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.OrderNumber,
		order.ClientID,
		order.Title,
		order.Description,
		order.Priority,
		order.Status,
		order.EstimatedDurationMin,
		order.CreatedBy,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *workOrderRepository) Update(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        UPDATE work_orders SET title=$1, description=$2, priority=$3, status=$4,
            scheduled_start=$5, scheduled_end=$6, actual_start=$7, actual_end=$8,
            assigned_technician_id=$9, updated_by=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		order.Title,
		order.Description,
		order.Priority,
		order.Status,
		order.ScheduledStart,
		order.ScheduledEnd,
		order.ActualStart,
		order.ActualEnd,
		order.AssignedTechnicianID,
		order.UpdatedBy,
		order.ID,
	)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id=$1`, id)
	return scanWorkOrder(row)
}

func (r *workOrderRepository) List(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error) {
	base := `SELECT ` + workOrderColumns + ` FROM work_orders`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("assigned_technician_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ScheduledFrom != nil {
		args = append(args, *filter.ScheduledFrom)
		clauses = append(clauses, fmt.Sprintf("scheduled_start >= $%d", len(args)))
	}
	if filter.ScheduledTo != nil {
		args = append(args, *filter.ScheduledTo)
		clauses = append(clauses, fmt.Sprintf("scheduled_start <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkOrders(rows)
}

const activeBookingsQuery = `
        SELECT id, scheduled_start, scheduled_end
        FROM work_orders
        WHERE assigned_technician_id=$1
          AND status IN ('scheduled','in_progress')
          AND scheduled_start IS NOT NULL AND scheduled_end IS NOT NULL
          AND scheduled_start < $3 AND scheduled_end > $2
        ORDER BY scheduled_start`

func (r *workOrderRepository) ActiveBookings(ctx context.Context, technicianID string, from, to time.Time) ([]schedule.Booking, error) {
	rows, err := r.pool.Query(ctx, activeBookingsQuery, technicianID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// Schedule commits the technician assignment, interval and pending->scheduled
// transition atomically. When a technician is involved, a transaction-scoped
// advisory lock on the technician serializes concurrent scheduling attempts so
// the guard's check-then-act sequence cannot race; the partial exclusion
// constraint on active bookings backstops the same invariant at commit time.
func (r *workOrderRepository) Schedule(ctx context.Context, params ScheduleParams, guard ConflictGuard) (*domain.WorkOrder, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if params.TechnicianID != nil {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, *params.TechnicianID); err != nil {
			return nil, err
		}

		rows, err := tx.Query(ctx, activeBookingsQuery, *params.TechnicianID,
			params.Start.Add(-24*time.Hour), params.End.Add(24*time.Hour))
		if err != nil {
			return nil, err
		}
		bookings, err := scanBookings(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		if guard != nil {
			if err := guard(bookings); err != nil {
				return nil, err
			}
		}
	}

	const query = `
        UPDATE work_orders SET
            assigned_technician_id = COALESCE($1, assigned_technician_id),
            scheduled_start = $2,
            scheduled_end = $3,
            description = COALESCE($4, description),
            status = CASE WHEN status = 'pending' THEN 'scheduled' ELSE status END,
            updated_by = COALESCE($5, updated_by),
            updated_at = NOW()
        WHERE id = $6`
	cmd, err := tx.Exec(ctx, query,
		params.TechnicianID,
		params.Start,
		params.End,
		params.Description,
		params.UpdatedBy,
		params.WorkOrderID,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}

	row := tx.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id=$1`, params.WorkOrderID)
	order, err := scanWorkOrder(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return order, nil
}

// mapPgError surfaces uniqueness and exclusion violations as Conflict so the
// caller can re-request different slots; everything else passes through.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23P01":
			return apperrors.NewConflict("this scheduling would create a conflict with another appointment", nil)
		}
	}
	return err
}

func scanWorkOrder(row rowScanner) (*domain.WorkOrder, error) {
	var order domain.WorkOrder
	if err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.ClientID,
		&order.Title,
		&order.Description,
		&order.Priority,
		&order.Status,
		&order.ScheduledStart,
		&order.ScheduledEnd,
		&order.ActualStart,
		&order.ActualEnd,
		&order.EstimatedDurationMin,
		&order.AssignedTechnicianID,
		&order.CreatedBy,
		&order.UpdatedBy,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

func scanWorkOrders(rows pgx.Rows) ([]domain.WorkOrder, error) {
	var result []domain.WorkOrder
	for rows.Next() {
		order, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	return result, rows.Err()
}

func scanBookings(rows pgx.Rows) ([]schedule.Booking, error) {
	var bookings []schedule.Booking
	for rows.Next() {
		var booking schedule.Booking
		if err := rows.Scan(&booking.WorkOrderID, &booking.Start, &booking.End); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
