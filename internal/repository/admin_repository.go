package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// AdminRepository serves aggregate queries for the admin area.
type AdminRepository interface {
	CountClients(ctx context.Context) (int, error)
	CountActiveStaff(ctx context.Context) (int, error)
	CountCareRequests(ctx context.Context, status domain.CareRequestStatus) (int, error)
	CountShiftsOn(ctx context.Context, date time.Time) (int, error)
	StaffMetrics(ctx context.Context, from, to *time.Time) ([]domain.StaffMetrics, error)
	GetSettings(ctx context.Context) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, values map[string]any) (*domain.Settings, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) CountClients(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM clients`)
}

func (r *adminRepository) CountActiveStaff(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE role = 'staff' AND status = 'active'`)
}

func (r *adminRepository) CountCareRequests(ctx context.Context, status domain.CareRequestStatus) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM care_requests WHERE status = $1`, status)
}

func (r *adminRepository) CountShiftsOn(ctx context.Context, date time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM schedules WHERE date = $1 AND status <> 'cancelled'`, dateParam(date))
}

func (r *adminRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *adminRepository) StaffMetrics(ctx context.Context, from, to *time.Time) ([]domain.StaffMetrics, error) {
	const query = `
        SELECT
            u.id,
            u.first_name,
            u.last_name,
            COUNT(t.id),
            COUNT(DISTINCT t.client_id),
            COALESCE(SUM(t.duration_minutes), 0),
            COUNT(t.id) FILTER (WHERE t.status = 'approved'),
            COUNT(t.id) FILTER (WHERE t.status = 'rejected'),
            COALESCE(AVG(t.duration_minutes) FILTER (WHERE t.status = 'approved'), 0)::float8
        FROM users u
        LEFT JOIN time_logs t ON t.staff_id = u.id
            AND ($1::date IS NULL OR t.date >= $1::date)
            AND ($2::date IS NULL OR t.date <= $2::date)
        WHERE u.role = 'staff'
        GROUP BY u.id, u.first_name, u.last_name
        ORDER BY u.last_name, u.first_name`

	var fromParam, toParam any
	if from != nil {
		fromParam = dateParam(*from)
	}
	if to != nil {
		toParam = dateParam(*to)
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, fromParam, toParam)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffMetrics
	for rows.Next() {
		var m domain.StaffMetrics
		if err := rows.Scan(
			&m.StaffID,
			&m.FirstName,
			&m.LastName,
			&m.TotalLogs,
			&m.UniqueClients,
			&m.TotalMinutes,
			&m.ApprovedLogs,
			&m.RejectedLogs,
			&m.AvgApprovedMinutes,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *adminRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT settings, updated_at FROM system_settings WHERE id = 1`,
	).Scan(&settings.Values, &settings.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *adminRepository) UpdateSettings(ctx context.Context, values map[string]any) (*domain.Settings, error) {
	const query = `
        INSERT INTO system_settings (id, settings, updated_at) VALUES (1, $1, NOW())
        ON CONFLICT (id) DO UPDATE SET settings = system_settings.settings || EXCLUDED.settings, updated_at = NOW()
        RETURNING settings, updated_at`

	var settings domain.Settings
	if err := conn(ctx, r.pool).QueryRow(ctx, query, values).Scan(&settings.Values, &settings.UpdatedAt); err != nil {
		return nil, err
	}
	return &settings, nil
}
