package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

const recentCareRequests = 5

// AdminService serves the admin dashboard, staff metrics and settings.
type AdminService struct {
	admin    repository.AdminRepository
	requests repository.CareRequestRepository
	clients  repository.ClientRepository
	now      func() time.Time
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	AdminRepo       repository.AdminRepository
	CareRequestRepo repository.CareRequestRepository
	ClientRepo      repository.ClientRepository
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		admin:    deps.AdminRepo,
		requests: deps.CareRequestRepo,
		clients:  deps.ClientRepo,
		now:      time.Now,
	}
}

// Dashboard gathers the headline counts concurrently.
func (s *AdminService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	today := domain.TruncateDate(s.now())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalClients, err = s.admin.CountClients(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalStaff, err = s.admin.CountActiveStaff(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingCareRequests, err = s.admin.CountCareRequests(gctx, domain.CareRequestStatusNew)
		return err
	})
	g.Go(func() (err error) {
		stats.ShiftsToday, err = s.admin.CountShiftsOn(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentCareRequests, err = s.requests.List(gctx, repository.CareRequestFilter{Limit: recentCareRequests})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	if stats.RecentCareRequests == nil {
		stats.RecentCareRequests = []domain.CareRequest{}
	}
	return &stats, nil
}

// StaffMetrics summarises each staff member's time logs in the range.
func (s *AdminService) StaffMetrics(ctx context.Context, from, to *time.Time) ([]domain.StaffMetrics, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperrors.NewValidationError("end_date must not be before start_date", nil)
	}
	metrics, err := s.admin.StaffMetrics(ctx, from, to)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	if metrics == nil {
		metrics = []domain.StaffMetrics{}
	}
	return metrics, nil
}

// ExportStaffMetrics renders StaffMetrics as a spreadsheet.
func (s *AdminService) ExportStaffMetrics(ctx context.Context, from, to *time.Time) (*Workbook, error) {
	metrics, err := s.StaffMetrics(ctx, from, to)
	if err != nil {
		return nil, err
	}
	headers := []string{"Staff", "Total Logs", "Unique Clients", "Total Hours", "Approved", "Rejected", "Avg Approved Minutes"}
	rows := make([][]any, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []any{
			m.FirstName + " " + m.LastName,
			m.TotalLogs,
			m.UniqueClients,
			float64(m.TotalMinutes) / 60,
			m.ApprovedLogs,
			m.RejectedLogs,
			m.AvgApprovedMinutes,
		})
	}
	data, err := buildWorkbook("Staff Metrics", headers, rows)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Workbook{Filename: exportFilename("staff-metrics", from, to), Data: data}, nil
}

// ListClients returns every client.
func (s *AdminService) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, nil
}

// Settings returns the agency settings document.
func (s *AdminService) Settings(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.admin.GetSettings(ctx)
	if err != nil {
		return nil, storeErr("settings", nil, err)
	}
	return settings, nil
}

// UpdateSettings merges values into the settings document.
func (s *AdminService) UpdateSettings(ctx context.Context, values map[string]any) (*domain.Settings, error) {
	if len(values) == 0 {
		return nil, apperrors.NewValidationError("no settings supplied", nil)
	}
	settings, err := s.admin.UpdateSettings(ctx, values)
	if err != nil {
		return nil, storeErr("settings", nil, err)
	}
	return settings, nil
}
