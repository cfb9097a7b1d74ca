package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

type memAdminRepo struct {
	mu          sync.Mutex
	staffErr    error
	shiftsOn    time.Time
	pendingSeen domain.CareRequestStatus
	metrics     []domain.StaffMetrics
	settings    *domain.Settings
}

var _ repository.AdminRepository = (*memAdminRepo)(nil)

func (r *memAdminRepo) CountClients(context.Context) (int, error) { return 12, nil }

func (r *memAdminRepo) CountActiveStaff(context.Context) (int, error) {
	if r.staffErr != nil {
		return 0, r.staffErr
	}
	return 7, nil
}

func (r *memAdminRepo) CountCareRequests(_ context.Context, status domain.CareRequestStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingSeen = status
	return 3, nil
}

func (r *memAdminRepo) CountShiftsOn(_ context.Context, date time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shiftsOn = date
	return 4, nil
}

func (r *memAdminRepo) StaffMetrics(context.Context, *time.Time, *time.Time) ([]domain.StaffMetrics, error) {
	return r.metrics, nil
}

func (r *memAdminRepo) GetSettings(context.Context) (*domain.Settings, error) {
	if r.settings == nil {
		return nil, pgx.ErrNoRows
	}
	return r.settings, nil
}

func (r *memAdminRepo) UpdateSettings(_ context.Context, values map[string]any) (*domain.Settings, error) {
	if r.settings == nil {
		r.settings = &domain.Settings{Values: map[string]any{}}
	}
	for k, v := range values {
		r.settings.Values[k] = v
	}
	return r.settings, nil
}

type memCareRequestRepo struct {
	requests   []domain.CareRequest
	lastFilter repository.CareRequestFilter
}

func (r *memCareRequestRepo) Create(_ context.Context, req *domain.CareRequest) error {
	r.requests = append(r.requests, *req)
	return nil
}

func (r *memCareRequestRepo) GetByID(_ context.Context, id string) (*domain.CareRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return &req, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memCareRequestRepo) UpdateStatus(context.Context, string, domain.CareRequestStatus) error {
	return nil
}

func (r *memCareRequestRepo) List(_ context.Context, filter repository.CareRequestFilter) ([]domain.CareRequest, error) {
	r.lastFilter = filter
	return r.requests, nil
}

func newAdminFixture() (*AdminService, *memAdminRepo, *memCareRequestRepo) {
	admin := &memAdminRepo{}
	requests := &memCareRequestRepo{}
	svc := NewAdminService(AdminDependencies{AdminRepo: admin, CareRequestRepo: requests})
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 22, 15, 0, 0, time.UTC) }
	return svc, admin, requests
}

func TestDashboardGathersCounts(t *testing.T) {
	svc, admin, requests := newAdminFixture()
	requests.requests = []domain.CareRequest{{ID: "req-1", FirstName: "Bea"}}

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalClients)
	assert.Equal(t, 7, stats.TotalStaff)
	assert.Equal(t, 3, stats.PendingCareRequests)
	assert.Equal(t, 4, stats.ShiftsToday)
	assert.Len(t, stats.RecentCareRequests, 1)

	assert.Equal(t, domain.CareRequestStatusNew, admin.pendingSeen)
	assert.Equal(t, mustDate("2024-03-04"), admin.shiftsOn)
	assert.Equal(t, recentCareRequests, requests.lastFilter.Limit)
}

func TestDashboardEmptyRecentRequests(t *testing.T) {
	svc, _, _ := newAdminFixture()
	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stats.RecentCareRequests)
	assert.Empty(t, stats.RecentCareRequests)
}

func TestDashboardFailsWhenAnyCountFails(t *testing.T) {
	svc, admin, _ := newAdminFixture()
	admin.staffErr = errors.New("connection reset")

	stats, err := svc.Dashboard(context.Background())
	assert.Nil(t, stats)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoreError))
}

func TestStaffMetricsRange(t *testing.T) {
	svc, admin, _ := newAdminFixture()
	from := mustDate("2024-03-31")
	to := mustDate("2024-03-01")

	_, err := svc.StaffMetrics(context.Background(), &from, &to)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	metrics, err := svc.StaffMetrics(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, metrics)

	admin.metrics = []domain.StaffMetrics{{FirstName: "Ada", LastName: "Carer", TotalLogs: 2, TotalMinutes: 90}}
	workbook, err := svc.ExportStaffMetrics(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "staff-metrics.xlsx", workbook.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(workbook.Data))
	require.NoError(t, err)
	defer f.Close()
	hours, err := f.GetCellValue("Staff Metrics", "D2")
	require.NoError(t, err)
	assert.Equal(t, "1.5", hours)
}

func TestSettings(t *testing.T) {
	svc, _, _ := newAdminFixture()
	ctx := context.Background()

	_, err := svc.Settings(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.UpdateSettings(ctx, map[string]any{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	settings, err := svc.UpdateSettings(ctx, map[string]any{"agency_name": "Evergreen"})
	require.NoError(t, err)
	assert.Equal(t, "Evergreen", settings.Values["agency_name"])

	settings, err = svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Evergreen", settings.Values["agency_name"])
}
