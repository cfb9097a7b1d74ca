package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/events"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

type memReportRepo struct {
	reports map[string]domain.ShiftReport
}

func (r *memReportRepo) GetByShiftID(_ context.Context, shiftID string) (*domain.ShiftReport, error) {
	report, ok := r.reports[shiftID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &report, nil
}

func (r *memReportRepo) Upsert(_ context.Context, report *domain.ShiftReport) error {
	if report.ID == "" {
		report.ID = "report-" + report.ShiftID
	}
	r.reports[report.ShiftID] = *report
	return nil
}

func newReportFixture(status domain.ShiftStatus) (*ShiftReportService, *memShiftRepo, *memReportRepo, *serialTx) {
	shifts := newMemShiftRepo(domain.Shift{
		ID:        "shift-1",
		StaffID:   "staff-1",
		ClientID:  "client-1",
		Date:      mustDate("2024-03-04"),
		StartTime: tod("09:00"),
		EndTime:   tod("11:00"),
		Status:    status,
	})
	reports := &memReportRepo{reports: map[string]domain.ShiftReport{}}
	tx := &serialTx{}
	schedule := NewScheduleService(ScheduleDependencies{ShiftRepo: shifts, TxManager: tx})
	svc := NewShiftReportService(ShiftReportDependencies{
		ReportRepo: reports,
		ShiftRepo:  shifts,
		Schedule:   schedule,
		TxManager:  tx,
	})
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC) }
	return svc, shifts, reports, tx
}

var owner = auth.Identity{SubjectID: "staff-1", Role: domain.RoleStaff}

func TestSubmitReportCompletesShift(t *testing.T) {
	svc, shifts, reports, tx := newReportFixture(domain.ShiftStatusActive)

	result, err := svc.Submit(context.Background(), owner, "shift-1", ShiftReportInput{
		TasksCompleted:  []domain.TaskEntry{{Task: "Medication reminder", Completed: true}},
		ClientCondition: domain.ClientConditionFair,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusCompleted, result.Shift.Status)
	assert.Equal(t, domain.ShiftStatusCompleted, shifts.shifts["shift-1"].Status)
	assert.Contains(t, reports.reports, "shift-1")
	assert.Equal(t, 1, tx.calls, "report and completion share one transaction")

	again, err := svc.Submit(context.Background(), owner, "shift-1", ShiftReportInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.ClientConditionGood, again.Report.ClientCondition)
}

func TestSubmitReportRefusals(t *testing.T) {
	svc, _, reports, _ := newReportFixture(domain.ShiftStatusCancelled)
	_, err := svc.Submit(context.Background(), owner, "shift-1", ShiftReportInput{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
	assert.Empty(t, reports.reports)

	svc, _, _, _ = newReportFixture(domain.ShiftStatusActive)
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 8, 59, 0, 0, time.UTC) }
	_, err = svc.Submit(context.Background(), owner, "shift-1", ShiftReportInput{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	svc, _, _, _ = newReportFixture(domain.ShiftStatusActive)
	stranger := auth.Identity{SubjectID: "staff-2", Role: domain.RoleStaff}
	_, err = svc.Submit(context.Background(), stranger, "shift-1", ShiftReportInput{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.Submit(context.Background(), owner, "shift-1", ShiftReportInput{ClientCondition: "unknown"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestGetReportForAdminWithoutReport(t *testing.T) {
	svc, _, _, _ := newReportFixture(domain.ShiftStatusActive)
	admin := auth.Identity{SubjectID: "admin-1", Role: domain.RoleAdmin}

	result, err := svc.Get(context.Background(), admin, "shift-1")
	require.NoError(t, err)
	assert.Equal(t, "shift-1", result.Shift.ID)
	assert.Nil(t, result.Report)
}

// commitFailingTx runs the work and then fails the outermost commit.
type commitFailingTx struct{}

func (commitFailingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}
	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		return err
	}
	return errors.New("commit failed")
}

func TestSubmitReportAnnouncesCompletionOnlyAfterCommit(t *testing.T) {
	cases := map[string]struct {
		tx      repository.TxManager
		wantErr bool
		want    []events.EventType
	}{
		"committed":     {tx: &serialTx{}, want: []events.EventType{events.EventShiftStatusChanged}},
		"commit failed": {tx: commitFailingTx{}, wantErr: true, want: []events.EventType{}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			shifts := newMemShiftRepo(domain.Shift{
				ID:        "shift-1",
				StaffID:   "staff-1",
				Date:      mustDate("2024-03-04"),
				StartTime: tod("09:00"),
				EndTime:   tod("11:00"),
				Status:    domain.ShiftStatusActive,
			})
			dispatcher := &recordingDispatcher{}
			schedule := NewScheduleService(ScheduleDependencies{ShiftRepo: shifts, TxManager: tc.tx, Dispatcher: dispatcher})
			svc := NewShiftReportService(ShiftReportDependencies{
				ReportRepo: &memReportRepo{reports: map[string]domain.ShiftReport{}},
				ShiftRepo:  shifts,
				Schedule:   schedule,
				TxManager:  tc.tx,
			})
			svc.now = func() time.Time { return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC) }

			_, err := svc.Submit(context.Background(), owner, "shift-1", ShiftReportInput{})
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, dispatcher.types())
		})
	}
}
