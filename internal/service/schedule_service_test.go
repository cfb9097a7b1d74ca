package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/events"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

const (
	staffS  = "staff-s"
	clientC = "client-c"
)

type ScheduleServiceSuite struct {
	suite.Suite
	repo       *memShiftRepo
	tx         *serialTx
	dispatcher *recordingDispatcher
	conflicts  *conflictCounter
	svc        *ScheduleService
	day        string
	existingID string
}

func (s *ScheduleServiceSuite) SetupTest() {
	s.existingID = "existing-shift"
	s.day = "2024-03-04"
	s.repo = newMemShiftRepo(domain.Shift{
		ID:        s.existingID,
		StaffID:   staffS,
		ClientID:  clientC,
		Date:      mustDate(s.day),
		StartTime: tod("09:00"),
		EndTime:   tod("11:00"),
		Status:    domain.ShiftStatusActive,
	})
	s.tx = &serialTx{}
	s.dispatcher = &recordingDispatcher{}
	s.conflicts = &conflictCounter{}
	s.svc = NewScheduleService(ScheduleDependencies{
		ShiftRepo:  s.repo,
		TxManager:  s.tx,
		Dispatcher: s.dispatcher,
		Conflicts:  s.conflicts,
	})
}

func TestScheduleServiceSuite(t *testing.T) {
	suite.Run(t, new(ScheduleServiceSuite))
}

func (s *ScheduleServiceSuite) check(start, end string, exclude *string) ConflictResult {
	result, err := s.svc.CheckConflict(context.Background(), staffS, mustDate(s.day), tod(start), tod(end), exclude)
	s.Require().NoError(err)
	return result
}

func (s *ScheduleServiceSuite) TestCheckConflictOverlapRule() {
	overlapping := s.check("10:00", "12:00", nil)
	s.True(overlapping.Conflict)
	s.Equal([]string{s.existingID}, overlapping.ShiftIDs)

	s.False(s.check("11:00", "12:00", nil).Conflict, "touching end boundary")
	s.False(s.check("08:00", "09:00", nil).Conflict, "touching start boundary")
	s.True(s.check("08:00", "09:01", nil).Conflict)
	s.True(s.check("09:30", "10:30", nil).Conflict, "contained")
	s.True(s.check("07:00", "13:00", nil).Conflict, "containing")
}

func (s *ScheduleServiceSuite) TestCheckConflictIgnoresOtherStaffDatesAndCancelled() {
	ctx := context.Background()
	other, err := s.svc.CheckConflict(ctx, "staff-other", mustDate(s.day), tod("09:00"), tod("11:00"), nil)
	s.Require().NoError(err)
	s.False(other.Conflict)

	nextDay, err := s.svc.CheckConflict(ctx, staffS, mustDate("2024-03-05"), tod("09:00"), tod("11:00"), nil)
	s.Require().NoError(err)
	s.False(nextDay.Conflict)

	_, err = s.svc.CancelShift(ctx, s.existingID)
	s.Require().NoError(err)
	s.False(s.check("09:00", "11:00", nil).Conflict)
}

func (s *ScheduleServiceSuite) TestCheckConflictExcludesSelf() {
	s.False(s.check("09:00", "11:00", &s.existingID).Conflict)
	s.False(s.check("10:00", "12:00", &s.existingID).Conflict)
}

func (s *ScheduleServiceSuite) TestCheckConflictIsIdempotent() {
	first := s.check("10:00", "12:00", nil)
	second := s.check("10:00", "12:00", nil)
	s.Equal(first, second)
	s.Zero(s.repo.writes)
}

func (s *ScheduleServiceSuite) TestCheckConflictRejectsInvalidInterval() {
	_, err := s.svc.CheckConflict(context.Background(), staffS, mustDate(s.day), tod("12:00"), tod("12:00"), nil)
	s.True(apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = s.svc.CheckConflict(context.Background(), "", mustDate(s.day), tod("10:00"), tod("12:00"), nil)
	s.True(apperrors.HasCode(err, apperrors.CodeValidation))
}

func (s *ScheduleServiceSuite) input(start, end string) ShiftInput {
	return ShiftInput{
		StaffID:  staffS,
		ClientID: clientC,
		Date:     mustDate(s.day),
		Start:    tod(start),
		End:      tod(end),
	}
}

func (s *ScheduleServiceSuite) TestCreateShiftPersistsAndAttributes() {
	ctx := auth.WithIdentity(context.Background(), auth.Identity{SubjectID: "admin-1", Role: domain.RoleAdmin})

	shift, err := s.svc.CreateShift(ctx, s.input("11:00", "13:00"))
	s.Require().NoError(err)
	s.NotEmpty(shift.ID)
	s.Equal(domain.ShiftStatusActive, shift.Status)
	s.Equal("admin-1", shift.CreatedBy)
	s.Equal([]string{staffS + "|" + s.day}, s.repo.locks)
	s.Equal([]events.EventType{events.EventShiftScheduled}, s.dispatcher.types())
}

func (s *ScheduleServiceSuite) TestCreateShiftConflict() {
	_, err := s.svc.CreateShift(context.Background(), s.input("10:00", "12:00"))
	s.Require().Error(err)

	var domainErr *apperrors.DomainError
	s.Require().ErrorAs(err, &domainErr)
	s.Equal(apperrors.CodeScheduleConflict, domainErr.Code)
	s.Equal(409, domainErr.HTTPStatus)
	s.Equal([]string{s.existingID}, domainErr.Details["conflicting_shift_ids"])
	s.Zero(s.repo.writes)
	s.Equal(1, s.conflicts.n)
	s.Empty(s.dispatcher.types())
}

func (s *ScheduleServiceSuite) TestUpdateShiftAgainstItselfNeverConflicts() {
	in := s.input("09:30", "11:30")
	shift, err := s.svc.UpdateShift(context.Background(), s.existingID, in)
	s.Require().NoError(err)
	s.Equal(tod("09:30"), shift.StartTime)
	s.Equal(tod("11:30"), shift.EndTime)
}

func (s *ScheduleServiceSuite) TestUpdateShiftConflictsWithOthers() {
	created, err := s.svc.CreateShift(context.Background(), s.input("13:00", "15:00"))
	s.Require().NoError(err)

	_, err = s.svc.UpdateShift(context.Background(), created.ID, s.input("10:30", "14:00"))
	s.True(apperrors.HasCode(err, apperrors.CodeScheduleConflict))

	stored, err := s.svc.GetShift(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal(tod("13:00"), stored.StartTime)
}

func (s *ScheduleServiceSuite) TestUpdateToCancelledSkipsConflictCheck() {
	created, err := s.svc.CreateShift(context.Background(), s.input("13:00", "15:00"))
	s.Require().NoError(err)

	cancelled := domain.ShiftStatusCancelled
	in := s.input("10:00", "12:00")
	in.Status = &cancelled
	shift, err := s.svc.UpdateShift(context.Background(), created.ID, in)
	s.Require().NoError(err)
	s.Equal(domain.ShiftStatusCancelled, shift.Status)
	s.Contains(s.dispatcher.types(), events.EventShiftStatusChanged)
}

func (s *ScheduleServiceSuite) TestUpdateMissingShift() {
	_, err := s.svc.UpdateShift(context.Background(), "nope", s.input("13:00", "14:00"))
	s.True(apperrors.HasCode(err, apperrors.CodeNotFound))
}

func (s *ScheduleServiceSuite) TestUpdateWithoutStatusKeepsCurrentStatus() {
	ctx := context.Background()
	shift, err := s.svc.UpdateShift(ctx, s.existingID, s.input("09:30", "11:30"))
	s.Require().NoError(err)
	s.Equal(domain.ShiftStatusActive, shift.Status)
	s.Empty(s.dispatcher.types())

	_, err = s.svc.CancelShift(ctx, s.existingID)
	s.Require().NoError(err)

	_, err = s.svc.UpdateShift(ctx, s.existingID, s.input("09:30", "11:30"))
	s.Require().Error(err)
	s.True(apperrors.HasCode(err, apperrors.CodeInvalidTransition))
	s.NotContains(err.Error(), "to active")
	s.Equal("cancelled", apperrors.ToDomainError(err).Details["status"])
}

func (s *ScheduleServiceSuite) TestTerminalStatesAreFinal() {
	ctx := context.Background()
	completed, err := s.svc.CompleteShift(ctx, s.existingID)
	s.Require().NoError(err)
	s.Equal(domain.ShiftStatusCompleted, completed.Status)

	_, err = s.svc.CancelShift(ctx, s.existingID)
	s.True(apperrors.HasCode(err, apperrors.CodeInvalidTransition))

	_, err = s.svc.UpdateShift(ctx, s.existingID, s.input("09:00", "10:00"))
	s.True(apperrors.HasCode(err, apperrors.CodeInvalidTransition))

	again, err := s.svc.CompleteShift(ctx, s.existingID)
	s.Require().NoError(err)
	s.Equal(domain.ShiftStatusCompleted, again.Status)
}

func (s *ScheduleServiceSuite) TestDeleteShift() {
	s.Require().NoError(s.svc.DeleteShift(context.Background(), s.existingID))
	err := s.svc.DeleteShift(context.Background(), s.existingID)
	s.True(apperrors.HasCode(err, apperrors.CodeNotFound))
}

func (s *ScheduleServiceSuite) TestAvailabilityAndStaffListing() {
	ctx := context.Background()
	booked, err := s.svc.Availability(ctx, staffS, mustDate(s.day))
	s.Require().NoError(err)
	s.Len(booked, 1)

	from := mustDate("2024-03-01")
	to := mustDate("2024-03-31")
	own, err := s.svc.ListForStaff(ctx, staffS, &from, &to)
	s.Require().NoError(err)
	s.Len(own, 1)

	none, err := s.svc.ListForStaff(ctx, "someone-else", &from, &to)
	s.Require().NoError(err)
	s.Empty(none)
}

func TestConcurrentCreatesAdmitExactlyOne(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewScheduleService(ScheduleDependencies{ShiftRepo: repo, TxManager: &serialTx{}})
	in := ShiftInput{StaffID: staffS, ClientID: clientC, Date: mustDate("2024-03-04"), Start: tod("09:00"), End: tod("11:00")}

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateShift(context.Background(), in)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if apperrors.HasCode(err, apperrors.CodeScheduleConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestFindConflicts(t *testing.T) {
	existing := []domain.Shift{
		{ID: "a", StartTime: tod("09:00"), EndTime: tod("11:00"), Status: domain.ShiftStatusActive},
		{ID: "b", StartTime: tod("13:00"), EndTime: tod("15:00"), Status: domain.ShiftStatusActive},
		{ID: "c", StartTime: tod("10:00"), EndTime: tod("14:00"), Status: domain.ShiftStatusCancelled},
	}
	proposed := domain.Interval{Start: tod("10:30"), End: tod("13:30")}

	require.Equal(t, []string{"a", "b"}, FindConflicts(existing, proposed, nil))
	exclude := "a"
	require.Equal(t, []string{"b"}, FindConflicts(existing, proposed, &exclude))
	require.Empty(t, FindConflicts(existing, domain.Interval{Start: tod("11:00"), End: tod("13:00")}, nil))
}
