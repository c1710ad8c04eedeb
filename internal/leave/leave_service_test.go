package leave

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"hrms/internal/attendance"
	"hrms/internal/conflict"
	"hrms/internal/leavecredit"
	leavecrediterrors "hrms/internal/leavecredit/errors"
	"hrms/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- fakes ---

type fakeLeaveRepo struct {
	leaves      map[string]*Leave
	overlap     *conflict.Record
	approveOK   bool
	rejectOK    bool
	revokeOK    bool
	approvedIDs []string
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{
		leaves:    map[string]*Leave{},
		approveOK: true,
		rejectOK:  true,
		revokeOK:  true,
	}
}

func (f *fakeLeaveRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeLeaveRepo) Create(ctx context.Context, l *Leave) error {
	f.leaves[l.ID.String()] = l
	return nil
}

func (f *fakeLeaveRepo) FindAll(ctx context.Context, limit, offset int) ([]Leave, int64, error) {
	out := make([]Leave, 0, len(f.leaves))
	for _, l := range f.leaves {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeaveRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]Leave, error) {
	var out []Leave
	for _, l := range f.leaves {
		if l.EmployeeID.String() == employeeID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) FindByID(ctx context.Context, id string) (*Leave, error) {
	l, ok := f.leaves[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLeaveRepo) Update(ctx context.Context, l *Leave) error {
	f.leaves[l.ID.String()] = l
	return nil
}

func (f *fakeLeaveRepo) Delete(ctx context.Context, id string) error {
	delete(f.leaves, id)
	return nil
}

func (f *fakeLeaveRepo) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*conflict.Record, error) {
	if f.overlap != nil && excludeID != nil && f.overlap.ID.String() == *excludeID {
		return nil, nil
	}
	return f.overlap, nil
}

func (f *fakeLeaveRepo) Approve(ctx context.Context, id string, approverID uuid.UUID, at time.Time) (bool, error) {
	if !f.approveOK {
		return false, nil
	}
	f.approvedIDs = append(f.approvedIDs, id)
	if l, ok := f.leaves[id]; ok {
		l.Status = StatusApproved
	}
	return true, nil
}

func (f *fakeLeaveRepo) RejectPending(ctx context.Context, id string, rejectorID uuid.UUID, at time.Time, reason string) (bool, error) {
	if !f.rejectOK {
		return false, nil
	}
	if l, ok := f.leaves[id]; ok {
		l.Status = StatusRejected
	}
	return true, nil
}

func (f *fakeLeaveRepo) RevokeApproved(ctx context.Context, id string, actorID uuid.UUID, at time.Time, reason string) (bool, error) {
	if !f.revokeOK {
		return false, nil
	}
	if l, ok := f.leaves[id]; ok {
		l.Status = StatusRejected
	}
	return true, nil
}

type fakeCreditService struct {
	canUseErr error
}

func (f *fakeCreditService) GetOrCreate(ctx context.Context, employeeID string, year int) ([]leavecredit.Credit, error) {
	return nil, nil
}

func (f *fakeCreditService) CanUse(ctx context.Context, employeeID string, leaveType leavecredit.Type, year, days int) error {
	return f.canUseErr
}

func (f *fakeCreditService) Restore(ctx context.Context, employeeID string, leaveType leavecredit.Type, days int) error {
	return nil
}

func (f *fakeCreditService) ResetForNewYear(ctx context.Context, employeeID string, year int) ([]leavecredit.Credit, error) {
	return nil, nil
}

func (f *fakeCreditService) GetLedger(ctx context.Context, employeeID string, year int) (leavecredit.LedgerResponse, error) {
	return leavecredit.LedgerResponse{}, nil
}

type fakeCreditRepo struct {
	consumeOK    bool
	consumed     int
	restored     int
	remaining    int
	restoredDays []int
}

func (f *fakeCreditRepo) WithTx(tx *sql.Tx) leavecredit.Repository { return f }

func (f *fakeCreditRepo) Create(ctx context.Context, c *leavecredit.Credit) error { return nil }

func (f *fakeCreditRepo) FindByEmployee(ctx context.Context, employeeID string) ([]leavecredit.Credit, error) {
	return nil, nil
}

func (f *fakeCreditRepo) FindByEmployeeAndType(ctx context.Context, employeeID string, leaveType leavecredit.Type) (*leavecredit.Credit, error) {
	return &leavecredit.Credit{Remaining: f.remaining}, nil
}

func (f *fakeCreditRepo) ConsumeIfAvailable(ctx context.Context, employeeID string, leaveType leavecredit.Type, year, days int) (bool, error) {
	if !f.consumeOK {
		return false, nil
	}
	f.consumed += days
	return true, nil
}

func (f *fakeCreditRepo) Restore(ctx context.Context, employeeID string, leaveType leavecredit.Type, days int) (bool, error) {
	f.restored += days
	f.restoredDays = append(f.restoredDays, days)
	return true, nil
}

func (f *fakeCreditRepo) Reset(ctx context.Context, employeeID string, year int) error { return nil }

type fakeAttendanceRepo struct {
	inRange     []conflict.Record
	onLeaveDays []time.Time
	deletedFor  []string
}

func (f *fakeAttendanceRepo) WithTx(tx *sql.Tx) attendance.Repository { return f }

func (f *fakeAttendanceRepo) Create(ctx context.Context, a *attendance.Attendance) (bool, error) {
	return true, nil
}

func (f *fakeAttendanceRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepo) FindAll(ctx context.Context) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) FindRangeByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, a *attendance.Attendance) error { return nil }

func (f *fakeAttendanceRepo) FindInRange(ctx context.Context, employeeID string, from, to time.Time) ([]conflict.Record, error) {
	return f.inRange, nil
}

func (f *fakeAttendanceRepo) CreateOnLeave(ctx context.Context, employeeID uuid.UUID, date time.Time, leaveRequestID uuid.UUID) error {
	f.onLeaveDays = append(f.onLeaveDays, date)
	return nil
}

func (f *fakeAttendanceRepo) DeleteByLeaveRequest(ctx context.Context, leaveRequestID string) error {
	f.deletedFor = append(f.deletedFor, leaveRequestID)
	return nil
}

type noBusinessSource struct{}

func (noBusinessSource) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (*conflict.Record, error) {
	return nil, nil
}

type fixture struct {
	svc        Service
	repo       *fakeLeaveRepo
	credits    *fakeCreditService
	creditRepo *fakeCreditRepo
	attRepo    *fakeAttendanceRepo
	mock       sqlmock.Sqlmock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeLeaveRepo()
	credits := &fakeCreditService{}
	creditRepo := &fakeCreditRepo{consumeOK: true}
	attRepo := &fakeAttendanceRepo{}
	detector := conflict.NewDetector(repo, noBusinessSource{}, attRepo)

	svc := NewService(db, repo, credits, creditRepo, attRepo, detector, nil)
	return &fixture{
		svc:        svc,
		repo:       repo,
		credits:    credits,
		creditRepo: creditRepo,
		attRepo:    attRepo,
		mock:       mock,
	}
}

func seedLeave(f *fixture, status string, leaveType leavecredit.Type, from, to string) *Leave {
	dateFrom, _ := time.Parse(dateLayout, from)
	dateTo, _ := time.Parse(dateLayout, to)
	l := &Leave{
		ID:             uuid.New(),
		EmployeeID:     uuid.New(),
		LeaveType:      leaveType,
		DateFrom:       dateFrom,
		DateTo:         dateTo,
		TotalLeaveDays: int(dateTo.Sub(dateFrom).Hours()/24) + 1,
		Status:         status,
	}
	f.repo.leaves[l.ID.String()] = l
	return l
}

// --- create ---

func TestCreate_FilesPendingRequest(t *testing.T) {
	f := newFixture(t)
	actorID := uuid.NewString()

	resp, err := f.svc.Create(context.Background(), actorID, CreateLeaveRequest{
		LeaveType: "VL",
		DateFrom:  "2025-03-10",
		DateTo:    "2025-03-12",
		Notes:     "family trip",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, 3, resp.TotalLeaveDays)
	assert.Equal(t, actorID, resp.EmployeeID)
	assert.Len(t, f.repo.leaves, 1)
}

func TestCreate_RejectsOverlappingRequest(t *testing.T) {
	f := newFixture(t)
	from, _ := time.Parse(dateLayout, "2025-03-11")
	to, _ := time.Parse(dateLayout, "2025-03-13")
	f.repo.overlap = &conflict.Record{ID: uuid.New(), DateFrom: from, DateTo: to, Status: StatusPending}

	_, err := f.svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		LeaveType: "VL",
		DateFrom:  "2025-03-10",
		DateTo:    "2025-03-12",
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeSchedulingConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "2025-03-11")
	assert.Empty(t, f.repo.leaves)
}

func TestCreate_RejectsWhenAttendanceExists(t *testing.T) {
	f := newFixture(t)
	f.attRepo.inRange = []conflict.Record{{ID: uuid.New(), Status: "present"}}

	_, err := f.svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		LeaveType: "SL",
		DateFrom:  "2025-03-10",
		DateTo:    "2025-03-10",
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeSchedulingConflict, appErr.Code)
}

func TestCreate_RejectsInsufficientCredit(t *testing.T) {
	f := newFixture(t)
	f.credits.canUseErr = leavecrediterrors.InsufficientCredit("VL", 2, 3)

	_, err := f.svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		LeaveType: "VL",
		DateFrom:  "2025-03-10",
		DateTo:    "2025-03-12",
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInsufficientCredit, appErr.Code)
	assert.Empty(t, f.repo.leaves)
}

func TestCreate_SkipsCreditCheckForLWOP(t *testing.T) {
	f := newFixture(t)
	f.credits.canUseErr = leavecrediterrors.InsufficientCredit("VL", 0, 1)

	resp, err := f.svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		LeaveType: "LWOP",
		DateFrom:  "2025-03-10",
		DateTo:    "2025-03-12",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
}

func TestCreate_RejectsReversedRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.NewString(), CreateLeaveRequest{
		LeaveType: "VL",
		DateFrom:  "2025-03-12",
		DateTo:    "2025-03-10",
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

// --- approve ---

func TestApprove_ConsumesCreditsAndSynthesizesAttendance(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusPending, leavecredit.TypeVacation, "2025-03-10", "2025-03-12")
	approver := uuid.NewString()

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.Approve(context.Background(), approver, l.ID.String())

	require.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, approver, *resp.ApprovedBy)
	assert.Equal(t, 3, f.creditRepo.consumed)
	assert.Len(t, f.attRepo.onLeaveDays, 3)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestApprove_LWOPDoesNotTouchLedger(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusPending, leavecredit.TypeWithoutPay, "2025-03-10", "2025-03-11")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.svc.Approve(context.Background(), uuid.NewString(), l.ID.String())

	require.NoError(t, err)
	assert.Zero(t, f.creditRepo.consumed)
	assert.Len(t, f.attRepo.onLeaveDays, 2)
}

func TestApprove_AlreadyProcessedRollsBackDeduction(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusPending, leavecredit.TypeVacation, "2025-03-10", "2025-03-10")
	f.repo.approveOK = false

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Approve(context.Background(), uuid.NewString(), l.ID.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
	assert.Empty(t, f.attRepo.onLeaveDays)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestApprove_RejectedWhenConcurrentApprovalWinsCredits(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusPending, leavecredit.TypeVacation, "2025-03-10", "2025-03-12")
	f.creditRepo.consumeOK = false
	f.creditRepo.remaining = 1

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Approve(context.Background(), uuid.NewString(), l.ID.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInsufficientCredit, appErr.Code)
	assert.Empty(t, f.repo.approvedIDs)
}

func TestApprove_TerminalStateIsIdempotentError(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusApproved, leavecredit.TypeVacation, "2025-03-10", "2025-03-10")

	_, err := f.svc.Approve(context.Background(), uuid.NewString(), l.ID.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

// --- reject / revoke ---

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusPending, leavecredit.TypeSick, "2025-03-10", "2025-03-10")

	_, err := f.svc.Reject(context.Background(), uuid.NewString(), l.ID.String(), "")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

func TestReject_PendingOnly(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusRejected, leavecredit.TypeSick, "2025-03-10", "2025-03-10")

	_, err := f.svc.Reject(context.Background(), uuid.NewString(), l.ID.String(), "no coverage")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

func TestRevoke_RestoresCreditsAndRemovesSynthesizedRows(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusApproved, leavecredit.TypeVacation, "2025-03-10", "2025-03-12")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.Revoke(context.Background(), uuid.NewString(), l.ID.String(), "filed in error")

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.Nil(t, resp.ApprovedBy)
	assert.Equal(t, 3, f.creditRepo.restored)
	assert.Equal(t, []string{l.ID.String()}, f.attRepo.deletedFor)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRevoke_PendingRequestIsRejected(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusPending, leavecredit.TypeVacation, "2025-03-10", "2025-03-10")

	_, err := f.svc.Revoke(context.Background(), uuid.NewString(), l.ID.String(), "whatever")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
	assert.Zero(t, f.creditRepo.restored)
}

// --- update / cancel ---

func TestUpdate_OwnerAndPendingOnly(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusPending, leavecredit.TypeVacation, "2025-03-10", "2025-03-10")

	_, err := f.svc.Update(context.Background(), uuid.NewString(), l.ID.String(), UpdateLeaveRequest{
		LeaveType: "VL",
		DateFrom:  "2025-03-10",
		DateTo:    "2025-03-10",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resp, err := f.svc.Update(context.Background(), l.EmployeeID.String(), l.ID.String(), UpdateLeaveRequest{
		LeaveType: "SL",
		DateFrom:  "2025-03-10",
		DateTo:    "2025-03-11",
	})
	require.NoError(t, err)
	assert.Equal(t, "SL", resp.LeaveType)
	assert.Equal(t, 2, resp.TotalLeaveDays)
}

func TestCancel_PendingOnly(t *testing.T) {
	f := newFixture(t)
	l := seedLeave(f, StatusApproved, leavecredit.TypeVacation, "2025-03-10", "2025-03-10")

	err := f.svc.Cancel(context.Background(), l.EmployeeID.String(), false, l.ID.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
	assert.Len(t, f.repo.leaves, 1)
}

// --- bulk ---

func TestBulkApprove_IsolatesBusinessFailures(t *testing.T) {
	f := newFixture(t)
	ok1 := seedLeave(f, StatusPending, leavecredit.TypeWithoutPay, "2025-03-10", "2025-03-10")
	done := seedLeave(f, StatusApproved, leavecredit.TypeVacation, "2025-04-01", "2025-04-01")
	ok2 := seedLeave(f, StatusPending, leavecredit.TypeWithoutPay, "2025-05-05", "2025-05-05")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	result, err := f.svc.BulkApprove(context.Background(), uuid.NewString(), []string{
		ok1.ID.String(), done.ID.String(), ok2.ID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.ApprovedCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, done.ID.String(), result.Failures[0].ID)
	assert.Equal(t, apperror.CodeInvalidState, result.Failures[0].Code)
}
