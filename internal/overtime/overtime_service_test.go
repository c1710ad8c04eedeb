package overtime

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"hrms/internal/conflict"
	"hrms/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOvertimeRepo struct {
	overtimes map[string]*Overtime
	approveOK bool
}

func newFakeOvertimeRepo() *fakeOvertimeRepo {
	return &fakeOvertimeRepo{overtimes: map[string]*Overtime{}, approveOK: true}
}

func (f *fakeOvertimeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeOvertimeRepo) Create(ctx context.Context, o *Overtime) error {
	f.overtimes[o.ID.String()] = o
	return nil
}

func (f *fakeOvertimeRepo) FindAll(ctx context.Context, limit, offset int) ([]Overtime, int64, error) {
	out := make([]Overtime, 0, len(f.overtimes))
	for _, o := range f.overtimes {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOvertimeRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]Overtime, error) {
	var out []Overtime
	for _, o := range f.overtimes {
		if o.EmployeeID.String() == employeeID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOvertimeRepo) FindByID(ctx context.Context, id string) (*Overtime, error) {
	o, ok := f.overtimes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOvertimeRepo) Update(ctx context.Context, o *Overtime) error {
	f.overtimes[o.ID.String()] = o
	return nil
}

func (f *fakeOvertimeRepo) Delete(ctx context.Context, id string) error {
	delete(f.overtimes, id)
	return nil
}

func (f *fakeOvertimeRepo) FindActiveByDate(ctx context.Context, employeeID string, date time.Time, excludeID *string) (*Overtime, error) {
	for _, o := range f.overtimes {
		if excludeID != nil && o.ID.String() == *excludeID {
			continue
		}
		if o.EmployeeID.String() == employeeID &&
			o.OvertimeDate.Equal(date) &&
			o.Status != StatusRejected {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOvertimeRepo) Approve(ctx context.Context, id string, approverID uuid.UUID, at time.Time) (bool, error) {
	if !f.approveOK {
		return false, nil
	}
	if o, ok := f.overtimes[id]; ok {
		o.Status = StatusApproved
	}
	return true, nil
}

func (f *fakeOvertimeRepo) RejectPending(ctx context.Context, id string, rejectorID uuid.UUID, at time.Time, reason string) (bool, error) {
	if o, ok := f.overtimes[id]; ok {
		o.Status = StatusRejected
	}
	return true, nil
}

type fakeLeaveSource struct {
	overlap *conflict.Record
}

func (f *fakeLeaveSource) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*conflict.Record, error) {
	return f.overlap, nil
}

type noSources struct{}

func (noSources) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (*conflict.Record, error) {
	return nil, nil
}

func (noSources) FindInRange(ctx context.Context, employeeID string, from, to time.Time) ([]conflict.Record, error) {
	return nil, nil
}

type fixture struct {
	svc    Service
	repo   *fakeOvertimeRepo
	leaves *fakeLeaveSource
	mock   sqlmock.Sqlmock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeOvertimeRepo()
	leaves := &fakeLeaveSource{}
	detector := conflict.NewDetector(leaves, noSources{}, noSources{})

	svc := NewService(db, repo, detector, nil)
	return &fixture{svc: svc, repo: repo, leaves: leaves, mock: mock}
}

func seedOvertime(f *fixture, status, date string, hours float64) *Overtime {
	d, _ := time.Parse(dateLayout, date)
	o := &Overtime{
		ID:           uuid.New(),
		EmployeeID:   uuid.New(),
		OvertimeDate: d,
		Hours:        hours,
		OvertimeType: TypeRegular,
		Reason:       "release night",
		Status:       status,
	}
	f.repo.overtimes[o.ID.String()] = o
	return o
}

func TestCreate_FilesPendingOvertime(t *testing.T) {
	f := newFixture(t)
	actorID := uuid.NewString()

	resp, err := f.svc.Create(context.Background(), actorID, CreateOvertimeRequest{
		Date:         "2025-03-14",
		Hours:        3,
		OvertimeType: TypeRegular,
		Reason:       "release night",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, 3.0, resp.Hours)
}

func TestCreate_RejectsSecondRequestSameDay(t *testing.T) {
	f := newFixture(t)
	existing := seedOvertime(f, StatusPending, "2025-03-14", 2)

	_, err := f.svc.Create(context.Background(), existing.EmployeeID.String(), CreateOvertimeRequest{
		Date:         "2025-03-14",
		Hours:        4,
		OvertimeType: TypeHoliday,
		Reason:       "again",
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeSchedulingConflict, appErr.Code)
}

func TestCreate_AllowsNewRequestAfterRejection(t *testing.T) {
	f := newFixture(t)
	existing := seedOvertime(f, StatusRejected, "2025-03-14", 2)

	_, err := f.svc.Create(context.Background(), existing.EmployeeID.String(), CreateOvertimeRequest{
		Date:         "2025-03-14",
		Hours:        4,
		OvertimeType: TypeRegular,
		Reason:       "retry",
	})

	require.NoError(t, err)
}

func TestCreate_ValidatesHours(t *testing.T) {
	f := newFixture(t)

	for _, hours := range []float64{0, -1, 25} {
		_, err := f.svc.Create(context.Background(), uuid.NewString(), CreateOvertimeRequest{
			Date:         "2025-03-14",
			Hours:        hours,
			OvertimeType: TypeRegular,
			Reason:       "x",
		})

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	}
}

func TestApprove_FlipsPendingRequest(t *testing.T) {
	f := newFixture(t)
	o := seedOvertime(f, StatusPending, "2025-03-14", 3)
	approver := uuid.NewString()

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.Approve(context.Background(), approver, o.ID.String())

	require.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, approver, *resp.ApprovedBy)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestApprove_BlockedByApprovedLeave(t *testing.T) {
	f := newFixture(t)
	o := seedOvertime(f, StatusPending, "2025-03-14", 3)
	from, _ := time.Parse(dateLayout, "2025-03-13")
	to, _ := time.Parse(dateLayout, "2025-03-15")
	f.leaves.overlap = &conflict.Record{ID: uuid.New(), DateFrom: from, DateTo: to, Status: StatusApproved}

	_, err := f.svc.Approve(context.Background(), uuid.NewString(), o.ID.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeSchedulingConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "2025-03-14")
}

func TestApprove_AlreadyProcessed(t *testing.T) {
	f := newFixture(t)
	o := seedOvertime(f, StatusApproved, "2025-03-14", 3)

	_, err := f.svc.Approve(context.Background(), uuid.NewString(), o.ID.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

func TestBulkApprove_IsolatesConflictedItems(t *testing.T) {
	f := newFixture(t)
	ok1 := seedOvertime(f, StatusPending, "2025-03-10", 2)
	done := seedOvertime(f, StatusRejected, "2025-03-11", 2)
	ok2 := seedOvertime(f, StatusPending, "2025-03-12", 2)

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
}
