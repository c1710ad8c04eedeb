package officialbusiness

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"hrms/internal/conflict"
	"hrms/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOBRepo struct {
	requests  map[string]*OfficialBusiness
	approveOK bool
}

func newFakeOBRepo() *fakeOBRepo {
	return &fakeOBRepo{requests: map[string]*OfficialBusiness{}, approveOK: true}
}

func (f *fakeOBRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeOBRepo) Create(ctx context.Context, ob *OfficialBusiness) error {
	f.requests[ob.ID.String()] = ob
	return nil
}

func (f *fakeOBRepo) FindAll(ctx context.Context, limit, offset int) ([]OfficialBusiness, int64, error) {
	out := make([]OfficialBusiness, 0, len(f.requests))
	for _, ob := range f.requests {
		out = append(out, *ob)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOBRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]OfficialBusiness, error) {
	var out []OfficialBusiness
	for _, ob := range f.requests {
		if ob.EmployeeID.String() == employeeID {
			out = append(out, *ob)
		}
	}
	return out, nil
}

func (f *fakeOBRepo) FindByID(ctx context.Context, id string) (*OfficialBusiness, error) {
	ob, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ob
	return &cp, nil
}

func (f *fakeOBRepo) Update(ctx context.Context, ob *OfficialBusiness) error {
	f.requests[ob.ID.String()] = ob
	return nil
}

func (f *fakeOBRepo) Delete(ctx context.Context, id string) error {
	delete(f.requests, id)
	return nil
}

func (f *fakeOBRepo) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (*conflict.Record, error) {
	for _, ob := range f.requests {
		if excludeID != nil && ob.ID.String() == *excludeID {
			continue
		}
		if ob.EmployeeID.String() != employeeID || ob.Status == StatusRejected {
			continue
		}
		if conflict.Overlaps(from, to, ob.DateFrom, ob.DateTo) {
			return &conflict.Record{ID: ob.ID, DateFrom: ob.DateFrom, DateTo: ob.DateTo, Status: ob.Status}, nil
		}
	}
	return nil, nil
}

func (f *fakeOBRepo) Approve(ctx context.Context, id string, approverID uuid.UUID, at time.Time) (bool, error) {
	if !f.approveOK {
		return false, nil
	}
	if ob, ok := f.requests[id]; ok {
		ob.Status = StatusApproved
	}
	return true, nil
}

func (f *fakeOBRepo) RejectPending(ctx context.Context, id string, rejectorID uuid.UUID, at time.Time, reason string) (bool, error) {
	if ob, ok := f.requests[id]; ok {
		ob.Status = StatusRejected
	}
	return true, nil
}

type fakeLeaveSource struct {
	overlap *conflict.Record
}

func (f *fakeLeaveSource) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, statuses []string, excludeID *string) (*conflict.Record, error) {
	return f.overlap, nil
}

type noAttendanceSource struct{}

func (noAttendanceSource) FindInRange(ctx context.Context, employeeID string, from, to time.Time) ([]conflict.Record, error) {
	return nil, nil
}

type fixture struct {
	svc    Service
	repo   *fakeOBRepo
	leaves *fakeLeaveSource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeOBRepo()
	leaves := &fakeLeaveSource{}
	detector := conflict.NewDetector(leaves, repo, noAttendanceSource{})
	return &fixture{svc: NewService(repo, detector), repo: repo, leaves: leaves}
}

func seedOB(f *fixture, status, from, to string) *OfficialBusiness {
	dateFrom, _ := time.Parse(dateLayout, from)
	dateTo, _ := time.Parse(dateLayout, to)
	ob := &OfficialBusiness{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		Reason:     "client visit",
		Status:     status,
	}
	f.repo.requests[ob.ID.String()] = ob
	return ob
}

func TestCreate_FilesPendingRequest(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), uuid.NewString(), CreateOfficialBusinessRequest{
		DateFrom: "2025-04-01",
		DateTo:   "2025-04-02",
		Reason:   "client visit",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
}

func TestCreate_RejectsOverlapWithOwnRequest(t *testing.T) {
	f := newFixture(t)
	existing := seedOB(f, StatusPending, "2025-04-01", "2025-04-03")

	_, err := f.svc.Create(context.Background(), existing.EmployeeID.String(), CreateOfficialBusinessRequest{
		DateFrom: "2025-04-03",
		DateTo:   "2025-04-04",
		Reason:   "another trip",
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeSchedulingConflict, appErr.Code)
}

func TestUpdate_ExcludesSelfFromOverlapCheck(t *testing.T) {
	f := newFixture(t)
	ob := seedOB(f, StatusPending, "2025-04-01", "2025-04-02")

	resp, err := f.svc.Update(context.Background(), ob.EmployeeID.String(), ob.ID.String(), UpdateOfficialBusinessRequest{
		DateFrom: "2025-04-01",
		DateTo:   "2025-04-03",
		Reason:   "extended",
	})

	require.NoError(t, err)
	assert.Equal(t, "2025-04-03", resp.DateTo)
}

func TestApprove_BlockedByApprovedLeave(t *testing.T) {
	f := newFixture(t)
	ob := seedOB(f, StatusPending, "2025-04-01", "2025-04-02")
	from, _ := time.Parse(dateLayout, "2025-04-02")
	to, _ := time.Parse(dateLayout, "2025-04-04")
	f.leaves.overlap = &conflict.Record{ID: uuid.New(), DateFrom: from, DateTo: to, Status: StatusApproved}

	_, err := f.svc.Approve(context.Background(), uuid.NewString(), ob.ID.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeSchedulingConflict, appErr.Code)
}

func TestApprove_PendingOnly(t *testing.T) {
	f := newFixture(t)
	ob := seedOB(f, StatusApproved, "2025-04-01", "2025-04-02")

	_, err := f.svc.Approve(context.Background(), uuid.NewString(), ob.ID.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(t)
	ob := seedOB(f, StatusPending, "2025-04-01", "2025-04-02")

	_, err := f.svc.Reject(context.Background(), uuid.NewString(), ob.ID.String(), "")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}
