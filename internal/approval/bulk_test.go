package approval_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"hrms/internal/approval"
	"hrms/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBulkApproveIsolatesBusinessFailures(t *testing.T) {
	conflictErr := apperror.New(apperror.CodeSchedulingConflict, "overlaps an approved leave", http.StatusConflict)

	approve := func(ctx context.Context, actorID, id string) error {
		if id == "b" {
			return conflictErr
		}
		return nil
	}

	result, err := approval.BulkApprove(context.Background(), []string{"a", "b", "c"}, "approver", approve, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, result.ApprovedIDs)
	assert.Equal(t, 2, result.ApprovedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, "b", result.Failures[0].ID)
	assert.Equal(t, apperror.CodeSchedulingConflict, result.Failures[0].Code)
}

func TestBulkApproveAbortsOnInfrastructureFailure(t *testing.T) {
	infra := errors.New("connection refused")
	calls := 0

	approve := func(ctx context.Context, actorID, id string) error {
		calls++
		if id == "b" {
			return infra
		}
		return nil
	}

	_, err := approval.BulkApprove(context.Background(), []string{"a", "b", "c"}, "approver", approve, zap.NewNop())

	assert.ErrorIs(t, err, infra)
	assert.Equal(t, 2, calls, "processing stops at the infrastructure failure")
}

func TestBulkApproveEmptyBatch(t *testing.T) {
	result, err := approval.BulkApprove(context.Background(), nil, "approver", func(ctx context.Context, actorID, id string) error {
		t.Fatal("approve must not be called")
		return nil
	}, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 0, result.ApprovedCount)
	assert.Equal(t, 0, result.FailedCount)
}
