// Package approval applies an approve transition to a batch of request ids
// with per-item failure isolation: one conflicting item never aborts the
// rest of the batch.
package approval

import (
	"context"
	"errors"

	"hrms/internal/shared/apperror"

	"go.uber.org/zap"
)

// ApproveFunc approves a single request id on behalf of an approver. It is
// expected to go through the same atomic path as a single approval.
type ApproveFunc func(ctx context.Context, actorID, id string) error

type Failure struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type Result struct {
	ApprovedIDs   []string  `json:"approved_ids"`
	Failures      []Failure `json:"failures"`
	ApprovedCount int       `json:"approved_count"`
	FailedCount   int       `json:"failed_count"`
}

// BulkApprove invokes approve for each id independently. Business failures
// (AppError) become report entries; anything else is treated as an
// infrastructure failure and aborts the whole batch.
func BulkApprove(ctx context.Context, ids []string, actorID string, approve ApproveFunc, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.L().Named("approval.bulk")
	}

	result := Result{
		ApprovedIDs: make([]string, 0, len(ids)),
		Failures:    make([]Failure, 0),
	}

	for _, id := range ids {
		err := approve(ctx, actorID, id)
		if err == nil {
			result.ApprovedIDs = append(result.ApprovedIDs, id)
			continue
		}

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			logger.Error("bulk approve infrastructure failure",
				zap.String("id", id),
				zap.Error(err),
			)
			return Result{}, err
		}

		logger.Warn("bulk approve item failed",
			zap.String("id", id),
			zap.String("code", appErr.Code),
			zap.String("reason", appErr.Message),
		)
		result.Failures = append(result.Failures, Failure{
			ID:     id,
			Code:   appErr.Code,
			Reason: appErr.Message,
		})
	}

	result.ApprovedCount = len(result.ApprovedIDs)
	result.FailedCount = len(result.Failures)
	return result, nil
}
