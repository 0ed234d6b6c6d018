package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/trailmark/internal/pkg/dbutil"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
	"github.com/xxxsen/trailmark/internal/repo"
)

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(exec *dbutil.Executor) error) error
}

// Coordinator owns the atomic unit around multi-step writes and the serial
// membership rules.
type Coordinator struct {
	tx TxRunner
}

func NewCoordinator(tx TxRunner) *Coordinator {
	return &Coordinator{tx: tx}
}

// Atomic runs fn against transaction-bound repositories. Either every write of
// fn becomes visible or none does. Lost races reported by the database come
// back as ErrConflict, any other error is returned as is.
func (c *Coordinator) Atomic(ctx context.Context, op string, fn func(r *repo.Repos) error) error {
	err := c.tx.RunInTx(ctx, func(exec *dbutil.Executor) error {
		return fn(repo.New(exec))
	})
	if err == nil {
		return nil
	}
	if dbutil.IsSerializationFailure(err) || dbutil.IsForeignKeyViolation(err) {
		logutil.GetLogger(ctx).Warn("atomic write lost a race",
			zap.String("op", op),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w", op, appErr.ErrConflict)
	}
	return err
}

// ValidateMembers checks the ordered marker list of a serial before any
// storage is touched.
func ValidateMembers(markerIDs []string) error {
	if len(markerIDs) < 2 {
		return appErr.ErrSerialTooShort
	}
	for i, id := range markerIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: blank marker id at position %d", appErr.ErrInvalidSerial, i+1)
		}
		if i > 0 && id == markerIDs[i-1] {
			return appErr.ErrSerialAdjacentDuplicate
		}
	}
	return nil
}

// CheckOwnership fails unless every referenced marker exists and belongs to
// userID. It must run on the repositories of the enclosing transaction.
func (c *Coordinator) CheckOwnership(ctx context.Context, r *repo.Repos, userID string, markerIDs []string) error {
	distinct := uniqueStrings(markerIDs)
	owned, err := r.Markers.ListOwnedIDs(ctx, userID, distinct)
	if err != nil {
		return err
	}
	if len(owned) != len(distinct) {
		return appErr.ErrSerialForeignMarker
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
