package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/trailmark/internal/model"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
	"github.com/xxxsen/trailmark/internal/repo"
)

func testCtx() context.Context {
	return context.Background()
}

func TestValidateMembers(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		wantErr error
	}{
		{name: "empty", ids: nil, wantErr: appErr.ErrSerialTooShort},
		{name: "single", ids: []string{"a"}, wantErr: appErr.ErrSerialTooShort},
		{name: "adjacent pair", ids: []string{"a", "a"}, wantErr: appErr.ErrSerialAdjacentDuplicate},
		{name: "adjacent in middle", ids: []string{"a", "b", "b", "c"}, wantErr: appErr.ErrSerialAdjacentDuplicate},
		{name: "blank id", ids: []string{"a", " ", "b"}, wantErr: appErr.ErrInvalidSerial},
		{name: "two distinct", ids: []string{"a", "b"}},
		{name: "revisit allowed", ids: []string{"a", "b", "a"}},
		{name: "loop back", ids: []string{"a", "b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMembers(tt.ids)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, appErr.ErrInvalidSerial)
		})
	}
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")
	err := f.coord.Atomic(testCtx(), "test", func(r *repo.Repos) error {
		if err := r.Markers.Create(testCtx(), &model.Marker{
			ID: "m-rollback", UserID: "u1", Title: "t", Date: "2024-01-01",
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = f.reads.Markers.GetByID(testCtx(), "u1", "m-rollback")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestAtomic_RollsBackOnPanic(t *testing.T) {
	f := newFixture(t)
	require.Panics(t, func() {
		_ = f.coord.Atomic(testCtx(), "test", func(r *repo.Repos) error {
			if err := r.Markers.Create(testCtx(), &model.Marker{
				ID: "m-panic", UserID: "u1", Title: "t", Date: "2024-01-01",
			}); err != nil {
				return err
			}
			panic("boom")
		})
	})

	_, err := f.reads.Markers.GetByID(testCtx(), "u1", "m-panic")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestCheckOwnership(t *testing.T) {
	f := newFixture(t)
	a := f.mustMarker(t, "owner", "A")
	b := f.mustMarker(t, "owner", "B")
	other := f.mustMarker(t, "intruder", "X")

	err := f.coord.Atomic(testCtx(), "test", func(r *repo.Repos) error {
		return f.coord.CheckOwnership(testCtx(), r, "owner", []string{a, b, a})
	})
	require.NoError(t, err)

	err = f.coord.Atomic(testCtx(), "test", func(r *repo.Repos) error {
		return f.coord.CheckOwnership(testCtx(), r, "owner", []string{a, other})
	})
	require.ErrorIs(t, err, appErr.ErrSerialForeignMarker)

	err = f.coord.Atomic(testCtx(), "test", func(r *repo.Repos) error {
		return f.coord.CheckOwnership(testCtx(), r, "owner", []string{a, "missing"})
	})
	require.ErrorIs(t, err, appErr.ErrInvalidSerial)
}
