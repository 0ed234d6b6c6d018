package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/trailmark/internal/db"
	"github.com/xxxsen/trailmark/internal/repo"
	"github.com/xxxsen/trailmark/internal/testutil"
)

type fixture struct {
	db      *db.DB
	reads   *repo.Repos
	coord   *Coordinator
	tags    *TagRegistry
	markers *MarkerService
	serials *SerialService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.OpenTestDB(t)
	reads := repo.New(conn.Executor())
	coord := NewCoordinator(conn)
	tags, err := NewTagRegistry(reads, 64)
	require.NoError(t, err)
	return &fixture{
		db:      conn,
		reads:   reads,
		coord:   coord,
		tags:    tags,
		markers: NewMarkerService(reads, coord, tags),
		serials: NewSerialService(reads, coord),
	}
}

func ptr(v float64) *float64 {
	return &v
}

func (f *fixture) mustMarker(t *testing.T, userID, title string, tags ...string) string {
	t.Helper()
	m, err := f.markers.Create(testCtx(), userID, MarkerInput{
		Title:     title,
		Latitude:  ptr(25.0),
		Longitude: ptr(121.5),
		Tags:      tags,
	})
	require.NoError(t, err)
	return m.ID
}
