package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/trailmark/internal/model"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
)

func stopIDs(stops []model.SerialStop) []string {
	ids := make([]string, 0, len(stops))
	for _, s := range stops {
		ids = append(ids, s.MarkerID)
	}
	return ids
}

func stopSeqs(stops []model.SerialStop) []int {
	seqs := make([]int, 0, len(stops))
	for _, s := range stops {
		seqs = append(seqs, s.Seq)
	}
	return seqs
}

func TestSerialService_EndToEnd(t *testing.T) {
	f := newFixture(t)
	m1 := f.mustMarker(t, "u1", "Peak", "sunny", "hard")
	m2 := f.mustMarker(t, "u1", "Saddle")
	m3 := f.mustMarker(t, "u1", "Hut")

	serial, err := f.serials.Create(testCtx(), "u1", SerialInput{Name: "Loop", Markers: []string{m1, m2, m3}})
	require.NoError(t, err)
	require.Equal(t, DefaultSerialColor, serial.Color)

	detail, err := f.serials.Get(testCtx(), "u1", serial.ID)
	require.NoError(t, err)
	require.Equal(t, "Loop", detail.Name)
	require.Equal(t, []string{m1, m2, m3}, stopIDs(detail.Markers))
	require.Equal(t, []int{1, 2, 3}, stopSeqs(detail.Markers))
	require.Equal(t, "Peak", detail.Markers[0].Title)
	require.InDelta(t, 25.0, detail.Markers[0].Latitude, 1e-9)

	_, err = f.serials.Create(testCtx(), "u1", SerialInput{Name: "Bad", Markers: []string{m1, m1}})
	require.ErrorIs(t, err, appErr.ErrInvalidSerial)

	_, err = f.serials.Update(testCtx(), "u1", serial.ID, SerialInput{Name: "Loop", Markers: []string{m2, m3}})
	require.NoError(t, err)

	detail, err = f.serials.Get(testCtx(), "u1", serial.ID)
	require.NoError(t, err)
	require.Equal(t, []string{m2, m3}, stopIDs(detail.Markers))
	require.Equal(t, []int{1, 2}, stopSeqs(detail.Markers))

	refs, err := f.reads.SerialMembers.CountByMarker(testCtx(), m1)
	require.NoError(t, err)
	require.Equal(t, 0, refs)

	summaries, err := f.serials.List(testCtx(), "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}

func TestSerialService_RejectsShortSerials(t *testing.T) {
	f := newFixture(t)
	m1 := f.mustMarker(t, "u1", "only")

	for _, members := range [][]string{nil, {}, {m1}} {
		_, err := f.serials.Create(testCtx(), "u1", SerialInput{Name: "short", Markers: members})
		require.ErrorIs(t, err, appErr.ErrInvalidSerial)
		require.ErrorIs(t, err, appErr.ErrSerialTooShort)
	}
	items, err := f.serials.List(testCtx(), "u1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSerialService_AdjacencyRules(t *testing.T) {
	f := newFixture(t)
	a := f.mustMarker(t, "u1", "A")
	b := f.mustMarker(t, "u1", "B")
	c := f.mustMarker(t, "u1", "C")

	_, err := f.serials.Create(testCtx(), "u1", SerialInput{Name: "stutter", Markers: []string{a, b, b, c}})
	require.ErrorIs(t, err, appErr.ErrSerialAdjacentDuplicate)

	serial, err := f.serials.Create(testCtx(), "u1", SerialInput{Name: "out and back", Markers: []string{a, b, a}})
	require.NoError(t, err)
	detail, err := f.serials.Get(testCtx(), "u1", serial.ID)
	require.NoError(t, err)
	require.Equal(t, []string{a, b, a}, stopIDs(detail.Markers))

	summaries, err := f.serials.List(testCtx(), "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, 3, summaries[0].MemberCount)
	require.Equal(t, 2, summaries[0].MarkerCount)
}

func TestSerialService_RejectsForeignMarkers(t *testing.T) {
	f := newFixture(t)
	mine := f.mustMarker(t, "u1", "mine")
	theirs := f.mustMarker(t, "u2", "theirs")

	_, err := f.serials.Create(testCtx(), "u1", SerialInput{Name: "mixed", Markers: []string{mine, theirs}})
	require.ErrorIs(t, err, appErr.ErrInvalidSerial)
	_, err = f.serials.Create(testCtx(), "u1", SerialInput{Name: "ghost", Markers: []string{mine, "missing"}})
	require.ErrorIs(t, err, appErr.ErrInvalidSerial)

	items, err := f.serials.List(testCtx(), "u1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSerialService_FailedUpdateKeepsMembers(t *testing.T) {
	f := newFixture(t)
	a := f.mustMarker(t, "u1", "A")
	b := f.mustMarker(t, "u1", "B")
	theirs := f.mustMarker(t, "u2", "theirs")
	serial, err := f.serials.Create(testCtx(), "u1", SerialInput{Name: "keep", Color: "#112233", Markers: []string{a, b}})
	require.NoError(t, err)

	_, err = f.serials.Update(testCtx(), "u1", serial.ID, SerialInput{Name: "renamed", Markers: []string{b, theirs}})
	require.ErrorIs(t, err, appErr.ErrSerialForeignMarker)

	detail, err := f.serials.Get(testCtx(), "u1", serial.ID)
	require.NoError(t, err)
	require.Equal(t, "keep", detail.Name)
	require.Equal(t, "#112233", detail.Color)
	require.Equal(t, []string{a, b}, stopIDs(detail.Markers))
}

func TestSerialService_OwnerScoping(t *testing.T) {
	f := newFixture(t)
	a := f.mustMarker(t, "u1", "A")
	b := f.mustMarker(t, "u1", "B")
	serial, err := f.serials.Create(testCtx(), "u1", SerialInput{Name: "private", Markers: []string{a, b}})
	require.NoError(t, err)

	_, err = f.serials.Get(testCtx(), "u2", serial.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
	_, err = f.serials.Update(testCtx(), "u2", serial.ID, SerialInput{Name: "mine now", Markers: []string{a, b}})
	require.ErrorIs(t, err, appErr.ErrNotFound)
	require.ErrorIs(t, f.serials.Delete(testCtx(), "u2", serial.ID), appErr.ErrNotFound)

	require.NoError(t, f.serials.Delete(testCtx(), "u1", serial.ID))
	_, err = f.serials.Get(testCtx(), "u1", serial.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
	refs, err := f.reads.SerialMembers.CountByMarker(testCtx(), a)
	require.NoError(t, err)
	require.Equal(t, 0, refs)
}

func TestSerialService_Validation(t *testing.T) {
	f := newFixture(t)
	a := f.mustMarker(t, "u1", "A")
	b := f.mustMarker(t, "u1", "B")

	_, err := f.serials.Create(testCtx(), "u1", SerialInput{Name: " ", Markers: []string{a, b}})
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = f.serials.Create(testCtx(), "u1", SerialInput{Name: "x", Color: "blue", Markers: []string{a, b}})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestSerialService_ConcurrentUpdatesDoNotInterleave(t *testing.T) {
	f := newFixture(t)
	ids := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		ids = append(ids, f.mustMarker(t, "u1", fmt.Sprintf("m%d", i)))
	}
	serial, err := f.serials.Create(testCtx(), "u1", SerialInput{Name: "busy", Markers: ids[:2]})
	require.NoError(t, err)

	candidates := [][]string{
		{ids[0], ids[1], ids[2]},
		{ids[3], ids[4]},
		{ids[5], ids[0], ids[5], ids[1]},
		{ids[2], ids[3], ids[4], ids[5], ids[0]},
	}
	var wg sync.WaitGroup
	errs := make([]error, len(candidates))
	for i, members := range candidates {
		wg.Add(1)
		go func(i int, members []string) {
			defer wg.Done()
			_, errs[i] = f.serials.Update(testCtx(), "u1", serial.ID, SerialInput{Name: "busy", Markers: members})
		}(i, members)
	}
	wg.Wait()

	applied := 0
	for _, err := range errs {
		if err == nil {
			applied++
			continue
		}
		require.ErrorIs(t, err, appErr.ErrConflict)
	}
	require.Greater(t, applied, 0)

	detail, err := f.serials.Get(testCtx(), "u1", serial.ID)
	require.NoError(t, err)
	got := stopIDs(detail.Markers)
	require.Contains(t, candidates, got)
	for i, stop := range detail.Markers {
		require.Equal(t, i+1, stop.Seq)
	}
}
