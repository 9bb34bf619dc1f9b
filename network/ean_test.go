package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLine(t *testing.T) (*EAN, *Event, *Event, *Event, *Activity, *Activity) {
	t.Helper()
	n := New()
	e1, err := n.NewEvent(1, 1, 0, 0)
	require.NoError(t, err)
	e2, err := n.NewEvent(2, 2, 100, 0)
	require.NoError(t, err)
	e3, err := n.NewEvent(3, 3, 200, 0)
	require.NoError(t, err)
	a1, err := n.NewActivity(1, Drive, 90, 0, e1, e2)
	require.NoError(t, err)
	a2, err := n.NewActivity(2, Drive, 90, 0, e2, e3)
	require.NoError(t, err)
	return n, e1, e2, e3, a1, a2
}

func TestAddActivityWiresBothEndpoints(t *testing.T) {
	n, e1, e2, _, a1, _ := buildLine(t)
	assert.Equal(t, a1, e1.Outgoing[a1.ID])
	assert.Equal(t, a1, e2.Incoming[a1.ID])
	require.NoError(t, n.CheckInvariants())
}

func TestAddActivityRejectsDuplicateEndpoints(t *testing.T) {
	n, e1, e2, _, _, _ := buildLine(t)
	_, err := n.NewActivity(99, Drive, 0, 0, e1, e2)
	require.Error(t, err)
}

func TestAddEventRejectsDuplicateStationTime(t *testing.T) {
	n := New()
	_, err := n.NewEvent(1, 1, 100, 0)
	require.NoError(t, err)
	_, err = n.NewEvent(2, 1, 100, 0)
	require.Error(t, err)
}

func TestCutChangeIsIdempotent(t *testing.T) {
	n, e1, e2, _, a1, _ := buildLine(t)
	n.CutChange(a1)
	assert.NotContains(t, e1.Outgoing, a1.ID)
	assert.NotContains(t, e2.Incoming, a1.ID)
	require.NoError(t, n.CheckInvariants())

	// Idempotent: cutting again does not panic or change state.
	n.CutChange(a1)
	assert.NotContains(t, e1.Outgoing, a1.ID)

	// The activity is still addressable by id, just unreachable.
	got, ok := n.Activity(a1.ID)
	assert.True(t, ok)
	assert.Equal(t, a1, got)
}

func TestReindexEventTimeUpdatesIndex(t *testing.T) {
	n, _, e2, _, _, _ := buildLine(t)
	require.NoError(t, n.ReindexEventTime(e2, 130))
	assert.Equal(t, 130, e2.Time)

	_, foundOld := n.LookupEventByStationTime(2, 100)
	assert.False(t, foundOld)

	foundNew, ok := n.LookupEventByStationTime(2, 130)
	require.True(t, ok)
	assert.Equal(t, e2, foundNew)
}

func TestLookupActivityByEndpoints(t *testing.T) {
	n, e1, e2, _, a1, _ := buildLine(t)
	got, ok := n.LookupActivityByEndpoints(e1.ID, e2.ID)
	require.True(t, ok)
	assert.Equal(t, a1, got)

	_, ok = n.LookupActivityByEndpoints(e2.ID, e1.ID)
	assert.False(t, ok)
}

func TestAllocateActivityIDNeverCollides(t *testing.T) {
	n, e1, e2, _, _, _ := buildLine(t)
	id := n.AllocateActivityID()
	_, err := n.NewActivity(id, Wait, 0, 0, e1, e2)
	// endpoints already connected by a1, so this specific call fails,
	// but the id itself must not collide with an existing activity id.
	require.Error(t, err)
	assert.NotEqual(t, ActivityID(1), id)
	assert.NotEqual(t, ActivityID(2), id)
}

func TestParseActivityType(t *testing.T) {
	cases := map[string]ActivityType{"drive": Drive, "wait": Wait, "change": Change, "headway": Headway}
	for s, want := range cases {
		got, ok := ParseActivityType(s)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := ParseActivityType("bogus")
	assert.False(t, ok)
}
