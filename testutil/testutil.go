// Package testutil builds small, literal scenarios for tests across the
// module, mirroring spec.md section 8's worked examples so the same
// fixtures can be reused wherever a test needs a ready-wired EAN instead
// of constructing one field by field.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lintim.dev/ptsim/network"
)

// SimplePropagation builds worked example 1: three events on a straight
// line, e1(s=1,t=0) --drive(lb=90)--> e2(s=2,t=100) --drive(lb=90)-->
// e3(s=3,t=200), with no change or headway activities.
func SimplePropagation(t testing.TB) (*network.EAN, *network.Event, *network.Event, *network.Event, *network.Activity, *network.Activity) {
	t.Helper()
	n := network.New()
	e1, err := n.NewEvent(1, 1, 0, 0)
	require.NoError(t, err)
	e2, err := n.NewEvent(2, 2, 100, 0)
	require.NoError(t, err)
	e3, err := n.NewEvent(3, 3, 200, 0)
	require.NoError(t, err)
	a1, err := n.NewActivity(1, network.Drive, 90, 0, e1, e2)
	require.NoError(t, err)
	a2, err := n.NewActivity(2, network.Drive, 90, 0, e2, e3)
	require.NoError(t, err)
	return n, e1, e2, e3, a1, a2
}

// ChangeScenario builds worked examples 3/4: a drive into a station
// followed by a change activity into a connecting line. The change
// activity's LowerBound is 5, the value examples 3 and 4 use.
//
//	e1(s=1,t=0) --drive(lb=90)--> e2(s=2,t=100) --change(lb=5)--> e3(s=2,t=110) --drive(lb=90)--> e4(s=3,t=200)
func ChangeScenario(t testing.TB) (ean *network.EAN, e1, e2, e3, e4 *network.Event, driveIn, change, driveOut *network.Activity) {
	t.Helper()
	n := network.New()
	e1, err := n.NewEvent(1, 1, 0, 0)
	require.NoError(t, err)
	e2, err = n.NewEvent(2, 2, 100, 0)
	require.NoError(t, err)
	e3, err = n.NewEvent(3, 2, 110, 0)
	require.NoError(t, err)
	e4, err = n.NewEvent(4, 3, 200, 0)
	require.NoError(t, err)
	driveIn, err = n.NewActivity(1, network.Drive, 90, 0, e1, e2)
	require.NoError(t, err)
	change, err = n.NewActivity(2, network.Change, 5, 0, e2, e3)
	require.NoError(t, err)
	driveOut, err = n.NewActivity(3, network.Drive, 90, 0, e3, e4)
	require.NoError(t, err)
	return n, e1, e2, e3, e4, driveIn, change, driveOut
}

// HeadwayCycle builds worked example 2: two same-station events linked
// by a headway activity in both directions, used to exercise the
// already-delayed cascade guard.
//
//	e1(s=1,t=50) <--headway(lb=5)--> e2(s=1,t=60)
func HeadwayCycle(t testing.TB) (ean *network.EAN, e1, e2 *network.Event, forward, backward *network.Activity) {
	t.Helper()
	n := network.New()
	e1, err := n.NewEvent(1, 1, 50, 0)
	require.NoError(t, err)
	e2, err = n.NewEvent(2, 1, 60, 0)
	require.NoError(t, err)
	forward, err = n.NewActivity(1, network.Headway, 5, 0, e1, e2)
	require.NoError(t, err)
	backward, err = n.NewActivity(2, network.Headway, 5, 0, e2, e1)
	require.NoError(t, err)
	return n, e1, e2, forward, backward
}
