package passenger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintim.dev/ptsim/network"
	"lintim.dev/ptsim/path"
)

func buildChangeScenario(t *testing.T) (*network.EAN, *network.Activity, *network.Activity, *network.Event) {
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
	a2, err := n.NewActivity(2, network.Change, 30, 0, e2, e3)
	require.NoError(t, err)
	// Alternate, slower route in case the direct change is cut.
	e4, err := n.NewEvent(4, 3, 400, 0)
	require.NoError(t, err)
	_, err = n.NewActivity(3, network.Drive, 300, 0, e2, e4)
	require.NoError(t, err)
	return n, a1, a2, e2
}

func TestAdvanceMovesLocalPassengerRoster(t *testing.T) {
	_, a1, a2, _ := buildChangeScenario(t)
	p := New(1, path.New([]*network.Activity{a1, a2}, 0), 3, Offline)
	a1.LocalPassengers[p.ID] = p

	p.Advance()
	assert.NotContains(t, a1.LocalPassengers, p.ID)
	assert.Contains(t, a2.LocalPassengers, p.ID)
	assert.Equal(t, 1, p.Path.CurrentIndex)
}

func TestAdvanceOnLastActivityLeavesRosterWithoutMoving(t *testing.T) {
	_, a1, a2, _ := buildChangeScenario(t)
	p := New(1, path.New([]*network.Activity{a1, a2}, 1), 3, Offline)
	a2.LocalPassengers[p.ID] = p

	p.Advance()
	assert.Equal(t, 1, p.Path.CurrentIndex)
	assert.NotContains(t, a2.LocalPassengers, p.ID)
}

func TestStrandedPassengerDoesNotAdvance(t *testing.T) {
	_, a1, a2, _ := buildChangeScenario(t)
	p := New(1, path.New([]*network.Activity{a1, a2}, 0), 3, Offline)
	p.Stranded = true

	p.Advance()
	assert.Equal(t, 0, p.Path.CurrentIndex)
}

func TestOfflinePassengerIgnoresUnaffectedDelay(t *testing.T) {
	n, a1, a2, e2 := buildChangeScenario(t)
	p := New(1, path.New([]*network.Activity{a1, a2}, 0), 3, Offline)

	p.ChooseNewPath(map[network.EventID]*network.Event{e2.ID: e2})
	assert.False(t, p.Stranded)
	assert.Equal(t, a2, p.Path.Activities[1])
	_ = n
}

func TestOfflinePassengerReroutesWhenChangeIsCut(t *testing.T) {
	n, a1, a2, _ := buildChangeScenario(t)
	// ChooseNewPath never inspects the final activity, so the change is
	// followed by a wait at the destination station.
	e5, err := n.NewEvent(5, 3, 250, 0)
	require.NoError(t, err)
	wait, err := n.NewActivity(4, network.Wait, 0, 0, a2.Target, e5)
	require.NoError(t, err)
	p := New(1, path.New([]*network.Activity{a1, a2, wait}, 0), 3, Offline)

	n.CutChange(a2)
	p.ChooseNewPath(nil)

	require.False(t, p.Stranded)
	require.Len(t, p.Path.Activities, 2)
	assert.Equal(t, a1, p.Path.Activities[0])
	assert.NotEqual(t, a2, p.Path.Activities[1])
	assert.Equal(t, 400, p.Path.ArrivalTime())
}

func TestOnlinePassengerReroutesOnAnyDelayedEventAhead(t *testing.T) {
	n, a1, a2, e2 := buildChangeScenario(t)
	p := New(1, path.New([]*network.Activity{a1, a2}, 0), 3, Online)

	// e2 still reachable via a2, but online persona reroutes on any
	// delayed event ahead regardless of whether connections still hold.
	p.ChooseNewPath(map[network.EventID]*network.Event{e2.ID: e2})

	require.False(t, p.Stranded)
	assert.Equal(t, a1, p.Path.Activities[0])
	_ = n
}

func TestRerouteStrandsWhenNoPathExists(t *testing.T) {
	n := network.New()
	e1, err := n.NewEvent(1, 1, 0, 0)
	require.NoError(t, err)
	e2, err := n.NewEvent(2, 2, 100, 0)
	require.NoError(t, err)
	a1, err := n.NewActivity(1, network.Change, 30, 0, e1, e2)
	require.NoError(t, err)
	// ChooseNewPath never inspects the final activity, so the change is
	// followed by a drive that does not reach station 99.
	e3, err := n.NewEvent(3, 3, 200, 0)
	require.NoError(t, err)
	a2, err := n.NewActivity(2, network.Drive, 90, 0, e2, e3)
	require.NoError(t, err)

	p := New(1, path.New([]*network.Activity{a1, a2}, 0), 99, Offline)
	n.CutChange(a1)
	p.ChooseNewPath(nil)

	assert.True(t, p.Stranded)
}
