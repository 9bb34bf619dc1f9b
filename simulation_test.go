package ptsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintim.dev/ptsim/config"
	"lintim.dev/ptsim/parse"
	"lintim.dev/ptsim/passenger"
	"lintim.dev/ptsim/storage"
)

// simplePropagationScenario mirrors testutil.SimplePropagation (spec.md
// section 8, worked example 1) expressed as raw parse records, the shape
// Build actually consumes.
func simplePropagationScenario() *storage.Scenario {
	return &storage.Scenario{
		Events: []parse.RawEvent{
			{ID: 1, Kind: "departure", Time: 0, StationID: 1},
			{ID: 2, Kind: "arrival", Time: 100, StationID: 2},
			{ID: 3, Kind: "arrival", Time: 200, StationID: 3},
		},
		Activities: []parse.RawActivity{
			{ID: 1, Type: "drive", TailEventID: 1, HeadEventID: 2, LowerBound: 90},
			{ID: 2, Type: "drive", TailEventID: 2, HeadEventID: 3, LowerBound: 90},
		},
		OD: []parse.ODEntry{
			{Origin: 1, Destination: 3, Passengers: 1},
		},
		Delays: []parse.DelayEntry{
			{ActivityID: 1, DelaySeconds: 30},
		},
	}
}

func TestBuildAndRunReproducesWorkedExampleOne(t *testing.T) {
	cfg := &config.Config{
		StopAt:             500,
		DelayStrategy:      config.WaitCode,
		DataFolderLocation: "testdata",
	}

	sim, err := Build(simplePropagationScenario(), cfg)
	require.NoError(t, err)
	require.Len(t, sim.Passengers, 1)

	require.NoError(t, sim.Run())

	p := sim.Passengers[0]
	require.True(t, p.Path.OnLast())
	assert.False(t, p.Stranded)
	assert.Equal(t, 220, p.Path.ArrivalTime())
	assert.Equal(t, 0, p.Path.DepartureTime())

	e2, ok := sim.EAN.LookupEventByStationTime(2, 130)
	require.True(t, ok)
	assert.Equal(t, 130, e2.Time)
	e3, ok := sim.EAN.LookupEventByStationTime(3, 220)
	require.True(t, ok)
	assert.Equal(t, 220, e3.Time)
}

func TestBuildSkipsPassengersWithNoDepartureAtOrigin(t *testing.T) {
	scenario := simplePropagationScenario()
	scenario.OD = append(scenario.OD, parse.ODEntry{Origin: 99, Destination: 3, Passengers: 5})

	cfg := &config.Config{StopAt: 500, DelayStrategy: config.WaitCode, DataFolderLocation: "testdata"}
	sim, err := Build(scenario, cfg)
	require.NoError(t, err)
	assert.Len(t, sim.Passengers, 1)
}

func TestBuildRejectsUnknownActivityType(t *testing.T) {
	scenario := simplePropagationScenario()
	scenario.Activities[0].Type = "teleport"

	cfg := &config.Config{StopAt: 500, DelayStrategy: config.WaitCode, DataFolderLocation: "testdata"}
	_, err := Build(scenario, cfg)
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrInvalidInputFile))
}

func TestBuildOfflineShareOneAssignsEveryoneOffline(t *testing.T) {
	scenario := simplePropagationScenario()
	scenario.OD[0].Passengers = 4

	cfg := &config.Config{
		StopAt:                500,
		DelayStrategy:         config.WaitCode,
		OfflinePassengerShare: 1.0,
		DataFolderLocation:    "testdata",
	}
	sim, err := Build(scenario, cfg)
	require.NoError(t, err)
	require.Len(t, sim.Passengers, 4)
	for _, p := range sim.Passengers {
		assert.Equal(t, passenger.Offline, p.Persona)
	}
}

// strandingScenario is worked example 3 (NO_WAIT cuts the only change a
// passenger relies on, with no alternate route).
func strandingScenario() *storage.Scenario {
	return &storage.Scenario{
		Events: []parse.RawEvent{
			{ID: 1, Kind: "departure", Time: 0, StationID: 1},
			{ID: 2, Kind: "arrival", Time: 100, StationID: 2},
			{ID: 3, Kind: "departure", Time: 110, StationID: 2},
			{ID: 4, Kind: "arrival", Time: 200, StationID: 3},
		},
		Activities: []parse.RawActivity{
			{ID: 1, Type: "drive", TailEventID: 1, HeadEventID: 2, LowerBound: 90},
			{ID: 2, Type: "change", TailEventID: 2, HeadEventID: 3, LowerBound: 5},
			{ID: 3, Type: "drive", TailEventID: 3, HeadEventID: 4, LowerBound: 90},
		},
		OD: []parse.ODEntry{
			{Origin: 1, Destination: 3, Passengers: 1},
		},
		Delays: []parse.DelayEntry{
			{ActivityID: 1, DelaySeconds: 20},
		},
	}
}

func TestNoWaitStrategyStrandsPassengerWithNoAlternateRoute(t *testing.T) {
	cfg := &config.Config{
		StopAt:                500,
		DelayStrategy:         config.NoWaitCode,
		OfflinePassengerShare: 1.0,
		DataFolderLocation:    "testdata",
	}
	sim, err := Build(strandingScenario(), cfg)
	require.NoError(t, err)
	require.Len(t, sim.Passengers, 1)
	require.NoError(t, sim.Run())

	assert.True(t, sim.Passengers[0].Stranded)

	ev := Evaluate(sim)
	assert.Equal(t, 1, ev.StrandedCount)
	assert.Equal(t, 0, ev.TotalTravelTime)
}
