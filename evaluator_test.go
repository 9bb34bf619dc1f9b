package ptsim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintim.dev/ptsim/config"
	"lintim.dev/ptsim/parse"
)

func TestEvaluateSumsTravelTimeAndCountsStranded(t *testing.T) {
	cfg := &config.Config{
		StopAt:                500,
		DelayStrategy:         config.NoWaitCode,
		OfflinePassengerShare: 1.0,
		DataFolderLocation:    "testdata",
	}

	sim, err := Build(strandingScenario(), cfg)
	require.NoError(t, err)
	require.NoError(t, sim.Run())

	ev := Evaluate(sim)
	assert.Equal(t, 1, ev.StrandedCount)
	assert.Equal(t, 0, ev.TotalTravelTime)
}

func TestEvaluateSumsTravelTimeForCompletedPassenger(t *testing.T) {
	cfg := &config.Config{StopAt: 500, DelayStrategy: config.WaitCode, DataFolderLocation: "testdata"}

	sim, err := Build(simplePropagationScenario(), cfg)
	require.NoError(t, err)
	require.NoError(t, sim.Run())

	ev := Evaluate(sim)
	assert.Equal(t, 0, ev.StrandedCount)
	assert.Equal(t, 220, ev.TotalTravelTime)
}

// TestEvaluateCountsViolatedHeadways wires a source delay through a
// dedicated feeder activity onto a headway edge whose target is already
// tighter than its lower bound (a malformed-but-possible feed, same
// shape as delay.TestViolatedHeadwayIsSkippedNotPropagated), so
// propagation finds it violated and counts it without cascading further.
func TestEvaluateCountsViolatedHeadways(t *testing.T) {
	cfg := &config.Config{StopAt: 200, DelayStrategy: config.WaitCode, DataFolderLocation: "testdata"}

	scenario := simplePropagationScenario()
	scenario.Events = append(scenario.Events,
		parse.RawEvent{ID: 9, Kind: "arrival", Time: -10, StationID: 99},
		parse.RawEvent{ID: 10, Kind: "arrival", Time: 0, StationID: 50},
		parse.RawEvent{ID: 11, Kind: "arrival", Time: 3, StationID: 50},
	)
	scenario.Activities = append(scenario.Activities,
		parse.RawActivity{ID: 9, Type: "drive", TailEventID: 9, HeadEventID: 10, LowerBound: 0},
		parse.RawActivity{ID: 10, Type: "headway", TailEventID: 10, HeadEventID: 11, LowerBound: 5},
	)
	scenario.Delays = append(scenario.Delays, parse.DelayEntry{ActivityID: 9, DelaySeconds: 1})

	sim, err := Build(scenario, cfg)
	require.NoError(t, err)
	require.NoError(t, sim.Run())

	ev := Evaluate(sim)
	assert.Equal(t, 1, ev.ViolatedHeadways)
}

func TestWriteResultRowFormatsColumnsInOrder(t *testing.T) {
	cfg := &config.Config{
		StopAt:             3600,
		DelayStrategy:      config.WaitTimeCode,
		DebugLevel:         1,
		DataFolderLocation: "/data/scenario",
	}
	ev := &Evaluator{TotalTravelTime: 1234, StrandedCount: 2}

	var buf strings.Builder
	require.NoError(t, ev.WriteResultRow(&buf, cfg))

	assert.Equal(t, "3600;/data/scenario;1;1;1234;2\n", buf.String())
}
