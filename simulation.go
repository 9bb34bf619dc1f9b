// Package ptsim wires the event-activity network, delay manager,
// passenger controller, and tick scheduler from spec.md's component
// design into one runnable simulation, and evaluates its outcome into
// the aggregate metrics section 4.7 defines.
package ptsim

import (
	"math/rand"
	"sort"

	"lintim.dev/ptsim/config"
	"lintim.dev/ptsim/delay"
	"lintim.dev/ptsim/distribution"
	"lintim.dev/ptsim/network"
	"lintim.dev/ptsim/parse"
	"lintim.dev/ptsim/passenger"
	"lintim.dev/ptsim/schedule"
	"lintim.dev/ptsim/shortestpath"
	"lintim.dev/ptsim/simerrors"
	"lintim.dev/ptsim/storage"
)

// Simulation is a fully wired, not-yet-run instance of one scenario
// under one configuration: the network every component shares, the
// manager and scheduler driving it, and the passenger roster the
// evaluator will score once Run returns.
type Simulation struct {
	Config       *config.Config
	EAN          *network.EAN
	Manager      *delay.Manager
	Scheduler    *schedule.Scheduler
	Passengers   []*passenger.Passenger
	Distribution *distribution.LocalDistribution
	DelayMap     delay.DelayMap
}

// Build constructs a Simulation from a parsed Scenario and Config: it
// loads every event and activity into an EAN, assigns passengers to OD
// entries by computing an initial shortest path from each origin's
// earliest departure event, merges the delay file into the scheduler's
// delay map, and wires the Manager and Scheduler together.
//
// Initial passenger assignment (OD-to-path construction, offline/online
// persona draw) is the distillation's "OD-to-rank passenger distribution
// heuristics" external collaborator (spec.md section 1); this is a
// minimal in-core stand-in sufficient to produce a runnable scenario, not
// a faithful reimplementation of that collaborator's own heuristics.
func Build(scenario *storage.Scenario, cfg *config.Config) (*Simulation, error) {
	ean := network.New()

	for _, re := range scenario.Events {
		if _, err := ean.NewEvent(network.EventID(re.ID), re.StationID, re.Time, re.Weight); err != nil {
			return nil, simerrors.New(simerrors.InvalidInputFile, "Build", err)
		}
	}

	departuresByStation := map[int][]*network.Event{}
	for _, re := range scenario.Events {
		if re.Kind != "departure" {
			continue
		}
		e, ok := ean.Event(network.EventID(re.ID))
		if !ok {
			continue
		}
		departuresByStation[re.StationID] = append(departuresByStation[re.StationID], e)
	}
	for station := range departuresByStation {
		events := departuresByStation[station]
		sort.Slice(events, func(i, j int) bool {
			if events[i].Time != events[j].Time {
				return events[i].Time < events[j].Time
			}
			return events[i].ID < events[j].ID
		})
	}

	activityTargetEventID := map[int]int{}
	for _, ra := range scenario.Activities {
		typ, ok := network.ParseActivityType(ra.Type)
		if !ok {
			return nil, simerrors.Newf(simerrors.InvalidInputFile, "Build", "unknown activity type %q", ra.Type)
		}
		src, ok := ean.Event(network.EventID(ra.TailEventID))
		if !ok {
			return nil, simerrors.Newf(simerrors.InvalidInputFile, "Build", "activity %d references unknown tail event %d", ra.ID, ra.TailEventID)
		}
		tgt, ok := ean.Event(network.EventID(ra.HeadEventID))
		if !ok {
			return nil, simerrors.Newf(simerrors.InvalidInputFile, "Build", "activity %d references unknown head event %d", ra.ID, ra.HeadEventID)
		}
		if _, err := ean.NewActivity(network.ActivityID(ra.ID), typ, ra.LowerBound, ra.Weight, src, tgt); err != nil {
			return nil, simerrors.New(simerrors.InvalidInputFile, "Build", err)
		}
		activityTargetEventID[ra.ID] = ra.HeadEventID
	}

	delayMap := delay.DelayMap{}
	merged := parse.MergeDelaysByTargetEvent(scenario.Delays, activityTargetEventID)
	mergedEventIDs := make([]int, 0, len(merged))
	for eventID := range merged {
		mergedEventIDs = append(mergedEventIDs, eventID)
	}
	sort.Ints(mergedEventIDs)
	for _, eventID := range mergedEventIDs {
		e, ok := ean.Event(network.EventID(eventID))
		if !ok {
			continue
		}
		msg := &delay.Message{Kind: delay.Source, EventID: e.ID, Delay: merged[eventID]}
		delayMap[e.Time] = append(delayMap[e.Time], msg)
	}

	rng := rand.New(rand.NewSource(cfg.RandomSeed))
	passengers := make([]*passenger.Passenger, 0, len(scenario.OD))
	nextID := 1
	for _, od := range scenario.OD {
		if od.Passengers <= 0 {
			continue
		}
		origins := departuresByStation[od.Origin]
		if len(origins) == 0 {
			debugf(cfg.DebugLevel, 1, "ptsim: no departure event at station %d, skipping %d passengers bound for %d\n", od.Origin, od.Passengers, od.Destination)
			continue
		}
		originEvent := origins[0]

		for i := 0; i < od.Passengers; i++ {
			initial, err := shortestpath.ShortestEarliestArrival(originEvent, od.Destination)
			if err != nil {
				debugf(cfg.DebugLevel, 1, "ptsim: no initial path from station %d to %d, one fewer passenger assigned\n", od.Origin, od.Destination)
				continue
			}
			persona := passenger.Online
			if rng.Float64() < cfg.OfflinePassengerShare {
				persona = passenger.Offline
			}
			p := passenger.New(nextID, initial, od.Destination, persona)
			nextID++
			p.CurrentActivity().LocalPassengers[p.ID] = p
			passengers = append(passengers, p)
		}
	}

	advancers := make([]schedule.Advancer, len(passengers))
	for i, p := range passengers {
		advancers[i] = p
	}

	sched := schedule.New(ean, nil, advancers, delayMap, cfg.StopAt)
	manager := delay.NewManager(ean, cfg.DelayManagerStrategy(), sched)
	sched.SetManager(manager)
	sched.Seed()

	debugf(cfg.DebugLevel, 1, "ptsim: distribution_method %d selected (single rank, informational only)\n", cfg.DistributionMethod)
	dist := distribution.NewLocalWithMethod(passengers, cfg.DistributionMethod)

	return &Simulation{
		Config:       cfg,
		EAN:          ean,
		Manager:      manager,
		Scheduler:    sched,
		Passengers:   passengers,
		Distribution: dist,
		DelayMap:     delayMap,
	}, nil
}

// Run drives the tick scheduler to its stop horizon. At debug_level >= 2
// it installs a per-tick monitoring hook that dumps the running
// stranded and total passenger counts, mirroring PTSimulationModel.cpp's
// printMonitoringResults.
func (s *Simulation) Run() error {
	debugf(s.Config.DebugLevel, 1, "ptsim: running %d passengers to stop_at=%d under strategy %v\n",
		len(s.Passengers), s.Config.StopAt, s.Config.DelayStrategy)

	if s.Config.DebugLevel >= 2 {
		s.Scheduler.OnTick = func(t int) {
			stranded := 0
			for _, p := range s.Passengers {
				if p.Stranded {
					stranded++
				}
			}
			debugf(s.Config.DebugLevel, 2, "ptsim: tick %d: %d/%d stranded\n", t, stranded, len(s.Passengers))
		}
	}

	return s.Scheduler.Run()
}
