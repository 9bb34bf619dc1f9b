package network

import "lintim.dev/ptsim/simerrors"

type stationTime struct {
	station int
	time    int
}

type endpointPair struct {
	src EventID
	tgt EventID
}

// EAN owns every Event and Activity in the network, plus the two indexes
// the rest of the simulation relies on: (station, time) -> Event and
// (source id, target id) -> Activity. It is the only thing allowed to
// mutate an Event's Time.
type EAN struct {
	events     map[EventID]*Event
	activities map[ActivityID]*Activity

	byStationTime map[stationTime]*Event
	byEndpoints   map[endpointPair]*Activity

	nextActivityID ActivityID
}

// New builds an empty EAN.
func New() *EAN {
	return &EAN{
		events:        map[EventID]*Event{},
		activities:    map[ActivityID]*Activity{},
		byStationTime: map[stationTime]*Event{},
		byEndpoints:   map[endpointPair]*Activity{},
	}
}

// AddEvent registers a newly constructed Event. It fails if the id is
// already taken or if an event already occupies the same (station, time).
func (n *EAN) AddEvent(e *Event) error {
	if _, exists := n.events[e.ID]; exists {
		return simerrors.Newf(simerrors.InvalidInputFile, "AddEvent", "duplicate event id %d", e.ID)
	}
	key := stationTime{e.StationID, e.Time}
	if _, exists := n.byStationTime[key]; exists {
		return simerrors.Newf(simerrors.InvalidInputFile, "AddEvent", "duplicate (station,time) (%d,%d)", e.StationID, e.Time)
	}
	n.events[e.ID] = e
	n.byStationTime[key] = e
	return nil
}

// NewEvent constructs and registers an Event in one step.
func (n *EAN) NewEvent(id EventID, station, time int, weight float64) (*Event, error) {
	e := newEvent(id, station, time, weight)
	if err := n.AddEvent(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddActivity wires a, including it into both endpoints' adjacency sets
// and the endpoint-pair index. It fails if an activity already connects
// the same ordered pair of events, or if the id is already taken.
func (n *EAN) AddActivity(a *Activity) error {
	if _, exists := n.activities[a.ID]; exists {
		return simerrors.Newf(simerrors.InvalidInputFile, "AddActivity", "duplicate activity id %d", a.ID)
	}
	key := endpointPair{a.Source.ID, a.Target.ID}
	if _, exists := n.byEndpoints[key]; exists {
		return simerrors.Newf(simerrors.InvalidInputFile, "AddActivity", "activity already connects %d->%d", a.Source.ID, a.Target.ID)
	}
	n.activities[a.ID] = a
	n.byEndpoints[key] = a
	a.Source.Outgoing[a.ID] = a
	a.Target.Incoming[a.ID] = a
	if a.ID >= n.nextActivityID {
		n.nextActivityID = a.ID + 1
	}
	return nil
}

// NewActivity constructs and registers an Activity in one step.
func (n *EAN) NewActivity(id ActivityID, typ ActivityType, lowerBound int, weight float64, src, tgt *Event) (*Activity, error) {
	a := newActivity(id, typ, lowerBound, weight, src, tgt)
	if err := n.AddActivity(a); err != nil {
		return nil, err
	}
	return a, nil
}

// AllocateActivityID returns a fresh activity id not yet used in this
// EAN, for on-demand materialization (e.g. a missing wait edge).
func (n *EAN) AllocateActivityID() ActivityID {
	id := n.nextActivityID
	n.nextActivityID++
	return id
}

// CutChange removes a from its source's outgoing set and its target's
// incoming set. The Activity itself remains addressable by id (paths
// that already committed to it keep a valid reference) but is no longer
// reachable via adjacency. Idempotent.
func (n *EAN) CutChange(a *Activity) {
	delete(a.Source.Outgoing, a.ID)
	delete(a.Target.Incoming, a.ID)
}

// ReindexEventTime is the only permitted mutator of Event.Time. It
// updates the (station, time) index atomically with the change.
func (n *EAN) ReindexEventTime(e *Event, newTime int) error {
	oldKey := stationTime{e.StationID, e.Time}
	if existing, ok := n.byStationTime[oldKey]; !ok || existing != e {
		return simerrors.Newf(simerrors.InvariantViolation, "ReindexEventTime", "event %d missing from station/time index at (%d,%d)", e.ID, e.StationID, e.Time)
	}
	newKey := stationTime{e.StationID, newTime}
	delete(n.byStationTime, oldKey)
	e.Time = newTime
	n.byStationTime[newKey] = e
	return nil
}

// LookupEventByStationTime returns the event at (station, time), if any.
func (n *EAN) LookupEventByStationTime(station, time int) (*Event, bool) {
	e, ok := n.byStationTime[stationTime{station, time}]
	return e, ok
}

// LookupActivityByEndpoints returns the activity connecting srcID to
// tgtID, if any. Required by path materialization of missing waits.
func (n *EAN) LookupActivityByEndpoints(srcID, tgtID EventID) (*Activity, bool) {
	a, ok := n.byEndpoints[endpointPair{srcID, tgtID}]
	return a, ok
}

// Event returns the event with the given id, if any.
func (n *EAN) Event(id EventID) (*Event, bool) {
	e, ok := n.events[id]
	return e, ok
}

// Activity returns the activity with the given id, if any.
func (n *EAN) Activity(id ActivityID) (*Activity, bool) {
	a, ok := n.activities[id]
	return a, ok
}

// Events returns every event in the network. Order is unspecified.
func (n *EAN) Events() []*Event {
	out := make([]*Event, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e)
	}
	return out
}

// Activities returns every activity in the network, including cut
// changes. Order is unspecified.
func (n *EAN) Activities() []*Activity {
	out := make([]*Activity, 0, len(n.activities))
	for _, a := range n.activities {
		out = append(out, a)
	}
	return out
}

// CheckInvariants validates the two structural invariants from spec.md
// section 8: every activity appears in its source's outgoing set iff it
// appears in its target's incoming set (for activities still wired into
// the network's indexes), and the (station,time) index agrees with every
// event's current time.
func (n *EAN) CheckInvariants() error {
	for _, a := range n.activities {
		_, inOut := a.Source.Outgoing[a.ID]
		_, inIn := a.Target.Incoming[a.ID]
		if inOut != inIn {
			return simerrors.Newf(simerrors.InvariantViolation, "CheckInvariants", "activity %d present in exactly one of source.Outgoing/target.Incoming", a.ID)
		}
	}
	for _, e := range n.events {
		found, ok := n.LookupEventByStationTime(e.StationID, e.Time)
		if !ok || found != e {
			return simerrors.Newf(simerrors.InvariantViolation, "CheckInvariants", "event %d not indexed at its own (station,time)", e.ID)
		}
	}
	return nil
}
