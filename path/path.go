// Package path implements a passenger's travel plan: an ordered sequence
// of activities with a current position, plus construction from a list
// of event ids (materializing missing wait edges on demand).
package path

import (
	"lintim.dev/ptsim/network"
	"lintim.dev/ptsim/simerrors"
)

// Path is an ordered activity sequence with a current position. The
// passenger riding it is presumed to occupy Activities[CurrentIndex].
type Path struct {
	Activities   []*network.Activity
	CurrentIndex int
}

// New builds a Path from a fully-formed activity sequence. current is
// the index of the activity the passenger currently occupies.
func New(activities []*network.Activity, current int) *Path {
	return &Path{Activities: activities, CurrentIndex: current}
}

// FromEventIDs walks consecutive pairs of eventIDs, looking up the
// connecting activity in ean. If no activity connects a pair but both
// events share a station and are strictly time-increasing, a new wait
// activity is materialized and inserted into ean. Any other lookup
// failure returns InvalidPath.
func FromEventIDs(ean *network.EAN, eventIDs []network.EventID) (*Path, error) {
	if len(eventIDs) < 2 {
		return nil, simerrors.Newf(simerrors.InvalidPath, "FromEventIDs", "need at least 2 events, got %d", len(eventIDs))
	}

	activities := make([]*network.Activity, 0, len(eventIDs)-1)
	for i := 0; i+1 < len(eventIDs); i++ {
		srcID, tgtID := eventIDs[i], eventIDs[i+1]

		if a, ok := ean.LookupActivityByEndpoints(srcID, tgtID); ok {
			activities = append(activities, a)
			continue
		}

		src, ok := ean.Event(srcID)
		if !ok {
			return nil, simerrors.Newf(simerrors.InvalidPath, "FromEventIDs", "unknown event id %d", srcID)
		}
		tgt, ok := ean.Event(tgtID)
		if !ok {
			return nil, simerrors.Newf(simerrors.InvalidPath, "FromEventIDs", "unknown event id %d", tgtID)
		}

		if src.StationID != tgt.StationID || src.Time >= tgt.Time {
			return nil, simerrors.Newf(simerrors.InvalidPath, "FromEventIDs",
				"no activity %d->%d and endpoints are not a materializable wait (station %d vs %d, time %d vs %d)",
				srcID, tgtID, src.StationID, tgt.StationID, src.Time, tgt.Time)
		}

		id := ean.AllocateActivityID()
		a, err := ean.NewActivity(id, network.Wait, 0, 0, src, tgt)
		if err != nil {
			return nil, simerrors.New(simerrors.InvalidPath, "FromEventIDs", err)
		}
		activities = append(activities, a)
	}

	return New(activities, 0), nil
}

// Events returns the event sequence implied by Activities: the source of
// the first activity, then the target of every activity in order.
func (p *Path) Events() []*network.Event {
	events := make([]*network.Event, 0, len(p.Activities)+1)
	events = append(events, p.Activities[0].Source)
	for _, a := range p.Activities {
		events = append(events, a.Target)
	}
	return events
}

// First returns the first activity of the path.
func (p *Path) First() *network.Activity {
	return p.Activities[0]
}

// Current returns the activity the passenger currently occupies.
func (p *Path) Current() *network.Activity {
	return p.Activities[p.CurrentIndex]
}

// OnLast reports whether the current position is the final activity.
func (p *Path) OnLast() bool {
	return p.CurrentIndex == len(p.Activities)-1
}

// Next advances the current position and returns the new current
// activity. Callers must check OnLast first; advancing past the last
// activity is a caller bug, not a recoverable condition.
func (p *Path) Next() *network.Activity {
	p.CurrentIndex++
	return p.Activities[p.CurrentIndex]
}

// Prepend adds a to the front of the path, shifting CurrentIndex to keep
// pointing at the same activity.
func (p *Path) Prepend(a *network.Activity) {
	p.Activities = append([]*network.Activity{a}, p.Activities...)
	p.CurrentIndex++
}

// Append adds a to the end of the path.
func (p *Path) Append(a *network.Activity) {
	p.Activities = append(p.Activities, a)
}

// HasAny reports whether any event in the path's event sequence is a
// member of events.
func (p *Path) HasAny(events map[network.EventID]*network.Event) bool {
	for _, e := range p.Events() {
		if _, ok := events[e.ID]; ok {
			return true
		}
	}
	return false
}

// SpliceTail replaces the subpath strictly after CurrentIndex with the
// activities of suffix. suffix's first activity is expected to share its
// source with the current activity's target (the reroute computed a new
// path starting where the passenger now stands).
func (p *Path) SpliceTail(suffix *Path) {
	p.Activities = append(p.Activities[:p.CurrentIndex+1], suffix.Activities...)
}

// ArrivalTime is the time of the final event on the path.
func (p *Path) ArrivalTime() int {
	return p.Activities[len(p.Activities)-1].Target.Time
}

// DepartureTime is the time of the first event on the path.
func (p *Path) DepartureTime() int {
	return p.Activities[0].Source.Time
}
