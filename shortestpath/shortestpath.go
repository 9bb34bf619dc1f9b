// Package shortestpath computes earliest-arrival routes through an event
// activity network using a label-setting Dijkstra search over events,
// excluding headway activities (they express a minimum separation
// between trips, not a passenger-traversable edge).
package shortestpath

import (
	"container/heap"

	"lintim.dev/ptsim/network"
	"lintim.dev/ptsim/path"
	"lintim.dev/ptsim/simerrors"
)

// frontierItem is one entry of the search frontier: an event reached via
// arrivalActivity, ordered by the event's fixed time with id as a
// deterministic tie-breaker.
type frontierItem struct {
	event            *network.Event
	arrivalActivity  *network.Activity
	index            int
}

type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].event.Time != f[j].event.Time {
		return f[i].event.Time < f[j].event.Time
	}
	return f[i].event.ID < f[j].event.ID
}
func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index, f[j].index = i, j
}
func (f *frontier) Push(x interface{}) {
	item := x.(*frontierItem)
	item.index = len(*f)
	*f = append(*f, item)
}
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

// ShortestEarliestArrival searches forward from source for the
// earliest-time event at targetStationID, reachable via any activity
// except Headway. On success it returns the Path of activities from
// source to that event. If the frontier drains without reaching the
// target station, it returns Unreachable.
func ShortestEarliestArrival(source *network.Event, targetStationID int) (*path.Path, error) {
	visited := map[network.EventID]bool{}
	predecessor := map[network.EventID]*network.Activity{}

	f := &frontier{}
	heap.Init(f)
	heap.Push(f, &frontierItem{event: source})

	var target *network.Event
	for f.Len() > 0 {
		item := heap.Pop(f).(*frontierItem)
		e := item.event
		if visited[e.ID] {
			continue
		}
		visited[e.ID] = true
		if item.arrivalActivity != nil {
			predecessor[e.ID] = item.arrivalActivity
		}

		if e.StationID == targetStationID {
			target = e
			break
		}

		for _, a := range e.Outgoing {
			if a.Type == network.Headway {
				continue
			}
			if visited[a.Target.ID] {
				continue
			}
			heap.Push(f, &frontierItem{event: a.Target, arrivalActivity: a})
		}
	}

	if target == nil {
		return nil, simerrors.Newf(simerrors.Unreachable, "ShortestEarliestArrival", "no path from event %d to station %d", source.ID, targetStationID)
	}

	var activities []*network.Activity
	for e := target; e.ID != source.ID; {
		a, ok := predecessor[e.ID]
		if !ok {
			return nil, simerrors.Newf(simerrors.InvariantViolation, "ShortestEarliestArrival", "event %d reached with no recorded predecessor", e.ID)
		}
		activities = append([]*network.Activity{a}, activities...)
		e = a.Source
	}
	if len(activities) == 0 {
		return nil, simerrors.Newf(simerrors.InvalidPath, "ShortestEarliestArrival", "source event %d already at target station %d", source.ID, targetStationID)
	}

	return path.New(activities, 0), nil
}
