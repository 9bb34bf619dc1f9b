// Package passenger models an individual traveler moving along a path
// through the network, advancing activity by activity and rerouting when
// a delay invalidates the remainder of its plan.
package passenger

import (
	"lintim.dev/ptsim/network"
	"lintim.dev/ptsim/path"
	"lintim.dev/ptsim/shortestpath"
)

// Persona controls how aggressively a passenger reroutes in response to
// delays elsewhere in the network.
type Persona int

const (
	// Offline passengers only reroute when a change activity they rely
	// on is actually cut.
	Offline Persona = iota
	// Online passengers reroute as soon as any event ahead of them on
	// their remaining path, other than its final event, is delayed, even
	// if their connections hold.
	Online
)

// Passenger is a single traveler with an origin-determined plan and a
// fixed destination station.
type Passenger struct {
	ID              int
	Path            *path.Path
	TargetStationID int
	Stranded        bool
	Persona         Persona
}

// New builds a Passenger following p from p's CurrentIndex.
func New(id int, p *path.Path, targetStationID int, persona Persona) *Passenger {
	return &Passenger{ID: id, Path: p, TargetStationID: targetStationID, Persona: persona}
}

// PassengerID satisfies network.PassengerHandle.
func (p *Passenger) PassengerID() int { return p.ID }

// CurrentActivity returns the activity the passenger currently occupies.
func (p *Passenger) CurrentActivity() *network.Activity {
	return p.Path.Current()
}

// Advance moves a non-stranded passenger onto the next activity of its
// path, removing it from the current activity's local roster and adding
// it to the next one's. A stranded passenger, or one already on its
// final activity, does not move.
func (p *Passenger) Advance() {
	if p.Stranded {
		return
	}
	delete(p.CurrentActivity().LocalPassengers, p.ID)
	if !p.Path.OnLast() {
		next := p.Path.Next()
		next.LocalPassengers[p.ID] = p
	}
}

// ChooseNewPath inspects the remainder of the passenger's path for a
// condition that invalidates it and, if found, reroutes from the
// endpoint of the passenger's current activity to TargetStationID.
//
// Offline passengers only reroute when a change activity on the
// remaining path has actually been cut (no longer reachable from its
// source). Online passengers reroute as soon as the target event of any
// activity on the remaining path appears in delayedEvents, whether or not
// their own connections still hold. The remaining path runs from the
// current activity up to, but not including, the final activity: a cut
// or a delay on the final activity alone never triggers a reroute.
//
// If rerouting finds no path, the passenger is marked Stranded rather
// than returning an error: running out of a path is an expected outcome
// of the simulation, not a bug.
func (p *Passenger) ChooseNewPath(delayedEvents map[network.EventID]*network.Event) {
	if p.Stranded {
		return
	}

	activities := p.Path.Activities
	for i := p.Path.CurrentIndex; i < len(activities)-1; i++ {
		a := activities[i]

		triggered := false
		switch p.Persona {
		case Offline:
			if a.Type == network.Change {
				if _, stillWired := a.Source.Outgoing[a.ID]; !stillWired {
					triggered = true
				}
			}
		case Online:
			if _, delayed := delayedEvents[a.Target.ID]; delayed {
				triggered = true
			}
		}

		if !triggered {
			continue
		}

		newPath, err := shortestpath.ShortestEarliestArrival(p.CurrentActivity().Target, p.TargetStationID)
		if err != nil {
			p.Stranded = true
			return
		}
		p.Path.SpliceTail(newPath)
		return
	}
}
