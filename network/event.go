// Package network implements the event-activity network (EAN): the
// time-expanded graph of timed events connected by activities, and the
// mutation primitives the delay manager uses to reshape it in place.
package network

// EventID uniquely identifies an Event within an EAN.
type EventID int

// ActivityID uniquely identifies an Activity within an EAN.
type ActivityID int

// PassengerHandle is the back-reference an Activity keeps to each
// passenger currently traversing it. The network package never depends
// on the passenger package; passenger.Passenger satisfies this interface
// so Activity.LocalPassengers can hold a handle without an import cycle.
type PassengerHandle interface {
	PassengerID() int
}

// Event is a scheduled arrival or departure at a station at a specific
// time. Time may only be mutated through EAN.ReindexEventTime, which keeps
// the (station, time) index consistent with the mutation.
type Event struct {
	ID        EventID
	StationID int
	Time      int
	Weight    float64

	Incoming map[ActivityID]*Activity
	Outgoing map[ActivityID]*Activity
}

func newEvent(id EventID, station, time int, weight float64) *Event {
	return &Event{
		ID:        id,
		StationID: station,
		Time:      time,
		Weight:    weight,
		Incoming:  map[ActivityID]*Activity{},
		Outgoing:  map[ActivityID]*Activity{},
	}
}

// ActivityType is one of drive, wait, change, headway.
type ActivityType int

const (
	Drive ActivityType = iota
	Wait
	Change
	Headway
)

func (t ActivityType) String() string {
	switch t {
	case Drive:
		return "drive"
	case Wait:
		return "wait"
	case Change:
		return "change"
	case Headway:
		return "headway"
	default:
		return "unknown"
	}
}

// ParseActivityType maps the lowercase GIV-style type name to an
// ActivityType. ok is false for anything else.
func ParseActivityType(s string) (ActivityType, bool) {
	switch s {
	case "drive":
		return Drive, true
	case "wait":
		return Wait, true
	case "change":
		return Change, true
	case "headway":
		return Headway, true
	default:
		return 0, false
	}
}

// Activity is an edge of the EAN connecting a source Event to a target
// Event, with a minimum feasible duration (LowerBound).
type Activity struct {
	ID         ActivityID
	Type       ActivityType
	LowerBound int
	Weight     float64
	Source     *Event
	Target     *Event

	// LocalPassengers is the set of passengers currently riding this
	// activity, keyed by passenger id. It is a back-reference only;
	// the passenger collection owns the passengers.
	LocalPassengers map[int]PassengerHandle
}

func newActivity(id ActivityID, typ ActivityType, lowerBound int, weight float64, src, tgt *Event) *Activity {
	return &Activity{
		ID:              id,
		Type:            typ,
		LowerBound:      lowerBound,
		Weight:          weight,
		Source:          src,
		Target:          tgt,
		LocalPassengers: map[int]PassengerHandle{},
	}
}
