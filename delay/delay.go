// Package delay implements propagation of a single delay reveal through
// an event activity network: reindexing the delayed event, absorbing
// slack where the network allows it, and cascading along outgoing
// activities according to a configurable change-activity strategy.
package delay

import (
	"lintim.dev/ptsim/network"
	"lintim.dev/ptsim/simerrors"
)

// StrategyKind selects how a delayed change activity is handled.
type StrategyKind int

const (
	// NoWait always cuts a change activity rather than holding it for a
	// delayed connection.
	NoWait StrategyKind = iota
	// WaitTime holds a change activity only if the propagated delay is
	// within Threshold seconds; otherwise it is cut.
	WaitTime
	// Wait always propagates through a change activity, however long the
	// connection would have to hold.
	Wait
)

// Strategy is the change-activity dispatch policy for a Manager.
type Strategy struct {
	Kind      StrategyKind
	Threshold int // seconds; only meaningful for WaitTime
}

// MessageKind distinguishes a source (externally observed) delay from a
// propagation delay generated while cascading through the network.
type MessageKind int

const (
	Source MessageKind = iota
	Propagation
)

// Message reveals that an event's time must move forward by Delay
// seconds from whatever time it currently holds.
type Message struct {
	Kind    MessageKind
	EventID network.EventID
	Delay   int
}

// DelayMap is the scheduler's table of pending reveals, keyed by the
// reveal time of every source message still outstanding. A Manager
// relocates a message's entry here when propagation moves its event.
type DelayMap map[int][]*Message

// TickScheduler is the narrow callback a Manager uses to register a tick
// at a time it just produced. schedule.Scheduler satisfies this.
type TickScheduler interface {
	ScheduleTick(t int)
}

// Manager propagates delay messages through an EAN under a fixed
// Strategy for change activities.
type Manager struct {
	ean       *network.EAN
	strategy  Strategy
	scheduler TickScheduler

	// ViolatedHeadways counts every headway edge the propagation walk
	// found with negative slack, across every ReceiveDelay call this
	// Manager has processed. The original silently skips these; we tally
	// them since they cost nothing extra to count during the walk the
	// engine already performs, and the original test suite treats
	// headway feasibility as a diagnostic worth reporting.
	ViolatedHeadways int
}

// NewManager builds a Manager bound to ean under strategy. scheduler may
// be nil, in which case reveals are not registered with any scheduler
// (useful in isolated tests of propagation alone).
func NewManager(ean *network.EAN, strategy Strategy, scheduler TickScheduler) *Manager {
	return &Manager{ean: ean, strategy: strategy, scheduler: scheduler}
}

// Result summarizes the outcome of a single top-level reveal: every event
// whose time moved, and every change activity that was cut in response.
type Result struct {
	AffectedEvents map[network.EventID]*network.Event
	CutActivities  []*network.Activity
}

// ReceiveDelay applies msg and cascades the consequences through the
// network. Whenever a propagation message moves an event that still has a
// pending source message in delayMap, that source message is relocated to
// the event's new time. delayMap may be nil if the caller does not track
// pending source reveals (e.g. in isolated tests).
//
// The already-delayed guard that prevents headway-cycle infinite loops
// is scoped to this single call: callers must invoke ReceiveDelay once
// per top-level reveal, never share it across reveals.
func (m *Manager) ReceiveDelay(msg *Message, delayMap DelayMap) (*Result, error) {
	result := &Result{AffectedEvents: map[network.EventID]*network.Event{}}
	alreadyDelayed := map[network.EventID]bool{}
	if err := m.receiveDelay(msg, delayMap, alreadyDelayed, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (m *Manager) receiveDelay(msg *Message, delayMap DelayMap, alreadyDelayed map[network.EventID]bool, result *Result) error {
	e, ok := m.ean.Event(msg.EventID)
	if !ok {
		return simerrors.Newf(simerrors.InvariantViolation, "receiveDelay", "unknown event id %d", msg.EventID)
	}

	t0 := e.Time
	t1 := t0 + msg.Delay
	if err := m.ean.ReindexEventTime(e, t1); err != nil {
		return simerrors.New(simerrors.InvariantViolation, "receiveDelay", err)
	}
	alreadyDelayed[e.ID] = true
	result.AffectedEvents[e.ID] = e
	if m.scheduler != nil {
		m.scheduler.ScheduleTick(t1)
	}

	if msg.Kind == Propagation && delayMap != nil {
		relocateSourceMessage(delayMap, t0, t1, e.ID)
	}

	// Snapshot outgoing activities before dispatch may cut one.
	outgoing := make([]*network.Activity, 0, len(e.Outgoing))
	for _, a := range e.Outgoing {
		outgoing = append(outgoing, a)
	}

	for _, a := range outgoing {
		if alreadyDelayed[a.Target.ID] {
			continue
		}

		slack := a.Target.Time - t0 - a.LowerBound
		if slack < 0 {
			// Violated headway; not our problem to fix here.
			if a.Type == network.Headway {
				m.ViolatedHeadways++
			}
			continue
		}
		propagated := msg.Delay - slack
		if propagated <= 0 {
			// Buffer absorbs the delay.
			continue
		}

		if a.Type == network.Change {
			switch m.strategy.Kind {
			case Wait:
				if err := m.propagate(a, propagated, delayMap, alreadyDelayed, result); err != nil {
					return err
				}
			case WaitTime:
				if propagated <= m.strategy.Threshold {
					if err := m.propagate(a, propagated, delayMap, alreadyDelayed, result); err != nil {
						return err
					}
				} else {
					m.ean.CutChange(a)
					result.CutActivities = append(result.CutActivities, a)
				}
			default: // NoWait
				m.ean.CutChange(a)
				result.CutActivities = append(result.CutActivities, a)
			}
			continue
		}

		if err := m.propagate(a, propagated, delayMap, alreadyDelayed, result); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) propagate(a *network.Activity, amount int, delayMap DelayMap, alreadyDelayed map[network.EventID]bool, result *Result) error {
	return m.receiveDelay(&Message{Kind: Propagation, EventID: a.Target.ID, Delay: amount}, delayMap, alreadyDelayed, result)
}

// relocateSourceMessage moves the first source message for eventID in
// delayMap from oldTime to newTime when a propagation reveal coincides with a still
// outstanding source reveal for the same event, keeping the invariant
// that a source message's key equals its event's current time.
func relocateSourceMessage(delayMap DelayMap, oldTime, newTime int, eventID network.EventID) {
	pending := delayMap[oldTime]
	for i, sm := range pending {
		if sm.EventID != eventID || sm.Kind != Source {
			continue
		}
		delayMap[oldTime] = append(pending[:i], pending[i+1:]...)
		delayMap[newTime] = append(delayMap[newTime], sm)
		return
	}
}
