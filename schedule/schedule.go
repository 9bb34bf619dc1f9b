// Package schedule drives the simulation clock: a strictly ordered,
// idempotent tick loop that applies delay reveals before advancing
// passengers at each tick.
package schedule

import (
	"container/heap"
	"sort"

	"lintim.dev/ptsim/delay"
	"lintim.dev/ptsim/network"
)

// Advancer is the subset of passenger.Passenger the scheduler needs: an
// identity (to satisfy network.PassengerHandle, the type actually stored
// in Activity.LocalPassengers) plus the ability to move to its next
// activity and to reconsider its path after a cascade.
type Advancer interface {
	network.PassengerHandle
	Advance()
	ChooseNewPath(delayedEvents map[network.EventID]*network.Event)
}

type tickHeap []int

func (h tickHeap) Len() int            { return len(h) }
func (h tickHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h tickHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *tickHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *tickHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Scheduler owns the tick queue and the complete passenger roster for one
// simulation rank. It is the one piece of code with a privileged,
// bird's-eye view of both the network and the passengers: the delay
// manager mutates the network, the scheduler decides when passengers
// notice.
type Scheduler struct {
	ean         *network.EAN
	manager     *delay.Manager
	passengers  []Advancer
	delayMap    delay.DelayMap
	stopHorizon int

	pending   tickHeap
	processed map[int]bool

	// OnTick, if set, is invoked with the tick value after ProcessTick
	// finishes handling it (including no-op re-invocations of an
	// already-processed tick). It exists for monitoring-only callers
	// (the root package's per-tick debug logging at debug_level >= 2)
	// and must not mutate scheduler or passenger state.
	OnTick func(t int)
}

// New builds a Scheduler bound to ean and manager, tracking delayMap's
// pending source reveals and running until stopHorizon. Pass manager
// constructed with this Scheduler as its TickScheduler so propagation
// reveals feed back into the tick queue.
func New(ean *network.EAN, manager *delay.Manager, passengers []Advancer, delayMap delay.DelayMap, stopHorizon int) *Scheduler {
	s := &Scheduler{
		ean:         ean,
		manager:     manager,
		passengers:  passengers,
		delayMap:    delayMap,
		stopHorizon: stopHorizon,
		processed:   map[int]bool{},
	}
	heap.Init(&s.pending)
	return s
}

// SetManager binds the Manager that will process reveals for this
// Scheduler. It exists because Manager and Scheduler are mutually
// referential (a Manager needs a TickScheduler to register the ticks its
// own propagation produces, and a Scheduler needs a Manager to process
// reveals): callers construct the Scheduler first with a nil manager,
// build the Manager against the Scheduler as its TickScheduler, then
// bind it here before calling Seed/Run.
func (s *Scheduler) SetManager(m *delay.Manager) {
	s.manager = m
}

// ScheduleTick registers t as a tick to process. Satisfies
// delay.TickScheduler. Safe to call with times already processed or
// already pending; duplicates cost a little heap churn, not correctness.
func (s *Scheduler) ScheduleTick(t int) {
	heap.Push(&s.pending, t)
}

// Seed registers the initial tick set: every event's starting time, every
// outstanding source reveal's time, and stopHorizon-1 for evaluation.
func (s *Scheduler) Seed() {
	for _, e := range s.ean.Events() {
		s.ScheduleTick(e.Time)
	}
	for t := range s.delayMap {
		s.ScheduleTick(t)
	}
	s.ScheduleTick(s.stopHorizon - 1)
}

// Run processes ticks in strictly non-decreasing order until the current
// tick reaches stopHorizon or the queue drains.
func (s *Scheduler) Run() error {
	current := 0
	for s.pending.Len() > 0 {
		t := heap.Pop(&s.pending).(int)
		if err := s.ProcessTick(t); err != nil {
			return err
		}
		current = t
		if current >= s.stopHorizon {
			break
		}
	}
	return nil
}

// ProcessTick runs reveals, then passenger reroute, then passenger
// advancement for tick T. Re-invoking it for an already-processed tick is
// a no-op.
func (s *Scheduler) ProcessTick(T int) error {
	if s.processed[T] {
		if s.OnTick != nil {
			s.OnTick(T)
		}
		return nil
	}

	if msgs, ok := s.delayMap[T]; ok {
		// Snapshot: receive_delay may relocate entries into delayMap[T]
		// for ticks other than T via propagation, but never back into
		// this slice mid-iteration since relocation always targets a
		// strictly later time.
		pending := append([]*delay.Message(nil), msgs...)
		sort.Slice(pending, func(i, j int) bool { return pending[i].EventID < pending[j].EventID })
		for _, msg := range pending {
			res, err := s.manager.ReceiveDelay(msg, s.delayMap)
			if err != nil {
				return err
			}
			for _, p := range s.passengers {
				p.ChooseNewPath(res.AffectedEvents)
			}
		}
		delete(s.delayMap, T)
	}

	for _, e := range s.ean.Events() {
		if e.Time != T {
			continue
		}
		for _, a := range e.Incoming {
			if a.Type == network.Headway {
				continue
			}
			snapshot := make([]Advancer, 0, len(a.LocalPassengers))
			for _, ph := range a.LocalPassengers {
				if adv, ok := ph.(Advancer); ok {
					snapshot = append(snapshot, adv)
				}
			}
			for _, adv := range snapshot {
				adv.Advance()
			}
		}
	}

	s.processed[T] = true
	if s.OnTick != nil {
		s.OnTick(T)
	}
	return nil
}
