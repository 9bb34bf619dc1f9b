// Package distribution defines the narrow contract for a multi-worker
// driver: a passenger iterator local to one rank, and a sync barrier for
// use between tick handlers. Only a single-rank, in-process
// implementation is provided here. Neither interface is wired into the
// tick loop: schedule.Scheduler walks its own passenger slice and calls
// no barrier between ticks.
package distribution

import (
	"context"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lintim.dev/ptsim/passenger"
)

// PassengerIterator yields the passengers local to one rank.
type PassengerIterator interface {
	Iterate(ctx context.Context) <-chan *passenger.Passenger
}

// SyncBarrier blocks until every rank has reached the same point in the
// tick loop, so that event-time mutations applied on one rank are
// visible to every other rank before the next tick's passenger
// advancement.
type SyncBarrier interface {
	Wait(ctx context.Context) error
}

// Envelope identifies a passenger crossing between ranks. Only its shape
// is defined here: a real remote distribution would serialize a
// passenger's Path and Persona alongside this envelope and ship it over
// whatever transport that implementation chooses.
type Envelope struct {
	ID          uuid.UUID
	PassengerID int
	Rank        int
}

// NewEnvelope stamps a fresh envelope for passengerID departing rank.
func NewEnvelope(passengerID, rank int) Envelope {
	return Envelope{ID: uuid.New(), PassengerID: passengerID, Rank: rank}
}

// LocalDistribution is the single-rank PassengerIterator and SyncBarrier:
// every passenger is local, and the barrier is trivially satisfied since
// there is nothing else to wait on.
type LocalDistribution struct {
	passengers []*passenger.Passenger

	// Method records the configured distribution_method (spec.md
	// section 6: 0 first-OD-first-rank, 1 greedy-by-weight-round-robin).
	// A single rank has nothing to distribute, so it never changes
	// Iterate's behavior; it is carried only so a caller can log which
	// selection a multi-rank driver would have honored.
	Method int
}

// NewLocal builds a LocalDistribution owning every passenger (there is
// only one rank, so "local" means "all of them"), with the default
// distribution method.
func NewLocal(passengers []*passenger.Passenger) *LocalDistribution {
	return NewLocalWithMethod(passengers, 0)
}

// NewLocalWithMethod is NewLocal, recording the configured
// distribution_method alongside the passenger roster.
func NewLocalWithMethod(passengers []*passenger.Passenger, method int) *LocalDistribution {
	return &LocalDistribution{passengers: passengers, Method: method}
}

// Iterate streams every passenger over a channel, respecting ctx
// cancellation via channerics.OrDone so a caller that abandons the
// iteration mid-stream doesn't leak the feeding goroutine.
func (l *LocalDistribution) Iterate(ctx context.Context) <-chan *passenger.Passenger {
	raw := make(chan *passenger.Passenger)
	go func() {
		defer close(raw)
		for _, p := range l.passengers {
			select {
			case raw <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return channerics.OrDone(ctx.Done(), raw)
}

// Wait is a no-op for a single rank: there is no other rank's mutation
// to wait for. It still runs through an errgroup so the method has the
// same failure shape a real cross-rank barrier would (a cancellable,
// joinable wait), rather than unconditionally returning nil.
func (l *LocalDistribution) Wait(ctx context.Context) error {
	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error { return ctx.Err() })
	if err := group.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
