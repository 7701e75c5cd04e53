package elevdispatch

import (
	"context"
	"sync"

	"github.com/ypinbong/elevator-simulator/internal/elevcar"
	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevrequest"
	"github.com/ypinbong/elevator-simulator/internal/logger"
)

var Log = logger.GetLogger()

// MAX_ASSIGN_ATTEMPTS bounds how often one request is retried in a pass
// when the chosen car changes state between snapshot and assignment.
const MAX_ASSIGN_ATTEMPTS = 3

type Car interface {
	ID() int
	Snapshot() elevcar.Snapshot
	Assign(req elevrequest.Request) bool
}

type Queue interface {
	Pending() []elevrequest.Request
	MarkProcessing(id elevrequest.ID, carID int) error
	Unassign(id elevrequest.ID) error
}

// AssignFunc is told about every successful assignment.
type AssignFunc func(req elevrequest.Request, carID int)

// FindCandidate picks the car that should serve a pickup at floor going dir.
// A car already at the floor wins; otherwise the nearest eligible car, with
// ties going to the car listed first.
func FindCandidate(cars []elevcar.Snapshot, floor int, dir elevconsts.Direction) (int, bool) {
	bestID, bestDistance, found := 0, 0, false
	for _, car := range cars {
		if !car.EligibleFor(floor, dir) {
			continue
		}
		if car.Floor == floor {
			return car.ID, true
		}
		distance := abs(car.Floor - floor)
		if !found || distance < bestDistance {
			bestID, bestDistance, found = car.ID, distance, true
		}
	}
	return bestID, found
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

type Dispatcher struct {
	mu       sync.Mutex
	cars     []Car
	queue    Queue
	onAssign AssignFunc
	trigger  chan struct{}
}

// NewDispatcher takes the cars in id order; FindCandidate breaks distance
// ties by that order.
func NewDispatcher(cars []Car, queue Queue, onAssign AssignFunc) *Dispatcher {
	if onAssign == nil {
		onAssign = func(elevrequest.Request, int) {}
	}
	return &Dispatcher{
		cars:     cars,
		queue:    queue,
		onAssign: onAssign,
		trigger:  make(chan struct{}, 1),
	}
}

func (d *Dispatcher) snapshots() []elevcar.Snapshot {
	snaps := make([]elevcar.Snapshot, 0, len(d.cars))
	for _, car := range d.cars {
		snaps = append(snaps, car.Snapshot())
	}
	return snaps
}

func (d *Dispatcher) carByID(id int) Car {
	for _, car := range d.cars {
		if car.ID() == id {
			return car
		}
	}
	return nil
}

// FindCandidate runs the selection against the cars' current state.
func (d *Dispatcher) FindCandidate(floor int, dir elevconsts.Direction) (int, bool) {
	return FindCandidate(d.snapshots(), floor, dir)
}

// Dispatch makes one pass over the pending requests in FIFO order and hands
// each one with an eligible car to that car. Requests without a car stay
// pending until the next pass. Returns the number of assignments made.
func (d *Dispatcher) Dispatch() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	assigned := 0
	for _, req := range d.queue.Pending() {
		carID, ok := d.assign(req)
		if !ok {
			Log.Debug().Msgf("No eligible car for request %s, leaving it pending", req.ID)
			continue
		}
		req.Status = elevconsts.Processing
		req.CarID = carID
		assigned++
		Log.Info().Msgf("Request %s (floor %d %s) assigned to car %d", req.ID, req.PickupFloor, req.Direction, carID)
		d.onAssign(req, carID)
	}
	return assigned
}

// assign marks the request Processing before handing it to the car, so the
// car can never report a pickup for a request the queue still sees as
// Pending.
func (d *Dispatcher) assign(req elevrequest.Request) (int, bool) {
	for attempt := 0; attempt < MAX_ASSIGN_ATTEMPTS; attempt++ {
		carID, ok := d.FindCandidate(req.PickupFloor, req.Direction)
		if !ok {
			return 0, false
		}
		car := d.carByID(carID)
		if car == nil {
			Log.Error().Msgf("Candidate car %d is not managed by the dispatcher", carID)
			return 0, false
		}
		if err := d.queue.MarkProcessing(req.ID, carID); err != nil {
			Log.Error().Msgf("Error marking request %s processing: %v", req.ID, err)
			return 0, false
		}
		if car.Assign(req) {
			return carID, true
		}
		if err := d.queue.Unassign(req.ID); err != nil {
			Log.Error().Msgf("Error returning request %s to pending: %v", req.ID, err)
			return 0, false
		}
		Log.Debug().Msgf("Car %d changed state before taking request %s, retrying", carID, req.ID)
	}
	return 0, false
}

// Trigger asks the running loop for another pass. Triggers arriving while a
// pass is queued are coalesced.
func (d *Dispatcher) Trigger() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) Start(ctx context.Context, waitGroup *sync.WaitGroup) {
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		for {
			select {
			case <-ctx.Done():
				Log.Debug().Msg("Dispatcher has been signaled to stop")
				return
			case <-d.trigger:
				d.Dispatch()
			}
		}
	}()
}
