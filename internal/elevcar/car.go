package elevcar

import (
	"context"
	"sync"

	"github.com/ypinbong/elevator-simulator/internal/elevclock"
	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevfloor"
	"github.com/ypinbong/elevator-simulator/internal/elevrequest"
	"github.com/ypinbong/elevator-simulator/internal/logger"
)

var Log = logger.GetLogger()

// Observer receives everything a car reports. It is always called without
// the car lock held.
type Observer interface {
	RequestPickedUp(requestID elevrequest.ID, carID, floor int)
	RequestCompleted(requestID elevrequest.ID, carID, floor int)
	CarEvent(event any)
	CarStateChanged(carID int)
}

type NopObserver struct{}

func (NopObserver) RequestPickedUp(elevrequest.ID, int, int)  {}
func (NopObserver) RequestCompleted(elevrequest.ID, int, int) {}
func (NopObserver) CarEvent(any)                              {}
func (NopObserver) CarStateChanged(int)                       {}

type assignment struct {
	requestID    elevrequest.ID
	pickup       int
	direction    elevconsts.Direction
	destinations []int
	pickedUp     bool
}

// Car owns its position, direction, status and stops. Its fields are only
// changed by its own movement loop, except for Assign which the dispatcher
// calls; the mutex serialises the two.
type Car struct {
	mu          sync.Mutex
	id          int
	building    elevfloor.Building
	floor       int
	direction   elevconsts.Direction
	status      elevconsts.CarStatus
	stops       *elevfloor.FloorSet
	assignments []*assignment

	wake     chan struct{}
	clock    elevclock.Clock
	speed    *elevclock.Speed
	observer Observer
}

func NewCar(id int, building elevfloor.Building, initialFloor int, clock elevclock.Clock, speed *elevclock.Speed, observer Observer) *Car {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Car{
		id:        id,
		building:  building,
		floor:     building.Clamp(initialFloor),
		direction: elevconsts.Idle,
		status:    elevconsts.CarIdle,
		stops:     elevfloor.NewFloorSet(building.NumFloors()),
		wake:      make(chan struct{}, 1),
		clock:     clock,
		speed:     speed,
		observer:  observer,
	}
}

func (c *Car) ID() int {
	return c.id
}

func (c *Car) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Car) snapshotLocked() Snapshot {
	requests := make([]elevrequest.ID, 0, len(c.assignments))
	for _, a := range c.assignments {
		requests = append(requests, a.requestID)
	}
	return Snapshot{
		ID:        c.id,
		Floor:     c.floor,
		Direction: c.direction,
		Status:    c.status,
		Stops:     c.stops.Floors(),
		Requests:  requests,
	}
}

// Assign adds the request's pickup floor to the stops if the car is still
// eligible for it. An Idle car starts moving toward the pickup.
func (c *Car) Assign(req elevrequest.Request) bool {
	c.mu.Lock()
	if !c.snapshotLocked().EligibleFor(req.PickupFloor, req.Direction) {
		c.mu.Unlock()
		return false
	}

	c.stops.Add(req.PickupFloor)
	c.assignments = append(c.assignments, &assignment{
		requestID:    req.ID,
		pickup:       req.PickupFloor,
		direction:    req.Direction,
		destinations: append([]int(nil), req.DestinationFloors...),
	})
	if c.status == elevconsts.CarIdle {
		c.status = elevconsts.CarMoving
		c.direction = elevconsts.DirectionTo(c.floor, req.PickupFloor)
		if c.direction == elevconsts.Idle {
			c.direction = req.Direction
		}
	}
	c.mu.Unlock()

	Log.Debug().Msgf("Car %d assigned request %s (pickup %d)", c.id, req.ID, req.PickupFloor)
	c.Wake()
	return true
}

// Wake nudges an idle movement loop. It never blocks.
func (c *Car) Wake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Start launches the movement loop. Delays are taken from the speed setting
// at the start of every tick.
func (c *Car) Start(ctx context.Context, waitGroup *sync.WaitGroup) {
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		for {
			step := c.Advance()
			switch step.Kind {
			case StepIdle:
				select {
				case <-ctx.Done():
					Log.Debug().Msgf("Car %d movement loop has been signaled to stop", c.id)
					return
				case <-c.wake:
				}
			case StepTravel:
				select {
				case <-ctx.Done():
					Log.Warn().Msgf("Car %d stopped between floors %d and %d", c.id, step.Floor, step.Floor+int(step.Direction))
					return
				case <-step.Done:
					c.FinishTravel()
				}
			case StepDwell:
				select {
				case <-ctx.Done():
					Log.Debug().Msgf("Car %d stopped with doors open at %d", c.id, step.Floor)
					return
				case <-step.Done:
					c.CloseDoors()
				}
			}
		}
	}()
}
