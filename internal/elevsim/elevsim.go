package elevsim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/ypinbong/elevator-simulator/internal/elevcar"
	"github.com/ypinbong/elevator-simulator/internal/elevclock"
	"github.com/ypinbong/elevator-simulator/internal/elevconfig"
	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevdispatch"
	"github.com/ypinbong/elevator-simulator/internal/elevevent"
	"github.com/ypinbong/elevator-simulator/internal/elevfloor"
	"github.com/ypinbong/elevator-simulator/internal/elevrequest"
	"github.com/ypinbong/elevator-simulator/internal/logger"
)

var Log = logger.GetLogger()

var (
	ErrAlreadyRunning = errors.New("simulation already running")
	ErrNotRunning     = errors.New("simulation not running")
)

// Simulation is the in-process engine a UI drives: it owns the building, the
// request queue, one movement loop per car and the dispatcher loop.
type Simulation struct {
	config     elevconfig.Config
	building   elevfloor.Building
	clock      elevclock.Clock
	speed      *elevclock.Speed
	queue      *elevrequest.Queue
	cars       []*elevcar.Car
	dispatcher *elevdispatch.Dispatcher
	bus        *elevevent.Bus

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	waitGroup *sync.WaitGroup
}

func New(config elevconfig.Config, clock elevclock.Clock) (*Simulation, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = elevclock.NewRealClock()
	}

	building, err := elevfloor.NewBuilding(config.Floors)
	if err != nil {
		return nil, err
	}
	speed, err := elevclock.NewSpeed(config.Timing())
	if err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Simulation{
		config:   config,
		building: building,
		clock:    clock,
		speed:    speed,
		queue:    elevrequest.NewQueue(building, rand.New(rand.NewSource(rng.Int63())), config.MaxGeneratedDestinations),
		bus:      elevevent.NewBus(config.EventBufferSize),
	}

	observer := carObserver{sim: s}
	dispatchCars := make([]elevdispatch.Car, 0, config.Cars)
	for i := 0; i < config.Cars; i++ {
		floor := elevfloor.BottomFloor + rng.Intn(config.Floors)
		if config.InitialFloors != nil {
			floor = config.InitialFloors[i]
		}
		car := elevcar.NewCar(i+1, building, floor, clock, speed, observer)
		s.cars = append(s.cars, car)
		dispatchCars = append(dispatchCars, car)
	}
	s.dispatcher = elevdispatch.NewDispatcher(dispatchCars, s.queue, s.onAssign)

	Log.Info().Msgf("Simulation created: %d floors, %d cars, travel %v, door %v (seed %d)",
		config.Floors, config.Cars, config.TravelDuration, config.DoorOpenDuration, seed)
	return s, nil
}

func (s *Simulation) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		Log.Error().Msg("Simulation already running")
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	waitGroup := &sync.WaitGroup{}
	s.dispatcher.Start(ctx, waitGroup)
	for _, car := range s.cars {
		car.Start(ctx, waitGroup)
	}

	s.cancel = cancel
	s.waitGroup = waitGroup
	s.running = true
	s.dispatcher.Trigger()
	Log.Info().Msg("Simulation started")
	return nil
}

// Stop cancels every loop and waits for them to return.
func (s *Simulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		Log.Error().Msg("Simulation not running, so cannot stop it")
		return ErrNotRunning
	}

	Log.Debug().Msg("Stopping simulation")
	s.cancel()
	s.waitGroup.Wait()
	s.running = false
	Log.Debug().Msg("Stopped simulation")
	return nil
}

// SubmitRequest queues a pickup. A nil destinations slice lets the queue pick
// plausible destinations.
func (s *Simulation) SubmitRequest(pickupFloor int, direction elevconsts.Direction, destinations []int) (elevrequest.ID, error) {
	req, err := s.queue.Submit(pickupFloor, direction, destinations)
	if err != nil {
		Log.Warn().Msgf("Rejected request at floor %d going %s: %v", pickupFloor, direction, err)
		return "", err
	}
	s.queued(req)
	return req.ID, nil
}

// GenerateRandomRequest queues a random request unless the configured number
// of requests is already active.
func (s *Simulation) GenerateRandomRequest() (elevrequest.ID, error) {
	req, err := s.queue.SubmitRandom(s.config.MaxPendingRequests)
	if err != nil {
		Log.Debug().Msgf("Not generating a request: %v", err)
		return "", err
	}
	s.queued(req)
	return req.ID, nil
}

func (s *Simulation) queued(req elevrequest.Request) {
	Log.Info().Msgf("Request %s queued: floor %d %s to %v", req.ID, req.PickupFloor, req.Direction, req.DestinationFloors)
	s.bus.Publish(elevevent.RequestQueuedEvent{RequestID: string(req.ID), Floor: req.PickupFloor, Direction: req.Direction})
	s.dispatcher.Trigger()
}

// SetOperationSpeed changes the travel and door delays. Cars pick the new
// values up at their next tick.
func (s *Simulation) SetOperationSpeed(travelMs, doorMs int) error {
	if err := s.speed.SetMillis(travelMs, doorMs); err != nil {
		Log.Warn().Msgf("Rejected operation speed %dms/%dms: %v", travelMs, doorMs, err)
		return err
	}
	Log.Info().Msgf("Operation speed set to travel %dms, door %dms", travelMs, doorMs)
	return nil
}

// ScaleSpeed multiplies both delays by factor and returns the result.
func (s *Simulation) ScaleSpeed(factor float64) elevclock.Timing {
	timing := s.speed.Scale(factor)
	Log.Info().Msgf("Operation speed set to travel %v, door %v", timing.Travel, timing.Door)
	return timing
}

func (s *Simulation) OperationSpeed() elevclock.Timing {
	return s.speed.Timing()
}

func (s *Simulation) ListCars() []elevcar.Snapshot {
	cars := make([]elevcar.Snapshot, 0, len(s.cars))
	for _, car := range s.cars {
		cars = append(cars, car.Snapshot())
	}
	return cars
}

func (s *Simulation) ListRequests() []elevrequest.Request {
	return s.queue.List()
}

func (s *Simulation) ListFloors() []int {
	return s.building.Floors()
}

func (s *Simulation) Building() elevfloor.Building {
	return s.building
}

func (s *Simulation) Events() <-chan elevevent.SimEvent {
	return s.bus.Events()
}

func (s *Simulation) DroppedEvents() uint64 {
	return s.bus.Dropped()
}

func (s *Simulation) onAssign(req elevrequest.Request, carID int) {
	s.bus.Publish(elevevent.RequestAssignedEvent{RequestID: string(req.ID), CarID: carID})
}

// carObserver keeps the queue in step with what the cars report and turns
// car state changes into dispatch passes.
type carObserver struct {
	sim *Simulation
}

func (o carObserver) RequestPickedUp(id elevrequest.ID, carID, floor int) {
	if err := o.sim.queue.MarkPickedUp(id); err != nil {
		Log.Error().Msgf("Error marking request %s picked up by car %d: %v", id, carID, err)
		return
	}
	o.sim.bus.Publish(elevevent.RequestPickedUpEvent{RequestID: string(id), CarID: carID, Floor: floor})
}

func (o carObserver) RequestCompleted(id elevrequest.ID, carID, floor int) {
	if err := o.sim.queue.MarkCompleted(id); err != nil {
		Log.Error().Msgf("Error marking request %s completed by car %d: %v", id, carID, err)
		return
	}
	o.sim.queue.Remove(id)
	o.sim.bus.Publish(elevevent.RequestCompletedEvent{RequestID: string(id), CarID: carID, Floor: floor})
}

func (o carObserver) CarEvent(event any) {
	o.sim.bus.Publish(event)
}

func (o carObserver) CarStateChanged(int) {
	o.sim.dispatcher.Trigger()
}
