package elevrequest

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/tiendc/go-deepcopy"
	"github.com/xyproto/randomstring"
	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevfloor"
	"github.com/ypinbong/elevator-simulator/internal/logger"
)

var Log = logger.GetLogger()

const ID_SUFFIX_LEN = 4

// Queue holds every request that has not completed yet, in submission order.
// All methods are safe for concurrent use.
type Queue struct {
	mu              sync.Mutex
	building        elevfloor.Building
	requests        []*Request
	seq             uint64
	rng             *rand.Rand
	maxDestinations int
}

func NewQueue(building elevfloor.Building, rng *rand.Rand, maxDestinations int) *Queue {
	if maxDestinations < 1 {
		maxDestinations = 1
	}
	return &Queue{
		building:        building,
		rng:             rng,
		maxDestinations: maxDestinations,
	}
}

// Submit validates and appends a new Pending request. A nil destinations
// slice asks the queue to generate destinations; an empty non-nil slice is
// rejected.
func (q *Queue) Submit(pickupFloor int, direction elevconsts.Direction, destinations []int) (Request, error) {
	if err := q.building.Check(pickupFloor); err != nil {
		return Request{}, fmt.Errorf("pickup: %w", err)
	}
	if !direction.IsTravel() {
		return Request{}, fmt.Errorf("%w: got %s", ErrInvalidDirection, direction)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	var dests []int
	if destinations == nil {
		dests = q.generateDestinations(pickupFloor, direction)
	} else {
		var err error
		dests, err = q.normaliseDestinations(pickupFloor, direction, destinations)
		if err != nil {
			return Request{}, err
		}
	}

	return q.appendLocked(pickupFloor, direction, dests)
}

// appendLocked queues a request only if it passes Validate.
func (q *Queue) appendLocked(pickupFloor int, direction elevconsts.Direction, dests []int) (Request, error) {
	req := &Request{
		PickupFloor:       pickupFloor,
		DestinationFloors: dests,
		Direction:         direction,
		Status:            elevconsts.Pending,
	}
	if err := req.Validate(q.building); err != nil {
		Log.Error().Msgf("Refusing to queue request at floor %d going %s to %v: %v", pickupFloor, direction, dests, err)
		return Request{}, err
	}
	q.seq++
	req.ID = ID(fmt.Sprintf("r%d-%s", q.seq, randomstring.EnglishFrequencyString(ID_SUFFIX_LEN)))
	q.requests = append(q.requests, req)
	Log.Debug().Msgf("Queued request %v", req)
	return clone(req), nil
}

func (q *Queue) normaliseDestinations(pickupFloor int, direction elevconsts.Direction, destinations []int) ([]int, error) {
	if len(destinations) == 0 {
		return nil, ErrNoDestinations
	}
	seen := make(map[int]bool, len(destinations))
	dests := make([]int, 0, len(destinations))
	for _, dest := range destinations {
		if err := q.building.Check(dest); err != nil {
			return nil, fmt.Errorf("destination: %w", err)
		}
		if elevconsts.DirectionTo(pickupFloor, dest) != direction {
			return nil, fmt.Errorf("%w: %d is not %s of %d", ErrInvalidDestination, dest, direction, pickupFloor)
		}
		if !seen[dest] {
			seen[dest] = true
			dests = append(dests, dest)
		}
	}
	sortInDirection(dests, direction)
	return dests, nil
}

// generateDestinations picks up to maxDestinations distinct floors strictly
// in the travel direction. With no floor that way it falls back to the
// adjacent floor in the opposite direction.
func (q *Queue) generateDestinations(pickupFloor int, direction elevconsts.Direction) []int {
	var candidates []int
	for f := pickupFloor + int(direction); q.building.Contains(f); f += int(direction) {
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		fallback := q.building.Clamp(pickupFloor - int(direction))
		Log.Debug().Msgf("No floor %s of %d, falling back to %d", direction, pickupFloor, fallback)
		return []int{fallback}
	}

	count := 1 + q.rng.Intn(min(q.maxDestinations, len(candidates)))
	dests := make([]int, 0, count)
	for _, i := range q.rng.Perm(len(candidates))[:count] {
		dests = append(dests, candidates[i])
	}
	sortInDirection(dests, direction)
	return dests
}

func sortInDirection(floors []int, direction elevconsts.Direction) {
	if direction == elevconsts.Down {
		sort.Sort(sort.Reverse(sort.IntSlice(floors)))
		return
	}
	sort.Ints(floors)
}

// NextPending returns the earliest Pending request.
func (q *Queue) NextPending() (Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, req := range q.requests {
		if req.Status == elevconsts.Pending {
			return clone(req), true
		}
	}
	return Request{}, false
}

// Pending returns all Pending requests in FIFO order.
func (q *Queue) Pending() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	var pending []Request
	for _, req := range q.requests {
		if req.Status == elevconsts.Pending {
			pending = append(pending, clone(req))
		}
	}
	return pending
}

func (q *Queue) Get(id ID) (Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if req := q.findLocked(id); req != nil {
		return clone(req), true
	}
	return Request{}, false
}

// List returns a point-in-time copy of the queue.
func (q *Queue) List() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	list := make([]Request, 0, len(q.requests))
	for _, req := range q.requests {
		list = append(list, clone(req))
	}
	return list
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests)
}

// hasActiveAtLocked reports whether a queued request picks up at floor.
func (q *Queue) hasActiveAtLocked(floor int) bool {
	for _, req := range q.requests {
		if req.PickupFloor == floor && req.Status != elevconsts.Completed {
			return true
		}
	}
	return false
}

func (q *Queue) MarkProcessing(id ID, carID int) error {
	return q.transition(id, elevconsts.Pending, elevconsts.Processing, func(req *Request) {
		req.CarID = carID
	})
}

// Unassign returns a Processing request to Pending when the car it was
// meant for turned it down.
func (q *Queue) Unassign(id ID) error {
	return q.transition(id, elevconsts.Processing, elevconsts.Pending, func(req *Request) {
		req.CarID = 0
	})
}

func (q *Queue) MarkPickedUp(id ID) error {
	return q.transition(id, elevconsts.Processing, elevconsts.PickedUp, nil)
}

func (q *Queue) MarkCompleted(id ID) error {
	return q.transition(id, elevconsts.PickedUp, elevconsts.Completed, nil)
}

func (q *Queue) transition(id ID, from, to elevconsts.RequestStatus, update func(*Request)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	req := q.findLocked(id)
	if req == nil {
		return fmt.Errorf("%w: %s", ErrUnknownRequest, id)
	}
	if req.Status != from {
		return fmt.Errorf("%w: %s is %s, cannot become %s", ErrInvalidTransition, id, req.Status, to)
	}
	req.Status = to
	if update != nil {
		update(req)
	}
	return nil
}

// Remove drops a Completed request. Unknown ids are ignored and requests
// that have not completed stay queued.
func (q *Queue) Remove(id ID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, req := range q.requests {
		if req.ID != id {
			continue
		}
		if req.Status != elevconsts.Completed {
			Log.Warn().Msgf("Not removing request %s, status is %s", id, req.Status)
			return false
		}
		q.requests = append(q.requests[:i], q.requests[i+1:]...)
		return true
	}
	return false
}

func (q *Queue) findLocked(id ID) *Request {
	for _, req := range q.requests {
		if req.ID == id {
			return req
		}
	}
	return nil
}

func clone(req *Request) Request {
	var out Request
	if err := deepcopy.Copy(&out, *req); err != nil {
		Log.Error().Msgf("Error copying request %s: %v", req.ID, err)
		out = *req
		out.DestinationFloors = append([]int(nil), req.DestinationFloors...)
	}
	return out
}
