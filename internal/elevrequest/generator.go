package elevrequest

import (
	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevfloor"
)

// SubmitRandom queues a plausible random request, used to generate load.
// At most maxPending requests may be active at once, and a pickup floor that
// already has an active request is never picked. Direction is forced Up on
// the bottom floor and Down on the top floor.
func (q *Queue) SubmitRandom(maxPending int) (Request, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.requests) >= maxPending {
		return Request{}, ErrQueueFull
	}

	var free []int
	for f := elevfloor.BottomFloor; f <= q.building.Top(); f++ {
		if !q.hasActiveAtLocked(f) {
			free = append(free, f)
		}
	}
	if len(free) == 0 {
		return Request{}, ErrNoFreeFloor
	}

	floor := free[q.rng.Intn(len(free))]
	direction := elevconsts.Up
	switch {
	case floor == elevfloor.BottomFloor:
		direction = elevconsts.Up
	case floor == q.building.Top():
		direction = elevconsts.Down
	case q.rng.Intn(2) == 1:
		direction = elevconsts.Down
	}

	return q.appendLocked(floor, direction, q.generateDestinations(floor, direction))
}
