package elevrequest

import (
	"errors"
	"fmt"

	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevfloor"
)

var (
	ErrInvalidFloor       = elevfloor.ErrInvalidFloor
	ErrNoDestinations     = errors.New("request has no destination floors")
	ErrInvalidDestination = errors.New("destination not in request direction")
	ErrInvalidDirection   = errors.New("request direction must be up or down")
	ErrUnknownRequest     = errors.New("unknown request")
	ErrInvalidTransition  = errors.New("invalid request status transition")
	ErrQueueFull          = errors.New("too many active requests")
	ErrNoFreeFloor        = errors.New("every floor already has an active request")
)

type ID string

// Request is a pickup at PickupFloor travelling in Direction. Destinations
// are ordered in the direction of travel. CarID is 0 until assigned.
type Request struct {
	ID                ID
	PickupFloor       int
	DestinationFloors []int
	Direction         elevconsts.Direction
	Status            elevconsts.RequestStatus
	CarID             int
}

func (r Request) String() string {
	return fmt.Sprintf("%s[%d %s -> %v %s car=%d]", r.ID, r.PickupFloor, r.Direction, r.DestinationFloors, r.Status, r.CarID)
}

// Validate checks the request invariants against a building. Generated
// fallback destinations (Up from the top floor, Down from the bottom) are
// the one accepted exception to direction consistency.
func (r Request) Validate(building elevfloor.Building) error {
	if err := building.Check(r.PickupFloor); err != nil {
		return err
	}
	if len(r.DestinationFloors) == 0 {
		return ErrNoDestinations
	}
	for _, dest := range r.DestinationFloors {
		if err := building.Check(dest); err != nil {
			return err
		}
		if dest == r.PickupFloor {
			return fmt.Errorf("%w: destination %d equals pickup", ErrInvalidDestination, dest)
		}
	}
	if isFallback(building, r.PickupFloor, r.Direction, r.DestinationFloors) {
		return nil
	}
	for _, dest := range r.DestinationFloors {
		if elevconsts.DirectionTo(r.PickupFloor, dest) != r.Direction {
			return fmt.Errorf("%w: %d is not %s of %d", ErrInvalidDestination, dest, r.Direction, r.PickupFloor)
		}
	}
	return nil
}

func isFallback(building elevfloor.Building, pickup int, dir elevconsts.Direction, dests []int) bool {
	if len(dests) != 1 {
		return false
	}
	switch {
	case dir == elevconsts.Up && pickup == building.Top():
		return dests[0] == pickup-1
	case dir == elevconsts.Down && pickup == elevfloor.BottomFloor:
		return dests[0] == pickup+1
	}
	return false
}
