package elevcar

import (
	"fmt"

	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevfloor"
	"github.com/ypinbong/elevator-simulator/internal/elevrequest"
)

// Snapshot is an immutable point-in-time copy of a car.
type Snapshot struct {
	ID        int
	Floor     int
	Direction elevconsts.Direction
	Status    elevconsts.CarStatus
	Stops     []int
	Requests  []elevrequest.ID
}

// EligibleFor reports whether the car may take a pickup at floor going dir:
// any Idle car, or a Moving car sweeping in dir that has not passed floor
// and still has stops.
func (s Snapshot) EligibleFor(floor int, dir elevconsts.Direction) bool {
	switch s.Status {
	case elevconsts.CarIdle:
		return true
	case elevconsts.CarMoving:
		if s.Direction != dir || len(s.Stops) == 0 {
			return false
		}
		switch dir {
		case elevconsts.Up:
			return s.Floor < floor
		case elevconsts.Down:
			return s.Floor > floor
		}
	}
	return false
}

// CheckInvariants verifies the state relations a car must hold between ticks.
func (s Snapshot) CheckInvariants(building elevfloor.Building) error {
	if !building.Contains(s.Floor) {
		return fmt.Errorf("car %d: floor %d outside building", s.ID, s.Floor)
	}
	if s.Status == elevconsts.CarIdle && (len(s.Stops) != 0 || s.Direction != elevconsts.Idle) {
		return fmt.Errorf("car %d: idle with stops %v direction %s", s.ID, s.Stops, s.Direction)
	}
	return nil
}

func (s Snapshot) String() string {
	return fmt.Sprintf("car %d @%d %s %s stops=%v", s.ID, s.Floor, s.Direction, s.Status, s.Stops)
}
