package elevfloor

import (
	"errors"
	"fmt"
)

const BottomFloor = 1

var ErrInvalidFloor = errors.New("invalid floor")

// Building describes the fixed set of levels, numbered 1 (bottom) to N (top).
type Building struct {
	numFloors int
}

func NewBuilding(numFloors int) (Building, error) {
	if numFloors < 2 {
		return Building{}, fmt.Errorf("building needs at least 2 floors, got %d", numFloors)
	}
	return Building{numFloors: numFloors}, nil
}

func (b Building) NumFloors() int {
	return b.numFloors
}

func (b Building) Top() int {
	return b.numFloors
}

func (b Building) Contains(floor int) bool {
	return floor >= BottomFloor && floor <= b.numFloors
}

// Check returns ErrInvalidFloor wrapped with the offending floor.
func (b Building) Check(floor int) error {
	if !b.Contains(floor) {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidFloor, floor, BottomFloor, b.numFloors)
	}
	return nil
}

func (b Building) Clamp(floor int) int {
	if floor < BottomFloor {
		return BottomFloor
	}
	if floor > b.numFloors {
		return b.numFloors
	}
	return floor
}

// Floors lists all floors top first, the order they are drawn in.
func (b Building) Floors() []int {
	floors := make([]int, 0, b.numFloors)
	for f := b.numFloors; f >= BottomFloor; f-- {
		floors = append(floors, f)
	}
	return floors
}
