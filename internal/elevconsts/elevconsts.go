package elevconsts

const (
	DefaultFloors          = 10
	DefaultCars            = 4
	DefaultMaxPending      = 5
	DefaultMaxDestinations = 2
)

type Direction int

const (
	Down Direction = -1
	Idle Direction = 0
	Up   Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Idle:
		return "Idle"
	default:
		return "Undefined"
	}
}

// Opposite returns the reverse travel direction. Idle has no opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	default:
		return Idle
	}
}

// IsTravel reports whether d is a direction a request can be made in.
func (d Direction) IsTravel() bool {
	return d == Up || d == Down
}

// DirectionTo returns the direction from floor to target, Idle when equal.
func DirectionTo(floor, target int) Direction {
	switch {
	case target > floor:
		return Up
	case target < floor:
		return Down
	default:
		return Idle
	}
}

type CarStatus int

const (
	CarIdle CarStatus = iota
	CarMoving
	CarLoadingUnloading
)

func (cs CarStatus) String() string {
	switch cs {
	case CarIdle:
		return "CS_Idle"
	case CarMoving:
		return "CS_Moving"
	case CarLoadingUnloading:
		return "CS_LoadingUnloading"
	default:
		return "CS_UNDEFINED"
	}
}

type RequestStatus int

const (
	Pending RequestStatus = iota
	Processing
	PickedUp
	Completed
)

func (rs RequestStatus) String() string {
	switch rs {
	case Pending:
		return "RS_Pending"
	case Processing:
		return "RS_Processing"
	case PickedUp:
		return "RS_PickedUp"
	case Completed:
		return "RS_Completed"
	default:
		return "RS_UNDEFINED"
	}
}
