package elevfloor

// FloorSet keeps the on/off state of every floor in a building and answers
// directional queries (next stop above, next stop below) without sorting.
type FloorSet struct {
	set   []bool
	count int
}

func NewFloorSet(numFloors int) *FloorSet {
	return &FloorSet{set: make([]bool, numFloors+1)}
}

func (fs *FloorSet) inRange(floor int) bool {
	return floor >= BottomFloor && floor < len(fs.set)
}

// Add sets floor and returns whether it was already set. Floors outside the
// building are ignored.
func (fs *FloorSet) Add(floor int) bool {
	if !fs.inRange(floor) {
		return false
	}
	prev := fs.set[floor]
	if !prev {
		fs.set[floor] = true
		fs.count++
	}
	return prev
}

// Remove clears floor and returns whether it was set.
func (fs *FloorSet) Remove(floor int) bool {
	if !fs.inRange(floor) {
		return false
	}
	prev := fs.set[floor]
	if prev {
		fs.set[floor] = false
		fs.count--
	}
	return prev
}

func (fs *FloorSet) Contains(floor int) bool {
	return fs.inRange(floor) && fs.set[floor]
}

func (fs *FloorSet) Len() int {
	return fs.count
}

func (fs *FloorSet) Empty() bool {
	return fs.count == 0
}

// NextAbove returns the lowest set floor strictly above floor.
func (fs *FloorSet) NextAbove(floor int) (int, bool) {
	for f := max(floor+1, BottomFloor); f < len(fs.set); f++ {
		if fs.set[f] {
			return f, true
		}
	}
	return 0, false
}

// NextBelow returns the highest set floor strictly below floor.
func (fs *FloorSet) NextBelow(floor int) (int, bool) {
	for f := min(floor-1, len(fs.set)-1); f >= BottomFloor; f-- {
		if fs.set[f] {
			return f, true
		}
	}
	return 0, false
}

// Floors returns the set floors in ascending order.
func (fs *FloorSet) Floors() []int {
	floors := make([]int, 0, fs.count)
	for f := BottomFloor; f < len(fs.set); f++ {
		if fs.set[f] {
			floors = append(floors, f)
		}
	}
	return floors
}
