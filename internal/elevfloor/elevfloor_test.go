package elevfloor

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewBuilding(t *testing.T) {
	if _, err := NewBuilding(1); err == nil {
		t.Errorf("Expected error for a single floor building")
	}
	b, err := NewBuilding(10)
	if err != nil {
		t.Fatalf("Expected error to be nil, got %v", err)
	}
	if b.NumFloors() != 10 || b.Top() != 10 {
		t.Errorf("Expected 10 floors, got %d (top %d)", b.NumFloors(), b.Top())
	}
}

func TestBuildingBounds(t *testing.T) {
	b, _ := NewBuilding(5)

	for _, floor := range []int{0, -1, 6} {
		if b.Contains(floor) {
			t.Errorf("Contains(%d) = true, expected false", floor)
		}
		if err := b.Check(floor); !errors.Is(err, ErrInvalidFloor) {
			t.Errorf("Check(%d) = %v, expected ErrInvalidFloor", floor, err)
		}
	}
	for floor := 1; floor <= 5; floor++ {
		if err := b.Check(floor); err != nil {
			t.Errorf("Check(%d) = %v, expected nil", floor, err)
		}
	}

	if b.Clamp(0) != 1 || b.Clamp(9) != 5 || b.Clamp(3) != 3 {
		t.Errorf("Clamp returned a floor outside [1, 5]")
	}
}

func TestBuildingFloorsTopFirst(t *testing.T) {
	b, _ := NewBuilding(4)
	expected := []int{4, 3, 2, 1}
	if got := b.Floors(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Floors() = %v, expected %v", got, expected)
	}
}

func TestFloorSetAddRemove(t *testing.T) {
	fs := NewFloorSet(10)

	if fs.Add(3) {
		t.Errorf("Add(3) reported floor already set")
	}
	if !fs.Add(3) {
		t.Errorf("Second Add(3) should report floor already set")
	}
	fs.Add(7)
	fs.Add(11)
	fs.Add(0)

	if fs.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", fs.Len())
	}
	if !reflect.DeepEqual(fs.Floors(), []int{3, 7}) {
		t.Errorf("Floors() = %v, expected [3 7]", fs.Floors())
	}
	if !fs.Remove(3) || fs.Remove(3) {
		t.Errorf("Remove(3) did not report previous state correctly")
	}
	if fs.Contains(3) || !fs.Contains(7) {
		t.Errorf("Contains returned wrong state after Remove")
	}
	fs.Remove(7)
	if !fs.Empty() {
		t.Errorf("Expected set to be empty, got %v", fs.Floors())
	}
}

func TestFloorSetDirectionalQueries(t *testing.T) {
	fs := NewFloorSet(10)
	for _, f := range []int{2, 5, 9} {
		fs.Add(f)
	}

	cases := []struct {
		name     string
		query    func() (int, bool)
		expected int
		found    bool
	}{
		{"above 5", func() (int, bool) { return fs.NextAbove(5) }, 9, true},
		{"above 1", func() (int, bool) { return fs.NextAbove(1) }, 2, true},
		{"above 9", func() (int, bool) { return fs.NextAbove(9) }, 0, false},
		{"below 5", func() (int, bool) { return fs.NextBelow(5) }, 2, true},
		{"below 10", func() (int, bool) { return fs.NextBelow(10) }, 9, true},
		{"below 2", func() (int, bool) { return fs.NextBelow(2) }, 0, false},
	}
	for _, c := range cases {
		got, found := c.query()
		if got != c.expected || found != c.found {
			t.Errorf("%s: got (%d, %v), expected (%d, %v)", c.name, got, found, c.expected, c.found)
		}
	}

	empty := NewFloorSet(10)
	if _, ok := empty.NextAbove(BottomFloor - 1); ok {
		t.Errorf("NextAbove() on empty set should report not found")
	}
	if _, ok := empty.NextBelow(10 + 1); ok {
		t.Errorf("NextBelow() on empty set should report not found")
	}
}
