package elevrequest

import (
	"errors"
	"math/rand"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevfloor"
	"github.com/ypinbong/elevator-simulator/internal/logger"
)

func newTestQueue(t *testing.T, floors int) (*Queue, elevfloor.Building) {
	t.Helper()
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	building, err := elevfloor.NewBuilding(floors)
	if err != nil {
		t.Fatalf("Expected error to be nil, got %v", err)
	}
	return NewQueue(building, rand.New(rand.NewSource(42)), elevconsts.DefaultMaxDestinations), building
}

func TestSubmitValidation(t *testing.T) {
	queue, _ := newTestQueue(t, 10)

	cases := []struct {
		name      string
		pickup    int
		direction elevconsts.Direction
		dests     []int
		expected  error
	}{
		{"pickup below building", 0, elevconsts.Up, []int{5}, ErrInvalidFloor},
		{"pickup above building", 11, elevconsts.Down, []int{5}, ErrInvalidFloor},
		{"destination outside building", 3, elevconsts.Up, []int{12}, ErrInvalidFloor},
		{"empty destinations", 3, elevconsts.Up, []int{}, ErrNoDestinations},
		{"destination equals pickup", 3, elevconsts.Up, []int{3}, ErrInvalidDestination},
		{"destination against direction", 3, elevconsts.Up, []int{5, 2}, ErrInvalidDestination},
		{"idle direction", 3, elevconsts.Idle, []int{5}, ErrInvalidDirection},
	}

	for _, c := range cases {
		_, err := queue.Submit(c.pickup, c.direction, c.dests)
		if !errors.Is(err, c.expected) {
			t.Errorf("%s: Submit returned %v, expected %v", c.name, err, c.expected)
		}
	}

	if queue.Len() != 0 {
		t.Errorf("Rejected submissions should not be queued, queue has %d entries", queue.Len())
	}
}

func TestSubmitOrdersAndDeduplicatesDestinations(t *testing.T) {
	queue, _ := newTestQueue(t, 10)

	up, err := queue.Submit(2, elevconsts.Up, []int{9, 4, 9, 6})
	if err != nil {
		t.Fatalf("Expected error to be nil, got %v", err)
	}
	if !reflect.DeepEqual(up.DestinationFloors, []int{4, 6, 9}) {
		t.Errorf("Expected destinations [4 6 9], got %v", up.DestinationFloors)
	}

	down, err := queue.Submit(8, elevconsts.Down, []int{3, 7, 1})
	if err != nil {
		t.Fatalf("Expected error to be nil, got %v", err)
	}
	if !reflect.DeepEqual(down.DestinationFloors, []int{7, 3, 1}) {
		t.Errorf("Expected destinations [7 3 1], got %v", down.DestinationFloors)
	}

	if up.Status != elevconsts.Pending || up.ID == down.ID {
		t.Errorf("Expected two distinct pending requests, got %v and %v", up, down)
	}
}

func TestGeneratedDestinationsAreValid(t *testing.T) {
	queue, building := newTestQueue(t, 10)

	for pickup := 1; pickup <= 10; pickup++ {
		for _, dir := range []elevconsts.Direction{elevconsts.Up, elevconsts.Down} {
			req, err := queue.Submit(pickup, dir, nil)
			if err != nil {
				t.Fatalf("Submit(%d, %s, nil) returned %v", pickup, dir, err)
			}
			if err := req.Validate(building); err != nil {
				t.Errorf("Generated request %v is invalid: %v", req, err)
			}
			if len(req.DestinationFloors) > elevconsts.DefaultMaxDestinations {
				t.Errorf("Generated %d destinations, expected at most %d", len(req.DestinationFloors), elevconsts.DefaultMaxDestinations)
			}
		}
	}
}

func TestGeneratedDestinationFallbackAtExtremes(t *testing.T) {
	queue, _ := newTestQueue(t, 10)

	top, err := queue.Submit(10, elevconsts.Up, nil)
	if err != nil {
		t.Fatalf("Expected error to be nil, got %v", err)
	}
	if !reflect.DeepEqual(top.DestinationFloors, []int{9}) {
		t.Errorf("Up from the top floor should fall back to [9], got %v", top.DestinationFloors)
	}

	bottom, err := queue.Submit(1, elevconsts.Down, nil)
	if err != nil {
		t.Fatalf("Expected error to be nil, got %v", err)
	}
	if !reflect.DeepEqual(bottom.DestinationFloors, []int{2}) {
		t.Errorf("Down from the bottom floor should fall back to [2], got %v", bottom.DestinationFloors)
	}
}

func TestNextPendingIsFIFOAmongPending(t *testing.T) {
	queue, _ := newTestQueue(t, 10)

	first, _ := queue.Submit(2, elevconsts.Up, []int{5})
	second, _ := queue.Submit(6, elevconsts.Down, []int{1})

	next, ok := queue.NextPending()
	if !ok || next.ID != first.ID {
		t.Errorf("Expected %s to be next, got %v", first.ID, next)
	}

	if err := queue.MarkProcessing(first.ID, 3); err != nil {
		t.Fatalf("Expected error to be nil, got %v", err)
	}
	next, ok = queue.NextPending()
	if !ok || next.ID != second.ID {
		t.Errorf("Expected %s to be next, got %v", second.ID, next)
	}

	pending := queue.Pending()
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Errorf("Expected only %s pending, got %v", second.ID, pending)
	}

	_ = queue.MarkProcessing(second.ID, 1)
	if _, ok := queue.NextPending(); ok {
		t.Errorf("Expected no pending requests")
	}
}

func TestStatusLifecycle(t *testing.T) {
	queue, _ := newTestQueue(t, 10)
	req, _ := queue.Submit(3, elevconsts.Up, []int{7})

	if err := queue.MarkPickedUp(req.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pending -> PickedUp returned %v, expected ErrInvalidTransition", err)
	}
	if err := queue.MarkProcessing(req.ID, 2); err != nil {
		t.Errorf("Expected error to be nil, got %v", err)
	}
	if queue.Remove(req.ID) {
		t.Errorf("Remove should not drop a request that has not completed")
	}
	if err := queue.MarkPickedUp(req.ID); err != nil {
		t.Errorf("Expected error to be nil, got %v", err)
	}
	if err := queue.MarkCompleted(req.ID); err != nil {
		t.Errorf("Expected error to be nil, got %v", err)
	}

	got, ok := queue.Get(req.ID)
	if !ok || got.Status != elevconsts.Completed || got.CarID != 2 {
		t.Errorf("Expected completed request served by car 2, got %v", got)
	}

	if !queue.Remove(req.ID) {
		t.Errorf("Expected Remove to drop the completed request")
	}
	if queue.Remove(req.ID) {
		t.Errorf("Remove of an absent request should report false")
	}
	if err := queue.MarkCompleted(req.ID); !errors.Is(err, ErrUnknownRequest) {
		t.Errorf("Expected ErrUnknownRequest, got %v", err)
	}
}

func TestListReturnsCopies(t *testing.T) {
	queue, _ := newTestQueue(t, 10)
	req, _ := queue.Submit(3, elevconsts.Up, []int{7, 8})

	list := queue.List()
	list[0].DestinationFloors[0] = 99
	list[0].Status = elevconsts.Completed

	got, _ := queue.Get(req.ID)
	if got.DestinationFloors[0] != 7 || got.Status != elevconsts.Pending {
		t.Errorf("Mutating a snapshot changed the queue: %v", got)
	}
}

func TestConcurrentSubmit(t *testing.T) {
	queue, _ := newTestQueue(t, 10)
	wg := sync.WaitGroup{}

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(floor int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := queue.Submit(floor, elevconsts.Up, nil); err != nil {
					t.Errorf("Submit returned %v", err)
				}
			}
		}(i + 1)
	}
	wg.Wait()

	list := queue.List()
	if len(list) != 400 {
		t.Errorf("Expected 400 requests, got %d", len(list))
	}
	seen := map[ID]bool{}
	for _, req := range list {
		if seen[req.ID] {
			t.Errorf("Duplicate request id %s", req.ID)
		}
		seen[req.ID] = true
	}
}

func TestUnassignReturnsRequestToPending(t *testing.T) {
	queue, _ := newTestQueue(t, 10)
	first, _ := queue.Submit(3, elevconsts.Up, []int{7})
	second, _ := queue.Submit(6, elevconsts.Down, []int{2})

	if err := queue.Unassign(first.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Unassign of a pending request returned %v, expected ErrInvalidTransition", err)
	}
	if err := queue.Unassign("missing"); !errors.Is(err, ErrUnknownRequest) {
		t.Errorf("Unassign of an unknown request returned %v, expected ErrUnknownRequest", err)
	}

	_ = queue.MarkProcessing(first.ID, 3)
	if next, _ := queue.NextPending(); next.ID != second.ID {
		t.Fatalf("Expected %s to be next pending, got %s", second.ID, next.ID)
	}
	if err := queue.Unassign(first.ID); err != nil {
		t.Fatalf("Expected error to be nil, got %v", err)
	}

	got, _ := queue.Get(first.ID)
	if got.Status != elevconsts.Pending || got.CarID != 0 {
		t.Errorf("Expected pending unassigned request, got %v", got)
	}
	if next, _ := queue.NextPending(); next.ID != first.ID {
		t.Errorf("Expected %s to keep its place in the queue, got %s", first.ID, next.ID)
	}
}

func TestAppendRefusesRequestsThatFailValidation(t *testing.T) {
	queue, _ := newTestQueue(t, 10)

	cases := []struct {
		name      string
		pickup    int
		direction elevconsts.Direction
		dests     []int
		err       error
	}{
		{"destination behind", 5, elevconsts.Up, []int{3}, ErrInvalidDestination},
		{"destination at pickup", 5, elevconsts.Down, []int{5}, ErrInvalidDestination},
		{"no destinations", 5, elevconsts.Up, nil, ErrNoDestinations},
		{"destination outside", 5, elevconsts.Up, []int{11}, ErrInvalidFloor},
	}

	for _, c := range cases {
		queue.mu.Lock()
		_, err := queue.appendLocked(c.pickup, c.direction, c.dests)
		queue.mu.Unlock()
		if !errors.Is(err, c.err) {
			t.Errorf("%s: expected %v, got %v", c.name, c.err, err)
		}
	}
	if n := queue.Len(); n != 0 {
		t.Errorf("Expected refused requests to leave the queue empty, got %d", n)
	}

	queue.mu.Lock()
	req, err := queue.appendLocked(10, elevconsts.Up, []int{9})
	queue.mu.Unlock()
	if err != nil || req.ID == "" {
		t.Errorf("Expected the top floor fallback to be queued, got %v (%v)", req, err)
	}
}
