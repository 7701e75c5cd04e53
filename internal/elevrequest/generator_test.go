package elevrequest

import (
	"errors"
	"testing"

	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
)

func TestSubmitRandomRefusesSixthUntilOneCompletes(t *testing.T) {
	queue, building := newTestQueue(t, 10)

	var queued []Request
	for i := 0; i < elevconsts.DefaultMaxPending; i++ {
		req, err := queue.SubmitRandom(elevconsts.DefaultMaxPending)
		if err != nil {
			t.Fatalf("SubmitRandom #%d returned %v", i+1, err)
		}
		if err := req.Validate(building); err != nil {
			t.Errorf("Generated request %v is invalid: %v", req, err)
		}
		queued = append(queued, req)
	}

	if _, err := queue.SubmitRandom(elevconsts.DefaultMaxPending); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Sixth SubmitRandom returned %v, expected ErrQueueFull", err)
	}

	first := queued[0]
	_ = queue.MarkProcessing(first.ID, 1)
	_ = queue.MarkPickedUp(first.ID)
	if _, err := queue.SubmitRandom(elevconsts.DefaultMaxPending); !errors.Is(err, ErrQueueFull) {
		t.Errorf("SubmitRandom before completion returned %v, expected ErrQueueFull", err)
	}

	_ = queue.MarkCompleted(first.ID)
	queue.Remove(first.ID)
	if _, err := queue.SubmitRandom(elevconsts.DefaultMaxPending); err != nil {
		t.Errorf("SubmitRandom after completion returned %v, expected nil", err)
	}
}

func TestSubmitRandomAvoidsBusyPickupFloors(t *testing.T) {
	queue, _ := newTestQueue(t, 3)

	floors := map[int]bool{}
	for i := 0; i < 3; i++ {
		req, err := queue.SubmitRandom(10)
		if err != nil {
			t.Fatalf("SubmitRandom returned %v", err)
		}
		if floors[req.PickupFloor] {
			t.Errorf("Pickup floor %d was used twice", req.PickupFloor)
		}
		floors[req.PickupFloor] = true

		switch req.PickupFloor {
		case 1:
			if req.Direction != elevconsts.Up {
				t.Errorf("Bottom floor request should go Up, got %s", req.Direction)
			}
		case 3:
			if req.Direction != elevconsts.Down {
				t.Errorf("Top floor request should go Down, got %s", req.Direction)
			}
		}
	}

	if _, err := queue.SubmitRandom(10); !errors.Is(err, ErrNoFreeFloor) {
		t.Errorf("Expected ErrNoFreeFloor, got %v", err)
	}
}
