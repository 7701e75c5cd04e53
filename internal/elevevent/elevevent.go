package elevevent

import (
	"sync/atomic"
	"time"

	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
)

type SimEvent struct {
	//Golang doesnt support union types,
	//so we have to pass any of the below
	//structs
	Value any
}

type RequestQueuedEvent struct {
	RequestID string
	Floor     int
	Direction elevconsts.Direction
}

type RequestAssignedEvent struct {
	RequestID string
	CarID     int
}

type RequestPickedUpEvent struct {
	RequestID string
	CarID     int
	Floor     int
}

type RequestCompletedEvent struct {
	RequestID string
	CarID     int
	Floor     int
}

// CarDepartedEvent is published once the travel timer is running.
type CarDepartedEvent struct {
	CarID     int
	From      int
	Direction elevconsts.Direction
	Travel    time.Duration
}

type CarArrivedEvent struct {
	CarID int
	Floor int
}

// DoorsOpenedEvent is published once the dwell timer is running.
type DoorsOpenedEvent struct {
	CarID int
	Floor int
	Dwell time.Duration
}

type DoorsClosedEvent struct {
	CarID int
	Floor int
}

type CarIdleEvent struct {
	CarID int
	Floor int
}

func (e SimEvent) EventType() string {
	switch e.Value.(type) {
	case RequestQueuedEvent:
		return "RequestQueuedEvent"
	case RequestAssignedEvent:
		return "RequestAssignedEvent"
	case RequestPickedUpEvent:
		return "RequestPickedUpEvent"
	case RequestCompletedEvent:
		return "RequestCompletedEvent"
	case CarDepartedEvent:
		return "CarDepartedEvent"
	case CarArrivedEvent:
		return "CarArrivedEvent"
	case DoorsOpenedEvent:
		return "DoorsOpenedEvent"
	case DoorsClosedEvent:
		return "DoorsClosedEvent"
	case CarIdleEvent:
		return "CarIdleEvent"
	default:
		return "UnknownEvent"
	}
}

// Bus fans events out on a buffered channel. Publishing never blocks; when
// nobody drains the channel events are dropped and counted.
type Bus struct {
	ch      chan SimEvent
	dropped atomic.Uint64
}

func NewBus(size int) *Bus {
	if size < 1 {
		size = 1
	}
	return &Bus{ch: make(chan SimEvent, size)}
}

func (b *Bus) Publish(value any) {
	select {
	case b.ch <- SimEvent{Value: value}:
	default:
		b.dropped.Add(1)
	}
}

func (b *Bus) Events() <-chan SimEvent {
	return b.ch
}

func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
