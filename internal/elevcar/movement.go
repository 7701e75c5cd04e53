package elevcar

import (
	"time"

	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevevent"
	"github.com/ypinbong/elevator-simulator/internal/elevrequest"
)

type StepKind int

const (
	StepIdle StepKind = iota
	StepTravel
	StepDwell
)

func (sk StepKind) String() string {
	switch sk {
	case StepIdle:
		return "Idle"
	case StepTravel:
		return "Travel"
	case StepDwell:
		return "Dwell"
	default:
		return "Undefined"
	}
}

// Step is the transition Advance decided on. Done fires when the travel or
// door delay is over; it is nil for StepIdle.
type Step struct {
	Kind      StepKind
	Floor     int
	Direction elevconsts.Direction
	Target    int
	Wait      time.Duration
	Done      <-chan time.Time
}

// outcome collects what a locked transition has to report once the lock is
// released.
type outcome struct {
	events    []any
	pickedUp  []elevrequest.ID
	completed []elevrequest.ID
	changed   bool
}

// report publishes the car events first, so the doors are seen opening
// before the requests served behind them are picked up or completed.
func (c *Car) report(floor int, out outcome) {
	for _, event := range out.events {
		c.observer.CarEvent(event)
	}
	for _, id := range out.pickedUp {
		c.observer.RequestPickedUp(id, c.id, floor)
	}
	for _, id := range out.completed {
		c.observer.RequestCompleted(id, c.id, floor)
	}
	if out.changed {
		c.observer.CarStateChanged(c.id)
	}
}

// Advance decides the car's next transition and applies its immediate part:
// opening the doors at a stop, starting a one-floor travel, or going idle.
// The delay is snapshotted from the speed setting here, and the timer is
// running before anything is reported.
func (c *Car) Advance() Step {
	timing := c.speed.Timing()

	c.mu.Lock()
	step, out := c.decideLocked()
	c.mu.Unlock()

	switch step.Kind {
	case StepTravel:
		step.Wait = timing.Travel
		step.Done = c.clock.After(timing.Travel)
		out.events = append(out.events, elevevent.CarDepartedEvent{CarID: c.id, From: step.Floor, Direction: step.Direction, Travel: step.Wait})
	case StepDwell:
		step.Wait = timing.Door
		step.Done = c.clock.After(timing.Door)
		out.events = append(out.events, elevevent.DoorsOpenedEvent{CarID: c.id, Floor: step.Floor, Dwell: step.Wait})
	}

	c.report(step.Floor, out)
	return step
}

func (c *Car) decideLocked() (Step, outcome) {
	var out outcome

	if c.stops.Empty() {
		if c.status != elevconsts.CarIdle {
			c.goIdleLocked(&out)
		}
		return Step{Kind: StepIdle, Floor: c.floor}, out
	}

	if c.stops.Contains(c.floor) {
		c.status = elevconsts.CarLoadingUnloading
		c.stops.Remove(c.floor)
		c.serveFloorLocked(&out)
		Log.Debug().Msgf("Car %d doors open at %d, stops %v", c.id, c.floor, c.stops.Floors())
		return Step{Kind: StepDwell, Floor: c.floor, Direction: c.direction}, out
	}

	c.direction = c.chooseDirectionLocked()
	c.status = elevconsts.CarMoving
	target, _ := c.nextStopLocked(c.direction)
	return Step{Kind: StepTravel, Floor: c.floor, Direction: c.direction, Target: target}, out
}

// chooseDirectionLocked keeps the sweep direction while stops remain ahead
// and only then turns around. From standstill it heads for the nearest stop,
// preferring up on a tie.
func (c *Car) chooseDirectionLocked() elevconsts.Direction {
	if c.direction == elevconsts.Up || c.direction == elevconsts.Down {
		if _, ok := c.nextStopLocked(c.direction); ok {
			return c.direction
		}
		if _, ok := c.nextStopLocked(c.direction.Opposite()); ok {
			return c.direction.Opposite()
		}
		return elevconsts.Idle
	}

	above, okAbove := c.stops.NextAbove(c.floor)
	below, okBelow := c.stops.NextBelow(c.floor)
	switch {
	case okAbove && okBelow:
		if above-c.floor <= c.floor-below {
			return elevconsts.Up
		}
		return elevconsts.Down
	case okAbove:
		return elevconsts.Up
	case okBelow:
		return elevconsts.Down
	}
	return elevconsts.Idle
}

// nextStopLocked is the nearest stop strictly ahead in dir: the lowest stop
// above when going up, the highest below when going down.
func (c *Car) nextStopLocked(dir elevconsts.Direction) (int, bool) {
	switch dir {
	case elevconsts.Up:
		return c.stops.NextAbove(c.floor)
	case elevconsts.Down:
		return c.stops.NextBelow(c.floor)
	}
	return 0, false
}

// serveFloorLocked settles every assignment touching the current floor.
// Destinations of picked up requests are cleared first, so a request is
// Completed by the car that picked it up once its last destination is
// cleared. Requests waiting here are then picked up and their destinations
// become stops.
func (c *Car) serveFloorLocked(out *outcome) {
	remaining := c.assignments[:0]
	for _, a := range c.assignments {
		if a.pickedUp {
			a.destinations = removeFloor(a.destinations, c.floor)
			if len(a.destinations) == 0 {
				out.completed = append(out.completed, a.requestID)
				Log.Info().Msgf("Car %d completed request %s at %d", c.id, a.requestID, c.floor)
				continue
			}
		}
		remaining = append(remaining, a)
	}
	c.assignments = remaining

	for _, a := range c.assignments {
		if a.pickedUp || a.pickup != c.floor {
			continue
		}
		a.pickedUp = true
		for _, dest := range a.destinations {
			c.stops.Add(dest)
		}
		out.pickedUp = append(out.pickedUp, a.requestID)
		Log.Info().Msgf("Car %d picked up request %s at %d, destinations %v", c.id, a.requestID, c.floor, a.destinations)
	}
}

func removeFloor(floors []int, floor int) []int {
	kept := floors[:0]
	for _, f := range floors {
		if f != floor {
			kept = append(kept, f)
		}
	}
	return kept
}

// FinishTravel moves the car one floor in its direction. A car is never
// moved out of the building: at an extreme it reverses instead.
func (c *Car) FinishTravel() {
	var out outcome

	c.mu.Lock()
	next := c.floor + int(c.direction)
	if c.direction == elevconsts.Idle || !c.building.Contains(next) {
		Log.Warn().Msgf("Car %d cannot move %s from %d, reversing", c.id, c.direction, c.floor)
		c.direction = c.direction.Opposite()
	} else {
		c.floor = next
		out.events = append(out.events, elevevent.CarArrivedEvent{CarID: c.id, Floor: c.floor})
	}
	out.changed = true
	floor := c.floor
	c.mu.Unlock()

	c.report(floor, out)
}

// CloseDoors ends a stop. The car either carries on toward its remaining
// stops or goes idle.
func (c *Car) CloseDoors() {
	var out outcome

	c.mu.Lock()
	out.events = append(out.events, elevevent.DoorsClosedEvent{CarID: c.id, Floor: c.floor})
	if c.stops.Empty() {
		c.goIdleLocked(&out)
	} else {
		c.status = elevconsts.CarMoving
		if dir := c.chooseDirectionLocked(); dir != elevconsts.Idle {
			c.direction = dir
		}
	}
	out.changed = true
	floor := c.floor
	c.mu.Unlock()

	c.report(floor, out)
}

func (c *Car) goIdleLocked(out *outcome) {
	c.status = elevconsts.CarIdle
	c.direction = elevconsts.Idle
	out.events = append(out.events, elevevent.CarIdleEvent{CarID: c.id, Floor: c.floor})
	out.changed = true
	Log.Debug().Msgf("Car %d idle at %d", c.id, c.floor)
}
