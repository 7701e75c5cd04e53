package elevsim

import (
	"fmt"
	"strings"

	"github.com/ypinbong/elevator-simulator/internal/elevcar"
	"github.com/ypinbong/elevator-simulator/internal/elevconsts"
	"github.com/ypinbong/elevator-simulator/internal/elevrequest"
)

// Render draws the building top floor first, one column per car, followed by
// the active requests.
func Render(floors []int, cars []elevcar.Snapshot, requests []elevrequest.Request) []string {
	border := "  +-----+" + strings.Repeat("------+", len(cars))

	header := "  |floor|"
	for _, car := range cars {
		header += fmt.Sprintf(" c%-3d |", car.ID)
	}

	waiting := map[int]int{}
	for _, req := range requests {
		waiting[req.PickupFloor]++
	}

	lines := []string{border, header, border}
	for _, floor := range floors {
		row := fmt.Sprintf("  | %3d |", floor)
		for _, car := range cars {
			row += fmt.Sprintf(" %-4s |", carCell(car, floor))
		}
		if n := waiting[floor]; n > 0 {
			row += fmt.Sprintf(" %d waiting", n)
		}
		lines = append(lines, row)
	}
	lines = append(lines, border)

	for _, car := range cars {
		lines = append(lines, "  "+car.String())
	}
	for _, req := range requests {
		lines = append(lines, "  "+req.String())
	}
	return lines
}

func carCell(car elevcar.Snapshot, floor int) string {
	if car.Floor == floor {
		switch {
		case car.Status == elevconsts.CarLoadingUnloading:
			return "[<>]"
		case car.Direction == elevconsts.Up:
			return "[^]"
		case car.Direction == elevconsts.Down:
			return "[v]"
		default:
			return "[ ]"
		}
	}
	for _, stop := range car.Stops {
		if stop == floor {
			return " *"
		}
	}
	return " -"
}

func (s *Simulation) Print() {
	for _, line := range Render(s.ListFloors(), s.ListCars(), s.ListRequests()) {
		Log.Info().Msg(line)
	}
	if dropped := s.DroppedEvents(); dropped > 0 {
		Log.Warn().Msgf("  %d events dropped", dropped)
	}
}
