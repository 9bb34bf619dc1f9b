package ptsim

import (
	"encoding/csv"
	"io"
	"strconv"

	"lintim.dev/ptsim/config"
)

// Evaluator is the aggregate outcome of a completed Simulation, per
// spec.md section 4.7: the total weighted travel time of every
// completed passenger, the count of passengers left stranded, and (a
// supplemented diagnostic the original silently drops) the number of
// headway activities the run found violated during propagation.
type Evaluator struct {
	TotalTravelTime  int
	StrandedCount    int
	ViolatedHeadways int
}

// Evaluate walks every passenger in sim exactly once: a stranded
// passenger increments StrandedCount, otherwise its arrival-minus-
// departure time is added to TotalTravelTime. Call this only after
// Simulation.Run has returned.
func Evaluate(sim *Simulation) *Evaluator {
	ev := &Evaluator{ViolatedHeadways: sim.Manager.ViolatedHeadways}
	for _, p := range sim.Passengers {
		if p.Stranded {
			ev.StrandedCount++
			continue
		}
		ev.TotalTravelTime += p.Path.ArrivalTime() - p.Path.DepartureTime()
	}
	return ev
}

// WriteResultRow emits the single CSV row spec.md section 6 specifies:
// stop_at; data_folder_location; debug_level; delay_strategy;
// traveling_time; stranded_passengers.
func (ev *Evaluator) WriteResultRow(w io.Writer, cfg *config.Config) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	row := []string{
		strconv.Itoa(cfg.StopAt),
		cfg.DataFolderLocation,
		strconv.Itoa(cfg.DebugLevel),
		strconv.Itoa(int(cfg.DelayStrategy)),
		strconv.Itoa(ev.TotalTravelTime),
		strconv.Itoa(ev.StrandedCount),
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
