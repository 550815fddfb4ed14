// Package export renders schedule events and simops conflicts as JSON or CSV
// for downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/haocluo92/well-scheduler/core/model"
	"github.com/haocluo92/well-scheduler/core/simops"
)

const dayLayout = "2006-01-02"

// Row is the flattened export form of one schedule event.
type Row struct {
	Resource string `json:"resource"`
	Kind     string `json:"kind"`
	Batch    string `json:"batch"`
	Phase    string `json:"phase"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Days     int    `json:"days"`
}

// Rows flattens events into export rows with day-formatted dates.
func Rows(events []model.ScheduleEvent) []Row {
	rows := make([]Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, Row{
			Resource: e.Resource.Name,
			Kind:     e.Resource.Kind.String(),
			Batch:    e.Batch.Name,
			Phase:    e.Phase.String(),
			Start:    e.Start.Format(dayLayout),
			End:      e.End.Format(dayLayout),
			Days:     e.DurationDays,
		})
	}
	return rows
}

// WriteJSON writes the schedule events to w in JSON format.
func WriteJSON(w io.Writer, events []model.ScheduleEvent) error {
	enc := json.NewEncoder(w)
	return enc.Encode(Rows(events))
}

// WriteCSV writes the schedule events to w in CSV format.
func WriteCSV(w io.Writer, events []model.ScheduleEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"resource", "kind", "batch", "phase", "start", "end", "days"}); err != nil {
		return err
	}
	for _, r := range Rows(events) {
		rec := []string{r.Resource, r.Kind, r.Batch, r.Phase, r.Start, r.End, strconv.Itoa(r.Days)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteConflictsJSON writes the simops conflict pairs to w in JSON format.
func WriteConflictsJSON(w io.Writer, pairs []simops.ConflictPair) error {
	enc := json.NewEncoder(w)
	return enc.Encode(pairs)
}

// WriteConflictsCSV writes the simops conflict pairs to w in CSV format.
func WriteConflictsCSV(w io.Writer, pairs []simops.ConflictPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"batch_a", "batch_b", "well_a", "well_b", "distance_meters"}); err != nil {
		return err
	}
	for _, p := range pairs {
		rec := []string{
			p.BatchA,
			p.BatchB,
			p.WellA,
			p.WellB,
			strconv.FormatFloat(p.DistanceMeters, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
