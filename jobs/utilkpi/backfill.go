package utilkpi

import (
	history "github.com/haocluo92/well-scheduler/core/kpi/history"
	"github.com/haocluo92/well-scheduler/core/model"
	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
)

// Backfill processes historical run records and populates the store.
func Backfill(store history.Store, runs []runlog.Record) error {
	for _, run := range runs {
		day := history.Day(run.Timestamp)
		for _, ev := range run.Events {
			kind := model.KindFracCrew
			if ev.Phase == model.PhaseDrill.String() {
				kind = model.KindRig
			}
			rec := history.Record{
				Resource: ev.Resource,
				Kind:     kind.String(),
				Date:     day,
				BusyDays: ev.Days,
				Events:   1,
			}
			if err := store.Add(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
