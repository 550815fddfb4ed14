package metrics

import (
	"context"
	"time"

	"github.com/haocluo92/well-scheduler/core/events"
	coremetrics "github.com/haocluo92/well-scheduler/core/metrics"
	"github.com/haocluo92/well-scheduler/core/model"
	"github.com/haocluo92/well-scheduler/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards per-event
// records to the sink's optional recorders. It stops when the context is
// canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.AssignmentEvent:
					if r, ok := sink.(coremetrics.AssignmentRecorder); ok {
						_ = r.RecordAssignments([]coremetrics.AssignmentRecord{{
							RunID:    e.RunID,
							Resource: e.Resource,
							Kind:     kindFor(e.Phase),
							Batch:    e.Batch,
							Phase:    e.Phase.String(),
							Start:    e.Start,
							End:      e.End,
							Days:     e.Days,
						}})
					}
				case events.BatchSkippedEvent:
					if r, ok := sink.(coremetrics.SkipRecorder); ok {
						_ = r.RecordSkips([]coremetrics.SkipRecord{{
							RunID:  e.RunID,
							Batch:  e.Batch,
							Phase:  e.Phase.String(),
							Reason: e.Reason,
							Time:   time.Now(),
						}})
					}
				case events.SimopsConflictEvent:
					if r, ok := sink.(coremetrics.ConflictRecorder); ok {
						_ = r.RecordConflicts([]coremetrics.ConflictRecord{{
							RunID:          e.RunID,
							BatchA:         e.BatchA,
							BatchB:         e.BatchB,
							WellA:          e.WellA,
							WellB:          e.WellB,
							DistanceMeters: e.DistanceMeters,
							Time:           time.Now(),
						}})
					}
				}
			}
		}
	}()
}

func kindFor(p model.Phase) string {
	if p == model.PhaseDrill {
		return model.KindRig.String()
	}
	return model.KindFracCrew.String()
}
