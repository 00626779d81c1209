package workpool

import (
	"lipsync/internal/progress"
)

// ScheduleEach schedules one job per item calling process with a progress
// sink for that item. Progress of all items is merged into sink, weighted by
// weight (nil means every item weighs 1). It returns once the jobs are queued;
// use WaitAll to wait for them. The merger is owned by the jobs and outlives
// this call.
func ScheduleEach[E any](p *Pool, items []E, process func(E, progress.Sink), sink progress.Sink, weight func(E) float64) error {
	merger := progress.NewMerger(sink)
	sinks := make([]progress.Sink, len(items))
	for i, item := range items {
		w := 1.0
		if weight != nil {
			w = weight(item)
		}
		itemSink, err := merger.AddSink(w)
		if err != nil {
			return err
		}
		sinks[i] = itemSink
	}
	for i, item := range items {
		itemSink := sinks[i]
		p.Schedule(func() {
			process(item, itemSink)
		})
	}
	return nil
}
