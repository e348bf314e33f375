// Package timeline collapses overlapping work intervals into elapsed active
// time per day. Several lots worked at the same time by different operators
// would double-count wall-clock time if their durations were simply summed;
// the per-day union counts each elapsed second once.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

const timestampLayout = "2006-01-02 15:04:05"

type interval struct {
	start int64
	end   int64
}

// ActiveSecondsByDay merges the spans of each calendar day and returns the
// total merged duration per day, in whole seconds. Spans that touch exactly
// (one starts when another ends) are treated as continuous. Days without any
// span are simply absent from the result.
func ActiveSecondsByDay(spans []storage.EndToEndSpan) (map[string]int64, error) {
	byDay := make(map[string][]interval)
	for _, span := range spans {
		start, err := parseTimestamp(span.StartTime)
		if err != nil {
			return nil, fmt.Errorf("timeline: span start %q: %w", span.StartTime, err)
		}
		end, err := parseTimestamp(span.EndTime)
		if err != nil {
			return nil, fmt.Errorf("timeline: span end %q: %w", span.EndTime, err)
		}
		if end < start {
			// Inverted spans cannot come from the lifecycle rules; drop them
			// rather than subtract time.
			continue
		}
		byDay[span.Day] = append(byDay[span.Day], interval{start: start, end: end})
	}

	active := make(map[string]int64, len(byDay))
	for day, intervals := range byDay {
		sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })

		var total int64
		cur := intervals[0]
		for _, iv := range intervals[1:] {
			if iv.start <= cur.end {
				if iv.end > cur.end {
					cur.end = iv.end
				}
				continue
			}
			total += cur.end - cur.start
			cur = iv
		}
		total += cur.end - cur.start

		active[day] = total
	}

	return active, nil
}

// TotalActiveSeconds sums the per-day union output.
func TotalActiveSeconds(activeByDay map[string]int64) int64 {
	var total int64
	for _, seconds := range activeByDay {
		total += seconds
	}
	return total
}

func parseTimestamp(ts string) (int64, error) {
	t, err := time.ParseInLocation(timestampLayout, ts, time.Local)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
