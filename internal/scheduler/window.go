package scheduler

import "time"

// DefaultPageSize is the number of distinct dates per calendar page when the
// client does not ask for a specific size.
const DefaultPageSize = 7

// Window is a half-open [Start, End) slice over the sorted distinct dates of
// the schedule.
type Window struct {
	Start int
	End   int
	Page  int
	Size  int
	Pages int
	Total int
}

// Count returns the number of dates inside the window.
func (w Window) Count() int {
	return w.End - w.Start
}

// AnchorIndex locates today's position in the sorted date list. When today is
// absent the anchor falls on the first future date, or past the end when no
// future dates exist.
func AnchorIndex(dates []time.Time, today time.Time) int {
	for i, date := range dates {
		if !date.Before(today) {
			return i
		}
	}
	return len(dates)
}

// ComputeWindow pages the date list around the anchor. Page 1 starts at the
// anchor itself; higher pages move forward, negative pages move backward from
// the anchor. Out-of-range pages clamp to an empty window at the matching end
// of the list.
func ComputeWindow(total, anchor, page, size int) Window {
	if size <= 0 {
		size = DefaultPageSize
	}

	var start, end int
	if page >= 0 {
		start = clamp(anchor+(page-1)*size, 0, total)
		end = clamp(start+size, start, total)
	} else {
		end = clamp(anchor+(page+1)*size, 0, total)
		start = clamp(end-size, 0, end)
	}

	pages := 0
	if total > 0 {
		pages = (total + size - 1) / size
	}

	return Window{
		Start: start,
		End:   end,
		Page:  page,
		Size:  size,
		Pages: pages,
		Total: total,
	}
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
