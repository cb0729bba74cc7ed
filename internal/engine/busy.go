package engine

import "sort"

// busyInterval is a [Start, End) minute range already occupied by a placed
// task. Anchor marks intervals that belong to a mandatory clock-pinned task;
// the crunch-time fallback may only fire in gaps that lead into one.
type busyInterval struct {
	Start  int
	End    int
	Anchor bool
}

// slot is a successful placement.
type slot struct {
	Start        int
	End          int
	UsedFallback bool // placed at the reduced minimum duration
}

// crunch configures the reduced-duration fallback of nextSlot.
// MinDuration 0 disables it.
type crunch struct {
	MinDuration int
	AnchorOnly  bool
}

// nextSlot finds the first free range of `duration` minutes inside
// [windowStart, windowEnd), scanning from max(windowStart, candidate) through
// the gaps between consecutive busy intervals.
//
// If a gap is too small for the full duration but at least cr.MinDuration
// wide, the task is squeezed in at its minimum instead of being pushed past
// the gap — restricted, when cr.AnchorOnly is set, to gaps immediately
// followed by an anchor interval. This models compressing a task just before
// an unmissable commitment rather than displacing it to after.
//
// busy must be sorted by start. The second return is false when nothing fits;
// that is not an error, the caller just leaves the task unscheduled.
func nextSlot(busy []busyInterval, windowStart, windowEnd, candidate, duration int, cr crunch) (slot, bool) {
	cur := windowStart
	if candidate > cur {
		cur = candidate
	}

	for _, iv := range busy {
		if iv.End <= cur {
			continue
		}
		gapEnd := iv.Start
		if gapEnd > windowEnd {
			gapEnd = windowEnd
		}
		if gapEnd-cur >= duration {
			return slot{Start: cur, End: cur + duration}, true
		}
		if cr.MinDuration > 0 && gapEnd-cur >= cr.MinDuration && iv.Start <= windowEnd && (!cr.AnchorOnly || iv.Anchor) {
			return slot{Start: cur, End: cur + cr.MinDuration, UsedFallback: true}, true
		}
		if iv.End > cur {
			cur = iv.End
		}
		if cur >= windowEnd {
			return slot{}, false
		}
	}

	// Trailing gap up to the window end.
	if windowEnd-cur >= duration {
		return slot{Start: cur, End: cur + duration}, true
	}
	return slot{}, false
}

// pushBusy inserts iv keeping the list sorted by start time, so each
// placement scan stays a single linear pass.
func pushBusy(busy []busyInterval, iv busyInterval) []busyInterval {
	i := sort.Search(len(busy), func(i int) bool { return busy[i].Start > iv.Start })
	busy = append(busy, busyInterval{})
	copy(busy[i+1:], busy[i:])
	busy[i] = iv
	return busy
}
