package request

import "slices"

// ActiveStatuses is the set shown to the public and artist queue views.
var ActiveStatuses = []Status{StatusPending, StatusQueue, StatusPlaying}

type direction int

const (
	ascending direction = iota
	descending
)

// rankLevel is one tie-break level of the queue order. Levels are applied in
// slice order; each level only breaks ties left by the one before it, so the
// policy reads top to bottom.
type rankLevel struct {
	name string
	dir  direction
	key  func(r *Request) int64
}

var queueLevels = []rankLevel{
	{"paid_before_free", ascending, func(r *Request) int64 {
		if r.IsFree {
			return 1
		}
		return 0
	}},
	{"price_paid", descending, func(r *Request) int64 { return int64(r.PricePaid) }},
	{"priority", descending, func(r *Request) int64 { return int64(r.Priority) }},
	{"created_at", ascending, func(r *Request) int64 { return r.CreatedAt.UnixNano() }},
}

var statusRank = map[Status]int64{
	StatusPending:   0,
	StatusQueue:     1,
	StatusPlaying:   2,
	StatusCompleted: 3,
}

// displayLevels prepends a status bucket for the unfiltered artist view, so
// finished requests sink below the live ones.
var displayLevels = append([]rankLevel{
	{"status", ascending, func(r *Request) int64 { return statusRank[r.Status] }},
}, queueLevels...)

func compareByLevels(levels []rankLevel) func(a, b Request) int {
	return func(a, b Request) int {
		for _, level := range levels {
			ka, kb := level.key(&a), level.key(&b)
			if ka == kb {
				continue
			}
			less := ka < kb
			if level.dir == descending {
				less = !less
			}
			if less {
				return -1
			}
			return 1
		}
		return 0
	}
}

// RankQueue orders requests by paid-before-free, price, social priority and
// submission time. The sort is stable so equal-key requests never swap
// between successive polls.
func RankQueue(reqs []Request) []Request {
	out := make([]Request, len(reqs))
	copy(out, reqs)
	slices.SortStableFunc(out, compareByLevels(queueLevels))
	return out
}

// RankForDisplay is RankQueue with a leading status bucket.
func RankForDisplay(reqs []Request) []Request {
	out := make([]Request, len(reqs))
	copy(out, reqs)
	slices.SortStableFunc(out, compareByLevels(displayLevels))
	return out
}
