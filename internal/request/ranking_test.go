package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedIDs(reqs []Request) []string {
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	return ids
}

func TestRankQueueOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	reqs := []Request{
		{ID: "A", PricePaid: 800, Priority: 2, CreatedAt: base},
		{ID: "B", PricePaid: 800, Priority: 3, CreatedAt: base.Add(1 * time.Minute)},
		{ID: "C", IsFree: true, Priority: 3, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "D", PricePaid: 500, Priority: 3, CreatedAt: base.Add(3 * time.Minute)},
	}

	ranked := RankQueue(reqs)
	assert.Equal(t, []string{"B", "A", "D", "C"}, rankedIDs(ranked))
}

func TestRankQueueFIFOTieBreak(t *testing.T) {
	base := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	reqs := []Request{
		{ID: "late", PricePaid: 500, Priority: 1, CreatedAt: base.Add(time.Minute)},
		{ID: "early", PricePaid: 500, Priority: 1, CreatedAt: base},
	}
	ranked := RankQueue(reqs)
	assert.Equal(t, []string{"early", "late"}, rankedIDs(ranked))
}

func TestRankQueueIdempotent(t *testing.T) {
	base := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	reqs := []Request{
		{ID: "a", PricePaid: 300, Priority: 1, CreatedAt: base},
		{ID: "b", IsFree: true, Priority: 2, CreatedAt: base.Add(time.Second)},
		{ID: "c", PricePaid: 800, Priority: 3, CreatedAt: base.Add(2 * time.Second)},
		{ID: "d", PricePaid: 800, Priority: 3, CreatedAt: base.Add(3 * time.Second)},
	}
	first := RankQueue(reqs)
	second := RankQueue(reqs)
	assert.Equal(t, rankedIDs(first), rankedIDs(second))

	// re-ranking the already ranked set changes nothing either
	third := RankQueue(first)
	assert.Equal(t, rankedIDs(first), rankedIDs(third))
}

func TestRankQueueStableOnEqualKeys(t *testing.T) {
	// identical sort keys: input order must survive the sort
	at := time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)
	reqs := []Request{
		{ID: "one", PricePaid: 500, Priority: 2, CreatedAt: at},
		{ID: "two", PricePaid: 500, Priority: 2, CreatedAt: at},
		{ID: "three", PricePaid: 500, Priority: 2, CreatedAt: at},
	}
	ranked := RankQueue(reqs)
	assert.Equal(t, []string{"one", "two", "three"}, rankedIDs(ranked))
}

func TestRankQueueDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	reqs := []Request{
		{ID: "free", IsFree: true, CreatedAt: base},
		{ID: "paid", PricePaid: 300, CreatedAt: base.Add(time.Second)},
	}
	ranked := RankQueue(reqs)
	require.Equal(t, []string{"paid", "free"}, rankedIDs(ranked))
	assert.Equal(t, "free", reqs[0].ID)
}

func TestRankForDisplayBucketsByStatus(t *testing.T) {
	base := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	reqs := []Request{
		{ID: "done", Status: StatusCompleted, PricePaid: 800, CreatedAt: base},
		{ID: "now", Status: StatusPlaying, IsFree: true, CreatedAt: base.Add(time.Second)},
		{ID: "next", Status: StatusQueue, PricePaid: 300, CreatedAt: base.Add(2 * time.Second)},
		{ID: "new", Status: StatusPending, IsFree: true, CreatedAt: base.Add(3 * time.Second)},
	}
	ranked := RankForDisplay(reqs)
	assert.Equal(t, []string{"new", "next", "now", "done"}, rankedIDs(ranked))
}
