package request

import "time"

type Stats struct {
	TotalRequests     int   `json:"total_requests"`
	PendingRequests   int   `json:"pending_requests"`
	CompletedRequests int   `json:"completed_requests"`
	NewFollowers      int   `json:"new_followers"`
	ActiveUsers       int   `json:"active_users"`
	TotalRevenue      Money `json:"total_revenue"`
	PaidRequests      int   `json:"paid_requests"`
	FreeRequests      int   `json:"free_requests"`
}

// ComputeStats derives the live counters from the full request history.
// It is recomputed on every read; there is no incremental state to corrupt.
//
// Revenue only counts requests whose payment actually completed. Follower
// counts are deduplicated per (handle, platform) pair, so a regular who
// submits five times with instagram checked still counts as one new
// instagram follower. Active users are distinct handles with a request in an
// active status; activeWindow <= 0 means the whole session counts as recent.
func ComputeStats(reqs []Request, now time.Time, activeWindow time.Duration) Stats {
	var st Stats
	followers := make(map[string]struct{})
	active := make(map[string]struct{})

	for i := range reqs {
		r := &reqs[i]
		st.TotalRequests++
		switch r.Status {
		case StatusPending:
			st.PendingRequests++
		case StatusCompleted:
			st.CompletedRequests++
		}
		if r.IsFree {
			st.FreeRequests++
		} else {
			st.PaidRequests++
		}
		if r.PaymentStatus == PaymentCompleted {
			st.TotalRevenue += r.PricePaid
		}

		if r.SocialPlatforms.Instagram {
			followers[r.UserSocial+"\x00instagram"] = struct{}{}
		}
		if r.SocialPlatforms.TikTok {
			followers[r.UserSocial+"\x00tiktok"] = struct{}{}
		}
		if r.SocialPlatforms.YouTube {
			followers[r.UserSocial+"\x00youtube"] = struct{}{}
		}

		if isActive(r.Status) && (activeWindow <= 0 || now.Sub(r.CreatedAt) <= activeWindow) {
			active[r.UserSocial] = struct{}{}
		}
	}

	st.NewFollowers = len(followers)
	st.ActiveUsers = len(active)
	return st
}

func isActive(s Status) bool {
	switch s {
	case StatusPending, StatusQueue, StatusPlaying:
		return true
	}
	return false
}
