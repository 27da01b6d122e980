package request

import (
	"strings"
	"time"
)

type Relevance string

const (
	RelevanceLow    Relevance = "low"
	RelevanceMedium Relevance = "medium"
	RelevanceHigh   Relevance = "high"
)

// Status is the performance lifecycle of a request, driven by the artist.
type Status string

const (
	StatusPending   Status = "pending"
	StatusQueue     Status = "queue"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusQueue, StatusPlaying, StatusCompleted:
		return true
	}
	return false
}

// PaymentStatus is tracked separately from Status; the two state machines
// never share a field.
type PaymentStatus string

const (
	PaymentNotApplicable PaymentStatus = "not_applicable"
	PaymentPending       PaymentStatus = "pending"
	PaymentCompleted     PaymentStatus = "completed"
	PaymentFailed        PaymentStatus = "failed"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentNotApplicable, PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// SocialPlatforms marks which of the artist's channels the requester claims
// to follow.
type SocialPlatforms struct {
	Instagram bool `json:"instagram"`
	TikTok    bool `json:"tiktok"`
	YouTube   bool `json:"youtube"`
}

func (p SocialPlatforms) Count() int {
	n := 0
	if p.Instagram {
		n++
	}
	if p.TikTok {
		n++
	}
	if p.YouTube {
		n++
	}
	return n
}

type Song struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Genre     string    `json:"genre"`
	Relevance Relevance `json:"relevance"`
	// Price is derived from Relevance on the way out; it is never stored.
	Price     Money     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

type Request struct {
	ID     string `json:"id"`
	SongID string `json:"song_id"`
	// Song is the title snapshotted at submission time, so the entry keeps
	// rendering even if the catalog entry is later removed.
	Song            string          `json:"song"`
	UserName        string          `json:"user_name"`
	UserSocial      string          `json:"user_social"`
	Message         string          `json:"message,omitempty"`
	SocialPlatforms SocialPlatforms `json:"social_platforms"`
	Priority        int             `json:"priority"`
	Likes           int             `json:"likes"`
	IsFree          bool            `json:"is_free"`
	PricePaid       Money           `json:"price_paid"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NormalizeHandle canonicalizes a social handle to a single leading "@".
// Casing is preserved: "@User" and "@user" are distinct requesters.
func NormalizeHandle(handle string) string {
	h := strings.TrimSpace(handle)
	h = strings.TrimLeft(h, "@")
	return "@" + h
}
