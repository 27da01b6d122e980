package request

import (
	"context"
	"strings"
	"time"
)

// Config tunes the policy knobs the engine deliberately leaves open.
type Config struct {
	// StrictPaymentGating blocks the artist from advancing a paid request
	// to playing/completed while its payment is still unsettled. The front
	// end historically allowed it, so lenient is the default.
	StrictPaymentGating bool
	// ActiveUserWindow bounds how far back a request still counts a handle
	// as "active" in the stats. Zero means the whole session.
	ActiveUserWindow time.Duration
}

// Service orchestrates pricing, eligibility, the request store, ranking and
// stats behind the operations the front end calls.
type Service struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewService(store Store, cfg Config) *Service {
	return &Service{store: store, cfg: cfg, now: time.Now}
}

var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusQueue, StatusPlaying},
	StatusQueue:     {StatusPlaying, StatusCompleted},
	StatusPlaying:   {StatusCompleted},
	StatusCompleted: {},
}

// failed charges may be retried, so failed is not terminal.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:       {PaymentCompleted, PaymentFailed},
	PaymentFailed:        {PaymentPending, PaymentCompleted},
	PaymentCompleted:     {},
	PaymentNotApplicable: {},
}

type SubmitInput struct {
	SongID          string          `json:"song_id"`
	UserName        string          `json:"user_name"`
	UserSocial      string          `json:"user_social"`
	Message         string          `json:"message"`
	SocialPlatforms SocialPlatforms `json:"social_platforms"`
}

// SubmitRequest validates a public submission, snapshots the song's title
// and price, and creates the request. The free/paid decision happens inside
// the store so it is atomic with the insert.
func (s *Service) SubmitRequest(ctx context.Context, in SubmitInput) (*Request, error) {
	in.SongID = strings.TrimSpace(in.SongID)
	in.UserName = strings.TrimSpace(in.UserName)
	in.UserSocial = strings.TrimSpace(in.UserSocial)

	if in.SongID == "" {
		return nil, errValidation("song_id is required")
	}
	if in.UserName == "" {
		return nil, errValidation("user_name is required")
	}
	handle := NormalizeHandle(in.UserSocial)
	if handle == "@" {
		return nil, errValidation("user_social is required")
	}
	priority := in.SocialPlatforms.Count()
	if priority == 0 {
		return nil, errValidation("follow the artist on at least one social network")
	}

	song, err := s.store.GetSong(ctx, in.SongID)
	if err != nil {
		return nil, err
	}
	price, err := PriceFor(song.Relevance)
	if err != nil {
		return nil, err
	}

	req := &Request{
		SongID:          song.ID,
		Song:            song.Title,
		UserName:        in.UserName,
		UserSocial:      handle,
		Message:         strings.TrimSpace(in.Message),
		SocialPlatforms: in.SocialPlatforms,
		Priority:        priority,
	}
	if err := s.store.CreateRequest(ctx, req, price); err != nil {
		return nil, err
	}
	return req, nil
}

// UpdateStatus applies an artist-triggered lifecycle transition. Re-applying
// the current status is a no-op success.
func (s *Service) UpdateStatus(ctx context.Context, id string, next Status) (*Request, error) {
	if !next.Valid() {
		return nil, errValidation("invalid status " + quote(string(next)))
	}
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == next {
		return req, nil
	}
	if !containsStatus(statusTransitions[req.Status], next) {
		return nil, errInvalidTransition("cannot move request from " + string(req.Status) + " to " + string(next))
	}
	if s.cfg.StrictPaymentGating && !req.IsFree && req.PaymentStatus != PaymentCompleted &&
		(next == StatusPlaying || next == StatusCompleted) {
		return nil, errInvalidTransition("payment is still " + string(req.PaymentStatus))
	}
	if err := s.store.SetStatus(ctx, id, next); err != nil {
		return nil, err
	}
	req.Status = next
	return req, nil
}

// UpdatePayment records the payment provider's outcome for a paid request.
func (s *Service) UpdatePayment(ctx context.Context, id string, next PaymentStatus) (*Request, error) {
	if !next.Valid() {
		return nil, errValidation("invalid payment_status " + quote(string(next)))
	}
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsFree {
		return nil, errValidation("free request has no payment to update")
	}
	if req.PaymentStatus == next {
		return req, nil
	}
	if !containsPayment(paymentTransitions[req.PaymentStatus], next) {
		return nil, errInvalidTransition("cannot move payment from " + string(req.PaymentStatus) + " to " + string(next))
	}
	if err := s.store.SetPaymentStatus(ctx, id, next); err != nil {
		return nil, err
	}
	req.PaymentStatus = next
	return req, nil
}

func (s *Service) LikeRequest(ctx context.Context, id string) (*Request, error) {
	return s.store.LikeRequest(ctx, id)
}

// DeleteRequest removes the request outright. Free eligibility stays
// consumed and nothing is refunded; a delete racing a status or payment
// update wins, the late update degrades to not-found.
func (s *Service) DeleteRequest(ctx context.Context, id string) error {
	return s.store.DeleteRequest(ctx, id)
}

// ActiveQueue returns the ranked pending/queue/playing set, optionally
// truncated (the public view shows the top 10).
func (s *Service) ActiveQueue(ctx context.Context, limit int) ([]Request, error) {
	reqs, err := s.store.ListRequests(ctx, ActiveStatuses)
	if err != nil {
		return nil, err
	}
	ranked := RankQueue(reqs)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ListRequests is the artist view: all statuses unless filtered, live
// entries first, ranked within each status bucket.
func (s *Service) ListRequests(ctx context.Context, statuses []Status, limit int) ([]Request, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, errValidation("invalid status " + quote(string(st)))
		}
	}
	reqs, err := s.store.ListRequests(ctx, statuses)
	if err != nil {
		return nil, err
	}
	ranked := RankForDisplay(reqs)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	reqs, err := s.store.ListRequests(ctx, nil)
	if err != nil {
		return nil, err
	}
	st := ComputeStats(reqs, s.now(), s.cfg.ActiveUserWindow)
	return &st, nil
}

// CheckFreeEligibility is the read-only probe the form uses while the user
// types; it never consumes the claim. Returns eligibility plus how many
// requests the handle has already submitted.
func (s *Service) CheckFreeEligibility(ctx context.Context, handle string) (bool, int, error) {
	h := NormalizeHandle(handle)
	if h == "@" {
		return false, 0, errValidation("handle is required")
	}
	free, err := s.store.HasFreeRequest(ctx, h)
	if err != nil {
		return false, 0, err
	}
	total, err := s.store.CountRequestsByHandle(ctx, h)
	if err != nil {
		return false, 0, err
	}
	return free, total, nil
}

func (s *Service) CreateSong(ctx context.Context, song *Song) error {
	song.Title = strings.TrimSpace(song.Title)
	song.Artist = strings.TrimSpace(song.Artist)
	song.Genre = strings.TrimSpace(song.Genre)
	if song.Title == "" || song.Artist == "" || song.Genre == "" {
		return errValidation("title, artist and genre are required")
	}
	if song.Relevance == "" {
		song.Relevance = RelevanceMedium
	}
	price, err := PriceFor(song.Relevance)
	if err != nil {
		return err
	}
	if err := s.store.CreateSong(ctx, song); err != nil {
		return err
	}
	song.Price = price
	return nil
}

func (s *Service) ListSongs(ctx context.Context) ([]Song, error) {
	return s.store.ListSongs(ctx)
}

func (s *Service) SearchSongs(ctx context.Context, query string) ([]Song, error) {
	if strings.TrimSpace(query) == "" {
		return []Song{}, nil
	}
	return s.store.SearchSongs(ctx, query)
}

func (s *Service) DeleteSong(ctx context.Context, id string) error {
	return s.store.DeleteSong(ctx, id)
}

func containsPayment(statuses []PaymentStatus, st PaymentStatus) bool {
	for _, v := range statuses {
		if v == st {
			return true
		}
	}
	return false
}
