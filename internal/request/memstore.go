package request

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps the whole event in process memory. It backs local
// development (no DATABASE_URL) and the test suite; everything goes through
// one mutex, so the free-claim check-and-mark and the request insert are a
// single atomic unit, same as the Postgres transaction.
type MemoryStore struct {
	mu         sync.Mutex
	songs      []Song
	requests   []Request
	freeClaims map[string]bool
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		freeClaims: make(map[string]bool),
		now:        time.Now,
	}
}

// WithNowFunc overrides the time source for tests.
func (s *MemoryStore) WithNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) CreateSong(_ context.Context, song *Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	song.ID = uuid.NewString()
	song.CreatedAt = s.now()
	song.Price, _ = PriceFor(song.Relevance)
	s.songs = append(s.songs, *song)
	return nil
}

func (s *MemoryStore) ListSongs(_ context.Context) ([]Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Song, len(s.songs))
	copy(out, s.songs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *MemoryStore) SearchSongs(_ context.Context, query string) ([]Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	out := make([]Song, 0)
	for _, song := range s.songs {
		if strings.Contains(strings.ToLower(song.Title), q) || strings.Contains(strings.ToLower(song.Artist), q) {
			out = append(out, song)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *MemoryStore) GetSong(_ context.Context, id string) (*Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, song := range s.songs {
		if song.ID == id {
			out := song
			return &out, nil
		}
	}
	return nil, errNotFound("song not found")
}

func (s *MemoryStore) DeleteSong(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, song := range s.songs {
		if song.ID == id {
			s.songs = append(s.songs[:i], s.songs[i+1:]...)
			return nil
		}
	}
	return errNotFound("song not found")
}

func (s *MemoryStore) CreateRequest(_ context.Context, req *Request, paidPrice Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.freeClaims[req.UserSocial] {
		s.freeClaims[req.UserSocial] = true
		req.IsFree = true
		req.PricePaid = 0
		req.PaymentStatus = PaymentNotApplicable
	} else {
		req.IsFree = false
		req.PricePaid = paidPrice
		req.PaymentStatus = PaymentPending
	}
	req.ID = uuid.NewString()
	req.Status = StatusPending
	req.CreatedAt = s.now()
	s.requests = append(s.requests, *req)
	return nil
}

func (s *MemoryStore) GetRequest(_ context.Context, id string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		out := s.requests[i]
		return &out, nil
	}
	return nil, errNotFound("request not found")
}

func (s *MemoryStore) ListRequests(_ context.Context, statuses []Status) ([]Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, 0, len(s.requests))
	for _, req := range s.requests {
		if len(statuses) == 0 || containsStatus(statuses, req.Status) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *MemoryStore) SetStatus(_ context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.requests[i].Status = status
		return nil
	}
	return errNotFound("request not found")
}

func (s *MemoryStore) SetPaymentStatus(_ context.Context, id string, status PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.requests[i].PaymentStatus = status
		return nil
	}
	return errNotFound("request not found")
}

func (s *MemoryStore) LikeRequest(_ context.Context, id string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.requests[i].Likes++
		out := s.requests[i]
		return &out, nil
	}
	return nil, errNotFound("request not found")
}

func (s *MemoryStore) DeleteRequest(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.requests = append(s.requests[:i], s.requests[i+1:]...)
		return nil
	}
	return errNotFound("request not found")
}

func (s *MemoryStore) HasFreeRequest(_ context.Context, handle string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.freeClaims[handle], nil
}

func (s *MemoryStore) CountRequestsByHandle(_ context.Context, handle string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, req := range s.requests {
		if req.UserSocial == handle {
			total++
		}
	}
	return total, nil
}

func (s *MemoryStore) indexOf(id string) int {
	for i := range s.requests {
		if s.requests[i].ID == id {
			return i
		}
	}
	return -1
}

func containsStatus(statuses []Status, st Status) bool {
	for _, v := range statuses {
		if v == st {
			return true
		}
	}
	return false
}
