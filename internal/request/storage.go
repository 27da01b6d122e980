package request

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	// Songs
	CreateSong(ctx context.Context, song *Song) error
	ListSongs(ctx context.Context) ([]Song, error)
	SearchSongs(ctx context.Context, query string) ([]Song, error)
	GetSong(ctx context.Context, id string) (*Song, error)
	DeleteSong(ctx context.Context, id string) error

	// CreateRequest persists req and consumes the handle's one-time free
	// claim as a single atomic unit. When the claim is granted the request
	// is stored free with no payment; otherwise it is stored at paidPrice
	// with payment pending. Fills ID, IsFree, PricePaid, PaymentStatus,
	// Status and CreatedAt.
	CreateRequest(ctx context.Context, req *Request, paidPrice Money) error
	GetRequest(ctx context.Context, id string) (*Request, error)
	// ListRequests returns a consistent snapshot filtered to the given
	// statuses (nil means all), unranked.
	ListRequests(ctx context.Context, statuses []Status) ([]Request, error)
	SetStatus(ctx context.Context, id string, status Status) error
	SetPaymentStatus(ctx context.Context, id string, status PaymentStatus) error
	LikeRequest(ctx context.Context, id string) (*Request, error)
	DeleteRequest(ctx context.Context, id string) error

	// Eligibility
	HasFreeRequest(ctx context.Context, handle string) (bool, error)
	CountRequestsByHandle(ctx context.Context, handle string) (int, error)
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS songs(
            id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
            title TEXT NOT NULL,
            artist TEXT NOT NULL,
            genre TEXT NOT NULL,
            relevance TEXT NOT NULL DEFAULT 'medium',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `); err != nil {
		return err
	}
	// song_id carries no FK: requests must outlive catalog deletions so the
	// stats history stays intact. Song title and price are snapshotted.
	if _, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS requests(
            id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
            song_id TEXT NOT NULL,
            song_title TEXT NOT NULL,
            user_name TEXT NOT NULL,
            user_social TEXT NOT NULL,
            message TEXT NOT NULL DEFAULT '',
            instagram BOOLEAN NOT NULL DEFAULT false,
            tiktok BOOLEAN NOT NULL DEFAULT false,
            youtube BOOLEAN NOT NULL DEFAULT false,
            priority INT NOT NULL DEFAULT 0,
            likes INT NOT NULL DEFAULT 0,
            is_free BOOLEAN NOT NULL DEFAULT false,
            price_paid BIGINT NOT NULL DEFAULT 0,
            payment_status TEXT NOT NULL DEFAULT 'pending',
            status TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS free_claims(
            handle TEXT PRIMARY KEY,
            claimed_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status)`); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_requests_user_social ON requests(user_social)`); err != nil {
		return err
	}
	return nil
}

const songColumns = `id, title, artist, genre, relevance, created_at`

const requestColumns = `id, song_id, song_title, user_name, user_social, message,
       instagram, tiktok, youtube, priority, likes,
       is_free, price_paid, payment_status, status, created_at`

func (s *PostgresStore) CreateSong(ctx context.Context, song *Song) error {
	return s.pool.QueryRow(ctx, `
        INSERT INTO songs(title, artist, genre, relevance)
        VALUES($1, $2, $3, $4)
        RETURNING id, created_at
    `, song.Title, song.Artist, song.Genre, string(song.Relevance)).Scan(&song.ID, &song.CreatedAt)
}

func (s *PostgresStore) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+songColumns+` FROM songs ORDER BY title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSongs(rows)
}

func (s *PostgresStore) SearchSongs(ctx context.Context, query string) ([]Song, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+songColumns+`
        FROM songs
        WHERE title ILIKE '%' || $1 || '%' OR artist ILIKE '%' || $1 || '%'
        ORDER BY title ASC
    `, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSongs(rows)
}

func (s *PostgresStore) GetSong(ctx context.Context, id string) (*Song, error) {
	if !isUUID(id) {
		return nil, errNotFound("song not found")
	}
	var song Song
	err := s.pool.QueryRow(ctx, `SELECT `+songColumns+` FROM songs WHERE id=$1`, id).Scan(
		&song.ID, &song.Title, &song.Artist, &song.Genre, &song.Relevance, &song.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound("song not found")
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *PostgresStore) DeleteSong(ctx context.Context, id string) error {
	if !isUUID(id) {
		return errNotFound("song not found")
	}
	res, err := s.pool.Exec(ctx, `DELETE FROM songs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("song not found")
	}
	return nil
}

func (s *PostgresStore) CreateRequest(ctx context.Context, req *Request, paidPrice Money) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// One row per handle; the insert that sticks wins the free claim.
	// Concurrent submissions from the same handle serialize on the primary
	// key, so at most one is ever stored free.
	tag, err := tx.Exec(ctx, `
        INSERT INTO free_claims(handle) VALUES($1)
        ON CONFLICT (handle) DO NOTHING
    `, req.UserSocial)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		req.IsFree = true
		req.PricePaid = 0
		req.PaymentStatus = PaymentNotApplicable
	} else {
		req.IsFree = false
		req.PricePaid = paidPrice
		req.PaymentStatus = PaymentPending
	}
	req.Status = StatusPending

	err = tx.QueryRow(ctx, `
        INSERT INTO requests(
            song_id, song_title, user_name, user_social, message,
            instagram, tiktok, youtube, priority,
            is_free, price_paid, payment_status, status
        )
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at
    `,
		req.SongID, req.Song, req.UserName, req.UserSocial, req.Message,
		req.SocialPlatforms.Instagram, req.SocialPlatforms.TikTok, req.SocialPlatforms.YouTube,
		req.Priority,
		req.IsFree, int64(req.PricePaid), string(req.PaymentStatus), string(req.Status),
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetRequest(ctx context.Context, id string) (*Request, error) {
	if !isUUID(id) {
		return nil, errNotFound("request not found")
	}
	row := s.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id=$1`, id)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound("request not found")
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PostgresStore) ListRequests(ctx context.Context, statuses []Status) ([]Request, error) {
	var rows pgx.Rows
	var err error
	if len(statuses) == 0 {
		rows, err = s.pool.Query(ctx, `SELECT `+requestColumns+` FROM requests ORDER BY created_at ASC, id ASC`)
	} else {
		filter := make([]string, len(statuses))
		for i, st := range statuses {
			filter[i] = string(st)
		}
		rows, err = s.pool.Query(ctx, `
            SELECT `+requestColumns+`
            FROM requests
            WHERE status = ANY($1)
            ORDER BY created_at ASC, id ASC
        `, filter)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id string, status Status) error {
	if !isUUID(id) {
		return errNotFound("request not found")
	}
	res, err := s.pool.Exec(ctx, `UPDATE requests SET status=$2 WHERE id=$1`, id, string(status))
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("request not found")
	}
	return nil
}

func (s *PostgresStore) SetPaymentStatus(ctx context.Context, id string, status PaymentStatus) error {
	if !isUUID(id) {
		return errNotFound("request not found")
	}
	res, err := s.pool.Exec(ctx, `UPDATE requests SET payment_status=$2 WHERE id=$1`, id, string(status))
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("request not found")
	}
	return nil
}

func (s *PostgresStore) LikeRequest(ctx context.Context, id string) (*Request, error) {
	if !isUUID(id) {
		return nil, errNotFound("request not found")
	}
	row := s.pool.QueryRow(ctx, `
        UPDATE requests SET likes = likes + 1
        WHERE id=$1
        RETURNING `+requestColumns+`
    `, id)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound("request not found")
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PostgresStore) DeleteRequest(ctx context.Context, id string) error {
	if !isUUID(id) {
		return errNotFound("request not found")
	}
	res, err := s.pool.Exec(ctx, `DELETE FROM requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("request not found")
	}
	return nil
}

func (s *PostgresStore) HasFreeRequest(ctx context.Context, handle string) (bool, error) {
	var claimed bool
	err := s.pool.QueryRow(ctx, `
        SELECT EXISTS(SELECT 1 FROM free_claims WHERE handle=$1)
    `, handle).Scan(&claimed)
	if err != nil {
		return false, err
	}
	return !claimed, nil
}

func (s *PostgresStore) CountRequestsByHandle(ctx context.Context, handle string) (int, error) {
	var total int
	err := s.pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM requests WHERE user_social=$1
    `, handle).Scan(&total)
	return total, err
}

func scanSongs(rows pgx.Rows) ([]Song, error) {
	out := make([]Song, 0)
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Genre, &song.Relevance, &song.CreatedAt); err != nil {
			return nil, err
		}
		song.Price, _ = PriceFor(song.Relevance)
		out = append(out, song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	var price int64
	var payment, status string
	err := row.Scan(
		&req.ID, &req.SongID, &req.Song, &req.UserName, &req.UserSocial, &req.Message,
		&req.SocialPlatforms.Instagram, &req.SocialPlatforms.TikTok, &req.SocialPlatforms.YouTube,
		&req.Priority, &req.Likes,
		&req.IsFree, &price, &payment, &status, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.PricePaid = Money(price)
	req.PaymentStatus = PaymentStatus(payment)
	req.Status = Status(status)
	return &req, nil
}

// Malformed ids come straight from URLs; treat them as absent rows rather
// than letting the uuid cast error surface as a 500.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
