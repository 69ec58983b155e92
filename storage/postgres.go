package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"stayalert/models"
)

// Postgres implements Store on top of lib/pq.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection, waits for the database to come up, and
// runs schema migrations.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return p, nil
}

func (p *Postgres) migrate() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                 BIGSERIAL PRIMARY KEY,
			email              TEXT        UNIQUE NOT NULL,
			kakao_access_token TEXT        NOT NULL DEFAULT '',
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS listings (
			id            BIGSERIAL PRIMARY KEY,
			owner_id      BIGINT      NOT NULL REFERENCES users(id),
			name          TEXT        NOT NULL,
			url           TEXT        NOT NULL,
			platform      VARCHAR(50) NOT NULL,
			check_in      DATE        NOT NULL,
			check_out     DATE        NOT NULL,
			guests        INT         NOT NULL DEFAULT 2,
			active        BOOLEAN     NOT NULL DEFAULT TRUE,
			last_status   VARCHAR(20) NOT NULL DEFAULT '',
			last_price    TEXT        NOT NULL DEFAULT '',
			last_check_at TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS check_logs (
			id         UUID        PRIMARY KEY,
			listing_id BIGINT      NOT NULL REFERENCES listings(id),
			status     VARCHAR(20) NOT NULL,
			price      TEXT        NOT NULL DEFAULT '',
			detail     TEXT        NOT NULL DEFAULT '',
			notified   BOOLEAN     NOT NULL DEFAULT FALSE,
			checked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_active   ON listings(active, check_in);
		CREATE INDEX IF NOT EXISTS idx_check_logs_listing ON check_logs(listing_id, checked_at);
	`)
	return err
}

// ListDueListings returns active listings whose check-in is on or after
// now, joined with each owner's Kakao credential.
func (p *Postgres) ListDueListings(ctx context.Context, now time.Time) ([]models.Listing, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.url, l.platform, l.check_in, l.check_out,
		       l.guests, l.last_status, l.owner_id, u.kakao_access_token
		FROM listings l
		JOIN users u ON u.id = l.owner_id
		WHERE l.active AND l.check_in >= $1
		ORDER BY l.id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("postgres: list due listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(
			&l.ID, &l.Name, &l.URL, &l.Platform, &l.CheckIn, &l.CheckOut,
			&l.Guests, &l.LastStatus, &l.OwnerID, &l.NotifyToken,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// AppendCheckLog inserts one check outcome and assigns entry.ID.
func (p *Postgres) AppendCheckLog(ctx context.Context, entry *models.CheckLog) error {
	entry.ID = uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO check_logs (id, listing_id, status, price, detail, notified, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.ListingID, entry.Status, entry.Price, entry.Detail, entry.Notified, entry.CheckedAt)
	if err != nil {
		return fmt.Errorf("postgres: append check log: %w", err)
	}
	return nil
}

// MarkLogNotified flips the notification-sent flag on a log entry.
func (p *Postgres) MarkLogNotified(ctx context.Context, logID string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE check_logs SET notified = TRUE WHERE id = $1`, logID)
	if err != nil {
		return fmt.Errorf("postgres: mark log notified: %w", err)
	}
	return nil
}

// UpdateListingCache writes the listing's last-check snapshot.
func (p *Postgres) UpdateListingCache(ctx context.Context, listingID int64, cache models.ListingCache) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE listings
		SET last_check_at = $2, last_status = $3, last_price = $4
		WHERE id = $1
	`, listingID, cache.LastCheckAt, cache.LastStatus, cache.LastPrice)
	if err != nil {
		return fmt.Errorf("postgres: update listing cache: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
