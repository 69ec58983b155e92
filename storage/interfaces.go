package storage

import (
	"context"
	"time"

	"stayalert/models"
)

// Store is the persistence surface the batch runner depends on. The core
// never owns listing state; it reads a snapshot and writes results back
// through this interface.
type Store interface {
	// ListDueListings returns active listings whose stay has not started
	// yet (check-in on or after now), joined with the owner's
	// notification credential.
	ListDueListings(ctx context.Context, now time.Time) ([]models.Listing, error)

	// AppendCheckLog records one check outcome and assigns entry.ID.
	AppendCheckLog(ctx context.Context, entry *models.CheckLog) error

	// MarkLogNotified flips the notification-sent flag on a log entry.
	MarkLogNotified(ctx context.Context, logID string) error

	// UpdateListingCache writes the listing's last-check snapshot.
	UpdateListingCache(ctx context.Context, listingID int64, cache models.ListingCache) error
}
