package models

import "time"

// Platform identifies the booking site a listing lives on.
type Platform string

const (
	PlatformAirbnb Platform = "airbnb"
	PlatformAgoda  Platform = "agoda"
)

// AvailabilityStatus is the persisted outcome of a listing's latest check.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "AVAILABLE"
	StatusUnavailable AvailabilityStatus = "UNAVAILABLE"
	StatusError       AvailabilityStatus = "ERROR"
	// StatusUnknown is the zero value for listings never checked before.
	StatusUnknown AvailabilityStatus = ""
)

// Listing is a read snapshot of a tracked accommodation, joined with the
// owner's notification credential. It is rebuilt from the store on every
// cycle and never mutated by the checker.
type Listing struct {
	ID       int64
	Name     string
	URL      string
	Platform Platform
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int

	LastStatus AvailabilityStatus

	OwnerID     int64
	NotifyToken string
}

// ListingCache is the per-listing state written back after every check.
type ListingCache struct {
	LastCheckAt time.Time
	LastStatus  AvailabilityStatus
	LastPrice   string
}

// CheckLog is one row of check history. ID is assigned by the store on
// append.
type CheckLog struct {
	ID        string
	ListingID int64
	Status    AvailabilityStatus
	Price     string
	Detail    string
	Notified  bool
	CheckedAt time.Time
}

// TransitionEvent is emitted when a listing flips from not-available to
// available. It carries everything a notification needs and is consumed
// immediately; nothing stores it.
type TransitionEvent struct {
	ListingID   int64
	ListingName string
	CheckIn     time.Time
	CheckOut    time.Time
	Price       string
	CheckURL    string
	OwnerID     int64
}
