package domain

import "time"

// CohostPermission is a capability grant from a host to another user on one
// listing. One row per (listing, cohost) pair, enforced by a unique key.
type CohostPermission struct {
	ID                 int64
	ListingID          int64
	HostID             int64
	CohostID           int64
	CanEditListing     bool
	CanManageBookings  bool
	CanRespondMessages bool
	CreatedAt          time.Time
}

type CohostUpdate struct {
	CanEditListing     *bool
	CanManageBookings  *bool
	CanRespondMessages *bool
}
