package domain

import "time"

type Listing struct {
	ID          int64
	HostID      int64
	Title       string
	Description string
	Address     string
	City        string
	Country     string
	PriceCents  int64 // nightly price in minor units
	MaxGuests   int
	Bedrooms    int
	Bathrooms   int
	Images      []string
	Amenities   []string
	Rules       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListingUpdate carries a partial edit; nil fields are left untouched.
type ListingUpdate struct {
	Title       *string
	Description *string
	Address     *string
	City        *string
	Country     *string
	PriceCents  *int64
	MaxGuests   *int
	Bedrooms    *int
	Bathrooms   *int
	Images      []string
	Amenities   []string
	Rules       *string
}

type ListingsQuery struct {
	City          *string
	Country       *string
	MinPriceCents *int64
	MaxPriceCents *int64
	MaxGuests     *int
	Limit         int
	Offset        int
}

type ListingsPage struct {
	Items []Listing
	Total int
}
