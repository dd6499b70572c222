package domain

import "context"

type UserRepository interface {
	// GetUser loads a user with its current grant count; role derivation
	// needs both, fresh per request.
	GetUser(ctx context.Context, id int64) (User, error)
	UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (User, error)
	SetHost(ctx context.Context, id int64) (User, error)
}

type ListingRepository interface {
	GetListing(ctx context.Context, id int64) (Listing, error)
	ListListings(ctx context.Context, q ListingsQuery) (ListingsPage, error)
	ListListingsByHost(ctx context.Context, hostID int64) ([]Listing, error)
	ListListingsByIDs(ctx context.Context, ids []int64) ([]Listing, error)
	CreateListing(ctx context.Context, l Listing) (Listing, error)
	UpdateListing(ctx context.Context, id int64, upd ListingUpdate) (Listing, error)
	DeleteListing(ctx context.Context, id int64) error
}

type BookingRepository interface {
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookingsForGuest(ctx context.Context, guestID int64) ([]Booking, error)
	ListBookingsForHost(ctx context.Context, hostID int64) ([]Booking, error)
	ListBookingsForListing(ctx context.Context, listingID int64, statuses []BookingStatus) ([]Booking, error)
	// CreateBooking must re-check date conflicts and insert as one atomic
	// unit (listing row lock), returning a DATE_CONFLICT ConflictError when
	// an active booking overlaps.
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status BookingStatus) (Booking, error)
}

type CohostRepository interface {
	GetPermission(ctx context.Context, id int64) (CohostPermission, error)
	// FindPermission returns ErrNotFound when the user holds no grant on the
	// listing.
	FindPermission(ctx context.Context, listingID, cohostID int64) (CohostPermission, error)
	ListPermissionsForHost(ctx context.Context, hostID int64) ([]CohostPermission, error)
	ListPermissionsForCohost(ctx context.Context, cohostID int64) ([]CohostPermission, error)
	CreatePermission(ctx context.Context, p CohostPermission) (CohostPermission, error)
	UpdatePermission(ctx context.Context, id int64, upd CohostUpdate) (CohostPermission, error)
	DeletePermission(ctx context.Context, id int64) error
}

type ConversationRepository interface {
	GetConversation(ctx context.Context, id int64) (Conversation, error)
	FindConversation(ctx context.Context, listingID, guestID, hostID int64) (Conversation, error)
	CreateConversation(ctx context.Context, c Conversation) (Conversation, error)
	ListConversationsForUser(ctx context.Context, userID int64) ([]ConversationSummary, error)
	ListMessages(ctx context.Context, conversationID int64) ([]Message, error)
	CreateMessage(ctx context.Context, m Message) (Message, error)
	// MarkRead stamps read_at on all unread messages in the conversation not
	// sent by the reader.
	MarkRead(ctx context.Context, conversationID, readerID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPattern(ctx context.Context, pattern string) error
}
