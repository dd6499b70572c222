package domain

import "time"

// Conversation ties a guest to a listing's host. Unique per
// (listing, guest, host) triple; created lazily on first contact.
type Conversation struct {
	ID        int64
	ListingID int64
	GuestID   int64
	HostID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConversationSummary is the inbox row: the conversation plus display fields
// resolved against listings/users.
type ConversationSummary struct {
	Conversation
	ListingTitle  string
	OtherUserName string
	UnreadCount   int
}

type Message struct {
	ID             int64
	ConversationID int64
	SenderID       int64
	Content        string
	CreatedAt      time.Time
	ReadAt         *time.Time
	SenderName     *string
	SenderRole     *string
}
