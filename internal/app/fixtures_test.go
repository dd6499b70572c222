package app_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"minibnb/internal/domain"
)

// ---- shared in-memory fakes ----

// store backs every repository port with maps. CreateBooking takes the same
// lock as the conflict scan so the atomicity contract of the real repository
// holds here too.
type store struct {
	mu sync.Mutex

	users    map[int64]domain.User
	listings map[int64]domain.Listing
	bookings map[int64]domain.Booking
	perms    map[int64]domain.CohostPermission
	convos   map[int64]domain.Conversation
	messages map[int64]domain.Message

	nextID int64
}

func newStore() *store {
	return &store{
		users:    map[int64]domain.User{},
		listings: map[int64]domain.Listing{},
		bookings: map[int64]domain.Booking{},
		perms:    map[int64]domain.CohostPermission{},
		convos:   map[int64]domain.Conversation{},
		messages: map[int64]domain.Message{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) addUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = u
	return u
}

func (s *store) addListing(l domain.Listing) domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.id()
	}
	s.listings[l.ID] = l
	return l
}

func (s *store) addBooking(b domain.Booking) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.id()
	}
	s.bookings[b.ID] = b
	return b
}

func (s *store) addPerm(p domain.CohostPermission) domain.CohostPermission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.perms[p.ID] = p
	return p
}

// ---- UserRepository ----

func (s *store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	n := 0
	for _, p := range s.perms {
		if p.CohostID == id {
			n++
		}
	}
	u.GrantCount = n
	return u, nil
}

func (s *store) UpdateProfile(ctx context.Context, id int64, upd domain.ProfileUpdate) (domain.User, error) {
	s.mu.Lock()
	u, ok := s.users[id]
	if !ok {
		s.mu.Unlock()
		return domain.User{}, domain.ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	s.users[id] = u
	s.mu.Unlock()
	return s.GetUser(ctx, id)
}

func (s *store) SetHost(ctx context.Context, id int64) (domain.User, error) {
	s.mu.Lock()
	u, ok := s.users[id]
	if !ok {
		s.mu.Unlock()
		return domain.User{}, domain.ErrNotFound
	}
	u.IsHost = true
	s.users[id] = u
	s.mu.Unlock()
	return s.GetUser(ctx, id)
}

// ---- ListingRepository ----

func (s *store) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, nil
}

func (s *store) ListListings(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, l := range s.listings {
		if q.City != nil && !strings.Contains(l.City, *q.City) {
			continue
		}
		out = append(out, l)
	}
	return domain.ListingsPage{Items: out, Total: len(out)}, nil
}

func (s *store) ListListingsByHost(ctx context.Context, hostID int64) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, l := range s.listings {
		if l.HostID == hostID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *store) ListListingsByIDs(ctx context.Context, ids []int64) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, id := range ids {
		if l, ok := s.listings[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *store) CreateListing(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	return s.addListing(l), nil
}

func (s *store) UpdateListing(ctx context.Context, id int64, upd domain.ListingUpdate) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrNotFound
	}
	if upd.Title != nil {
		l.Title = *upd.Title
	}
	if upd.PriceCents != nil {
		l.PriceCents = *upd.PriceCents
	}
	if upd.MaxGuests != nil {
		l.MaxGuests = *upd.MaxGuests
	}
	s.listings[id] = l
	return l, nil
}

func (s *store) DeleteListing(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.listings, id)
	return nil
}

// ---- BookingRepository ----

func (s *store) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *store) ListBookingsForGuest(ctx context.Context, guestID int64) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.GuestID == guestID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *store) ListBookingsForHost(ctx context.Context, hostID int64) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Booking
	for _, b := range s.bookings {
		if l, ok := s.listings[b.ListingID]; ok && l.HostID == hostID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *store) ListBookingsForListing(ctx context.Context, listingID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingsForListingLocked(listingID, statuses), nil
}

func (s *store) bookingsForListingLocked(listingID int64, statuses []domain.BookingStatus) []domain.Booking {
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.ListingID != listingID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, st := range statuses {
				if b.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

func (s *store) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[b.ListingID]; !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	for _, other := range s.bookingsForListingLocked(b.ListingID, domain.ActiveStatuses) {
		if domain.Overlaps(b.CheckIn, b.CheckOut, other.CheckIn, other.CheckOut) {
			return domain.Booking{}, domain.Conflict(domain.CodeDateConflict, "requested dates are not available")
		}
	}
	if b.ID == 0 {
		b.ID = s.id()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	s.bookings[b.ID] = b
	return b, nil
}

func (s *store) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	s.bookings[id] = b
	return b, nil
}

// ---- CohostRepository ----

func (s *store) GetPermission(ctx context.Context, id int64) (domain.CohostPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.perms[id]
	if !ok {
		return domain.CohostPermission{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *store) FindPermission(ctx context.Context, listingID, cohostID int64) (domain.CohostPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.perms {
		if p.ListingID == listingID && p.CohostID == cohostID {
			return p, nil
		}
	}
	return domain.CohostPermission{}, domain.ErrNotFound
}

func (s *store) ListPermissionsForHost(ctx context.Context, hostID int64) ([]domain.CohostPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CohostPermission
	for _, p := range s.perms {
		if p.HostID == hostID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *store) ListPermissionsForCohost(ctx context.Context, cohostID int64) ([]domain.CohostPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CohostPermission
	for _, p := range s.perms {
		if p.CohostID == cohostID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *store) CreatePermission(ctx context.Context, p domain.CohostPermission) (domain.CohostPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.perms {
		if other.ListingID == p.ListingID && other.CohostID == p.CohostID {
			return domain.CohostPermission{}, domain.Conflict(domain.CodeDuplicateGrant, "duplicate grant")
		}
	}
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.perms[p.ID] = p
	return p, nil
}

func (s *store) UpdatePermission(ctx context.Context, id int64, upd domain.CohostUpdate) (domain.CohostPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.perms[id]
	if !ok {
		return domain.CohostPermission{}, domain.ErrNotFound
	}
	if upd.CanEditListing != nil {
		p.CanEditListing = *upd.CanEditListing
	}
	if upd.CanManageBookings != nil {
		p.CanManageBookings = *upd.CanManageBookings
	}
	if upd.CanRespondMessages != nil {
		p.CanRespondMessages = *upd.CanRespondMessages
	}
	s.perms[id] = p
	return p, nil
}

func (s *store) DeletePermission(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.perms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.perms, id)
	return nil
}

// ---- ConversationRepository ----

func (s *store) GetConversation(ctx context.Context, id int64) (domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convos[id]
	if !ok {
		return domain.Conversation{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *store) FindConversation(ctx context.Context, listingID, guestID, hostID int64) (domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.convos {
		if c.ListingID == listingID && c.GuestID == guestID && c.HostID == hostID {
			return c, nil
		}
	}
	return domain.Conversation{}, domain.ErrNotFound
}

func (s *store) CreateConversation(ctx context.Context, c domain.Conversation) (domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.convos[c.ID] = c
	return c, nil
}

func (s *store) ListConversationsForUser(ctx context.Context, userID int64) ([]domain.ConversationSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ConversationSummary
	for _, c := range s.convos {
		if c.GuestID != userID && c.HostID != userID {
			continue
		}
		unread := 0
		for _, m := range s.messages {
			if m.ConversationID == c.ID && m.SenderID != userID && m.ReadAt == nil {
				unread++
			}
		}
		out = append(out, domain.ConversationSummary{Conversation: c, UnreadCount: unread})
	}
	return out, nil
}

func (s *store) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *store) CreateMessage(ctx context.Context, m domain.Message) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.id()
	}
	m.CreatedAt = time.Now()
	s.messages[m.ID] = m
	if c, ok := s.convos[m.ConversationID]; ok {
		c.UpdatedAt = m.CreatedAt
		s.convos[m.ConversationID] = c
	}
	return m, nil
}

func (s *store) MarkRead(ctx context.Context, conversationID, readerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, m := range s.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && m.ReadAt == nil {
			m.ReadAt = &now
			s.messages[id] = m
		}
	}
	return nil
}

func (s *store) CountUnread(ctx context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.messages {
		c, ok := s.convos[m.ConversationID]
		if !ok {
			continue
		}
		if (c.GuestID == userID || c.HostID == userID) && m.SenderID != userID && m.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

// ---- Cache fake ----

type fakeCache struct {
	mu    sync.Mutex
	items map[string]any
	sets  int
	dels  int
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[string]any{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Listing:
		*d = v.(domain.Listing)
	case *domain.ListingsPage:
		*d = v.(domain.ListingsPage)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = v
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	c.dels++
	return nil
}

func (c *fakeCache) DelPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
			c.dels++
		}
	}
	return nil
}

// ---- helpers ----

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
