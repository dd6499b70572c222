package app

import (
	"context"
	"errors"
	"strings"

	"minibnb/internal/domain"
)

type MessageService struct {
	convos   domain.ConversationRepository
	listings domain.ListingRepository
	authz    *Resolver
}

func NewMessageService(c domain.ConversationRepository, l domain.ListingRepository, authz *Resolver) *MessageService {
	return &MessageService{convos: c, listings: l, authz: authz}
}

// StartConversation returns the existing (listing, guest, host) conversation
// or creates it on first contact. A host cannot open a conversation on their
// own listing.
func (s *MessageService) StartConversation(ctx context.Context, actor *domain.User, listingID int64) (domain.Conversation, error) {
	if actor == nil {
		return domain.Conversation{}, domain.ErrUnauthenticated
	}
	l, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return domain.Conversation{}, err
	}
	if err := s.authz.CanContactListing(actor, l); err != nil {
		return domain.Conversation{}, err
	}

	c, err := s.convos.FindConversation(ctx, l.ID, actor.ID, l.HostID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Conversation{}, err
	}
	return s.convos.CreateConversation(ctx, domain.Conversation{
		ListingID: l.ID,
		GuestID:   actor.ID,
		HostID:    l.HostID,
	})
}

func (s *MessageService) ListConversations(ctx context.Context, actor *domain.User) ([]domain.ConversationSummary, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.convos.ListConversationsForUser(ctx, actor.ID)
}

func (s *MessageService) GetConversation(ctx context.Context, actor *domain.User, id int64) (domain.Conversation, error) {
	c, err := s.convos.GetConversation(ctx, id)
	if err != nil {
		return domain.Conversation{}, err
	}
	if err := s.authz.CanAccessConversation(ctx, actor, c); err != nil {
		return domain.Conversation{}, err
	}
	return c, nil
}

// Messages lists the conversation and marks the counterpart's messages read.
func (s *MessageService) Messages(ctx context.Context, actor *domain.User, conversationID int64) ([]domain.Message, error) {
	c, err := s.convos.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAccessConversation(ctx, actor, c); err != nil {
		return nil, err
	}
	msgs, err := s.convos.ListMessages(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if err := s.convos.MarkRead(ctx, c.ID, actor.ID); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *MessageService) Send(ctx context.Context, actor *domain.User, conversationID int64, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, domain.Validation(domain.CodeInvalidRange, "message content cannot be empty")
	}
	c, err := s.convos.GetConversation(ctx, conversationID)
	if err != nil {
		return domain.Message{}, err
	}
	if err := s.authz.CanAccessConversation(ctx, actor, c); err != nil {
		return domain.Message{}, err
	}
	return s.convos.CreateMessage(ctx, domain.Message{
		ConversationID: c.ID,
		SenderID:       actor.ID,
		Content:        content,
	})
}

func (s *MessageService) UnreadCount(ctx context.Context, actor *domain.User) (int, error) {
	if actor == nil {
		return 0, domain.ErrUnauthenticated
	}
	return s.convos.CountUnread(ctx, actor.ID)
}
