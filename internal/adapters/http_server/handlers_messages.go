package httpserver

import (
	"net/http"
	"time"

	"minibnb/internal/domain"
)

type conversationDTO struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	GuestID   int64     `json:"guest_id"`
	HostID    int64     `json:"host_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type conversationSummaryDTO struct {
	conversationDTO
	ListingTitle  string `json:"listing_title"`
	OtherUserName string `json:"other_user_name"`
	UnreadCount   int    `json:"unread_count"`
}

type messageDTO struct {
	ID             int64      `json:"id"`
	ConversationID int64      `json:"conversation_id"`
	SenderID       int64      `json:"sender_id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	ReadAt         *time.Time `json:"read_at"`
	SenderName     *string    `json:"sender_name,omitempty"`
	SenderRole     *string    `json:"sender_role,omitempty"`
}

func toConversationDTO(c domain.Conversation) conversationDTO {
	return conversationDTO{
		ID:        c.ID,
		ListingID: c.ListingID,
		GuestID:   c.GuestID,
		HostID:    c.HostID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toMessageDTO(m domain.Message) messageDTO {
	return messageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
		ReadAt:         m.ReadAt,
		SenderName:     m.SenderName,
		SenderRole:     m.SenderRole,
	}
}

func (h *Handlers) listConversations(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Messages.ListConversations(r.Context(), Actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]conversationSummaryDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, conversationSummaryDTO{
			conversationDTO: toConversationDTO(c.Conversation),
			ListingTitle:    c.ListingTitle,
			OtherUserName:   c.OtherUserName,
			UnreadCount:     c.UnreadCount,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type startConversationRequest struct {
	ListingID int64 `json:"listing_id"`
}

func (h *Handlers) startConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ListingID <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid conversation", "listing_id is required")
		return
	}
	c, err := h.Messages.StartConversation(r.Context(), Actor(r), req.ListingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toConversationDTO(c))
}

func (h *Handlers) getConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	c, err := h.Messages.GetConversation(r.Context(), Actor(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversationDTO(c))
}

func (h *Handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	ms, err := h.Messages.Messages(r.Context(), Actor(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]messageDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMessageDTO(m))
	}
	writeJSON(w, http.StatusOK, out)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (h *Handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := h.Messages.Send(r.Context(), Actor(r), id, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageDTO(m))
}

func (h *Handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Messages.UnreadCount(r.Context(), Actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": n})
}
