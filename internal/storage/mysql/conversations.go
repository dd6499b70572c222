package mysql

import (
	"context"
	"database/sql"
	"errors"

	"minibnb/internal/domain"
)

func scanConversation(row interface{ Scan(...any) error }) (domain.Conversation, error) {
	var c domain.Conversation
	if err := row.Scan(
		&c.ID,
		&c.ListingID,
		&c.GuestID,
		&c.HostID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Conversation{}, domain.ErrNotFound
		}
		return domain.Conversation{}, err
	}
	return c, nil
}

func (r *Repo) GetConversation(ctx context.Context, id int64) (domain.Conversation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, listing_id, guest_id, host_id, created_at, updated_at FROM conversations WHERE id = ?", id)
	return scanConversation(row)
}

func (r *Repo) FindConversation(ctx context.Context, listingID, guestID, hostID int64) (domain.Conversation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, listing_id, guest_id, host_id, created_at, updated_at
		 FROM conversations WHERE listing_id = ? AND guest_id = ? AND host_id = ?`,
		listingID, guestID, hostID)
	return scanConversation(row)
}

func (r *Repo) CreateConversation(ctx context.Context, c domain.Conversation) (domain.Conversation, error) {
	res, err := r.db.ExecContext(ctx, insertConversationSQL, c.ListingID, c.GuestID, c.HostID)
	if err != nil {
		// A concurrent first-contact lost the race on the unique triple;
		// the existing row is the right answer.
		if isDupEntry(err) {
			return r.FindConversation(ctx, c.ListingID, c.GuestID, c.HostID)
		}
		return domain.Conversation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Conversation{}, err
	}
	return r.GetConversation(ctx, id)
}

func (r *Repo) ListConversationsForUser(ctx context.Context, userID int64) ([]domain.ConversationSummary, error) {
	rows, err := r.db.QueryContext(ctx, listConversationsSQL, userID, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConversationSummary
	for rows.Next() {
		var cs domain.ConversationSummary
		if err := rows.Scan(
			&cs.ID, &cs.ListingID, &cs.GuestID, &cs.HostID, &cs.CreatedAt, &cs.UpdatedAt,
			&cs.ListingTitle, &cs.OtherUserName, &cs.UnreadCount,
		); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (r *Repo) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, listMessagesSQL, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		var readAt sql.NullTime
		var senderName, senderRole sql.NullString
		if err := rows.Scan(
			&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt, &readAt,
			&senderName, &senderRole,
		); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			m.ReadAt = &t
		}
		m.SenderName = strPtr(senderName)
		m.SenderRole = strPtr(senderRole)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) CreateMessage(ctx context.Context, m domain.Message) (domain.Message, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, sender_id, content) VALUES (?, ?, ?)",
		m.ConversationID, m.SenderID, m.Content)
	if err != nil {
		return domain.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Message{}, err
	}

	// A new message bumps the conversation so inboxes sort it first.
	if _, err := r.db.ExecContext(ctx,
		"UPDATE conversations SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", m.ConversationID); err != nil {
		return domain.Message{}, err
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT id, conversation_id, sender_id, content, created_at, read_at FROM messages WHERE id = ?", id)
	var out domain.Message
	var readAt sql.NullTime
	if err := row.Scan(&out.ID, &out.ConversationID, &out.SenderID, &out.Content, &out.CreatedAt, &readAt); err != nil {
		return domain.Message{}, err
	}
	if readAt.Valid {
		t := readAt.Time
		out.ReadAt = &t
	}
	return out, nil
}

func (r *Repo) MarkRead(ctx context.Context, conversationID, readerID int64) error {
	_, err := r.db.ExecContext(ctx, markReadSQL, conversationID, readerID)
	return err
}

func (r *Repo) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countUnreadSQL, userID, userID, userID).Scan(&n)
	return n, err
}
