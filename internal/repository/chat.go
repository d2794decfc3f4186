package repository

import (
	"context"

	"eventify/internal/database"
	"eventify/internal/models"
)

type ChatRepository struct {
	db *database.DB
}

func NewChatRepository(db *database.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (sender_id, receiver_id, event_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at`

	return r.db.QueryRowContext(ctx, query,
		msg.SenderID,
		msg.ReceiverID,
		msg.EventID,
		msg.Message,
	).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt)
}

// ListByEventAndUser returns the thread between the user and their
// counterpart on one event, oldest first
func (r *ChatRepository) ListByEventAndUser(ctx context.Context, eventID, userID int64) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	query := `
		SELECT cm.id, cm.sender_id, cm.receiver_id, cm.event_id, cm.message,
		       cm.is_read, cm.created_at, s.name, rcv.name, e.name
		FROM chat_messages cm
		JOIN users s ON s.id = cm.sender_id
		JOIN users rcv ON rcv.id = cm.receiver_id
		JOIN events e ON e.id = cm.event_id
		WHERE cm.event_id = $1
		  AND (cm.sender_id = $2 OR cm.receiver_id = $2)
		ORDER BY cm.created_at`

	rows, err := r.db.QueryContext(ctx, query, eventID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var msg models.ChatMessage
		err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.ReceiverID,
			&msg.EventID,
			&msg.Message,
			&msg.IsRead,
			&msg.CreatedAt,
			&msg.SenderName,
			&msg.ReceiverName,
			&msg.EventName,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// ListConversations summarizes the user's threads, one row per
// (event, counterpart), newest activity first
func (r *ChatRepository) ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	var conversations []models.Conversation
	query := `
		SELECT DISTINCT ON (cm.event_id, counterpart.id)
		       cm.event_id, e.name, counterpart.id, counterpart.name,
		       cm.message, to_char(cm.created_at, 'YYYY-MM-DD"T"HH24:MI:SS'),
		       (SELECT COUNT(*) FROM chat_messages unread
		        WHERE unread.event_id = cm.event_id
		          AND unread.receiver_id = $1
		          AND unread.is_read = FALSE)
		FROM chat_messages cm
		JOIN events e ON e.id = cm.event_id
		JOIN users counterpart
		  ON counterpart.id = CASE WHEN cm.sender_id = $1 THEN cm.receiver_id ELSE cm.sender_id END
		WHERE cm.sender_id = $1 OR cm.receiver_id = $1
		ORDER BY cm.event_id, counterpart.id, cm.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Conversation
		err := rows.Scan(
			&c.EventID,
			&c.EventName,
			&c.CounterpartID,
			&c.CounterpartName,
			&c.LastMessage,
			&c.LastMessageTime,
			&c.UnreadCount,
		)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}

	return conversations, rows.Err()
}

// MarkRead marks the user's incoming messages for an event as read
func (r *ChatRepository) MarkRead(ctx context.Context, eventID, userID int64) error {
	query := `
		UPDATE chat_messages
		SET is_read = TRUE
		WHERE event_id = $1 AND receiver_id = $2 AND is_read = FALSE`

	_, err := r.db.ExecContext(ctx, query, eventID, userID)
	return err
}
