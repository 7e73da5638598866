package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/repository"
)

type conversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) AppendSystemMessage(ctx context.Context, conversationID int32, body string) error {
	query := `INSERT INTO conversation_messages (conversation_id, body, is_system, created_on)
	          VALUES ($1, $2, TRUE, $3)`
	_, err := r.db.ExecContext(ctx, query, conversationID, body, time.Now())
	return err
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	attrs, err := json.Marshal(note.Attributes)
	if err != nil {
		return err
	}
	query := `INSERT INTO notifications (profile_id, title, message, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, FALSE, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, note.ProfileID, note.Title, note.Message, attrs, time.Now()).Scan(&note.ID)
}
