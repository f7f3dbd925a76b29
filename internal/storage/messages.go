package storage

import (
	"context"
	"fmt"

	"chapkhane/internal/shop"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, name, email, phone, subject, body, read, created_at`

func (r *MessageRepository) Save(ctx context.Context, m *shop.Message) error {
	const query = `
		INSERT INTO messages (` + messageColumns + `)
		VALUES (:id, :name, :email, :phone, :subject, :body, :read, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*shop.Message, error) {
	const query = `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	var m shop.Message
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, notFound("message", id, err)
	}
	return &m, nil
}

func (r *MessageRepository) List(ctx context.Context, unreadOnly bool) ([]shop.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages`
	if unreadOnly {
		query += ` WHERE NOT read`
	}
	query += ` ORDER BY created_at DESC`

	var list []shop.Message
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return list, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return requireAffected(res, "message", id)
}

func (r *MessageRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return requireAffected(res, "message", id)
}
