package repository

import (
	"context"
	"time"

	"fixitnow-chat/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *domain.Message) error {
	m.ID = uuid.NewString()
	m.SentAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages (message_id, sender_id, receiver_id, content, sent_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.SenderID, m.ReceiverID, m.Content, m.SentAt)
	return err
}

func (r *PostgresMessageRepository) FindConversation(ctx context.Context, a, b string) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT message_id, sender_id, receiver_id, content, sent_at
		 FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY sent_at ASC`,
		a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *PostgresMessageRepository) FindByParticipant(ctx context.Context, userID string) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT message_id, sender_id, receiver_id, content, sent_at
		 FROM messages
		 WHERE sender_id = $1 OR receiver_id = $1
		 ORDER BY sent_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]domain.Message, error) {
	messages := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.SentAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
