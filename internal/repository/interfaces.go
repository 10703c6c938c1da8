package repository

import (
	"context"

	"fixitnow-chat/internal/domain"
)

// MessageRepository is the message store. Create assigns the message its id
// and server timestamp before returning.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error

	// FindConversation returns every message exchanged between a and b, in
	// either direction, ascending by send timestamp.
	FindConversation(ctx context.Context, a, b string) ([]domain.Message, error)

	// FindByParticipant returns every message the user sent or received,
	// descending by send timestamp.
	FindByParticipant(ctx context.Context, userID string) ([]domain.Message, error)
}

// UserRepository is the read-only user directory.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}
