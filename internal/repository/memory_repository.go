package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"fixitnow-chat/internal/domain"
	fixitnow_errors "fixitnow-chat/pkg/errors"

	"github.com/google/uuid"
)

// MemoryMessageRepository is an in-process MessageRepository. It backs tests
// and keeps the relay runnable without Postgres.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages []domain.Message
	lastAt   time.Time
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{}
}

func (r *MemoryMessageRepository) Create(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = uuid.NewString()
	// Timestamps must be non-decreasing in insertion order even when
	// inserts land within the clock's resolution.
	now := time.Now().UTC()
	if !now.After(r.lastAt) {
		now = r.lastAt.Add(time.Microsecond)
	}
	m.SentAt = now
	r.lastAt = now

	r.messages = append(r.messages, *m)
	return nil
}

func (r *MemoryMessageRepository) FindConversation(_ context.Context, a, b string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Message, 0)
	for _, m := range r.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (r *MemoryMessageRepository) FindByParticipant(_ context.Context, userID string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Message, 0)
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out, nil
}

// Len reports the number of stored messages.
func (r *MemoryMessageRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}

// MemoryUserRepository is an in-process UserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUserRepository(users ...domain.User) *MemoryUserRepository {
	r := &MemoryUserRepository{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *MemoryUserRepository) Add(u domain.User) {
	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return domain.User{}, fixitnow_errors.ErrNotFound
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, fixitnow_errors.ErrNotFound
}
