package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PresenceStatus is the record mirrored into Redis for each user so the
// surrounding application can render online badges without reaching into the
// in-process session registry. The mirror is observational only: message
// delivery never consults it.
type PresenceStatus struct {
	UserID   string    `json:"user_id"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

// PresenceStore tracks presence records with a TTL in Redis.
type PresenceStore struct {
	client *goredis.Client
	ttl    time.Duration
}

const presenceKeyPrefix = "presence:"

func NewPresenceStore(client *goredis.Client, ttl time.Duration) *PresenceStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &PresenceStore{client: client, ttl: ttl}
}

// SetOnline marks a user as online. The entry expires after the TTL so a
// crashed server cannot leave users online forever.
func (p *PresenceStore) SetOnline(ctx context.Context, userID string) error {
	return p.set(ctx, PresenceStatus{
		UserID:   userID,
		IsOnline: true,
		LastSeen: time.Now().UTC(),
	})
}

// SetOffline marks a user as offline, keeping the last-seen timestamp around
// for the TTL window.
func (p *PresenceStore) SetOffline(ctx context.Context, userID string) error {
	return p.set(ctx, PresenceStatus{
		UserID:   userID,
		IsOnline: false,
		LastSeen: time.Now().UTC(),
	})
}

// Get returns the mirrored status for a user. A missing or expired entry
// reads as offline with a zero last-seen time.
func (p *PresenceStore) Get(ctx context.Context, userID string) (PresenceStatus, error) {
	data, err := p.client.Get(ctx, presenceKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return PresenceStatus{UserID: userID}, nil
		}
		return PresenceStatus{}, err
	}
	var status PresenceStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return PresenceStatus{}, err
	}
	return status, nil
}

func (p *PresenceStore) set(ctx context.Context, status PresenceStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, presenceKeyPrefix+status.UserID, data, p.ttl).Err()
}
