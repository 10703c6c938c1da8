package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"fixitnow-chat/internal/domain"
	chatredis "fixitnow-chat/internal/redis"
	"fixitnow-chat/internal/services"
	"fixitnow-chat/pkg/logger"
)

// Relay drives one authenticated connection through its lifetime: register on
// open, persist and fan out every inbound frame, deregister on close. It is
// transport-agnostic; the handler feeds it raw payloads.
type Relay struct {
	registry  *Registry
	chats     *services.ChatService
	presence  *chatredis.PresenceStore
	logger    *logger.Logger
	opTimeout time.Duration
}

func NewRelay(registry *Registry, chats *services.ChatService, presence *chatredis.PresenceStore, l *logger.Logger, opTimeout time.Duration) *Relay {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &Relay{
		registry:  registry,
		chats:     chats,
		presence:  presence,
		logger:    l,
		opTimeout: opTimeout,
	}
}

// Open registers the connection under its authenticated user and sends the
// connect acknowledgment. A previous connection for the same user is closed:
// one live session per user, last connection wins.
func (r *Relay) Open(ctx context.Context, user domain.User, conn Conn) error {
	if prev := r.registry.Register(user.ID, conn); prev != nil {
		_ = prev.Close()
		r.logger.Infof("superseded previous connection for user %s", user.ID)
	}

	if r.presence != nil {
		if err := r.presence.SetOnline(ctx, user.ID); err != nil {
			r.logger.Warnf("presence set online failed for user %s: %s", user.ID, err)
		}
	}

	ack, err := json.Marshal(connectedFrame())
	if err != nil {
		return err
	}
	return conn.Send(ack)
}

// HandleInbound processes one frame from an open connection. Malformed or
// incomplete frames are dropped without a reply; a failed persist is logged
// and the loop carries on. Delivery only happens after the persist succeeds.
func (r *Relay) HandleInbound(ctx context.Context, senderID string, raw []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		r.logger.Debugf("dropping malformed frame from user %s: %s", senderID, err)
		return
	}
	if frame.To == "" || strings.TrimSpace(frame.Content) == "" {
		r.logger.Debugf("dropping incomplete frame from user %s", senderID)
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	saved, err := r.chats.SaveMessage(opCtx, senderID, frame.To, frame.Content)
	if err != nil {
		r.logger.Errorf("persist message from %s to %s failed: %s", senderID, frame.To, err)
		return
	}

	out := MessageFrame{
		ID:      saved.ID,
		From:    saved.SenderID,
		To:      saved.ReceiverID,
		Content: saved.Content,
		SentAt:  saved.SentAt,
	}

	// Recipient copy never carries the correlation token; it is meaningless
	// outside the sender's client.
	if conn, ok := r.registry.Lookup(saved.ReceiverID); ok && conn.IsOpen() {
		payload, err := json.Marshal(out)
		if err == nil {
			if err := conn.Send(payload); err != nil {
				r.logger.Warnf("deliver to user %s failed: %s", saved.ReceiverID, err)
			}
		}
	}

	// Echo back to the sender so an optimistically rendered message can be
	// reconciled with the durable id.
	out.TempID = frame.TempID
	if conn, ok := r.registry.Lookup(saved.SenderID); ok && conn.IsOpen() {
		payload, err := json.Marshal(out)
		if err == nil {
			if err := conn.Send(payload); err != nil {
				r.logger.Warnf("echo to user %s failed: %s", saved.SenderID, err)
			}
		}
	}
}

// Close deregisters the connection. Matching is by connection identity, so a
// stale connection closing late cannot evict a newer session. Returns the
// user id that was removed, if any.
func (r *Relay) Close(ctx context.Context, conn Conn) (string, bool) {
	userID, ok := r.registry.RemoveByConn(conn)
	if !ok {
		return "", false
	}
	if r.presence != nil {
		if err := r.presence.SetOffline(ctx, userID); err != nil {
			r.logger.Warnf("presence set offline failed for user %s: %s", userID, err)
		}
	}
	return userID, true
}
