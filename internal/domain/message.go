package domain

import "time"

// Message is one persisted chat message between two users. The store assigns
// ID and SentAt on create; a message is immutable afterwards.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"from"`
	ReceiverID string    `json:"to"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sentAt"`
}

// ConversationSummary is a derived view: one row per chat partner of a user,
// carrying that partner's most recent message. Never persisted.
type ConversationSummary struct {
	PeerID      string    `json:"peerId"`
	PeerName    string    `json:"peerName"`
	LastMessage string    `json:"lastMessage"`
	LastAt      time.Time `json:"lastAt"`
}
