package httpdto

import (
	"time"

	"fixitnow-chat/internal/domain"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{Success: true, Data: data}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{Success: false, Error: err, Code: code}
}

// MessageResponse mirrors the frame shape used on the websocket so history
// rows and live frames deserialize into the same client model.
type MessageResponse struct {
	ID      string    `json:"id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
}

func NewMessageResponse(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:      m.ID,
		From:    m.SenderID,
		To:      m.ReceiverID,
		Content: m.Content,
		SentAt:  m.SentAt,
	}
}

func NewMessageResponses(messages []domain.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

type PresenceResponse struct {
	UserID   string    `json:"userId"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen,omitempty"`
}
