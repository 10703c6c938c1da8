package websocket

import "time"

// InboundFrame is what a client sends while its connection is open. TempID is
// an optional client-side correlation token; a nil pointer means it was
// absent from the payload.
type InboundFrame struct {
	To      string  `json:"to"`
	Content string  `json:"content"`
	TempID  *string `json:"tempId,omitempty"`
}

// SystemFrame is a server-originated notice. The only one currently emitted
// is the connect acknowledgment.
type SystemFrame struct {
	System  bool   `json:"system"`
	Message string `json:"message"`
}

func connectedFrame() SystemFrame {
	return SystemFrame{System: true, Message: "connected"}
}

// MessageFrame is the delivered/echoed form of a persisted message. TempID is
// only present on the copy sent back to the original sender, and only if the
// inbound frame carried one.
type MessageFrame struct {
	ID      string    `json:"id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
	TempID  *string   `json:"tempId,omitempty"`
}
