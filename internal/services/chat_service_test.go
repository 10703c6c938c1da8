package services

import (
	"context"
	"testing"

	"fixitnow-chat/internal/domain"
	"fixitnow-chat/internal/repository"
	fixitnow_errors "fixitnow-chat/pkg/errors"

	"github.com/stretchr/testify/require"
)

func newChatFixture() (*ChatService, *repository.MemoryMessageRepository, *repository.MemoryUserRepository) {
	users := repository.NewMemoryUserRepository(
		domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		domain.User{ID: "u2", Name: "Bob", Email: "bob@example.com"},
		domain.User{ID: "u3", Name: "Carol", Email: "carol@example.com"},
	)
	messages := repository.NewMemoryMessageRepository()
	return NewChatService(messages, users), messages, users
}

func send(t *testing.T, chats *ChatService, from, to, content string) domain.Message {
	t.Helper()
	m, err := chats.SaveMessage(context.Background(), from, to, content)
	require.NoError(t, err)
	return m
}

func TestChatService_SaveMessageAssignsIdentity(t *testing.T) {
	req := require.New(t)
	chats, _, _ := newChatFixture()

	m := send(t, chats, "u1", "u2", "  hello  ")
	req.NotEmpty(m.ID)
	req.False(m.SentAt.IsZero())
	req.Equal("hello", m.Content) // trimmed
	req.Equal("u1", m.SenderID)
	req.Equal("u2", m.ReceiverID)
}

func TestChatService_SaveMessageValidation(t *testing.T) {
	req := require.New(t)
	chats, messages, _ := newChatFixture()

	cases := []struct {
		from, to, content string
		wantErr           error
	}{
		{"", "u2", "hi", fixitnow_errors.ErrInvalidInput},
		{"u1", "", "hi", fixitnow_errors.ErrInvalidInput},
		{"u1", "u2", "   ", fixitnow_errors.ErrInvalidInput},
		{"ghost", "u2", "hi", fixitnow_errors.ErrNotFound},
		{"u1", "ghost", "hi", fixitnow_errors.ErrNotFound},
	}
	for _, tc := range cases {
		_, err := chats.SaveMessage(context.Background(), tc.from, tc.to, tc.content)
		req.ErrorIs(err, tc.wantErr)
	}
	req.Equal(0, messages.Len())
}

func TestChatService_HistoryIsBidirectionalAndAscending(t *testing.T) {
	req := require.New(t)
	chats, _, _ := newChatFixture()

	send(t, chats, "u1", "u2", "first")
	send(t, chats, "u2", "u1", "second")
	send(t, chats, "u1", "u3", "unrelated")
	send(t, chats, "u1", "u2", "third")

	history, err := chats.History(context.Background(), "u1", "u2")
	req.NoError(err)
	req.Len(history, 3)
	req.Equal("first", history[0].Content)
	req.Equal("second", history[1].Content)
	req.Equal("third", history[2].Content)
	for i := 1; i < len(history); i++ {
		req.False(history[i].SentAt.Before(history[i-1].SentAt))
	}

	// Same transcript regardless of argument order.
	reversed, err := chats.History(context.Background(), "u2", "u1")
	req.NoError(err)
	req.Equal(history, reversed)
}

func TestChatService_ConversationsOnePerPeerMostRecentFirst(t *testing.T) {
	req := require.New(t)
	chats, _, _ := newChatFixture()

	send(t, chats, "u1", "u2", "hi bob")
	send(t, chats, "u3", "u1", "hi from carol")
	send(t, chats, "u2", "u1", "hi alice")
	last := send(t, chats, "u1", "u2", "still there?")

	summaries, err := chats.Conversations(context.Background(), "u1")
	req.NoError(err)
	req.Len(summaries, 2)

	// Bob is the most recently active peer and his entry carries the
	// latest message in that pairing.
	req.Equal("u2", summaries[0].PeerID)
	req.Equal("Bob", summaries[0].PeerName)
	req.Equal("still there?", summaries[0].LastMessage)
	req.Equal(last.SentAt, summaries[0].LastAt)

	req.Equal("u3", summaries[1].PeerID)
	req.Equal("Carol", summaries[1].PeerName)
	req.Equal("hi from carol", summaries[1].LastMessage)
}

func TestChatService_ConversationsSkipsDanglingPeers(t *testing.T) {
	req := require.New(t)

	users := repository.NewMemoryUserRepository(
		domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		domain.User{ID: "u2", Name: "Bob", Email: "bob@example.com"},
	)
	messages := repository.NewMemoryMessageRepository()
	chats := NewChatService(messages, users)

	send(t, chats, "u1", "u2", "hello")

	// A row whose peer no longer resolves is skipped, not surfaced.
	req.NoError(messages.Create(context.Background(), &domain.Message{
		SenderID: "deleted-user", ReceiverID: "u1", Content: "orphaned",
	}))

	summaries, err := chats.Conversations(context.Background(), "u1")
	req.NoError(err)
	req.Len(summaries, 1)
	req.Equal("u2", summaries[0].PeerID)
}

func TestChatService_ConversationsEmpty(t *testing.T) {
	req := require.New(t)
	chats, _, _ := newChatFixture()

	summaries, err := chats.Conversations(context.Background(), "u1")
	req.NoError(err)
	req.Empty(summaries)
}
