package services

import (
	"context"
	"errors"
	"strings"

	"fixitnow-chat/internal/domain"
	"fixitnow-chat/internal/repository"
	fixitnow_errors "fixitnow-chat/pkg/errors"
)

// ChatService owns message persistence and the read paths over it.
type ChatService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewChatService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *ChatService {
	return &ChatService{messageRepo: messageRepo, userRepo: userRepo}
}

// SaveMessage persists one message. Both endpoints must resolve to existing
// users; the store assigns id and timestamp.
func (s *ChatService) SaveMessage(ctx context.Context, senderID, receiverID, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if senderID == "" || receiverID == "" || content == "" {
		return domain.Message{}, fixitnow_errors.ErrInvalidInput
	}

	if _, err := s.userRepo.GetByID(ctx, senderID); err != nil {
		return domain.Message{}, err
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return domain.Message{}, err
	}

	m := domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, &m); err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

// History returns the full bidirectional transcript between two users,
// ascending by send timestamp.
func (s *ChatService) History(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	if userA == "" || userB == "" {
		return nil, fixitnow_errors.ErrInvalidInput
	}
	return s.messageRepo.FindConversation(ctx, userA, userB)
}

// Conversations returns one summary per distinct peer the user has messaged
// with, most recently active peer first. The scan walks messages newest
// first, so the first sighting of a peer carries its latest message.
func (s *ChatService) Conversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	if userID == "" {
		return nil, fixitnow_errors.ErrInvalidInput
	}

	messages, err := s.messageRepo.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	summaries := make([]domain.ConversationSummary, 0)
	for _, m := range messages {
		var peerID string
		switch userID {
		case m.SenderID:
			peerID = m.ReceiverID
		case m.ReceiverID:
			peerID = m.SenderID
		default:
			continue
		}
		if peerID == "" {
			continue
		}
		if _, ok := seen[peerID]; ok {
			continue
		}

		peer, err := s.userRepo.GetByID(ctx, peerID)
		if err != nil {
			if errors.Is(err, fixitnow_errors.ErrNotFound) {
				// Dangling reference, skip the row.
				continue
			}
			return nil, err
		}

		seen[peerID] = struct{}{}
		summaries = append(summaries, domain.ConversationSummary{
			PeerID:      peer.ID,
			PeerName:    peer.Name,
			LastMessage: m.Content,
			LastAt:      m.SentAt,
		})
	}
	return summaries, nil
}
