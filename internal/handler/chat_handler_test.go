package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fixitnow-chat/config"
	"fixitnow-chat/internal/domain"
	"fixitnow-chat/internal/middleware"
	"fixitnow-chat/internal/repository"
	"fixitnow-chat/internal/services"
	"fixitnow-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	engine *gin.Engine
	auth   *services.AuthService
	chats  *services.ChatService
	users  *repository.MemoryUserRepository
}

func newHandlerFixture() handlerFixture {
	gin.SetMode(gin.TestMode)

	users := repository.NewMemoryUserRepository(
		domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		domain.User{ID: "u2", Name: "Bob", Email: "bob@example.com"},
	)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryMin: 10}
	auth := services.NewAuthService(users, cfg)
	chats := services.NewChatService(repository.NewMemoryMessageRepository(), users)

	h := NewChatHandler(chats, nil)
	engine := gin.New()
	chat := engine.Group("/api/chat", middleware.AuthMiddleware(auth))
	{
		chat.GET("/history", h.History)
		chat.GET("/conversations", h.Conversations)
		chat.GET("/presence", h.Presence)
	}

	return handlerFixture{engine: engine, auth: auth, chats: chats, users: users}
}

func (f handlerFixture) get(t *testing.T, path string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		u, err := f.users.GetByID(context.Background(), "u1")
		require.NoError(t, err)
		token, err := f.auth.IssueAccessToken(u)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestChatHandler_RequiresAuth(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture()

	for _, path := range []string{
		"/api/chat/history?userA=u1&userB=u2",
		"/api/chat/conversations?userId=u1",
	} {
		rec := f.get(t, path, false)
		req.Equal(http.StatusUnauthorized, rec.Code, path)
	}
}

func TestChatHandler_History(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture()

	_, err := f.chats.SaveMessage(context.Background(), "u1", "u2", "hello")
	req.NoError(err)
	_, err = f.chats.SaveMessage(context.Background(), "u2", "u1", "hi back")
	req.NoError(err)

	rec := f.get(t, "/api/chat/history?userA=u1&userB=u2", true)
	req.Equal(http.StatusOK, rec.Code)

	var body httpdto.Response[[]httpdto.MessageResponse]
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	req.True(body.Success)
	req.Len(body.Data, 2)
	req.Equal("hello", body.Data[0].Content)
	req.Equal("u1", body.Data[0].From)
	req.Equal("hi back", body.Data[1].Content)
}

func TestChatHandler_HistoryRequiresBothUsers(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture()

	rec := f.get(t, "/api/chat/history?userA=u1", true)
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestChatHandler_Conversations(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture()

	_, err := f.chats.SaveMessage(context.Background(), "u2", "u1", "need a plumber")
	req.NoError(err)

	rec := f.get(t, "/api/chat/conversations?userId=u1", true)
	req.Equal(http.StatusOK, rec.Code)

	var body httpdto.Response[[]domain.ConversationSummary]
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	req.True(body.Success)
	req.Len(body.Data, 1)
	req.Equal("u2", body.Data[0].PeerID)
	req.Equal("Bob", body.Data[0].PeerName)
	req.Equal("need a plumber", body.Data[0].LastMessage)
}

func TestChatHandler_ConversationsRequiresUserId(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture()

	rec := f.get(t, "/api/chat/conversations", true)
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestChatHandler_PresenceWithoutMirror(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture()

	rec := f.get(t, "/api/chat/presence?userId=u1", true)
	req.Equal(http.StatusNotFound, rec.Code)
}
