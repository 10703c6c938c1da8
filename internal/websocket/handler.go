package websocket

import (
	"context"
	"net/http"
	"strings"
	"time"

	"fixitnow-chat/internal/services"
	"fixitnow-chat/internal/transport/httpdto"
	"fixitnow-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler gates the upgrade from HTTP to a chat connection and runs the read
// loop for its lifetime.
type Handler struct {
	auth      *services.AuthService
	relay     *Relay
	logger    *logger.Logger
	opTimeout time.Duration
	upgrader  websocket.Upgrader
}

func NewHandler(auth *services.AuthService, relay *Relay, l *logger.Logger, opTimeout time.Duration) *Handler {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &Handler{
		auth:      auth,
		relay:     relay,
		logger:    l,
		opTimeout: opTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The marketplace frontend is served from a different origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect authenticates the pending connection and, on success, upgrades it
// and pumps frames until the transport closes. Authentication failure refuses
// the upgrade before any connection state exists.
func (h *Handler) Connect(c *gin.Context) {
	token := extractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	authCtx, cancel := context.WithTimeout(c.Request.Context(), h.opTimeout)
	user, err := h.auth.Authenticate(authCtx, token)
	cancel()
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	conn := newWSConn(raw)
	ctx := context.Background()

	if err := h.relay.Open(ctx, user, conn); err != nil {
		h.logger.Errorf("open connection for user %s failed: %s", user.ID, err)
		_, _ = h.relay.Close(ctx, conn)
		_ = conn.Close()
		return
	}
	h.logger.Infof("chat connection established for user %s", user.ID)

	pingDone := make(chan struct{})
	go h.pingLoop(conn, pingDone)

	h.readLoop(ctx, user.ID, raw, conn)

	close(pingDone)
	if userID, ok := h.relay.Close(ctx, conn); ok {
		h.logger.Infof("chat connection closed for user %s", userID)
	}
	_ = conn.Close()
}

func (h *Handler) readLoop(ctx context.Context, userID string, raw *websocket.Conn, conn *wsConn) {
	raw.SetReadLimit(maxMessageSize)
	_ = raw.SetReadDeadline(time.Now().Add(pongWait))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warnf("read from user %s failed: %s", userID, err)
			}
			return
		}
		_ = raw.SetReadDeadline(time.Now().Add(pongWait))
		h.relay.HandleInbound(ctx, userID, payload)
	}
}

func (h *Handler) pingLoop(conn *wsConn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

// extractToken pulls the bearer credential from the Authorization header,
// falling back to the token query parameter for browser websocket clients
// that cannot set headers.
func extractToken(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	if value != "" {
		parts := strings.SplitN(value, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(c.Query("token"))
}
