package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"dispatch-console/pkg/auth"
	"dispatch-console/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Commands carry whole rows for create and edit.
	maxMessageSize = 64 << 10

	// Time allowed to send the auth message.
	authTime = 5 * time.Second

	sendBuffer = 64
)

var ErrConnectionClosed = errors.New("connection closed")

type wsErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type authRequest struct {
	Type  string `json:"type"`
	Token string `json:"message"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connection is one authenticated console session.
type Connection struct {
	ID     string
	Claims *auth.AppClaims

	conn       *websocket.Conn
	log        logger.Logger
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	writeMutex sync.Mutex

	mu     sync.RWMutex
	screen string
}

func newConnection(conn *websocket.Conn, log logger.Logger, claims *auth.AppClaims) *Connection {
	id := uuid.NewString()
	return &Connection{
		ID:     id,
		Claims: claims,
		conn:   conn,
		log:    log.WithFields(logger.LogFields{"session_id": id, "user_id": claims.UserID}),
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Screen is the screen the session currently has open, "" before open.
func (c *Connection) Screen() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.screen
}

func (c *Connection) SetScreen(name string) {
	c.mu.Lock()
	c.screen = name
	c.mu.Unlock()
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			if err := c.write(websocket.TextMessage, message); err != nil {
				c.log.Error("websocket_write", err)
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.log.Error("websocket_ping", err)
				return
			}
		case <-c.done:
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Connection) write(mt int, payload []byte) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(mt, payload)
}

// WriteJSON queues v for the write pump. It never blocks; a session that
// cannot keep up gets an error.
func (c *Connection) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		err := errors.New("send buffer full")
		c.log.Error("websocket_send_buffer_full", err)
		return err
	}
}

// ReadPump delivers text frames to onMessage until the peer goes away, then
// calls onDisconnect. It blocks.
func (c *Connection) ReadPump(onMessage func(p []byte), onDisconnect func()) {
	defer func() {
		onDisconnect()
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Error("websocket_read_error", err)
			} else {
				c.log.Info("websocket_disconnect", "Client disconnected")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		onMessage(msg)
	}
}

func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		// Give the write pump a moment to send the close frame.
		time.AfterFunc(writeWait/10, func() { c.conn.Close() })
	})
}

// Handler upgrades the request, runs the auth handshake and hands the
// session to onConnect. The first frame must be
// {"type":"auth","message":"Bearer <jwt>"} and arrive within authTime.
type Handler struct {
	log        logger.Logger
	jwtManager *auth.JWTManager
	onConnect  func(conn *Connection)
	roles      []auth.Role
}

func NewHandler(log logger.Logger, jwtManager *auth.JWTManager, onConnect func(conn *Connection), roles ...auth.Role) *Handler {
	return &Handler{
		log:        log,
		jwtManager: jwtManager,
		onConnect:  onConnect,
		roles:      roles,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket_upgrade_failed", err)
		return
	}

	claims, err := h.authenticate(conn)
	if err != nil {
		sendErrorAndClose(conn, err.Error())
		return
	}

	h.log.WithFields(logger.LogFields{"user_id": claims.UserID, "role": claims.Role}).Info("websocket_auth_success", "Client authenticated")
	conn.SetReadDeadline(time.Time{})

	wsConn := newConnection(conn, h.log, claims)
	go wsConn.writePump()
	go h.onConnect(wsConn)
}

func (h *Handler) authenticate(conn *websocket.Conn) (*auth.AppClaims, error) {
	conn.SetReadDeadline(time.Now().Add(authTime))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		h.log.Error("websocket_auth_timeout", err)
		return nil, errors.New("authentication timeout")
	}

	var req authRequest
	if err := json.Unmarshal(msg, &req); err != nil || req.Type != "auth" || req.Token == "" {
		h.log.Error("websocket_auth_format_error", errors.New("invalid auth message format"))
		return nil, errors.New("invalid authentication request format")
	}

	claims, err := h.jwtManager.ParseToken(strings.TrimPrefix(req.Token, "Bearer "))
	if err != nil {
		h.log.Error("websocket_auth_token_invalid", err)
		return nil, errors.New("invalid or expired token")
	}

	if len(h.roles) > 0 && !auth.HasRole(claims, h.roles...) {
		h.log.WithFields(logger.LogFields{
			"user_id":  claims.UserID,
			"got_role": claims.Role,
		}).Error("websocket_auth_role_mismatch", errors.New("invalid role"))
		return nil, errors.New("insufficient role")
	}
	return claims, nil
}

func sendErrorAndClose(conn *websocket.Conn, msg string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteJSON(wsErrorResponse{
		Type:    "error",
		Message: msg,
	})
	conn.Close()
}
