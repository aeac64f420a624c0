package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dispatch-console/internal/console/service"
	"dispatch-console/pkg/auth"
	"dispatch-console/pkg/logger"
	"dispatch-console/pkg/websocket"
)

const msgOpen = "open"

var (
	errForbidden  = errors.New("command requires the ADMIN role")
	errNoScreen   = errors.New("no screen open")
	errBadMessage = errors.New("invalid message format")
)

// Commands that write to the store are reserved for admins; dispatchers
// browse, select, export and broadcast.
var adminCommands = map[string]bool{
	service.CmdCreate:     true,
	service.CmdEdit:       true,
	service.CmdDelete:     true,
	service.CmdBulkDelete: true,
}

type envelope struct {
	Type   string `json:"type"`
	Screen string `json:"screen"`
}

type screensMessage struct {
	Type    string   `json:"type"`
	Screens []string `json:"screens"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Command string `json:"command,omitempty"`
	Message string `json:"message"`
}

// session is one websocket client. handle runs on the read pump goroutine
// only, so screen needs no lock; the screen itself serializes commands.
type session struct {
	h      *Handler
	conn   *websocket.Connection
	log    logger.Logger
	screen service.Screen
}

func (h *Handler) onConnect(conn *websocket.Connection) {
	s := &session{
		h:    h,
		conn: conn,
		log:  h.log.WithFields(logger.LogFields{"session_id": conn.ID, "user_id": conn.Claims.UserID}),
	}
	h.hub.Add(conn)
	conn.WriteJSON(screensMessage{Type: "screens", Screens: h.registry.Names()})
	conn.ReadPump(s.handle, func() { h.hub.Remove(conn.ID) })
}

func (s *session) handle(p []byte) {
	ctx, cancel := context.WithTimeout(auth.WithClaims(context.Background(), s.conn.Claims), requestTimeout)
	defer cancel()

	var env envelope
	if err := json.Unmarshal(p, &env); err != nil || env.Type == "" {
		s.fail("", errBadMessage)
		return
	}

	if env.Type == msgOpen {
		s.open(ctx, env.Screen)
		return
	}

	if s.screen == nil {
		s.fail(env.Type, errNoScreen)
		return
	}
	if adminCommands[env.Type] && !auth.HasRole(s.conn.Claims, auth.RoleAdmin) {
		s.fail(env.Type, errForbidden)
		return
	}

	var cmd service.Command
	if err := json.Unmarshal(p, &cmd); err != nil {
		s.fail(env.Type, fmt.Errorf("%w: %v", errBadMessage, err))
		return
	}
	reply, err := s.screen.Apply(ctx, cmd)
	if err != nil {
		s.fail(cmd.Type, err)
		return
	}
	s.conn.WriteJSON(reply)
}

// open replaces the session's screen with a fresh instance, so reopening a
// screen reloads it and drops the previous list state.
func (s *session) open(ctx context.Context, name string) {
	screen, err := s.h.registry.Open(ctx, name)
	if err != nil {
		s.fail(msgOpen, err)
		return
	}
	s.screen = screen
	s.conn.SetScreen(name)
	s.log.WithFields(logger.LogFields{"screen": name}).Info("screen_open", "Screen opened")
	s.conn.WriteJSON(service.Reply{Type: service.ReplyView, View: screen.View()})
}

func (s *session) fail(command string, err error) {
	status := errorStatus(err)
	if errors.Is(err, errNoScreen) || errors.Is(err, errBadMessage) {
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.WithFields(logger.LogFields{"command": command}).Error("console_command_failed", err)
	}
	s.conn.WriteJSON(errorMessage{
		Type:    "error",
		Code:    status,
		Command: command,
		Message: publicMessage(err, status),
	})
}
