package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type uCoordinator interface {
	Register(ctx context.Context, connID, name string) *entity.Player
	CreateSession(ctx context.Context, connID, playerID, playerName, sessionName string) (entity.SessionSnapshot, error)
	JoinSession(ctx context.Context, connID, sessionID, playerID, playerName string) (entity.SessionSnapshot, error)
	MakeMove(ctx context.Context, connID, sessionID, playerID string, position int) error
	RequestSessionList(ctx context.Context, connID string)
	OnDisconnect(ctx context.Context, connID string)
}

type handlerFunc func(ctx context.Context, client *Client, message *Message) error

type Server struct {
	logger      *slog.Logger
	hub         *Hub
	coordinator uCoordinator
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

// New - allowedOrigins empty accepts any origin.
func New(logger *slog.Logger, hub *Hub, coordinator uCoordinator, allowedOrigins []string) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		hub:         hub,
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionRegister] = server.handleRegister
	server.handlers[actionCreateSession] = server.handleCreateSession
	server.handlers[actionJoinSession] = server.handleJoinSession
	server.handlers[actionMakeMove] = server.handleMakeMove
	server.handlers[actionRequestSessionList] = server.handleRequestSessionList

	return server
}

func (that *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/ws", that.serveWS)

	return router
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and runs it until the peer leaves.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err, "origin", req.Header.Get("Origin"))
		return
	}

	client := newClient(uuid.NewString(), conn)
	log = log.With("conn_id", client.id)

	that.hub.register(client)
	log.Info("WebSocket connection established")

	go func() {
		if writeErr := client.writePump(); writeErr != nil {
			log.Debug("write pump stopped", "error", writeErr)
		}
	}()

	ctx := req.Context()
	if readErr := client.readPump(func(data []byte) { that.handleMessage(ctx, client, data) }); readErr != nil {
		log.Warn("connection closed unexpectedly", "error", readErr)
	}

	// the session is settled before the queue closes, so nothing is sent to a dead client
	that.coordinator.OnDisconnect(context.WithoutCancel(ctx), client.id)
	that.hub.unregister(client)

	log.Info("WebSocket connection closed")
}

// handleMessage - decodes the envelope and dispatches it. Protocol errors go back to the caller only.
func (that *Server) handleMessage(ctx context.Context, client *Client, data []byte) {
	log := that.logger.With("method", "handleMessage", "conn_id", client.id)

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Debug("failed to unmarshal message", "error", err)
		that.sendError(client, "Malformed message")
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Debug("unknown action", "action", message.Action)
		that.sendError(client, "Unknown action: "+message.Action)
		return
	}

	if err := handler(ctx, client, &message); err != nil {
		log.Debug("error processing message", "action", message.Action, "error", err)
		that.sendError(client, "Invalid payload for "+message.Action)
	}
}

func (that *Server) sendError(client *Client, text string) {
	that.hub.SendTo(client.id, usecase.ErrorMessage{Message: text})
}

func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 {
		return func(*http.Request) bool { return true }
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.ToLower(strings.TrimRight(origin, "/"))] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// non-browser clients do not send an origin
			return true
		}

		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}
}
