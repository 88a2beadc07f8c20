package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type uLobby interface {
	Lobby() []entity.SessionSnapshot
	Session(id string) (entity.SessionSnapshot, error)
}

type resultArchive interface {
	GetByID(ctx context.Context, id string) (entity.SessionSnapshot, error)
	RecentResults(ctx context.Context, limit int) ([]entity.GameResult, error)
}

type Server struct {
	logger       *slog.Logger
	lobby        uLobby
	archive      resultArchive
	resultsLimit int
}

// New - resultsLimit caps /api/results when the caller passes no limit.
func New(logger *slog.Logger, lobby uLobby, archive resultArchive, resultsLimit int) *Server {
	return &Server{
		logger:       logger.With("component", "rest"),
		lobby:        lobby,
		archive:      archive,
		resultsLimit: resultsLimit,
	}
}

func (that *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(that.logger))
	router.Use(middleware.Recoverer)

	router.Get("/ping", that.PingHandler)

	router.Route("/api", func(api chi.Router) {
		api.Get("/sessions", that.listSessions)
		api.Get("/sessions/{id}", that.getSession)
		api.Get("/results", that.listResults)
	})

	return router
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown http server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
