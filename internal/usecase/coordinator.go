package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/registry"
)

const (
	sessionCodeLength  = 6
	defaultFinishedTTL = 5 * time.Minute
)

type notifier interface {
	SendTo(connID string, event Event)
	SendToGroup(group string, event Event)
	Broadcast(event Event)

	AddToGroup(connID, group string)
	RemoveFromGroup(connID, group string)
	RemoveGroup(group string)
}

type sessionArchive interface {
	Save(ctx context.Context, snapshot entity.SessionSnapshot) error
	SaveResult(ctx context.Context, result entity.GameResult) error
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Coordinator - every operation a connected client can trigger.
//
// Events for a session group are sent while the session is locked, so both participants
// see them in the order the session changed. Lobby broadcasts go out after the lock is released,
// one at a time, each listing computed when it is sent. Archive writes also happen unlocked.
type Coordinator struct {
	logger *slog.Logger

	lobbyMu sync.Mutex

	registry *registry.Registry
	notifier notifier
	archive  sessionArchive
	clock    Clock

	finishedTTL time.Duration
}

type Option func(*Coordinator)

func WithClock(clock Clock) Option {
	return func(that *Coordinator) {
		that.clock = clock
	}
}

// WithFinishedTTL - how long a finished session stays registered before SweepFinished drops it.
func WithFinishedTTL(ttl time.Duration) Option {
	return func(that *Coordinator) {
		that.finishedTTL = ttl
	}
}

func NewCoordinator(
	logger *slog.Logger,
	reg *registry.Registry,
	notifier notifier,
	archive sessionArchive,
	opts ...Option,
) *Coordinator {
	coordinator := &Coordinator{
		logger: logger.With("component", "coordinator"),

		registry: reg,
		notifier: notifier,
		archive:  archive,
		clock:    systemClock{},

		finishedTTL: defaultFinishedTTL,
	}

	for _, opt := range opts {
		opt(coordinator)
	}

	return coordinator
}

// Register - creates a player for the connection and sends it the lobby.
func (that *Coordinator) Register(_ context.Context, connID, name string) *entity.Player {
	log := that.logger.With("method", "Register")

	player := entity.NewPlayer(strings.TrimSpace(name), connID)
	log.Debug("player registered", "player_id", player.ID, "conn_id", connID)

	that.notifier.SendTo(connID, Registered{Player: player})
	that.notifier.SendTo(connID, SessionListUpdated{Sessions: that.registry.ListAvailable()})

	return player
}

// CreateSession - opens a waiting session hosted by the caller.
func (that *Coordinator) CreateSession(ctx context.Context, connID, playerID, playerName, sessionName string) (entity.SessionSnapshot, error) {
	log := that.logger.With("method", "CreateSession")

	if strings.TrimSpace(playerID) == "" {
		return entity.SessionSnapshot{}, that.reject(connID, apperror.ErrPlayerRequired)
	}

	if strings.TrimSpace(sessionName) == "" {
		sessionName = playerName + "'s Game"
	}

	previous, wasBound := that.registry.BoundSession(connID)

	now := that.clock.Now()
	host := &entity.Player{
		ID:           playerID,
		Name:         playerName,
		ConnectionID: connID,
		ConnectedAt:  now,
	}

	var session *entity.Session
	for {
		session = entity.NewSession(newSessionCode(), sessionName, host, now)
		session.Lock()

		// the session stays locked until the host is grouped and notified
		if that.registry.Register(session) {
			break
		}

		session.Unlock()
	}

	that.registry.Bind(connID, session.ID())
	that.notifier.AddToGroup(connID, session.ID())

	snapshot := session.Snapshot()
	that.notifier.SendTo(connID, SessionCreated{Session: snapshot})
	session.Unlock()

	that.save(ctx, snapshot)

	log.Info("session created", "session_id", snapshot.ID, "player_id", playerID)

	if wasBound {
		that.abandon(ctx, previous, connID)
	}

	that.broadcastLobby()

	return snapshot, nil
}

// JoinSession - seats the caller as guest and starts the game.
func (that *Coordinator) JoinSession(ctx context.Context, connID, sessionID, playerID, playerName string) (entity.SessionSnapshot, error) {
	log := that.logger.With("method", "JoinSession")

	if strings.TrimSpace(playerID) == "" {
		return entity.SessionSnapshot{}, that.reject(connID, apperror.ErrPlayerRequired)
	}

	session, ok := that.registry.Lookup(sessionID)
	if !ok {
		return entity.SessionSnapshot{}, that.reject(connID, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID))
	}

	previous, wasBound := that.registry.BoundSession(connID)

	guest := &entity.Player{
		ID:           playerID,
		Name:         playerName,
		ConnectionID: connID,
		ConnectedAt:  that.clock.Now(),
	}

	session.Lock()
	if err := session.Join(guest); err != nil {
		session.Unlock()
		return entity.SessionSnapshot{}, that.reject(connID, err)
	}

	that.registry.Bind(connID, session.ID())
	that.notifier.AddToGroup(connID, session.ID())

	snapshot := session.Snapshot()
	that.notifier.SendToGroup(session.ID(), GameStarted{Session: snapshot})
	session.Unlock()

	that.save(ctx, snapshot)

	log.Info("game started", "session_id", snapshot.ID, "host_id", snapshot.Host.ID, "guest_id", playerID)

	if wasBound && previous != session.ID() {
		that.abandon(ctx, previous, connID)
	}

	that.broadcastLobby()

	return snapshot, nil
}

// MakeMove - applies a move and reports it, and the end of the game if it ended, to both participants.
func (that *Coordinator) MakeMove(ctx context.Context, connID, sessionID, playerID string, position int) error {
	log := that.logger.With("method", "MakeMove")

	session, ok := that.registry.Lookup(sessionID)
	if !ok {
		return that.reject(connID, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID))
	}

	session.Lock()

	move, err := session.Move(playerID, position, that.clock.Now())
	if err != nil {
		session.Unlock()
		log.Debug("move rejected", "session_id", sessionID, "player_id", playerID, "position", position, "error", err)
		return that.reject(connID, err)
	}

	that.notifier.SendToGroup(sessionID, MoveMade{
		Position: move.Position,
		PlayerID: move.PlayerID,
		Symbol:   move.Symbol,
	})

	reason := move.Result.Reason()
	if move.IsTerminal() {
		that.notifier.SendToGroup(sessionID, GameEnded{
			WinnerID: move.Result.WinnerID,
			Reason:   reason,
		})
	}

	snapshot := session.Snapshot()
	session.Unlock()

	that.save(ctx, snapshot)

	if !move.IsTerminal() {
		return nil
	}

	that.saveResult(ctx, entity.NewGameResult(snapshot, reason))

	log.Info("game finished", "session_id", sessionID, "reason", reason, "winner_id", move.Result.WinnerID)

	return nil
}

func (that *Coordinator) RequestSessionList(_ context.Context, connID string) {
	that.notifier.SendTo(connID, SessionListUpdated{Sessions: that.registry.ListAvailable()})
}

// OnDisconnect - a dropped connection ends its live session immediately.
func (that *Coordinator) OnDisconnect(ctx context.Context, connID string) {
	log := that.logger.With("method", "OnDisconnect")

	sessionID, ok := that.registry.Unbind(connID)
	if !ok {
		return
	}

	if !that.abandon(ctx, sessionID, connID) {
		log.Debug("connection left a finished session", "session_id", sessionID, "conn_id", connID)
		return
	}

	log.Info("session abandoned", "session_id", sessionID, "conn_id", connID)

	that.broadcastLobby()
}

// SweepFinished - drops finished sessions that have been idle for longer than the finished TTL.
func (that *Coordinator) SweepFinished(_ context.Context, now time.Time) int {
	log := that.logger.With("method", "SweepFinished")

	var expired []string
	for _, session := range that.registry.Sessions() {
		session.Lock()
		if session.Status() == entity.StatusFinished && now.Sub(session.FinishedAt()) >= that.finishedTTL {
			expired = append(expired, session.ID())
		}
		session.Unlock()
	}

	for _, id := range expired {
		that.drop(id)
	}

	if len(expired) > 0 {
		log.Debug("finished sessions swept", "count", len(expired), "remaining", that.registry.Len())
	}

	return len(expired)
}

// RunSweeper - calls SweepFinished every interval until ctx is done. A non-positive interval disables sweeping.
func (that *Coordinator) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.SweepFinished(ctx, that.clock.Now())
		}
	}
}

// Lobby - sessions waiting for a guest, newest first.
func (that *Coordinator) Lobby() []entity.SessionSnapshot {
	return that.registry.ListAvailable()
}

func (that *Coordinator) Session(id string) (entity.SessionSnapshot, error) {
	session, ok := that.registry.Lookup(id)
	if !ok {
		return entity.SessionSnapshot{}, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return session.View(), nil
}

// abandon - takes connID out of the session and ends it for whoever is left.
// Returns true if the session was still live.
func (that *Coordinator) abandon(ctx context.Context, sessionID, connID string) bool {
	that.notifier.RemoveFromGroup(connID, sessionID)

	session, ok := that.registry.Lookup(sessionID)
	if !ok {
		return false
	}

	session.Lock()
	live := session.Abandon(that.clock.Now())

	var snapshot entity.SessionSnapshot
	if live {
		that.notifier.SendToGroup(sessionID, GameEnded{Reason: entity.ReasonOpponentLeft})
		snapshot = session.Snapshot()
	}
	session.Unlock()

	that.drop(sessionID)

	if live {
		that.save(ctx, snapshot)
		that.saveResult(ctx, entity.NewGameResult(snapshot, entity.ReasonOpponentLeft))
	}

	return live
}

// drop - forgets a session. Its last archived snapshot stays readable until the archive TTL expires.
func (that *Coordinator) drop(sessionID string) {
	that.registry.Remove(sessionID)
	that.notifier.RemoveGroup(sessionID)
}

// broadcastLobby - a listing is computed and sent under lobbyMu, so a newer listing is never overtaken by an older one.
func (that *Coordinator) broadcastLobby() {
	that.lobbyMu.Lock()
	defer that.lobbyMu.Unlock()

	that.notifier.Broadcast(SessionListUpdated{Sessions: that.registry.ListAvailable()})
}

// reject - reports err to the caller only and hands it back.
func (that *Coordinator) reject(connID string, err error) error {
	that.notifier.SendTo(connID, ErrorMessage{Message: apperror.Message(err)})
	return err
}

func (that *Coordinator) save(ctx context.Context, snapshot entity.SessionSnapshot) {
	if err := that.archive.Save(ctx, snapshot); err != nil {
		that.logger.Warn("failed to archive session", "session_id", snapshot.ID, "error", err)
	}
}

func (that *Coordinator) saveResult(ctx context.Context, result entity.GameResult) {
	if err := that.archive.SaveResult(ctx, result); err != nil {
		that.logger.Warn("failed to archive game result", "session_id", result.SessionID, "error", err)
	}
}

// newSessionCode - six uppercase hex characters, unique only together with the registry check.
func newSessionCode() string {
	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(code[:sessionCodeLength])
}
