package entity

import (
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusFinished  Status = "finished"
	StatusAbandoned Status = "abandoned"
)

const (
	ReasonWin          = "win"
	ReasonDraw         = "draw"
	ReasonOpponentLeft = "opponent_left"
)

// Result - outcome of a session expressed in player ids. WinnerID is set only for Win.
type Result struct {
	Kind     OutcomeKind
	WinnerID string
}

func (that Result) Reason() string {
	switch that.Kind {
	case Win:
		return ReasonWin
	case Draw:
		return ReasonDraw
	default:
		return ""
	}
}

// MoveResult - everything an accepted move changed.
type MoveResult struct {
	Position int
	PlayerID string
	Symbol   Cell
	Result   Result
}

func (that MoveResult) IsTerminal() bool {
	return that.Result.Kind != Ongoing
}

// Session - one game between a host and a guest.
//
// Every method except ID, Name and CreatedAt must be called with the session locked.
type Session struct {
	mu sync.Mutex

	id        string
	name      string
	createdAt time.Time

	host        *Player
	guest       *Player
	board       Board
	currentTurn string
	status      Status
	result      Result
	finishedAt  time.Time

	// revision counts accepted state changes. Archived copies never go backwards.
	revision int
}

func NewSession(id, name string, host *Player, createdAt time.Time) *Session {
	return &Session{
		id:        id,
		name:      name,
		createdAt: createdAt,
		host:      host,
		status:    StatusWaiting,
	}
}

func (that *Session) Lock()   { that.mu.Lock() }
func (that *Session) Unlock() { that.mu.Unlock() }

func (that *Session) ID() string           { return that.id }
func (that *Session) Name() string         { return that.name }
func (that *Session) CreatedAt() time.Time { return that.createdAt }

func (that *Session) Status() Status        { return that.status }
func (that *Session) Host() *Player         { return that.host }
func (that *Session) Guest() *Player        { return that.guest }
func (that *Session) Board() Board          { return that.board }
func (that *Session) CurrentTurn() string   { return that.currentTurn }
func (that *Session) Result() Result        { return that.result }
func (that *Session) FinishedAt() time.Time { return that.finishedAt }
func (that *Session) Revision() int         { return that.revision }

func (that *Session) IsFull() bool {
	return that.host != nil && that.guest != nil
}

func (that *Session) IsWaiting() bool {
	return that.status == StatusWaiting
}

func (that *Session) IsPlaying() bool {
	return that.status == StatusPlaying
}

func (that *Session) IsTerminal() bool {
	return that.status == StatusFinished || that.status == StatusAbandoned
}

// IsAvailable - the session can be listed in the lobby.
func (that *Session) IsAvailable() bool {
	return that.IsWaiting() && !that.IsFull()
}

func (that *Session) HasParticipant(playerID string) bool {
	return (that.host != nil && that.host.ID == playerID) || (that.guest != nil && that.guest.ID == playerID)
}

// Join - seats the guest and starts the game. The host always moves first.
func (that *Session) Join(guest *Player) error {
	if that.status == StatusAbandoned {
		return fmt.Errorf("%w: session %s was abandoned", apperror.ErrSessionNotFound, that.id)
	}

	if that.IsFull() || !that.IsWaiting() {
		return fmt.Errorf("%w: session %s", apperror.ErrSessionFull, that.id)
	}

	if that.HasParticipant(guest.ID) {
		return fmt.Errorf("%w: player %s is already seated", apperror.ErrSessionFull, guest.ID)
	}

	that.guest = guest
	that.status = StatusPlaying
	that.currentTurn = that.host.ID
	that.revision++

	return nil
}

// Move - validates and applies a move for playerID.
func (that *Session) Move(playerID string, position int, now time.Time) (MoveResult, error) {
	if !that.IsPlaying() {
		return MoveResult{}, fmt.Errorf("%w: session %s is %s", apperror.ErrGameNotInProgress, that.id, that.status)
	}

	if that.currentTurn != playerID {
		return MoveResult{}, apperror.ErrNotYourTurn
	}

	symbol := that.symbolOf(playerID)
	if err := that.board.SetCell(position, symbol); err != nil {
		return MoveResult{}, err
	}

	move := MoveResult{
		Position: position,
		PlayerID: playerID,
		Symbol:   symbol,
	}

	switch outcome := that.board.EvaluateOutcome(); outcome.Kind {
	case Win:
		that.finish(Result{Kind: Win, WinnerID: that.playerBySymbol(outcome.Symbol).ID}, now)
	case Draw:
		that.finish(Result{Kind: Draw}, now)
	case Ongoing:
		that.currentTurn = that.opponentOf(playerID).ID
	}

	move.Result = that.result
	that.revision++

	return move, nil
}

// Abandon - terminates a live session. Returns false if it was already terminal.
func (that *Session) Abandon(now time.Time) bool {
	if that.IsTerminal() {
		return false
	}

	that.status = StatusAbandoned
	that.currentTurn = ""
	that.finishedAt = now
	that.revision++

	return true
}

func (that *Session) finish(result Result, now time.Time) {
	that.status = StatusFinished
	that.result = result
	that.currentTurn = ""
	that.finishedAt = now
}

// symbolOf - host is always X, guest always O.
func (that *Session) symbolOf(playerID string) Cell {
	if that.host.ID == playerID {
		return CellX
	}
	return CellO
}

func (that *Session) playerBySymbol(symbol Cell) *Player {
	if symbol == CellX {
		return that.host
	}
	return that.guest
}

func (that *Session) opponentOf(playerID string) *Player {
	if that.host.ID == playerID {
		return that.guest
	}
	return that.host
}
