package usecase

import "github.com/rocketscienceinc/tictactoe-arena/internal/entity"

const (
	ActionRegistered         = "Registered"
	ActionSessionListUpdated = "SessionListUpdated"
	ActionSessionCreated     = "SessionCreated"
	ActionGameStarted        = "GameStarted"
	ActionMoveMade           = "MoveMade"
	ActionGameEnded          = "GameEnded"
	ActionError              = "Error"
)

// Event - outbound notification. Action names the wire message, the value itself is the payload.
type Event interface {
	Action() string
}

type Registered struct {
	Player *entity.Player `json:"player"`
}

type SessionListUpdated struct {
	Sessions []entity.SessionSnapshot `json:"sessions"`
}

type SessionCreated struct {
	Session entity.SessionSnapshot `json:"session"`
}

type GameStarted struct {
	Session entity.SessionSnapshot `json:"session"`
}

type MoveMade struct {
	Position int         `json:"position"`
	PlayerID string      `json:"playerId"`
	Symbol   entity.Cell `json:"symbol"`
}

// GameEnded - WinnerID is empty for a draw or when the opponent left.
type GameEnded struct {
	WinnerID string `json:"winnerId,omitempty"`
	Reason   string `json:"reason"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

func (Registered) Action() string         { return ActionRegistered }
func (SessionListUpdated) Action() string { return ActionSessionListUpdated }
func (SessionCreated) Action() string     { return ActionSessionCreated }
func (GameStarted) Action() string        { return ActionGameStarted }
func (MoveMade) Action() string           { return ActionMoveMade }
func (GameEnded) Action() string          { return ActionGameEnded }
func (ErrorMessage) Action() string       { return ActionError }
