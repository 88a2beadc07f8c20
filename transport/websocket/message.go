package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

const (
	actionRegister           = "Register"
	actionCreateSession      = "CreateSession"
	actionJoinSession        = "JoinSession"
	actionMakeMove           = "MakeMove"
	actionRequestSessionList = "RequestSessionList"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type registerPayload struct {
	Name string `json:"name"`
}

type createSessionPayload struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	SessionName string `json:"sessionName"`
}

type joinSessionPayload struct {
	SessionID  string `json:"sessionId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// makeMovePayload - Position is a pointer so a missing field is not read as cell 0.
type makeMovePayload struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
	Position  *int   `json:"position"`
}

func encodeEvent(event usecase.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event.Action(), err)
	}

	data, err := json.Marshal(Message{Action: event.Action(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", event.Action(), err)
	}

	return data, nil
}
