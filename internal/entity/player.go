package entity

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ConnectionID string    `json:"connectionId"`
	ConnectedAt  time.Time `json:"connectedAt"`
}

// NewPlayer - creates a player with a fresh identity bound to the given connection.
func NewPlayer(name, connectionID string) *Player {
	return &Player{
		ID:           uuid.NewString(),
		Name:         name,
		ConnectionID: connectionID,
		ConnectedAt:  time.Now().UTC(),
	}
}
