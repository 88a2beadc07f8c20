package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var errMissingPosition = errors.New("position is required")

// Game rule violations are reported to the caller by the coordinator itself,
// so handlers only fail on payloads they cannot decode.

func (that *Server) handleRegister(ctx context.Context, client *Client, msg *Message) error {
	var payload registerPayload
	if err := decodePayload(msg, &payload); err != nil {
		return err
	}

	player := that.coordinator.Register(ctx, client.id, payload.Name)
	that.logger.Debug("player registered", "conn_id", client.id, "player_id", player.ID)

	return nil
}

func (that *Server) handleCreateSession(ctx context.Context, client *Client, msg *Message) error {
	var payload createSessionPayload
	if err := decodePayload(msg, &payload); err != nil {
		return err
	}

	if _, err := that.coordinator.CreateSession(ctx, client.id, payload.PlayerID, payload.PlayerName, payload.SessionName); err != nil {
		that.logger.Debug("create session rejected", "conn_id", client.id, "error", err)
	}

	return nil
}

func (that *Server) handleJoinSession(ctx context.Context, client *Client, msg *Message) error {
	var payload joinSessionPayload
	if err := decodePayload(msg, &payload); err != nil {
		return err
	}

	if _, err := that.coordinator.JoinSession(ctx, client.id, payload.SessionID, payload.PlayerID, payload.PlayerName); err != nil {
		that.logger.Debug("join session rejected", "conn_id", client.id, "session_id", payload.SessionID, "error", err)
	}

	return nil
}

func (that *Server) handleMakeMove(ctx context.Context, client *Client, msg *Message) error {
	var payload makeMovePayload
	if err := decodePayload(msg, &payload); err != nil {
		return err
	}

	if payload.Position == nil {
		return errMissingPosition
	}

	if err := that.coordinator.MakeMove(ctx, client.id, payload.SessionID, payload.PlayerID, *payload.Position); err != nil {
		that.logger.Debug("move rejected", "conn_id", client.id, "session_id", payload.SessionID, "error", err)
	}

	return nil
}

func (that *Server) handleRequestSessionList(ctx context.Context, client *Client, _ *Message) error {
	that.coordinator.RequestSessionList(ctx, client.id)
	return nil
}

// decodePayload - an absent payload decodes as an empty object.
func decodePayload(msg *Message, target any) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
