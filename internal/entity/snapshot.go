package entity

import "time"

// SessionSnapshot - immutable copy of a session, safe to serialize and share.
type SessionSnapshot struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Host        *Player    `json:"host"`
	Guest       *Player    `json:"guest"`
	Board       Board      `json:"board"`
	CurrentTurn string     `json:"currentTurn"`
	Status      Status     `json:"status"`
	Winner      string     `json:"winner,omitempty"`
	IsFull      bool       `json:"isFull"`
	CreatedAt   time.Time  `json:"createdAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
	Revision    int        `json:"revision"`
}

// Snapshot - must be called with the session locked.
func (that *Session) Snapshot() SessionSnapshot {
	snapshot := SessionSnapshot{
		ID:          that.id,
		Name:        that.name,
		Host:        copyPlayer(that.host),
		Guest:       copyPlayer(that.guest),
		Board:       that.board,
		CurrentTurn: that.currentTurn,
		Status:      that.status,
		Winner:      that.result.WinnerID,
		IsFull:      that.IsFull(),
		CreatedAt:   that.createdAt,
		Revision:    that.revision,
	}

	if !that.finishedAt.IsZero() {
		finishedAt := that.finishedAt
		snapshot.FinishedAt = &finishedAt
	}

	return snapshot
}

// View - locks the session and takes a snapshot.
func (that *Session) View() SessionSnapshot {
	that.Lock()
	defer that.Unlock()

	return that.Snapshot()
}

func copyPlayer(player *Player) *Player {
	if player == nil {
		return nil
	}

	clone := *player
	return &clone
}

// GameResult - archived summary of a session that reached a terminal state.
type GameResult struct {
	SessionID   string    `json:"sessionId"`
	SessionName string    `json:"sessionName"`
	HostID      string    `json:"hostId"`
	HostName    string    `json:"hostName"`
	GuestID     string    `json:"guestId,omitempty"`
	GuestName   string    `json:"guestName,omitempty"`
	WinnerID    string    `json:"winnerId,omitempty"`
	Reason      string    `json:"reason"`
	Board       Board     `json:"board"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// NewGameResult - builds the archive record for a terminal snapshot.
func NewGameResult(snapshot SessionSnapshot, reason string) GameResult {
	result := GameResult{
		SessionID:   snapshot.ID,
		SessionName: snapshot.Name,
		WinnerID:    snapshot.Winner,
		Reason:      reason,
		Board:       snapshot.Board,
	}

	if snapshot.Host != nil {
		result.HostID = snapshot.Host.ID
		result.HostName = snapshot.Host.Name
	}

	if snapshot.Guest != nil {
		result.GuestID = snapshot.Guest.ID
		result.GuestName = snapshot.Guest.Name
	}

	if snapshot.FinishedAt != nil {
		result.FinishedAt = *snapshot.FinishedAt
	}

	return result
}
