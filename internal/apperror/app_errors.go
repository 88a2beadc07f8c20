package apperror

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionFull       = errors.New("session is full")
	ErrGameNotInProgress = errors.New("game not in progress")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidMove       = errors.New("invalid move")
	ErrPlayerRequired    = errors.New("player id is required")
)

var ErrInternal = errors.New("internal error")

// messages - what clients are shown for each sentinel.
var messages = map[error]string{
	ErrSessionNotFound:   "Session not found",
	ErrSessionFull:       "Session is full",
	ErrGameNotInProgress: "Game not in progress",
	ErrNotYourTurn:       "Not your turn",
	ErrInvalidMove:       "Invalid move",
	ErrPlayerRequired:    "Player id is required",
	ErrInternal:          "Internal error",
}

var known = []error{
	ErrSessionNotFound,
	ErrSessionFull,
	ErrGameNotInProgress,
	ErrNotYourTurn,
	ErrInvalidMove,
	ErrPlayerRequired,
}

// Classify - returns the sentinel err wraps, or ErrInternal for anything else.
func Classify(err error) error {
	for _, target := range known {
		if errors.Is(err, target) {
			return target
		}
	}

	return ErrInternal
}

// Message - client facing text for err. Details of wrapped errors stay in the logs.
func Message(err error) string {
	return messages[Classify(err)]
}
