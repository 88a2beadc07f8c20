package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	t.Run("Unwraps to the client text of the sentinel", func(t *testing.T) {
		err := fmt.Errorf("%w: cell 4 is already occupied", ErrInvalidMove)

		assert.Equal(t, ErrInvalidMove, Classify(err))
		assert.Equal(t, "Invalid move", Message(err))
	})

	t.Run("Every game error has its client text", func(t *testing.T) {
		expected := map[error]string{
			ErrSessionNotFound:   "Session not found",
			ErrSessionFull:       "Session is full",
			ErrGameNotInProgress: "Game not in progress",
			ErrNotYourTurn:       "Not your turn",
			ErrInvalidMove:       "Invalid move",
		}

		for err, text := range expected {
			assert.Equal(t, text, Message(fmt.Errorf("%w: ABC123", err)))
		}
	})

	t.Run("Hides unknown errors", func(t *testing.T) {
		err := errors.New("redis: connection refused")

		assert.Equal(t, ErrInternal, Classify(err))
		assert.Equal(t, "Internal error", Message(err))
	})
}
