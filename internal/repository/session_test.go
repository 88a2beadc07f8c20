package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/testing/suite"
)

var finishedAt = time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)

func newSnapshot(id string) entity.SessionSnapshot {
	return entity.SessionSnapshot{
		ID:          id,
		Name:        "Alice's Game",
		Host:        &entity.Player{ID: "a1", Name: "Alice"},
		Guest:       &entity.Player{ID: "b1", Name: "Bob"},
		Board:       entity.Board{4: entity.CellX, 0: entity.CellO},
		CurrentTurn: "a1",
		Status:      entity.StatusPlaying,
		IsFull:      true,
		CreatedAt:   finishedAt.Add(-time.Minute),
	}
}

func newResult(id, reason string) entity.GameResult {
	return entity.GameResult{
		SessionID:  id,
		HostID:     "a1",
		GuestID:    "b1",
		Reason:     reason,
		FinishedAt: finishedAt,
	}
}

// runSessionRepositoryContract - behaviour every SessionRepository implementation shares.
func runSessionRepositoryContract(t *testing.T, ctx context.Context, newRepo func(resultsLimit int) SessionRepository) {
	t.Helper()

	t.Run("Save then GetByID returns the snapshot", func(t *testing.T) {
		repo := newRepo(10)

		// Given: a stored snapshot
		snapshot := newSnapshot("SAVE01")
		require.NoError(t, repo.Save(ctx, snapshot))

		// When: reading it back
		stored, err := repo.GetByID(ctx, snapshot.ID)

		// Then: it matches what was saved
		require.NoError(t, err)
		assert.Equal(t, snapshot.ID, stored.ID)
		assert.Equal(t, snapshot.Board, stored.Board)
		assert.Equal(t, snapshot.Status, stored.Status)
		assert.Equal(t, "Bob", stored.Guest.Name)
		assert.True(t, snapshot.CreatedAt.Equal(stored.CreatedAt))
	})

	t.Run("Save overwrites the previous snapshot", func(t *testing.T) {
		repo := newRepo(10)
		snapshot := newSnapshot("OVER01")
		require.NoError(t, repo.Save(ctx, snapshot))

		snapshot.Status = entity.StatusFinished
		snapshot.Winner = "a1"
		snapshot.Revision++
		require.NoError(t, repo.Save(ctx, snapshot))

		stored, err := repo.GetByID(ctx, snapshot.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusFinished, stored.Status)
		assert.Equal(t, "a1", stored.Winner)
	})

	t.Run("GetByID reports unknown sessions", func(t *testing.T) {
		repo := newRepo(10)

		_, err := repo.GetByID(ctx, "MISSING")

		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Save never replaces a newer revision", func(t *testing.T) {
		repo := newRepo(10)

		// Given: the finished snapshot was stored first
		finished := newSnapshot("REV001")
		finished.Status = entity.StatusFinished
		finished.Winner = "a1"
		finished.Revision = 6
		require.NoError(t, repo.Save(ctx, finished))

		// When: a late write of an earlier move arrives
		earlier := newSnapshot("REV001")
		earlier.Revision = 5
		require.NoError(t, repo.Save(ctx, earlier))

		// Then: the finished snapshot stays
		stored, err := repo.GetByID(ctx, "REV001")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusFinished, stored.Status)
		assert.Equal(t, 6, stored.Revision)
	})

	t.Run("Results come back newest first and are capped", func(t *testing.T) {
		// Given: a repository that keeps two results
		repo := newRepo(2)

		// When: three games finish
		for _, result := range []entity.GameResult{
			newResult("RES001", entity.ReasonWin),
			newResult("RES002", entity.ReasonDraw),
			newResult("RES003", entity.ReasonOpponentLeft),
		} {
			require.NoError(t, repo.SaveResult(ctx, result))
		}

		// Then: only the two newest remain
		results, err := repo.RecentResults(ctx, 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "RES003", results[0].SessionID)
		assert.Equal(t, entity.ReasonOpponentLeft, results[0].Reason)
		assert.Equal(t, "RES002", results[1].SessionID)

		limited, err := repo.RecentResults(ctx, 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, "RES003", limited[0].SessionID)
	})

	t.Run("RecentResults on an empty repository is an empty list", func(t *testing.T) {
		repo := newRepo(10)

		results, err := repo.RecentResults(ctx, 5)

		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}

func TestSessionRepository_Redis(t *testing.T) {
	ctx, st := suite.New(t)

	runSessionRepositoryContract(t, ctx, func(resultsLimit int) SessionRepository {
		// every subtest starts from an empty database
		_ = st.Storage.FlushDB(ctx).Err()
		return NewSessionRepository(st.Storage, time.Hour, resultsLimit)
	})
}

func TestSessionRepository_RedisExpiry(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSessionRepository(st.Storage, time.Minute, 10)

	// Given: a snapshot stored with a one minute TTL
	require.NoError(t, repo.Save(ctx, newSnapshot("TTL001")))

	// When: the redis clock passes the TTL
	st.Mini.FastForward(2 * time.Minute)

	// Then: the snapshot is gone
	_, err := repo.GetByID(ctx, "TTL001")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_RedisClosedConnection(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSessionRepository(st.Storage, time.Hour, 10)
	st.Mini.Close()

	err := repo.Save(ctx, newSnapshot("DOWN01"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_Memory(t *testing.T) {
	runSessionRepositoryContract(t, context.Background(), func(resultsLimit int) SessionRepository {
		return NewMemorySessionRepository(time.Hour, resultsLimit)
	})
}

func TestSessionRepository_MemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := finishedAt

	repo := NewMemorySessionRepository(time.Minute, 10).(*memorySession)
	repo.now = func() time.Time { return now }

	// Given: a snapshot stored with a one minute TTL
	require.NoError(t, repo.Save(ctx, newSnapshot("TTL001")))

	_, err := repo.GetByID(ctx, "TTL001")
	require.NoError(t, err)

	// When: the TTL passes
	now = now.Add(2 * time.Minute)

	// Then: the snapshot is gone and the next save evicts it
	_, err = repo.GetByID(ctx, "TTL001")
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, repo.Save(ctx, newSnapshot("TTL002")))
	assert.NotContains(t, repo.sessions, "TTL001")
}

func TestSessionRepository_RedisContainer(t *testing.T) {
	ctx, st := suite.NewDocker(t)

	runSessionRepositoryContract(t, ctx, func(resultsLimit int) SessionRepository {
		_ = st.Storage.FlushDB(ctx).Err()
		return NewSessionRepository(st.Storage, time.Hour, resultsLimit)
	})
}
