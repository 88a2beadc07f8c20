package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	resultsKey = "results"

	// sessionDataField - hash field holding the snapshot json. Must match saveSessionScript.
	sessionDataField = "data"
)

var ErrSessionNotFound = errors.New("archived session not found")

// saveSessionScript - writes a snapshot unless a newer revision is already stored, then refreshes the TTL.
// KEYS[1] session key, ARGV[1] snapshot json, ARGV[2] revision, ARGV[3] ttl in milliseconds (0 keeps it forever).
var saveSessionScript = redis.NewScript(`
local stored = redis.call('HGET', KEYS[1], 'revision')
if stored and tonumber(stored) > tonumber(ARGV[2]) then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[1], 'revision', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
else
	redis.call('PERSIST', KEYS[1])
end
return 1
`)

// SessionRepository - latest snapshot of every session, kept for a TTL after it ends, and a capped list of finished games.
type SessionRepository interface {
	// Save - an older revision than the stored one is ignored.
	Save(ctx context.Context, snapshot entity.SessionSnapshot) error
	GetByID(ctx context.Context, id string) (entity.SessionSnapshot, error)

	SaveResult(ctx context.Context, result entity.GameResult) error
	RecentResults(ctx context.Context, limit int) ([]entity.GameResult, error)
}

type dbSession struct {
	client *redis.Client

	ttl          time.Duration
	resultsLimit int
}

// NewSessionRepository - ttl of zero keeps snapshots forever.
func NewSessionRepository(client *redis.Client, ttl time.Duration, resultsLimit int) SessionRepository {
	return &dbSession{
		client:       client,
		ttl:          ttl,
		resultsLimit: resultsLimit,
	}
}

func (that *dbSession) Save(ctx context.Context, snapshot entity.SessionSnapshot) error {
	sessionJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = saveSessionScript.Run(ctx, that.client, []string{sessionKey(snapshot.ID)},
		sessionJSON, snapshot.Revision, that.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (entity.SessionSnapshot, error) {
	response, err := that.client.HGet(ctx, sessionKey(id), sessionDataField).Result()
	if errors.Is(err, redis.Nil) {
		return entity.SessionSnapshot{}, ErrSessionNotFound
	}

	if err != nil {
		return entity.SessionSnapshot{}, fmt.Errorf("failed to get session by id: %w", err)
	}

	var snapshot entity.SessionSnapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return entity.SessionSnapshot{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return snapshot, nil
}

// SaveResult - newest first, trimmed to resultsLimit entries.
func (that *dbSession) SaveResult(ctx context.Context, result entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, resultsKey, resultJSON)
		if that.resultsLimit > 0 {
			pipe.LTrim(ctx, resultsKey, 0, int64(that.resultsLimit-1))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push result: %w", err)
	}

	return nil
}

func (that *dbSession) RecentResults(ctx context.Context, limit int) ([]entity.GameResult, error) {
	if limit <= 0 {
		return []entity.GameResult{}, nil
	}

	items, err := that.client.LRange(ctx, resultsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	results := make([]entity.GameResult, 0, len(items))
	for _, item := range items {
		var result entity.GameResult
		if err = json.Unmarshal([]byte(item), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, result)
	}

	return results, nil
}

func sessionKey(id string) string {
	return "session:" + id
}
