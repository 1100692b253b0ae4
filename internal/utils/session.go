package utils

import (
	"context" // Context for Redis operations
	"errors"  // Sentinel errors
	"time"    // Session lifetime

	"github.com/google/uuid"       // Session identifiers
	"github.com/redis/go-redis/v9" // Redis client
)

// ErrSessionNotFound is returned for revoked or expired sessions
var ErrSessionNotFound = errors.New("session not found")

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func userSessionsKey(userID string) string {
	return "sessions:user:" + userID
}

// CreateSession registers a new session for the user and returns its id
func CreateSession(ctx context.Context, rdb *redis.Client, userID string, ttl time.Duration) (string, error) {
	sessionID := uuid.NewString()
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(sessionID), userID, ttl)
		pipe.SAdd(ctx, userSessionsKey(userID), sessionID)
		pipe.Expire(ctx, userSessionsKey(userID), ttl) // Index lives as long as the newest session
		return nil
	})
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// SessionUserID returns the user a live session belongs to
func SessionUserID(ctx context.Context, rdb *redis.Client, sessionID string) (string, error) {
	userID, err := rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	return userID, err
}

// DeleteSession revokes a single session
func DeleteSession(ctx context.Context, rdb *redis.Client, userID, sessionID string) error {
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(sessionID))
		pipe.SRem(ctx, userSessionsKey(userID), sessionID)
		return nil
	})
	return err
}

// DeleteUserSessions revokes every session of the user except the ones listed in keep
func DeleteUserSessions(ctx context.Context, rdb *redis.Client, userID string, keep ...string) error {
	ids, err := rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}
	kept := make(map[string]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}

	var revoke []string
	for _, id := range ids {
		if !kept[id] {
			revoke = append(revoke, id)
		}
	}
	if len(revoke) == 0 {
		return nil
	}

	_, err = rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		keys := make([]string, 0, len(revoke))
		members := make([]any, 0, len(revoke))
		for _, id := range revoke {
			keys = append(keys, sessionKey(id))
			members = append(members, id)
		}
		pipe.Del(ctx, keys...)
		pipe.SRem(ctx, userSessionsKey(userID), members...)
		return nil
	})
	return err
}
