package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestJWTRoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateJWT("user-1", "session-1", "secret", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID())
}

func TestParseJWTRejects(t *testing.T) {
	token, _, err := GenerateJWT("user-1", "session-1", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err, "wrong secret")

	expired, _, err := GenerateJWT("user-1", "session-1", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT(unsigned, "secret")
	assert.Error(t, err, "alg none")

	noSession, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseJWT(noSession, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)

	_, err = ParseJWT("garbage", "secret")
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	key := CategoriesCacheKey("u1")
	assert.Equal(t, "categories:user:u1", key)

	var got []string
	found, err := GetCache(ctx, rdb, key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, key, []string{"Food", "Rent"}, time.Minute))
	found, err = GetCache(ctx, rdb, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Food", "Rent"}, got)

	mr.FastForward(2 * time.Minute)
	found, err = GetCache(ctx, rdb, key, &got)
	require.NoError(t, err)
	assert.False(t, found, "entry expires with its TTL")

	require.NoError(t, SetCache(ctx, rdb, key, []string{"Food"}, time.Minute))
	require.NoError(t, DeleteCache(ctx, rdb, key))
	assert.False(t, mr.Exists(key))
}

func TestGetCacheCorruptEntry(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("broken", "{not json"))

	var got map[string]any
	found, err := GetCache(context.Background(), rdb, "broken", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestSessions(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()

	sid, err := CreateSession(ctx, rdb, "u1", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, sid)

	userID, err := SessionUserID(ctx, rdb, sid)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	require.NoError(t, DeleteSession(ctx, rdb, "u1", sid))
	_, err = SessionUserID(ctx, rdb, sid)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	short, err := CreateSession(ctx, rdb, "u1", time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = SessionUserID(ctx, rdb, short)
	assert.ErrorIs(t, err, ErrSessionNotFound, "sessions expire with their TTL")
}

func TestDeleteUserSessions(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()

	a, err := CreateSession(ctx, rdb, "u1", time.Hour)
	require.NoError(t, err)
	b, err := CreateSession(ctx, rdb, "u1", time.Hour)
	require.NoError(t, err)
	c, err := CreateSession(ctx, rdb, "u1", time.Hour)
	require.NoError(t, err)
	other, err := CreateSession(ctx, rdb, "u2", time.Hour)
	require.NoError(t, err)

	require.NoError(t, DeleteUserSessions(ctx, rdb, "u1", b))

	for _, sid := range []string{a, c} {
		_, err := SessionUserID(ctx, rdb, sid)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
	_, err = SessionUserID(ctx, rdb, b)
	assert.NoError(t, err, "kept session survives")
	_, err = SessionUserID(ctx, rdb, other)
	assert.NoError(t, err, "other users are untouched")

	require.NoError(t, DeleteUserSessions(ctx, rdb, "u1"))
	_, err = SessionUserID(ctx, rdb, b)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, DeleteUserSessions(ctx, rdb, "nobody"))
}
