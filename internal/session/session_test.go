package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to the Redis named by TEST_REDIS_ADDR; the tests are skipped without one.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	return NewStore(rdb, 5*time.Second)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "revoked_token_abc", revokedKey("abc"))
	assert.Equal(t, "otp_alice@example.com_reset_password", otpKey("reset_password", "alice@example.com"))
}

func TestRevokeToken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	jti := uuid.NewString()

	revoked, err := s.IsTokenRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.RevokeToken(ctx, jti, time.Minute))

	revoked, err = s.IsTokenRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	// already expired tokens need no entry
	other := uuid.NewString()
	require.NoError(t, s.RevokeToken(ctx, other, 0))
	revoked, err = s.IsTokenRevoked(ctx, other)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestOTP(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	subject := uuid.NewString()

	assert.ErrorIs(t, s.VerifyOTP(ctx, "reset_password", subject, "123456"), ErrInvalidOTP)

	require.NoError(t, s.SaveOTP(ctx, "reset_password", subject, "123456", time.Minute))
	assert.ErrorIs(t, s.VerifyOTP(ctx, "reset_password", subject, "654321"), ErrInvalidOTP)
	assert.NoError(t, s.VerifyOTP(ctx, "reset_password", subject, "123456"))

	require.NoError(t, s.DeleteOTP(ctx, "reset_password", subject))
	assert.ErrorIs(t, s.VerifyOTP(ctx, "reset_password", subject, "123456"), ErrInvalidOTP)
}
