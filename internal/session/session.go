package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidOTP is returned when no matching one-time password is stored.
var ErrInvalidOTP = errors.New("invalid or expired otp")

// Store keeps short-lived authentication state in Redis: revoked token ids and one-time passwords.
type Store struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewStore(rdb *redis.Client, operationTimeout time.Duration) *Store {
	return &Store{rdb: rdb, timeout: operationTimeout}
}

func revokedKey(jti string) string {
	return "revoked_token_" + jti
}

func otpKey(purpose, subject string) string {
	return fmt.Sprintf("otp_%s_%s", subject, purpose)
}

// RevokeToken blacklists jti until the token would have expired anyway.
func (s *Store) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.rdb.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.rdb.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (s *Store) SaveOTP(ctx context.Context, purpose, subject, otp string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.rdb.Set(ctx, otpKey(purpose, subject), otp, ttl).Err()
}

// VerifyOTP returns ErrInvalidOTP when otp does not match the stored value or nothing is stored.
func (s *Store) VerifyOTP(ctx context.Context, purpose, subject, otp string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.rdb.Get(ctx, otpKey(purpose, subject)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidOTP
		}
		return err
	}

	if stored != otp {
		return ErrInvalidOTP
	}

	return nil
}

func (s *Store) DeleteOTP(ctx context.Context, purpose, subject string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.rdb.Del(ctx, otpKey(purpose, subject)).Err()
}
