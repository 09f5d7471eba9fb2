// Package cache provides short-lived key/value state: revoked tokens and OTP
// resend cooldowns. Redis backs it in deployments, MemoryStore otherwise.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	// SetNX stores the value only if the key does not exist yet.
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Ping(ctx context.Context) error
	Close() error
}

const (
	revokedTokenPrefix = "auth:revoked:"
	otpCooldownPrefix  = "auth:otp-cooldown:"
)

func RevokedTokenKey(tokenID string) string {
	return revokedTokenPrefix + tokenID
}

func OTPCooldownKey(userID string) string {
	return otpCooldownPrefix + userID
}
