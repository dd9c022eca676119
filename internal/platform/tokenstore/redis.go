// Package tokenstore keeps a denylist of revoked bearer tokens in Redis.
// Tokens land here on logout and expire from the store when the token itself
// would have expired anyway.
package tokenstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/platform/config"
)

const revokedKeyPrefix = "revoked_token:"

var RDB *redis.Client

func Connect() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")
}

func Close() {
	if RDB != nil {
		RDB.Close()
		fmt.Println("Redis connection closed.")
	}
}

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}

// Revoke denylists the token until its natural expiry.
func Revoke(ctx context.Context, token string, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return nil // already expired, nothing to deny
	}
	if err := RDB.Set(ctx, key(token), "1", ttl).Err(); err != nil {
		return common.Errorf("failed to revoke token: %w", common.ErrUnavailable)
	}
	return nil
}

// IsRevoked reports whether the token has been denylisted.
func IsRevoked(ctx context.Context, token string) (bool, error) {
	if RDB == nil {
		return false, nil
	}
	n, err := RDB.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, common.Errorf("failed to check token revocation: %w", common.ErrUnavailable)
	}
	return n > 0, nil
}
