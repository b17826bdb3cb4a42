// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lehoangminh/folio/internal/platform/apperr"
	"github.com/lehoangminh/folio/internal/platform/constants"
)

// RedisResetTokenRepository stores password reset tokens with a TTL, so
// unused tokens vanish without any cleanup job.
type RedisResetTokenRepository struct {
	client *redis.Client
}

func NewRedisResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

func resetTokenKey(token string) string {
	return constants.RedisPrefixResetToken + token
}

func (repository *RedisResetTokenRepository) Set(context context.Context, token, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, resetTokenKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("auth: failed to store reset token: %w", err)
	}
	return nil
}

func (repository *RedisResetTokenRepository) Get(context context.Context, token string) (string, error) {
	userID, err := repository.client.Get(context, resetTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.Unauthorized("Invalid or expired reset token")
		}
		return "", fmt.Errorf("auth: failed to read reset token: %w", err)
	}
	return userID, nil
}

func (repository *RedisResetTokenRepository) Delete(context context.Context, token string) error {
	if err := repository.client.Del(context, resetTokenKey(token)).Err(); err != nil {
		return fmt.Errorf("auth: failed to delete reset token: %w", err)
	}
	return nil
}
