// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for portal accounts.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)
	FindByUsername(context context.Context, username string) (*User, error)
	Create(context context.Context, user *User) error
	// UpdatePassword replaces only the user's password hash.
	UpdatePassword(context context.Context, userID, newHash string) error
	// TouchLastLogin records a successful sign-in timestamp.
	TouchLastLogin(context context.Context, userID string) error
}

// SessionRepository defines the data access contract for refresh-token
// sessions.
type SessionRepository interface {
	Create(context context.Context, session *Session) error
	// FindByTokenHash returns the matching session that is neither revoked
	// nor expired.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)
	Revoke(context context.Context, sessionID string) error
	RevokeAll(context context.Context, userID string) error
	// RevokeOthers revokes every session of the user except the current one.
	RevokeOthers(context context.Context, userID, currentSessionID string) error
	// DeleteExpired physically removes sessions past their expiry.
	DeleteExpired(context context.Context) error
}

// ResetTokenRepository defines the contract for volatile password reset
// tokens.
type ResetTokenRepository interface {
	Set(context context.Context, token, userID string, ttl time.Duration) error
	// Get returns the user ID bound to the token, or an Unauthorized error
	// when the token is unknown or expired.
	Get(context context.Context, token string) (string, error)
	Delete(context context.Context, token string) error
}
