// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehoangminh/folio/internal/platform/apperr"
	"github.com/lehoangminh/folio/internal/platform/sec"
)

// # Fakes

type fakeUserRepository struct {
	users map[string]*User
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) Create(_ context.Context, user *User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	u.PasswordHash = newHash
	return nil
}

func (r *fakeUserRepository) TouchLastLogin(_ context.Context, userID string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

type fakeSessionRepository struct {
	sessions map[string]*Session
}

func (r *fakeSessionRepository) Create(_ context.Context, session *Session) error {
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	for _, s := range r.sessions {
		if s.TokenHash == tokenHash && !s.IsRevoked && s.ExpiresAt.After(time.Now()) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (r *fakeSessionRepository) Revoke(_ context.Context, sessionID string) error {
	if s, ok := r.sessions[sessionID]; ok {
		s.IsRevoked = true
	}
	return nil
}

func (r *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for _, s := range r.sessions {
		if s.UserID == userID {
			s.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepository) RevokeOthers(_ context.Context, userID, currentSessionID string) error {
	for _, s := range r.sessions {
		if s.UserID == userID && s.ID != currentSessionID {
			s.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepository) DeleteExpired(_ context.Context) error { return nil }

func (r *fakeSessionRepository) activeCount(userID string) int {
	count := 0
	for _, s := range r.sessions {
		if s.UserID == userID && !s.IsRevoked {
			count++
		}
	}
	return count
}

type fakeResetTokenRepository struct {
	tokens map[string]string
}

func (r *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	r.tokens[token] = userID
	return nil
}

func (r *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	userID, ok := r.tokens[token]
	if !ok {
		return "", apperr.Unauthorized("Invalid or expired reset token")
	}
	return userID, nil
}

func (r *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

type fakeMailer struct {
	sent []string // emails
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, email, _ string) error {
	m.sent = append(m.sent, email)
	return nil
}

type authFixture struct {
	service  *Service
	users    *fakeUserRepository
	sessions *fakeSessionRepository
	resets   *fakeResetTokenRepository
	mailer   *fakeMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := &fakeUserRepository{users: map[string]*User{}}
	sessions := &fakeSessionRepository{sessions: map[string]*Session{}}
	resets := &fakeResetTokenRepository{tokens: map[string]string{}}
	mailer := &fakeMailer{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(users, sessions, resets, fakeTokenProvider{}, mailer, logger)

	return &authFixture{service: service, users: users, sessions: sessions, resets: resets, mailer: mailer}
}

func (f *authFixture) seedUser(t *testing.T, username, email, password string) *User {
	t.Helper()
	user, err := f.service.Register(context.Background(), RegisterInput{
		Username:    username,
		Email:       email,
		Password:    password,
		DisplayName: username,
	})
	require.NoError(t, err)
	return user
}

// # Tests

/*
TestService_Register verifies enrollment and conflict detection.
*/
func TestService_Register(t *testing.T) {
	fixture := newAuthFixture(t)

	user := fixture.seedUser(t, "mira", "mira@folio.pub", "correct horse")
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err := fixture.service.Register(context.Background(), RegisterInput{
		Username: "other", Email: "mira@folio.pub", Password: "password123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email is already registered")

	_, err = fixture.service.Register(context.Background(), RegisterInput{
		Username: "mira", Email: "new@folio.pub", Password: "password123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username is already taken")
}

/*
TestService_Login verifies the credential check and session issuance.

Steps:
 1. Correct credentials (by email or username) yield a token pair.
 2. A wrong password and an unknown login fail with the same message.
 3. The refresh token is stored only as a hash.
 4. Last-login bookkeeping is recorded.
*/
func TestService_Login(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser(t, "mira", "mira@folio.pub", "correct horse")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Login: "mira@folio.pub", Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt-for-"+user.ID, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	_, err = fixture.service.Login(context.Background(), LoginInput{
		Login: "mira", Password: "correct horse",
	})
	require.NoError(t, err, "username login must work too")

	for _, s := range fixture.sessions.sessions {
		assert.NotEqual(t, session.RefreshToken, s.TokenHash, "raw token must never be stored")
	}
	assert.NotNil(t, fixture.users.users[user.ID].LastLoginAt)

	_, err = fixture.service.Login(context.Background(), LoginInput{Login: "mira", Password: "wrong"})
	require.Error(t, err)
	wrongPassword := err.Error()

	_, err = fixture.service.Login(context.Background(), LoginInput{Login: "nobody", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, wrongPassword, err.Error(), "failures must be indistinguishable")
}

/*
TestService_LoginDeactivatedAccount verifies inactive accounts cannot sign in.
*/
func TestService_LoginDeactivatedAccount(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser(t, "mira", "mira@folio.pub", "correct horse")
	fixture.users.users[user.ID].IsActive = false

	_, err := fixture.service.Login(context.Background(), LoginInput{
		Login: "mira", Password: "correct horse",
	})
	require.Error(t, err)
}

/*
TestService_RefreshRotation verifies refresh token rotation.

Steps:
 1. Login, then refresh with the issued token.
 2. The old token is dead: a replay fails.
 3. The new token works.
*/
func TestService_RefreshRotation(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.seedUser(t, "mira", "mira@folio.pub", "correct horse")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Login: "mira", Password: "correct horse",
	})
	require.NoError(t, err)

	rotated, err := fixture.service.RefreshSession(context.Background(), session.RefreshToken, "ua", "ip")
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	_, err = fixture.service.RefreshSession(context.Background(), session.RefreshToken, "ua", "ip")
	require.Error(t, err, "replayed token must be rejected")

	_, err = fixture.service.RefreshSession(context.Background(), rotated.RefreshToken, "ua", "ip")
	require.NoError(t, err)
}

/*
TestService_LogoutIsIdempotent verifies logout revokes and tolerates
unknown tokens.
*/
func TestService_LogoutIsIdempotent(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser(t, "mira", "mira@folio.pub", "correct horse")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Login: "mira", Password: "correct horse",
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(context.Background(), session.RefreshToken))
	assert.Zero(t, fixture.sessions.activeCount(user.ID))

	require.NoError(t, fixture.service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, fixture.service.Logout(context.Background(), "never-issued"))
}

/*
TestService_PasswordResetFlow verifies the full recovery loop.

Steps:
 1. Request a reset for a known email: a token lands in the store and a
    mail is dispatched.
 2. Requesting for an unknown email succeeds silently, no mail.
 3. Resetting with the token updates the hash, kills every session, and
    consumes the token.
*/
func TestService_PasswordResetFlow(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser(t, "mira", "mira@folio.pub", "correct horse")

	_, err := fixture.service.Login(context.Background(), LoginInput{
		Login: "mira", Password: "correct horse",
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.RequestPasswordReset(context.Background(), "mira@folio.pub"))
	require.Len(t, fixture.resets.tokens, 1)
	assert.Equal(t, []string{"mira@folio.pub"}, fixture.mailer.sent)

	require.NoError(t, fixture.service.RequestPasswordReset(context.Background(), "ghost@folio.pub"))
	assert.Len(t, fixture.mailer.sent, 1, "unknown email must not trigger mail")

	var token string
	for issued := range fixture.resets.tokens {
		token = issued
	}

	require.NoError(t, fixture.service.ResetPassword(context.Background(), token, "brand new pass"))

	_, err = fixture.service.Login(context.Background(), LoginInput{
		Login: "mira", Password: "brand new pass",
	})
	require.NoError(t, err)

	assert.Empty(t, fixture.resets.tokens, "token must be consumed")
	// Only the fresh login session is active; the pre-reset one is revoked.
	assert.Equal(t, 1, fixture.sessions.activeCount(user.ID))

	err = fixture.service.ResetPassword(context.Background(), token, "another pass")
	require.Error(t, err, "consumed token must be rejected")
}

/*
TestService_ChangePassword verifies re-authentication and the revocation of
other devices' sessions.
*/
func TestService_ChangePassword(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser(t, "mira", "mira@folio.pub", "correct horse")

	laptop, err := fixture.service.Login(context.Background(), LoginInput{
		Login: "mira", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = fixture.service.Login(context.Background(), LoginInput{
		Login: "mira", Password: "correct horse",
	})
	require.NoError(t, err)
	require.Equal(t, 2, fixture.sessions.activeCount(user.ID))

	err = fixture.service.ChangePassword(context.Background(), user.ID, "wrong", "new password!", laptop.RefreshToken)
	require.Error(t, err)

	err = fixture.service.ChangePassword(context.Background(), user.ID, "correct horse", "new password!", laptop.RefreshToken)
	require.NoError(t, err)

	// The device that changed the password stays signed in; the other is out.
	assert.Equal(t, 1, fixture.sessions.activeCount(user.ID))
	_, err = fixture.service.RefreshSession(context.Background(), laptop.RefreshToken, "ua", "ip")
	require.NoError(t, err)
}
