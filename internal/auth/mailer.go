// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package auth

import (
	"context"
	"log/slog"
)

// LogMailer is a [Mailer] that writes reset links to the log instead of
// sending mail. Used in development and until an SMTP provider is wired.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.logger.InfoContext(ctx, "password_reset_dispatch",
		slog.String("email", email),
		slog.String("token", token),
	)
	return nil
}
