package notify

import (
	"context"
	"log/slog"

	"github.com/tutorway/tutorway-api/internal/platform/logger"
)

// LogSender is the Sender used when no mail transport is configured.
// It records that a message would have been sent and always succeeds.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. If log is nil, slog.Default is used.
func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{logger: log.With(slog.String("component", "log_sender"))}
}

var _ Sender = (*LogSender)(nil)

// Send logs the recipient and subject. The body is never logged.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	logger.FromContextOrDefault(ctx, s.logger).Info("mail transport not configured, message not delivered",
		"to", msg.To,
		"subject", msg.Subject)
	return nil
}
