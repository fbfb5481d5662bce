package mail

import (
	"context"

	"github.com/dtroode/enrollment-server/internal/logger"
	"github.com/dtroode/enrollment-server/internal/model"
)

var _ model.Mailer = (*Log)(nil)

// Log is a development transport that records that a message would have been
// sent. Bodies are never logged since they carry the verification link.
type Log struct {
	logger *logger.Logger
}

func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(_ context.Context, msg model.Message) error {
	l.logger.Info("Mail log transport: message accepted",
		"to", msg.To,
		"subject", msg.Subject,
		"html_bytes", len(msg.HTML),
		"text_bytes", len(msg.Text))
	return nil
}
