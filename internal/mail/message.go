package mail

import (
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/dtroode/enrollment-server/internal/model"
)

// buildMsg converts a rendered message into a multipart/alternative MIME message.
func buildMsg(from string, msg model.Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)

	return m, nil
}
