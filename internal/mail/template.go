package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/dtroode/enrollment-server/internal/model"
)

// VerificationSubject is the subject line of verification emails.
const VerificationSubject = "Please verify your email"

// VerificationEmail holds the values rendered into a verification email.
type VerificationEmail struct {
	To          string
	Username    string
	Link        string
	ProductName string
}

var verificationHTML = htmltemplate.Must(htmltemplate.New("verification.html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #333;">
  <h1>Hi {{.Username}},</h1>
  <p>Welcome to {{.ProductName}}! We're very excited to have you on board.</p>
  <p>To verify your email please click on the following button:</p>
  <p>
    <a href="{{.Link}}" style="background: #22BC66; color: #fff; padding: 10px 18px; text-decoration: none; border-radius: 3px;">Verify your email</a>
  </p>
  <p>Need help, or have questions? Just reply to this email, we'd love to help.</p>
  <p>{{.ProductName}}</p>
</body>
</html>
`))

var verificationText = texttemplate.Must(texttemplate.New("verification.txt").Parse(`Hi {{.Username}},

Welcome to {{.ProductName}}! We're very excited to have you on board.

To verify your email please open the following link:

{{.Link}}

Need help, or have questions? Just reply to this email, we'd love to help.

{{.ProductName}}
`))

// RenderVerification renders the HTML and plain-text verification email.
func RenderVerification(e VerificationEmail) (model.Message, error) {
	var html, text bytes.Buffer

	if err := verificationHTML.Execute(&html, e); err != nil {
		return model.Message{}, fmt.Errorf("failed to render html body: %w", err)
	}
	if err := verificationText.Execute(&text, e); err != nil {
		return model.Message{}, fmt.Errorf("failed to render text body: %w", err)
	}

	return model.Message{
		To:      e.To,
		Subject: VerificationSubject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
