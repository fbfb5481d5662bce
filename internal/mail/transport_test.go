package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/dtroode/enrollment-server/internal/logger"
	"github.com/dtroode/enrollment-server/internal/model"
)

func testMessage() model.Message {
	return model.Message{
		To:      "a@x.com",
		Subject: VerificationSubject,
		HTML:    `<a href="http://localhost/verify/abc">Verify</a>`,
		Text:    "http://localhost/verify/abc",
	}
}

type fakeSender struct {
	sent []*gomail.Msg
	err  error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*gomail.Msg) error {
	f.sent = append(f.sent, messages...)
	return f.err
}

func TestSMTP_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		fs := &fakeSender{}
		s := &SMTP{client: fs, from: "no-reply@example.com"}

		require.NoError(t, s.Send(ctx, testMessage()))
		require.Len(t, fs.sent, 1)

		to := fs.sent[0].GetTo()
		require.Len(t, to, 1)
		assert.Equal(t, "a@x.com", to[0].Address)
		assert.Equal(t, []string{VerificationSubject}, fs.sent[0].GetGenHeader(gomail.HeaderSubject))
	})

	t.Run("relay failure", func(t *testing.T) {
		fs := &fakeSender{err: errors.New("connection refused")}
		s := &SMTP{client: fs, from: "no-reply@example.com"}

		err := s.Send(ctx, testMessage())
		assert.ErrorIs(t, err, model.ErrMailDelivery)
	})

	t.Run("bad recipient", func(t *testing.T) {
		fs := &fakeSender{}
		s := &SMTP{client: fs, from: "no-reply@example.com"}
		msg := testMessage()
		msg.To = "not an address"

		err := s.Send(ctx, msg)
		assert.ErrorIs(t, err, model.ErrMailDelivery)
		assert.Empty(t, fs.sent)
	})
}

func TestNewSMTP(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 2525, Username: "u", Password: "p", From: "no-reply@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "no-reply@example.com", s.from)
}

type memoryStorage struct {
	objects     map[string][]byte
	contentType string
	err         error
}

func (m *memoryStorage) Upload(_ context.Context, key string, r io.Reader, contentType string) error {
	if m.err != nil {
		return m.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = body
	m.contentType = contentType
	return nil
}

func (m *memoryStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

func TestBucket_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("stores eml object", func(t *testing.T) {
		storage := &memoryStorage{}
		b := NewBucket(storage, "no-reply@example.com")
		b.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

		require.NoError(t, b.Send(ctx, testMessage()))
		require.Len(t, storage.objects, 1)
		assert.Equal(t, emlContentType, storage.contentType)

		for key, body := range storage.objects {
			assert.True(t, strings.HasPrefix(key, "outbox/2026-03-01/"))
			assert.True(t, strings.HasSuffix(key, ".eml"))

			ok, err := storage.Exists(ctx, key)
			require.NoError(t, err)
			assert.True(t, ok)

			assert.True(t, bytes.Contains(body, []byte("Subject: "+VerificationSubject)))
			assert.True(t, bytes.Contains(body, []byte("multipart/alternative")))
		}
	})

	t.Run("upload failure", func(t *testing.T) {
		b := NewBucket(&memoryStorage{err: errors.New("bucket gone")}, "no-reply@example.com")
		err := b.Send(ctx, testMessage())
		assert.ErrorIs(t, err, model.ErrMailDelivery)
	})
}

func TestLog_Send(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(logger.NewWithWriter(&buf, 0))

	require.NoError(t, l.Send(context.Background(), testMessage()))

	out := buf.String()
	assert.Contains(t, out, "a@x.com")
	assert.NotContains(t, out, "http://localhost/verify/abc")
}
