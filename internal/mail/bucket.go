package mail

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/enrollment-server/internal/model"
)

const emlContentType = "message/rfc822"

var _ model.Mailer = (*Bucket)(nil)

// Bucket writes each message as an .eml object instead of sending it.
// Useful for staging environments where a mail catcher reads the bucket.
type Bucket struct {
	storage model.ObjectStorage
	from    string
	now     func() time.Time
}

func NewBucket(storage model.ObjectStorage, from string) *Bucket {
	return &Bucket{
		storage: storage,
		from:    from,
		now:     time.Now,
	}
}

func (b *Bucket) Send(ctx context.Context, msg model.Message) error {
	m, err := buildMsg(b.from, msg)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrMailDelivery, err)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return fmt.Errorf("%w: failed to encode message: %w", model.ErrMailDelivery, err)
	}

	key := b.objectKey()
	if err := b.storage.Upload(ctx, key, &buf, emlContentType); err != nil {
		return fmt.Errorf("%w: %w", model.ErrMailDelivery, err)
	}

	return nil
}

func (b *Bucket) objectKey() string {
	return fmt.Sprintf("outbox/%s/%s.eml", b.now().UTC().Format("2006-01-02"), uuid.NewString())
}
