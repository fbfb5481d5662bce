package model

import (
	"context"
	"io"
)

// ObjectStorage stores opaque objects under string keys.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}
