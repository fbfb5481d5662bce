package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr         error
	putKey         string
	putContentType string
	putBody        []byte

	statErr error
}

func (f *fakeObjectAPI) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeObjectAPI) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}

func (f *fakeObjectAPI) PutObject(_ context.Context, _ string, key string, r io.Reader, _ int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	f.putKey = key
	f.putContentType = opts.ContentType
	f.putBody, _ = io.ReadAll(r)
	return minioLib.UploadInfo{Key: key}, f.putErr
}

func (f *fakeObjectAPI) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return minioLib.ObjectInfo{}, f.statErr
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		api := &fakeObjectAPI{bucketExists: true}
		s, err := NewStore(ctx, api, "mail")
		require.NoError(t, err)
		assert.Equal(t, "mail", s.bucket)
		assert.Empty(t, api.madeBucket)
	})

	t.Run("bucket created", func(t *testing.T) {
		api := &fakeObjectAPI{}
		_, err := NewStore(ctx, api, "mail")
		require.NoError(t, err)
		assert.Equal(t, "mail", api.madeBucket)
	})

	t.Run("exists check fails", func(t *testing.T) {
		api := &fakeObjectAPI{bucketExistsErr: errors.New("boom")}
		s, err := NewStore(ctx, api, "mail")
		assert.Nil(t, s)
		assert.ErrorContains(t, err, "failed to ensure bucket exists")
	})

	t.Run("create fails", func(t *testing.T) {
		api := &fakeObjectAPI{makeBucketErr: errors.New("fail")}
		s, err := NewStore(ctx, api, "mail")
		assert.Nil(t, s)
		assert.ErrorContains(t, err, "failed to create bucket")
	})
}

func TestStore_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeObjectAPI{}
		s := &Store{api: api, bucket: "mail"}
		err := s.Upload(ctx, "outbox/a.eml", bytes.NewReader([]byte("data")), "message/rfc822")
		require.NoError(t, err)
		assert.Equal(t, "outbox/a.eml", api.putKey)
		assert.Equal(t, "message/rfc822", api.putContentType)
		assert.Equal(t, []byte("data"), api.putBody)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeObjectAPI{putErr: errors.New("put-fail")}
		s := &Store{api: api, bucket: "mail"}
		err := s.Upload(ctx, "k", bytes.NewReader(nil), "")
		assert.ErrorContains(t, err, "failed to upload object")
	})
}

func TestStore_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		s := &Store{api: &fakeObjectAPI{}, bucket: "mail"}
		ok, err := s.Exists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not found", func(t *testing.T) {
		s := &Store{api: &fakeObjectAPI{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}, bucket: "mail"}
		ok, err := s.Exists(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other error", func(t *testing.T) {
		s := &Store{api: &fakeObjectAPI{statErr: errors.New("stat-fail")}, bucket: "mail"}
		ok, err := s.Exists(ctx, "k")
		assert.False(t, ok)
		assert.ErrorContains(t, err, "failed to stat object")
	})
}
