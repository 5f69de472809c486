package data

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"wineetl/pkg/config"
	"wineetl/pkg/dataset"
)

// ObjectPutter is the subset of *minio.Client used by ObjectSink.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ObjectSink uploads the processed dataset to an S3-compatible bucket.
type ObjectSink struct {
	client ObjectPutter
	bucket string
	key    string
}

// NewObjectSink connects to the configured store. name is the object name
// under the configured prefix and selects the format by extension.
func NewObjectSink(cfg config.ObjectStoreConfig, name string) (*ObjectSink, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}
	return NewObjectSinkWithClient(client, cfg.Bucket, path.Join(cfg.Prefix, name)), nil
}

func NewObjectSinkWithClient(client ObjectPutter, bucket, key string) *ObjectSink {
	return &ObjectSink{client: client, bucket: bucket, key: key}
}

// Key is the object key written by Load.
func (s *ObjectSink) Key() string { return s.key }

func (s *ObjectSink) Load(ctx context.Context, f *dataset.Frame) error {
	format := FormatOf(s.key)
	var buf bytes.Buffer
	if err := Encode(&buf, f, format); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
		ContentType: format.ContentType(),
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}
