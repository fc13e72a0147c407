// Package blob stores uploaded files.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCS writes objects into a single Google Cloud Storage bucket.
type GCS struct {
	Client *storage.Client
	Bucket string

	// open returns the object writer; nil means a storage.Writer on Client.
	open func(ctx context.Context, objectPath, contentType string) io.WriteCloser
}

func NewGCS(client *storage.Client, bucket string) *GCS {
	return &GCS{Client: client, Bucket: bucket}
}

// Put streams r into the bucket and returns the object's public URL.
// A failed read aborts the upload, so no partial object is left behind.
func (g *GCS) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	open := g.open
	if open == nil {
		if g.Client == nil || g.Bucket == "" {
			return "", errors.New("gcs not configured")
		}
		open = g.writer
	}

	// storage.Writer discards the object when its context is cancelled before Close
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wc := open(wctx, objectPath, contentType)
	if _, err := io.Copy(wc, r); err != nil {
		cancel()
		_ = wc.Close()
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", objectPath, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.Bucket, objectPath), nil
}

func (g *GCS) writer(ctx context.Context, objectPath, contentType string) io.WriteCloser {
	wc := g.Client.Bucket(g.Bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "private, max-age=0"
	return wc
}
