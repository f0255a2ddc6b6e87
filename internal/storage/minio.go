package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/gethired/gethired/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps the object store holding uploaded resumes. All paths are
// relative to the configured bucket.
type Client struct {
	mc     *minio.Client
	bucket string
	logger *log.Logger
}

func NewClient(ctx context.Context, cfg config.StorageConfig, logger *log.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is not configured")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	c := &Client{mc: mc, bucket: cfg.Bucket, logger: logger}
	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", c.bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", c.bucket, err)
	}
	if c.logger != nil {
		c.logger.Printf("[Storage] created bucket %s", c.bucket)
	}
	return nil
}

func (c *Client) Put(ctx context.Context, objectPath string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := c.mc.PutObject(ctx, c.bucket, objectPath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %q: %w", objectPath, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, objectPath string) ([]byte, error) {
	obj, err := c.mc.GetObject(ctx, c.bucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object %q: %w", objectPath, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", objectPath, err)
	}
	return data, nil
}

func (c *Client) PresignedGetURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, objectPath, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object %q: %w", objectPath, err)
	}
	return u.String(), nil
}

func (c *Client) Remove(ctx context.Context, objectPath string) error {
	if err := c.mc.RemoveObject(ctx, c.bucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", objectPath, err)
	}
	return nil
}
