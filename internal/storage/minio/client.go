package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/proposaldesk/docstore/internal/model"
)

// Internal adapter interfaces to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// adminAPI is the slice of the MinIO admin client the adapter needs for
// per-account credentials.
type adminAPI interface {
	AddUser(ctx context.Context, accessKey, secretKey string) error
	RemoveUser(ctx context.Context, accessKey string) error
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}
func (w minioClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}
func (w minioClientWrapper) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return w.c.ListObjects(ctx, bucketName, opts)
}

var _ model.Storage = (*Client)(nil)

type Client struct {
	api    minioAPI
	admin  adminAPI
	bucket string
}

// NewClient creates a new MinIO storage client using real MinIO clients.
func NewClient(ctx context.Context, client *minio.Client, admin adminAPI, bucket string) (*Client, error) {
	return NewClientWithAPI(ctx, minioClientWrapper{c: client}, admin, bucket)
}

// NewClientWithAPI allows injecting mockable APIs (used in tests).
func NewClientWithAPI(ctx context.Context, api minioAPI, admin adminAPI, bucket string) (*Client, error) {
	c := &Client{
		api:    api,
		admin:  admin,
		bucket: bucket,
	}

	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Put uploads data under prefix/name.
func (c *Client) Put(ctx context.Context, prefix, name string, reader io.Reader, size int64, contentType string) error {
	key := joinKey(prefix, name)
	_, err := c.api.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Get opens a read stream together with the object's metadata.
func (c *Client) Get(ctx context.Context, path string) (io.ReadCloser, model.ObjectInfo, error) {
	info, err := c.Stat(ctx, path)
	if err != nil {
		return nil, model.ObjectInfo{}, err
	}
	if !info.Exists {
		return nil, model.ObjectInfo{}, model.ErrNotFound
	}

	obj, err := c.api.GetObject(ctx, c.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, model.ObjectInfo{}, fmt.Errorf("failed to get object: %w", err)
	}
	return obj, info, nil
}

// Stat describes an object. A missing object is reported with Exists=false
// and a nil error; the upload rename loop relies on that.
func (c *Client) Stat(ctx context.Context, path string) (model.ObjectInfo, error) {
	info, err := c.api.StatObject(ctx, c.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return model.ObjectInfo{Path: path, Exists: false}, nil
		}
		return model.ObjectInfo{}, fmt.Errorf("failed to stat object: %w", err)
	}

	return model.ObjectInfo{
		Path:         path,
		Exists:       true,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// Delete removes a single object.
func (c *Client) Delete(ctx context.Context, path string) error {
	err := c.api.RemoveObject(ctx, c.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeletePrefix removes every object under the prefix. Used by soft delete,
// where metadata is authoritative: the caller tolerates failures here.
func (c *Client) DeletePrefix(ctx context.Context, prefix string) error {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var lastErr error
	for obj := range c.api.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			lastErr = obj.Err
			continue
		}
		if err := c.api.RemoveObject(ctx, c.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to delete prefix %q: %w", prefix, lastErr)
	}
	return nil
}

// CreateUser provisions per-account object-store credentials.
func (c *Client) CreateUser(ctx context.Context, login, password string) error {
	if err := c.admin.AddUser(ctx, login, password); err != nil {
		return fmt.Errorf("failed to create storage user: %w", err)
	}
	return nil
}

// RemoveUser revokes per-account object-store credentials.
func (c *Client) RemoveUser(ctx context.Context, login string) error {
	if err := c.admin.RemoveUser(ctx, login); err != nil {
		return fmt.Errorf("failed to remove storage user: %w", err)
	}
	return nil
}

func joinKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	name = strings.TrimLeft(name, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
