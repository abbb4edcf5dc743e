// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

/*
Package media provides the client for the hosted object store that holds
book covers, book PDFs, and profile photos.

It wraps MinIO (S3-compatible) behind a small [Store] interface so the
service layer never touches SDK types.

Contract:

  - Upload: writes a blob under a folder namespace and returns a durable
    public URL. Failures must abort the caller before any document write.
  - Destroy: deletes a previously uploaded object, addressed by the URL the
    store returned earlier. Best-effort — a missing object is not an error.

No local state is retained; the remote store is the single source of truth
for binary content.
*/
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dangvh/libris/pkg/slug"
	"github.com/dangvh/libris/pkg/uuid"
)

// setupTimeout bounds the bucket existence check at startup.
const setupTimeout = 5 * time.Second

// ErrNotFound is returned by [Store.Destroy] implementations when the
// addressed object does not exist. Callers treat it as success.
var ErrNotFound = errors.New("media: object not found")

// UploadInput carries one binary blob destined for the object store.
type UploadInput struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
	// Folder is the namespace prefix (e.g. "book_covers", "book_pdfs").
	Folder string
}

// Store is the Media Store Client contract consumed by the service layer.
type Store interface {
	// Upload stores the blob and returns its durable public URL.
	Upload(ctx context.Context, input UploadInput) (string, error)

	// Destroy removes the object addressed by a URL previously returned by
	// Upload. Returns [ErrNotFound] if the object no longer exists.
	Destroy(ctx context.Context, objectURL string) error
}

// # MinIO Implementation

// Config holds the connection settings for the MinIO-backed store.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// MinioStore implements [Store] against a MinIO/S3-compatible backend.
type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewMinioStore connects to the object store and ensures the bucket exists.
func NewMinioStore(cfg Config, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("media: failed to initialize client: %w", err)
	}

	setupCtx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	exists, err := client.BucketExists(setupCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("media: failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(setupCtx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("media: failed to create bucket: %w", err)
		}
	}

	logger.Info("media store connected",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("bucket", cfg.Bucket),
	)

	return &MinioStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload stores the blob under "<folder>/<uuidv7>-<slugged-filename>" and
// returns its public URL.
func (store *MinioStore) Upload(ctx context.Context, input UploadInput) (string, error) {
	key := ObjectKey(input.Folder, input.Filename)

	_, err := store.client.PutObject(ctx, store.bucket, key, input.Reader, input.Size, minio.PutObjectOptions{
		ContentType: input.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("media: upload of %s failed: %w", key, err)
	}

	store.logger.Info("media_object_uploaded",
		slog.String("key", key),
		slog.Int64("size", input.Size),
	)

	return store.publicBaseURL + "/" + key, nil
}

// Destroy removes the object addressed by objectURL.
func (store *MinioStore) Destroy(ctx context.Context, objectURL string) error {
	key, err := KeyFromURL(objectURL)
	if err != nil {
		return err
	}

	// RemoveObject is silent for missing keys on most S3 backends; probe
	// first so callers can distinguish "gone already" from "deleted now".
	if _, err := store.client.StatObject(ctx, store.bucket, key, minio.StatObjectOptions{}); err != nil {
		var errorResponse minio.ErrorResponse
		if errors.As(err, &errorResponse) && errorResponse.Code == "NoSuchKey" {
			return ErrNotFound
		}
		return fmt.Errorf("media: stat of %s failed: %w", key, err)
	}

	if err := store.client.RemoveObject(ctx, store.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("media: delete of %s failed: %w", key, err)
	}

	store.logger.Info("media_object_deleted", slog.String("key", key))
	return nil
}

// Ping verifies the bucket is still reachable. Used by the readiness probe.
func (store *MinioStore) Ping(ctx context.Context) error {
	exists, err := store.client.BucketExists(ctx, store.bucket)
	if err != nil {
		return fmt.Errorf("media: ping failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("media: bucket %q is missing", store.bucket)
	}
	return nil
}

// # Key Derivation

// ObjectKey builds the storage key for a fresh upload. A UUIDv7 prefix keeps
// keys collision-free while the slugged filename keeps them readable.
func ObjectKey(folder, filename string) string {
	extension := strings.ToLower(path.Ext(filename))
	base := slug.From(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = "file"
	}
	return folder + "/" + uuid.New() + "-" + base + extension
}

// KeyFromURL derives the object key (folder + object name) from a public URL
// previously returned by Upload.
//
// The key is always the trailing two path segments; the base URL in front of
// them may change over time (CDN moves) without stranding old objects.
func KeyFromURL(objectURL string) (string, error) {
	parsed, err := url.Parse(objectURL)
	if err != nil {
		return "", fmt.Errorf("media: unparseable object URL %q: %w", objectURL, err)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 {
		return "", fmt.Errorf("media: object URL %q has no folder segment", objectURL)
	}

	return segments[len(segments)-2] + "/" + segments[len(segments)-1], nil
}
