// Package gcs reads statements from and writes workbooks to Google Cloud Storage.
// It uses Application Default Credentials.
package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
)

const scheme = "gs://"

const uploadTimeout = 2 * time.Minute

// IsURI reports whether s names a storage object rather than a local path.
func IsURI(s string) bool {
	return strings.HasPrefix(s, scheme)
}

// ParseURI splits gs://bucket/path into bucket and object path. The object path may
// be empty when the URI only names a bucket.
func ParseURI(uri string) (bucket, object string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	bucket, object, _ = strings.Cut(strings.TrimPrefix(uri, scheme), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no bucket): %s", uri)
	}
	return bucket, strings.Trim(object, "/"), nil
}

// Filename returns the last element of the object path.
// e.g., "gs://bucket/2024/marzo.pdf" → "marzo.pdf"
func Filename(uri string) string {
	_, object, err := ParseURI(uri)
	if err != nil || object == "" {
		return ""
	}
	return path.Base(object)
}

// ObjectName places filename under prefix.
func ObjectName(prefix, filename string) string {
	if prefix == "" {
		return filename
	}
	return path.Join(prefix, filename)
}

// Fetch downloads the object named by uri.
func Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if object == "" {
		return nil, fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading object %s/%s: %w", bucket, object, err)
	}

	log.Debug().Str("uri", uri).Int("bytes", len(data)).Msg("fetched object")
	return data, nil
}

// Upload copies a local file under the gs://bucket/prefix destination, keeping its
// base name, and returns the URI of the new object.
func Upload(ctx context.Context, destination, filePath string) (string, error) {
	bucket, prefix, err := ParseURI(destination)
	if err != nil {
		return "", err
	}

	object := ObjectName(prefix, path.Base(filePath))
	if err := UploadFile(ctx, bucket, object, filePath); err != nil {
		return "", err
	}
	return scheme + bucket + "/" + object, nil
}

// UploadFile uploads a local file to bucket under the given object name.
func UploadFile(ctx context.Context, bucket, object, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy file to GCS writer: %w", err)
	}

	// the object only exists once the writer is closed
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}

	log.Info().Str("bucket", bucket).Str("object", object).Msg("uploaded workbook")
	return nil
}
