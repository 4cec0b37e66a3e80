package service

import (
	"context"
	"net/http"
	"time"
)

// BlobStore is the storage surface the services depend on. The blob
// package's Service satisfies it; tests substitute fakes.
type BlobStore interface {
	Upload(ctx context.Context, container, blobName string, data []byte, contentType string) error
	Download(ctx context.Context, container, blobName string, w http.ResponseWriter) error
	Fetch(ctx context.Context, container, blobName string) ([]byte, error)
	Delete(ctx context.Context, container, blobName string) error
	Copy(ctx context.Context, srcContainer, srcBlob, dstContainer, dstBlob string, deleteSource bool) error
	SignedURL(ctx context.Context, container, blobName string, expiry time.Duration) (string, bool, error)
	DefaultSasExpiry() time.Duration
}

func nowPlus(d time.Duration) string {
	return time.Now().UTC().Add(d).Format("2006-01-02T15:04:05Z")
}
