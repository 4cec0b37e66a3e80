// Package blob wraps Azure Blob Storage behind the service's own storage
// port: container initialization, upload/download, delete, server-side copy,
// listing, metadata and time-limited signed URLs. All operations return
// explicit errors; callers decide how failures surface.
package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	azb "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/veritas-legal/casefile-api/internal/config"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"go.uber.org/zap"
)

// Fixed logical container names
const (
	ContainerDocuments    = "documents"
	ContainerMedicalBills = "medical-bills"
	ContainerProcessed    = "processed-documents"
	ContainerTempUploads  = "temp-uploads"
)

// Containers lists every container the service manages, in creation order.
var Containers = []string{
	ContainerDocuments,
	ContainerMedicalBills,
	ContainerProcessed,
	ContainerTempUploads,
}

// DefaultContentType is applied to uploads that do not specify one
const DefaultContentType = "application/octet-stream"

// copyPollInterval is the delay between copy status polls
const copyPollInterval = 200 * time.Millisecond

// BlobInfo describes a stored object as returned by List
type BlobInfo struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	ContentType  string    `json:"contentType"`
}

// Service wraps the Azure Blob Storage SDK. It is safe for concurrent use;
// same-key writes race at the backend's last-writer-wins semantics.
type Service struct {
	client    *azblob.Client
	sharedKey *azblob.SharedKeyCredential
	sasExpiry time.Duration
	logger    *zap.Logger
}

// NewService creates a blob service from configuration. Credential modes are
// mutually exclusive: a full connection string, or account name + account key.
// Missing credentials are a configuration error, fatal at construction.
func NewService(cfg *config.BlobConfig, logger *zap.Logger) (*Service, error) {
	sasExpiry := cfg.SasExpiry()
	if sasExpiry <= 0 {
		sasExpiry = 2 * time.Hour
	}

	switch {
	case cfg.ConnectionString != "":
		client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client: %w", err)
		}
		svc := &Service{client: client, sasExpiry: sasExpiry, logger: logger}
		// A signing credential can usually be recovered from the connection
		// string; without one, SignedURL degrades to the bare blob URL.
		if name, key, ok := parseConnectionString(cfg.ConnectionString); ok {
			cred, err := azblob.NewSharedKeyCredential(name, key)
			if err != nil {
				logger.Warn("Connection string account key unusable for SAS signing", zap.Error(err))
			} else {
				svc.sharedKey = cred
			}
		}
		logger.Info("Blob storage client initialized", zap.String("credential_mode", "connection_string"))
		return svc, nil

	case cfg.AccountName != "" && cfg.AccountKey != "":
		cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccountName)
		client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client: %w", err)
		}
		logger.Info("Blob storage client initialized",
			zap.String("credential_mode", "shared_key"),
			zap.String("account", cfg.AccountName),
		)
		return &Service{client: client, sharedKey: cred, sasExpiry: sasExpiry, logger: logger}, nil

	default:
		return nil, fmt.Errorf("blob storage credentials missing: set a connection string or account name + key")
	}
}

// InitializeContainers ensures every managed container exists. Idempotent;
// propagates the first creation failure since later operations assume the
// containers are present.
func (s *Service) InitializeContainers(ctx context.Context) error {
	for _, name := range Containers {
		_, err := s.client.CreateContainer(ctx, name, nil)
		if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
			return fmt.Errorf("failed to create container %s: %w", name, err)
		}
	}
	s.logger.Info("Blob containers initialized", zap.Strings("containers", Containers))
	return nil
}

// Upload stores raw bytes under the given key, overwriting any existing blob.
// An empty contentType defaults to application/octet-stream; an upload
// timestamp is recorded as blob metadata.
func (s *Service) Upload(ctx context.Context, container, blobName string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = DefaultContentType
	}

	uploadedAt := time.Now().UTC().Format(time.RFC3339)
	_, err := s.client.UploadBuffer(ctx, container, blobName, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &azb.HTTPHeaders{
			BlobContentType: &contentType,
		},
		Metadata: map[string]*string{
			"uploadedat": &uploadedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob %s/%s: %w", container, blobName, err)
	}

	s.logger.Info("Blob uploaded",
		zap.String("container", container),
		zap.String("blob", blobName),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)),
	)
	return nil
}

// Download streams the stored bytes directly to the HTTP response. A missing
// blob produces a 404 with a JSON error body; a stream failure after headers
// were written can only be logged. Failures never propagate as panics to the
// transport layer.
func (s *Service) Download(ctx context.Context, container, blobName string, w http.ResponseWriter) error {
	blobClient := s.blobClient(container, blobName)

	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if isNotFound(err) {
			writeJSONError(w, http.StatusNotFound, "File not found")
			return fmt.Errorf("blob %s/%s not found", container, blobName)
		}
		writeJSONError(w, http.StatusInternalServerError, "Failed to read file")
		return fmt.Errorf("failed to get blob properties %s/%s: %w", container, blobName, err)
	}

	resp, err := s.client.DownloadStream(ctx, container, blobName, nil)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to download file")
		return fmt.Errorf("failed to download blob %s/%s: %w", container, blobName, err)
	}
	defer resp.Body.Close()

	contentType := DefaultContentType
	if props.ContentType != nil {
		contentType = *props.ContentType
	}
	w.Header().Set("Content-Type", contentType)
	if props.ContentLength != nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", *props.ContentLength))
	}
	w.Header().Set("Cache-Control", "private, max-age=300")

	if _, err := io.Copy(w, resp.Body); err != nil {
		// Headers already sent; nothing left to do but record the failure.
		s.logger.Error("Blob stream interrupted",
			zap.String("container", container),
			zap.String("blob", blobName),
			zap.Error(err),
		)
		return fmt.Errorf("stream failed for blob %s/%s: %w", container, blobName, err)
	}
	return nil
}

// Fetch reads a blob fully into memory. Used where the content feeds another
// component (AI analysis, health probes) rather than an HTTP response.
func (s *Service) Fetch(ctx context.Context, container, blobName string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, container, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s/%s: %w", container, blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s/%s: %w", container, blobName, err)
	}
	return data, nil
}

// Delete removes a blob. Idempotent: deleting an absent blob is success.
func (s *Service) Delete(ctx context.Context, container, blobName string) error {
	_, err := s.client.DeleteBlob(ctx, container, blobName, nil)
	if err != nil {
		if isNotFound(err) {
			s.logger.Debug("Blob already deleted or not found",
				zap.String("container", container),
				zap.String("blob", blobName),
			)
			return nil
		}
		return fmt.Errorf("failed to delete blob %s/%s: %w", container, blobName, err)
	}
	return nil
}

// Copy performs a server-side copy between container/key pairs. When
// deleteSource is set, the source is removed only after the copy reports
// success; a pending or failed copy always leaves the source in place.
func (s *Service) Copy(ctx context.Context, srcContainer, srcBlob, dstContainer, dstBlob string, deleteSource bool) error {
	srcClient := s.blobClient(srcContainer, srcBlob)
	dstClient := s.blobClient(dstContainer, dstBlob)

	resp, err := dstClient.StartCopyFromURL(ctx, srcClient.URL(), nil)
	if err != nil {
		return fmt.Errorf("failed to start copy %s/%s -> %s/%s: %w", srcContainer, srcBlob, dstContainer, dstBlob, err)
	}

	status := azb.CopyStatusTypePending
	if resp.CopyStatus != nil {
		status = *resp.CopyStatus
	}

	for status == azb.CopyStatusTypePending {
		select {
		case <-ctx.Done():
			return fmt.Errorf("copy %s/%s -> %s/%s interrupted: %w", srcContainer, srcBlob, dstContainer, dstBlob, ctx.Err())
		case <-time.After(copyPollInterval):
		}

		props, err := dstClient.GetProperties(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to poll copy status %s/%s: %w", dstContainer, dstBlob, err)
		}
		if props.CopyStatus != nil {
			status = *props.CopyStatus
		}
	}

	if status != azb.CopyStatusTypeSuccess {
		return fmt.Errorf("copy %s/%s -> %s/%s finished with status %s", srcContainer, srcBlob, dstContainer, dstBlob, status)
	}

	s.logger.Info("Blob copied",
		zap.String("source", srcContainer+"/"+srcBlob),
		zap.String("destination", dstContainer+"/"+dstBlob),
		zap.Bool("delete_source", deleteSource),
	)

	if deleteSource {
		if err := s.Delete(ctx, srcContainer, srcBlob); err != nil {
			return fmt.Errorf("copy succeeded but source delete failed: %w", err)
		}
	}
	return nil
}

// List returns name/size/last-modified/content-type for all objects under an
// optional key prefix. Errors are returned explicitly so callers can tell an
// empty container from a failed call.
func (s *Service) List(ctx context.Context, container, prefix string) ([]BlobInfo, error) {
	opts := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		opts.Prefix = &prefix
	}

	var infos []BlobInfo
	pager := s.client.NewListBlobsFlatPager(container, opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs in %s: %w", container, err)
		}
		for _, item := range page.Segment.BlobItems {
			info := BlobInfo{}
			if item.Name != nil {
				info.Name = *item.Name
			}
			if item.Properties != nil {
				if item.Properties.ContentLength != nil {
					info.Size = *item.Properties.ContentLength
				}
				if item.Properties.LastModified != nil {
					info.LastModified = *item.Properties.LastModified
				}
				if item.Properties.ContentType != nil {
					info.ContentType = *item.Properties.ContentType
				}
			}
			infos = append(infos, info)
		}
	}
	return infos, nil
}

// GetMetadata returns a blob's metadata with nil-value entries elided
func (s *Service) GetMetadata(ctx context.Context, container, blobName string) (map[string]string, error) {
	props, err := s.blobClient(container, blobName).GetProperties(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata for %s/%s: %w", container, blobName, err)
	}

	metadata := make(map[string]string, len(props.Metadata))
	for k, v := range props.Metadata {
		if v != nil {
			metadata[strings.ToLower(k)] = *v
		}
	}
	return metadata, nil
}

// SetMetadata replaces a blob's metadata after sanitizing keys and values to
// what the backing store accepts. A map that sanitizes to empty is a no-op
// success.
func (s *Service) SetMetadata(ctx context.Context, container, blobName string, metadata map[string]string) error {
	sanitized := SanitizeMetadata(metadata)
	if len(sanitized) == 0 {
		return nil
	}

	md := make(map[string]*string, len(sanitized))
	for k, v := range sanitized {
		value := v
		md[k] = &value
	}

	if _, err := s.blobClient(container, blobName).SetMetadata(ctx, md, nil); err != nil {
		return fmt.Errorf("failed to set metadata for %s/%s: %w", container, blobName, err)
	}
	return nil
}

// SignedURL produces a time-limited, read-only SAS URL for third-party
// access. Without an account-level signing credential it falls back to the
// bare blob URL, which callers must treat as a degraded result.
func (s *Service) SignedURL(ctx context.Context, container, blobName string, expiry time.Duration) (string, bool, error) {
	blobURL := s.blobClient(container, blobName).URL()

	if s.sharedKey == nil {
		s.logger.Warn("No signing credential configured, returning unsigned blob URL",
			zap.String("container", container),
			zap.String("blob", blobName),
		)
		return blobURL, false, nil
	}

	if expiry <= 0 {
		expiry = s.sasExpiry
	}

	now := time.Now().UTC()
	perms := sas.BlobPermissions{Read: true}
	sig := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     now.Add(-5 * time.Minute),
		ExpiryTime:    now.Add(expiry),
		Permissions:   perms.String(),
		ContainerName: container,
		BlobName:      blobName,
	}

	params, err := sig.SignWithSharedKey(s.sharedKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to sign blob URL %s/%s: %w", container, blobName, err)
	}
	return blobURL + "?" + params.Encode(), true, nil
}

// DefaultSasExpiry returns the configured default SAS lifetime
func (s *Service) DefaultSasExpiry() time.Duration {
	return s.sasExpiry
}

func (s *Service) blobClient(container, blobName string) *azb.Client {
	return s.client.ServiceClient().NewContainerClient(container).NewBlobClient(blobName)
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "BlobNotFound")
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	errType := domain.ErrorTypeInternal
	if status == http.StatusNotFound {
		errType = domain.ErrorTypeNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   errType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// parseConnectionString extracts the account name and key from an Azure
// storage connection string, if both are present.
func parseConnectionString(connStr string) (name, key string, ok bool) {
	for _, part := range strings.Split(connStr, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "AccountName":
			name = kv[1]
		case "AccountKey":
			key = kv[1]
		}
	}
	return name, key, name != "" && key != ""
}
