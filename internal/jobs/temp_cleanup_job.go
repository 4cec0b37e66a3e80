package jobs

import (
	"context"
	"time"

	"github.com/veritas-legal/casefile-api/internal/blob"
	"go.uber.org/zap"
)

// TempCleanupJobName identifies the temp-uploads cleanup job in the scheduler
const TempCleanupJobName = "temp-uploads-cleanup"

// tempStorage is the slice of the blob service the cleanup job needs
type tempStorage interface {
	List(ctx context.Context, container, prefix string) ([]blob.BlobInfo, error)
	Delete(ctx context.Context, container, blobName string) error
}

// TempCleanupJob purges blobs from the temp-uploads container once they
// exceed the configured age.
type TempCleanupJob struct {
	storage tempStorage
	maxAge  time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

// NewTempCleanupJob creates the cleanup job
func NewTempCleanupJob(storage tempStorage, maxAge time.Duration, logger *zap.Logger) *TempCleanupJob {
	return &TempCleanupJob{
		storage: storage,
		maxAge:  maxAge,
		timeout: 5 * time.Minute,
		logger:  logger,
	}
}

// Run lists the temp-uploads container and deletes expired blobs. Individual
// deletion failures are logged and the sweep continues.
func (j *TempCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	blobs, err := j.storage.List(ctx, blob.ContainerTempUploads, "")
	if err != nil {
		j.logger.Error("Temp cleanup failed to list blobs", zap.Error(err))
		return
	}

	cutoff := time.Now().Add(-j.maxAge)
	deleted := 0
	for _, b := range blobs {
		if b.LastModified.After(cutoff) {
			continue
		}
		if err := j.storage.Delete(ctx, blob.ContainerTempUploads, b.Name); err != nil {
			j.logger.Warn("Temp cleanup failed to delete blob",
				zap.String("blob", b.Name),
				zap.Error(err),
			)
			continue
		}
		deleted++
	}

	if deleted > 0 || len(blobs) > 0 {
		j.logger.Info("Temp uploads cleanup finished",
			zap.Int("scanned", len(blobs)),
			zap.Int("deleted", deleted),
		)
	}
}
