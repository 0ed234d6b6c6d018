package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultPhotoGCBatch = 200

type photoSweeper interface {
	SweepRemoved(ctx context.Context, limit uint) (int, error)
}

// PhotoGCJob removes blobs of deleted photos.
type PhotoGCJob struct {
	photos photoSweeper
	batch  uint
}

func NewPhotoGCJob(photos photoSweeper, batch uint) *PhotoGCJob {
	if batch == 0 {
		batch = defaultPhotoGCBatch
	}
	return &PhotoGCJob{photos: photos, batch: batch}
}

func (j *PhotoGCJob) Name() string {
	return "photo_gc"
}

// Run sweeps batches until the queue drains or a batch makes no progress.
func (j *PhotoGCJob) Run(ctx context.Context) error {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		removed, err := j.photos.SweepRemoved(ctx, j.batch)
		if err != nil {
			return err
		}
		total += removed
		if removed < int(j.batch) {
			break
		}
	}
	if total > 0 {
		logutil.GetLogger(ctx).Info("photo blobs removed", zap.Int("count", total))
	}
	return nil
}
