package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/trailmark/internal/filestore"
	"github.com/xxxsen/trailmark/internal/model"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
	"github.com/xxxsen/trailmark/internal/pkg/timeutil"
	"github.com/xxxsen/trailmark/internal/repo"
)

var photoTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type PhotoService struct {
	reads   *repo.Repos
	coord   *Coordinator
	store   filestore.Store
	maxSize int64
}

type PhotoUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        filestore.ReadSeekCloser
}

func NewPhotoService(reads *repo.Repos, coord *Coordinator, store filestore.Store, maxSize int64) *PhotoService {
	return &PhotoService{reads: reads, coord: coord, store: store, maxSize: maxSize}
}

func (s *PhotoService) MaxSize() int64 {
	return s.maxSize
}

// Upload stores the blob first and then records it. A blob whose row could not
// be written is removed again.
func (s *PhotoService) Upload(ctx context.Context, userID, markerID string, upload PhotoUpload) (*model.Photo, error) {
	ext := strings.ToLower(filepath.Ext(upload.Name))
	expected, ok := photoTypes[ext]
	if !ok || upload.ContentType != expected {
		return nil, appErr.ErrInvalid
	}
	if s.maxSize > 0 && upload.Size > s.maxSize {
		return nil, appErr.ErrTooLarge
	}
	if _, err := s.reads.Markers.GetByID(ctx, userID, markerID); err != nil {
		return nil, err
	}
	id := newID()
	key := id + ext
	if err := s.store.Save(ctx, key, upload.Body, upload.Size); err != nil {
		return nil, err
	}
	photo := &model.Photo{
		ID:          id,
		UserID:      userID,
		MarkerID:    markerID,
		FileKey:     key,
		URL:         s.store.URL(key),
		Name:        upload.Name,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		Ctime:       timeutil.NowUnix(),
	}
	err := s.coord.Atomic(ctx, "photo.create", func(r *repo.Repos) error {
		if _, err := r.Markers.GetByID(ctx, userID, markerID); err != nil {
			return err
		}
		return r.Photos.Create(ctx, photo)
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logutil.GetLogger(ctx).Error("remove orphan photo blob failed",
				zap.String("file_key", key),
				zap.Error(delErr),
			)
		}
		return nil, err
	}
	return photo, nil
}

func (s *PhotoService) List(ctx context.Context, userID, markerID string) ([]model.Photo, error) {
	if _, err := s.reads.Markers.GetByID(ctx, userID, markerID); err != nil {
		return nil, err
	}
	return s.reads.Photos.ListByMarker(ctx, userID, markerID)
}

func (s *PhotoService) Delete(ctx context.Context, userID, photoID string) error {
	return s.coord.Atomic(ctx, "photo.delete", func(r *repo.Repos) error {
		photo, err := r.Photos.GetByID(ctx, userID, photoID)
		if err != nil {
			return err
		}
		if err := r.PhotoGC.Enqueue(ctx, []string{photo.FileKey}, timeutil.NowUnix()); err != nil {
			return err
		}
		return r.Photos.Delete(ctx, userID, photoID)
	})
}

// SweepRemoved deletes up to limit queued blobs and returns how many were
// removed. A blob that fails to delete stays queued for the next sweep.
func (s *PhotoService) SweepRemoved(ctx context.Context, limit uint) (int, error) {
	keys, err := s.reads.PhotoGC.List(ctx, limit)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			logutil.GetLogger(ctx).Warn("delete photo blob failed",
				zap.String("file_key", key),
				zap.Error(err),
			)
			continue
		}
		if err := s.reads.PhotoGC.Delete(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
