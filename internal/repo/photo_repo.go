package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/trailmark/internal/model"
	"github.com/xxxsen/trailmark/internal/pkg/dbutil"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
)

var photoFields = []string{"id", "user_id", "marker_id", "file_key", "url", "name", "content_type", "size", "ctime"}

type PhotoRepo struct {
	db *dbutil.Executor
}

func NewPhotoRepo(db *dbutil.Executor) *PhotoRepo {
	return &PhotoRepo{db: db}
}

func (r *PhotoRepo) Create(ctx context.Context, photo *model.Photo) error {
	data := map[string]interface{}{
		"id":           photo.ID,
		"user_id":      photo.UserID,
		"marker_id":    photo.MarkerID,
		"file_key":     photo.FileKey,
		"url":          photo.URL,
		"name":         photo.Name,
		"content_type": photo.ContentType,
		"size":         photo.Size,
		"ctime":        photo.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("photos", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PhotoRepo) GetByID(ctx context.Context, userID, photoID string) (*model.Photo, error) {
	items, err := r.list(ctx, map[string]interface{}{"id": photoID, "user_id": userID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &items[0], nil
}

func (r *PhotoRepo) ListByMarker(ctx context.Context, userID, markerID string) ([]model.Photo, error) {
	return r.list(ctx, map[string]interface{}{
		"user_id":   userID,
		"marker_id": markerID,
		"_orderby":  "ctime asc, id asc",
	})
}

func (r *PhotoRepo) list(ctx context.Context, where map[string]interface{}) ([]model.Photo, error) {
	sqlStr, args, err := builder.BuildSelect("photos", where, photoFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Photo, 0)
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.UserID, &p.MarkerID, &p.FileKey, &p.URL, &p.Name, &p.ContentType, &p.Size, &p.Ctime); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *PhotoRepo) Delete(ctx context.Context, userID, photoID string) error {
	sqlStr, args, err := builder.BuildDelete("photos", map[string]interface{}{"id": photoID, "user_id": userID})
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *PhotoRepo) DeleteByMarker(ctx context.Context, markerID string) error {
	sqlStr, args, err := builder.BuildDelete("photos", map[string]interface{}{"marker_id": markerID})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
