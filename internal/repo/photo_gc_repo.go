package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/trailmark/internal/pkg/dbutil"
)

// PhotoGCRepo queues blob keys whose photo rows are gone.
type PhotoGCRepo struct {
	db *dbutil.Executor
}

func NewPhotoGCRepo(db *dbutil.Executor) *PhotoGCRepo {
	return &PhotoGCRepo{db: db}
}

func (r *PhotoGCRepo) Enqueue(ctx context.Context, fileKeys []string, now int64) error {
	for _, key := range fileKeys {
		if _, err := r.db.ExecContext(ctx,
			"INSERT INTO photo_gc (file_key, ctime) VALUES (?, ?) ON CONFLICT (file_key) DO NOTHING",
			key, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *PhotoGCRepo) List(ctx context.Context, limit uint) ([]string, error) {
	where := map[string]interface{}{"_orderby": "ctime asc", "_limit": []uint{0, limit}}
	sqlStr, args, err := builder.BuildSelect("photo_gc", where, []string{"file_key"})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *PhotoGCRepo) Delete(ctx context.Context, fileKey string) error {
	sqlStr, args, err := builder.BuildDelete("photo_gc", map[string]interface{}{"file_key": fileKey})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
