package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/trailmark/internal/model"
	"github.com/xxxsen/trailmark/internal/pkg/dbutil"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
)

const upsertTagSQL = "INSERT INTO tags (id, name, ctime) VALUES (?, ?, ?) " +
	"ON CONFLICT (name) DO UPDATE SET name = excluded.name RETURNING id"

type TagRepo struct {
	db *dbutil.Executor
}

func NewTagRepo(db *dbutil.Executor) *TagRepo {
	return &TagRepo{db: db}
}

// GetOrCreate inserts tag unless its name exists and returns the stored id
// either way. It is one statement, so concurrent callers never duplicate a name.
func (r *TagRepo) GetOrCreate(ctx context.Context, tag *model.Tag) (string, error) {
	var id string
	if err := r.db.QueryRowContext(ctx, upsertTagSQL, tag.ID, tag.Name, tag.Ctime).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *TagRepo) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	sqlStr, args, err := builder.BuildSelect("tags", map[string]interface{}{"name": name}, []string{"id", "name", "ctime"})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, appErr.ErrNotFound
	}
	var tag model.Tag
	if err := rows.Scan(&tag.ID, &tag.Name, &tag.Ctime); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *TagRepo) CountByName(ctx context.Context, name string) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags WHERE name = ?", name)
	count := 0
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListNamesByUser returns the distinct names linked to any marker of userID.
func (r *TagRepo) ListNamesByUser(ctx context.Context, userID string) ([]string, error) {
	sqlStr := "SELECT DISTINCT t.name FROM tags t " +
		"JOIN marker_tags mt ON mt.tag_id = t.id " +
		"JOIN markers m ON m.id = mt.marker_id " +
		"WHERE m.user_id = ? ORDER BY t.name"
	rows, err := r.db.QueryContext(ctx, sqlStr, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
