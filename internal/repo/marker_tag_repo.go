package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/trailmark/internal/pkg/dbutil"
)

type MarkerTagRepo struct {
	db *dbutil.Executor
}

func NewMarkerTagRepo(db *dbutil.Executor) *MarkerTagRepo {
	return &MarkerTagRepo{db: db}
}

// ReplaceByMarker drops every link of the marker and inserts exactly tagIDs.
func (r *MarkerTagRepo) ReplaceByMarker(ctx context.Context, markerID string, tagIDs []string) error {
	if err := r.DeleteByMarker(ctx, markerID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, map[string]interface{}{
			"marker_id": markerID,
			"tag_id":    tagID,
		})
	}
	sqlStr, args, err := builder.BuildInsert("marker_tags", rows)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *MarkerTagRepo) DeleteByMarker(ctx context.Context, markerID string) error {
	sqlStr, args, err := builder.BuildDelete("marker_tags", map[string]interface{}{"marker_id": markerID})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListNamesByUser maps marker id to its tag names, sorted by name.
func (r *MarkerTagRepo) ListNamesByUser(ctx context.Context, userID string) (map[string][]string, error) {
	sqlStr := "SELECT mt.marker_id, t.name FROM marker_tags mt " +
		"JOIN tags t ON t.id = mt.tag_id " +
		"JOIN markers m ON m.id = mt.marker_id " +
		"WHERE m.user_id = ? ORDER BY mt.marker_id, t.name"
	rows, err := r.db.QueryContext(ctx, sqlStr, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[string][]string)
	for rows.Next() {
		var markerID, name string
		if err := rows.Scan(&markerID, &name); err != nil {
			return nil, err
		}
		result[markerID] = append(result[markerID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MarkerTagRepo) ListNamesByMarker(ctx context.Context, markerID string) ([]string, error) {
	sqlStr := "SELECT t.name FROM marker_tags mt JOIN tags t ON t.id = mt.tag_id " +
		"WHERE mt.marker_id = ? ORDER BY t.name"
	rows, err := r.db.QueryContext(ctx, sqlStr, markerID)
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
