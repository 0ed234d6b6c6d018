package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/trailmark/internal/model"
	"github.com/xxxsen/trailmark/internal/pkg/dbutil"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
)

var markerFields = []string{"id", "user_id", "title", "description", "weather", "latitude", "longitude", "marker_date", "ctime", "mtime"}

type MarkerRepo struct {
	db *dbutil.Executor
}

func NewMarkerRepo(db *dbutil.Executor) *MarkerRepo {
	return &MarkerRepo{db: db}
}

// MarkerFilter bounds markers by date, both ends inclusive; empty means open.
type MarkerFilter struct {
	From string
	To   string
}

func (r *MarkerRepo) Create(ctx context.Context, marker *model.Marker) error {
	data := map[string]interface{}{
		"id":          marker.ID,
		"user_id":     marker.UserID,
		"title":       marker.Title,
		"description": marker.Description,
		"weather":     marker.Weather,
		"latitude":    marker.Latitude,
		"longitude":   marker.Longitude,
		"marker_date": marker.Date,
		"ctime":       marker.Ctime,
		"mtime":       marker.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("markers", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// Update changes the mutable fields. Position is fixed once created and an
// empty date keeps the stored one.
func (r *MarkerRepo) Update(ctx context.Context, marker *model.Marker) error {
	where := map[string]interface{}{"id": marker.ID, "user_id": marker.UserID}
	update := map[string]interface{}{
		"title":       marker.Title,
		"description": marker.Description,
		"weather":     marker.Weather,
		"mtime":       marker.Mtime,
	}
	if marker.Date != "" {
		update["marker_date"] = marker.Date
	}
	sqlStr, args, err := builder.BuildUpdate("markers", where, update)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *MarkerRepo) GetByID(ctx context.Context, userID, markerID string) (*model.Marker, error) {
	where := map[string]interface{}{"id": markerID, "user_id": userID}
	sqlStr, args, err := builder.BuildSelect("markers", where, markerFields)
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
	return scanMarker(rows)
}

func (r *MarkerRepo) List(ctx context.Context, userID string, filter MarkerFilter) ([]model.Marker, error) {
	where := map[string]interface{}{"user_id": userID, "_orderby": "ctime desc, id desc"}
	if filter.From != "" {
		where["marker_date >="] = filter.From
	}
	if filter.To != "" {
		where["marker_date <="] = filter.To
	}
	sqlStr, args, err := builder.BuildSelect("markers", where, markerFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	markers := make([]model.Marker, 0)
	for rows.Next() {
		marker, err := scanMarker(rows)
		if err != nil {
			return nil, err
		}
		markers = append(markers, *marker)
	}
	return markers, rows.Err()
}

// ListOwnedIDs returns the subset of ids that are markers owned by userID.
func (r *MarkerRepo) ListOwnedIDs(ctx context.Context, userID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	where := map[string]interface{}{
		"user_id": userID,
		"id in":   toArgs(ids),
	}
	sqlStr, args, err := builder.BuildSelect("markers", where, []string{"id"})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	owned := make([]string, 0, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned = append(owned, id)
	}
	return owned, rows.Err()
}

func (r *MarkerRepo) Delete(ctx context.Context, userID, markerID string) error {
	sqlStr, args, err := builder.BuildDelete("markers", map[string]interface{}{"id": markerID, "user_id": userID})
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func scanMarker(rows *sql.Rows) (*model.Marker, error) {
	var m model.Marker
	if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Description, &m.Weather, &m.Latitude, &m.Longitude, &m.Date, &m.Ctime, &m.Mtime); err != nil {
		return nil, err
	}
	return &m, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
