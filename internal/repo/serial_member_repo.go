package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/trailmark/internal/model"
	"github.com/xxxsen/trailmark/internal/pkg/dbutil"
)

type SerialMemberRepo struct {
	db *dbutil.Executor
}

func NewSerialMemberRepo(db *dbutil.Executor) *SerialMemberRepo {
	return &SerialMemberRepo{db: db}
}

// ReplaceBySerial deletes all members and inserts markerIDs at seq 1..n.
func (r *SerialMemberRepo) ReplaceBySerial(ctx context.Context, serialID string, markerIDs []string) error {
	if err := r.DeleteBySerial(ctx, serialID); err != nil {
		return err
	}
	if len(markerIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(markerIDs))
	for idx, markerID := range markerIDs {
		rows = append(rows, map[string]interface{}{
			"serial_id": serialID,
			"marker_id": markerID,
			"seq":       idx + 1,
		})
	}
	sqlStr, args, err := builder.BuildInsert("serial_members", rows)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SerialMemberRepo) DeleteBySerial(ctx context.Context, serialID string) error {
	sqlStr, args, err := builder.BuildDelete("serial_members", map[string]interface{}{"serial_id": serialID})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SerialMemberRepo) ListBySerial(ctx context.Context, serialID string) ([]model.SerialMember, error) {
	where := map[string]interface{}{"serial_id": serialID, "_orderby": "seq asc"}
	sqlStr, args, err := builder.BuildSelect("serial_members", where, []string{"serial_id", "marker_id", "seq"})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.SerialMember, 0)
	for rows.Next() {
		var item model.SerialMember
		if err := rows.Scan(&item.SerialID, &item.MarkerID, &item.Seq); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SerialMemberRepo) ListStops(ctx context.Context, serialID string) ([]model.SerialStop, error) {
	sqlStr := "SELECT sm.marker_id, sm.seq, m.latitude, m.longitude, m.title, m.description " +
		"FROM serial_members sm JOIN markers m ON m.id = sm.marker_id " +
		"WHERE sm.serial_id = ? ORDER BY sm.seq ASC"
	rows, err := r.db.QueryContext(ctx, sqlStr, serialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stops := make([]model.SerialStop, 0)
	for rows.Next() {
		var stop model.SerialStop
		if err := rows.Scan(&stop.MarkerID, &stop.Seq, &stop.Latitude, &stop.Longitude, &stop.Title, &stop.Description); err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}
	return stops, rows.Err()
}

func (r *SerialMemberRepo) CountByMarker(ctx context.Context, markerID string) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM serial_members WHERE marker_id = ?", markerID)
	count := 0
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
