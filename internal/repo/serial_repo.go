package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/trailmark/internal/model"
	"github.com/xxxsen/trailmark/internal/pkg/dbutil"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
)

var serialFields = []string{"id", "user_id", "name", "description", "color", "ctime", "mtime"}

type SerialRepo struct {
	db *dbutil.Executor
}

func NewSerialRepo(db *dbutil.Executor) *SerialRepo {
	return &SerialRepo{db: db}
}

func (r *SerialRepo) Create(ctx context.Context, serial *model.Serial) error {
	data := map[string]interface{}{
		"id":          serial.ID,
		"user_id":     serial.UserID,
		"name":        serial.Name,
		"description": serial.Description,
		"color":       serial.Color,
		"ctime":       serial.Ctime,
		"mtime":       serial.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("serials", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// Update rewrites the serial row. Inside a transaction it also holds the row
// lock, so concurrent member replacements of one serial run one after another.
func (r *SerialRepo) Update(ctx context.Context, serial *model.Serial) error {
	where := map[string]interface{}{"id": serial.ID, "user_id": serial.UserID}
	update := map[string]interface{}{
		"name":        serial.Name,
		"description": serial.Description,
		"color":       serial.Color,
		"mtime":       serial.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("serials", where, update)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *SerialRepo) GetByID(ctx context.Context, userID, serialID string) (*model.Serial, error) {
	where := map[string]interface{}{"id": serialID, "user_id": userID}
	sqlStr, args, err := builder.BuildSelect("serials", where, serialFields)
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
	var s model.Serial
	if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Description, &s.Color, &s.Ctime, &s.Mtime); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SerialRepo) ListSummary(ctx context.Context, userID string) ([]model.SerialSummary, error) {
	sqlStr := "SELECT s.id, s.user_id, s.name, s.description, s.color, s.ctime, s.mtime, " +
		"COUNT(sm.marker_id) AS member_count, COUNT(DISTINCT sm.marker_id) AS marker_count " +
		"FROM serials s LEFT JOIN serial_members sm ON sm.serial_id = s.id " +
		"WHERE s.user_id = ? " +
		"GROUP BY s.id, s.user_id, s.name, s.description, s.color, s.ctime, s.mtime " +
		"ORDER BY s.ctime DESC, s.id DESC"
	rows, err := r.db.QueryContext(ctx, sqlStr, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.SerialSummary, 0)
	for rows.Next() {
		var item model.SerialSummary
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Description, &item.Color,
			&item.Ctime, &item.Mtime, &item.MemberCount, &item.MarkerCount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SerialRepo) Delete(ctx context.Context, userID, serialID string) error {
	sqlStr, args, err := builder.BuildDelete("serials", map[string]interface{}{"id": serialID, "user_id": userID})
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
