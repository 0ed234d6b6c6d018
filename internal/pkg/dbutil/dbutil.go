package dbutil

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var limitRegex = regexp.MustCompile(`(?i)LIMIT\s+\?\s*,\s*\?`)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Executor rewrites builder output for the target driver before running it.
type Executor struct {
	q        Querier
	bindType int
}

func NewExecutor(q Querier, driver string) *Executor {
	return &Executor{q: q, bindType: BindType(driver)}
}

func BindType(driver string) int {
	if driver == DriverPostgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

func (e *Executor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	query, args = Finalize(e.bindType, query, args)
	return e.q.ExecContext(ctx, query, args...)
}

func (e *Executor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	query, args = Finalize(e.bindType, query, args)
	return e.q.QueryContext(ctx, query, args...)
}

func (e *Executor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	query, args = Finalize(e.bindType, query, args)
	return e.q.QueryRowContext(ctx, query, args...)
}

func Finalize(bindType int, query string, args []interface{}) (string, []interface{}) {
	loc := limitRegex.FindStringIndex(query)
	if loc != nil {
		prefix := query[:loc[0]]
		qCount := strings.Count(prefix, "?")
		if qCount+1 < len(args) {
			args[qCount], args[qCount+1] = args[qCount+1], args[qCount]
			query = limitRegex.ReplaceAllString(query, "LIMIT ? OFFSET ?")
		}
	}
	return sqlx.Rebind(bindType, query), args
}

func IsConflict(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}

// IsSerializationFailure reports errors the database raises when two
// transactions could not be ordered: serialization failures and deadlocks on
// postgres, busy/locked on sqlite.
func IsSerializationFailure(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		primary := sqlErr.Code() & 0xff
		return primary == sqlite3.SQLITE_BUSY || primary == sqlite3.SQLITE_LOCKED
	}
	return false
}
