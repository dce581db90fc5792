package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errRowsAffected = errors.New("rows affected unavailable")

// countlessConnector serves connections whose Exec results cannot report
// affected rows.
type countlessConnector struct{}

func (countlessConnector) Connect(context.Context) (driver.Conn, error) { return countlessConn{}, nil }
func (countlessConnector) Driver() driver.Driver                        { return nil }

type countlessConn struct{}

func (countlessConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (countlessConn) Close() error                        { return nil }
func (countlessConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (countlessConn) ExecContext(context.Context, string, []driver.NamedValue) (driver.Result, error) {
	return countlessResult{}, nil
}

type countlessResult struct{}

func (countlessResult) LastInsertId() (int64, error) { return 0, errRowsAffected }
func (countlessResult) RowsAffected() (int64, error) { return 0, errRowsAffected }

func TestClearIdeasReportsRowsAffectedError(t *testing.T) {
	db := sql.OpenDB(countlessConnector{})
	t.Cleanup(func() { _ = db.Close() })

	n, err := (&Store{DB: db}).ClearIdeas(context.Background())
	require.ErrorIs(t, err, errRowsAffected)
	require.Zero(t, n)
}
