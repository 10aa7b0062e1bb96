//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by a pool, a conn or a tx, so fixtures can run inside a
// test's own transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type StockRow struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Location  string
	Physical  int
	Reserved  int
}

// inserts an inventory record and returns it
func CreateInventoryRecord(t *testing.T, db DBLike, location string, physical, reorderPoint int) StockRow {
	t.Helper()

	row := StockRow{ID: uuid.New(), ProductID: uuid.New(), Location: location, Physical: physical}
	_, err := db.Exec(context.Background(), `
		INSERT INTO inventory_records (id, product_id, location, physical_stock, reserved_stock, minimum_stock, reorder_point)
		VALUES ($1, $2, $3, $4, 0, 0, $5)`,
		row.ID, row.ProductID, row.Location, physical, reorderPoint)
	require.NoError(t, err)

	return row
}

func GetStock(t *testing.T, db DBLike, id uuid.UUID) StockRow {
	t.Helper()

	row := StockRow{ID: id}
	err := db.QueryRow(context.Background(),
		"SELECT product_id, location, physical_stock, reserved_stock FROM inventory_records WHERE id = $1", id,
	).Scan(&row.ProductID, &row.Location, &row.Physical, &row.Reserved)
	require.NoError(t, err)

	return row
}

// counts outbox entries for an aggregate, optionally by status
func CountOutbox(t *testing.T, db DBLike, aggregateID, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), `
		SELECT count(*) FROM outbox_entries
		WHERE aggregate_id = $1 AND ($2 = '' OR status = $2)`, aggregateID, status,
	).Scan(&n)
	require.NoError(t, err)

	return n
}

func CountActiveReservations(t *testing.T, db DBLike, reservationID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM reservations WHERE reservation_id = $1 AND status = 'ACTIVE'", reservationID,
	).Scan(&n)
	require.NoError(t, err)

	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables except schema_migrations
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
