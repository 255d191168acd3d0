package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility"
)

const schema = `CREATE TABLE IF NOT EXISTS account_results (
	trace_id     UBIGINT,
	computed_at  TIMESTAMP,
	account      VARCHAR,
	gross_pnl    DOUBLE,
	net_pnl      DOUBLE,
	fee_cost     DOUBLE,
	order_count  INTEGER,
	total_qty    DOUBLE,
	buy_qty      DOUBLE,
	sell_qty     DOUBLE
)`

// Archive appends every computed account result to a duckdb file so report
// history survives the otherwise stateless service. The engine itself never
// reads it back; only the ops query helper does.
type Archive struct {
	db *sql.DB
}

func OpenArchive(dataSourceName string) (*Archive, error) {
	db, err := sql.Open("duckdb", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) Append(ctx context.Context, traceID utility.TraceID, ts time.Time, results []common.AccountResult) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO account_results VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range results {
		gross, _ := r.GrossPnl.Float64()
		net, _ := r.NetPnl.Float64()
		fee, _ := r.FeeCost.Float64()
		total, _ := r.TotalQuantity.Float64()
		buy, _ := r.BuyQuantity.Float64()
		sell, _ := r.SellQuantity.Float64()

		if _, err := stmt.ExecContext(ctx, traceID, ts, r.Account,
			gross, net, fee, r.OrderCount, total, buy, sell); err != nil {
			return fmt.Errorf("insert result for %s: %w", r.Account, err)
		}
	}
	return tx.Commit()
}

// ArchivedResult is one stored account row, floats as archived.
type ArchivedResult struct {
	TraceID    utility.TraceID
	ComputedAt time.Time
	Account    string
	GrossPnl   float64
	NetPnl     float64
	FeeCost    float64
	OrderCount int
}

// AccountHistory returns the most recent archived rows for one account.
func (a *Archive) AccountHistory(ctx context.Context, account string, limit int) ([]ArchivedResult, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT trace_id, computed_at, account, gross_pnl, net_pnl, fee_cost, order_count
		 FROM account_results WHERE account = ? ORDER BY computed_at DESC LIMIT ?`,
		account, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []ArchivedResult
	for rows.Next() {
		var r ArchivedResult
		if err := rows.Scan(&r.TraceID, &r.ComputedAt, &r.Account,
			&r.GrossPnl, &r.NetPnl, &r.FeeCost, &r.OrderCount); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		history = append(history, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return history, nil
}
