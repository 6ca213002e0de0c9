// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/assessment-service/internal/logging"
)

const txTimeout = 60 * time.Second

type lazyTxKey struct{}

// lazyTx begins its transaction on the first statement, so requests that
// never touch the database never hold a connection.
type lazyTx struct {
	db     *sql.DB
	tx     TxInterface
	err    error
	cancel context.CancelFunc
}

// get begins the transaction once. A failed begin sticks, later statements
// of the same request fail too instead of running outside the transaction.
func (lt *lazyTx) get() (TxInterface, error) {
	if lt.tx != nil {
		return lt.tx, nil
	}
	if lt.err != nil {
		return nil, lt.err
	}

	// Detached from the request context: a client disconnect must not roll
	// back a write the handler already reported as done.
	ctx, cancel := context.WithTimeout(context.Background(), txTimeout)

	tx, err := lt.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		cancel()
		lt.err = fmt.Errorf("failed to begin transaction: %w", err)
		return nil, lt.err
	}

	lt.tx = tx
	lt.cancel = cancel

	return tx, nil
}

func (lt *lazyTx) finish(commit bool, logger logging.LoggerInterface) error {
	if lt.cancel != nil {
		defer lt.cancel()
	}
	if lt.tx == nil {
		return nil
	}

	if commit {
		if err := lt.tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %v", err)
		}
		return nil
	}

	if err := lt.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Errorf("failed to rollback transaction: %v", err)
	}

	return nil
}

func lazyTxFromContext(ctx context.Context) *lazyTx {
	lt, _ := ctx.Value(lazyTxKey{}).(*lazyTx)
	return lt
}

// WithTx commits when fn succeeds and rolls back otherwise, including when
// fn panics. A nested call joins the outer transaction.
func (d *DBClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if lazyTxFromContext(ctx) != nil {
		return fn(ctx)
	}

	lt := &lazyTx{db: d.db}
	committed := false

	defer func() {
		if !committed {
			_ = lt.finish(false, d.logger)
		}
	}()

	if err := fn(context.WithValue(ctx, lazyTxKey{}, lt)); err != nil {
		return err
	}

	committed = true

	return lt.finish(true, d.logger)
}

// failedRunner stands in for a request transaction that could not begin.
// Every statement run on it returns the begin error.
type failedRunner struct {
	err error
}

func (f failedRunner) Exec(string, ...any) (sql.Result, error) {
	return nil, f.err
}

func (f failedRunner) Query(string, ...any) (*sql.Rows, error) {
	return nil, f.err
}

func (f failedRunner) QueryRow(string, ...any) sq.RowScanner {
	return failedRow(f)
}

func (f failedRunner) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, f.err
}

func (f failedRunner) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, f.err
}

func (f failedRunner) QueryRowContext(context.Context, string, ...any) sq.RowScanner {
	return failedRow(f)
}

type failedRow struct {
	err error
}

func (r failedRow) Scan(...any) error {
	return r.err
}
