// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// DBClientInterface is what the postgres storage and the request
// transaction middleware need from the connection pool.
type DBClientInterface interface {
	// Statement builds queries on the transaction carried by ctx, or on the
	// pool when there is none.
	Statement(context.Context) sq.StatementBuilderType
	// WithTx runs fn in one transaction, joining the one already in ctx.
	WithTx(context.Context, func(context.Context) error) error
	Ping(context.Context) error
	Close()
}

type TxInterface interface {
	Commit() error
	Rollback() error
	sq.BaseRunner
}
