package pool

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	xe "github.com/inferlab/predictd/pkg/errors"
)

// something sending query with SQL.
//
// this is extracted interface from `pgxpool.Pool`.
// When you need more details, see it.
type Queryer interface {
	// sending SQL Command which does not have any result rows.
	//
	// for more detail, see `pgxpool.Pool.Exec`
	Exec(ctx context.Context, sql string, arguments ...interface{}) (commandTag pgconn.CommandTag, err error)

	// // When you need more methods found in pgx, add.
	// Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	// // and more ...
}

// interface extracted from `*pgxpool.Pool`
//
// # note 1: `*pgxpool.Pool` does NOT implement `Pool`
//
// because golang lacks covariance/contravariance in typing,
// `Pool` cannot be defined as a generatization of `*pgxpool.Pool`, directly.
//
// If you need to wrap `*pgxpool.Pool` as `Pool`, you can `Wrap` it.
//
// # note 2: this is subset
//
// this interface is JUST A SUBSET like `*pgxpool.Pool`
//
// When you need more methods only `*pgxpool.Pool` has, declare them.
type Pool interface {
	Queryer

	Ping(ctx context.Context) error
	Close()
}

// thin wrapper of pgxpool.Pool as Pool
type pgxPool struct {
	base *pgxpool.Pool
}

var _ Pool = &pgxPool{}

func (p *pgxPool) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return p.base.Exec(ctx, sql, arguments...)
}

func (p *pgxPool) Ping(ctx context.Context) error {
	return p.base.Ping(ctx)
}

func (p *pgxPool) Close() {
	p.base.Close()
}

func Wrap(p *pgxpool.Pool) Pool {
	return &pgxPool{base: p}
}

// Connect opens a Pool against dsn without dialing it.
//
// The first query finds out whether the database is reachable, so a
// database booting later than its clients does not fail them on start.
func Connect(ctx context.Context, dsn string) (Pool, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	conf.LazyConnect = true

	base, err := pgxpool.ConnectConfig(ctx, conf)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return Wrap(base), nil
}
