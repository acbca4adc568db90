package predlog

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	kpool "github.com/inferlab/predictd/pkg/conn/db/postgres/pool"
	xe "github.com/inferlab/predictd/pkg/errors"
)

const createPredictionLog = `
CREATE TABLE IF NOT EXISTS "prediction_log" (
	"request_id" VARCHAR NOT NULL,
	"model" VARCHAR NOT NULL,
	"features" JSONB NOT NULL,
	"prediction" VARCHAR NOT NULL,
	"confidence" DOUBLE PRECISION NOT NULL,
	"cached" BOOLEAN NOT NULL,
	"latency_ms" DOUBLE PRECISION NOT NULL,
	"at" TIMESTAMP WITH TIME ZONE NOT NULL
)`

const insertPredictionLog = `
INSERT INTO "prediction_log"
	("request_id", "model", "features", "prediction", "confidence", "cached", "latency_ms", "at")
VALUES
	($1, $2, $3, $4, $5, $6, $7, $8)`

// PostgresSink inserts records into the "prediction_log" table.
type PostgresSink struct {
	pool     kpool.Pool
	prepared bool
}

var _ Sink = &PostgresSink{}

// NewPostgresSink builds a sink over a lazy pool against dsn. An
// unreachable database does not fail construction.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	pool, err := kpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewPostgresSinkPool(ctx, pool), nil
}

// NewPostgresSinkPool builds a sink over pool.
//
// The table is created eagerly when the database answers; when it does
// not, creation is retried on the first Write which finds it up.
func NewPostgresSinkPool(ctx context.Context, pool kpool.Pool) *PostgresSink {
	s := &PostgresSink{pool: pool}
	if _, err := pool.Exec(ctx, createPredictionLog); err == nil {
		s.prepared = true
	}
	return s
}

func (s *PostgresSink) Write(ctx context.Context, r Record) error {
	if !s.prepared {
		if _, err := s.pool.Exec(ctx, createPredictionLog); err != nil {
			return xe.WrapWithNote("prediction_log table is not ready", err)
		}
		s.prepared = true
	}

	features, err := json.Marshal(r.Features)
	if err != nil {
		return xe.Wrap(err)
	}

	if _, err := s.pool.Exec(
		ctx, insertPredictionLog,
		r.RequestID, r.Model, features, r.Prediction, r.Confidence, r.Cached, r.LatencyMS, r.At.Time(),
	); err != nil {
		pgErr := new(pgconn.PgError)
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
			// the table went away under us. recreate it on the next write.
			s.prepared = false
		}
		return xe.Wrap(err)
	}

	return nil
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
