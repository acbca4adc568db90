package mocks

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"

	kpool "github.com/inferlab/predictd/pkg/conn/db/postgres/pool"
)

type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

type Pool struct {
	Impl struct {
		Exec  func(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
		Ping  func(ctx context.Context) error
		Close func()
	}

	Calls struct {
		Exec CallLog[struct {
			SQL       string
			Arguments []interface{}
		}]
		Ping  CallLog[struct{}]
		Close CallLog[struct{}]
	}
}

func NewPool() *Pool {
	return &Pool{}
}

var _ kpool.Pool = &Pool{}

func (m *Pool) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	m.Calls.Exec = append(m.Calls.Exec, struct {
		SQL       string
		Arguments []interface{}
	}{SQL: sql, Arguments: arguments})
	if m.Impl.Exec != nil {
		return m.Impl.Exec(ctx, sql, arguments...)
	}

	panic(errors.New("it should not be called"))
}

func (m *Pool) Ping(ctx context.Context) error {
	m.Calls.Ping = append(m.Calls.Ping, struct{}{})
	if m.Impl.Ping != nil {
		return m.Impl.Ping(ctx)
	}

	panic(errors.New("it should not be called"))
}

func (m *Pool) Close() {
	m.Calls.Close = append(m.Calls.Close, struct{}{})
	if m.Impl.Close != nil {
		m.Impl.Close()
		return
	}

	panic(errors.New("it should not be called"))
}
