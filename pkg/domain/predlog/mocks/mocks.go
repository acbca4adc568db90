package mocks

import (
	"context"
	"errors"

	"github.com/inferlab/predictd/pkg/domain/predlog"
)

type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

type Sink struct {
	Impl struct {
		Write func(ctx context.Context, r predlog.Record) error
		Close func() error
	}

	Calls struct {
		Write CallLog[predlog.Record]
		Close CallLog[struct{}]
	}
}

func NewSink() *Sink {
	return &Sink{}
}

var _ predlog.Sink = &Sink{}

func (m *Sink) Write(ctx context.Context, r predlog.Record) error {
	m.Calls.Write = append(m.Calls.Write, r)
	if m.Impl.Write != nil {
		return m.Impl.Write(ctx, r)
	}

	panic(errors.New("it should not be called"))
}

func (m *Sink) Close() error {
	m.Calls.Close = append(m.Calls.Close, struct{}{})
	if m.Impl.Close != nil {
		return m.Impl.Close()
	}

	panic(errors.New("it should not be called"))
}
