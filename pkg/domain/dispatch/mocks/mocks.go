package mocks

import (
	"context"
	"errors"

	"github.com/inferlab/predictd/pkg/domain/dispatch"
	"github.com/inferlab/predictd/pkg/domain/model"
)

type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

type Dispatcher struct {
	Impl struct {
		Predict func(ctx context.Context, modelName string, features []float64) (model.Result, error)
	}

	Calls struct {
		Predict CallLog[struct {
			ModelName string
			Features  []float64
		}]
	}
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

var _ dispatch.Dispatcher = &Dispatcher{}

func (m *Dispatcher) Predict(ctx context.Context, modelName string, features []float64) (model.Result, error) {
	m.Calls.Predict = append(m.Calls.Predict, struct {
		ModelName string
		Features  []float64
	}{ModelName: modelName, Features: features})
	if m.Impl.Predict != nil {
		return m.Impl.Predict(ctx, modelName, features)
	}

	panic(errors.New("it should not be called"))
}
