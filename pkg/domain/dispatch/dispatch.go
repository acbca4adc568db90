package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/inferlab/predictd/pkg/domain/model"
)

// ErrInference marks a model failure during prediction.
//
// It is a server-side fault: the caller's request was well-formed, the
// model could not honor it. Distinguish from model.ErrModelNotFound,
// which is the caller naming a model which is not loaded.
var ErrInference = errors.New("inference failed")

// Dispatcher routes a validated feature vector to a named model.
type Dispatcher interface {
	// Predict resolves modelName and runs inference on features.
	//
	// Inference is a black box: no retry, no timeout. For a fixed model
	// and fixed features the result is identical across calls.
	//
	// Errors:
	//
	//   - model.ErrModelNotFound: no model has that name.
	//   - ErrInference: the model failed during prediction.
	Predict(ctx context.Context, modelName string, features []float64) (model.Result, error)
}

type dispatcher struct {
	store *model.Store
}

// New builds a Dispatcher over a Store.
func New(store *model.Store) Dispatcher {
	return &dispatcher{store: store}
}

func (d *dispatcher) Predict(ctx context.Context, modelName string, features []float64) (model.Result, error) {
	m, err := d.store.Get(modelName)
	if err != nil {
		return model.Result{}, err
	}

	result, err := m.Predict(features)
	if err != nil {
		return model.Result{}, fmt.Errorf("%w: model %s: %s", ErrInference, modelName, err)
	}

	return result, nil
}
