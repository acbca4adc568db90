package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierr "github.com/inferlab/predictd/pkg/api/types/errors"
	"github.com/inferlab/predictd/pkg/api/types/predict"
	"github.com/inferlab/predictd/pkg/domain/dispatch"
	"github.com/inferlab/predictd/pkg/domain/model"
	"github.com/inferlab/predictd/pkg/domain/predlog"
	"github.com/inferlab/predictd/pkg/domain/rescache"
	"github.com/inferlab/predictd/pkg/domain/schema"
	"github.com/inferlab/predictd/pkg/metrics"
	"github.com/inferlab/predictd/pkg/utils/rfctime"
	"github.com/inferlab/predictd/pkg/utils/slices"
)

// HeaderXCache tells whether a prediction came from the result cache
// (HIT) or was computed by the model (MISS). Bodies are identical
// either way.
const HeaderXCache = "X-Cache"

// PredictHandler validates the payload against the input schema, serves
// from the result cache when it can, dispatches to the named model
// otherwise, and hands the outcome to the recorder off the request path.
func PredictHandler(
	sch schema.Schema,
	cache *rescache.Cache,
	dispatcher dispatch.Dispatcher,
	recorder *predlog.Recorder,
	tracker *metrics.LatencyTracker,
	m *metrics.Metrics,
	modelNameParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		begin := time.Now()
		ctx := c.Request().Context()
		modelName := c.Param(modelNameParam)

		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return apierr.BadRequest("payload can not be read", err)
		}

		features, violations := sch.Validate(body)
		if 0 < len(violations) {
			return apierr.UnprocessableEntity(
				"input does not satisfy the schema",
				slices.Map(violations, func(v schema.Violation) apierr.FieldViolation {
					return apierr.FieldViolation{Field: v.Field, Reason: v.Reason}
				}),
			)
		}

		key := rescache.Key(modelName, features)
		if result, ok := cache.Lookup(key); ok {
			m.Predictions.WithLabelValues(modelName, metrics.OutcomeCached).Inc()
			c.Response().Header().Set(HeaderXCache, "HIT")
			enqueue(c, recorder, sch, modelName, features, result, true, time.Since(begin))
			return c.JSON(http.StatusOK, predict.Response{
				Model:      modelName,
				Prediction: result.Label,
				Confidence: result.Confidence,
			})
		}

		// the tracker sees pure inference time, the record the whole
		// serving time.
		inferBegin := time.Now()
		result, err := dispatcher.Predict(ctx, modelName, features)
		if err != nil {
			if errors.Is(err, model.ErrModelNotFound) {
				return apierr.NotFound("Model not found")
			}
			tracker.ObserveError(modelName, time.Since(inferBegin))
			m.Predictions.WithLabelValues(modelName, metrics.OutcomeFailed).Inc()
			return apierr.InternalServerError(err)
		}
		tracker.ObserveOK(modelName, time.Since(inferBegin))

		cache.Store(key, result)
		m.Predictions.WithLabelValues(modelName, metrics.OutcomeComputed).Inc()
		c.Response().Header().Set(HeaderXCache, "MISS")
		enqueue(c, recorder, sch, modelName, features, result, false, time.Since(begin))
		return c.JSON(http.StatusOK, predict.Response{
			Model:      modelName,
			Prediction: result.Label,
			Confidence: result.Confidence,
		})
	}
}

// enqueue hands the served prediction to the recorder. Enqueue never
// blocks; when the queue is full the record is dropped and the response
// goes out regardless.
func enqueue(
	c echo.Context,
	recorder *predlog.Recorder,
	sch schema.Schema,
	modelName string,
	features []float64,
	result model.Result,
	cached bool,
	elapsed time.Duration,
) {
	named := make(map[string]float64, len(sch))
	for i, f := range sch {
		named[f.Name] = features[i]
	}
	recorder.Enqueue(predlog.Record{
		RequestID:  c.Response().Header().Get(echo.HeaderXRequestID),
		Model:      modelName,
		Features:   named,
		Prediction: result.Label,
		Confidence: result.Confidence,
		Cached:     cached,
		LatencyMS:  float64(elapsed) / float64(time.Millisecond),
		At:         rfctime.RFC3339(time.Now()),
	})
}
