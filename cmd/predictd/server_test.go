package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apierrs "github.com/inferlab/predictd/pkg/api/types/errors"
	apimonitoring "github.com/inferlab/predictd/pkg/api/types/monitoring"
	"github.com/inferlab/predictd/pkg/api/types/predict"
	configs "github.com/inferlab/predictd/pkg/configs/serving"
	"github.com/inferlab/predictd/pkg/domain/dispatch"
	"github.com/inferlab/predictd/pkg/domain/model"
	"github.com/inferlab/predictd/pkg/domain/monitor"
	"github.com/inferlab/predictd/pkg/domain/predlog"
	logmocks "github.com/inferlab/predictd/pkg/domain/predlog/mocks"
	"github.com/inferlab/predictd/pkg/domain/rescache"
	"github.com/inferlab/predictd/pkg/metrics"
	"github.com/inferlab/predictd/pkg/utils/try"
)

type fixedPredictor struct {
	result model.Result
}

func (p fixedPredictor) Name() string { return "fixed" }

func (p fixedPredictor) Predict([]float64) (model.Result, error) {
	return p.result, nil
}

// TestBuildServer sends requests through the full middleware chain.
// Subtests run in order and share server state, like requests of one
// process lifetime do.
func TestBuildServer(t *testing.T) {
	conf := try.To(configs.Unmarshal([]byte(`
models:
    logistic_model: "testdata/logistic_model.gob"
auth:
    key: "test-api-key"
`))).OrFatal(t)

	store := model.NewStore(map[string]model.Predictor{
		"logistic_model": fixedPredictor{
			result: model.Result{Label: "setosa", Confidence: 0.97},
		},
	})

	cache := rescache.New()
	defer cache.Stop()

	window := monitor.New()

	sink := logmocks.NewSink()
	sink.Impl.Write = func(context.Context, predlog.Record) error { return nil }
	sink.Impl.Close = func() error { return nil }
	recorder := predlog.NewRecorder(
		predlog.NewFanoutSink(sink, window),
		log.New(io.Discard, "", 0),
	)

	tracker := metrics.NewLatencyTracker(0.2)
	m := metrics.New()
	m.WatchCache(cache.Stats)
	m.WatchRecorder(recorder.QueueDepth, recorder.Stats)

	server := BuildServer(
		conf, "off", store, cache, dispatch.New(store),
		recorder, window, tracker, m,
	)

	send := func(method string, target string, payload string, key string) *httptest.ResponseRecorder {
		var body io.Reader
		if payload != "" {
			body = strings.NewReader(payload)
		}
		req := httptest.NewRequest(method, target, body)
		if payload != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		resp := httptest.NewRecorder()
		server.ServeHTTP(resp, req)
		return resp
	}

	irisPayload := `{"sepal_length": 5.1, "sepal_width": 3.5, "petal_length": 1.4, "petal_width": 0.2}`

	t.Run("GET /health needs no api key", func(t *testing.T) {
		resp := send(http.MethodGet, "/health", "", "")
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d != %d", resp.Code, http.StatusOK)
		}
		actual := predict.HealthResponse{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if actual.Status != "healthy" {
			t.Errorf("status: %s != healthy", actual.Status)
		}
	})

	t.Run("POST /predict_secure without api key is rejected with 401 before validation", func(t *testing.T) {
		// an invalid payload, to show auth short-circuits ahead of the schema.
		resp := send(
			http.MethodPost, "/predict_secure/logistic_model",
			`{"sepal_length": -1}`, "",
		)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("status code: %d != %d", resp.Code, http.StatusUnauthorized)
		}
		actual := apierrs.ErrorMessage{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if actual.Reason != "authentication required" {
			t.Errorf("reason: %s != authentication required", actual.Reason)
		}

		if resp.Header().Get("X-Request-Id") == "" {
			t.Error("rejected request has no request id")
		}
		if resp.Header().Get("X-Process-Time") == "" {
			t.Error("rejected request has no process time")
		}
	})

	t.Run("POST /predict_secure with a wrong api key is rejected with 403", func(t *testing.T) {
		resp := send(http.MethodPost, "/predict_secure/logistic_model", irisPayload, "not-the-key")
		if resp.Code != http.StatusForbidden {
			t.Errorf("status code: %d != %d", resp.Code, http.StatusForbidden)
		}
	})

	t.Run("GET /models lists the loaded models", func(t *testing.T) {
		resp := send(http.MethodGet, "/models", "", "")
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d != %d", resp.Code, http.StatusOK)
		}
		actual := predict.ModelsResponse{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		expected := predict.ModelsResponse{AvailableModels: []string{"logistic_model"}}
		if !actual.Equal(expected) {
			t.Errorf("mismatch. (expected, actual) = (%+v, %+v)", expected, actual)
		}
	})

	t.Run("GET /monitoring before any prediction answers No data.", func(t *testing.T) {
		resp := send(http.MethodGet, "/monitoring", "", "")
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d != %d", resp.Code, http.StatusOK)
		}
		actual := map[string]string{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if actual["msg"] != "No data." {
			t.Errorf("mismatch. actual = %+v", actual)
		}
	})

	t.Run("POST /predict needs no api key. it computes, then serves the cache", func(t *testing.T) {
		first := send(http.MethodPost, "/predict/logistic_model", irisPayload, "")
		if first.Code != http.StatusOK {
			t.Fatalf("status code: %d != %d (%s)", first.Code, http.StatusOK, first.Body.String())
		}
		if actual := first.Header().Get("X-Cache"); actual != "MISS" {
			t.Errorf("X-Cache: %s != MISS", actual)
		}
		actual := predict.Response{}
		if err := json.Unmarshal(first.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		expected := predict.Response{
			Model: "logistic_model", Prediction: "setosa", Confidence: 0.97,
		}
		if !actual.Equal(expected) {
			t.Errorf("mismatch. (expected, actual) = (%+v, %+v)", expected, actual)
		}

		second := send(http.MethodPost, "/predict/logistic_model", irisPayload, "")
		if actual := second.Header().Get("X-Cache"); actual != "HIT" {
			t.Errorf("X-Cache: %s != HIT", actual)
		}
		if first.Body.String() != second.Body.String() {
			t.Errorf(
				"cached response differs. (first, second) = (%s, %s)",
				first.Body.String(), second.Body.String(),
			)
		}
	})

	t.Run("POST /predict_secure with the right api key shares the result cache", func(t *testing.T) {
		resp := send(http.MethodPost, "/predict_secure/logistic_model", irisPayload, "test-api-key")
		if resp.Code != http.StatusOK {
			t.Fatalf("status code: %d != %d (%s)", resp.Code, http.StatusOK, resp.Body.String())
		}
		if actual := resp.Header().Get("X-Cache"); actual != "HIT" {
			t.Errorf("X-Cache: %s != HIT", actual)
		}
		actual := predict.Response{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		expected := predict.Response{
			Model: "logistic_model", Prediction: "setosa", Confidence: 0.97,
		}
		if !actual.Equal(expected) {
			t.Errorf("mismatch. (expected, actual) = (%+v, %+v)", expected, actual)
		}
	})

	t.Run("POST /predict with a bad payload is rejected with 422 before the model lookup", func(t *testing.T) {
		resp := send(
			http.MethodPost, "/predict/no_such_model",
			`{"sepal_length": -1, "sepal_width": 3.5, "petal_length": 1.4, "petal_width": 0.2}`,
			"",
		)
		if resp.Code != http.StatusUnprocessableEntity {
			t.Errorf("status code: %d != %d", resp.Code, http.StatusUnprocessableEntity)
		}
		actual := apierrs.ErrorMessage{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		expected := []apierrs.FieldViolation{
			{Field: "sepal_length", Reason: "must be greater than 0"},
		}
		if len(actual.Fields) != 1 || actual.Fields[0] != expected[0] {
			t.Errorf(
				"violations mismatch. (expected, actual) = (%v, %v)",
				expected, actual.Fields,
			)
		}
	})

	t.Run("POST /predict against an unknown model is rejected with 404", func(t *testing.T) {
		resp := send(http.MethodPost, "/predict/no_such_model", irisPayload, "")
		if resp.Code != http.StatusNotFound {
			t.Errorf("status code: %d != %d", resp.Code, http.StatusNotFound)
		}
		actual := apierrs.ErrorMessage{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if actual.Reason != "Model not found" {
			t.Errorf("reason: %s != Model not found", actual.Reason)
		}
	})

	t.Run("GET /metrics needs no api key and exposes the counters", func(t *testing.T) {
		resp := send(http.MethodGet, "/metrics", "", "")
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d != %d", resp.Code, http.StatusOK)
		}
		body := resp.Body.String()
		for _, family := range []string{
			"predictd_request_duration_seconds",
			"predictd_predictions_total",
			"predictd_cache_hits_total",
		} {
			if !strings.Contains(body, family) {
				t.Errorf("metrics do not expose %s", family)
			}
		}
	})

	t.Run("GET /monitoring after predictions reports the served models", func(t *testing.T) {
		// drain the recorder queue so the window holds the records.
		qctx, qcancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer qcancel()
		if err := recorder.Close(qctx); err != nil {
			t.Fatalf("recorder does not close: %v", err)
		}

		resp := send(http.MethodGet, "/monitoring", "", "")
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d != %d", resp.Code, http.StatusOK)
		}
		actual := apimonitoring.Report{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		report, ok := actual.Models["logistic_model"]
		if !ok {
			t.Fatalf("no report for logistic_model. actual = %+v", actual.Models)
		}
		// one computed, two more from the cache
		if report.Observations != 3 {
			t.Errorf("observations: %d != 3", report.Observations)
		}
		if report.Labels["setosa"] != 3 {
			t.Errorf("labels mismatch. actual = %+v", report.Labels)
		}
		if report.Latency == nil {
			t.Error("latency is missing")
		} else if report.Latency.OK != 1 {
			t.Errorf("latency counters: %+v", report.Latency)
		}
	})
}
