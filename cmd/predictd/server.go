package main

import (
	"github.com/labstack/echo/v4"

	"github.com/inferlab/predictd/cmd/predictd/handlers"
	"github.com/inferlab/predictd/cmd/predictd/middlewares"
	configs "github.com/inferlab/predictd/pkg/configs/serving"
	"github.com/inferlab/predictd/pkg/domain/dispatch"
	"github.com/inferlab/predictd/pkg/domain/model"
	"github.com/inferlab/predictd/pkg/domain/monitor"
	"github.com/inferlab/predictd/pkg/domain/predlog"
	"github.com/inferlab/predictd/pkg/domain/rescache"
	"github.com/inferlab/predictd/pkg/metrics"
	"github.com/inferlab/predictd/pkg/utils/echoutil"
)

// ModelNameParam is the path parameter naming the model a prediction is
// requested against.
var ModelNameParam = "model_name"

func BuildServer(
	conf *configs.ServingConfig,
	loglevel string,
	store *model.Store,
	cache *rescache.Cache,
	dispatcher dispatch.Dispatcher,
	recorder *predlog.Recorder,
	window *monitor.Window,
	tracker *metrics.LatencyTracker,
	m *metrics.Metrics,
) *echo.Echo {

	e := echo.New()

	echoutil.SetLevel(e, loglevel)

	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}

	// Timing first, so rejected requests carry ids and timings too.
	// The request logger reads the id Timing assigns.
	e.Use(middlewares.Timing(m))
	e.Use(echoutil.LogHandlerFunc)
	e.Use(middlewares.APIKeyAuth(
		conf.Auth().Header(), conf.Auth().Key(), conf.Auth().Whitelist()...,
	))

	e.GET("/health", handlers.HealthHandler())
	e.GET("/models", handlers.ModelsHandler(store))

	// Both prediction routes serve the same handler over the same cache.
	// What differs is the auth whitelist: /predict_secure is not on it,
	// /predict by default is.
	predictHandler := handlers.PredictHandler(
		conf.Schema(), cache, dispatcher, recorder, tracker, m, ModelNameParam,
	)
	e.POST("/predict/:"+ModelNameParam, predictHandler)
	e.POST("/predict_secure/:"+ModelNameParam, predictHandler)

	e.GET("/monitoring", handlers.MonitoringHandler(window, tracker))
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	return e
}
