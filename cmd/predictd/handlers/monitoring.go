package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inferlab/predictd/pkg/api/types/monitoring"
	"github.com/inferlab/predictd/pkg/domain/monitor"
	"github.com/inferlab/predictd/pkg/metrics"
)

// MonitoringHandler reports drift and latency over the window of
// recently served predictions. Before anything is served it answers
// {"msg":"No data."}.
func MonitoringHandler(window *monitor.Window, tracker *metrics.LatencyTracker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if window.Total() == 0 {
			return c.JSON(http.StatusOK, map[string]string{"msg": "No data."})
		}
		return c.JSON(http.StatusOK, monitoring.ComposeReport(
			window.Report(), tracker.Snapshot(),
		))
	}
}
