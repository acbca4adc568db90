package echoutil_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/inferlab/predictd/pkg/utils/echoutil"
)

func TestSetLevel(t *testing.T) {
	for loglevel, expected := range map[string]log.Lvl{
		"debug": log.DEBUG,
		"info":  log.INFO,
		"warn":  log.WARN,
		"":      log.WARN,
		"error": log.ERROR,
		"off":   log.OFF,
		"INFO":  log.INFO,
		"what":  log.WARN,
	} {
		t.Run("loglevel "+loglevel, func(t *testing.T) {
			e := echo.New()
			e.Logger.SetOutput(new(bytes.Buffer))
			echoutil.SetLevel(e, loglevel)
			if actual := e.Logger.Level(); actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%d, %d)", expected, actual)
			}
		})
	}
}

func TestLogHandlerFunc(t *testing.T) {
	t.Run("it logs request and response lines around the handler", func(t *testing.T) {
		e := echo.New()
		buf := new(bytes.Buffer)
		e.Logger.SetOutput(buf)
		e.Logger.SetLevel(log.INFO)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp := httptest.NewRecorder()
		c := e.NewContext(req, resp)
		c.Response().Header().Set(echo.HeaderXRequestID, "req-42")

		handler := echoutil.LogHandlerFunc(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			t.Fatal(err)
		}

		logged := buf.String()
		if !strings.Contains(logged, "< request[req-42]") {
			t.Errorf("request line is not logged: %s", logged)
		}
		if !strings.Contains(logged, "> response[req-42]") {
			t.Errorf("response line is not logged: %s", logged)
		}
		if !strings.Contains(logged, "status = 200") {
			t.Errorf("status is not logged: %s", logged)
		}
	})

	t.Run("it logs the error the handler returned", func(t *testing.T) {
		e := echo.New()
		buf := new(bytes.Buffer)
		e.Logger.SetOutput(buf)
		e.Logger.SetLevel(log.INFO)

		c := e.NewContext(
			httptest.NewRequest(http.MethodGet, "/health", nil),
			httptest.NewRecorder(),
		)

		wantErr := errors.New("fake error")
		handler := echoutil.LogHandlerFunc(func(c echo.Context) error {
			return wantErr
		})
		if err := handler(c); !errors.Is(err, wantErr) {
			t.Errorf("returned error: got %v, want %v", err, wantErr)
		}

		if logged := buf.String(); !strings.Contains(logged, "fake error") {
			t.Errorf("error is not logged: %s", logged)
		}
	})
}
