package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// A single input field rejected by schema validation.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type ErrorMessage struct {
	Reason string           `json:"reason"`
	Advice string           `json:"advice,omitempty"`
	Fields []FieldViolation `json:"fields,omitempty"`
	Cause  error            `json:"-"`
}

func (em *ErrorMessage) UnmarshalJSON(bytes []byte) error {
	f := new(struct {
		Reason *string          `json:"reason"`
		Advice *string          `json:"advice,omitempty"`
		Fields []FieldViolation `json:"fields,omitempty"`
	})
	if err := json.Unmarshal(bytes, f); err != nil {
		return err
	}

	if f.Reason == nil {
		return fmt.Errorf(`required field missing: "reason"`)
	}
	em.Reason = *f.Reason

	if f.Advice != nil {
		em.Advice = *f.Advice
	}

	em.Fields = f.Fields

	return nil
}

func (e ErrorMessage) String() string {
	lines := []string{e.Reason}
	if e.Advice != "" {
		lines = append(lines, e.Advice)
	}
	for _, f := range e.Fields {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.Field, f.Reason))
	}
	if e.Cause != nil {
		lines = append(lines, fmt.Sprint(" caused by:", e.Cause.Error()))
	}
	return strings.Join(lines, "\n")
}

func (e ErrorMessage) Error() string {
	return e.String()
}

func (e ErrorMessage) Unwrap() error {
	return e.Cause
}

type ErrorMessageOption func(in *ErrorMessage) *ErrorMessage

func WithAdvice(advice string) ErrorMessageOption {
	return func(in *ErrorMessage) *ErrorMessage {
		if advice != "" {
			in.Advice = advice
		}
		return in
	}
}

func WithError(err error) ErrorMessageOption {
	return func(in *ErrorMessage) *ErrorMessage {
		if err != nil {
			in.Cause = err
		}
		return in
	}
}

func WithFields(fields []FieldViolation) ErrorMessageOption {
	return func(in *ErrorMessage) *ErrorMessage {
		if len(fields) != 0 {
			in.Fields = fields
		}
		return in
	}
}

func NewErrorMessage(code int, reason string, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := ErrorMessage{Reason: reason}
	for _, opt := range opts {
		msg = *opt(&msg)
	}

	return echo.NewHTTPError(code, msg).SetInternal(msg)
}

func NotFound(reason string, options ...ErrorMessageOption) *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, reason, options...)
}

func BadRequest(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusBadRequest,
		"bad request",
		WithAdvice(advice),
		WithError(err),
	)
}

// UnprocessableEntity reports input which parsed but violated the model's schema.
//
// Each violation names the offending field, so clients can fix their payloads
// without guessing.
func UnprocessableEntity(reason string, fields []FieldViolation) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusUnprocessableEntity,
		reason,
		WithFields(fields),
	)
}

func Unauthorized(advice string) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusUnauthorized,
		"authentication required",
		WithAdvice(advice),
	)
}

func Forbidden(advice string) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusForbidden,
		"access denied",
		WithAdvice(advice),
	)
}

func InternalServerError(err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusInternalServerError,
		"unexpected error",
		WithError(err),
	)
}
