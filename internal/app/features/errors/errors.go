// Package errors renders API errors as JSON bodies of the form
// {"message": "..."}.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
	"github.com/dalemusser/nyaysahayak/internal/app/system/reqlog"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Body is the error response shape.
type Body struct {
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write renders err. Internal errors are logged with their cause and
// reported to Sentry; the client only sees the generic message.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		if log != nil {
			log.Error("request failed",
				zap.String("request_id", reqlog.ID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}
	WriteJSON(w, apperr.HTTPStatus(kind), Body{Message: apperr.Message(err)})
}

// BadRequest renders a 400 with msg.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, Body{Message: msg})
}

// NotFound renders a 404 for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, Body{Message: "Not found"})
}

// MethodNotAllowed renders a 405.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusMethodNotAllowed, Body{Message: "Method not allowed"})
}
