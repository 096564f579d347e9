// Package formutil decodes request bodies for the JSON API.
//
// Example usage:
//
//	var req createCaseRequest
//	if err := formutil.DecodeJSON(w, r, h.MaxBody, &req); err != nil {
//		apierrors.Write(w, r, h.Log, err)
//		return
//	}
package formutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
)

// DefaultMaxBody caps request bodies when no limit is configured.
const DefaultMaxBody int64 = 1 << 20

// Client-facing messages.
const (
	MsgInvalidBody  = "Invalid request body."
	MsgBodyTooLarge = "Request body too large."
)

// DecodeJSON reads at most maxBytes of r's body into dst. An empty body
// leaves dst unchanged. Failures are returned as apperr InvalidArgument
// errors ready to render.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBody
	}
	if r.Body == nil {
		return nil
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.As(err, &tooLarge):
			return apperr.InvalidArgument(MsgBodyTooLarge)
		default:
			return apperr.InvalidArgument(MsgInvalidBody)
		}
	}
	return nil
}
