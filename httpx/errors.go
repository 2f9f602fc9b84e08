package httpx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/inkform/inkform/fault"
	"github.com/inkform/inkform/log"
)

// RenderError maps a service error to an HTTP response. Storage errors and
// anything unclassified get logged with full detail and surface as a bare
// 500; every other kind carries its client-safe message.
func RenderError(w http.ResponseWriter, r *http.Request, code string, err error) {
	status := statusOf(fault.KindOf(err))
	if status == http.StatusInternalServerError {
		log.Errorf("%s: %s", code, err)
	} else {
		log.Debugf("%s: %s", code, err)
	}

	w.WriteHeader(status)
	render.JSON(w, r, map[string]any{
		"error": fault.Message(err),
	})
}

func statusOf(kind fault.Kind) int {
	switch kind {
	case fault.NotFound:
		return http.StatusNotFound
	case fault.Conflict:
		return http.StatusConflict
	case fault.InvalidState:
		return http.StatusUnprocessableEntity
	case fault.InvalidInput:
		return http.StatusBadRequest
	case fault.Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// LogStatus logs a short code at the given level and sends a default
// response for status.
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}
