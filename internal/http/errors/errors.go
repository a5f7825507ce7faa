package errors

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// InternalError logs err with the request id and answers 500 without details.
func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	LogError(r, message, err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// BadRequest logs err and answers 400 with an empty body.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	logf(r, "WARN", "bad request: %v", err)
	w.WriteHeader(http.StatusBadRequest)
}

func LogError(r *http.Request, message string, err error) {
	logf(r, "ERROR", "%s: %v", message, err)
}

// LogInfo logs message at INFO level with the request id.
func LogInfo(r *http.Request, message string) {
	logf(r, "INFO", "%s", message)
}

func logf(r *http.Request, level, format string, args ...any) {
	if requestID := middleware.GetReqID(r.Context()); requestID != "" {
		log.Printf("["+level+"] RequestID="+requestID+": "+format, args...)
		return
	}
	log.Printf("["+level+"] "+format, args...)
}
