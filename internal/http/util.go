package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// isXHR reports whether the request came from fetch/XMLHttpRequest.
// The remove endpoint answers JSON to those and redirects otherwise.
func isXHR(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from X-Forwarded-For.
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i > 0 {
		host = host[:i]
	}
	return host
}

// flashMessage is one pending flash. Stored in the session as
// "category|text" so it survives the JSON round-trip as a plain string.
type flashMessage struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func parseFlash(v any) (flashMessage, bool) {
	s, ok := v.(string)
	if !ok {
		return flashMessage{}, false
	}
	category, text, found := strings.Cut(s, "|")
	if !found {
		return flashMessage{Category: "info", Message: s}, true
	}
	return flashMessage{Category: category, Message: text}, true
}

func logError(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	logger.Error(msg, append(fields, zap.Error(err))...)
}
