package portaltest

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeDetail writes an error body in the portal's {"detail": "..."} form.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeNotFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, NotFoundDetail)
}
