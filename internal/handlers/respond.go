package handlers

import (
	"encoding/json"
	"net/http"
)

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string, cause error) {
	body := map[string]any{"error": msg}
	if cause != nil {
		body["detail"] = cause.Error()
	}
	writeJSONResp(w, status, body)
}
