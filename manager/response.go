package manager

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (m *Manager) jsonResponse(w http.ResponseWriter, v interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		m.log.Errorf("Could not respond with JSON: %v", err)
	}
}

func (m *Manager) jsonError(w http.ResponseWriter, message string, code int) {
	m.jsonResponse(w, &errorResponse{Error: message}, code)
}
