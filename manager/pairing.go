package manager

import "net/http"

type pairResponse struct {
	Requested bool `json:"requested"`
}

func (m *Manager) handlePair() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.jukebox.TriggerPairing()
		m.log.Infof("Sent pairing request")

		m.jsonResponse(w, &pairResponse{Requested: true}, http.StatusOK)
	}
}
