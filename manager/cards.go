package manager

import (
	"encoding/json"
	"net/http"

	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
	"github.com/marlinbox/marlind/action"
	"github.com/marlinbox/marlind/jukebox"
	"github.com/marlinbox/marlind/library"
)

type cardResponse struct {
	Card   string         `json:"card"`
	Action *action.Action `json:"action"`
}

func (m *Manager) handleGetCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := m.jukebox.Cards(r.Context())
		if err != nil {
			m.jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		res := make([]*cardResponse, 0, len(entries))
		for _, entry := range entries {
			res = append(res, &cardResponse{
				Card:   entry.Card,
				Action: entry.Action,
			})
		}

		m.jsonResponse(w, res, http.StatusOK)
	}
}

func (m *Manager) handlePutCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		card := library.NormalizeCard(mux.Vars(r)["id"])
		if !library.ValidCard(card) {
			m.jsonError(w, "card id must be 16 hex digits", http.StatusBadRequest)
			return
		}

		a := action.Action{}
		err := json.NewDecoder(r.Body).Decode(&a)
		if err != nil {
			m.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		err = m.jukebox.Bind(r.Context(), card, a)
		if err != nil {
			m.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		m.jsonResponse(w, &cardResponse{Card: card, Action: &a}, http.StatusOK)
	}
}

func (m *Manager) handleDeleteCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		card := library.NormalizeCard(mux.Vars(r)["id"])

		err := m.jukebox.Unbind(r.Context(), card)
		if errors.Is(err, jukebox.ErrUnknownCard) {
			m.jsonError(w, err.Error(), http.StatusNotFound)
			return
		}

		if err != nil {
			m.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
