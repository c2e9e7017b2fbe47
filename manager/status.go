package manager

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

func (m *Manager) handleGetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := m.jukebox.Status()
		m.jsonResponse(w, &status, http.StatusOK)
	}
}

// handleGetEvents streams every status change over a websocket.
func (m *Manager) handleGetEvents() http.HandlerFunc {
	upgrader := &websocket.Upgrader{}

	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			m.log.Errorf("Could not upgrade to websocket: %v", err)
			return
		}

		defer c.Close()

		client := m.jukebox.SubscribeStatus()
		defer client.Cancel()

		closed := make(chan struct{})

		// read pump
		go func() {
			defer close(closed)

			c.SetReadLimit(512)
			c.SetReadDeadline(time.Now().Add(60 * time.Second))
			c.SetPongHandler(func(string) error {
				c.SetReadDeadline(time.Now().Add(60 * time.Second))
				return nil
			})

			for {
				_, _, err := c.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						m.log.Errorf("unexpected websocket closure: %v", err)
					}
					break
				}
			}
		}()

		// write pump
		ticker := time.NewTicker(54 * time.Second)
		defer ticker.Stop()

		status := m.jukebox.Status()
		c.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.WriteJSON(&status); err != nil {
			return
		}

		for {
			select {
			case status, ok := <-client.Updates:
				c.SetWriteDeadline(time.Now().Add(10 * time.Second))

				if !ok {
					c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}

				err := c.WriteJSON(status)
				if err != nil {
					return
				}
			case <-ticker.C:
				c.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-r.Context().Done():
				c.SetWriteDeadline(time.Now().Add(time.Second))
				c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "manager shutting down"))
				return
			case <-closed:
				return
			}
		}
	}
}
