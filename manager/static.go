package manager

import (
	"net/http"
	"path/filepath"
)

func (m *Manager) handleGetIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(m.assetsDir, "index.html"))
	}
}

func (m *Manager) handleGetAssets() http.Handler {
	return http.StripPrefix("/assets/", http.FileServer(http.Dir(m.assetsDir)))
}
