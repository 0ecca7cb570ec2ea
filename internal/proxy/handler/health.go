package handler

import "net/http"

// Liveness handles GET /.
func (h *Handlers) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Server awake.",
		"timestamp": h.now().UnixMilli(),
	})
}
