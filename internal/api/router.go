package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/meetsync/meetsync/internal/api/recovery"
	"github.com/meetsync/meetsync/internal/api/respond"
)

// NewRouter wires the HTTP routes.
func NewRouter(h *WebhookHandler) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)
	router.Use(requestID)

	router.HandleFunc("/webhooks/fathom", h.HandleWebhook).Methods("POST")
	router.HandleFunc("/webhooks/fathom", h.HandleLastPayload).Methods("GET")
	router.HandleFunc("/healthz", checkHealth).Methods("GET")

	return router
}

// requestID tags every response with a request id, honoring one supplied by
// the caller.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// checkHealth handles GET /healthz. The service holds no connections, so
// running means healthy.
func checkHealth(w http.ResponseWriter, _ *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
