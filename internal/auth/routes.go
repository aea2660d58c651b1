package auth

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterPublicRoutes wires the endpoints reachable without a token.
func RegisterPublicRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

// RegisterProtectedRoutes wires the endpoints that need a resolved session;
// r must already carry the resolver middleware.
func RegisterProtectedRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/me", h.Me).Methods(http.MethodGet)
}
