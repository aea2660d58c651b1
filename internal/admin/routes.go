package admin

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires the admin-only endpoints. r must already carry the
// auth middleware; RequireAdmin is layered on top here.
func RegisterRoutes(r *mux.Router, h *Handler) {
	sub := r.PathPrefix("/admin").Subrouter()
	sub.Use(RequireAdmin)
	sub.HandleFunc("/owners", h.ListOwners).Methods(http.MethodGet)
	sub.HandleFunc("/owners/create", h.CreateOwner).Methods(http.MethodPost)
	sub.HandleFunc("/owners/{id:[0-9]+}/contact", h.UpdateContact).Methods(http.MethodPatch)
	sub.HandleFunc("/owners/{id:[0-9]+}/set-active", h.SetActive).Methods(http.MethodPost)
	sub.HandleFunc("/owners/{id:[0-9]+}/reset-password", h.ResetPassword).Methods(http.MethodPost)

	// Farmhouse creation is an admin action even though it lives outside the
	// /admin prefix.
	r.Handle("/farmhouses", RequireAdmin(http.HandlerFunc(h.CreateFarmhouse))).Methods(http.MethodPost)
}
