package booking

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires the calendar endpoints onto an already-authenticated
// subrouter. /farmhouses/available must be registered before the {id} routes
// so mux does not swallow it as an id.
func RegisterRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/farmhouses/available", h.Available).Methods(http.MethodGet)
	r.HandleFunc("/farmhouses/{id:[0-9]+}/status", h.GetStatus).Methods(http.MethodGet)
	r.HandleFunc("/farmhouses/{id:[0-9]+}/status", h.PutStatus).Methods(http.MethodPut)
	r.HandleFunc("/farmhouses/{id:[0-9]+}/month", h.GetMonth).Methods(http.MethodGet)
	r.HandleFunc("/me/farmhouses", h.MyFarmhouses).Methods(http.MethodGet)
}
