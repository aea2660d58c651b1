package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"farmbooking/internal/booking"
	"farmbooking/internal/models"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RequireAdmin rejects every non-admin session. It sits behind the auth
// middleware, so a missing session means a wiring bug, not a client error.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := booking.SessionFrom(r.Context())
		if !ok {
			models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "missing session", nil)
			return
		}
		if !sess.IsAdmin() {
			models.WriteProblem(w, http.StatusForbidden, "Forbidden", "admins only", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalid):
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
	case errors.Is(err, ErrOwnerNotFound), errors.Is(err, booking.ErrNotFound):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	default:
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
	}
}

func ownerID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, ErrOwnerNotFound
	}
	return uint(id), nil
}

// GET /admin/owners?page=&page_size=
func (h *Handler) ListOwners(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	out, err := h.svc.ListOwners(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, out)
}

// POST /admin/owners/create
func (h *Handler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	var in CreateOwnerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	fh, err := h.svc.CreateOwner(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, fh)
}

type createFarmhouseIn struct {
	Name     string `json:"name"`
	OwnerID  uint   `json:"owner_id"`
	Size     int    `json:"size"`
	Location string `json:"location"`
}

// POST /farmhouses
func (h *Handler) CreateFarmhouse(w http.ResponseWriter, r *http.Request) {
	var in createFarmhouseIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	fh, err := h.svc.CreateFarmhouse(r.Context(), in.Name, in.OwnerID, in.Size, in.Location)
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, fh)
}

type contactIn struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// PATCH /admin/owners/{id}/contact
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := ownerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in contactIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if err := h.svc.UpdateContact(r.Context(), id, in.Email, in.Phone); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setActiveIn struct {
	Active bool `json:"active"`
}

// POST /admin/owners/{id}/set-active
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := ownerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in setActiveIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if err := h.svc.SetActive(r.Context(), id, in.Active); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resetPasswordIn struct {
	NewPassword string `json:"new_password"`
}

// POST /admin/owners/{id}/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := ownerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in resetPasswordIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if err := h.svc.ResetPassword(r.Context(), id, in.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
