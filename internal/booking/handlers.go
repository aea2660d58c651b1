package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"farmbooking/internal/models"
)

type Handler struct {
	svc     *Service
	disc    *Discovery
	catalog Catalog
}

func NewHandler(svc *Service, disc *Discovery, catalog Catalog) *Handler {
	return &Handler{svc: svc, disc: disc, catalog: catalog}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, ErrInvalidDay), errors.Is(err, ErrPastDate), errors.Is(err, ErrAdminLocked):
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
	default:
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
	}
}

func sessionOr401(w http.ResponseWriter, r *http.Request) (Session, bool) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "missing session", nil)
		return Session{}, false
	}
	return sess, true
}

func farmhouseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return uint(id), nil
}

// GET /farmhouses/{id}/status?start=YYYY-MM-DD&end=YYYY-MM-DD
// Explicit records only; the client merges defaults for the gaps.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOr401(w, r)
	if !ok {
		return
	}
	fid, err := farmhouseID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := ParseDay(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := ParseDay(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}
	recs, err := h.svc.RangeView(r.Context(), sess, fid, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []DayState{}
	}
	models.WriteJSON(w, http.StatusOK, recs)
}

// GET /farmhouses/{id}/month?year=2025&month=3
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOr401(w, r)
	if !ok {
		return
	}
	fid, err := farmhouseID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, ErrInvalidDay)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, ErrInvalidDay)
		return
	}
	view, err := h.svc.MonthView(r.Context(), sess, fid, year, time.Month(month))
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, view)
}

// PUT /farmhouses/{id}/status with a JSON list of day changes.
// 204 when every change applied; 200 with the applied/rejected breakdown when
// some days were refused.
func (h *Handler) PutStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOr401(w, r)
	if !ok {
		return
	}
	fid, err := farmhouseID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var changes []DayChange
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	res, err := h.svc.ApplyDayChanges(r.Context(), sess, fid, changes)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(res.Rejected) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	models.WriteJSON(w, http.StatusOK, res)
}

// GET /farmhouses/available?date=YYYY-MM-DD&location=&min_size=&max_size=
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOr401(w, r)
	if !ok {
		return
	}
	day, err := ParseDay(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.disc.AvailableOn(r.Context(), sess, day)
	if err != nil {
		writeError(w, err)
		return
	}
	f := Filter{Location: r.URL.Query().Get("location")}
	if v := r.URL.Query().Get("min_size"); v != "" {
		f.MinSize, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("max_size"); v != "" {
		f.MaxSize, _ = strconv.Atoi(v)
	}
	models.WriteJSON(w, http.StatusOK, ApplyFilter(list, f))
}

// GET /me/farmhouses — owners see their own, admins everything.
func (h *Handler) MyFarmhouses(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOr401(w, r)
	if !ok {
		return
	}
	var (
		list []models.Farmhouse
		err  error
	)
	if sess.IsAdmin() {
		list, err = h.catalog.List(r.Context())
	} else {
		list, err = h.catalog.ListByOwner(r.Context(), sess.AccountID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []models.Farmhouse{}
	}
	models.WriteJSON(w, http.StatusOK, list)
}
