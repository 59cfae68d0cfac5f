package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/garnizeh/chronosflow/internal/roles"
	"github.com/garnizeh/chronosflow/internal/service"
	"github.com/gorilla/mux"
)

// maxImportBytes bounds the body of a state import.
const maxImportBytes = 5 << 20

type TrackerHandler struct {
	tracker *service.Tracker
}

func NewTrackerHandler(t *service.Tracker) *TrackerHandler {
	return &TrackerHandler{tracker: t}
}

type addEmployeeRequest struct {
	Name string `json:"name"`
}

type addEmployeeResponse struct {
	ID string `json:"id"`
}

type selectEmployeeRequest struct {
	ID string `json:"id"`
}

type logHoursRequest struct {
	Hours *float64 `json:"hours"`
}

type switchRoleRequest struct {
	Role string `json:"role"`
}

type adviceResponse struct {
	Advice string `json:"advice"`
}

// accountID reads the authenticated account or answers 401.
func accountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := AccountID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

// hourlyRate reads the optional ?rate= query parameter used for earnings.
func hourlyRate(r *http.Request) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get("rate"), 64)
	if err != nil {
		return 0
	}
	return v
}

func (h *TrackerHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	user, err := h.tracker.Account(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, user, http.StatusOK)
}

func (h *TrackerHandler) SwitchRole(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req switchRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	role, err := roles.Parse(req.Role)
	if err != nil {
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusUnprocessableEntity)
		return
	}

	snap, err := h.tracker.SwitchRole(r.Context(), id, role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, snap, http.StatusOK)
}

func (h *TrackerHandler) GetState(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	snap, err := h.tracker.Snapshot(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, snap, http.StatusOK)
}

func (h *TrackerHandler) ExportState(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	b, err := h.tracker.Export(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="chronosflow-state.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *TrackerHandler) ImportState(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Import file is too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	snap, err := h.tracker.Import(r.Context(), id, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, snap, http.StatusOK)
}

func (h *TrackerHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req addEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	_, empID, err := h.tracker.AddEmployee(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, addEmployeeResponse{ID: empID}, http.StatusCreated)
}

func (h *TrackerHandler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	snap, err := h.tracker.RemoveEmployee(r.Context(), id, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, snap, http.StatusOK)
}

func (h *TrackerHandler) SelectEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req selectEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	snap, err := h.tracker.SelectEmployee(r.Context(), id, req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, snap, http.StatusOK)
}

func (h *TrackerHandler) PutLog(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req logHoursRequest
	if err := decodeJSON(r, &req); err != nil || req.Hours == nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	snap, err := h.tracker.LogHours(r.Context(), id, vars["id"], vars["date"], *req.Hours)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, snap, http.StatusOK)
}

func (h *TrackerHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	snap, err := h.tracker.RemoveLog(r.Context(), id, vars["id"], vars["date"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, snap, http.StatusOK)
}

func (h *TrackerHandler) EmployeeSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	sum, err := h.tracker.Summary(r.Context(), id, mux.Vars(r)["id"], hourlyRate(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, sum, http.StatusOK)
}

func (h *TrackerHandler) CurrentSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	sum, err := h.tracker.CurrentSummary(r.Context(), id, hourlyRate(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, sum, http.StatusOK)
}

// EmployeeCalendar serves ?year=&month= as a month grid, defaulting to the current month.
func (h *TrackerHandler) EmployeeCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	today := h.tracker.Today()
	year, month := today.Year(), int(today.Month())
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid month", http.StatusBadRequest)
			return
		}
		month = n
	}

	days, err := h.tracker.Calendar(r.Context(), id, mux.Vars(r)["id"], year, time.Month(month))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"year": year, "month": month, "days": days}, http.StatusOK)
}

func (h *TrackerHandler) Team(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	team, err := h.tracker.Team(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, team, http.StatusOK)
}

// Advice always answers 200 with text; generator failures degrade to a fallback message.
func (h *TrackerHandler) Advice(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	text, err := h.tracker.Advice(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, adviceResponse{Advice: text}, http.StatusOK)
}
