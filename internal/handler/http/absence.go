package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/absence"
	"github.com/presencehr/attendance-backend-go/internal/handler/http/response"
)

type AbsenceHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Justify(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	Sweep(w http.ResponseWriter, r *http.Request)
}

type AbsenceHandlerImpl struct {
	absenceService absence.AbsenceService
}

func NewAbsenceHandler(absenceService absence.AbsenceService) AbsenceHandler {
	return &AbsenceHandlerImpl{absenceService: absenceService}
}

// Get implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.absenceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// List implements AbsenceHandler.
func (h *AbsenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := absence.AbsenceFilter{
		EmployeeID: queryString(r, "employee_id"),
		Status:     queryString(r, "status"),
		DateFrom:   queryString(r, "date_from"),
		DateTo:     queryString(r, "date_to"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	list, err := h.absenceService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List absences service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// Justify implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Justify(w http.ResponseWriter, r *http.Request) {
	req := absence.JustifyRequest{ID: chi.URLParam(r, "id")}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxJustificationUpload); err != nil {
			slog.Error("Justify absence multipart error", "error", err)
			response.BadRequest(w, "Invalid multipart form", nil)
			return
		}
		req.Justification = r.FormValue("justification")

		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()
			req.File = file
			req.FileHeader = header
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("Justify absence decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		req.ID = chi.URLParam(r, "id")
	}

	record, err := h.absenceService.Justify(r.Context(), req)
	if err != nil {
		slog.Error("Justify absence service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification submitted", record)
}

// Validate implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	var req absence.ValidateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Validate absence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	record, err := h.absenceService.ValidateJustification(r.Context(), req)
	if err != nil {
		slog.Error("Validate absence service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification reviewed", record)
}

// Sweep implements AbsenceHandler.
// Manual trigger for the daily absence sweep; defaults to yesterday.
func (h *AbsenceHandlerImpl) Sweep(w http.ResponseWriter, r *http.Request) {
	var req absence.SweepRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("Sweep decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	date := time.Now().UTC().AddDate(0, 0, -1)
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		date = parsed
	}

	created, err := h.absenceService.SweepDate(r.Context(), date)
	if err != nil {
		slog.Error("Sweep service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sweep completed", absence.SweepResponse{
		Date:            date.Format("2006-01-02"),
		AbsencesCreated: created,
	})
}
