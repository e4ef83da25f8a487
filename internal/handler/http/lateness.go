package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/lateness"
	"github.com/presencehr/attendance-backend-go/internal/handler/http/response"
)

// maxJustificationUpload bounds the multipart form size for justifications.
const maxJustificationUpload = 10 << 20

type LatenessHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Justify(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
}

type LatenessHandlerImpl struct {
	latenessService lateness.LatenessService
}

func NewLatenessHandler(latenessService lateness.LatenessService) LatenessHandler {
	return &LatenessHandlerImpl{latenessService: latenessService}
}

// Get implements LatenessHandler.
func (h *LatenessHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.latenessService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// List implements LatenessHandler.
func (h *LatenessHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := lateness.LatenessFilter{
		EmployeeID: queryString(r, "employee_id"),
		Status:     queryString(r, "status"),
		DateFrom:   queryString(r, "date_from"),
		DateTo:     queryString(r, "date_to"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	list, err := h.latenessService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List latenesses service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// Justify implements LatenessHandler.
// Accepts multipart/form-data with a "justification" field and an optional
// "file" attachment, or a plain JSON body.
func (h *LatenessHandlerImpl) Justify(w http.ResponseWriter, r *http.Request) {
	req := lateness.JustifyRequest{ID: chi.URLParam(r, "id")}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxJustificationUpload); err != nil {
			slog.Error("Justify lateness multipart error", "error", err)
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
			slog.Error("Justify lateness decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		req.ID = chi.URLParam(r, "id")
	}

	record, err := h.latenessService.Justify(r.Context(), req)
	if err != nil {
		slog.Error("Justify lateness service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification submitted", record)
}

// Validate implements LatenessHandler.
func (h *LatenessHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	var req lateness.ValidateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Validate lateness decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	record, err := h.latenessService.ValidateJustification(r.Context(), req)
	if err != nil {
		slog.Error("Validate lateness service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification reviewed", record)
}
