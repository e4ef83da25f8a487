package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/device"
	"github.com/presencehr/attendance-backend-go/internal/handler/http/response"
)

type DeviceHandler interface {
	ReceivePunch(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Reprocess(w http.ResponseWriter, r *http.Request)
}

type DeviceHandlerImpl struct {
	deviceService device.DeviceService
}

func NewDeviceHandler(deviceService device.DeviceService) DeviceHandler {
	return &DeviceHandlerImpl{deviceService: deviceService}
}

// ReceivePunch implements DeviceHandler.
// Returns 202 when the event was stored but not applied, so the device
// gateway does not retry deliveries that will be picked up by reprocessing.
func (h *DeviceHandlerImpl) ReceivePunch(w http.ResponseWriter, r *http.Request) {
	var req device.ReceivePunchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Receive punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.deviceService.ReceivePunch(r.Context(), req)
	if err != nil {
		slog.Error("Receive punch service error", "error", err)
		response.HandleError(w, err)
		return
	}

	if !result.Processed {
		response.Accepted(w, "Event stored, processing deferred", result)
		return
	}

	response.Created(w, "Punch processed", result)
}

// Get implements DeviceHandler.
func (h *DeviceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.deviceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, event)
}

// List implements DeviceHandler.
func (h *DeviceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := device.EventFilter{
		BiometricID: queryString(r, "biometric_id"),
		DeviceID:    queryString(r, "device_id"),
		Processed:   queryBool(r, "processed"),
		Unresolved:  queryBool(r, "unresolved"),
		Page:        queryInt(r, "page", 1),
		Limit:       queryInt(r, "limit", 20),
	}

	list, err := h.deviceService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List punch events service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// Reprocess implements DeviceHandler.
func (h *DeviceHandlerImpl) Reprocess(w http.ResponseWriter, r *http.Request) {
	result, err := h.deviceService.ReprocessPending(r.Context())
	if err != nil {
		slog.Error("Reprocess service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reprocess completed", result)
}
