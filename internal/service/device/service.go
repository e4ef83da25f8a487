package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/device"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	attendanceservice "github.com/presencehr/attendance-backend-go/internal/service/attendance"
)

// reprocessBatchSize bounds a single reprocess run.
const reprocessBatchSize = 500

type DeviceServiceImpl struct {
	db *database.DB
	device.EventRepository
	user.UserRepository
	recorder *attendanceservice.PunchRecorder
}

func NewDeviceService(
	db *database.DB,
	eventRepository device.EventRepository,
	userRepository user.UserRepository,
	recorder *attendanceservice.PunchRecorder,
) device.DeviceService {
	return &DeviceServiceImpl{
		db:              db,
		EventRepository: eventRepository,
		UserRepository:  userRepository,
		recorder:        recorder,
	}
}

func toEventResponse(e device.PunchEvent, includePayload bool) device.PunchEventResponse {
	resp := device.PunchEventResponse{
		ID:           e.ID,
		BiometricID:  e.BiometricID,
		EventType:    string(e.EventType),
		Timestamp:    e.Timestamp.Format(time.RFC3339),
		DeviceID:     e.DeviceID,
		Processed:    e.Processed,
		EmployeeID:   e.EmployeeID,
		EmployeeName: e.EmployeeName,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
	if includePayload {
		resp.RawPayload = e.RawPayload
	}
	return resp
}

// ReceivePunch implements device.DeviceService.
// The raw event is always stored first: the ingestion record survives even
// when applying it fails, and failed events stay visible for reprocessing.
func (s *DeviceServiceImpl) ReceivePunch(ctx context.Context, req device.ReceivePunchRequest) (device.ReceivePunchResponse, error) {
	if err := req.Validate(); err != nil {
		return device.ReceivePunchResponse{}, err
	}

	timestamp, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return device.ReceivePunchResponse{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	event, err := s.EventRepository.Create(ctx, device.PunchEvent{
		BiometricID: req.BiometricID,
		EventType:   device.EventType(req.EventType),
		Timestamp:   timestamp.UTC(),
		DeviceID:    req.DeviceID,
		RawPayload:  req.RawPayload,
	})
	if err != nil {
		return device.ReceivePunchResponse{}, fmt.Errorf("failed to store punch event: %w", err)
	}

	processed, employee, err := s.apply(ctx, event)
	if err != nil {
		slog.Error("Failed to apply punch event", "event_id", event.ID, "biometric_id", event.BiometricID, "error", err)
		return device.ReceivePunchResponse{EventID: event.ID, Processed: false}, nil
	}

	response := device.ReceivePunchResponse{
		EventID:   event.ID,
		Processed: processed,
	}
	if employee != nil {
		response.EmployeeID = &employee.ID
		name := employee.FullName()
		response.EmployeeName = &name
	}

	return response, nil
}

// apply resolves the biometric id and routes the event to the attendance
// recorder. An unknown biometric id is not an error: the event is marked
// processed with no employee so it shows up in the unresolved listing
// instead of being retried forever.
func (s *DeviceServiceImpl) apply(ctx context.Context, event device.PunchEvent) (bool, *user.User, error) {
	employee, err := s.UserRepository.GetActiveByBiometricID(ctx, event.BiometricID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			if err := s.EventRepository.MarkProcessed(ctx, event.ID, nil); err != nil {
				return false, nil, fmt.Errorf("failed to mark event processed: %w", err)
			}
			slog.Warn("Punch event from unknown biometric id", "event_id", event.ID, "biometric_id", event.BiometricID, "device_id", event.DeviceID)
			return true, nil, nil
		}
		return false, nil, fmt.Errorf("failed to resolve biometric id: %w", err)
	}

	switch event.EventType {
	case device.EventClockIn:
		if _, err := s.recorder.Apply(ctx, employee.ID, attendance.PunchTypeIn, event.Timestamp); err != nil {
			return false, nil, err
		}
	case device.EventClockOut:
		if _, err := s.recorder.Apply(ctx, employee.ID, attendance.PunchTypeOut, event.Timestamp); err != nil {
			return false, nil, err
		}
	case device.EventBreakStart, device.EventBreakResume:
		// break events are kept for audit only
	default:
		return false, nil, device.ErrProcessingFailed
	}

	if err := s.EventRepository.MarkProcessed(ctx, event.ID, &employee.ID); err != nil {
		return false, nil, fmt.Errorf("failed to mark event processed: %w", err)
	}

	return true, &employee, nil
}

// ReprocessPending implements device.DeviceService.
func (s *DeviceServiceImpl) ReprocessPending(ctx context.Context) (device.ReprocessResponse, error) {
	events, err := s.EventRepository.ListUnprocessed(ctx, reprocessBatchSize)
	if err != nil {
		return device.ReprocessResponse{}, fmt.Errorf("failed to list unprocessed events: %w", err)
	}

	response := device.ReprocessResponse{Attempted: len(events)}
	for _, event := range events {
		processed, _, err := s.apply(ctx, event)
		if err != nil || !processed {
			if err != nil {
				slog.Error("Reprocess failed for punch event", "event_id", event.ID, "error", err)
			}
			response.Failed++
			continue
		}
		response.Processed++
	}

	return response, nil
}

// Get implements device.DeviceService.
func (s *DeviceServiceImpl) Get(ctx context.Context, id string) (device.PunchEventResponse, error) {
	event, err := s.EventRepository.GetByID(ctx, id)
	if err != nil {
		return device.PunchEventResponse{}, err
	}

	return toEventResponse(event, true), nil
}

// List implements device.DeviceService.
// Employees only see events already resolved to themselves.
func (s *DeviceServiceImpl) List(ctx context.Context, filter device.EventFilter) (device.ListEventsResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return device.ListEventsResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	role, _ := claims["role"].(string)
	if !user.HasPermission(user.Role(role), user.PermissionDeviceViewAll) {
		userID, _ := claims["user_id"].(string)
		userData, err := s.UserRepository.GetByID(ctx, userID)
		if err != nil {
			return device.ListEventsResponse{}, err
		}
		if userData.BiometricID == nil {
			return device.ListEventsResponse{Page: 1, Limit: 20, Events: []device.PunchEventResponse{}}, nil
		}
		filter.BiometricID = userData.BiometricID
		filter.Unresolved = nil
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	events, total, err := s.EventRepository.List(ctx, filter)
	if err != nil {
		return device.ListEventsResponse{}, fmt.Errorf("failed to list punch events: %w", err)
	}

	response := device.ListEventsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Events:     make([]device.PunchEventResponse, 0, len(events)),
	}
	for _, event := range events {
		response.Events = append(response.Events, toEventResponse(event, false))
	}

	return response, nil
}
