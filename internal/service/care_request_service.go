package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/events"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// CareRequestService handles public intake and its admin follow-up.
type CareRequestService struct {
	requests   repository.CareRequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CareRequestInput is the public intake form.
type CareRequestInput struct {
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	CareType           string
	PreferredStartDate *time.Time
	Frequency          *string
	Message            *string
}

// NewCareRequestService constructs the service.
func NewCareRequestService(requests repository.CareRequestRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CareRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CareRequestService{requests: requests, dispatcher: dispatcher, logger: logger}
}

// Submit stores a new request and notifies subscribers.
func (s *CareRequestService) Submit(ctx context.Context, input CareRequestInput) (*domain.CareRequest, error) {
	req := &domain.CareRequest{
		FirstName:          strings.TrimSpace(input.FirstName),
		LastName:           strings.TrimSpace(input.LastName),
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:              strings.TrimSpace(input.Phone),
		CareType:           strings.TrimSpace(input.CareType),
		PreferredStartDate: input.PreferredStartDate,
		Frequency:          input.Frequency,
		Message:            input.Message,
		Status:             domain.CareRequestStatusNew,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, storeErr("care request", nil, err)
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventCareRequestSubmitted,
		ResourceID: req.ID,
		Payload: events.CareRequestSubmittedPayload{
			Name:     req.FirstName + " " + req.LastName,
			Email:    req.Email,
			Phone:    req.Phone,
			CareType: req.CareType,
		},
	})
	return req, nil
}

// List returns requests, optionally filtered by status.
func (s *CareRequestService) List(ctx context.Context, status *domain.CareRequestStatus, limit, offset int) ([]domain.CareRequest, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *status})
	}
	requests, err := s.requests.List(ctx, repository.CareRequestFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return requests, nil
}

// UpdateStatus moves a request through follow-up.
func (s *CareRequestService) UpdateStatus(ctx context.Context, id string, status domain.CareRequestStatus) (*domain.CareRequest, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	if err := s.requests.UpdateStatus(ctx, id, status); err != nil {
		return nil, storeErr("care request", map[string]any{"id": id}, err)
	}
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("care request", map[string]any{"id": id}, err)
	}
	return req, nil
}
