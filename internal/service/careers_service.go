package service

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/events"
	"github.com/spec-kit/homecare-api/internal/repository"
	"github.com/spec-kit/homecare-api/internal/storage"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

const resumePrefix = "resumes/"

// resumeTypes maps accepted extensions to the stored content type and the
// sniffed types that may back them.
var resumeTypes = map[string]struct {
	contentType string
	sniffed     []string
}{
	".pdf":  {contentType: "application/pdf", sniffed: []string{"application/pdf"}},
	".doc":  {contentType: "application/msword", sniffed: []string{"application/octet-stream"}},
	".docx": {contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", sniffed: []string{"application/zip", "application/octet-stream"}},
}

// CareersService manages job positions and applications.
type CareersService struct {
	positions    repository.PositionRepository
	applications repository.ApplicationRepository
	store        storage.ObjectStore
	dispatcher   events.Dispatcher
	maxResume    int64
	logger       *zap.Logger
}

// CareersDependencies bundles collaborators for the careers service.
type CareersDependencies struct {
	PositionRepo    repository.PositionRepository
	ApplicationRepo repository.ApplicationRepository
	// Store may be nil when object storage is not configured; uploads then fail.
	Store          storage.ObjectStore
	Dispatcher     events.Dispatcher
	MaxResumeBytes int64
	Logger         *zap.Logger
}

// PositionInput is the editable part of a job position.
type PositionInput struct {
	Title          string
	Department     *string
	EmploymentType string
	Location       *string
	Salary         *string
	Description    string
	Requirements   []string
	Benefits       []string
	IsActive       bool
}

// ApplicationInput is a candidate submission.
type ApplicationInput struct {
	PositionID  string
	FirstName   string
	LastName    string
	Email       string
	Phone       *string
	CoverLetter *string
	Resume      *ResumeUpload
}

// ResumeUpload is an uploaded resume file.
type ResumeUpload struct {
	Filename string
	Data     []byte
}

// ApplicationView is an application with a short-lived resume link.
type ApplicationView struct {
	domain.JobApplication
	ResumeURL *string
}

// NewCareersService constructs the service.
func NewCareersService(deps CareersDependencies) *CareersService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxResume := deps.MaxResumeBytes
	if maxResume <= 0 {
		maxResume = 5 * 1024 * 1024
	}
	return &CareersService{
		positions:    deps.PositionRepo,
		applications: deps.ApplicationRepo,
		store:        deps.Store,
		dispatcher:   deps.Dispatcher,
		maxResume:    maxResume,
		logger:       logger,
	}
}

// ListPositions returns positions; the public site asks for active ones only.
func (s *CareersService) ListPositions(ctx context.Context, activeOnly bool) ([]domain.JobPosition, error) {
	positions, err := s.positions.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return positions, nil
}

// GetPosition fetches one position. Inactive positions are hidden from the
// public site.
func (s *CareersService) GetPosition(ctx context.Context, id string, activeOnly bool) (*domain.JobPosition, error) {
	position, err := s.positions.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("position", map[string]any{"id": id}, err)
	}
	if activeOnly && !position.IsActive {
		return nil, apperrors.NewNotFound("position", map[string]any{"id": id})
	}
	return position, nil
}

// CreatePosition adds a position.
func (s *CareersService) CreatePosition(ctx context.Context, input PositionInput) (*domain.JobPosition, error) {
	position := &domain.JobPosition{}
	applyPosition(position, input)
	if err := s.positions.Create(ctx, position); err != nil {
		return nil, storeErr("position", nil, err)
	}
	return position, nil
}

// UpdatePosition replaces a position's fields.
func (s *CareersService) UpdatePosition(ctx context.Context, id string, input PositionInput) (*domain.JobPosition, error) {
	position, err := s.positions.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("position", map[string]any{"id": id}, err)
	}
	applyPosition(position, input)
	if err := s.positions.Update(ctx, position); err != nil {
		return nil, storeErr("position", map[string]any{"id": id}, err)
	}
	return position, nil
}

// DeletePosition removes a position.
func (s *CareersService) DeletePosition(ctx context.Context, id string) error {
	return storeErr("position", map[string]any{"id": id}, s.positions.Delete(ctx, id))
}

func applyPosition(position *domain.JobPosition, input PositionInput) {
	position.Title = strings.TrimSpace(input.Title)
	position.Department = input.Department
	position.EmploymentType = input.EmploymentType
	position.Location = input.Location
	position.Salary = input.Salary
	position.Description = input.Description
	position.Requirements = input.Requirements
	position.Benefits = input.Benefits
	position.IsActive = input.IsActive
}

// Apply validates and stores the resume, then records the application.
func (s *CareersService) Apply(ctx context.Context, input ApplicationInput) (*domain.JobApplication, error) {
	position, err := s.GetPosition(ctx, input.PositionID, true)
	if err != nil {
		return nil, err
	}

	app := &domain.JobApplication{
		PositionID:    position.ID,
		PositionTitle: position.Title,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         input.Phone,
		CoverLetter:   input.CoverLetter,
		Status:        domain.ApplicationStatusPending,
	}

	if input.Resume != nil {
		ext, contentType, err := s.checkResume(input.Resume)
		if err != nil {
			return nil, err
		}
		if s.store == nil {
			return nil, apperrors.NewStoreError(storage.ErrNotConfigured)
		}
		key := resumePrefix + uuid.NewString() + ext
		if err := s.store.Put(ctx, key, contentType, input.Resume.Data); err != nil {
			return nil, apperrors.NewStoreError(err)
		}
		app.ResumeKey = &key
	}

	if err := s.applications.Create(ctx, app); err != nil {
		return nil, storeErr("application", nil, err)
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventApplicationReceived,
		ResourceID: app.ID,
		Payload: events.ApplicationReceivedPayload{
			PositionID: app.PositionID,
			Name:       app.FirstName + " " + app.LastName,
			Email:      app.Email,
		},
	})
	return app, nil
}

// checkResume returns the normalised extension and content type for an
// acceptable resume.
func (s *CareersService) checkResume(resume *ResumeUpload) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(resume.Filename))
	kind, ok := resumeTypes[ext]
	if !ok {
		return "", "", apperrors.NewValidationError("resume must be a PDF or Word document", map[string]any{"field": "resume"})
	}
	if len(resume.Data) == 0 {
		return "", "", apperrors.NewValidationError("resume is empty", map[string]any{"field": "resume"})
	}
	if int64(len(resume.Data)) > s.maxResume {
		return "", "", apperrors.NewValidationError("resume is too large", map[string]any{
			"field":     "resume",
			"max_bytes": s.maxResume,
		})
	}

	sniffed := http.DetectContentType(resume.Data)
	for _, allowed := range kind.sniffed {
		if sniffed == allowed {
			return ext, kind.contentType, nil
		}
	}
	return "", "", apperrors.NewValidationError("resume content does not match its extension", map[string]any{
		"field":    "resume",
		"detected": sniffed,
	})
}

// ListApplications returns applications with presigned resume links.
func (s *CareersService) ListApplications(ctx context.Context, positionID *string, status *domain.ApplicationStatus, limit, offset int) ([]ApplicationView, error) {
	apps, err := s.applications.List(ctx, repository.ApplicationFilter{
		PositionID: positionID,
		Status:     status,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		view := ApplicationView{JobApplication: app}
		if app.ResumeKey != nil && s.store != nil {
			url, err := s.store.PresignGet(ctx, *app.ResumeKey)
			if err != nil {
				s.logger.Warn("presign resume failed", zap.String("application_id", app.ID), zap.Error(err))
			} else {
				view.ResumeURL = &url
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateApplicationStatus records a hiring decision.
func (s *CareersService) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	if !status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	return storeErr("application", map[string]any{"id": id}, s.applications.UpdateStatus(ctx, id, status))
}
