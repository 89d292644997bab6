package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eboard-api/internal/dto"
	"github.com/noah-isme/eboard-api/internal/models"
	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

const (
	msgNoticeNotFound = "Notice not found"
	msgNoticeCreated  = "Notice created successfully"
	msgNoticeUpdated  = "Notice updated successfully"
	msgNoticeDeleted  = "Notice deleted successfully"
	msgNoticeArchived = "Notice archived successfully"
)

type noticeStore interface {
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error)
	GetByID(ctx context.Context, id int64) (*models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) (int64, error)
	Update(ctx context.Context, id int64, changes models.NoticeChanges) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Archive(ctx context.Context, id int64) (int64, error)
}

type noticeBootstrapper interface {
	EnsureSchema(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	Seed(ctx context.Context, notices []models.Notice) error
}

type attachmentSaver interface {
	Save(upload Upload) (string, error)
	Remove(stored string)
}

type statsInvalidator interface {
	Invalidate(ctx context.Context)
}

type mutationRecorder interface {
	RecordNoticeMutation(operation string, affected int64)
}

// NoticeServiceConfig tunes validation.
type NoticeServiceConfig struct {
	// StrictExpiry rejects an expiry date earlier than the posting date.
	StrictExpiry bool
}

// NoticeService validates requests and drives the notice store.
type NoticeService struct {
	store       noticeStore
	attachments attachmentSaver
	stats       statsInvalidator
	metrics     mutationRecorder
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         NoticeServiceConfig
	now         func() time.Time
}

// NewNoticeService constructs a NoticeService. attachments, stats and
// metrics may be nil.
func NewNoticeService(store noticeStore, attachments attachmentSaver, stats statsInvalidator, metrics mutationRecorder, validate *validator.Validate, logger *zap.Logger, cfg NoticeServiceConfig) *NoticeService {
	if validate == nil {
		validate = NewFormValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{
		store:       store,
		attachments: attachments,
		stats:       stats,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// NewFormValidator reports field errors by their form names.
func NewFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// List returns notices matching filter.
func (s *NoticeService) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error) {
	notices, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list notices")
	}
	return notices, nil
}

// Get returns a single notice.
func (s *NoticeService) Get(ctx context.Context, id int64) (*models.Notice, error) {
	notice, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgNoticeNotFound)
		}
		return nil, appErrors.Internal(err, "failed to load notice")
	}
	return notice, nil
}

// Create validates req, stores the optional attachment and inserts the
// notice. The attachment is removed again when the insert fails.
func (s *NoticeService) Create(ctx context.Context, req dto.CreateNoticeRequest, upload *Upload) (*dto.CreatedNoticeResponse, error) {
	req.Normalize()
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := s.validateLink(req.Link); err != nil {
		return nil, err
	}
	expiry, err := models.ParseDate(req.ExpiryDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expiry_date must be YYYY-MM-DD")
	}
	if s.cfg.StrictExpiry && expiry.Before(models.NewDate(s.now())) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expiry_date must not be before date_posted")
	}

	notice := &models.Notice{
		Title:      req.Title,
		TitleTA:    nullable(req.TitleTA),
		Content:    req.Content,
		ContentTA:  nullable(req.ContentTA),
		Category:   req.Category,
		Priority:   dto.ParseFlag(req.Priority),
		ExpiryDate: expiry,
		Link:       nullable(req.Link),
	}

	stored, err := s.saveAttachment(upload)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		notice.FilePath = &stored
	}

	id, err := s.store.Create(ctx, notice)
	if err != nil {
		s.removeAttachment(stored)
		return nil, appErrors.Internal(err, "failed to create notice")
	}
	s.afterMutation(ctx, "create", id, 1)
	return &dto.CreatedNoticeResponse{ID: id, Message: msgNoticeCreated}, nil
}

// Update applies the supplied fields. An unknown id is a no-op success.
func (s *NoticeService) Update(ctx context.Context, id int64, req dto.UpdateNoticeRequest, upload *Upload) (string, error) {
	req.Normalize()
	if err := s.validate(req); err != nil {
		return "", err
	}
	if err := s.validateLink(req.Link); err != nil {
		return "", err
	}
	changes, err := s.changesFrom(req)
	if err != nil {
		return "", err
	}
	if s.cfg.StrictExpiry && changes.ExpiryDate != nil {
		if err := s.checkExpiryAgainstPosting(ctx, id, *changes.ExpiryDate); err != nil {
			return "", err
		}
	}

	var previous string
	if upload != nil {
		previous = s.currentAttachment(ctx, id)
	}
	stored, err := s.saveAttachment(upload)
	if err != nil {
		return "", err
	}
	if stored != "" {
		changes.FilePath = &stored
	}

	affected, err := s.store.Update(ctx, id, changes)
	if err != nil {
		s.removeAttachment(stored)
		return "", appErrors.Internal(err, "failed to update notice")
	}
	if affected == 0 {
		s.removeAttachment(stored)
	} else if stored != "" && previous != stored {
		s.removeAttachment(previous)
	}
	s.afterMutation(ctx, "update", id, affected)
	return msgNoticeUpdated, nil
}

// Delete removes a notice. An unknown id is a no-op success.
func (s *NoticeService) Delete(ctx context.Context, id int64) (string, error) {
	previous := s.currentAttachment(ctx, id)
	affected, err := s.store.Delete(ctx, id)
	if err != nil {
		return "", appErrors.Internal(err, "failed to delete notice")
	}
	if affected > 0 {
		s.removeAttachment(previous)
	}
	s.afterMutation(ctx, "delete", id, affected)
	return msgNoticeDeleted, nil
}

// Archive marks a notice archived. Repeating it, or archiving an unknown
// id, succeeds without changing anything.
func (s *NoticeService) Archive(ctx context.Context, id int64) (string, error) {
	affected, err := s.store.Archive(ctx, id)
	if err != nil {
		return "", appErrors.Internal(err, "failed to archive notice")
	}
	s.afterMutation(ctx, "archive", id, affected)
	return msgNoticeArchived, nil
}

// Bootstrap creates the schema and, when seed is set, loads samples into
// an empty table.
func (s *NoticeService) Bootstrap(ctx context.Context, store noticeBootstrapper, seed bool, samples []models.Notice) error {
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	if !seed {
		return nil
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	if err := store.Seed(ctx, samples); err != nil {
		return err
	}
	s.logger.Info("seeded sample notices", zap.Int("count", len(samples)))
	return nil
}

func (s *NoticeService) changesFrom(req dto.UpdateNoticeRequest) (models.NoticeChanges, error) {
	changes := models.NoticeChanges{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}
	if req.TitleTA != nil {
		if *req.TitleTA == "" {
			changes.ClearTitleTA = true
		} else {
			changes.TitleTA = req.TitleTA
		}
	}
	if req.ContentTA != nil {
		if *req.ContentTA == "" {
			changes.ClearContentTA = true
		} else {
			changes.ContentTA = req.ContentTA
		}
	}
	if req.Link != nil {
		if *req.Link == "" {
			changes.ClearLink = true
		} else {
			changes.Link = req.Link
		}
	}
	if req.Priority != nil {
		priority := dto.ParseFlag(*req.Priority)
		changes.Priority = &priority
	}
	if req.ExpiryDate != nil {
		expiry, err := models.ParseDate(*req.ExpiryDate)
		if err != nil {
			return models.NoticeChanges{}, appErrors.Clone(appErrors.ErrValidation, "expiry_date must be YYYY-MM-DD")
		}
		changes.ExpiryDate = &expiry
	}
	return changes, nil
}

func (s *NoticeService) checkExpiryAgainstPosting(ctx context.Context, id int64, expiry models.Date) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Internal(err, "failed to load notice")
	}
	if expiry.Before(current.DatePosted) {
		return appErrors.Clone(appErrors.ErrValidation, "expiry_date must not be before date_posted")
	}
	return nil
}

func (s *NoticeService) validate(req interface{}) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fieldMessage(fieldErrs[0]))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}

// validateLink checks a non-blank link. Blank means "no link" on create and
// "clear the link" on update.
func (s *NoticeService) validateLink(link *string) error {
	if link == nil || *link == "" {
		return nil
	}
	if err := s.validator.Var(*link, "url,max=255"); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Tag() == "max" {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "link must be at most 255 characters")
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "link must be a valid URL")
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be YYYY-MM-DD", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func (s *NoticeService) saveAttachment(upload *Upload) (string, error) {
	if upload == nil {
		return "", nil
	}
	if s.attachments == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "attachments not configured")
	}
	return s.attachments.Save(*upload)
}

// currentAttachment returns the stored file path of id, or "" when the
// notice has none or cannot be read.
func (s *NoticeService) currentAttachment(ctx context.Context, id int64) string {
	notice, err := s.store.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("could not read notice attachment", zap.Int64("id", id), zap.Error(err))
		}
		return ""
	}
	if notice.FilePath == nil {
		return ""
	}
	return *notice.FilePath
}

func (s *NoticeService) removeAttachment(stored string) {
	if stored != "" && s.attachments != nil {
		s.attachments.Remove(stored)
	}
}

func (s *NoticeService) afterMutation(ctx context.Context, op string, id, affected int64) {
	if affected == 0 {
		s.logger.Debug("notice mutation matched no rows", zap.String("operation", op), zap.Int64("id", id))
	}
	if s.metrics != nil {
		s.metrics.RecordNoticeMutation(op, affected)
	}
	if affected > 0 && s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

// nullable maps a blank optional value to NULL.
func nullable(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}
