package service

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

type attachmentStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

// Upload carries one multipart file part.
type Upload struct {
	Field    string
	Filename string
	Size     int64
	Content  io.Reader
}

// AttachmentConfig tunes attachment handling.
type AttachmentConfig struct {
	URLPrefix   string
	MaxFileSize int64
}

// AttachmentService writes notice attachments to disk and hands back the
// path stored on the notice row.
type AttachmentService struct {
	storage attachmentStorage
	logger  *zap.Logger
	cfg     AttachmentConfig
	now     func() time.Time
}

// NewAttachmentService constructs the service with defaults.
func NewAttachmentService(storage attachmentStorage, cfg AttachmentConfig, logger *zap.Logger) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "uploads"
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	return &AttachmentService{storage: storage, logger: logger, cfg: cfg, now: time.Now}
}

// Save stores upload under a unique name and returns "<prefix>/<name>".
// The file is fully written and synced before Save returns.
func (s *AttachmentService) Save(upload Upload) (string, error) {
	if upload.Content == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	name, err := s.storage.SaveStream(s.filename(upload), io.LimitReader(upload.Content, s.cfg.MaxFileSize+1))
	if err != nil {
		return "", appErrors.Internal(err, "failed to store attachment")
	}
	stored := path.Join(s.cfg.URLPrefix, name)
	s.logger.Debug("attachment stored", zap.String("path", stored), zap.Int64("size", upload.Size))
	return stored, nil
}

// Remove deletes a previously stored attachment. Failures are logged only.
func (s *AttachmentService) Remove(stored string) {
	if stored == "" {
		return
	}
	if err := s.storage.Delete(path.Base(stored)); err != nil {
		s.logger.Warn("remove attachment failed", zap.String("path", stored), zap.Error(err))
	}
}

func (s *AttachmentService) filename(upload Upload) string {
	field := strings.TrimSpace(upload.Field)
	if field == "" {
		field = "file"
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(upload.Filename)))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s%s", field, s.now().UnixMilli(), suffix, ext)
}
