package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/eboard-api/internal/models"
	"github.com/noah-isme/eboard-api/pkg/export"
	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type noticeLister interface {
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

var (
	csvNoticeHeaders = []string{"ID", "Category", "Priority", "Title", "Title (TA)", "Content", "Content (TA)", "Posted", "Expires", "Link", "Attachment", "Status"}
	pdfNoticeHeaders = []string{"ID", "Category", "Priority", "Title", "Content", "Posted", "Expires"}
	pdfNoticeWidths  = map[string]float64{"ID": 12, "Category": 22, "Priority": 18, "Title": 60, "Posted": 22, "Expires": 22}
)

// ExportService renders notice listings for printing.
type ExportService struct {
	notices noticeLister
	csv     datasetRenderer
	pdf     datasetRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers get the
// package defaults.
func NewExportService(notices noticeLister, csv, pdf datasetRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(pdfNoticeWidths)
	}
	return &ExportService{notices: notices, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Export renders the notices matching filter in format.
func (s *ExportService) Export(ctx context.Context, filter models.NoticeFilter, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}

	var (
		renderer datasetRenderer
		headers  []string
	)
	switch format {
	case ExportFormatCSV:
		renderer, headers = s.csv, csvNoticeHeaders
	case ExportFormatPDF:
		renderer, headers = s.pdf, pdfNoticeHeaders
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	notices, err := s.notices.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list notices")
	}

	today := models.NewDate(s.now())
	data := export.Dataset{
		Title:   exportTitle(filter, today),
		Headers: headers,
		Rows:    make([]map[string]string, 0, len(notices)),
	}
	for _, n := range notices {
		data.Rows = append(data.Rows, noticeRow(n))
	}

	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	s.logger.Debug("notice export rendered", zap.String("format", format), zap.Int("rows", len(notices)))
	return &ExportFile{
		Filename:    fmt.Sprintf("notices-%s%s", today.String(), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func exportTitle(filter models.NoticeFilter, today models.Date) string {
	status := "Active"
	if filter.Archived {
		status = "Archived"
	}
	return fmt.Sprintf("%s notices as of %s", status, today.String())
}

func noticeRow(n models.Notice) map[string]string {
	priority := "Normal"
	if n.Priority {
		priority = "Urgent"
	}
	status := "Active"
	if n.IsArchived {
		status = "Archived"
	}
	return map[string]string{
		"ID":           strconv.FormatInt(n.ID, 10),
		"Category":     n.Category,
		"Priority":     priority,
		"Title":        n.Title,
		"Title (TA)":   deref(n.TitleTA),
		"Content":      n.Content,
		"Content (TA)": deref(n.ContentTA),
		"Posted":       n.DatePosted.String(),
		"Expires":      n.ExpiryDate.String(),
		"Link":         deref(n.Link),
		"Attachment":   deref(n.FilePath),
		"Status":       status,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
