package dto

import (
	"strings"

	"github.com/noah-isme/eboard-api/internal/models"
)

// CreateNoticeRequest is the multipart form accepted by POST /notices.
type CreateNoticeRequest struct {
	Title      string  `form:"title" json:"title" validate:"required,max=255"`
	TitleTA    *string `form:"title_ta" json:"title_ta"`
	Content    string  `form:"content" json:"content" validate:"required"`
	ContentTA  *string `form:"content_ta" json:"content_ta"`
	Category   string  `form:"category" json:"category" validate:"required,max=50"`
	Priority   string  `form:"priority" json:"priority"`
	ExpiryDate string  `form:"expiry_date" json:"expiry_date" validate:"required,datetime=2006-01-02"`
	Link       *string `form:"link" json:"link"`
}

// Normalize trims every text field in place.
func (r *CreateNoticeRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Category = strings.TrimSpace(r.Category)
	r.Priority = strings.TrimSpace(r.Priority)
	r.ExpiryDate = strings.TrimSpace(r.ExpiryDate)
	trimPtr(r.TitleTA)
	trimPtr(r.ContentTA)
	trimPtr(r.Link)
}

// UpdateNoticeRequest is the multipart form accepted by PUT /notices/:id.
// Only keys present in the form are applied. An empty title_ta, content_ta
// or link clears the stored value. Link is checked by the service once it
// is known to be non-blank.
type UpdateNoticeRequest struct {
	Title      *string `form:"title" json:"title" validate:"omitnil,min=1,max=255"`
	TitleTA    *string `form:"title_ta" json:"title_ta"`
	Content    *string `form:"content" json:"content" validate:"omitnil,min=1"`
	ContentTA  *string `form:"content_ta" json:"content_ta"`
	Category   *string `form:"category" json:"category" validate:"omitnil,min=1,max=50"`
	Priority   *string `form:"priority" json:"priority"`
	ExpiryDate *string `form:"expiry_date" json:"expiry_date" validate:"omitnil,datetime=2006-01-02"`
	Link       *string `form:"link" json:"link"`
}

// Normalize trims every supplied field in place.
func (r *UpdateNoticeRequest) Normalize() {
	for _, field := range []*string{r.Title, r.TitleTA, r.Content, r.ContentTA, r.Category, r.Priority, r.ExpiryDate, r.Link} {
		trimPtr(field)
	}
}

// NoticeListQuery captures the listing filters from the query string.
type NoticeListQuery struct {
	Category string `form:"category"`
	Priority string `form:"priority"`
	Search   string `form:"search"`
	Archived string `form:"archived"`
}

// ToFilter coerces the raw strings into a store filter. Blank category and
// search are dropped; archived defaults to false.
func (q NoticeListQuery) ToFilter() models.NoticeFilter {
	var filter models.NoticeFilter
	if category := strings.TrimSpace(q.Category); category != "" {
		filter.Category = &category
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		filter.Search = &search
	}
	if raw := strings.TrimSpace(q.Priority); raw != "" {
		priority := ParseFlag(raw)
		filter.Priority = &priority
	}
	filter.Archived = ParseFlag(q.Archived)
	return filter
}

// NoticeExportQuery adds the output format to the listing filters.
type NoticeExportQuery struct {
	NoticeListQuery
	Format string `form:"format"`
}

// CreatedNoticeResponse acknowledges a create.
type CreatedNoticeResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// ParseFlag reads a boolean form or query value. Only "true", in any case,
// is true.
func ParseFlag(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

func trimPtr(value *string) {
	if value != nil {
		*value = strings.TrimSpace(*value)
	}
}
