package models

import "time"

// Known notice categories. Storage accepts any tag; these are the ones the
// board front end renders with dedicated styling.
const (
	NoticeCategoryTender   = "tender"
	NoticeCategoryGeneral  = "general"
	NoticeCategoryEvent    = "event"
	NoticeCategoryCircular = "circular"
)

// Notice represents a persisted notice row.
type Notice struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	TitleTA    *string   `db:"title_ta" json:"title_ta"`
	Content    string    `db:"content" json:"content"`
	ContentTA  *string   `db:"content_ta" json:"content_ta"`
	Category   string    `db:"category" json:"category"`
	Priority   bool      `db:"priority" json:"priority"`
	DatePosted Date      `db:"date_posted" json:"date_posted"`
	ExpiryDate Date      `db:"expiry_date" json:"expiry_date"`
	Link       *string   `db:"link" json:"link"`
	FilePath   *string   `db:"file_path" json:"file_path"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	IsArchived bool      `db:"is_archived" json:"is_archived"`
}

// NoticeFilter selects notices for listing. Archived is always applied;
// nil pointers leave that criterion out.
type NoticeFilter struct {
	Category *string
	Priority *bool
	Search   *string
	Archived bool
}

// NoticeChanges carries a partial update. Nil fields are left untouched.
// ClearTitleTA / ClearContentTA / ClearLink set the column to NULL.
type NoticeChanges struct {
	Title          *string
	TitleTA        *string
	ClearTitleTA   bool
	Content        *string
	ContentTA      *string
	ClearContentTA bool
	Category       *string
	Priority       *bool
	ExpiryDate     *Date
	Link           *string
	ClearLink      bool
	FilePath       *string
}

// Empty reports whether the change set touches no column.
func (c NoticeChanges) Empty() bool {
	return c.Title == nil && c.TitleTA == nil && !c.ClearTitleTA &&
		c.Content == nil && c.ContentTA == nil && !c.ClearContentTA &&
		c.Category == nil && c.Priority == nil && c.ExpiryDate == nil &&
		c.Link == nil && !c.ClearLink && c.FilePath == nil
}

// NoticeStats are the dashboard counters over one snapshot.
type NoticeStats struct {
	TotalActive   int64 `db:"total_active" json:"totalActive"`
	TotalUrgent   int64 `db:"total_urgent" json:"totalUrgent"`
	TotalToday    int64 `db:"total_today" json:"totalToday"`
	TotalArchived int64 `db:"total_archived" json:"totalArchived"`
}
