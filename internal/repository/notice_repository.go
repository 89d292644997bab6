package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eboard-api/internal/models"
)

// QueryObserver receives per-statement timings.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// NoticeRepository is the notice store. Every method issues exactly one
// statement, so callers get row-level atomicity from the database and no
// in-process locking is needed.
type NoticeRepository struct {
	db       *sqlx.DB
	observer QueryObserver
	now      func() time.Time
}

// NewNoticeRepository creates the repository.
func NewNoticeRepository(db *sqlx.DB, observer QueryObserver) *NoticeRepository {
	return &NoticeRepository{db: db, observer: observer, now: time.Now}
}

// WithClock overrides the clock used for date_posted and timestamps.
func (r *NoticeRepository) WithClock(now func() time.Time) *NoticeRepository {
	r.now = now
	return r
}

// List returns notices matching filter, urgent and newest first.
func (r *NoticeRepository) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error) {
	defer r.observe("notices.list", time.Now())
	query, args := BuildNoticeListQuery(filter)
	notices := make([]models.Notice, 0)
	if err := r.db.SelectContext(ctx, &notices, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return notices, nil
}

// GetByID returns a notice or sql.ErrNoRows.
func (r *NoticeRepository) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	defer r.observe("notices.get", time.Now())
	query := r.db.Rebind("SELECT " + noticeColumns + " FROM notices WHERE id = ?")
	var notice models.Notice
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		return nil, err
	}
	return &notice, nil
}

// Create inserts a notice. date_posted is always today and is_archived is
// always false, whatever the caller put in those fields.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) (int64, error) {
	defer r.observe("notices.create", time.Now())
	now := r.now()
	notice.DatePosted = models.NewDate(now)
	notice.IsArchived = false
	notice.CreatedAt = now
	notice.UpdatedAt = now

	id, err := r.insert(ctx, notice)
	if err != nil {
		return 0, fmt.Errorf("create notice: %w", err)
	}
	notice.ID = id
	return id, nil
}

// Update applies the supplied fields only. A missing id affects zero rows
// and is not an error; callers get the affected count to decide.
func (r *NoticeRepository) Update(ctx context.Context, id int64, changes models.NoticeChanges) (int64, error) {
	if changes.Empty() {
		return 0, nil
	}
	defer r.observe("notices.update", time.Now())

	sets := make([]string, 0, 10)
	args := make([]interface{}, 0, 11)
	set := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if changes.Title != nil {
		set("title", *changes.Title)
	}
	if changes.ClearTitleTA {
		set("title_ta", nil)
	} else if changes.TitleTA != nil {
		set("title_ta", *changes.TitleTA)
	}
	if changes.Content != nil {
		set("content", *changes.Content)
	}
	if changes.ClearContentTA {
		set("content_ta", nil)
	} else if changes.ContentTA != nil {
		set("content_ta", *changes.ContentTA)
	}
	if changes.Category != nil {
		set("category", *changes.Category)
	}
	if changes.Priority != nil {
		set("priority", *changes.Priority)
	}
	if changes.ExpiryDate != nil {
		set("expiry_date", *changes.ExpiryDate)
	}
	if changes.ClearLink {
		set("link", nil)
	} else if changes.Link != nil {
		set("link", *changes.Link)
	}
	if changes.FilePath != nil {
		set("file_path", *changes.FilePath)
	}
	set("updated_at", r.now())
	args = append(args, id)

	query := r.db.Rebind("UPDATE notices SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update notice: %w", err)
	}
	return rowsAffected(res, "update notice")
}

// Delete removes a notice permanently. A missing id affects zero rows.
func (r *NoticeRepository) Delete(ctx context.Context, id int64) (int64, error) {
	defer r.observe("notices.delete", time.Now())
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM notices WHERE id = ?"), id)
	if err != nil {
		return 0, fmt.Errorf("delete notice: %w", err)
	}
	return rowsAffected(res, "delete notice")
}

// Archive marks one notice archived. Already-archived rows are not touched,
// so repeated calls leave the row exactly as the first call did.
func (r *NoticeRepository) Archive(ctx context.Context, id int64) (int64, error) {
	defer r.observe("notices.archive", time.Now())
	query := r.db.Rebind("UPDATE notices SET is_archived = ?, updated_at = ? WHERE id = ? AND is_archived = ?")
	res, err := r.db.ExecContext(ctx, query, true, r.now(), id, false)
	if err != nil {
		return 0, fmt.Errorf("archive notice: %w", err)
	}
	return rowsAffected(res, "archive notice")
}

// ArchiveExpiredBefore archives every active notice whose expiry date is
// strictly before cutoff and returns how many rows changed.
func (r *NoticeRepository) ArchiveExpiredBefore(ctx context.Context, cutoff models.Date) (int64, error) {
	defer r.observe("notices.archive_expired", time.Now())
	query := r.db.Rebind("UPDATE notices SET is_archived = ?, updated_at = ? WHERE expiry_date < ? AND is_archived = ?")
	res, err := r.db.ExecContext(ctx, query, true, r.now(), cutoff, false)
	if err != nil {
		return 0, fmt.Errorf("archive expired notices: %w", err)
	}
	return rowsAffected(res, "archive expired notices")
}

// Stats computes the dashboard counters in a single statement so all four
// numbers come from the same snapshot.
func (r *NoticeRepository) Stats(ctx context.Context, today models.Date) (models.NoticeStats, error) {
	defer r.observe("notices.stats", time.Now())
	const query = `SELECT
       COALESCE(SUM(CASE WHEN is_archived = FALSE THEN 1 ELSE 0 END), 0) AS total_active,
       COALESCE(SUM(CASE WHEN is_archived = FALSE AND priority = TRUE THEN 1 ELSE 0 END), 0) AS total_urgent,
       COALESCE(SUM(CASE WHEN is_archived = FALSE AND date_posted = ? THEN 1 ELSE 0 END), 0) AS total_today,
       COALESCE(SUM(CASE WHEN is_archived = TRUE THEN 1 ELSE 0 END), 0) AS total_archived
FROM notices`
	var stats models.NoticeStats
	if err := r.db.GetContext(ctx, &stats, r.db.Rebind(query), today); err != nil {
		return models.NoticeStats{}, fmt.Errorf("notice stats: %w", err)
	}
	return stats, nil
}

// Count returns the number of stored notices.
func (r *NoticeRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM notices"); err != nil {
		return 0, fmt.Errorf("count notices: %w", err)
	}
	return total, nil
}

// Seed inserts fixture notices keeping their own posting dates.
func (r *NoticeRepository) Seed(ctx context.Context, notices []models.Notice) error {
	now := r.now()
	for i := range notices {
		notice := &notices[i]
		notice.IsArchived = false
		notice.CreatedAt = now
		notice.UpdatedAt = now
		id, err := r.insert(ctx, notice)
		if err != nil {
			return fmt.Errorf("seed notice %q: %w", notice.Title, err)
		}
		notice.ID = id
	}
	return nil
}

func (r *NoticeRepository) insert(ctx context.Context, notice *models.Notice) (int64, error) {
	const insert = `INSERT INTO notices (title, title_ta, content, content_ta, category, priority, date_posted, expiry_date,
       link, file_path, created_at, updated_at, is_archived)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []interface{}{
		notice.Title, notice.TitleTA, notice.Content, notice.ContentTA, notice.Category, notice.Priority,
		notice.DatePosted, notice.ExpiryDate, notice.Link, notice.FilePath, notice.CreatedAt, notice.UpdatedAt,
		notice.IsArchived,
	}

	if sqlx.BindType(r.db.DriverName()) == sqlx.DOLLAR {
		var id int64
		if err := r.db.QueryRowxContext(ctx, r.db.Rebind(insert+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(insert), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *NoticeRepository) observe(label string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveDBQuery(label, time.Since(start))
	}
}

type affectedResult interface {
	RowsAffected() (int64, error)
}

func rowsAffected(res affectedResult, op string) (int64, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check %s rows: %w", op, err)
	}
	return affected, nil
}
