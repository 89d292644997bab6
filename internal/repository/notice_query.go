package repository

import (
	"strings"

	"github.com/noah-isme/eboard-api/internal/models"
)

const noticeColumns = `id, title, title_ta, content, content_ta, category, priority, date_posted, expiry_date,
       link, file_path, created_at, updated_at, is_archived`

// noticeListOrder puts urgent and newest first; id keeps ties in insertion order.
const noticeListOrder = " ORDER BY priority DESC, date_posted DESC, id ASC"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildNoticeListQuery translates filter into SQL with '?' placeholders and
// the matching bound arguments. Every criterion value travels as an
// argument; callers rebind placeholders for their driver.
func BuildNoticeListQuery(filter models.NoticeFilter) (string, []interface{}) {
	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)

	conditions = append(conditions, "is_archived = ?")
	args = append(args, filter.Archived)

	if filter.Category != nil && *filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *filter.Priority)
	}
	if search := trimmed(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		conditions = append(conditions, "(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)")
		args = append(args, pattern, pattern)
	}

	var builder strings.Builder
	builder.WriteString("SELECT ")
	builder.WriteString(noticeColumns)
	builder.WriteString(" FROM notices WHERE ")
	builder.WriteString(strings.Join(conditions, " AND "))
	builder.WriteString(noticeListOrder)
	return builder.String(), args
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
