package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// containsPattern builds a case-insensitive LIKE pattern; use with LOWER(column).
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// betweenDates applies an optional inclusive time range on column.
func betweenDates(query *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", *from)
	}
	if to != nil {
		query = query.Where(column+" <= ?", *to)
	}
	return query
}

// paginate applies offset and limit; a limit of zero or less returns every row.
func paginate(query *gorm.DB, offset, limit int) *gorm.DB {
	if limit <= 0 {
		return query
	}
	return query.Offset(offset).Limit(limit)
}
