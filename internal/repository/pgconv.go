package repository

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/spec-kit/homecare-api/internal/domain"
)

const microsPerMinute = int64(time.Minute / time.Microsecond)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func timeParam(t domain.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t) * microsPerMinute, Valid: true}
}

func timeOfDay(t pgtype.Time) domain.TimeOfDay {
	return domain.TimeOfDay(t.Microseconds / microsPerMinute)
}

func dateParam(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.TruncateDate(t), Valid: true}
}

// MaxPageSize caps every listing query.
const MaxPageSize = 500

func pageBounds(limit, offset, defaultLimit int) (uint64, uint64) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return uint64(limit), uint64(offset)
}
