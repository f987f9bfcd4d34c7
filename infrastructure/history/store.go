// Package history is the append-only log of completed weighings with
// time-windowed retrieval. Records are immutable once appended and only
// removed by the bulk clear.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"conferente/infrastructure/sqlite"
	"conferente/models"
)

// Period selects how far back a history view reaches.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod validates a period string, defaulting to day when blank.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	case "":
		return PeriodDay, nil
	}
	return "", fmt.Errorf("invalid period: %q", s)
}

// Label is the display name of a period.
func (p Period) Label() string {
	switch p {
	case PeriodWeek:
		return "Esta Semana"
	case PeriodMonth:
		return "Este Mês"
	case PeriodYear:
		return "Este Ano"
	default:
		return "Hoje"
	}
}

// Store persists weighing records in sqlite.
type Store struct {
	db *sqlite.DB
}

func NewStore(db *sqlite.DB) *Store {
	return &Store{db: db}
}

// Append adds one completed weighing to the log, assigning an id when
// the record does not carry one. The record is never touched again.
func (s *Store) Append(ctx context.Context, rec *models.WeighingRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(rec).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("append weighing record: %w", err)
	}
	return nil
}

// All returns every record, newest first. An unreadable log degrades to
// an empty result instead of an error.
func (s *Store) All(ctx context.Context) []models.WeighingRecord {
	return s.since(ctx, 0)
}

// Window returns the records with timestamps at or after the start of
// the given period relative to now, newest first.
func (s *Store) Window(ctx context.Context, now time.Time, period Period) []models.WeighingRecord {
	return s.since(ctx, PeriodStart(now, period).UnixMilli())
}

func (s *Store) since(ctx context.Context, fromMs int64) []models.WeighingRecord {
	records := make([]models.WeighingRecord, 0)
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&records).
			Where("timestamp_ms >= ?", fromMs).
			OrderExpr("timestamp_ms DESC, id ASC").
			Scan(ctx)
	})
	if err != nil {
		slog.Warn("weighing log unreadable, returning empty history", slog.Any("err", err))
		return []models.WeighingRecord{}
	}
	return records
}

// Get loads a single record by id.
func (s *Store) Get(ctx context.Context, id string) (models.WeighingRecord, bool) {
	var rec models.WeighingRecord
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rec).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	if err != nil {
		return models.WeighingRecord{}, false
	}
	return rec, true
}

// ClearAll irreversibly empties the log. Callers gate this behind an
// explicit confirmation; it is never retried automatically.
func (s *Store) ClearAll(ctx context.Context) error {
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM weighing_records`)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear weighing records: %w", err)
	}
	return nil
}

// PeriodStart computes the local-time lower bound of a period: midnight
// today, midnight of the most recent Sunday (today if Sunday), the
// first of the month, or January 1.
func PeriodStart(now time.Time, period Period) time.Time {
	year, month, day := now.Date()
	loc := now.Location()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, loc)

	switch period {
	case PeriodWeek:
		return dayStart.AddDate(0, 0, -int(now.Weekday()))
	case PeriodMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, loc)
	case PeriodYear:
		return time.Date(year, 1, 1, 0, 0, 0, 0, loc)
	default:
		return dayStart
	}
}
