package srs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/langner-srs/internal/database"
)

const (
	itemsTable    = "srs_items"
	recordColumns = "user_id, item_id, item_type, last_reviewed_at, next_review_at, current_interval, ease_factor"
)

var keyColumns = []string{"user_id", "item_id", "item_type"}

//go:generate mockgen -source=repository.go -destination=../mocks/srs/mock_repository.go -package=mock_srs ScheduleRepository

// ScheduleRepository defines operations for managing schedule records.
type ScheduleRepository interface {
	GetDueItems(ctx context.Context, userID, itemType string, limit int) ([]DueItem, error)
	UpdateItem(ctx context.Context, tx *sqlx.Tx, key ItemKey, isCorrect bool) error
	RegisterItemIfAbsent(ctx context.Context, tx *sqlx.Tx, key ItemKey) error
	FindItem(ctx context.Context, key ItemKey) (*ScheduleRecord, error)
	FindByUser(ctx context.Context, userID, itemType string) ([]ScheduleRecord, error)
	DeleteByItem(ctx context.Context, tx *sqlx.Tx, itemID, itemType string) (int64, error)
}

// DBScheduleRepository implements ScheduleRepository on MySQL, PostgreSQL or SQLite.
type DBScheduleRepository struct {
	db                *sqlx.DB
	dialect           database.Dialect
	defaultEaseFactor float64
	now               func() time.Time
	logger            *slog.Logger
}

// Option configures a DBScheduleRepository.
type Option func(*DBScheduleRepository)

// WithDefaultEaseFactor sets the ease factor of newly registered items.
func WithDefaultEaseFactor(ease float64) Option {
	return func(r *DBScheduleRepository) {
		r.defaultEaseFactor = math.Max(MinEaseFactor, ease)
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *DBScheduleRepository) {
		r.now = now
	}
}

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(r *DBScheduleRepository) {
		r.logger = logger
	}
}

// NewDBScheduleRepository creates a new DBScheduleRepository. The SQL dialect is taken
// from the driver db was opened with.
func NewDBScheduleRepository(db *sqlx.DB, opts ...Option) *DBScheduleRepository {
	r := &DBScheduleRepository{
		db:                db,
		dialect:           database.DialectOf(db),
		defaultEaseFactor: DefaultEaseFactor,
		now:               time.Now,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// clock returns the current time in UTC at the microsecond precision of DATETIME(6).
func (r *DBScheduleRepository) clock() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// GetDueItems returns up to limit items of the user and item type whose next review is
// due, longest overdue first. It reads without taking any lock, so a review committed
// concurrently may or may not be reflected.
func (r *DBScheduleRepository) GetDueItems(ctx context.Context, userID, itemType string, limit int) ([]DueItem, error) {
	items := []DueItem{}
	if limit <= 0 {
		return items, nil
	}

	query := r.db.Rebind(`SELECT user_id, item_id, item_type, next_review_at FROM srs_items
		WHERE user_id = ? AND item_type = ? AND next_review_at <= ?
		ORDER BY next_review_at ASC, item_id ASC
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &items, query, userID, itemType, r.clock(), limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due srs_items) > %w", err)
	}
	return items, nil
}

// UpdateItem applies one review outcome to the record of key inside tx.
//
// The record is locked until tx ends, so concurrent reviews of the same key are applied
// one after another. A missing record is logged and skipped: items must be registered
// before they are reviewed.
func (r *DBScheduleRepository) UpdateItem(ctx context.Context, tx *sqlx.Tx, key ItemKey, isCorrect bool) error {
	var current struct {
		CurrentInterval sql.NullString `db:"current_interval"`
		EaseFactor      float64        `db:"ease_factor"`
	}
	query := tx.Rebind("SELECT current_interval, ease_factor FROM srs_items" +
		" WHERE user_id = ? AND item_id = ? AND item_type = ?" + r.dialect.ForUpdate())
	err := tx.GetContext(ctx, &current, query, key.UserID, key.ItemID, key.ItemType)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.WarnContext(ctx, "Schedule record not found, skipping review",
			"user_id", key.UserID,
			"item_id", key.ItemID,
			"item_type", key.ItemType)
		return nil
	}
	if err != nil {
		return fmt.Errorf("tx.GetContext(lock srs_item) > %w", err)
	}

	now := r.clock()
	outcome := NextReview(ReviewState{
		IntervalDays: math.Min(MaxIntervalDays, math.Max(MinIntervalDays, ParseNullInterval(current.CurrentInterval))),
		EaseFactor:   math.Max(MinEaseFactor, current.EaseFactor),
	}, isCorrect, now)

	if _, err := tx.ExecContext(ctx,
		tx.Rebind(`UPDATE srs_items SET last_reviewed_at = ?, next_review_at = ?, current_interval = ?, ease_factor = ?
		WHERE user_id = ? AND item_id = ? AND item_type = ?`),
		now, outcome.NextReviewAt, FormatDaysToInterval(outcome.IntervalDays), outcome.EaseFactor,
		key.UserID, key.ItemID, key.ItemType); err != nil {
		return fmt.Errorf("tx.ExecContext(update srs_item) > %w", err)
	}

	r.logger.DebugContext(ctx, "Reviewed schedule record",
		"user_id", key.UserID,
		"item_id", key.ItemID,
		"item_type", key.ItemType,
		"correct", isCorrect,
		"interval_days", outcome.IntervalDays,
		"ease_factor", outcome.EaseFactor)
	return nil
}

// RegisterItemIfAbsent creates the record of key, due immediately, unless one exists.
// An existing record is never modified.
func (r *DBScheduleRepository) RegisterItemIfAbsent(ctx context.Context, tx *sqlx.Tx, key ItemKey) error {
	query := r.dialect.InsertIgnore(itemsTable,
		[]string{"user_id", "item_id", "item_type", "next_review_at", "ease_factor"},
		keyColumns)
	result, err := tx.ExecContext(ctx, tx.Rebind(query),
		key.UserID, key.ItemID, key.ItemType, r.clock(), r.defaultEaseFactor)
	if err != nil {
		return fmt.Errorf("tx.ExecContext(insert srs_item) > %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		r.logger.DebugContext(ctx, "Registered schedule record",
			"user_id", key.UserID,
			"item_id", key.ItemID,
			"item_type", key.ItemType)
	}
	return nil
}

// FindItem returns the record of key, or nil if not found.
func (r *DBScheduleRepository) FindItem(ctx context.Context, key ItemKey) (*ScheduleRecord, error) {
	var record ScheduleRecord
	err := r.db.GetContext(ctx, &record,
		r.db.Rebind("SELECT "+recordColumns+" FROM srs_items WHERE user_id = ? AND item_id = ? AND item_type = ?"),
		key.UserID, key.ItemID, key.ItemType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(srs_item) > %w", err)
	}
	return &record, nil
}

// FindByUser returns all records of a user. An empty itemType matches every type.
func (r *DBScheduleRepository) FindByUser(ctx context.Context, userID, itemType string) ([]ScheduleRecord, error) {
	query := "SELECT " + recordColumns + " FROM srs_items WHERE user_id = ?"
	args := []interface{}{userID}
	if itemType != "" {
		query += " AND item_type = ?"
		args = append(args, itemType)
	}
	query += " ORDER BY item_type, item_id"

	records := []ScheduleRecord{}
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(srs_items by user) > %w", err)
	}
	return records, nil
}

// DeleteByItem deletes the records of every user for an item and returns how many were deleted.
func (r *DBScheduleRepository) DeleteByItem(ctx context.Context, tx *sqlx.Tx, itemID, itemType string) (int64, error) {
	result, err := tx.ExecContext(ctx,
		tx.Rebind("DELETE FROM srs_items WHERE item_id = ? AND item_type = ?"),
		itemID, itemType)
	if err != nil {
		return 0, fmt.Errorf("tx.ExecContext(delete srs_items) > %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("result.RowsAffected() > %w", err)
	}
	return deleted, nil
}
