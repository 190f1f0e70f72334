// Package srs schedules reviews of learning items with a simplified SM-2 algorithm
// and persists one schedule record per (user, item, item type).
package srs

import (
	"database/sql"
	"time"
)

// ItemKey identifies a schedule record. There is no surrogate key.
type ItemKey struct {
	UserID   string
	ItemID   string
	ItemType string
}

// ScheduleRecord is a row of srs_items.
type ScheduleRecord struct {
	UserID          string         `db:"user_id"`
	ItemID          string         `db:"item_id"`
	ItemType        string         `db:"item_type"`
	LastReviewedAt  *time.Time     `db:"last_reviewed_at"`
	NextReviewAt    time.Time      `db:"next_review_at"`
	CurrentInterval sql.NullString `db:"current_interval"`
	EaseFactor      float64        `db:"ease_factor"`
}

// Key returns the composite key of the record.
func (r ScheduleRecord) Key() ItemKey {
	return ItemKey{UserID: r.UserID, ItemID: r.ItemID, ItemType: r.ItemType}
}

// IntervalDays returns the current interval in days, 1 if the item was never reviewed.
func (r ScheduleRecord) IntervalDays() float64 {
	return ParseNullInterval(r.CurrentInterval)
}

// DueItem is the summary returned by due-item queries.
type DueItem struct {
	UserID       string    `db:"user_id" json:"user_id"`
	ItemID       string    `db:"item_id" json:"item_id"`
	ItemType     string    `db:"item_type" json:"item_type"`
	NextReviewAt time.Time `db:"next_review_at" json:"next_review_at"`
}
