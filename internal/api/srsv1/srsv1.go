// Package srsv1 defines the messages and procedure names of the srs.v1.ReviewService
// Connect API. Messages are plain structs exchanged as JSON.
package srsv1

import "time"

// ServiceName is the fully-qualified name of the review service.
const ServiceName = "srs.v1.ReviewService"

// Procedure paths of ReviewService.
const (
	SubmitReviewProcedure = "/" + ServiceName + "/SubmitReview"
	ListDueItemsProcedure = "/" + ServiceName + "/ListDueItems"
	RegisterItemProcedure = "/" + ServiceName + "/RegisterItem"
	GetItemProcedure      = "/" + ServiceName + "/GetItem"
	RemoveItemProcedure   = "/" + ServiceName + "/RemoveItem"
)

type SubmitReviewRequest struct {
	UserID    string `json:"user_id"`
	ItemID    string `json:"item_id"`
	ItemType  string `json:"item_type"`
	IsCorrect bool   `json:"is_correct"`
}

type SubmitReviewResponse struct{}

type ListDueItemsRequest struct {
	UserID   string `json:"user_id"`
	ItemType string `json:"item_type"`
	// Limit caps the number of items. Zero means the server default.
	Limit int32 `json:"limit,omitempty"`
}

type ListDueItemsResponse struct {
	Items []DueItem `json:"items"`
}

type DueItem struct {
	UserID       string    `json:"user_id"`
	ItemID       string    `json:"item_id"`
	ItemType     string    `json:"item_type"`
	NextReviewAt time.Time `json:"next_review_at"`
}

type RegisterItemRequest struct {
	UserID   string `json:"user_id"`
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
}

type RegisterItemResponse struct{}

type GetItemRequest struct {
	UserID   string `json:"user_id"`
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
}

type GetItemResponse struct {
	// Item is nil when the item is not registered for the user.
	Item *ScheduleItem `json:"item,omitempty"`
}

// ScheduleItem is the full schedule state of one item.
type ScheduleItem struct {
	UserID         string     `json:"user_id"`
	ItemID         string     `json:"item_id"`
	ItemType       string     `json:"item_type"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	IntervalDays   float64    `json:"interval_days"`
	EaseFactor     float64    `json:"ease_factor"`
}

type RemoveItemRequest struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
}

type RemoveItemResponse struct {
	Deleted int64 `json:"deleted"`
}

// HealthPath is the plain HTTP health check served next to the Connect procedures.
const HealthPath = "/healthz"

// Health is the body of a HealthPath response.
type Health struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime"`
	DB      bool    `json:"db"`
}
