// Package review is the boundary collaborators use to submit reviews and query the
// review schedule.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	ut "github.com/go-playground/universal-translator"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/at-ishikawa/langner-srs/internal/config"
	"github.com/at-ishikawa/langner-srs/internal/database"
	"github.com/at-ishikawa/langner-srs/internal/srs"
	"github.com/at-ishikawa/langner-srs/internal/validation"
)

const tracerName = "github.com/at-ishikawa/langner-srs/internal/review"

// SubmitReviewInput is one answer of a learner to an item.
type SubmitReviewInput struct {
	UserID    string `json:"user_id" validate:"required,notblank,max=64"`
	ItemID    string `json:"item_id" validate:"required,notblank,max=128"`
	ItemType  string `json:"item_type" validate:"required,notblank,max=32"`
	IsCorrect bool   `json:"is_correct"`
}

// ListDueItemsInput selects the due items of a learner. A zero Limit uses the configured default.
type ListDueItemsInput struct {
	UserID   string `json:"user_id" validate:"required,notblank,max=64"`
	ItemType string `json:"item_type" validate:"required,notblank,max=32"`
	Limit    int    `json:"limit" validate:"gte=0"`
}

// RegisterItemInput is an item a learner has just encountered.
type RegisterItemInput struct {
	UserID   string `json:"user_id" validate:"required,notblank,max=64"`
	ItemID   string `json:"item_id" validate:"required,notblank,max=128"`
	ItemType string `json:"item_type" validate:"required,notblank,max=32"`
}

// GetItemInput identifies one schedule record.
type GetItemInput struct {
	UserID   string `json:"user_id" validate:"required,notblank,max=64"`
	ItemID   string `json:"item_id" validate:"required,notblank,max=128"`
	ItemType string `json:"item_type" validate:"required,notblank,max=32"`
}

// RemoveItemInput is an item removed from its catalog.
type RemoveItemInput struct {
	ItemID   string `json:"item_id" validate:"required,notblank,max=128"`
	ItemType string `json:"item_type" validate:"required,notblank,max=32"`
}

// ValidationError reports invalid input to a Service operation.
type ValidationError struct {
	Violations []validation.FieldViolation
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Description)
	}
	return "invalid request: " + strings.Join(messages, "; ")
}

//go:generate mockgen -source=service.go -destination=../mocks/review/mock_reviewer.go -package=mock_review Reviewer

// Reviewer is the review boundary. Service implements it against the database and
// client.Client against a remote srs-server.
type Reviewer interface {
	SubmitReview(ctx context.Context, in SubmitReviewInput) error
	ListDueItems(ctx context.Context, in ListDueItemsInput) ([]srs.DueItem, error)
	RegisterItem(ctx context.Context, in RegisterItemInput) error
	GetItem(ctx context.Context, in GetItemInput) (*srs.ScheduleRecord, error)
	RemoveItem(ctx context.Context, in RemoveItemInput) (int64, error)
}

var _ Reviewer = (*Service)(nil)

// Service runs review operations against the schedule store.
type Service struct {
	db       *sqlx.DB
	repo     srs.ScheduleRepository
	cfg      config.SRSConfig
	validate *validator.Validate
	trans    ut.Translator
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewService creates a new Service. db is only used to open transactions; every
// statement goes through repo.
func NewService(db *sqlx.DB, repo srs.ScheduleRepository, cfg config.SRSConfig) (*Service, error) {
	validate, trans, err := validation.New("json")
	if err != nil {
		return nil, fmt.Errorf("validation.New() > %w", err)
	}
	return &Service{
		db:       db,
		repo:     repo,
		cfg:      cfg,
		validate: validate,
		trans:    trans,
		tracer:   otel.Tracer(tracerName),
		logger:   slog.Default(),
	}, nil
}

// SubmitReview applies one review in its own transaction. Reviews of an unregistered
// item are ignored.
func (s *Service) SubmitReview(ctx context.Context, in SubmitReviewInput) (err error) {
	ctx, span := s.tracer.Start(ctx, "review.SubmitReview", trace.WithAttributes(
		attribute.String("srs.user_id", in.UserID),
		attribute.String("srs.item_id", in.ItemID),
		attribute.String("srs.item_type", in.ItemType),
		attribute.Bool("srs.correct", in.IsCorrect),
	))
	defer func() { endSpan(span, err) }()

	if err := s.validateInput(in); err != nil {
		return err
	}

	key := srs.ItemKey{UserID: in.UserID, ItemID: in.ItemID, ItemType: in.ItemType}
	if err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return s.repo.UpdateItem(ctx, tx, key, in.IsCorrect)
	}); err != nil {
		return fmt.Errorf("repo.UpdateItem(%s, %s, %s) > %w", in.UserID, in.ItemType, in.ItemID, err)
	}
	return nil
}

// ListDueItems returns the items the learner should review now, longest overdue first.
func (s *Service) ListDueItems(ctx context.Context, in ListDueItemsInput) (items []srs.DueItem, err error) {
	ctx, span := s.tracer.Start(ctx, "review.ListDueItems", trace.WithAttributes(
		attribute.String("srs.user_id", in.UserID),
		attribute.String("srs.item_type", in.ItemType),
		attribute.Int("srs.limit", in.Limit),
	))
	defer func() { endSpan(span, err) }()

	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	limit := in.Limit
	if limit == 0 {
		limit = s.cfg.DefaultDueLimit
	}
	if s.cfg.MaxDueLimit > 0 && limit > s.cfg.MaxDueLimit {
		return nil, &ValidationError{Violations: []validation.FieldViolation{{
			Field:       "limit",
			Description: fmt.Sprintf("limit must be %d or less", s.cfg.MaxDueLimit),
		}}}
	}

	items, err = s.repo.GetDueItems(ctx, in.UserID, in.ItemType, limit)
	if err != nil {
		return nil, fmt.Errorf("repo.GetDueItems(%s, %s) > %w", in.UserID, in.ItemType, err)
	}
	span.SetAttributes(attribute.Int("srs.due_count", len(items)))
	return items, nil
}

// RegisterItem creates the schedule record of an item the learner has just encountered.
// Registering an item twice keeps the existing progress.
func (s *Service) RegisterItem(ctx context.Context, in RegisterItemInput) (err error) {
	ctx, span := s.tracer.Start(ctx, "review.RegisterItem", trace.WithAttributes(
		attribute.String("srs.user_id", in.UserID),
		attribute.String("srs.item_id", in.ItemID),
		attribute.String("srs.item_type", in.ItemType),
	))
	defer func() { endSpan(span, err) }()

	if err := s.validateInput(in); err != nil {
		return err
	}

	key := srs.ItemKey{UserID: in.UserID, ItemID: in.ItemID, ItemType: in.ItemType}
	if err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return s.repo.RegisterItemIfAbsent(ctx, tx, key)
	}); err != nil {
		return fmt.Errorf("repo.RegisterItemIfAbsent(%s, %s, %s) > %w", in.UserID, in.ItemType, in.ItemID, err)
	}
	return nil
}

// GetItem returns one schedule record, or nil if the item is not registered for the user.
func (s *Service) GetItem(ctx context.Context, in GetItemInput) (record *srs.ScheduleRecord, err error) {
	ctx, span := s.tracer.Start(ctx, "review.GetItem")
	defer func() { endSpan(span, err) }()

	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	record, err = s.repo.FindItem(ctx, srs.ItemKey{UserID: in.UserID, ItemID: in.ItemID, ItemType: in.ItemType})
	if err != nil {
		return nil, fmt.Errorf("repo.FindItem(%s, %s, %s) > %w", in.UserID, in.ItemType, in.ItemID, err)
	}
	return record, nil
}

// RemoveItem handles an item deleted from its catalog according to the orphan policy.
// With the retain policy records are kept and 0 is returned; with purge the records of
// every user are deleted and their count is returned.
func (s *Service) RemoveItem(ctx context.Context, in RemoveItemInput) (deleted int64, err error) {
	ctx, span := s.tracer.Start(ctx, "review.RemoveItem", trace.WithAttributes(
		attribute.String("srs.item_id", in.ItemID),
		attribute.String("srs.item_type", in.ItemType),
		attribute.String("srs.orphan_policy", s.cfg.OrphanPolicy),
	))
	defer func() { endSpan(span, err) }()

	if err := s.validateInput(in); err != nil {
		return 0, err
	}

	if s.cfg.OrphanPolicy != config.OrphanPolicyPurge {
		s.logger.InfoContext(ctx, "Retaining schedule records of removed item",
			"item_id", in.ItemID,
			"item_type", in.ItemType)
		return 0, nil
	}

	if err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error
		deleted, err = s.repo.DeleteByItem(ctx, tx, in.ItemID, in.ItemType)
		return err
	}); err != nil {
		return 0, fmt.Errorf("repo.DeleteByItem(%s, %s) > %w", in.ItemType, in.ItemID, err)
	}
	s.logger.InfoContext(ctx, "Purged schedule records of removed item",
		"item_id", in.ItemID,
		"item_type", in.ItemType,
		"deleted", deleted)
	return deleted, nil
}

func (s *Service) validateInput(in interface{}) error {
	if err := s.validate.Struct(in); err != nil {
		if violations := validation.Violations(err, s.trans); violations != nil {
			return &ValidationError{Violations: violations}
		}
		return fmt.Errorf("validate.Struct(%T) > %w", in, err)
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
