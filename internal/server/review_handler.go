// Package server provides Connect RPC handlers for the review service.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/langner-srs/internal/api/srsv1"
	"github.com/at-ishikawa/langner-srs/internal/review"
)

// ReviewHandler implements srs.v1.ReviewService.
type ReviewHandler struct {
	reviewer review.Reviewer
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewer review.Reviewer) *ReviewHandler {
	return &ReviewHandler{reviewer: reviewer}
}

// Handlers returns the Connect handler of every procedure keyed by its path.
func (h *ReviewHandler) Handlers(opts ...connect.HandlerOption) map[string]http.Handler {
	opts = append([]connect.HandlerOption{connect.WithCodec(srsv1.Codec{})}, opts...)
	return map[string]http.Handler{
		srsv1.SubmitReviewProcedure: connect.NewUnaryHandler(srsv1.SubmitReviewProcedure, h.SubmitReview, opts...),
		srsv1.ListDueItemsProcedure: connect.NewUnaryHandler(srsv1.ListDueItemsProcedure, h.ListDueItems, opts...),
		srsv1.RegisterItemProcedure: connect.NewUnaryHandler(srsv1.RegisterItemProcedure, h.RegisterItem, opts...),
		srsv1.GetItemProcedure:      connect.NewUnaryHandler(srsv1.GetItemProcedure, h.GetItem, opts...),
		srsv1.RemoveItemProcedure:   connect.NewUnaryHandler(srsv1.RemoveItemProcedure, h.RemoveItem, opts...),
	}
}

// SubmitReview records one answer of a learner.
func (h *ReviewHandler) SubmitReview(
	ctx context.Context,
	req *connect.Request[srsv1.SubmitReviewRequest],
) (*connect.Response[srsv1.SubmitReviewResponse], error) {
	if err := h.reviewer.SubmitReview(ctx, review.SubmitReviewInput{
		UserID:    req.Msg.UserID,
		ItemID:    req.Msg.ItemID,
		ItemType:  req.Msg.ItemType,
		IsCorrect: req.Msg.IsCorrect,
	}); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&srsv1.SubmitReviewResponse{}), nil
}

// ListDueItems returns the items a learner should review now.
func (h *ReviewHandler) ListDueItems(
	ctx context.Context,
	req *connect.Request[srsv1.ListDueItemsRequest],
) (*connect.Response[srsv1.ListDueItemsResponse], error) {
	items, err := h.reviewer.ListDueItems(ctx, review.ListDueItemsInput{
		UserID:   req.Msg.UserID,
		ItemType: req.Msg.ItemType,
		Limit:    int(req.Msg.Limit),
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	res := &srsv1.ListDueItemsResponse{Items: make([]srsv1.DueItem, 0, len(items))}
	for _, item := range items {
		res.Items = append(res.Items, srsv1.DueItem{
			UserID:       item.UserID,
			ItemID:       item.ItemID,
			ItemType:     item.ItemType,
			NextReviewAt: item.NextReviewAt,
		})
	}
	return connect.NewResponse(res), nil
}

// RegisterItem registers an item for a learner unless it is already registered.
func (h *ReviewHandler) RegisterItem(
	ctx context.Context,
	req *connect.Request[srsv1.RegisterItemRequest],
) (*connect.Response[srsv1.RegisterItemResponse], error) {
	if err := h.reviewer.RegisterItem(ctx, review.RegisterItemInput{
		UserID:   req.Msg.UserID,
		ItemID:   req.Msg.ItemID,
		ItemType: req.Msg.ItemType,
	}); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&srsv1.RegisterItemResponse{}), nil
}

// GetItem returns the schedule state of one item.
func (h *ReviewHandler) GetItem(
	ctx context.Context,
	req *connect.Request[srsv1.GetItemRequest],
) (*connect.Response[srsv1.GetItemResponse], error) {
	record, err := h.reviewer.GetItem(ctx, review.GetItemInput{
		UserID:   req.Msg.UserID,
		ItemID:   req.Msg.ItemID,
		ItemType: req.Msg.ItemType,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	res := &srsv1.GetItemResponse{}
	if record != nil {
		res.Item = &srsv1.ScheduleItem{
			UserID:         record.UserID,
			ItemID:         record.ItemID,
			ItemType:       record.ItemType,
			LastReviewedAt: record.LastReviewedAt,
			NextReviewAt:   record.NextReviewAt,
			IntervalDays:   record.IntervalDays(),
			EaseFactor:     record.EaseFactor,
		}
	}
	return connect.NewResponse(res), nil
}

// RemoveItem applies the orphan policy to an item removed from its catalog.
func (h *ReviewHandler) RemoveItem(
	ctx context.Context,
	req *connect.Request[srsv1.RemoveItemRequest],
) (*connect.Response[srsv1.RemoveItemResponse], error) {
	deleted, err := h.reviewer.RemoveItem(ctx, review.RemoveItemInput{
		ItemID:   req.Msg.ItemID,
		ItemType: req.Msg.ItemType,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&srsv1.RemoveItemResponse{Deleted: deleted}), nil
}

func toConnectError(ctx context.Context, err error) *connect.Error {
	var validationErr *review.ValidationError
	switch {
	case errors.As(err, &validationErr):
		connectErr := connect.NewError(connect.CodeInvalidArgument, err)
		var fieldViolations []*errdetails.BadRequest_FieldViolation
		for _, v := range validationErr.Violations {
			fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.Field,
				Description: v.Description,
			})
		}
		if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
			FieldViolations: fieldViolations,
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		slog.Default().ErrorContext(ctx, "Review request failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}
