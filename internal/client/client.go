// Package client calls a remote srs-server. Review procedures go through the Connect
// protocol with the plain JSON codec; the health check is a plain HTTP GET.
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/langner-srs/internal/api/srsv1"
	"github.com/at-ishikawa/langner-srs/internal/review"
	"github.com/at-ishikawa/langner-srs/internal/srs"
	"github.com/at-ishikawa/langner-srs/internal/validation"
)

const (
	defaultTimeout  = 10 * time.Second
	requestIDHeader = "X-Request-Id"
)

// Client implements review.Reviewer against a remote srs-server.
type Client struct {
	submitReview *connect.Client[srsv1.SubmitReviewRequest, srsv1.SubmitReviewResponse]
	listDueItems *connect.Client[srsv1.ListDueItemsRequest, srsv1.ListDueItemsResponse]
	registerItem *connect.Client[srsv1.RegisterItemRequest, srsv1.RegisterItemResponse]
	getItem      *connect.Client[srsv1.GetItemRequest, srsv1.GetItemResponse]
	removeItem   *connect.Client[srsv1.RemoveItemRequest, srsv1.RemoveItemResponse]

	rest *resty.Client
}

var _ review.Reviewer = (*Client)(nil)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient sends requests through hc, for example an httptest server client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// New creates a new Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	o := options{
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	hc := *o.httpClient
	hc.Timeout = o.timeout

	baseURL = strings.TrimSuffix(baseURL, "/")
	clientOpts := []connect.ClientOption{
		connect.WithCodec(srsv1.Codec{}),
		connect.WithInterceptors(requestIDInterceptor()),
	}
	return &Client{
		submitReview: connect.NewClient[srsv1.SubmitReviewRequest, srsv1.SubmitReviewResponse](&hc, baseURL+srsv1.SubmitReviewProcedure, clientOpts...),
		listDueItems: connect.NewClient[srsv1.ListDueItemsRequest, srsv1.ListDueItemsResponse](&hc, baseURL+srsv1.ListDueItemsProcedure, clientOpts...),
		registerItem: connect.NewClient[srsv1.RegisterItemRequest, srsv1.RegisterItemResponse](&hc, baseURL+srsv1.RegisterItemProcedure, clientOpts...),
		getItem:      connect.NewClient[srsv1.GetItemRequest, srsv1.GetItemResponse](&hc, baseURL+srsv1.GetItemProcedure, clientOpts...),
		removeItem:   connect.NewClient[srsv1.RemoveItemRequest, srsv1.RemoveItemResponse](&hc, baseURL+srsv1.RemoveItemProcedure, clientOpts...),
		rest:         resty.NewWithClient(&hc).SetBaseURL(baseURL),
	}
}

// requestIDInterceptor tags every call so that server logs can be correlated.
func requestIDInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient && req.Header().Get(requestIDHeader) == "" {
				req.Header().Set(requestIDHeader, uuid.NewString())
			}
			return next(ctx, req)
		}
	}
}

func (c *Client) SubmitReview(ctx context.Context, in review.SubmitReviewInput) error {
	_, err := c.submitReview.CallUnary(ctx, connect.NewRequest(&srsv1.SubmitReviewRequest{
		UserID:    in.UserID,
		ItemID:    in.ItemID,
		ItemType:  in.ItemType,
		IsCorrect: in.IsCorrect,
	}))
	return toError(srsv1.SubmitReviewProcedure, err)
}

func (c *Client) ListDueItems(ctx context.Context, in review.ListDueItemsInput) ([]srs.DueItem, error) {
	res, err := c.listDueItems.CallUnary(ctx, connect.NewRequest(&srsv1.ListDueItemsRequest{
		UserID:   in.UserID,
		ItemType: in.ItemType,
		Limit:    int32(in.Limit),
	}))
	if err != nil {
		return nil, toError(srsv1.ListDueItemsProcedure, err)
	}

	items := make([]srs.DueItem, 0, len(res.Msg.Items))
	for _, item := range res.Msg.Items {
		items = append(items, srs.DueItem{
			UserID:       item.UserID,
			ItemID:       item.ItemID,
			ItemType:     item.ItemType,
			NextReviewAt: item.NextReviewAt,
		})
	}
	return items, nil
}

func (c *Client) RegisterItem(ctx context.Context, in review.RegisterItemInput) error {
	_, err := c.registerItem.CallUnary(ctx, connect.NewRequest(&srsv1.RegisterItemRequest{
		UserID:   in.UserID,
		ItemID:   in.ItemID,
		ItemType: in.ItemType,
	}))
	return toError(srsv1.RegisterItemProcedure, err)
}

func (c *Client) GetItem(ctx context.Context, in review.GetItemInput) (*srs.ScheduleRecord, error) {
	res, err := c.getItem.CallUnary(ctx, connect.NewRequest(&srsv1.GetItemRequest{
		UserID:   in.UserID,
		ItemID:   in.ItemID,
		ItemType: in.ItemType,
	}))
	if err != nil {
		return nil, toError(srsv1.GetItemProcedure, err)
	}
	if res.Msg.Item == nil {
		return nil, nil
	}

	item := res.Msg.Item
	record := &srs.ScheduleRecord{
		UserID:         item.UserID,
		ItemID:         item.ItemID,
		ItemType:       item.ItemType,
		LastReviewedAt: item.LastReviewedAt,
		NextReviewAt:   item.NextReviewAt,
		EaseFactor:     item.EaseFactor,
	}
	if item.LastReviewedAt != nil {
		record.CurrentInterval = sql.NullString{String: srs.FormatDaysToInterval(item.IntervalDays), Valid: true}
	}
	return record, nil
}

func (c *Client) RemoveItem(ctx context.Context, in review.RemoveItemInput) (int64, error) {
	res, err := c.removeItem.CallUnary(ctx, connect.NewRequest(&srsv1.RemoveItemRequest{
		ItemID:   in.ItemID,
		ItemType: in.ItemType,
	}))
	if err != nil {
		return 0, toError(srsv1.RemoveItemProcedure, err)
	}
	return res.Msg.Deleted, nil
}

// Health reads the server's health check. An unhealthy server still returns its
// status body together with an error.
func (c *Client) Health(ctx context.Context) (*srsv1.Health, error) {
	var health srsv1.Health
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString()).
		SetResult(&health).
		SetError(&health).
		Get(srsv1.HealthPath)
	if err != nil {
		return nil, fmt.Errorf("client.R.Get(%s) > %w", srsv1.HealthPath, err)
	}
	if resp.IsError() {
		return &health, fmt.Errorf("srs-server is unhealthy: %s", resp.Status())
	}
	return &health, nil
}

// toError converts a Connect error. Invalid arguments with field violations become a
// *review.ValidationError so that callers handle local and remote input errors alike.
func toError(procedure string, err error) error {
	if err == nil {
		return nil
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) && connectErr.Code() == connect.CodeInvalidArgument {
		if violations := fieldViolations(connectErr); len(violations) > 0 {
			return &review.ValidationError{Violations: violations}
		}
	}
	return fmt.Errorf("client.CallUnary(%s) > %w", procedure, err)
}

func fieldViolations(connectErr *connect.Error) []validation.FieldViolation {
	var violations []validation.FieldViolation
	for _, detail := range connectErr.Details() {
		value, err := detail.Value()
		if err != nil {
			continue
		}
		badRequest, ok := value.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		for _, v := range badRequest.GetFieldViolations() {
			violations = append(violations, validation.FieldViolation{
				Field:       v.GetField(),
				Description: v.GetDescription(),
			})
		}
	}
	return violations
}
