package review

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/langner-srs/internal/config"
	mock_srs "github.com/at-ishikawa/langner-srs/internal/mocks/srs"
	"github.com/at-ishikawa/langner-srs/internal/srs"
)

func defaultSRSConfig() config.SRSConfig {
	return config.SRSConfig{
		DefaultEaseFactor: 2.5,
		DefaultDueLimit:   20,
		MaxDueLimit:       500,
		OrphanPolicy:      config.OrphanPolicyRetain,
	}
}

func newTestService(t *testing.T, cfg config.SRSConfig) (*Service, *mock_srs.MockScheduleRepository, sqlmock.Sqlmock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_srs.NewMockScheduleRepository(ctrl)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	svc, err := NewService(sqlx.NewDb(db, "mysql"), repo, cfg)
	require.NoError(t, err)
	return svc, repo, mock
}

func TestService_SubmitReview(t *testing.T) {
	key := srs.ItemKey{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"}

	tests := []struct {
		name    string
		input   SubmitReviewInput
		setup   func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock)
		wantErr string
		invalid bool
	}{
		{
			name:  "correct review commits",
			input: SubmitReviewInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary", IsCorrect: true},
			setup: func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				repo.EXPECT().UpdateItem(gomock.Any(), gomock.Not(gomock.Nil()), key, true).Return(nil)
				mock.ExpectCommit()
			},
		},
		{
			name:  "incorrect review commits",
			input: SubmitReviewInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"},
			setup: func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any(), key, false).Return(nil)
				mock.ExpectCommit()
			},
		},
		{
			name:  "storage failure rolls back",
			input: SubmitReviewInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary", IsCorrect: true},
			setup: func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any(), key, true).
					Return(fmt.Errorf("lock wait timeout exceeded"))
				mock.ExpectRollback()
			},
			wantErr: "lock wait timeout exceeded",
		},
		{
			name:  "begin failure",
			input: SubmitReviewInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary", IsCorrect: true},
			setup: func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: "repo.UpdateItem(user-1, vocabulary, word-1) > db.BeginTxx() > connection refused",
		},
		{
			name:    "missing user id",
			input:   SubmitReviewInput{ItemID: "word-1", ItemType: "vocabulary"},
			setup:   func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {},
			wantErr: "user_id is a required field",
			invalid: true,
		},
		{
			name:    "blank item type",
			input:   SubmitReviewInput{UserID: "user-1", ItemID: "word-1", ItemType: "   "},
			setup:   func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {},
			wantErr: "item_type must not be blank",
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, mock := newTestService(t, defaultSRSConfig())
			tt.setup(repo, mock)

			err := svc.SubmitReview(context.Background(), tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var validationErr *ValidationError
			assert.Equal(t, tt.invalid, errors.As(err, &validationErr))
		})
	}
}

func TestService_ListDueItems(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	items := []srs.DueItem{
		{UserID: "user-1", ItemID: "word-2", ItemType: "vocabulary", NextReviewAt: now.Add(-time.Hour)},
		{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary", NextReviewAt: now},
	}

	tests := []struct {
		name    string
		input   ListDueItemsInput
		setup   func(repo *mock_srs.MockScheduleRepository)
		want    []srs.DueItem
		wantErr string
	}{
		{
			name:  "explicit limit",
			input: ListDueItemsInput{UserID: "user-1", ItemType: "vocabulary", Limit: 2},
			setup: func(repo *mock_srs.MockScheduleRepository) {
				repo.EXPECT().GetDueItems(gomock.Any(), "user-1", "vocabulary", 2).Return(items, nil)
			},
			want: items,
		},
		{
			name:  "zero limit uses the default",
			input: ListDueItemsInput{UserID: "user-1", ItemType: "vocabulary"},
			setup: func(repo *mock_srs.MockScheduleRepository) {
				repo.EXPECT().GetDueItems(gomock.Any(), "user-1", "vocabulary", 20).Return([]srs.DueItem{}, nil)
			},
			want: []srs.DueItem{},
		},
		{
			name:    "negative limit",
			input:   ListDueItemsInput{UserID: "user-1", ItemType: "vocabulary", Limit: -1},
			setup:   func(repo *mock_srs.MockScheduleRepository) {},
			wantErr: "limit must be 0 or greater",
		},
		{
			name:    "limit above the maximum",
			input:   ListDueItemsInput{UserID: "user-1", ItemType: "vocabulary", Limit: 501},
			setup:   func(repo *mock_srs.MockScheduleRepository) {},
			wantErr: "limit must be 500 or less",
		},
		{
			name:  "storage failure",
			input: ListDueItemsInput{UserID: "user-1", ItemType: "vocabulary", Limit: 5},
			setup: func(repo *mock_srs.MockScheduleRepository) {
				repo.EXPECT().GetDueItems(gomock.Any(), "user-1", "vocabulary", 5).
					Return(nil, fmt.Errorf("connection refused"))
			},
			wantErr: "repo.GetDueItems(user-1, vocabulary) > connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t, defaultSRSConfig())
			tt.setup(repo)

			got, err := svc.ListDueItems(context.Background(), tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_RegisterItem(t *testing.T) {
	key := srs.ItemKey{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"}

	tests := []struct {
		name    string
		input   RegisterItemInput
		setup   func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock)
		wantErr string
	}{
		{
			name:  "registers in a transaction",
			input: RegisterItemInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"},
			setup: func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				repo.EXPECT().RegisterItemIfAbsent(gomock.Any(), gomock.Not(gomock.Nil()), key).Return(nil)
				mock.ExpectCommit()
			},
		},
		{
			name:  "storage failure rolls back",
			input: RegisterItemInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"},
			setup: func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				repo.EXPECT().RegisterItemIfAbsent(gomock.Any(), gomock.Any(), key).Return(fmt.Errorf("duplicate entry"))
				mock.ExpectRollback()
			},
			wantErr: "duplicate entry",
		},
		{
			name:    "item id too long",
			input:   RegisterItemInput{UserID: "user-1", ItemID: string(make([]byte, 129)), ItemType: "vocabulary"},
			setup:   func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {},
			wantErr: "item_id must be a maximum of 128 characters in length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, mock := newTestService(t, defaultSRSConfig())
			tt.setup(repo, mock)

			err := svc.RegisterItem(context.Background(), tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestService_GetItem(t *testing.T) {
	key := srs.ItemKey{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"}
	record := &srs.ScheduleRecord{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary", EaseFactor: 2.5}

	t.Run("found", func(t *testing.T) {
		svc, repo, _ := newTestService(t, defaultSRSConfig())
		repo.EXPECT().FindItem(gomock.Any(), key).Return(record, nil)

		got, err := svc.GetItem(context.Background(), GetItemInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"})
		require.NoError(t, err)
		assert.Equal(t, record, got)
	})

	t.Run("not registered", func(t *testing.T) {
		svc, repo, _ := newTestService(t, defaultSRSConfig())
		repo.EXPECT().FindItem(gomock.Any(), key).Return(nil, nil)

		got, err := svc.GetItem(context.Background(), GetItemInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"})
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestService_RemoveItem(t *testing.T) {
	tests := []struct {
		name        string
		policy      string
		setup       func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock)
		wantDeleted int64
		wantErr     bool
	}{
		{
			name:        "retain keeps records",
			policy:      config.OrphanPolicyRetain,
			setup:       func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {},
			wantDeleted: 0,
		},
		{
			name:   "purge deletes records of every user",
			policy: config.OrphanPolicyPurge,
			setup: func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				repo.EXPECT().DeleteByItem(gomock.Any(), gomock.Any(), "word-1", "vocabulary").Return(int64(3), nil)
				mock.ExpectCommit()
			},
			wantDeleted: 3,
		},
		{
			name:   "purge failure rolls back",
			policy: config.OrphanPolicyPurge,
			setup: func(repo *mock_srs.MockScheduleRepository, mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				repo.EXPECT().DeleteByItem(gomock.Any(), gomock.Any(), "word-1", "vocabulary").
					Return(int64(0), fmt.Errorf("connection refused"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultSRSConfig()
			cfg.OrphanPolicy = tt.policy
			svc, repo, mock := newTestService(t, cfg)
			tt.setup(repo, mock)

			got, err := svc.RemoveItem(context.Background(), RemoveItemInput{ItemID: "word-1", ItemType: "vocabulary"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, got)
		})
	}
}

func TestService_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	svc, repo, mock := newTestService(t, defaultSRSConfig())
	key := srs.ItemKey{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"}

	mock.ExpectBegin()
	repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any(), key, true).Return(fmt.Errorf("connection refused"))
	mock.ExpectRollback()

	err := svc.SubmitReview(context.Background(), SubmitReviewInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary", IsCorrect: true})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "review.SubmitReview", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestValidationError_Error(t *testing.T) {
	svc, _, _ := newTestService(t, defaultSRSConfig())

	err := svc.RegisterItem(context.Background(), RegisterItemInput{})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Violations, 3)
	assert.Equal(t, "user_id", validationErr.Violations[0].Field)
	assert.Equal(t, "invalid request: user_id is a required field; item_id is a required field; item_type is a required field", err.Error())
}
