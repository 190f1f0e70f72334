package datasync

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_review "github.com/at-ishikawa/langner-srs/internal/mocks/review"
	mock_srs "github.com/at-ishikawa/langner-srs/internal/mocks/srs"
	"github.com/at-ishikawa/langner-srs/internal/review"
	"github.com/at-ishikawa/langner-srs/internal/srs"
)

func TestReadCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Catalog
		wantErr bool
	}{
		{
			name: "catalogs of several users",
			content: `- user_id: user-1
  item_type: vocabulary
  item_ids: [break the ice, lose one's temper]
- user_id: user-2
  item_type: grammar
  item_ids:
    - present perfect
`,
			want: []Catalog{
				{UserID: "user-1", ItemType: "vocabulary", ItemIDs: []string{"break the ice", "lose one's temper"}},
				{UserID: "user-2", ItemType: "grammar", ItemIDs: []string{"present perfect"}},
			},
		},
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
		{
			name:    "unknown field",
			content: "- user_id: user-1\n  items: [a]\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalogs.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := ReadCatalogs(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadCatalogs(filepath.Join(t.TempDir(), "missing.yml"))
		assert.Error(t, err)
	})
}

func TestImporter_ImportCatalogs(t *testing.T) {
	catalogs := []Catalog{
		{UserID: "user-1", ItemType: "vocabulary", ItemIDs: []string{"word-1", "word-2"}},
	}
	existing := &srs.ScheduleRecord{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary", EaseFactor: 2.6}

	tests := []struct {
		name       string
		opts       ImportOptions
		setup      func(reviewer *mock_review.MockReviewer)
		want       *ImportResult
		wantOutput string
	}{
		{
			name: "new items are registered and existing ones skipped",
			setup: func(reviewer *mock_review.MockReviewer) {
				reviewer.EXPECT().GetItem(gomock.Any(), review.GetItemInput{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary"}).
					Return(existing, nil)
				reviewer.EXPECT().GetItem(gomock.Any(), review.GetItemInput{UserID: "user-1", ItemID: "word-2", ItemType: "vocabulary"}).
					Return(nil, nil)
				reviewer.EXPECT().RegisterItem(gomock.Any(), review.RegisterItemInput{UserID: "user-1", ItemID: "word-2", ItemType: "vocabulary"}).
					Return(nil)
			},
			want:       &ImportResult{ItemsNew: 1, ItemsSkipped: 1},
			wantOutput: "  [SKIP]  user-1 vocabulary/word-1\n  [NEW]  user-1 vocabulary/word-2\n",
		},
		{
			name: "dry run registers nothing",
			opts: ImportOptions{DryRun: true},
			setup: func(reviewer *mock_review.MockReviewer) {
				reviewer.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
			},
			want:       &ImportResult{ItemsNew: 2},
			wantOutput: "  [NEW]  user-1 vocabulary/word-1\n  [NEW]  user-1 vocabulary/word-2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reviewer := mock_review.NewMockReviewer(ctrl)
			tt.setup(reviewer)

			var buf bytes.Buffer
			got, err := NewImporter(reviewer, &buf).ImportCatalogs(context.Background(), catalogs, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOutput, buf.String())
		})
	}
}

func TestImporter_ImportCatalogs_Errors(t *testing.T) {
	catalogs := []Catalog{{UserID: "user-1", ItemType: "vocabulary", ItemIDs: []string{"word-1"}}}

	tests := []struct {
		name    string
		setup   func(reviewer *mock_review.MockReviewer)
		wantErr string
	}{
		{
			name: "lookup fails",
			setup: func(reviewer *mock_review.MockReviewer) {
				reviewer.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
			},
			wantErr: "GetItem(user-1, vocabulary, word-1) > connection refused",
		},
		{
			name: "registration fails",
			setup: func(reviewer *mock_review.MockReviewer) {
				reviewer.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(nil, nil)
				reviewer.EXPECT().RegisterItem(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantErr: "RegisterItem(user-1, vocabulary, word-1) > disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reviewer := mock_review.NewMockReviewer(ctrl)
			tt.setup(reviewer)

			_, err := NewImporter(reviewer, &bytes.Buffer{}).ImportCatalogs(context.Background(), catalogs, ImportOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExporter_Export(t *testing.T) {
	next := time.Date(2025, 1, 18, 10, 0, 0, 0, time.UTC)
	records := []srs.ScheduleRecord{
		{UserID: "user-1", ItemID: "word-1", ItemType: "vocabulary", NextReviewAt: next, EaseFactor: 2.5},
	}

	t.Run("records of the user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_srs.NewMockScheduleRepository(ctrl)
		repo.EXPECT().FindByUser(gomock.Any(), "user-1", "vocabulary").Return(records, nil)

		got, err := NewExporter(repo).Export(context.Background(), "user-1", "vocabulary")
		require.NoError(t, err)
		assert.Equal(t, records, got)
	})

	t.Run("store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_srs.NewMockScheduleRepository(ctrl)
		repo.EXPECT().FindByUser(gomock.Any(), "user-1", "").Return(nil, errors.New("timeout"))

		_, err := NewExporter(repo).Export(context.Background(), "user-1", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "repo.FindByUser(user-1) > timeout")
	})
}
