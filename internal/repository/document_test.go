package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap/zaptest"
)

func TestGetContentByHash(t *testing.T) {
	tests := []struct {
		name          string
		hash          string
		mockData      string
		mockError     error
		expectedData  string
		expectedError string
		notFound      bool
	}{
		{
			name:         "successful_get",
			hash:         "abc123",
			mockData:     `{"registry": "lands bureau"}`,
			expectedData: `{"registry": "lands bureau"}`,
		},
		{
			name:          "data_not_found",
			hash:          "nonexistent",
			mockError:     pgx.ErrNoRows,
			expectedError: "data not found in cache for hash nonexistent",
			notFound:      true,
		},
		{
			name:          "database_error",
			hash:          "error_hash",
			mockError:     errors.New("database connection failed"),
			expectedError: "failed to read document cache for hash error_hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var queriedHash any
			db := &mockDB{
				queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
					queriedHash = args[0]
					if tt.mockError != nil {
						return &mockRow{scanFunc: func(dest ...any) error { return tt.mockError }}
					}
					return rowOf("cache-1", tt.hash, tt.mockData, time.Now())
				},
			}

			repo := NewDocumentRepository(db, zaptest.NewLogger(t))
			data, err := repo.GetContentByHash(context.Background(), tt.hash)

			if queriedHash != tt.hash {
				t.Errorf("expected query by hash '%s', but got '%v'", tt.hash, queriedHash)
			}

			if tt.expectedError != "" {
				if err == nil {
					t.Fatalf("expected error containing '%s', but got nil", tt.expectedError)
				}
				if !containsError(err.Error(), tt.expectedError) {
					t.Errorf("expected error containing '%s', but got '%s'", tt.expectedError, err.Error())
				}
				if errors.Is(err, ErrContentNotFound) != tt.notFound {
					t.Errorf("expected ErrContentNotFound=%t, but got %v", tt.notFound, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if data != tt.expectedData {
				t.Errorf("expected data '%s', but got '%s'", tt.expectedData, data)
			}
		})
	}
}

func TestListDocumentsByProperty(t *testing.T) {
	uploaded := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	db := &mockDB{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			if args[0] != "prop-002" {
				t.Errorf("unexpected property id %v", args[0])
			}
			return &mockRows{data: [][]any{
				{"doc-001", "prop-002", "Certificate of Occupancy", "title_deed", "hash-1", uploaded},
				{"doc-002", "prop-002", "Survey Plan", "survey", "hash-2", uploaded.Add(time.Minute)},
			}}, nil
		},
	}

	repo := NewDocumentRepository(db, zaptest.NewLogger(t))
	docs, err := repo.ListByProperty(context.Background(), "prop-002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, but got %d", len(docs))
	}
	if docs[0].URL != "/api/documents/hash-1" {
		t.Errorf("expected content url for hash-1, but got '%s'", docs[0].URL)
	}
	if docs[1].Kind != "survey" {
		t.Errorf("expected kind 'survey', but got '%s'", docs[1].Kind)
	}
}
