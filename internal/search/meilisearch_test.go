package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"propchain/internal/model"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap/zaptest"
)

type mockIndex struct {
	searchFunc    func(query string, request *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error)
	addFunc       func(documents interface{}) error
	deleteAllFunc func() error
}

func (m *mockIndex) Search(query string, request *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error) {
	if m.searchFunc != nil {
		return m.searchFunc(query, request)
	}
	return &meilisearch.SearchResponse{}, nil
}

func (m *mockIndex) AddDocuments(documentsPtr interface{}, primaryKey ...string) (*meilisearch.TaskInfo, error) {
	if m.addFunc != nil {
		return &meilisearch.TaskInfo{}, m.addFunc(documentsPtr)
	}
	return &meilisearch.TaskInfo{}, nil
}

func (m *mockIndex) DeleteAllDocuments() (*meilisearch.TaskInfo, error) {
	if m.deleteAllFunc != nil {
		return &meilisearch.TaskInfo{}, m.deleteAllFunc()
	}
	return &meilisearch.TaskInfo{}, nil
}

func (m *mockIndex) UpdateSearchableAttributes(request *[]string) (*meilisearch.TaskInfo, error) {
	return &meilisearch.TaskInfo{}, nil
}

func (m *mockIndex) UpdateFilterableAttributes(request *[]string) (*meilisearch.TaskInfo, error) {
	return &meilisearch.TaskInfo{}, nil
}

func (m *mockIndex) UpdateSortableAttributes(request *[]string) (*meilisearch.TaskInfo, error) {
	return &meilisearch.TaskInfo{}, nil
}

func (m *mockIndex) UpdatePagination(request *meilisearch.Pagination) (*meilisearch.TaskInfo, error) {
	return &meilisearch.TaskInfo{}, nil
}

func TestSearch(t *testing.T) {
	zone := model.PropertyFilter{Query: "villa", Zone: "residential"}

	tests := []struct {
		name          string
		hits          []interface{}
		searchError   error
		expectedIDs   []string
		expectedError string
	}{
		{
			name: "hits_in_order",
			hits: []interface{}{
				map[string]interface{}{"id": "prop-002"},
				map[string]interface{}{"id": "prop-001"},
				map[string]interface{}{"title": "no id"},
			},
			expectedIDs: []string{"prop-002", "prop-001"},
		},
		{
			name:          "search_error",
			searchError:   errors.New("connection refused"),
			expectedError: "search request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			var gotReq *meilisearch.SearchRequest

			c := &Client{
				index: &mockIndex{
					searchFunc: func(query string, request *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error) {
						gotQuery = query
						gotReq = request
						if tt.searchError != nil {
							return nil, tt.searchError
						}
						return &meilisearch.SearchResponse{Hits: tt.hits}, nil
					},
				},
				uid:    "properties",
				logger: zaptest.NewLogger(t),
			}

			ids, err := c.Search(context.Background(), zone, 50, 100)
			if tt.expectedError != "" {
				if err == nil || !containsError(err.Error(), tt.expectedError) {
					t.Errorf("expected error containing '%s', but got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if gotQuery != "villa" {
				t.Errorf("expected query 'villa', but got '%s'", gotQuery)
			}
			if gotReq.Limit != 50 || gotReq.Offset != 100 || gotReq.Filter != `zone = "residential"` {
				t.Errorf("unexpected search request: limit %d, offset %d, filter %v", gotReq.Limit, gotReq.Offset, gotReq.Filter)
			}
			if len(ids) != len(tt.expectedIDs) {
				t.Fatalf("expected %d ids, but got %d", len(tt.expectedIDs), len(ids))
			}
			for i := range ids {
				if ids[i] != tt.expectedIDs[i] {
					t.Errorf("id %d: expected '%s', but got '%s'", i, tt.expectedIDs[i], ids[i])
				}
			}
		})
	}
}

func TestIndexProperties(t *testing.T) {
	desc := "Waterfront villa"
	props := []*model.Property{
		{ID: "prop-002", Title: "Villa", Zone: "Residential", Description: &desc, OwnerWallet: "0xABC",
			Status: model.ListingStatusPending, CreatedAt: time.Unix(1700000000, 0)},
	}

	var cleared bool
	var added []document
	c := &Client{
		index: &mockIndex{
			deleteAllFunc: func() error { cleared = true; return nil },
			addFunc: func(documents interface{}) error {
				added = documents.([]document)
				return nil
			},
		},
		logger: zaptest.NewLogger(t),
	}

	if err := c.IndexProperties(context.Background(), props); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cleared {
		t.Error("expected index to be cleared before reindex")
	}
	if len(added) != 1 {
		t.Fatalf("expected 1 document, but got %d", len(added))
	}
	d := added[0]
	if d.Zone != "residential" || d.OwnerWallet != "0xabc" || d.Description != desc || d.CreatedAt != 1700000000 {
		t.Errorf("unexpected document: %+v", d)
	}

	c.index = &mockIndex{addFunc: func(interface{}) error { return errors.New("boom") }}
	if err := c.IndexProperties(context.Background(), props); err == nil || !containsError(err.Error(), "failed to index properties") {
		t.Errorf("expected index error, but got %v", err)
	}
}

func TestIndexPropertiesEmpty(t *testing.T) {
	c := &Client{
		index: &mockIndex{addFunc: func(interface{}) error {
			t.Error("AddDocuments should not be called for empty input")
			return nil
		}},
		logger: zaptest.NewLogger(t),
	}
	if err := c.IndexProperties(context.Background(), nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// Вспомогательная функция для проверки содержания ошибки
func containsError(got, want string) bool {
	return len(got) > 0 && len(want) > 0 && (got == want ||
		(len(got) >= len(want) && got[:len(want)] == want))
}
