package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"propchain/internal/model"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

// index подмножество *meilisearch.Index, которое использует клиент
type index interface {
	Search(query string, request *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error)
	AddDocuments(documentsPtr interface{}, primaryKey ...string) (*meilisearch.TaskInfo, error)
	DeleteAllDocuments() (*meilisearch.TaskInfo, error)
	UpdateSearchableAttributes(request *[]string) (*meilisearch.TaskInfo, error)
	UpdateFilterableAttributes(request *[]string) (*meilisearch.TaskInfo, error)
	UpdateSortableAttributes(request *[]string) (*meilisearch.TaskInfo, error)
	UpdatePagination(request *meilisearch.Pagination) (*meilisearch.TaskInfo, error)
}

// MaxTotalHits сколько совпадений индекс позволяет пролистать через offset
const MaxTotalHits = 100000

type Client struct {
	client *meilisearch.Client
	index  index
	uid    string
	logger *zap.Logger
}

func NewClient(host, apiKey, uid string, logger *zap.Logger) *Client {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &Client{
		client: client,
		index:  client.Index(uid),
		uid:    uid,
		logger: logger,
	}
}

// document запись индекса. Числовые поля плоские, чтобы по ним работали фильтры
type document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Zone        string   `json:"zone"`
	Status      string   `json:"status"`
	Price       float64  `json:"price"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Amenities   []string `json:"amenities"`
	OwnerWallet string   `json:"owner_wallet"`
	CreatedAt   int64    `json:"created_at"`
}

func toDocument(p *model.Property) document {
	d := document{
		ID:          p.ID,
		Title:       p.Title,
		Location:    p.Location,
		Zone:        strings.ToLower(p.Zone),
		Status:      string(p.Status),
		Price:       p.Price,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Amenities:   p.Amenities,
		OwnerWallet: strings.ToLower(p.OwnerWallet),
		CreatedAt:   p.CreatedAt.Unix(),
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	return d
}

// InitIndex создаёт индекс и настраивает атрибуты поиска, фильтрации и сортировки
func (c *Client) InitIndex(ctx context.Context) error {
	_, err := c.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        c.uid,
		PrimaryKey: "id",
	})
	if err != nil && !strings.Contains(err.Error(), "index_already_exists") {
		return fmt.Errorf("failed to create search index: %w", err)
	}

	if _, err := c.index.UpdateSearchableAttributes(&[]string{"title", "location", "description", "amenities"}); err != nil {
		return fmt.Errorf("failed to update searchable attributes: %w", err)
	}
	if _, err := c.index.UpdateFilterableAttributes(&[]string{"zone", "status", "price", "bedrooms", "bathrooms", "owner_wallet"}); err != nil {
		return fmt.Errorf("failed to update filterable attributes: %w", err)
	}
	if _, err := c.index.UpdateSortableAttributes(&[]string{"created_at", "price"}); err != nil {
		return fmt.Errorf("failed to update sortable attributes: %w", err)
	}
	// по умолчанию meilisearch не отдаёт совпадения дальше 1000-го
	if _, err := c.index.UpdatePagination(&meilisearch.Pagination{MaxTotalHits: MaxTotalHits}); err != nil {
		return fmt.Errorf("failed to update pagination settings: %w", err)
	}

	c.logger.Info("search index initialized", zap.String("index", c.uid))
	return nil
}

// IndexProperties полностью перезаливает документы индекса
func (c *Client) IndexProperties(ctx context.Context, properties []*model.Property) error {
	if _, err := c.index.DeleteAllDocuments(); err != nil {
		return fmt.Errorf("failed to clear search index: %w", err)
	}
	if len(properties) == 0 {
		return nil
	}

	docs := make([]document, 0, len(properties))
	for _, p := range properties {
		docs = append(docs, toDocument(p))
	}
	if _, err := c.index.AddDocuments(docs, "id"); err != nil {
		c.logger.Error("failed to index properties", zap.Error(err), zap.Int("count", len(docs)))
		return fmt.Errorf("failed to index properties: %w", err)
	}

	c.logger.Info("properties indexed", zap.Int("count", len(docs)))
	return nil
}

// Search возвращает id подходящих объектов в порядке релевантности.
// Фильтры по цене, зоне и т.п. выполняются самим индексом, кроме подстроки location
func (c *Client) Search(ctx context.Context, filter model.PropertyFilter, limit, offset int64) ([]string, error) {
	req := &meilisearch.SearchRequest{
		Limit:                limit,
		Offset:               offset,
		AttributesToRetrieve: []string{"id"},
	}
	if f := BuildFilter(filter); f != "" {
		req.Filter = f
	}

	res, err := c.index.Search(filter.Query, req)
	if err != nil {
		c.logger.Error("search request failed", zap.Error(err), zap.String("query", filter.Query))
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil || doc.ID == "" {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}
