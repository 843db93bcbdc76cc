package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"propchain/internal/model"
	"propchain/internal/pagination"
	"propchain/internal/repository"

	"go.uber.org/zap"
)

const (
	// searchBatch размер одного запроса к поисковому индексу
	searchBatch = 1000
	// maxSearchHits совпадает с search.MaxTotalHits
	maxSearchHits = 100000
)

// Searcher полнотекстовый поиск; возвращает id подходящих объектов
type Searcher interface {
	Search(ctx context.Context, filter model.PropertyFilter, limit, offset int64) ([]string, error)
}

type ListingService interface {
	GetProperty(ctx context.Context, id string) (*model.Property, error)
	ListProperties(ctx context.Context, filter model.PropertyFilter, page pagination.Request) (*Page[*model.Property], error)
}

type listingService struct {
	properties repository.PropertyRepository
	searcher   Searcher
	logger     *zap.Logger
}

// NewListingService searcher может быть nil, тогда q ищется подстрокой в хранилище
func NewListingService(properties repository.PropertyRepository, searcher Searcher, logger *zap.Logger) ListingService {
	return &listingService{
		properties: properties,
		searcher:   searcher,
		logger:     logger,
	}
}

func (s *listingService) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: property id cannot be empty", ErrInvalidArgument)
	}

	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get property from repository", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: property %s", ErrNotFound, id)
	}
	return property, nil
}

func validateFilter(f model.PropertyFilter) error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("%w: min price must be non-negative", ErrInvalidArgument)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("%w: max price must be non-negative", ErrInvalidArgument)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("%w: min price %.2f is greater than max price %.2f", ErrInvalidArgument, *f.MinPrice, *f.MaxPrice)
	}
	if f.MinBedrooms != nil && *f.MinBedrooms < 0 {
		return fmt.Errorf("%w: bedrooms must be non-negative", ErrInvalidArgument)
	}
	if f.MinBathrooms != nil && *f.MinBathrooms < 0 {
		return fmt.Errorf("%w: bathrooms must be non-negative", ErrInvalidArgument)
	}
	if f.Status != nil && !f.Status.IsValid() {
		return fmt.Errorf("%w: unknown listing status %q", ErrInvalidArgument, *f.Status)
	}
	return nil
}

func (s *listingService) ListProperties(ctx context.Context, filter model.PropertyFilter, page pagination.Request) (*Page[*model.Property], error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	if filter.Query != "" && s.searcher != nil {
		result, err := s.searchProperties(ctx, filter, page)
		if err == nil {
			return result, nil
		}
		s.logger.Warn("search index unavailable, falling back to storage", zap.Error(err), zap.String("query", filter.Query))
	}

	result, err := fetchPage(ctx, page, func(ctx context.Context, limit, offset int) ([]*model.Property, int64, error) {
		return s.properties.List(ctx, filter, limit, offset)
	})
	if err != nil {
		s.logger.Error("failed to list properties", zap.Error(err))
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return result, nil
}

// searchAll выбирает все совпадения индекса пачками по searchBatch
func (s *listingService) searchAll(ctx context.Context, filter model.PropertyFilter) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	for offset := int64(0); offset < maxSearchHits; offset += searchBatch {
		batch, err := s.searcher.Search(ctx, filter, searchBatch, offset)
		if err != nil {
			return nil, err
		}
		for _, id := range batch {
			// индекс мог измениться между запросами
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if len(batch) < searchBatch {
			return ids, nil
		}
	}
	s.logger.Warn("search results truncated", zap.Int("max_hits", maxSearchHits), zap.String("query", filter.Query))
	return ids, nil
}

// searchProperties: индекс отдаёт кандидатов, записи берутся из хранилища,
// порядок такой же, как у хранилища
func (s *listingService) searchProperties(ctx context.Context, filter model.PropertyFilter, page pagination.Request) (*Page[*model.Property], error) {
	ids, err := s.searchAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	// запрос уже применён индексом, остальные условия проверяются по актуальной записи
	recheck := filter
	recheck.Query = ""

	matched := make([]*model.Property, 0, len(ids))
	for _, id := range ids {
		p, err := s.properties.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		// индекс может отставать от хранилища
		if p == nil {
			continue
		}
		if !repository.MatchProperty(p, recheck) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	data, meta := pagination.Slice(matched, page)
	return &Page[*model.Property]{Data: data, Meta: meta}, nil
}
