package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"propchain/internal/model"

	"go.uber.org/zap"
)

// Memory in-memory провайдер данных. Возвращает копии записей,
// так что вызывающий код не может изменить состояние хранилища в обход методов.
type Memory struct {
	mu            sync.RWMutex
	properties    map[string]*model.Property
	pending       map[string]*model.PendingVerification
	history       []*model.VerificationHistoryItem
	transactions  []*model.Transaction
	alerts        []*model.Alert
	announcements []*model.Announcement
	documents     []*model.Document
	contents      map[string]string
	logger        *zap.Logger
}

func NewMemory(data *SeedData, logger *zap.Logger) *Memory {
	m := &Memory{
		properties: make(map[string]*model.Property),
		pending:    make(map[string]*model.PendingVerification),
		contents:   make(map[string]string),
		logger:     logger,
	}
	if data == nil {
		return m
	}

	for _, p := range data.Properties {
		m.properties[p.ID] = p
	}
	for _, p := range data.Pending {
		m.pending[p.ID] = p
	}
	m.history = append(m.history, data.History...)
	m.transactions = append(m.transactions, data.Transactions...)
	m.alerts = append(m.alerts, data.Alerts...)
	m.announcements = append(m.announcements, data.Announcements...)
	m.documents = append(m.documents, data.Documents...)
	for hash, content := range data.Contents {
		m.contents[hash] = content
	}

	logger.Info("memory store seeded",
		zap.Int("properties", len(m.properties)),
		zap.Int("pending", len(m.pending)),
		zap.Int("history", len(m.history)))
	return m
}

// Repositories раскладывает хранилище по интерфейсам репозиториев
func (m *Memory) Repositories() Repositories {
	return Repositories{
		Properties:    memoryProperties{m},
		Verifications: memoryVerifications{m},
		Transactions:  memoryTransactions{m},
		Notices:       memoryNotices{m},
		Documents:     memoryDocuments{m},
	}
}

func copyProperty(p *model.Property) *model.Property {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	c.Amenities = append([]string(nil), p.Amenities...)
	return &c
}

// sortProperties: новые сверху, при равном времени по id
func sortProperties(items []*model.Property) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

type memoryProperties struct{ m *Memory }

func (r memoryProperties) GetByID(ctx context.Context, id string) (*model.Property, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	p, ok := r.m.properties[id]
	if !ok {
		return nil, nil
	}
	return copyProperty(p), nil
}

func (r memoryProperties) List(ctx context.Context, filter model.PropertyFilter, limit, offset int) ([]*model.Property, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var matched []*model.Property
	for _, p := range r.m.properties {
		if MatchProperty(p, filter) {
			matched = append(matched, copyProperty(p))
		}
	}
	sortProperties(matched)
	return window(matched, limit, offset), int64(len(matched)), nil
}

func (r memoryProperties) All(ctx context.Context) ([]*model.Property, error) {
	items, _, err := r.List(ctx, model.PropertyFilter{}, 0, 0)
	return items, err
}

func (r memoryProperties) UpdateStatus(ctx context.Context, id string, status model.ListingStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	p, ok := r.m.properties[id]
	if !ok {
		return fmt.Errorf("property not found: %s", id)
	}
	p.Status = status
	return nil
}

type memoryVerifications struct{ m *Memory }

func (r memoryVerifications) CreatePending(ctx context.Context, pending *model.PendingVerification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, p := range r.m.pending {
		if p.ID == pending.ID || p.PropertyID == pending.PropertyID {
			return fmt.Errorf("property %s: %w", pending.PropertyID, ErrPendingExists)
		}
	}
	c := *pending
	r.m.pending[pending.ID] = &c
	return nil
}

func (r memoryVerifications) GetPending(ctx context.Context, id string) (*model.PendingVerification, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	p, ok := r.m.pending[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r memoryVerifications) GetPendingByProperty(ctx context.Context, propertyID string) (*model.PendingVerification, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, p := range r.m.pending {
		if p.PropertyID == propertyID {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r memoryVerifications) ListPending(ctx context.Context, limit, offset int) ([]*model.PendingVerification, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	items := make([]*model.PendingVerification, 0, len(r.m.pending))
	for _, p := range r.m.pending {
		c := *p
		items = append(items, &c)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].SubmittedAt.Equal(items[j].SubmittedAt) {
			return items[i].SubmittedAt.After(items[j].SubmittedAt)
		}
		return items[i].ID < items[j].ID
	})
	return window(items, limit, offset), int64(len(items)), nil
}

func (r memoryVerifications) Resolve(ctx context.Context, pendingID string, item *model.VerificationHistoryItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.pending[pendingID]; !ok {
		return fmt.Errorf("pending verification not found: %s", pendingID)
	}
	delete(r.m.pending, pendingID)
	if p, ok := r.m.properties[item.PropertyID]; ok && item.Status == model.VerificationOutcomeVerified {
		p.Status = model.ListingStatusVerified
	}
	c := *item
	r.m.history = append(r.m.history, &c)
	return nil
}

func (r memoryVerifications) ListHistory(ctx context.Context, status *model.VerificationOutcome, limit, offset int) ([]*model.VerificationHistoryItem, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var items []*model.VerificationHistoryItem
	for _, h := range r.m.history {
		if status != nil && h.Status != *status {
			continue
		}
		c := *h
		items = append(items, &c)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return window(items, limit, offset), int64(len(items)), nil
}

func (r memoryVerifications) CountHistory(ctx context.Context) (map[model.VerificationOutcome]int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	counts := make(map[model.VerificationOutcome]int64, len(model.AllVerificationOutcome))
	for _, h := range r.m.history {
		counts[h.Status]++
	}
	return counts, nil
}

type memoryTransactions struct{ m *Memory }

func (r memoryTransactions) ListByOwner(ctx context.Context, ownerWallet string) ([]*model.Transaction, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var items []*model.Transaction
	for _, tx := range r.m.transactions {
		if strings.EqualFold(tx.OwnerWallet, ownerWallet) {
			c := *tx
			items = append(items, &c)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

type memoryNotices struct{ m *Memory }

func (r memoryNotices) ListAlerts(ctx context.Context, unreadOnly bool) ([]*model.Alert, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var items []*model.Alert
	for _, a := range r.m.alerts {
		if unreadOnly && a.Read {
			continue
		}
		c := *a
		items = append(items, &c)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r memoryNotices) CreateAlert(ctx context.Context, alert *model.Alert) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	c := *alert
	r.m.alerts = append(r.m.alerts, &c)
	return nil
}

func (r memoryNotices) ListAnnouncements(ctx context.Context) ([]*model.Announcement, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	items := make([]*model.Announcement, 0, len(r.m.announcements))
	for _, a := range r.m.announcements {
		c := *a
		items = append(items, &c)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].PublishedAt.After(items[j].PublishedAt) })
	return items, nil
}

type memoryDocuments struct{ m *Memory }

func (r memoryDocuments) ListByProperty(ctx context.Context, propertyID string) ([]*model.Document, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var items []*model.Document
	for _, d := range r.m.documents {
		if d.PropertyID == propertyID {
			c := *d
			items = append(items, &c)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].UploadedAt.Before(items[j].UploadedAt) })
	return items, nil
}

func (r memoryDocuments) GetContentByHash(ctx context.Context, hash string) (string, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	data, ok := r.m.contents[hash]
	if !ok {
		r.m.logger.Error("document content not found", zap.String("hash", hash))
		return "", fmt.Errorf("data not found in cache for hash %s: %w", hash, ErrContentNotFound)
	}
	return data, nil
}
