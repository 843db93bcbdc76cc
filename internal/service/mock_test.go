package service

import (
	"context"
	"testing"

	"propchain/internal/messaging"
	"propchain/internal/model"
	"propchain/internal/repository"

	"go.uber.org/zap/zaptest"
)

// Mock для PropertyRepository
type mockPropertyRepository struct {
	getByIDFunc      func(ctx context.Context, id string) (*model.Property, error)
	listFunc         func(ctx context.Context, filter model.PropertyFilter, limit, offset int) ([]*model.Property, int64, error)
	updateStatusFunc func(ctx context.Context, id string, status model.ListingStatus) error
}

func (m *mockPropertyRepository) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPropertyRepository) List(ctx context.Context, filter model.PropertyFilter, limit, offset int) ([]*model.Property, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockPropertyRepository) All(ctx context.Context) ([]*model.Property, error) {
	items, _, err := m.List(ctx, model.PropertyFilter{}, 0, 0)
	return items, err
}

func (m *mockPropertyRepository) UpdateStatus(ctx context.Context, id string, status model.ListingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

// Mock для Searcher
type mockSearcher struct {
	searchFunc func(ctx context.Context, filter model.PropertyFilter, limit, offset int64) ([]string, error)
}

func (m *mockSearcher) Search(ctx context.Context, filter model.PropertyFilter, limit, offset int64) ([]string, error) {
	return m.searchFunc(ctx, filter, limit, offset)
}

// Mock для Publisher
type mockPublisher struct {
	submitted []*model.PendingVerification
	decided   []*model.VerificationHistoryItem
	err       error
}

func (m *mockPublisher) PublishSubmitted(ctx context.Context, pending *model.PendingVerification) error {
	m.submitted = append(m.submitted, pending)
	return m.err
}

func (m *mockPublisher) PublishDecided(ctx context.Context, item *model.VerificationHistoryItem) error {
	m.decided = append(m.decided, item)
	return m.err
}

func (m *mockPublisher) SubscribeDecided(ctx context.Context, handler func(*messaging.VerificationDecidedMessage)) error {
	return nil
}

func (m *mockPublisher) Close() {}

// failingResolve оборачивает репозиторий заявок и роняет Resolve
type failingResolve struct {
	repository.VerificationRepository
	err error
}

func (f failingResolve) Resolve(ctx context.Context, pendingID string, item *model.VerificationHistoryItem) error {
	return f.err
}

// stalePendingCheck не видит уже существующие заявки, как при гонке двух Submit
type stalePendingCheck struct {
	repository.VerificationRepository
}

func (stalePendingCheck) GetPendingByProperty(ctx context.Context, propertyID string) (*model.PendingVerification, error) {
	return nil, nil
}

func seededRepositories(t *testing.T) repository.Repositories {
	t.Helper()
	return repository.NewMemory(repository.DefaultSeed(), zaptest.NewLogger(t)).Repositories()
}

// Вспомогательная функция для проверки содержания ошибки
func containsError(got, want string) bool {
	return len(got) > 0 && len(want) > 0 && (got == want ||
		(len(got) >= len(want) && got[:len(want)] == want))
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
