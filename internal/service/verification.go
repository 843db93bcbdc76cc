package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"propchain/internal/messaging"
	"propchain/internal/model"
	"propchain/internal/pagination"
	"propchain/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VerificationService interface {
	Submit(ctx context.Context, propertyID, ownerWallet string) (*model.PendingVerification, error)
	ListPending(ctx context.Context, page pagination.Request) (*Page[*model.PendingVerification], error)
	GetReview(ctx context.Context, id string) (*model.VerificationReview, error)
	Decide(ctx context.Context, id string, status model.VerificationOutcome, note, verifierWallet string) (*model.VerificationHistoryItem, error)
	ListHistory(ctx context.Context, status *model.VerificationOutcome, page pagination.Request) (*Page[*model.VerificationHistoryItem], error)
	ListAlerts(ctx context.Context, unreadOnly bool) ([]*model.Alert, error)
	ListAnnouncements(ctx context.Context) ([]*model.Announcement, error)
	GetDocumentContent(ctx context.Context, hash string) (string, error)
}

type verificationService struct {
	repos  repository.Repositories
	events messaging.Publisher
	logger *zap.Logger
	now    func() time.Time
}

func NewVerificationService(repos repository.Repositories, events messaging.Publisher, logger *zap.Logger) VerificationService {
	return &verificationService{
		repos:  repos,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *verificationService) Submit(ctx context.Context, propertyID, ownerWallet string) (*model.PendingVerification, error) {
	if propertyID == "" {
		return nil, fmt.Errorf("%w: property id cannot be empty", ErrInvalidArgument)
	}
	if !model.IsWalletAddress(ownerWallet) {
		return nil, fmt.Errorf("%w: owner wallet %q is not a valid address", ErrInvalidArgument, ownerWallet)
	}

	property, err := s.repos.Properties.GetByID(ctx, propertyID)
	if err != nil {
		s.logger.Error("failed to get property from repository", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: property %s", ErrNotFound, propertyID)
	}
	if property.Status == model.ListingStatusVerified {
		return nil, fmt.Errorf("%w: property %s is already verified", ErrConflict, propertyID)
	}

	existing, err := s.repos.Verifications.GetPendingByProperty(ctx, propertyID)
	if err != nil {
		s.logger.Error("failed to check pending verification", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("failed to check pending verification: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: property %s is already pending verification", ErrConflict, propertyID)
	}

	pending := &model.PendingVerification{
		ID:           uuid.New().String(),
		PropertyID:   property.ID,
		PropertyName: property.Title,
		SubmittedAt:  s.now(),
		OwnerWallet:  ownerWallet,
		OwnerShort:   model.ShortWallet(ownerWallet),
	}
	if err := s.repos.Verifications.CreatePending(ctx, pending); err != nil {
		// параллельная заявка успела раньше
		if errors.Is(err, repository.ErrPendingExists) {
			return nil, fmt.Errorf("%w: property %s is already pending verification", ErrConflict, propertyID)
		}
		return nil, fmt.Errorf("failed to create pending verification: %w", err)
	}

	// заявка уже сохранена, событие не критично
	if err := s.events.PublishSubmitted(ctx, pending); err != nil {
		s.logger.Error("failed to publish verification submitted", zap.Error(err), zap.String("pending_id", pending.ID))
	}

	s.logger.Info("property submitted for verification", zap.String("pending_id", pending.ID), zap.String("property_id", propertyID))
	return pending, nil
}

func (s *verificationService) ListPending(ctx context.Context, page pagination.Request) (*Page[*model.PendingVerification], error) {
	result, err := fetchPage(ctx, page, s.repos.Verifications.ListPending)
	if err != nil {
		s.logger.Error("failed to list pending verifications", zap.Error(err))
		return nil, fmt.Errorf("failed to list pending verifications: %w", err)
	}
	return result, nil
}

func (s *verificationService) getPending(ctx context.Context, id string) (*model.PendingVerification, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: verification id cannot be empty", ErrInvalidArgument)
	}

	pending, err := s.repos.Verifications.GetPending(ctx, id)
	if err != nil {
		s.logger.Error("failed to get pending verification", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get pending verification: %w", err)
	}
	if pending == nil {
		return nil, fmt.Errorf("%w: pending verification %s", ErrNotFound, id)
	}
	return pending, nil
}

func (s *verificationService) GetReview(ctx context.Context, id string) (*model.VerificationReview, error) {
	pending, err := s.getPending(ctx, id)
	if err != nil {
		return nil, err
	}

	property, err := s.repos.Properties.GetByID(ctx, pending.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	documents, err := s.repos.Documents.ListByProperty(ctx, pending.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if documents == nil {
		documents = []*model.Document{}
	}

	return &model.VerificationReview{
		Pending:   pending,
		Property:  property,
		Documents: documents,
	}, nil
}

func (s *verificationService) Decide(ctx context.Context, id string, status model.VerificationOutcome, note, verifierWallet string) (*model.VerificationHistoryItem, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown verification status %q", ErrInvalidArgument, status)
	}
	note = strings.TrimSpace(note)
	if status != model.VerificationOutcomeVerified && note == "" {
		return nil, fmt.Errorf("%w: a note is required for a %s decision", ErrInvalidArgument, status)
	}
	if verifierWallet != "" && !model.IsWalletAddress(verifierWallet) {
		return nil, fmt.Errorf("%w: verifier wallet %q is not a valid address", ErrInvalidArgument, verifierWallet)
	}

	pending, err := s.getPending(ctx, id)
	if err != nil {
		return nil, err
	}

	item := &model.VerificationHistoryItem{
		ID:             uuid.New().String(),
		PropertyID:     pending.PropertyID,
		Property:       pending.PropertyName,
		Status:         status,
		Date:           s.now(),
		VerifierWallet: verifierWallet,
	}
	if note != "" {
		item.Note = &note
	}

	property, err := s.repos.Properties.GetByID(ctx, pending.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property != nil {
		item.Location = property.Location
	}

	if err := s.repos.Verifications.Resolve(ctx, pending.ID, item); err != nil {
		return nil, fmt.Errorf("failed to resolve verification: %w", err)
	}

	if status == model.VerificationOutcomeFlagged {
		alert := &model.Alert{
			ID:        uuid.New().String(),
			Title:     "Property flagged",
			Message:   fmt.Sprintf("%s was flagged: %s", pending.PropertyName, note),
			Severity:  model.AlertSeverityWarning,
			CreatedAt: item.Date,
		}
		if err := s.repos.Notices.CreateAlert(ctx, alert); err != nil {
			s.logger.Error("failed to create flag alert", zap.Error(err), zap.String("property_id", pending.PropertyID))
		}
	}

	if err := s.events.PublishDecided(ctx, item); err != nil {
		s.logger.Error("failed to publish verification decided", zap.Error(err), zap.String("history_id", item.ID))
	}

	s.logger.Info("verification decided",
		zap.String("pending_id", pending.ID),
		zap.String("property_id", pending.PropertyID),
		zap.String("status", string(status)))
	return item, nil
}

func (s *verificationService) ListHistory(ctx context.Context, status *model.VerificationOutcome, page pagination.Request) (*Page[*model.VerificationHistoryItem], error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown verification status %q", ErrInvalidArgument, *status)
	}

	result, err := fetchPage(ctx, page, func(ctx context.Context, limit, offset int) ([]*model.VerificationHistoryItem, int64, error) {
		return s.repos.Verifications.ListHistory(ctx, status, limit, offset)
	})
	if err != nil {
		s.logger.Error("failed to list verification history", zap.Error(err))
		return nil, fmt.Errorf("failed to list verification history: %w", err)
	}
	return result, nil
}

func (s *verificationService) ListAlerts(ctx context.Context, unreadOnly bool) ([]*model.Alert, error) {
	alerts, err := s.repos.Notices.ListAlerts(ctx, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	if alerts == nil {
		alerts = []*model.Alert{}
	}
	return alerts, nil
}

func (s *verificationService) ListAnnouncements(ctx context.Context) ([]*model.Announcement, error) {
	announcements, err := s.repos.Notices.ListAnnouncements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	if announcements == nil {
		announcements = []*model.Announcement{}
	}
	return announcements, nil
}

func (s *verificationService) GetDocumentContent(ctx context.Context, hash string) (string, error) {
	if hash == "" {
		return "", fmt.Errorf("%w: content hash cannot be empty", ErrInvalidArgument)
	}

	content, err := s.repos.Documents.GetContentByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return "", fmt.Errorf("%w: document %s", ErrNotFound, hash)
		}
		return "", fmt.Errorf("failed to get document content: %w", err)
	}
	return content, nil
}
