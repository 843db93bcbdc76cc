package repository

import (
	"context"
	"fmt"

	"propchain/internal/model"

	"go.uber.org/zap"
)

type noticeRepository struct {
	db     DB
	logger *zap.Logger
}

func NewNoticeRepository(db DB, logger *zap.Logger) NoticeRepository {
	return &noticeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *noticeRepository) ListAlerts(ctx context.Context, unreadOnly bool) ([]*model.Alert, error) {
	query := `
		SELECT id, title, message, severity, created_at, read
		FROM alerts
		WHERE NOT ($1::boolean AND read)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, unreadOnly)
	if err != nil {
		r.logger.Error("failed to list alerts", zap.Error(err))
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var items []*model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.Severity, &a.CreatedAt, &a.Read); err != nil {
			r.logger.Error("failed to scan alert", zap.Error(err))
			continue
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}

func (r *noticeRepository) CreateAlert(ctx context.Context, alert *model.Alert) error {
	query := `INSERT INTO alerts (id, title, message, severity, created_at, read) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, alert.ID, alert.Title, alert.Message, string(alert.Severity), alert.CreatedAt, alert.Read)
	if err != nil {
		r.logger.Error("failed to create alert", zap.Error(err), zap.String("id", alert.ID))
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (r *noticeRepository) ListAnnouncements(ctx context.Context) ([]*model.Announcement, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, body, published_at FROM announcements ORDER BY published_at DESC`)
	if err != nil {
		r.logger.Error("failed to list announcements", zap.Error(err))
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var items []*model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.PublishedAt); err != nil {
			r.logger.Error("failed to scan announcement", zap.Error(err))
			continue
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}
