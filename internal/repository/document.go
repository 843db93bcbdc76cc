package repository

import (
	"context"
	"errors"
	"fmt"

	"propchain/internal/model"
	"propchain/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type documentRepository struct {
	db     DB
	logger *zap.Logger
}

func NewDocumentRepository(db DB, logger *zap.Logger) DocumentRepository {
	return &documentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *documentRepository) ListByProperty(ctx context.Context, propertyID string) ([]*model.Document, error) {
	query := `
		SELECT id, property_id, name, kind, content_hash, uploaded_at
		FROM property_documents
		WHERE property_id = $1
		ORDER BY uploaded_at
	`

	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		r.logger.Error("failed to list documents", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*model.Document
	for rows.Next() {
		var row types.PropertyDocumentRow
		if err := rows.Scan(&row.ID, &row.PropertyID, &row.Name, &row.Kind, &row.ContentHash, &row.UploadedAt); err != nil {
			r.logger.Error("failed to scan document", zap.Error(err))
			continue
		}
		docs = append(docs, row.ToModel())
	}
	return docs, rows.Err()
}

// GetContentByHash получает содержимое документа из кэша по хэшу
func (r *documentRepository) GetContentByHash(ctx context.Context, hash string) (string, error) {
	query := `SELECT id, content_hash, data, created_at FROM document_content_cache WHERE content_hash = $1`

	var row types.DocumentContentCache
	err := r.db.QueryRow(ctx, query, hash).Scan(&row.ID, &row.ContentHash, &row.Data, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error("data not found in cache", zap.String("hash", hash))
			return "", fmt.Errorf("data not found in cache for hash %s: %w", hash, ErrContentNotFound)
		}
		r.logger.Error("failed to read document cache", zap.String("hash", hash), zap.Error(err))
		return "", fmt.Errorf("failed to read document cache for hash %s: %w", hash, err)
	}

	r.logger.Debug("data retrieved from cache", zap.String("hash", hash))
	return row.Data, nil
}
