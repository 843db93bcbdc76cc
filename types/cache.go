package types

import (
	"time"

	"propchain/internal/model"
)

// DocumentContentCache запись в таблице document_content_cache.
// Одинаковые документы хранятся один раз по sha256 содержимого.
type DocumentContentCache struct {
	ID          string    `json:"id" db:"id"`
	ContentHash string    `json:"content_hash" db:"content_hash"`
	Data        string    `json:"data" db:"data"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PropertyDocumentRow запись в property_documents, ссылается на кэш через content_hash
type PropertyDocumentRow struct {
	ID          string    `json:"id" db:"id"`
	PropertyID  string    `json:"property_id" db:"property_id"`
	Name        string    `json:"name" db:"name"`
	Kind        string    `json:"kind" db:"kind"`
	ContentHash string    `json:"content_hash" db:"content_hash"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}

func (r PropertyDocumentRow) ToModel() *model.Document {
	return &model.Document{
		ID:          r.ID,
		PropertyID:  r.PropertyID,
		Name:        r.Name,
		Kind:        r.Kind,
		ContentHash: r.ContentHash,
		URL:         "/api/documents/" + r.ContentHash,
		UploadedAt:  r.UploadedAt,
	}
}
