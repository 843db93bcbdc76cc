package repository

import (
	"context"
	"errors"

	"propchain/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DB подмножество pgxpool.Pool, которое используют репозитории
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Для отсутствующей записи Get* методы возвращают nil, nil
type PropertyRepository interface {
	GetByID(ctx context.Context, id string) (*model.Property, error)
	List(ctx context.Context, filter model.PropertyFilter, limit, offset int) ([]*model.Property, int64, error)
	All(ctx context.Context) ([]*model.Property, error)
	UpdateStatus(ctx context.Context, id string, status model.ListingStatus) error
}

type VerificationRepository interface {
	CreatePending(ctx context.Context, pending *model.PendingVerification) error
	GetPending(ctx context.Context, id string) (*model.PendingVerification, error)
	GetPendingByProperty(ctx context.Context, propertyID string) (*model.PendingVerification, error)
	ListPending(ctx context.Context, limit, offset int) ([]*model.PendingVerification, int64, error)
	// Resolve удаляет заявку и добавляет запись в историю одной операцией.
	// Решение verified в той же операции переводит объект в статус verified
	Resolve(ctx context.Context, pendingID string, item *model.VerificationHistoryItem) error
	ListHistory(ctx context.Context, status *model.VerificationOutcome, limit, offset int) ([]*model.VerificationHistoryItem, int64, error)
	CountHistory(ctx context.Context) (map[model.VerificationOutcome]int64, error)
}

type TransactionRepository interface {
	ListByOwner(ctx context.Context, ownerWallet string) ([]*model.Transaction, error)
}

type NoticeRepository interface {
	ListAlerts(ctx context.Context, unreadOnly bool) ([]*model.Alert, error)
	CreateAlert(ctx context.Context, alert *model.Alert) error
	ListAnnouncements(ctx context.Context) ([]*model.Announcement, error)
}

var ErrContentNotFound = errors.New("document content not found")

// ErrPendingExists у объекта уже есть заявка на верификацию
var ErrPendingExists = errors.New("pending verification already exists")

type DocumentRepository interface {
	ListByProperty(ctx context.Context, propertyID string) ([]*model.Document, error)
	GetContentByHash(ctx context.Context, hash string) (string, error)
}

// Repositories набор репозиториев одного хранилища
type Repositories struct {
	Properties    PropertyRepository
	Verifications VerificationRepository
	Transactions  TransactionRepository
	Notices       NoticeRepository
	Documents     DocumentRepository
}

func NewPostgres(db DB, logger *zap.Logger) Repositories {
	return Repositories{
		Properties:    NewPropertyRepository(db, logger),
		Verifications: NewVerificationRepository(db, logger),
		Transactions:  NewTransactionRepository(db, logger),
		Notices:       NewNoticeRepository(db, logger),
		Documents:     NewDocumentRepository(db, logger),
	}
}
