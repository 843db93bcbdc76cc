package repository

import (
	"context"
	"errors"
	"fmt"

	"propchain/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// код SQLSTATE unique_violation
const uniqueViolation = "23505"

type verificationRepository struct {
	db     DB
	logger *zap.Logger
}

func NewVerificationRepository(db DB, logger *zap.Logger) VerificationRepository {
	return &verificationRepository{
		db:     db,
		logger: logger,
	}
}

func scanPending(row pgx.Row, extra ...any) (*model.PendingVerification, error) {
	var p model.PendingVerification
	dest := append([]any{&p.ID, &p.PropertyID, &p.PropertyName, &p.SubmittedAt, &p.OwnerWallet}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.OwnerShort = model.ShortWallet(p.OwnerWallet)
	return &p, nil
}

func (r *verificationRepository) CreatePending(ctx context.Context, pending *model.PendingVerification) error {
	query := `
		INSERT INTO pending_verifications (id, property_id, property_name, submitted_at, owner_wallet)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, pending.ID, pending.PropertyID, pending.PropertyName, pending.SubmittedAt, pending.OwnerWallet)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("property %s: %w", pending.PropertyID, ErrPendingExists)
	}
	if err != nil {
		r.logger.Error("failed to create pending verification", zap.Error(err), zap.String("property_id", pending.PropertyID))
		return fmt.Errorf("failed to create pending verification: %w", err)
	}
	return nil
}

func (r *verificationRepository) getPendingBy(ctx context.Context, column, value string) (*model.PendingVerification, error) {
	query := `SELECT id, property_id, property_name, submitted_at, owner_wallet FROM pending_verifications WHERE ` + column + ` = $1 LIMIT 1`

	p, err := scanPending(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get pending verification", zap.Error(err), zap.String(column, value))
		return nil, fmt.Errorf("failed to get pending verification: %w", err)
	}
	return p, nil
}

func (r *verificationRepository) GetPending(ctx context.Context, id string) (*model.PendingVerification, error) {
	return r.getPendingBy(ctx, "id", id)
}

func (r *verificationRepository) GetPendingByProperty(ctx context.Context, propertyID string) (*model.PendingVerification, error) {
	return r.getPendingBy(ctx, "property_id", propertyID)
}

func (r *verificationRepository) ListPending(ctx context.Context, limit, offset int) ([]*model.PendingVerification, int64, error) {
	query := `
		SELECT id, property_id, property_name, submitted_at, owner_wallet, COUNT(*) OVER()
		FROM pending_verifications
		ORDER BY submitted_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limitOrAll(limit), offset)
	if err != nil {
		r.logger.Error("failed to list pending verifications", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list pending verifications: %w", err)
	}
	defer rows.Close()

	var items []*model.PendingVerification
	var total int64
	for rows.Next() {
		p, err := scanPending(rows, &total)
		if err != nil {
			r.logger.Error("failed to scan pending verification", zap.Error(err))
			continue
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate pending verifications: %w", err)
	}
	if len(items) == 0 && offset > 0 {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pending_verifications`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count pending verifications: %w", err)
		}
	}
	return items, total, nil
}

func (r *verificationRepository) Resolve(ctx context.Context, pendingID string, item *model.VerificationHistoryItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// после Commit откат ничего не делает
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM pending_verifications WHERE id = $1`, pendingID)
	if err != nil {
		r.logger.Error("failed to delete pending verification", zap.Error(err), zap.String("id", pendingID))
		return fmt.Errorf("failed to delete pending verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending verification not found: %s", pendingID)
	}

	insert := `
		INSERT INTO verification_history (id, property_id, property, location, status, date, note, verifier_wallet)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, insert, item.ID, item.PropertyID, item.Property, item.Location, string(item.Status), item.Date, item.Note, item.VerifierWallet)
	if err != nil {
		r.logger.Error("failed to insert verification history", zap.Error(err), zap.String("id", item.ID))
		return fmt.Errorf("failed to insert verification history: %w", err)
	}

	if item.Status == model.VerificationOutcomeVerified {
		_, err = tx.Exec(ctx, `UPDATE properties SET status = $1 WHERE id = $2`, string(model.ListingStatusVerified), item.PropertyID)
		if err != nil {
			r.logger.Error("failed to mark property verified", zap.Error(err), zap.String("property_id", item.PropertyID))
			return fmt.Errorf("failed to update property status: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit verification decision: %w", err)
	}
	return nil
}

func (r *verificationRepository) ListHistory(ctx context.Context, status *model.VerificationOutcome, limit, offset int) ([]*model.VerificationHistoryItem, int64, error) {
	query := `
		SELECT id, property_id, property, location, status, date, note, verifier_wallet, COUNT(*) OVER()
		FROM verification_history
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`
	filter := ""
	if status != nil {
		filter = string(*status)
	}

	rows, err := r.db.Query(ctx, query, filter, limitOrAll(limit), offset)
	if err != nil {
		r.logger.Error("failed to list verification history", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list verification history: %w", err)
	}
	defer rows.Close()

	var items []*model.VerificationHistoryItem
	var total int64
	for rows.Next() {
		var h model.VerificationHistoryItem
		if err := rows.Scan(&h.ID, &h.PropertyID, &h.Property, &h.Location, &h.Status, &h.Date, &h.Note, &h.VerifierWallet, &total); err != nil {
			r.logger.Error("failed to scan verification history", zap.Error(err))
			continue
		}
		items = append(items, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate verification history: %w", err)
	}
	if len(items) == 0 && offset > 0 {
		countQuery := `SELECT COUNT(*) FROM verification_history WHERE ($1::text = '' OR status = $1::text)`
		if err := r.db.QueryRow(ctx, countQuery, filter).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count verification history: %w", err)
		}
	}
	return items, total, nil
}

func (r *verificationRepository) CountHistory(ctx context.Context) (map[model.VerificationOutcome]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM verification_history GROUP BY status`)
	if err != nil {
		r.logger.Error("failed to count verification history", zap.Error(err))
		return nil, fmt.Errorf("failed to count verification history: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.VerificationOutcome]int64, len(model.AllVerificationOutcome))
	for rows.Next() {
		var status model.VerificationOutcome
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan history count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// limitOrAll: LIMIT NULL в postgres означает без ограничения
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
