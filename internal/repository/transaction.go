package repository

import (
	"context"
	"fmt"

	"propchain/internal/model"

	"go.uber.org/zap"
)

type transactionRepository struct {
	db     DB
	logger *zap.Logger
}

func NewTransactionRepository(db DB, logger *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) ListByOwner(ctx context.Context, ownerWallet string) ([]*model.Transaction, error) {
	query := `
		SELECT id, property_id, property, status, amount, buyer_wallet, owner_wallet, created_at
		FROM escrow_transactions
		WHERE lower(owner_wallet) = lower($1)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerWallet)
	if err != nil {
		r.logger.Error("failed to list transactions", zap.Error(err), zap.String("owner_wallet", ownerWallet))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var items []*model.Transaction
	for rows.Next() {
		var tx model.Transaction
		if err := rows.Scan(&tx.ID, &tx.PropertyID, &tx.Property, &tx.Status, &tx.Amount, &tx.BuyerWallet, &tx.OwnerWallet, &tx.CreatedAt); err != nil {
			r.logger.Error("failed to scan transaction", zap.Error(err))
			continue
		}
		items = append(items, &tx)
	}
	return items, rows.Err()
}
