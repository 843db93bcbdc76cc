package repository

import (
	"context"
	"errors"
	"fmt"

	"propchain/internal/model"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const propertyColumns = `id, title, price, currency, location, bedrooms, bathrooms, area, images, zone,
		description, year_built, amenities, owner_wallet, status, created_at`

type propertyRepository struct {
	db     DB
	logger *zap.Logger
}

func NewPropertyRepository(db DB, logger *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:     db,
		logger: logger,
	}
}

// scanProperty сканирует колонки propertyColumns и дополнительные dest в конце
func scanProperty(row pgx.Row, extra ...any) (*model.Property, error) {
	var p model.Property
	dest := []any{
		&p.ID, &p.Title, &p.Price, &p.Currency, &p.Location, &p.Bedrooms, &p.Bathrooms, &p.Area, &p.Images, &p.Zone,
		&p.Description, &p.YearBuilt, &p.Amenities, &p.OwnerWallet, &p.Status, &p.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*model.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get property", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

func (r *propertyRepository) List(ctx context.Context, filter model.PropertyFilter, limit, offset int) ([]*model.Property, int64, error) {
	where, args := buildPropertyWhere(filter)
	query := `SELECT ` + propertyColumns + `, COUNT(*) OVER() FROM properties` + where + ` ORDER BY created_at DESC, id`

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list properties", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []*model.Property
	var total int64
	for rows.Next() {
		p, err := scanProperty(rows, &total)
		if err != nil {
			r.logger.Error("failed to scan property", zap.Error(err))
			continue
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate properties: %w", err)
	}

	// страница за пределами выборки: оконная функция ничего не вернула
	if len(properties) == 0 && offset > 0 {
		countQuery := `SELECT COUNT(*) FROM properties` + where
		countArgs := args[:len(args)-1]
		if limit > 0 {
			countArgs = countArgs[:len(countArgs)-1]
		}
		if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count properties: %w", err)
		}
	}

	return properties, total, nil
}

func (r *propertyRepository) All(ctx context.Context) ([]*model.Property, error) {
	properties, _, err := r.List(ctx, model.PropertyFilter{}, 0, 0)
	return properties, err
}

func (r *propertyRepository) UpdateStatus(ctx context.Context, id string, status model.ListingStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE properties SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		r.logger.Error("failed to update property status", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to update property status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("property not found: %s", id)
	}
	return nil
}
