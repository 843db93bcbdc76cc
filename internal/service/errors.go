package service

import (
	"context"
	"errors"

	"propchain/internal/pagination"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Page страница выборки вместе с метаданными пагинации
type Page[T any] struct {
	Data []T             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// fetchPage запрашивает страницу; если номер страницы больше последней,
// повторяет запрос для последней страницы
func fetchPage[T any](ctx context.Context, req pagination.Request, fetch func(ctx context.Context, limit, offset int) ([]T, int64, error)) (*Page[T], error) {
	req = req.Normalize()

	items, total, err := fetch(ctx, req.PerPage, req.Offset())
	if err != nil {
		return nil, err
	}

	meta := pagination.NewMeta(req, total)
	if meta.Page != req.Page && total > 0 {
		clamped := pagination.Request{Page: meta.Page, PerPage: meta.PerPage}
		items, total, err = fetch(ctx, clamped.PerPage, clamped.Offset())
		if err != nil {
			return nil, err
		}
		meta = pagination.NewMeta(clamped, total)
	}

	if items == nil {
		items = []T{}
	}
	return &Page[T]{Data: items, Meta: meta}, nil
}
