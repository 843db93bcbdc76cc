package pagination

import "math"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Request номер страницы с 1; нулевые и отрицательные значения заменяются дефолтами
type Request struct {
	Page    int
	PerPage int
}

func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage < 1 {
		r.PerPage = DefaultPerPage
	}
	if r.PerPage > MaxPerPage {
		r.PerPage = MaxPerPage
	}
	// смещение (Page-1)*PerPage должно помещаться в int
	if maxPage := math.MaxInt / r.PerPage; r.Page > maxPage {
		r.Page = maxPage
	}
	return r
}

func (r Request) Offset() int {
	n := r.Normalize()
	return (n.Page - 1) * n.PerPage
}

type Meta struct {
	Page        int   `json:"page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// NewMeta считает метаданные страницы. Номер страницы зажимается в [1, TotalPages],
// TotalPages не меньше 1 даже для пустой выборки.
func NewMeta(r Request, total int64) Meta {
	r = r.Normalize()
	if total < 0 {
		total = 0
	}

	totalPages := int((total + int64(r.PerPage) - 1) / int64(r.PerPage))
	if totalPages < 1 {
		totalPages = 1
	}
	page := r.Page
	if page > totalPages {
		page = totalPages
	}

	return Meta{
		Page:        page,
		PerPage:     r.PerPage,
		Total:       total,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}

// Slice вырезает страницу из уже отсортированного списка
func Slice[T any](items []T, r Request) ([]T, Meta) {
	meta := NewMeta(r, int64(len(items)))
	start := (meta.Page - 1) * meta.PerPage
	if start >= len(items) {
		return []T{}, meta
	}
	end := start + meta.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
