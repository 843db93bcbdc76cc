package search

import (
	"fmt"
	"strconv"
	"strings"

	"propchain/internal/model"
)

// BuildFilter переводит фильтр объектов в выражение фильтра Meilisearch.
// Location и Query сюда не попадают: query идёт строкой поиска, location проверяется после
func BuildFilter(f model.PropertyFilter) string {
	var filters []string

	if f.Zone != "" {
		filters = append(filters, fmt.Sprintf("zone = %s", quote(strings.ToLower(f.Zone))))
	}
	if f.MinPrice != nil {
		filters = append(filters, "price >= "+formatFloat(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		filters = append(filters, "price <= "+formatFloat(*f.MaxPrice))
	}
	if f.MinBedrooms != nil {
		filters = append(filters, fmt.Sprintf("bedrooms >= %d", *f.MinBedrooms))
	}
	if f.MinBathrooms != nil {
		filters = append(filters, fmt.Sprintf("bathrooms >= %d", *f.MinBathrooms))
	}
	if f.Status != nil {
		filters = append(filters, fmt.Sprintf("status = %s", quote(string(*f.Status))))
	}
	if f.OwnerWallet != "" {
		filters = append(filters, fmt.Sprintf("owner_wallet = %s", quote(strings.ToLower(f.OwnerWallet))))
	}

	return strings.Join(filters, " AND ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
