package repository

import (
	"fmt"
	"strings"

	"propchain/internal/model"
)

// MatchProperty предикат фильтра для in-memory хранилища и проверки результатов поиска.
// Семантика совпадает с buildPropertyWhere.
func MatchProperty(p *model.Property, f model.PropertyFilter) bool {
	if f.Zone != "" && !strings.EqualFold(p.Zone, f.Zone) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinBedrooms != nil && p.Bedrooms < *f.MinBedrooms {
		return false
	}
	if f.MinBathrooms != nil && p.Bathrooms < *f.MinBathrooms {
		return false
	}
	if f.Location != "" && !containsFold(p.Location, f.Location) {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.OwnerWallet != "" && !strings.EqualFold(p.OwnerWallet, f.OwnerWallet) {
		return false
	}
	if f.Query != "" {
		desc := ""
		if p.Description != nil {
			desc = *p.Description
		}
		if !containsFold(p.Title, f.Query) && !containsFold(p.Location, f.Query) && !containsFold(desc, f.Query) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike экранирует шаблонные символы LIKE, подстрока ищется буквально
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildPropertyWhere строит WHERE с позиционными параметрами для postgres
func buildPropertyWhere(f model.PropertyFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Zone != "" {
		add("lower(zone) = lower($%d)", f.Zone)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		add("bedrooms >= $%d", *f.MinBedrooms)
	}
	if f.MinBathrooms != nil {
		add("bathrooms >= $%d", *f.MinBathrooms)
	}
	if f.Location != "" {
		add(`location ILIKE '%%' || $%d || '%%' ESCAPE '\'`, escapeLike(f.Location))
	}
	if f.Status != nil {
		add("status = $%d", string(*f.Status))
	}
	if f.OwnerWallet != "" {
		add("lower(owner_wallet) = lower($%d)", f.OwnerWallet)
	}
	if f.Query != "" {
		args = append(args, escapeLike(f.Query))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(title ILIKE '%%' || $%d || '%%' ESCAPE '\' OR location ILIKE '%%' || $%d || '%%' ESCAPE '\' OR coalesce(description, '') ILIKE '%%' || $%d || '%%' ESCAPE '\')`,
			n, n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
