package handlers

import (
	"fmt"
	"strconv"

	"propchain/internal/model"
	"propchain/internal/pagination"

	"github.com/gin-gonic/gin"
)

func queryInt(c *gin.Context, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return &v, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return &v, nil
}

func pageRequest(c *gin.Context) (pagination.Request, error) {
	var req pagination.Request
	page, err := queryInt(c, "page")
	if err != nil {
		return req, err
	}
	perPage, err := queryInt(c, "per_page")
	if err != nil {
		return req, err
	}
	if page != nil {
		req.Page = *page
	}
	if perPage != nil {
		req.PerPage = *perPage
	}
	return req, nil
}

func propertyFilter(c *gin.Context) (model.PropertyFilter, error) {
	f := model.PropertyFilter{
		Zone:     c.Query("zone"),
		Location: c.Query("location"),
		Query:    c.Query("q"),
	}

	var err error
	if f.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return f, err
	}
	if f.MinBedrooms, err = queryInt(c, "bedrooms"); err != nil {
		return f, err
	}
	if f.MinBathrooms, err = queryInt(c, "bathrooms"); err != nil {
		return f, err
	}
	if raw := c.Query("status"); raw != "" {
		s := model.ListingStatus(raw)
		f.Status = &s
	}
	return f, nil
}
