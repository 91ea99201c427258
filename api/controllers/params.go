package controllers

import (
	"net/http"

	"github.com/angelmondragon/stride-storefront/api/validators"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
)

// PageParams reads the page and limit query parameters.
func PageParams(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}
