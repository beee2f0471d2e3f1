package services

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/legaldesk/casectl/internal/cache"
)

const (
	filterOptionsKey  = "filters:options:"
	filterMetadataKey = "filters:metadata"
)

// FilterService reads filter values for the case tables. Options and
// metadata are served from the response cache.
type FilterService struct{ base }

type optionsResponse struct {
	Data FilterOptions `json:"data"`
}

// Options returns the values of the named filters, or of all filters when
// none are named.
func (s *FilterService) Options(ctx context.Context, columns ...string) (FilterOptions, error) {
	cols := slices.Clone(columns)
	slices.Sort(cols)
	cols = slices.Compact(cols)

	return cache.Fetch(ctx, s.cache, filterOptionsKey+strings.Join(cols, ","),
		func(ctx context.Context) (FilterOptions, error) {
			q := url.Values{}
			for _, c := range cols {
				q.Add("columns", c)
			}
			var out optionsResponse
			err := s.api.GetJSON(withOperation(ctx, "filters.options"), "/api/filter-options", q, &out)
			return out.Data, err
		})
}

type metadataResponse struct {
	Data FilterMetadata `json:"data"`
}

// Metadata describes the available filters.
func (s *FilterService) Metadata(ctx context.Context) (FilterMetadata, error) {
	return cache.Fetch(ctx, s.cache, filterMetadataKey,
		func(ctx context.Context) (FilterMetadata, error) {
			var out metadataResponse
			err := s.api.GetJSON(withOperation(ctx, "filters.metadata"), "/api/filters/metadata", nil, &out)
			return out.Data, err
		})
}

// Apply filters the colored detailed report on the server. Keys are filter
// names; empty values are ignored by the backend.
func (s *FilterService) Apply(ctx context.Context, filters map[string]string) (ApplyResult, error) {
	var out ApplyResult
	err := s.api.PostJSON(withOperation(ctx, "filters.apply"), "/api/filter/apply", nil, filters, &out)
	return out, err
}
