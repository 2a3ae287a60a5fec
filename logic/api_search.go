package logic

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ghostodon/dto"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_search_api.go -package mocks ghostodon/logic ISearchApi

const (
	SearchAccounts = "accounts"
	SearchHashtags = "hashtags"
	SearchStatuses = "statuses"
)

type SearchParams struct {
	Type    string
	Limit   int
	Resolve bool
}

type ISearchApi interface {
	Query(ctx context.Context, q string, params SearchParams) (dto.SearchResult, error)
}

type searchApi struct {
	*apiBase
}

func (api *searchApi) Query(ctx context.Context, q string, params SearchParams) (dto.SearchResult, error) {
	query := url.Values{"q": {q}}
	if params.Type != "" {
		query.Set("type", params.Type)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	setFlag(query, "resolve", params.Resolve)
	raw, err := api.call(ctx, "search.query", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v2/search",
		Query:  query,
	})
	if err != nil {
		return dto.SearchResult{}, err
	}
	return dto.NormalizeSearchResult(raw), nil
}
