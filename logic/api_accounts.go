package logic

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"ghostodon/dto"
	"ghostodon/shared"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_accounts_api.go -package mocks ghostodon/logic IAccountsApi

type AccountStatusFilters struct {
	Pinned         bool
	ExcludeReplies bool
	ExcludeReblogs bool
	OnlyMedia      bool
}

type IAccountsApi interface {
	Verify(ctx context.Context) (dto.Account, error)
	Get(ctx context.Context, id string) (dto.Account, error)
	Lookup(ctx context.Context, acct string) (dto.Account, error)
	Statuses(ctx context.Context, id string, params dto.PageParams, filters AccountStatusFilters) ([]dto.Status, error)
	Followers(ctx context.Context, id string, params dto.PageParams) ([]dto.Account, error)
	Following(ctx context.Context, id string, params dto.PageParams) ([]dto.Account, error)
}

type accountsApi struct {
	*apiBase
}

func (api *accountsApi) Verify(ctx context.Context) (dto.Account, error) {
	raw, err := api.call(ctx, "accounts.verify", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v1/accounts/verify_credentials",
	})
	if err != nil {
		return dto.Account{}, err
	}
	return dto.NormalizeAccount(raw), nil
}

func (api *accountsApi) Get(ctx context.Context, id string) (dto.Account, error) {
	raw, err := api.call(ctx, "accounts.get", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v1/accounts/" + url.PathEscape(id),
	})
	if err != nil {
		return dto.Account{}, err
	}
	return dto.NormalizeAccount(raw), nil
}

// Lookup uses /accounts/lookup. Servers that predate it get the old search
// convention instead, which only counts when it finds the exact acct.
func (api *accountsApi) Lookup(ctx context.Context, acct string) (dto.Account, error) {
	raw, err := api.call(ctx, "accounts.lookup", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v1/accounts/lookup",
		Query:  url.Values{"acct": {acct}},
	})
	if err == nil {
		return dto.NormalizeAccount(raw), nil
	}

	raw, legacyErr := api.rest.Do(ctx, &ApiCall{
		Label:  "accounts.lookup",
		Method: http.MethodGet,
		Path:   "/api/v1/accounts/search",
		Query:  url.Values{"q": {acct}, "limit": {"1"}},
	})
	if legacyErr != nil {
		return dto.Account{}, err
	}
	for _, a := range dto.NormalizeAccounts(raw) {
		if a.Id != "" && strings.EqualFold(a.Acct, shared.StripAt(acct)) {
			return a, nil
		}
	}
	return dto.Account{}, err
}

func (api *accountsApi) Statuses(
	ctx context.Context,
	id string,
	params dto.PageParams,
	filters AccountStatusFilters,
) ([]dto.Status, error) {
	q := pageQuery(params)
	setFlag(q, "pinned", filters.Pinned)
	setFlag(q, "exclude_replies", filters.ExcludeReplies)
	setFlag(q, "exclude_reblogs", filters.ExcludeReblogs)
	setFlag(q, "only_media", filters.OnlyMedia)
	raw, err := api.call(ctx, "accounts.statuses", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v1/accounts/" + url.PathEscape(id) + "/statuses",
		Query:  q,
	})
	if err != nil {
		return nil, err
	}
	return dto.NormalizeStatuses(raw), nil
}

func (api *accountsApi) Followers(ctx context.Context, id string, params dto.PageParams) ([]dto.Account, error) {
	raw, err := api.call(ctx, "accounts.followers", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v1/accounts/" + url.PathEscape(id) + "/followers",
		Query:  pageQuery(params),
	})
	if err != nil {
		return nil, err
	}
	return dto.NormalizeAccounts(raw), nil
}

func (api *accountsApi) Following(ctx context.Context, id string, params dto.PageParams) ([]dto.Account, error) {
	raw, err := api.call(ctx, "accounts.following", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v1/accounts/" + url.PathEscape(id) + "/following",
		Query:  pageQuery(params),
	})
	if err != nil {
		return nil, err
	}
	return dto.NormalizeAccounts(raw), nil
}
