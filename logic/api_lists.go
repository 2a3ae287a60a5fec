package logic

import (
	"context"
	"net/http"
	"net/url"

	"ghostodon/dto"
)

type IListsApi interface {
	All(ctx context.Context) ([]dto.List, error)
	Create(ctx context.Context, title string) (dto.List, error)
	Update(ctx context.Context, id, title string) (dto.List, error)
	Remove(ctx context.Context, id string) error
	Accounts(ctx context.Context, listId string) ([]dto.Account, error)
	AddAccounts(ctx context.Context, listId string, accountIds []string) error
	RemoveAccounts(ctx context.Context, listId string, accountIds []string) error
}

type listsApi struct {
	*apiBase
}

func listPath(id string) string {
	return "/api/v1/lists/" + url.PathEscape(id)
}

func (api *listsApi) All(ctx context.Context) ([]dto.List, error) {
	raw, err := api.call(ctx, "lists.list", &ApiCall{Method: http.MethodGet, Path: "/api/v1/lists"})
	if err != nil {
		return nil, err
	}
	return dto.NormalizeLists(raw), nil
}

func (api *listsApi) Create(ctx context.Context, title string) (dto.List, error) {
	raw, err := api.call(ctx, "lists.create", &ApiCall{
		Method: http.MethodPost,
		Path:   "/api/v1/lists",
		Form:   url.Values{"title": {title}},
	})
	if err != nil {
		return dto.List{}, err
	}
	return dto.NormalizeList(raw), nil
}

func (api *listsApi) Update(ctx context.Context, id, title string) (dto.List, error) {
	raw, err := api.call(ctx, "lists.update", &ApiCall{
		Method: http.MethodPut,
		Path:   listPath(id),
		Form:   url.Values{"title": {title}},
	})
	if err != nil {
		return dto.List{}, err
	}
	return dto.NormalizeList(raw), nil
}

func (api *listsApi) Remove(ctx context.Context, id string) error {
	_, err := api.call(ctx, "lists.delete", &ApiCall{Method: http.MethodDelete, Path: listPath(id)})
	return err
}

func (api *listsApi) Accounts(ctx context.Context, listId string) ([]dto.Account, error) {
	// limit=0 asks for all members in one response
	raw, err := api.call(ctx, "lists.accounts.list", &ApiCall{
		Method: http.MethodGet,
		Path:   listPath(listId) + "/accounts",
		Query:  url.Values{"limit": {"0"}},
	})
	if err != nil {
		return nil, err
	}
	return dto.NormalizeAccounts(raw), nil
}

func (api *listsApi) AddAccounts(ctx context.Context, listId string, accountIds []string) error {
	_, err := api.call(ctx, "lists.accounts.add", &ApiCall{
		Method: http.MethodPost,
		Path:   listPath(listId) + "/accounts",
		Form:   url.Values{"account_ids[]": accountIds},
	})
	return err
}

func (api *listsApi) RemoveAccounts(ctx context.Context, listId string, accountIds []string) error {
	_, err := api.call(ctx, "lists.accounts.remove", &ApiCall{
		Method: http.MethodDelete,
		Path:   listPath(listId) + "/accounts",
		Query:  url.Values{"account_ids[]": accountIds},
	})
	return err
}
