package logic

import (
	"context"
	"net/http"
	"net/url"

	"ghostodon/dto"
)

type IStatusesApi interface {
	Get(ctx context.Context, id string) (dto.Status, error)
	Context(ctx context.Context, id string) (dto.Context, error)
	Favourite(ctx context.Context, id string) (dto.Status, error)
	Unfavourite(ctx context.Context, id string) (dto.Status, error)
	Reblog(ctx context.Context, id string) (dto.Status, error)
	Unreblog(ctx context.Context, id string) (dto.Status, error)
	Bookmark(ctx context.Context, id string) (dto.Status, error)
	Unbookmark(ctx context.Context, id string) (dto.Status, error)
}

type statusesApi struct {
	*apiBase
}

func statusPath(id string) string {
	return "/api/v1/statuses/" + url.PathEscape(id)
}

func (api *statusesApi) Get(ctx context.Context, id string) (dto.Status, error) {
	raw, err := api.call(ctx, "statuses.get", &ApiCall{Method: http.MethodGet, Path: statusPath(id)})
	if err != nil {
		return dto.Status{}, err
	}
	return dto.NormalizeStatus(raw), nil
}

func (api *statusesApi) Context(ctx context.Context, id string) (dto.Context, error) {
	raw, err := api.call(ctx, "statuses.context", &ApiCall{Method: http.MethodGet, Path: statusPath(id) + "/context"})
	if err != nil {
		return dto.Context{}, err
	}
	return dto.NormalizeContext(raw), nil
}

func (api *statusesApi) action(ctx context.Context, op, id, verb string) (dto.Status, error) {
	raw, err := api.call(ctx, op, &ApiCall{Method: http.MethodPost, Path: statusPath(id) + "/" + verb})
	if err != nil {
		return dto.Status{}, err
	}
	return dto.NormalizeStatus(raw), nil
}

func (api *statusesApi) Favourite(ctx context.Context, id string) (dto.Status, error) {
	return api.action(ctx, "statuses.favourite", id, "favourite")
}

func (api *statusesApi) Unfavourite(ctx context.Context, id string) (dto.Status, error) {
	return api.action(ctx, "statuses.unfavourite", id, "unfavourite")
}

func (api *statusesApi) Reblog(ctx context.Context, id string) (dto.Status, error) {
	return api.action(ctx, "statuses.reblog", id, "reblog")
}

func (api *statusesApi) Unreblog(ctx context.Context, id string) (dto.Status, error) {
	return api.action(ctx, "statuses.unreblog", id, "unreblog")
}

func (api *statusesApi) Bookmark(ctx context.Context, id string) (dto.Status, error) {
	return api.action(ctx, "statuses.bookmark", id, "bookmark")
}

func (api *statusesApi) Unbookmark(ctx context.Context, id string) (dto.Status, error) {
	return api.action(ctx, "statuses.unbookmark", id, "unbookmark")
}
