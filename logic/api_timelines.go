package logic

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"ghostodon/dto"
)

type PublicFilters struct {
	Local     bool
	Remote    bool
	OnlyMedia bool
}

type ITimelinesApi interface {
	Home(ctx context.Context, params dto.PageParams) ([]dto.Status, error)
	Public(ctx context.Context, params dto.PageParams, filters PublicFilters) ([]dto.Status, error)
	List(ctx context.Context, listId string, params dto.PageParams) ([]dto.Status, error)
	Tag(ctx context.Context, tag string, params dto.PageParams, local bool) ([]dto.Status, error)
}

type timelinesApi struct {
	*apiBase
}

func (api *timelinesApi) statuses(ctx context.Context, op, path string, q url.Values) ([]dto.Status, error) {
	raw, err := api.call(ctx, op, &ApiCall{
		Method: http.MethodGet,
		Path:   path,
		Query:  q,
	})
	if err != nil {
		return nil, err
	}
	return dto.NormalizeStatuses(raw), nil
}

func (api *timelinesApi) Home(ctx context.Context, params dto.PageParams) ([]dto.Status, error) {
	return api.statuses(ctx, "timelines.home", "/api/v1/timelines/home", pageQuery(params))
}

func (api *timelinesApi) Public(ctx context.Context, params dto.PageParams, filters PublicFilters) ([]dto.Status, error) {
	q := pageQuery(params)
	setFlag(q, "local", filters.Local)
	setFlag(q, "remote", filters.Remote)
	setFlag(q, "only_media", filters.OnlyMedia)
	return api.statuses(ctx, "timelines.public", "/api/v1/timelines/public", q)
}

func (api *timelinesApi) List(ctx context.Context, listId string, params dto.PageParams) ([]dto.Status, error) {
	return api.statuses(ctx, "timelines.list", "/api/v1/timelines/list/"+url.PathEscape(listId), pageQuery(params))
}

func (api *timelinesApi) Tag(ctx context.Context, tag string, params dto.PageParams, local bool) ([]dto.Status, error) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	q := pageQuery(params)
	setFlag(q, "local", local)
	return api.statuses(ctx, "timelines.tag", "/api/v1/timelines/tag/"+url.PathEscape(tag), q)
}
