package logic

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ghostodon/dto"
)

type IInstanceApi interface {
	// Get prefers /api/v2/instance and falls back to v1 on servers that lack it.
	Get(ctx context.Context) (dto.Instance, error)
}

type DirectoryParams struct {
	Limit  int
	Offset int
	Order  string // "active" or "new"
	Local  bool
}

type IDirectoryApi interface {
	List(ctx context.Context, params DirectoryParams) ([]dto.Account, error)
}

type ITrendsApi interface {
	Tags(ctx context.Context, limit int) ([]dto.Tag, error)
}

type instanceApi struct {
	*apiBase
}

type directoryApi struct {
	*apiBase
}

type trendsApi struct {
	*apiBase
}

func (api *instanceApi) Get(ctx context.Context) (dto.Instance, error) {
	raw, err := api.call(ctx, "instance.get", &ApiCall{Method: http.MethodGet, Path: "/api/v2/instance"})
	if err != nil {
		var v1Err error
		raw, v1Err = api.call(ctx, "instance.get", &ApiCall{Method: http.MethodGet, Path: "/api/v1/instance"})
		if v1Err != nil {
			return dto.Instance{}, err
		}
	}
	return dto.NormalizeInstance(raw), nil
}

func (api *directoryApi) List(ctx context.Context, params DirectoryParams) ([]dto.Account, error) {
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.Order != "" {
		q.Set("order", params.Order)
	}
	setFlag(q, "local", params.Local)
	raw, err := api.call(ctx, "directory.list", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v1/directory",
		Query:  q,
	})
	if err != nil {
		return nil, err
	}
	return dto.NormalizeAccounts(raw), nil
}

func (api *trendsApi) Tags(ctx context.Context, limit int) ([]dto.Tag, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	raw, err := api.call(ctx, "trends.tags", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v1/trends/tags",
		Query:  q,
	})
	if err != nil {
		return nil, err
	}
	return dto.NormalizeTags(raw), nil
}
