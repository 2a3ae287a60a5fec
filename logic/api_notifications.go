package logic

import (
	"context"
	"net/http"
	"net/url"

	"ghostodon/dto"
)

type INotificationsApi interface {
	List(ctx context.Context, params dto.PageParams) ([]dto.Notification, error)
	Dismiss(ctx context.Context, id string) error
	DismissAll(ctx context.Context) error
}

type notificationsApi struct {
	*apiBase
}

func (api *notificationsApi) List(ctx context.Context, params dto.PageParams) ([]dto.Notification, error) {
	raw, err := api.call(ctx, "notifications.list", &ApiCall{
		Method: http.MethodGet,
		Path:   "/api/v1/notifications",
		Query:  pageQuery(params),
	})
	if err != nil {
		return nil, err
	}
	return dto.NormalizeNotifications(raw), nil
}

func (api *notificationsApi) Dismiss(ctx context.Context, id string) error {
	_, err := api.call(ctx, "notifications.dismiss", &ApiCall{
		Method: http.MethodPost,
		Path:   "/api/v1/notifications/" + url.PathEscape(id) + "/dismiss",
	})
	return err
}

func (api *notificationsApi) DismissAll(ctx context.Context) error {
	_, err := api.call(ctx, "notifications.dismissAll", &ApiCall{
		Method: http.MethodPost,
		Path:   "/api/v1/notifications/clear",
	})
	return err
}
