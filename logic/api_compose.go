package logic

import (
	"context"
	"io"
	"net/http"

	"ghostodon/dto"
	"ghostodon/shared"
)

type IComposeApi interface {
	Post(ctx context.Context, payload dto.StatusPayload) (dto.Status, error)
	// MediaUpload posts to /api/v2/media and returns the attachment. Processing may still be running.
	MediaUpload(ctx context.Context, file io.Reader, fileName, description string) (dto.Media, error)
}

type composeApi struct {
	*apiBase
}

func (api *composeApi) Post(ctx context.Context, payload dto.StatusPayload) (dto.Status, error) {
	raw, err := api.call(ctx, "compose.post", &ApiCall{
		Method: http.MethodPost,
		Path:   "/api/v1/statuses",
		Json:   payload,
	})
	if err != nil {
		return dto.Status{}, err
	}
	return dto.NormalizeStatus(raw), nil
}

func (api *composeApi) MediaUpload(ctx context.Context, file io.Reader, fileName, description string) (dto.Media, error) {
	if api.rest.Origin() == "" {
		return dto.Media{}, shared.NewError(shared.KindConfig, "mediaUpload: missing base URL")
	}
	if fileName == "" {
		fileName = "upload"
	}
	upload := &UploadFile{
		Field:    "file",
		FileName: fileName,
		Reader:   file,
	}
	if description != "" {
		upload.Fields = map[string]string{"description": description}
	}
	raw, err := api.call(ctx, "compose.mediaUpload", &ApiCall{
		Method: http.MethodPost,
		Path:   "/api/v2/media",
		File:   upload,
	})
	if err != nil {
		return dto.Media{}, err
	}
	return dto.NormalizeMedia(raw), nil
}
