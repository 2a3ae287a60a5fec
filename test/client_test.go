package test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ghostodon/dto"
	"ghostodon/logic"
	"ghostodon/shared"
	"ghostodon/test/mocks"
)

type clientHarness struct {
	cfg         *shared.Config
	mockLogger  *mocks.MockILogger
	mockMetrics *mocks.MockIMetrics
	instance    *fakeInstance
	rf          logic.IRestFactory
}

func setupClientTest(t *testing.T) (*gomock.Controller, *clientHarness, *logic.Client) {

	ctrl := gomock.NewController(t)

	h := &clientHarness{
		cfg:         &shared.Config{},
		mockLogger:  mocks.NewMockILogger(ctrl),
		mockMetrics: mocks.NewMockIMetrics(ctrl),
		instance:    newFakeInstance(),
	}
	h.cfg.ApplyDefaults()
	mockUserAgent := mocks.NewMockIUserAgent(ctrl)
	setupDummyLogger(h.mockLogger)
	setupDummyMetrics(ctrl, h.mockMetrics)
	setupDummyUserAgent(mockUserAgent)
	t.Cleanup(h.instance.Close)

	h.rf = logic.NewRestFactory(h.cfg, h.mockLogger, h.mockMetrics, mockUserAgent)
	sess := dto.Session{Origin: h.instance.origin(), Token: "tok1", AccountId: "1", Acct: "me"}
	client := logic.NewClient(sess, h.rf.New(sess.Origin, sess.Token), nil)
	return ctrl, h, client
}

func TestFailuresAreTaggedWithOperation(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v1/statuses/{id}", 500, `{"error":"Something went wrong"}`)

	_, err := client.Statuses.Get(context.Background(), "77")
	require.NotNil(t, err)

	var tagged *shared.TaggedError
	require.True(t, errors.As(err, &tagged))
	assert.Equal(t, shared.KindHttp, tagged.Kind)
	assert.Equal(t, "statuses.get failed", tagged.Message)
	assert.Equal(t, http.StatusInternalServerError, tagged.HttpStatus)
	assert.Contains(t, err.Error(), "Something went wrong")
}

func TestRequestsCarryBearerToken(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v1/timelines/home", 200, `[]`)

	items, err := client.Timelines.Home(context.Background(), dto.PageParams{Limit: 20, MaxId: "99"})
	assert.Nil(t, err)
	assert.Empty(t, items)

	req := h.instance.last("/api/v1/timelines/home")
	require.NotNil(t, req)
	assert.Equal(t, "Bearer tok1", req.header.Get("Authorization"))
	assert.Equal(t, "20", req.query.Get("limit"))
	assert.Equal(t, "99", req.query.Get("max_id"))
}

func TestPublicTimelineFlags(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v1/timelines/public", 200,
		`[{"id":"5","created_at":"2024-01-02T03:04:05.000Z","content":"<p>hi</p>","account":`+accountJson("9", "zed")+`}]`)

	items, err := client.Timelines.Public(context.Background(), dto.PageParams{Limit: 10}, logic.PublicFilters{Local: true})
	require.Nil(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "zed", items[0].Account.Acct)

	req := h.instance.last("/api/v1/timelines/public")
	assert.Equal(t, "true", req.query.Get("local"))
	assert.Equal(t, "", req.query.Get("remote"))
}

func TestTagTimelineStripsHash(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v1/timelines/tag/{tag}", 200, `[]`)

	_, err := client.Timelines.Tag(context.Background(), " #caturday", dto.PageParams{Limit: 5}, false)
	assert.Nil(t, err)
	assert.NotNil(t, h.instance.last("/api/v1/timelines/tag/caturday"))
}

func TestLookupFallsBackToLegacySearch(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v1/accounts/search", 200, `[`+accountJson("12", "Bob@example.social")+`]`)

	acct, err := client.Accounts.Lookup(context.Background(), "@bob@example.social")
	require.Nil(t, err)
	assert.Equal(t, "12", acct.Id)
	assert.Equal(t, 1, h.instance.hits("/api/v1/accounts/lookup"))
	assert.Equal(t, "1", h.instance.last("/api/v1/accounts/search").query.Get("limit"))
}

func TestLookupLegacyNeedsExactMatch(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v1/accounts/search", 200, `[`+accountJson("12", "bobby@example.social")+`]`)

	_, err := client.Accounts.Lookup(context.Background(), "bob@example.social")
	require.NotNil(t, err)
	assert.Equal(t, "accounts.lookup failed", err.(*shared.TaggedError).Message)
	assert.Equal(t, http.StatusNotFound, err.(*shared.TaggedError).HttpStatus)
}

func TestInstanceFallsBackToV1(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v1/instance", 200,
		`{"title":"Old Town","version":"3.5.3","short_description":"<b>small</b>","urls":{"streaming_api":"wss://stream.old.town"}}`)

	inst, err := client.Instance.Get(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "Old Town", inst.Title)
	assert.Equal(t, "wss://stream.old.town", inst.StreamingBase)
	assert.Equal(t, 1, h.instance.hits("/api/v2/instance"))
}

func TestComposePostSendsJson(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("POST", "/api/v1/statuses", 200, `{"id":"300","content":"<p>hello</p>","visibility":"unlisted","account":`+accountJson("1", "me")+`}`)

	status, err := client.Compose.Post(context.Background(), dto.StatusPayload{
		Status:     "hello",
		Visibility: dto.VisUnlisted,
		MediaIds:   []string{"m1"},
	})
	require.Nil(t, err)
	assert.Equal(t, "300", status.Id)
	assert.Equal(t, dto.VisUnlisted, status.Visibility)

	req := h.instance.last("/api/v1/statuses")
	assert.True(t, strings.HasPrefix(req.header.Get("Content-Type"), "application/json"))
	var sent map[string]any
	require.Nil(t, json.Unmarshal([]byte(req.body), &sent))
	assert.Equal(t, "hello", sent["status"])
	assert.Equal(t, "unlisted", sent["visibility"])
	assert.Equal(t, []any{"m1"}, sent["media_ids"])
	assert.NotContains(t, sent, "in_reply_to_id")
}

func TestMediaUploadIsMultipart(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.handle("POST", "/api/v2/media", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeRaw(w, 422, `{"error":"bad form"}`)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeRaw(w, 422, `{"error":"no file"}`)
			return
		}
		_ = file.Close()
		if header.Filename != "cat.png" || r.FormValue("description") != "a cat" {
			writeRaw(w, 422, `{"error":"wrong fields"}`)
			return
		}
		writeRaw(w, 202, `{"id":"m1","type":"image","url":null,"preview_url":"https://cdn.example/m1.png","description":"a cat"}`)
	})

	media, err := client.Compose.MediaUpload(context.Background(), strings.NewReader("PNGDATA"), "cat.png", "a cat")
	require.Nil(t, err)
	assert.Equal(t, "m1", media.Id)
	assert.Equal(t, "https://cdn.example/m1.png", media.PreviewUrl)
	require.NotNil(t, media.Description)
	assert.Equal(t, "a cat", *media.Description)
}

func TestMediaUploadWithoutOrigin(t *testing.T) {
	ctrl, h, _ := setupClientTest(t)
	defer ctrl.Finish()

	client := logic.NewClient(dto.Session{Token: "tok1"}, h.rf.New("", "tok1"), nil)
	_, err := client.Compose.MediaUpload(context.Background(), strings.NewReader("x"), "x.png", "")
	require.NotNil(t, err)
	assert.Equal(t, shared.KindConfig, shared.KindOf(err))
	assert.Equal(t, "mediaUpload: missing base URL", err.Error())
}

func TestListMembership(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v1/lists/{id}/accounts", 200, `[`+accountJson("3", "x")+`,`+accountJson("4", "y")+`]`)
	h.instance.json("DELETE", "/api/v1/lists/{id}/accounts", 200, `{}`)

	members, err := client.Lists.Accounts(context.Background(), "8")
	require.Nil(t, err)
	assert.Equal(t, []string{"3", "4"}, ids(members))
	assert.Equal(t, "0", h.instance.last("/api/v1/lists/8/accounts").query.Get("limit"))

	err = client.Lists.RemoveAccounts(context.Background(), "8", []string{"3", "4"})
	assert.Nil(t, err)
	req := h.instance.last("/api/v1/lists/8/accounts")
	assert.Equal(t, "DELETE", req.method)
	assert.Equal(t, []string{"3", "4"}, req.query["account_ids[]"])
}

func TestNotificationsNormalize(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v1/notifications", 200,
		`[{"id":"n1","type":"follow","created_at":"2024-01-01T00:00:00Z","account":`+accountJson("2", "fan")+`},{"id":"n2","type":"mention"}]`)

	items, err := client.Notifications.List(context.Background(), dto.PageParams{Limit: 20})
	require.Nil(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "fan", items[0].Account.Acct)
	assert.Nil(t, items[0].Status)
	assert.Nil(t, items[1].Account)
}
