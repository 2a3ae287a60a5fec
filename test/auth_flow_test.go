package test

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ghostodon/dal"
	"ghostodon/logic"
	"ghostodon/shared"
	"ghostodon/test/mocks"
)

const testPublicUrl = "https://app.example"

type authFlowHarness struct {
	cfg           *shared.Config
	mockLogger    *mocks.MockILogger
	mockMetrics   *mocks.MockIMetrics
	mockUserAgent *mocks.MockIUserAgent
	repo          dal.IRepo
	sessions      logic.ISessionManager
	instance      *fakeInstance
}

func setupAuthFlowTest(t *testing.T) (*gomock.Controller, *authFlowHarness, logic.IAuthFlow) {

	ctrl := gomock.NewController(t)

	h := &authFlowHarness{
		cfg: &shared.Config{
			PublicUrl: testPublicUrl,
			DbFile:    filepath.Join(t.TempDir(), "ghostodon.db"),
		},
		mockLogger:    mocks.NewMockILogger(ctrl),
		mockMetrics:   mocks.NewMockIMetrics(ctrl),
		mockUserAgent: mocks.NewMockIUserAgent(ctrl),
		instance:      newFakeInstance(),
	}
	h.cfg.ApplyDefaults()
	setupDummyLogger(h.mockLogger)
	setupDummyMetrics(ctrl, h.mockMetrics)
	setupDummyUserAgent(h.mockUserAgent)

	h.repo = dal.NewRepo(h.cfg, log.New(io.Discard))
	h.repo.InitUpdateDb()
	t.Cleanup(func() {
		h.instance.Close()
		_ = h.repo.Close()
	})

	h.sessions = logic.NewSessionManager(h.mockLogger, h.repo, h.mockMetrics)
	rf := logic.NewRestFactory(h.cfg, h.mockLogger, h.mockMetrics, h.mockUserAgent)
	af := logic.NewAuthFlow(h.cfg, h.mockLogger, h.repo, h.mockMetrics, rf, h.sessions)

	return ctrl, h, af
}

func (h *authFlowHarness) scriptHappyInstance() {
	h.instance.json("POST", "/api/v1/apps", 200, `{"id":"1","name":"Ghostodon","client_id":"cid","client_secret":"csec"}`)
	h.instance.json("POST", "/oauth/token", 200, `{"access_token":"tok-abc123","token_type":"Bearer","scope":"read write follow"}`)
	h.instance.handle("GET", "/api/v1/accounts/verify_credentials", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc123" {
			writeRaw(w, 401, `{"error":"The access token is invalid"}`)
			return
		}
		writeRaw(w, 200, accountJson("1001", "alice"))
	})
}

func TestPkceLoginRoundTrip(t *testing.T) {
	ctrl, h, af := setupAuthFlowTest(t)
	defer ctrl.Finish()
	h.scriptHappyInstance()

	ctx := context.Background()
	authorizeUrl, err := af.BeginLogin(ctx, h.instance.origin()+"/")
	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(authorizeUrl, h.instance.origin()+"/oauth/authorize?"))

	parsed, err := url.Parse(authorizeUrl)
	require.Nil(t, err)
	q := parsed.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, testPublicUrl+"/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "read write follow", q.Get("scope"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("state"))
	assert.NotEmpty(t, q.Get("code_challenge"))

	appReq := h.instance.last("/api/v1/apps")
	require.NotNil(t, appReq)
	appForm, _ := url.ParseQuery(appReq.body)
	assert.Equal(t, "Ghostodon", appForm.Get("client_name"))
	assert.Equal(t, testPublicUrl+"/auth/callback", appForm.Get("redirect_uris"))
	assert.Equal(t, "Ghostodon/test", appReq.header.Get("User-Agent"))

	// The browser comes back with the code and our state
	account, err := af.FinishLogin(ctx, url.Values{"code": {"the-code"}, "state": {q.Get("state")}})
	require.Nil(t, err)
	assert.Equal(t, "1001", account.Id)
	assert.Equal(t, "alice", account.Acct)

	tokenReq := h.instance.last("/oauth/token")
	require.NotNil(t, tokenReq)
	tokenForm, _ := url.ParseQuery(tokenReq.body)
	assert.Equal(t, "authorization_code", tokenForm.Get("grant_type"))
	assert.Equal(t, "the-code", tokenForm.Get("code"))
	assert.Equal(t, "csec", tokenForm.Get("client_secret"))
	sum := sha256.Sum256([]byte(tokenForm.Get("code_verifier")))
	assert.Equal(t, q.Get("code_challenge"), base64.RawURLEncoding.EncodeToString(sum[:]))

	sess, ok := h.sessions.Get()
	assert.True(t, ok)
	assert.Equal(t, h.instance.origin(), sess.Origin)
	assert.Equal(t, "tok-abc123", sess.Token)
	assert.Equal(t, "1001", sess.AccountId)

	// Persisted, and the handshake is gone
	stored, err := h.repo.GetSession()
	assert.Nil(t, err)
	assert.Equal(t, "tok-abc123", stored.Token)
	hs, err := h.repo.TakeHandshake()
	assert.Nil(t, err)
	assert.Nil(t, hs)

	entries, err := h.repo.GetAuthLog(20)
	assert.Nil(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, string(logic.StageVerified), entries[0].Stage)
}

func TestPkceStateMismatchSetsNoSession(t *testing.T) {
	ctrl, h, af := setupAuthFlowTest(t)
	defer ctrl.Finish()
	h.scriptHappyInstance()

	ctx := context.Background()
	_, err := af.BeginLogin(ctx, h.instance.origin())
	require.Nil(t, err)

	_, err = af.FinishLogin(ctx, url.Values{"code": {"the-code"}, "state": {"forged"}})
	assert.ErrorIs(t, err, logic.ErrStateMismatch)
	assert.Equal(t, shared.KindAuth, shared.KindOf(err))
	assert.Equal(t, 0, h.instance.hits("/oauth/token"))
	_, ok := h.sessions.Get()
	assert.False(t, ok)

	// The handshake was consumed by the failed attempt
	_, err = af.FinishLogin(ctx, url.Values{"code": {"the-code"}, "state": {"forged"}})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "OAuth state not found")
}

func TestCallbackReportsOAuthError(t *testing.T) {
	ctrl, h, af := setupAuthFlowTest(t)
	defer ctrl.Finish()

	_, err := af.FinishLogin(context.Background(), url.Values{
		"error":             {"access_denied"},
		"error_description": {"The user denied access"},
	})
	assert.NotNil(t, err)
	assert.Equal(t, shared.KindAuth, shared.KindOf(err))
	assert.Contains(t, err.Error(), "access_denied")
	assert.Contains(t, err.Error(), "The user denied access")
	assert.Equal(t, 0, h.instance.hits("/oauth/token"))
}

func TestCallbackWithoutCode(t *testing.T) {
	ctrl, _, af := setupAuthFlowTest(t)
	defer ctrl.Finish()

	_, err := af.FinishLogin(context.Background(), url.Values{"state": {"abc"}})
	assert.NotNil(t, err)
	assert.Equal(t, "Missing code/state in callback.", err.Error())
}

func TestTokenExchangeFailure(t *testing.T) {
	ctrl, h, af := setupAuthFlowTest(t)
	defer ctrl.Finish()
	h.instance.json("POST", "/api/v1/apps", 200, `{"client_id":"cid","client_secret":"csec"}`)
	h.instance.json("POST", "/oauth/token", 400, `{"error":"invalid_grant","error_description":"The provided authorization grant is invalid"}`)

	ctx := context.Background()
	authorizeUrl, err := af.BeginLogin(ctx, h.instance.origin())
	require.Nil(t, err)
	parsed, _ := url.Parse(authorizeUrl)

	_, err = af.FinishLogin(ctx, url.Values{"code": {"stale"}, "state": {parsed.Query().Get("state")}})
	assert.NotNil(t, err)
	assert.Equal(t, shared.KindAuth, shared.KindOf(err))
	assert.Contains(t, err.Error(), "authorization grant is invalid")
	_, ok := h.sessions.Get()
	assert.False(t, ok)
}

func TestBeginLoginNeedsPublicUrl(t *testing.T) {
	ctrl, h, af := setupAuthFlowTest(t)
	defer ctrl.Finish()
	h.cfg.PublicUrl = ""

	_, err := af.BeginLogin(context.Background(), h.instance.origin())
	assert.Equal(t, shared.KindConfig, shared.KindOf(err))
	assert.Equal(t, 0, h.instance.hits("/api/v1/apps"))
}

func TestBeginLoginRejectsBadOrigin(t *testing.T) {
	ctrl, _, af := setupAuthFlowTest(t)
	defer ctrl.Finish()

	_, err := af.BeginLogin(context.Background(), "  ")
	assert.Equal(t, shared.KindConfig, shared.KindOf(err))

	_, err = af.BeginLogin(context.Background(), "ftp://example.com")
	assert.Equal(t, shared.KindConfig, shared.KindOf(err))
}

func TestConnectWithToken(t *testing.T) {
	ctrl, h, af := setupAuthFlowTest(t)
	defer ctrl.Finish()
	h.scriptHappyInstance()

	account, err := af.ConnectWithToken(context.Background(), h.instance.origin()+"/about", "  tok-abc123 ")
	require.Nil(t, err)
	assert.Equal(t, "alice", account.Acct)

	sess, ok := h.sessions.Get()
	assert.True(t, ok)
	assert.Equal(t, h.instance.origin(), sess.Origin)
	assert.Equal(t, "tok-abc123", sess.Token)
}

func TestConnectWithBadToken(t *testing.T) {
	ctrl, h, af := setupAuthFlowTest(t)
	defer ctrl.Finish()
	h.scriptHappyInstance()

	_, err := af.ConnectWithToken(context.Background(), h.instance.origin(), "nope")
	assert.NotNil(t, err)
	assert.Equal(t, shared.KindAuth, shared.KindOf(err))
	assert.Contains(t, err.Error(), "401")
	_, ok := h.sessions.Get()
	assert.False(t, ok)

	_, err = af.ConnectWithToken(context.Background(), h.instance.origin(), "   ")
	assert.Equal(t, shared.KindAuth, shared.KindOf(err))
	assert.Equal(t, 1, h.instance.hits("/api/v1/accounts/verify_credentials"))
}
