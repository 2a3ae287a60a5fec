package logic

import (
	"context"
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"ghostodon/dal"
	"ghostodon/dto"
	"ghostodon/shared"
)

type AuthStage string

const (
	StageIdle             AuthStage = "idle"
	StageAppRegistered    AuthStage = "app_registered"
	StagePkceStarted      AuthStage = "pkce_started"
	StageCallbackReceived AuthStage = "callback_received"
	StageTokenExchanged   AuthStage = "token_exchanged"
	StageVerified         AuthStage = "verified"
	StageOAuthError       AuthStage = "oauth_error"
	StageStateMismatch    AuthStage = "state_mismatch"
	StageExchangeFailed   AuthStage = "exchange_failed"
)

const (
	msgMissingCodeState = "Missing code/state in callback."
	msgStateNotFound    = "OAuth state not found (storage cleared?). Go back to Login and try again."
	msgStateMismatch    = "OAuth state mismatch. Refusing to continue."
)

// ErrStateMismatch is fatal: the callback does not belong to the flow we started.
var ErrStateMismatch = shared.NewError(shared.KindAuth, msgStateMismatch)

type IAuthFlow interface {
	RegisterApp(ctx context.Context, origin, appName, redirectUri string, scopes []string, website string) (*dto.OAuthApp, error)
	PkceStart(app *dto.OAuthApp, origin, redirectUri string, scopes []string) (hs *dto.Handshake, authorizeUrl string, err error)
	PkceFinish(ctx context.Context, app *dto.OAuthApp, origin, redirectUri, code, verifier string) (token string, err error)
	ManualConnect(ctx context.Context, origin, token string) (dto.Session, *dto.Account, error)
	CompleteCallback(ctx context.Context, hs *dto.Handshake, params url.Values) (dto.Session, *dto.Account, error)
	// BeginLogin registers an app, starts PKCE and persists the handshake. Returns the URL to send the browser to.
	BeginLogin(ctx context.Context, origin string) (authorizeUrl string, err error)
	// FinishLogin consumes the persisted handshake, completes the callback and sets the session.
	FinishLogin(ctx context.Context, params url.Values) (*dto.Account, error)
	// ConnectWithToken verifies a pasted token and sets the session.
	ConnectWithToken(ctx context.Context, origin, token string) (*dto.Account, error)
}

type authFlow struct {
	cfg      *shared.Config
	logger   shared.ILogger
	repo     dal.IRepo
	metrics  IMetrics
	rf       IRestFactory
	sessions ISessionManager
}

func NewAuthFlow(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	metrics IMetrics,
	rf IRestFactory,
	sessions ISessionManager,
) IAuthFlow {
	return &authFlow{cfg, logger, repo, metrics, rf, sessions}
}

func (af *authFlow) stage(origin, handshakeId string, stage AuthStage, detail string) {
	af.metrics.AuthOutcome(string(stage))
	af.logger.Debugf("Auth %s: %s %s", stage, origin, detail)
	err := af.repo.AddAuthLogEntry(&dal.AuthLogEntry{
		LoggedAt:  time.Now().UTC(),
		Origin:    origin,
		Stage:     string(stage),
		Handshake: handshakeId,
		Detail:    detail,
	})
	if err != nil {
		af.logger.Warnf("Failed to write auth log entry: %v", err)
	}
}

func (af *authFlow) RegisterApp(
	ctx context.Context,
	origin, appName, redirectUri string,
	scopes []string,
	website string,
) (*dto.OAuthApp, error) {

	form := url.Values{}
	form.Set("client_name", appName)
	form.Set("redirect_uris", redirectUri)
	form.Set("scopes", strings.Join(scopes, " "))
	if website != "" {
		form.Set("website", website)
	}
	raw, err := af.rf.New(origin, "").Do(ctx, &ApiCall{
		Label:  "auth.registerApp",
		Method: http.MethodPost,
		Path:   "/api/v1/apps",
		Form:   form,
	})
	if err != nil {
		return nil, shared.Wrap(err, shared.KindAuth, "registerApp failed")
	}
	obj, _ := raw.(map[string]any)
	clientId, _ := obj["client_id"].(string)
	clientSecret, _ := obj["client_secret"].(string)
	if clientId == "" || clientSecret == "" {
		return nil, shared.NewError(shared.KindAuth, "registerApp failed: no client credentials in response")
	}
	af.stage(origin, "", StageAppRegistered, clientId)
	return &dto.OAuthApp{
		ClientId:     clientId,
		ClientSecret: clientSecret,
		RedirectUri:  redirectUri,
		Name:         appName,
		Website:      website,
	}, nil
}

func (af *authFlow) PkceStart(
	app *dto.OAuthApp,
	origin, redirectUri string,
	scopes []string,
) (*dto.Handshake, string, error) {

	state, err := randomString(stateBytes)
	if err != nil {
		return nil, "", shared.Wrap(err, shared.KindAuth, "pkceStart failed")
	}
	verifier, err := randomString(verifierBytes)
	if err != nil {
		return nil, "", shared.Wrap(err, shared.KindAuth, "pkceStart failed")
	}
	hs := &dto.Handshake{
		Id:          uuid.NewString(),
		Origin:      origin,
		RedirectUri: redirectUri,
		Scopes:      append([]string{}, scopes...),
		App:         *app,
		State:       state,
		Verifier:    verifier,
		CreatedAt:   time.Now().UnixMilli(),
	}
	authorizeUrl := buildAuthorizeUrl(origin, app, redirectUri, scopes, state, codeChallenge(verifier))
	return hs, authorizeUrl, nil
}

func (af *authFlow) PkceFinish(
	ctx context.Context,
	app *dto.OAuthApp,
	origin, redirectUri, code, verifier string,
) (string, error) {

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", app.ClientId)
	form.Set("client_secret", app.ClientSecret)
	form.Set("redirect_uri", redirectUri)
	form.Set("code", code)
	form.Set("code_verifier", verifier)
	raw, err := af.rf.New(origin, "").Do(ctx, &ApiCall{
		Label:  "auth.token",
		Method: http.MethodPost,
		Path:   "/oauth/token",
		Form:   form,
	})
	if err != nil {
		return "", shared.Wrap(err, shared.KindAuth, "pkceFinish failed")
	}
	obj, _ := raw.(map[string]any)
	token, _ := obj["access_token"].(string)
	if token == "" {
		return "", shared.NewError(shared.KindAuth, "pkceFinish failed: no access token in response")
	}
	return token, nil
}

func (af *authFlow) ManualConnect(ctx context.Context, origin, token string) (dto.Session, *dto.Account, error) {

	origin, err := shared.NormalizeOrigin(origin)
	if err != nil {
		return dto.Session{}, nil, shared.Wrap(err, shared.KindConfig, "manualConnect failed")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return dto.Session{}, nil, shared.NewError(shared.KindAuth, "manualConnect failed: empty access token")
	}
	raw, err := af.rf.New(origin, token).Do(ctx, &ApiCall{
		Label:  "accounts.verify",
		Method: http.MethodGet,
		Path:   "/api/v1/accounts/verify_credentials",
	})
	if err != nil {
		return dto.Session{}, nil, shared.Wrap(err, shared.KindAuth, "manualConnect failed")
	}
	account := dto.NormalizeAccount(raw)
	if account.Id == "" {
		return dto.Session{}, nil, shared.NewError(shared.KindAuth, "manualConnect failed: credentials did not return an account")
	}
	sess := dto.Session{
		Origin:    origin,
		Token:     token,
		AccountId: account.Id,
		Acct:      account.Acct,
	}
	return sess, &account, nil
}

func (af *authFlow) CompleteCallback(
	ctx context.Context,
	hs *dto.Handshake,
	params url.Values,
) (dto.Session, *dto.Account, error) {

	var origin, hsId string
	if hs != nil {
		origin, hsId = hs.Origin, hs.Id
	}

	if oauthErr := params.Get("error"); oauthErr != "" {
		af.stage(origin, hsId, StageOAuthError, oauthErr)
		err := shared.NewError(shared.KindAuth, "OAuth error: "+oauthErr)
		if desc := params.Get("error_description"); desc != "" {
			err.Message += " (" + desc + ")"
		}
		return dto.Session{}, nil, err
	}
	code := params.Get("code")
	state := params.Get("state")
	if code == "" || state == "" {
		af.stage(origin, hsId, StageOAuthError, "missing code or state")
		return dto.Session{}, nil, shared.NewError(shared.KindAuth, msgMissingCodeState)
	}
	if hs == nil {
		af.stage("", "", StageOAuthError, "no pending handshake")
		return dto.Session{}, nil, shared.NewError(shared.KindAuth, msgStateNotFound)
	}
	if subtle.ConstantTimeCompare([]byte(state), []byte(hs.State)) != 1 {
		af.stage(origin, hsId, StageStateMismatch, "")
		af.logger.Warnf("OAuth state mismatch for handshake %s at %s", hsId, origin)
		return dto.Session{}, nil, ErrStateMismatch
	}
	af.stage(origin, hsId, StageCallbackReceived, "")

	token, err := af.PkceFinish(ctx, &hs.App, hs.Origin, hs.RedirectUri, code, hs.Verifier)
	if err != nil {
		af.stage(origin, hsId, StageExchangeFailed, err.Error())
		return dto.Session{}, nil, err
	}
	af.stage(origin, hsId, StageTokenExchanged, "")

	sess, account, err := af.ManualConnect(ctx, hs.Origin, token)
	if err != nil {
		af.stage(origin, hsId, StageExchangeFailed, err.Error())
		return dto.Session{}, nil, err
	}
	af.stage(origin, hsId, StageVerified, account.Acct)
	return sess, account, nil
}

func (af *authFlow) BeginLogin(ctx context.Context, origin string) (string, error) {

	origin, err := shared.NormalizeOrigin(origin)
	if err != nil {
		return "", shared.Wrap(err, shared.KindConfig, "Enter a Mastodon instance (example: mastodon.social).")
	}
	if af.cfg.PublicUrl == "" {
		return "", shared.NewError(shared.KindConfig, "public_url is not configured; OAuth needs a redirect URI")
	}
	redirectUri := af.cfg.RedirectUri()

	app, err := af.RegisterApp(ctx, origin, af.cfg.AppName, redirectUri, af.cfg.Scopes, af.cfg.AppWebsite)
	if err != nil {
		return "", err
	}
	hs, authorizeUrl, err := af.PkceStart(app, origin, redirectUri, af.cfg.Scopes)
	if err != nil {
		return "", err
	}
	if err = af.repo.SaveHandshake(handshakeToDal(hs)); err != nil {
		return "", shared.Wrap(err, shared.KindUnknown, "failed to store OAuth state")
	}
	af.stage(origin, hs.Id, StagePkceStarted, "")
	return authorizeUrl, nil
}

func (af *authFlow) FinishLogin(ctx context.Context, params url.Values) (*dto.Account, error) {

	// Consumed before validation: a handshake can be used at most once, whatever the outcome.
	stored, err := af.repo.TakeHandshake()
	if err != nil {
		return nil, shared.Wrap(err, shared.KindUnknown, "failed to read OAuth state")
	}
	sess, account, err := af.CompleteCallback(ctx, handshakeFromDal(stored), params)
	if err != nil {
		return nil, err
	}
	if err = af.sessions.Set(sess); err != nil {
		return nil, err
	}
	return account, nil
}

func (af *authFlow) ConnectWithToken(ctx context.Context, origin, token string) (*dto.Account, error) {
	sess, account, err := af.ManualConnect(ctx, origin, token)
	if err != nil {
		af.stage(origin, "", StageExchangeFailed, err.Error())
		return nil, err
	}
	if err = af.sessions.Set(sess); err != nil {
		return nil, err
	}
	af.stage(sess.Origin, "", StageVerified, account.Acct)
	return account, nil
}

func handshakeToDal(hs *dto.Handshake) *dal.Handshake {
	return &dal.Handshake{
		Id:           hs.Id,
		Origin:       hs.Origin,
		RedirectUri:  hs.RedirectUri,
		Scopes:       hs.Scopes,
		ClientId:     hs.App.ClientId,
		ClientSecret: hs.App.ClientSecret,
		AppName:      hs.App.Name,
		AppWebsite:   hs.App.Website,
		State:        hs.State,
		Verifier:     hs.Verifier,
		CreatedAt:    time.UnixMilli(hs.CreatedAt).UTC(),
	}
}

func handshakeFromDal(hs *dal.Handshake) *dto.Handshake {
	if hs == nil {
		return nil
	}
	return &dto.Handshake{
		Id:          hs.Id,
		Origin:      hs.Origin,
		RedirectUri: hs.RedirectUri,
		Scopes:      hs.Scopes,
		App: dto.OAuthApp{
			ClientId:     hs.ClientId,
			ClientSecret: hs.ClientSecret,
			RedirectUri:  hs.RedirectUri,
			Name:         hs.AppName,
			Website:      hs.AppWebsite,
		},
		State:     hs.State,
		Verifier:  hs.Verifier,
		CreatedAt: hs.CreatedAt.UnixMilli(),
	}
}
