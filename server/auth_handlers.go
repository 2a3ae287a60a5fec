package server

import (
	"fmt"
	"net/http"
	"strings"

	"ghostodon/dto"
	"ghostodon/logic"
	"ghostodon/shared"
	"ghostodon/texts"
)

// Browser-facing OAuth endpoints. They answer with HTML pages, not JSON,
// because the instance redirects the user's browser straight to them.
type authHandlerGroup struct {
	cfg      *shared.Config
	logger   shared.ILogger
	auth     logic.IAuthFlow
	sessions logic.ISessionManager
	blocked  logic.IBlockedInstances
	texts    texts.ITexts
}

func NewAuthHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	auth logic.IAuthFlow,
	sessions logic.ISessionManager,
	blocked logic.IBlockedInstances,
	txt texts.ITexts,
) IHandlerGroup {
	res := authHandlerGroup{
		cfg:      cfg,
		logger:   logger,
		auth:     auth,
		sessions: sessions,
		blocked:  blocked,
		texts:    txt,
	}
	return &res
}

func (hg *authHandlerGroup) Prefix() string {
	return "/auth"
}

func (hg *authHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/login", func(w http.ResponseWriter, r *http.Request) { hg.getLogin(w, r) }},
		{"GET", "/callback", func(w http.ResponseWriter, r *http.Request) { hg.getCallback(w, r) }},
		{"POST", "/token", func(w http.ResponseWriter, r *http.Request) { hg.postToken(w, r) }},
	}
}

func (hg *authHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return emptyMW
}

func (hg *authHandlerGroup) writePage(w http.ResponseWriter, status int, title, bodyId string, vals map[string]string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := fmt.Fprint(w, texts.Page(hg.texts, title, bodyId, vals)); err != nil {
		hg.logger.Warnf("Failed to write page %s: %v", bodyId, err)
	}
}

func (hg *authHandlerGroup) writeFailure(w http.ResponseWriter, err error) {
	resp := errorToResp(err)
	hg.writePage(w, resp.Status, "Login failed", "callback_failed.html", map[string]string{
		"error": err.Error(),
	})
}

func (hg *authHandlerGroup) writeSuccess(w http.ResponseWriter, r *http.Request, origin string, account *dto.Account) {
	if wantsJson(r) {
		writeJsonResponse(hg.logger, w, account)
		return
	}
	hg.writePage(w, http.StatusOK, "Connected", "callback_ok.html", map[string]string{
		"acct":   account.Acct,
		"origin": origin,
		"next":   "/",
	})
}

// checkBlocked fails for instances on the operator's block list.
func (hg *authHandlerGroup) checkBlocked(origin string) error {
	isBlocked, err := hg.blocked.IsBlocked(origin)
	if err != nil {
		hg.logger.Errorf("Failed to check block list for %s: %v", origin, err)
		return shared.Wrap(err, shared.KindUnknown, "block list could not be read")
	}
	if isBlocked {
		hg.logger.Infof("Refusing login to blocked instance %s", origin)
		return logic.ErrInstanceBlocked
	}
	return nil
}

// Without an origin this is the login form; with one, it starts the PKCE flow.
func (hg *authHandlerGroup) getLogin(w http.ResponseWriter, r *http.Request) {

	origin := strings.TrimSpace(r.URL.Query().Get("origin"))
	if origin == "" {
		hg.writePage(w, http.StatusOK, "Login", "login.html", map[string]string{"origin": ""})
		return
	}

	if err := hg.checkBlocked(origin); err != nil {
		hg.writeFailure(w, err)
		return
	}
	authorizeUrl, err := hg.auth.BeginLogin(r.Context(), origin)
	if err != nil {
		hg.logger.Infof("Login to %s could not start: %v", origin, err)
		hg.writeFailure(w, err)
		return
	}
	http.Redirect(w, r, authorizeUrl, http.StatusFound)
}

func (hg *authHandlerGroup) getCallback(w http.ResponseWriter, r *http.Request) {

	account, err := hg.auth.FinishLogin(r.Context(), r.URL.Query())
	if err != nil {
		hg.logger.Infof("OAuth callback failed: %v", err)
		hg.writeFailure(w, err)
		return
	}
	sess, _ := hg.sessions.Get()
	hg.logger.Infof("OAuth login complete for %s at %s", account.Acct, sess.Origin)
	hg.writeSuccess(w, r, sess.Origin, account)
}

func (hg *authHandlerGroup) postToken(w http.ResponseWriter, r *http.Request) {

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, badRequestStr, http.StatusBadRequest)
		return
	}
	origin := r.PostForm.Get("origin")
	err := hg.checkBlocked(origin)
	var account *dto.Account
	if err == nil {
		account, err = hg.auth.ConnectWithToken(r.Context(), origin, r.PostForm.Get("token"))
	}
	if err != nil {
		hg.logger.Infof("Token login to %s failed: %v", origin, err)
		if wantsJson(r) {
			writeDomainError(hg.logger, w, r, err)
			return
		}
		hg.writeFailure(w, err)
		return
	}
	if normalized, err := shared.NormalizeOrigin(origin); err == nil {
		origin = normalized
	}
	hg.writeSuccess(w, r, origin, account)
}
