package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"ghostodon/dal"
	"ghostodon/dto"
	"ghostodon/logic"
	"ghostodon/shared"
)

const (
	defaultPreviewReplies = 2
	defaultAuthLogLimit   = 20
	maxAuthLogLimit       = 200
)

// JSON API the local UI talks to. Every call goes to the instance of the current session.
type apiHandlerGroup struct {
	cfg      *shared.Config
	logger   shared.ILogger
	repo     dal.IRepo
	sessions logic.ISessionManager
	clients  logic.IClientFactory
	feeds    logic.IFeeds
}

func NewApiHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	sessions logic.ISessionManager,
	clients logic.IClientFactory,
	feeds logic.IFeeds,
) IHandlerGroup {
	res := apiHandlerGroup{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		sessions: sessions,
		clients:  clients,
		feeds:    feeds,
	}
	return &res
}

func (hg *apiHandlerGroup) Prefix() string {
	return "/api"
}

func (hg *apiHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/session", func(w http.ResponseWriter, r *http.Request) { hg.getSession(w, r) }},
		{"POST", "/logout", func(w http.ResponseWriter, r *http.Request) { hg.postLogout(w, r) }},
		{"GET", "/auth-log", func(w http.ResponseWriter, r *http.Request) { hg.getAuthLog(w, r) }},
		{"GET", "/feeds/{kind}", func(w http.ResponseWriter, r *http.Request) { hg.getFeed(w, r) }},
		{"GET", "/stories", func(w http.ResponseWriter, r *http.Request) { hg.getStories(w, r) }},
		{"GET", "/resolve", func(w http.ResponseWriter, r *http.Request) { hg.getResolve(w, r) }},
		{"GET", "/accounts/{id}", func(w http.ResponseWriter, r *http.Request) { hg.getAccount(w, r) }},
		{"GET", "/statuses/{id}", func(w http.ResponseWriter, r *http.Request) { hg.getStatus(w, r) }},
		{"GET", "/statuses/{id}/preview", func(w http.ResponseWriter, r *http.Request) { hg.getPreview(w, r) }},
		{"POST", "/statuses/{id}/{action}", func(w http.ResponseWriter, r *http.Request) { hg.postStatusAction(w, r) }},
		{"POST", "/statuses", func(w http.ResponseWriter, r *http.Request) { hg.postStatus(w, r) }},
		{"POST", "/media", func(w http.ResponseWriter, r *http.Request) { hg.postMedia(w, r) }},
		{"GET", "/search", func(w http.ResponseWriter, r *http.Request) { hg.getSearch(w, r) }},
		{"GET", "/lists", func(w http.ResponseWriter, r *http.Request) { hg.getLists(w, r) }},
		{"POST", "/lists", func(w http.ResponseWriter, r *http.Request) { hg.postList(w, r) }},
		{"PUT", "/lists/{id}", func(w http.ResponseWriter, r *http.Request) { hg.putList(w, r) }},
		{"DELETE", "/lists/{id}", func(w http.ResponseWriter, r *http.Request) { hg.deleteList(w, r) }},
		{"GET", "/lists/{id}/accounts", func(w http.ResponseWriter, r *http.Request) { hg.getListAccounts(w, r) }},
		{"POST", "/lists/{id}/accounts", func(w http.ResponseWriter, r *http.Request) { hg.changeListAccounts(w, r, true) }},
		{"DELETE", "/lists/{id}/accounts", func(w http.ResponseWriter, r *http.Request) { hg.changeListAccounts(w, r, false) }},
		{"POST", "/notifications/clear", func(w http.ResponseWriter, r *http.Request) { hg.postClearNotifications(w, r) }},
		{"POST", "/notifications/{id}/dismiss", func(w http.ResponseWriter, r *http.Request) { hg.postDismissNotification(w, r) }},
		{"GET", "/instance", func(w http.ResponseWriter, r *http.Request) { hg.getInstance(w, r) }},
		{"GET", "/directory", func(w http.ResponseWriter, r *http.Request) { hg.getDirectory(w, r) }},
		{"GET", "/trends/tags", func(w http.ResponseWriter, r *http.Request) { hg.getTrendingTags(w, r) }},
	}
}

func (hg *apiHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return apiKeyMW(hg.cfg, hg.logger, next)
	}
}

// client returns the API client of the current session, or replies 401 and returns nil.
func (hg *apiHandlerGroup) client(w http.ResponseWriter, r *http.Request) *logic.Client {
	sess, ok := hg.sessions.Get()
	if !ok {
		writeDomainError(hg.logger, w, r, logic.ErrNotConnected)
		return nil
	}
	return hg.clients.ForSession(sess)
}

func queryInt(r *http.Request, name string, def int) int {
	val, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || val <= 0 {
		return def
	}
	return val
}

func queryFlag(r *http.Request, name string) bool {
	val := r.URL.Query().Get(name)
	return val == "1" || val == "true"
}

type sessionResp struct {
	Connected   bool   `json:"connected"`
	Origin      string `json:"origin,omitempty"`
	Acct        string `json:"acct,omitempty"`
	AccountId   string `json:"account_id,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// The token never leaves the server.
func (hg *apiHandlerGroup) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := hg.sessions.Get()
	if !ok {
		writeJsonResponse(hg.logger, w, sessionResp{})
		return
	}
	writeJsonResponse(hg.logger, w, sessionResp{
		Connected:   true,
		Origin:      sess.Origin,
		Acct:        sess.Acct,
		AccountId:   sess.AccountId,
		Fingerprint: hg.sessions.Fingerprint(),
	})
}

func (hg *apiHandlerGroup) postLogout(w http.ResponseWriter, r *http.Request) {
	if err := hg.sessions.Clear(); err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	hg.feeds.Drop()
	hg.logger.Info("Session cleared")
	writeJsonResponse(hg.logger, w, sessionResp{})
}

type authLogResp struct {
	LoggedAt  string `json:"logged_at"`
	Origin    string `json:"origin"`
	Stage     string `json:"stage"`
	Handshake string `json:"handshake,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

func (hg *apiHandlerGroup) getAuthLog(w http.ResponseWriter, r *http.Request) {
	limit := min(queryInt(r, "limit", defaultAuthLogLimit), maxAuthLogLimit)
	entries, err := hg.repo.GetAuthLog(limit)
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	res := make([]authLogResp, 0, len(entries))
	for _, e := range entries {
		res = append(res, authLogResp{
			LoggedAt:  e.LoggedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Origin:    e.Origin,
			Stage:     e.Stage,
			Handshake: e.Handshake,
			Detail:    e.Detail,
		})
	}
	writeJsonResponse(hg.logger, w, res)
}

type feedResp[T dto.Identified] struct {
	Feed    string            `json:"feed"`
	Status  logic.PagerStatus `json:"status"`
	Items   []T               `json:"items"`
	Pages   int               `json:"pages"`
	HasMore bool              `json:"has_more"`
	Error   *errorResp        `json:"error,omitempty"`
}

// serveFeed optionally resets the pager and fetches the next page, then
// replies with the pager's state. A failed fetch is part of the state, not an HTTP error.
func serveFeed[T dto.Identified](
	hg *apiHandlerGroup,
	w http.ResponseWriter,
	r *http.Request,
	ref logic.FeedRef,
	pager *logic.Pager[T],
	filter func([]T) []T,
) {
	if queryFlag(r, "reset") {
		pager.Reset()
	}
	var fetchErr error
	if queryFlag(r, "next") {
		_, fetchErr = pager.FetchNext(r.Context())
	}
	snap := pager.Snapshot()
	items := logic.DedupeById(snap.Items)
	if filter != nil {
		items = filter(items)
	}
	resp := feedResp[T]{
		Feed:    ref.String(),
		Status:  snap.Status,
		Items:   items,
		Pages:   snap.Pages,
		HasMore: snap.HasMore,
	}
	if fetchErr != nil {
		hg.logger.Infof("Fetching feed %s failed: %v", ref, fetchErr)
		er := errorToResp(fetchErr)
		er.Retryable = true
		resp.Error = &er
	}
	writeJsonResponse(hg.logger, w, resp)
}

func (hg *apiHandlerGroup) getFeed(w http.ResponseWriter, r *http.Request) {

	kind, err := logic.ParseFeedKind(mux.Vars(r)["kind"])
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	ref := logic.FeedRef{Kind: kind, Arg: r.URL.Query().Get("arg")}

	switch kind {
	case logic.FeedNotifications:
		pager, err := hg.feeds.Notifications()
		if err != nil {
			writeDomainError(hg.logger, w, r, err)
			return
		}
		serveFeed(hg, w, r, ref, pager, nil)
	case logic.FeedFollowers, logic.FeedFollowing:
		pager, err := hg.feeds.Accounts(ref)
		if err != nil {
			writeDomainError(hg.logger, w, r, err)
			return
		}
		serveFeed(hg, w, r, ref, pager, nil)
	default:
		pager, err := hg.feeds.Statuses(ref)
		if err != nil {
			writeDomainError(hg.logger, w, r, err)
			return
		}
		var filter func([]dto.Status) []dto.Status
		if needle := strings.TrimSpace(r.URL.Query().Get("q")); needle != "" {
			filter = func(items []dto.Status) []dto.Status { return logic.FilterStatuses(items, needle) }
		}
		serveFeed(hg, w, r, ref, pager, filter)
	}
}

type storiesResp struct {
	Stories  []logic.StoryAccount `json:"stories"`
	Presence map[string]bool      `json:"presence"`
}

// Stories come from the feed's loaded items; an untouched feed gets its first page here.
func (hg *apiHandlerGroup) getStories(w http.ResponseWriter, r *http.Request) {

	kindStr := r.URL.Query().Get("feed")
	if kindStr == "" {
		kindStr = string(logic.FeedHome)
	}
	kind, err := logic.ParseFeedKind(kindStr)
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	pager, err := hg.feeds.Statuses(logic.FeedRef{Kind: kind, Arg: r.URL.Query().Get("arg")})
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	if pager.Snapshot().Pages == 0 && !pager.InFlight() {
		if _, err = pager.FetchNext(r.Context()); err != nil {
			writeDomainError(hg.logger, w, r, err)
			return
		}
	}
	writeJsonResponse(hg.logger, w, storiesResp{
		Stories:  logic.BuildStories(pager.Items()),
		Presence: logic.StoryPresence(pager.FirstPage()),
	})
}

func (hg *apiHandlerGroup) getResolve(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	resolver := logic.NewAccountResolver(hg.logger, client.Accounts, client.Search)
	account, err := resolver.Resolve(r.Context(), r.URL.Query().Get("acct"))
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, account)
}

func (hg *apiHandlerGroup) getAccount(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	account, err := client.Accounts.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, account)
}

func (hg *apiHandlerGroup) getStatus(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	status, err := client.Statuses.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, status)
}

func (hg *apiHandlerGroup) getPreview(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	replies := queryInt(r, "replies", defaultPreviewReplies)
	preview, err := logic.LoadThreadPreview(r.Context(), client.Statuses, mux.Vars(r)["id"], replies)
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, preview)
}

func (hg *apiHandlerGroup) postStatusAction(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	id := mux.Vars(r)["id"]
	var status dto.Status
	var err error
	ctx := r.Context()
	switch mux.Vars(r)["action"] {
	case "favourite":
		status, err = client.Statuses.Favourite(ctx, id)
	case "unfavourite":
		status, err = client.Statuses.Unfavourite(ctx, id)
	case "reblog":
		status, err = client.Statuses.Reblog(ctx, id)
	case "unreblog":
		status, err = client.Statuses.Unreblog(ctx, id)
	case "bookmark":
		status, err = client.Statuses.Bookmark(ctx, id)
	case "unbookmark":
		status, err = client.Statuses.Unbookmark(ctx, id)
	default:
		writeErrorResponse(w, badRequestStr, http.StatusBadRequest)
		return
	}
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, status)
}

func (hg *apiHandlerGroup) postStatus(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	var payload dto.StatusPayload
	if !readJsonBody(hg.logger, w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.Status) == "" && len(payload.MediaIds) == 0 {
		writeErrorResponse(w, "400 Status needs text or media", http.StatusBadRequest)
		return
	}
	if payload.Visibility != "" && !payload.Visibility.IsKnown() {
		writeErrorResponse(w, "400 Unknown visibility", http.StatusBadRequest)
		return
	}
	status, err := client.Compose.Post(r.Context(), payload)
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	hg.logger.Infof("Posted status %s", status.Id)
	writeJsonResponse(hg.logger, w, status)
}

func (hg *apiHandlerGroup) postMedia(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		hg.logger.Infof("Invalid media upload: %v", err)
		writeErrorResponse(w, badRequestStr, http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, "400 Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	media, err := client.Compose.MediaUpload(r.Context(), file, header.Filename, r.FormValue("description"))
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, media)
}

func (hg *apiHandlerGroup) getSearch(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJsonResponse(hg.logger, w, dto.SearchResult{})
		return
	}
	res, err := client.Search.Query(r.Context(), q, logic.SearchParams{
		Type:    r.URL.Query().Get("type"),
		Limit:   queryInt(r, "limit", 0),
		Resolve: queryFlag(r, "resolve"),
	})
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, res)
}

type listReq struct {
	Title string `json:"title"`
}

type listAccountsReq struct {
	AccountIds []string `json:"account_ids"`
}

func (hg *apiHandlerGroup) getLists(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	lists, err := client.Lists.All(r.Context())
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, lists)
}

func (hg *apiHandlerGroup) readListTitle(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req listReq
	if !readJsonBody(hg.logger, w, r, &req) {
		return "", false
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeErrorResponse(w, "400 List needs a title", http.StatusBadRequest)
		return "", false
	}
	return title, true
}

func (hg *apiHandlerGroup) postList(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	title, ok := hg.readListTitle(w, r)
	if !ok {
		return
	}
	list, err := client.Lists.Create(r.Context(), title)
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, list)
}

func (hg *apiHandlerGroup) putList(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	title, ok := hg.readListTitle(w, r)
	if !ok {
		return
	}
	list, err := client.Lists.Update(r.Context(), mux.Vars(r)["id"], title)
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, list)
}

func (hg *apiHandlerGroup) deleteList(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	if err := client.Lists.Remove(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (hg *apiHandlerGroup) getListAccounts(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	accounts, err := client.Lists.Accounts(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, accounts)
}

func (hg *apiHandlerGroup) changeListAccounts(w http.ResponseWriter, r *http.Request, add bool) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	var req listAccountsReq
	if !readJsonBody(hg.logger, w, r, &req) {
		return
	}
	if len(req.AccountIds) == 0 {
		writeErrorResponse(w, "400 No account IDs", http.StatusBadRequest)
		return
	}
	listId := mux.Vars(r)["id"]
	var err error
	if add {
		err = client.Lists.AddAccounts(r.Context(), listId, req.AccountIds)
	} else {
		err = client.Lists.RemoveAccounts(r.Context(), listId, req.AccountIds)
	}
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (hg *apiHandlerGroup) postDismissNotification(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	if err := client.Notifications.Dismiss(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (hg *apiHandlerGroup) postClearNotifications(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	if err := client.Notifications.DismissAll(r.Context()); err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	// The notifications feed would still show what was just cleared
	if pager, err := hg.feeds.Notifications(); err == nil {
		pager.Reset()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (hg *apiHandlerGroup) getInstance(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	inst, err := client.Instance.Get(r.Context())
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, inst)
}

func (hg *apiHandlerGroup) getDirectory(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	accounts, err := client.Directory.List(r.Context(), logic.DirectoryParams{
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
		Order:  r.URL.Query().Get("order"),
		Local:  queryFlag(r, "local"),
	})
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, accounts)
}

func (hg *apiHandlerGroup) getTrendingTags(w http.ResponseWriter, r *http.Request) {
	client := hg.client(w, r)
	if client == nil {
		return
	}
	tags, err := client.Trends.Tags(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeDomainError(hg.logger, w, r, err)
		return
	}
	writeJsonResponse(hg.logger, w, tags)
}
