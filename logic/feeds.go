package logic

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"ghostodon/dto"
	"ghostodon/shared"
)

type FeedKind string

const (
	FeedHome          FeedKind = "home"
	FeedLocal         FeedKind = "local"
	FeedFederated     FeedKind = "federated"
	FeedAccount       FeedKind = "account"
	FeedAccountMedia  FeedKind = "account_media"
	FeedTag           FeedKind = "tag"
	FeedList          FeedKind = "list"
	FeedThread        FeedKind = "thread"
	FeedFollowers     FeedKind = "followers"
	FeedFollowing     FeedKind = "following"
	FeedNotifications FeedKind = "notifications"
)

// FeedRef names a feed. Arg is the account ID, tag, list ID or status ID, depending on Kind.
type FeedRef struct {
	Kind FeedKind
	Arg  string
}

func (ref FeedRef) String() string {
	if ref.Arg == "" {
		return string(ref.Kind)
	}
	return string(ref.Kind) + ":" + ref.Arg
}

var ErrNotConnected = shared.NewError(shared.KindAuth, "Not connected")

// IFeeds keeps one pager per feed for the current session. When the session
// changes, the old session's pagers become unreachable, so their late results go nowhere.
type IFeeds interface {
	Statuses(ref FeedRef) (*Pager[dto.Status], error)
	Accounts(ref FeedRef) (*Pager[dto.Account], error)
	Notifications() (*Pager[dto.Notification], error)
	Drop()
}

type feedEntry struct {
	fingerprint string
	pager       any
}

type feeds struct {
	cfg      *shared.Config
	logger   shared.ILogger
	metrics  IMetrics
	sessions ISessionManager
	clients  IClientFactory

	mu      sync.Mutex
	entries map[string]*feedEntry
}

func NewFeeds(
	cfg *shared.Config,
	logger shared.ILogger,
	metrics IMetrics,
	sessions ISessionManager,
	clients IClientFactory,
) IFeeds {
	return &feeds{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		sessions: sessions,
		clients:  clients,
		entries:  map[string]*feedEntry{},
	}
}

func feedKey(ref FeedRef, fingerprint string) string {
	return ref.String() + "\t" + fingerprint
}

// getOrCreate returns the pager stored under ref for the current session, creating it with mk if needed.
func (f *feeds) getOrCreate(ref FeedRef, mk func(client *Client) any) (any, error) {

	sess, ok := f.sessions.Get()
	if !ok {
		return nil, ErrNotConnected
	}
	fingerprint := sessionFingerprint(sess)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.evictStale(fingerprint)
	key := feedKey(ref, fingerprint)
	if entry, ok := f.entries[key]; ok {
		return entry.pager, nil
	}
	pager := mk(f.clients.ForSession(sess))
	f.entries[key] = &feedEntry{fingerprint: fingerprint, pager: pager}
	f.logger.Debugf("Created pager for feed %s", ref)
	return pager, nil
}

func (f *feeds) evictStale(fingerprint string) {
	for key, entry := range f.entries {
		if entry.fingerprint != fingerprint {
			delete(f.entries, key)
		}
	}
}

func (f *feeds) Drop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = map[string]*feedEntry{}
}

func (f *feeds) Statuses(ref FeedRef) (*Pager[dto.Status], error) {
	fetch, err := statusFetcher(ref)
	if err != nil {
		return nil, err
	}
	res, err := f.getOrCreate(ref, func(client *Client) any {
		return NewPager(ref.String(), fetch(client), f.cfg.PageFirst, f.cfg.PageMore, f.metrics)
	})
	if err != nil {
		return nil, err
	}
	pager, ok := res.(*Pager[dto.Status])
	if !ok {
		return nil, shared.NewError(shared.KindConfig, fmt.Sprintf("feed %s does not hold statuses", ref))
	}
	return pager, nil
}

func (f *feeds) Accounts(ref FeedRef) (*Pager[dto.Account], error) {
	var fetch func(client *Client) FetchPageFunc[dto.Account]
	switch ref.Kind {
	case FeedFollowers:
		fetch = func(client *Client) FetchPageFunc[dto.Account] {
			return func(ctx context.Context, params dto.PageParams) ([]dto.Account, error) {
				return client.Accounts.Followers(ctx, ref.Arg, params)
			}
		}
	case FeedFollowing:
		fetch = func(client *Client) FetchPageFunc[dto.Account] {
			return func(ctx context.Context, params dto.PageParams) ([]dto.Account, error) {
				return client.Accounts.Following(ctx, ref.Arg, params)
			}
		}
	default:
		return nil, shared.NewError(shared.KindConfig, fmt.Sprintf("feed %s does not hold accounts", ref))
	}
	if ref.Arg == "" {
		return nil, shared.NewError(shared.KindConfig, fmt.Sprintf("feed %s needs an account ID", ref.Kind))
	}
	res, err := f.getOrCreate(ref, func(client *Client) any {
		return NewPager(ref.String(), fetch(client), f.cfg.PageFirst, f.cfg.PageMore, f.metrics)
	})
	if err != nil {
		return nil, err
	}
	pager, ok := res.(*Pager[dto.Account])
	if !ok {
		return nil, shared.NewError(shared.KindConfig, fmt.Sprintf("feed %s does not hold accounts", ref))
	}
	return pager, nil
}

func (f *feeds) Notifications() (*Pager[dto.Notification], error) {
	ref := FeedRef{Kind: FeedNotifications}
	res, err := f.getOrCreate(ref, func(client *Client) any {
		fetch := func(ctx context.Context, params dto.PageParams) ([]dto.Notification, error) {
			return client.Notifications.List(ctx, params)
		}
		return NewPager[dto.Notification](ref.String(), fetch, f.cfg.PageFirst, f.cfg.PageMore, f.metrics)
	})
	if err != nil {
		return nil, err
	}
	pager, ok := res.(*Pager[dto.Notification])
	if !ok {
		return nil, shared.NewError(shared.KindConfig, fmt.Sprintf("feed %s does not hold notifications", ref))
	}
	return pager, nil
}

func statusFetcher(ref FeedRef) (func(client *Client) FetchPageFunc[dto.Status], error) {
	needsArg := func() error {
		if ref.Arg == "" {
			return shared.NewError(shared.KindConfig, fmt.Sprintf("feed %s needs an argument", ref.Kind))
		}
		return nil
	}
	switch ref.Kind {
	case FeedHome:
		return func(client *Client) FetchPageFunc[dto.Status] {
			return client.Timelines.Home
		}, nil
	case FeedLocal, FeedFederated:
		filters := PublicFilters{Local: ref.Kind == FeedLocal}
		return func(client *Client) FetchPageFunc[dto.Status] {
			return func(ctx context.Context, params dto.PageParams) ([]dto.Status, error) {
				return client.Timelines.Public(ctx, params, filters)
			}
		}, nil
	case FeedAccount, FeedAccountMedia:
		if err := needsArg(); err != nil {
			return nil, err
		}
		filters := AccountStatusFilters{OnlyMedia: ref.Kind == FeedAccountMedia}
		return func(client *Client) FetchPageFunc[dto.Status] {
			return func(ctx context.Context, params dto.PageParams) ([]dto.Status, error) {
				return client.Accounts.Statuses(ctx, ref.Arg, params, filters)
			}
		}, nil
	case FeedTag:
		if err := needsArg(); err != nil {
			return nil, err
		}
		return func(client *Client) FetchPageFunc[dto.Status] {
			return func(ctx context.Context, params dto.PageParams) ([]dto.Status, error) {
				return client.Timelines.Tag(ctx, ref.Arg, params, false)
			}
		}, nil
	case FeedList:
		if err := needsArg(); err != nil {
			return nil, err
		}
		return func(client *Client) FetchPageFunc[dto.Status] {
			return func(ctx context.Context, params dto.PageParams) ([]dto.Status, error) {
				return client.Timelines.List(ctx, ref.Arg, params)
			}
		}, nil
	case FeedThread:
		if err := needsArg(); err != nil {
			return nil, err
		}
		return func(client *Client) FetchPageFunc[dto.Status] {
			return threadFetcher(client.Statuses, ref.Arg)
		}, nil
	}
	return nil, shared.NewError(shared.KindConfig, fmt.Sprintf("feed %s does not hold statuses", ref))
}

// threadFetcher pages through a status's replies. The context is fetched once;
// later pages are cut from it locally, with the same max_id convention as remote feeds.
func threadFetcher(statuses IStatusesApi, statusId string) FetchPageFunc[dto.Status] {
	var mu sync.Mutex
	var descendants []dto.Status
	loaded := false

	return func(ctx context.Context, params dto.PageParams) ([]dto.Status, error) {
		mu.Lock()
		defer mu.Unlock()

		if !loaded || params.MaxId == "" {
			sc, err := statuses.Context(ctx, statusId)
			if err != nil {
				return nil, err
			}
			descendants = sc.Descendants
			loaded = true
		}
		start := 0
		if params.MaxId != "" {
			start = -1
			for i := range descendants {
				if descendants[i].Id == params.MaxId {
					start = i + 1
					break
				}
			}
			if start < 0 {
				return []dto.Status{}, nil
			}
		}
		end := len(descendants)
		if params.Limit > 0 && start+params.Limit < end {
			end = start + params.Limit
		}
		return append([]dto.Status{}, descendants[start:end]...), nil
	}
}

// ThreadPreview is a status with its first few replies, for showing a conversation inline.
type ThreadPreview struct {
	Status     dto.Status   `json:"status"`
	Ancestors  int          `json:"ancestors"`
	Replies    []dto.Status `json:"replies"`
	ReplyCount int          `json:"reply_count"`
}

func LoadThreadPreview(ctx context.Context, statuses IStatusesApi, statusId string, maxReplies int) (*ThreadPreview, error) {
	status, err := statuses.Get(ctx, statusId)
	if err != nil {
		return nil, err
	}
	sc, err := statuses.Context(ctx, statusId)
	if err != nil {
		return nil, err
	}
	n := len(sc.Descendants)
	if n > maxReplies {
		n = maxReplies
	}
	return &ThreadPreview{
		Status:     status,
		Ancestors:  len(sc.Ancestors),
		Replies:    append([]dto.Status{}, sc.Descendants[:n]...),
		ReplyCount: len(sc.Descendants),
	}, nil
}

func ParseFeedKind(s string) (FeedKind, error) {
	switch kind := FeedKind(s); kind {
	case FeedHome, FeedLocal, FeedFederated, FeedAccount, FeedAccountMedia, FeedTag, FeedList,
		FeedThread, FeedFollowers, FeedFollowing, FeedNotifications:
		return kind, nil
	}
	return "", shared.NewError(shared.KindConfig, "unknown feed: "+strconv.Quote(s))
}
