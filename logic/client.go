package logic

import (
	"context"
	"net/url"
	"strconv"

	"ghostodon/dto"
	"ghostodon/shared"
)

// Client is the capability object bound to one session. Every method makes
// one request (documented fallbacks aside), normalizes the response and tags
// failures with "<namespace>.<operation> failed".
type Client struct {
	Session       dto.Session
	Instance      IInstanceApi
	Accounts      IAccountsApi
	Timelines     ITimelinesApi
	Statuses      IStatusesApi
	Compose       IComposeApi
	Notifications INotificationsApi
	Search        ISearchApi
	Lists         IListsApi
	Directory     IDirectoryApi
	Trends        ITrendsApi
	Stream        IStreamApi
}

type IClientFactory interface {
	ForSession(sess dto.Session) *Client
}

type clientFactory struct {
	rf       IRestFactory
	streamer IStreamer
}

func NewClientFactory(rf IRestFactory, streamer IStreamer) IClientFactory {
	return &clientFactory{rf, streamer}
}

func (cf *clientFactory) ForSession(sess dto.Session) *Client {
	return NewClient(sess, cf.rf.New(sess.Origin, sess.Token), cf.streamer)
}

func NewClient(sess dto.Session, rest IRestClient, streamer IStreamer) *Client {
	base := &apiBase{rest: rest}
	return &Client{
		Session:       sess,
		Instance:      &instanceApi{base},
		Accounts:      &accountsApi{base},
		Timelines:     &timelinesApi{base},
		Statuses:      &statusesApi{base},
		Compose:       &composeApi{base},
		Notifications: &notificationsApi{base},
		Search:        &searchApi{base},
		Lists:         &listsApi{base},
		Directory:     &directoryApi{base},
		Trends:        &trendsApi{base},
		Stream:        &streamApi{sess, streamer},
	}
}

type apiBase struct {
	rest IRestClient
}

func (b *apiBase) call(ctx context.Context, op string, call *ApiCall) (any, error) {
	call.Label = op
	res, err := b.rest.Do(ctx, call)
	if err != nil {
		return nil, shared.Wrap(err, shared.KindHttp, op+" failed")
	}
	return res, nil
}

func pageQuery(params dto.PageParams) url.Values {
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.MaxId != "" {
		q.Set("max_id", params.MaxId)
	}
	if params.MinId != "" {
		q.Set("min_id", params.MinId)
	}
	if params.SinceId != "" {
		q.Set("since_id", params.SinceId)
	}
	return q
}

func setFlag(q url.Values, name string, val bool) {
	if val {
		q.Set(name, "true")
	}
}
