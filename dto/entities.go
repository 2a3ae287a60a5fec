package dto

// Session is the one active login. Values are copied, never shared.
type Session struct {
	Origin    string `json:"origin"`
	Token     string `json:"token"`
	AccountId string `json:"account_id"`
	Acct      string `json:"acct"`
}

func (s *Session) IsValid() bool {
	return s.Origin != "" && s.Token != ""
}

type Visibility string

const (
	VisPublic   Visibility = "public"
	VisUnlisted Visibility = "unlisted"
	VisPrivate  Visibility = "private"
	VisDirect   Visibility = "direct"
)

func (v Visibility) IsKnown() bool {
	switch v {
	case VisPublic, VisUnlisted, VisPrivate, VisDirect:
		return true
	}
	return false
}

// Identified is anything a pager can walk: the cursor is the id of the last item.
type Identified interface {
	GetId() string
}

type Account struct {
	Id             string         `json:"id"`
	Acct           string         `json:"acct"`
	DisplayName    string         `json:"display_name"`
	Avatar         string         `json:"avatar"`
	Header         string         `json:"header,omitempty"`
	Url            string         `json:"url,omitempty"`
	NoteHtml       string         `json:"note_html,omitempty"`
	FollowersCount *int64         `json:"followers_count,omitempty"`
	FollowingCount *int64         `json:"following_count,omitempty"`
	StatusesCount  *int64         `json:"statuses_count,omitempty"`
	Locked         *bool          `json:"locked,omitempty"`
	Bot            *bool          `json:"bot,omitempty"`
	Raw            map[string]any `json:"-"`
}

func (a Account) GetId() string { return a.Id }

type Media struct {
	Id          string         `json:"id"`
	Type        string         `json:"type,omitempty"`
	Url         string         `json:"url,omitempty"`
	PreviewUrl  string         `json:"preview_url,omitempty"`
	Description *string        `json:"description,omitempty"`
	Raw         map[string]any `json:"-"`
}

type Status struct {
	Id              string         `json:"id"`
	CreatedAt       string         `json:"created_at"`
	EditedAt        string         `json:"edited_at,omitempty"`
	Url             string         `json:"url,omitempty"`
	ContentHtml     string         `json:"content_html"`
	SpoilerText     string         `json:"spoiler_text,omitempty"`
	Sensitive       *bool          `json:"sensitive,omitempty"`
	Visibility      Visibility     `json:"visibility,omitempty"`
	InReplyToId     string         `json:"in_reply_to_id,omitempty"`
	Reblog          *Status        `json:"reblog,omitempty"`
	RepliesCount    *int64         `json:"replies_count,omitempty"`
	ReblogsCount    *int64         `json:"reblogs_count,omitempty"`
	FavouritesCount *int64         `json:"favourites_count,omitempty"`
	Account         Account        `json:"account"`
	Media           []Media        `json:"media"`
	Language        string         `json:"language,omitempty"`
	Raw             map[string]any `json:"-"`
}

func (s Status) GetId() string { return s.Id }

// Base is the status whose content should be shown: the boosted original, or the status itself.
func (s *Status) Base() *Status {
	if s.Reblog != nil {
		return s.Reblog
	}
	return s
}

// Boost reports who boosted what. ok is false for an original post.
func (s *Status) Boost() (booster *Account, original *Status, ok bool) {
	if s.Reblog == nil {
		return nil, s, false
	}
	return &s.Account, s.Reblog, true
}

type Context struct {
	Ancestors   []Status `json:"ancestors"`
	Descendants []Status `json:"descendants"`
}

type Notification struct {
	Id        string         `json:"id"`
	Type      string         `json:"type"`
	CreatedAt string         `json:"created_at"`
	Account   *Account       `json:"account,omitempty"`
	Status    *Status        `json:"status,omitempty"`
	Raw       map[string]any `json:"-"`
}

func (n Notification) GetId() string { return n.Id }

type TagHistory struct {
	Day      string `json:"day"`
	Uses     int64  `json:"uses"`
	Accounts int64  `json:"accounts"`
}

type Tag struct {
	Name    string         `json:"name"`
	Url     string         `json:"url,omitempty"`
	History []TagHistory   `json:"history,omitempty"`
	Raw     map[string]any `json:"-"`
}

type SearchResult struct {
	Accounts []Account `json:"accounts"`
	Statuses []Status  `json:"statuses"`
	Hashtags []Tag     `json:"hashtags"`
}

type Instance struct {
	Title           string         `json:"title,omitempty"`
	Version         string         `json:"version,omitempty"`
	DescriptionHtml string         `json:"description_html,omitempty"`
	StreamingBase   string         `json:"streaming_base,omitempty"`
	Raw             map[string]any `json:"-"`
}

type List struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

func (l List) GetId() string { return l.Id }

// OAuthApp is the client registration returned by POST /api/v1/apps.
type OAuthApp struct {
	ClientId     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectUri  string `json:"redirect_uri"`
	Name         string `json:"name"`
	Website      string `json:"website,omitempty"`
}

// Handshake is what must survive the browser's round trip to the instance's authorize page.
type Handshake struct {
	Id          string   `json:"id"`
	Origin      string   `json:"origin"`
	RedirectUri string   `json:"redirect_uri"`
	Scopes      []string `json:"scopes"`
	App         OAuthApp `json:"app"`
	State       string   `json:"state"`
	Verifier    string   `json:"verifier"`
	CreatedAt   int64    `json:"created_at"`
}

type PageParams struct {
	Limit   int    `json:"limit,omitempty"`
	MaxId   string `json:"max_id,omitempty"`
	MinId   string `json:"min_id,omitempty"`
	SinceId string `json:"since_id,omitempty"`
}

type StatusPayload struct {
	Status      string     `json:"status"`
	InReplyToId string     `json:"in_reply_to_id,omitempty"`
	MediaIds    []string   `json:"media_ids,omitempty"`
	Sensitive   bool       `json:"sensitive,omitempty"`
	SpoilerText string     `json:"spoiler_text,omitempty"`
	Visibility  Visibility `json:"visibility,omitempty"`
	Language    string     `json:"language,omitempty"`
}
