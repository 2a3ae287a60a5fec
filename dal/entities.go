package dal

import (
	"time"
)

const (
	keySession   = "ghostodon.session"
	keyHandshake = "ghostodon.oauth"
)

type Session struct {
	Origin    string    `json:"origin"`
	Token     string    `json:"token"`
	AccountId string    `json:"account_id"`
	Acct      string    `json:"acct"`
	SavedAt   time.Time `json:"saved_at"`
}

// Handshake holds everything the OAuth callback needs to finish a PKCE flow.
type Handshake struct {
	Id           string    `json:"id"`
	Origin       string    `json:"origin"`
	RedirectUri  string    `json:"redirect_uri"`
	Scopes       []string  `json:"scopes"`
	ClientId     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	AppName      string    `json:"app_name"`
	AppWebsite   string    `json:"app_website"`
	State        string    `json:"state"`
	Verifier     string    `json:"verifier"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuthLogEntry struct {
	Id        int
	LoggedAt  time.Time
	Origin    string
	Stage     string
	Handshake string // Handshake ID; empty for token logins
	Detail    string
}
