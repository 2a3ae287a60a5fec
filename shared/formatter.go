package shared

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

func GetHostName(userUrl string) (string, error) {
	var parsedUrl *url.URL
	var urlError error
	parsedUrl, urlError = url.Parse(userUrl)
	if urlError != nil {
		return "", fmt.Errorf("Failed to parse URL '%s': %v", userUrl, urlError)
	}
	return parsedUrl.Hostname(), nil
}

// NormalizeOrigin turns user input like "mastodon.social/" or "https://mastodon.social/about"
// into a scheme+host origin with no trailing slash.
func NormalizeOrigin(origin string) (string, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return "", errors.New("instance origin cannot be empty")
	}
	if !strings.Contains(origin, "://") {
		origin = "https://" + origin
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("Failed to parse origin '%s': %v", origin, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme in origin '%s'", origin)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("origin '%s' has no host", origin)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// StripAt trims whitespace and a single leading '@'.
func StripAt(acct string) string {
	acct = strings.TrimSpace(acct)
	return strings.TrimPrefix(acct, "@")
}

// IsIdLike is true for non-empty strings made only of ASCII digits.
func IsIdLike(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func MakeFullMoniker(hostName, handle string) string {
	return "@" + handle + "@" + hostName
}

// FullAcct qualifies a local acct ("alice") with the instance host.
func FullAcct(acct, origin string) string {
	acct = StripAt(acct)
	if acct == "" || strings.Contains(acct, "@") {
		return acct
	}
	host, err := GetHostName(origin)
	if err != nil || host == "" {
		return acct
	}
	return acct + "@" + host
}

// TokenPrefix is the only part of a secret that may appear in logs.
func TokenPrefix(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "…"
}

func TruncateWithEllipsis(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	// https://stackoverflow.com/a/73939904/7479498
	lastSpaceIx := maxLen
	len := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			lastSpaceIx = i
		}
		len++
		if len > maxLen {
			return text[:lastSpaceIx] + "…"
		}
	}
	return text
}
