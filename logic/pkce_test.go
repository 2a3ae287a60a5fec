package logic

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ghostodon/dto"
)

func TestCodeChallenge(t *testing.T) {
	// RFC 7636, appendix B
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		codeChallenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"))
}

func TestRandomStringIsUrlSafe(t *testing.T) {
	a, err := randomString(verifierBytes)
	assert.Nil(t, err)
	b, _ := randomString(verifierBytes)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 86)
	assert.False(t, strings.ContainsAny(a, "+/="))
}

func TestBuildAuthorizeUrl(t *testing.T) {
	app := &dto.OAuthApp{ClientId: "cid"}
	res := buildAuthorizeUrl("https://m.example", app, "https://app.example/auth/callback",
		[]string{"read", "write"}, "st", "ch")
	assert.True(t, strings.HasPrefix(res, "https://m.example/oauth/authorize?"))
	u, err := url.Parse(res)
	assert.Nil(t, err)
	q := u.Query()
	assert.Equal(t, "read write", q.Get("scope"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "ch", q.Get("code_challenge"))
	assert.Equal(t, "st", q.Get("state"))
	assert.Equal(t, "https://app.example/auth/callback", q.Get("redirect_uri"))
}
