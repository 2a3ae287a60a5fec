package dto

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, str string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(str))
	dec.UseNumber()
	var res any
	require.Nil(t, dec.Decode(&res))
	return res
}

func TestNormalizersAreTotal(t *testing.T) {
	inputs := []any{
		nil,
		"just a string",
		json.Number("42"),
		[]any{1, 2, 3},
		map[string]any{},
		map[string]any{"id": []any{}, "account": "nope", "media_attachments": "x", "reblog": 5},
		map[string]any{"followers_count": math.NaN(), "statuses_count": math.Inf(1), "history": 3},
		map[string]any{"ancestors": map[string]any{}, "descendants": nil, "accounts": 1, "hashtags": true},
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			NormalizeAccount(in)
			NormalizeMedia(in)
			NormalizeStatus(in)
			NormalizeContext(in)
			NormalizeNotification(in)
			NormalizeSearchResult(in)
			NormalizeTag(in)
			NormalizeInstance(in)
			NormalizeList(in)
			NormalizeStatuses(in)
		})
	}

	s := NormalizeStatus(nil)
	assert.Equal(t, "", s.Id)
	assert.Equal(t, "", s.Account.Id)
	assert.Equal(t, []Media{}, s.Media)
	assert.Nil(t, s.Reblog)
	assert.Nil(t, s.RepliesCount)

	c := NormalizeContext(map[string]any{"ancestors": "nope"})
	assert.Len(t, c.Ancestors, 0)
	assert.Len(t, c.Descendants, 0)

	a := NormalizeAccount(map[string]any{"followers_count": math.NaN(), "following_count": "many"})
	assert.Nil(t, a.FollowersCount)
	assert.Nil(t, a.FollowingCount)
	assert.Nil(t, a.Locked)

	huge := NormalizeAccount(map[string]any{
		"followers_count": json.Number("1e30"),
		"following_count": json.Number("99999999999999999999"),
		"statuses_count":  "-1e19",
	})
	assert.Nil(t, huge.FollowersCount)
	assert.Nil(t, huge.FollowingCount)
	assert.Nil(t, huge.StatusesCount)
}

func TestAccountFieldDrift(t *testing.T) {
	snake := NormalizeAccount(decode(t, `{
		"id": "1", "acct": "alice", "display_name": "Alice",
		"avatar_static": "https://x/a.png", "header_url": "https://x/h.png",
		"followers_count": 12, "following_count": "7", "statuses_count": 3.0,
		"locked": false, "bot": true, "note": "<p>hi</p>"}`))
	assert.Equal(t, "1", snake.Id)
	assert.Equal(t, "Alice", snake.DisplayName)
	assert.Equal(t, "https://x/a.png", snake.Avatar)
	assert.Equal(t, "https://x/h.png", snake.Header)
	assert.Equal(t, int64(12), *snake.FollowersCount)
	assert.Equal(t, int64(7), *snake.FollowingCount)
	assert.Equal(t, int64(3), *snake.StatusesCount)
	assert.False(t, *snake.Locked)
	assert.True(t, *snake.Bot)
	assert.Equal(t, "<p>hi</p>", snake.NoteHtml)

	camel := NormalizeAccount(decode(t, `{
		"id": 99, "acct": "bob@remote.example", "displayName": "Bob",
		"avatarUrl": "https://x/b.png", "avatar": null, "followersCount": 5}`))
	assert.Equal(t, "99", camel.Id)
	assert.Equal(t, "Bob", camel.DisplayName)
	assert.Equal(t, "https://x/b.png", camel.Avatar)
	assert.Equal(t, "", camel.Header)
	assert.Equal(t, int64(5), *camel.FollowersCount)
	assert.Nil(t, camel.Locked)

	// First candidate wins when several are present
	both := NormalizeAccount(map[string]any{"avatar": "first", "avatar_static": "second"})
	assert.Equal(t, "first", both.Avatar)
}

func TestStatusWithBoost(t *testing.T) {
	s := NormalizeStatus(decode(t, `{
		"id": "200", "created_at": "2024-01-02T03:04:05.000Z",
		"account": {"id": "1", "acct": "booster"},
		"content": "", "visibility": "public",
		"reblog": {
			"id": "100", "createdAt": "2024-01-01T00:00:00.000Z",
			"account": {"id": "2", "acct": "author"},
			"content": "<p>original <script>alert(1)</script></p>",
			"spoiler_text": "cw", "inReplyToId": "50",
			"mediaAttachments": [{"id": "m1", "type": "image", "remote_url": "https://r/1.png", "preview_url": "https://r/1s.png", "description": "a cat"}],
			"replies_count": 2, "reblogsCount": "3", "favourites_count": null
		}}`))

	assert.Equal(t, "200", s.Id)
	assert.Equal(t, VisPublic, s.Visibility)
	booster, original, ok := s.Boost()
	require.True(t, ok)
	assert.Equal(t, "booster", booster.Acct)
	assert.Equal(t, "100", original.Id)
	assert.Same(t, original, s.Base())

	o := s.Base()
	assert.Equal(t, "author", o.Account.Acct)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", o.CreatedAt)
	assert.Equal(t, "cw", o.SpoilerText)
	assert.Equal(t, "50", o.InReplyToId)
	assert.NotContains(t, o.ContentHtml, "script")
	assert.Contains(t, o.ContentHtml, "original")
	require.Len(t, o.Media, 1)
	assert.Equal(t, "https://r/1.png", o.Media[0].Url)
	assert.Equal(t, "https://r/1s.png", o.Media[0].PreviewUrl)
	assert.Equal(t, "a cat", *o.Media[0].Description)
	assert.Equal(t, int64(2), *o.RepliesCount)
	assert.Equal(t, int64(3), *o.ReblogsCount)
	assert.Nil(t, o.FavouritesCount)

	_, self, ok := o.Boost()
	assert.False(t, ok)
	assert.Same(t, o, self)
}

func TestUnknownVisibilityDropped(t *testing.T) {
	s := NormalizeStatus(map[string]any{"visibility": "limited"})
	assert.Equal(t, Visibility(""), s.Visibility)
}

func TestNotificationAndSearch(t *testing.T) {
	n := NormalizeNotification(decode(t, `{"id": "n1", "type": "mention", "createdAt": "t",
		"account": {"id": "1"}, "status": {"id": "s1"}}`))
	assert.Equal(t, "mention", n.Type)
	assert.Equal(t, "t", n.CreatedAt)
	require.NotNil(t, n.Account)
	require.NotNil(t, n.Status)
	assert.Equal(t, "s1", n.Status.Id)

	bare := NormalizeNotification(map[string]any{"id": "n2", "type": "follow"})
	assert.Nil(t, bare.Status)
	assert.Nil(t, bare.Account)

	r := NormalizeSearchResult(decode(t, `{"accounts": [{"id": "1"}], "statuses": [],
		"hashtags": [{"name": "go", "url": "https://x/tags/go", "history": [{"day": "1700000000", "uses": "12", "accounts": "4"}]}, "legacy"]}`))
	assert.Len(t, r.Accounts, 1)
	assert.Len(t, r.Statuses, 0)
	require.Len(t, r.Hashtags, 2)
	assert.Equal(t, int64(12), r.Hashtags[0].History[0].Uses)
	assert.Equal(t, "legacy", r.Hashtags[1].Name)
}

func TestInstance(t *testing.T) {
	v2 := NormalizeInstance(decode(t, `{"title": "Social", "version": "4.2.0", "description": "about",
		"configuration": {"urls": {"streaming": "wss://streaming.social"}}}`))
	assert.Equal(t, "wss://streaming.social", v2.StreamingBase)
	assert.Equal(t, "about", v2.DescriptionHtml)

	v1 := NormalizeInstance(decode(t, `{"title": "Old", "short_description": "short",
		"urls": {"streaming_api": "wss://old.social"}}`))
	assert.Equal(t, "wss://old.social", v1.StreamingBase)
	assert.Equal(t, "short", v1.DescriptionHtml)
}

func TestStripHtml(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", StripHtml("<p>Tom &amp; <b>Jerry</b></p>"))
}
