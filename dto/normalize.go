package dto

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// The normalizers take generic decoded JSON (objects as map[string]any, ideally
// decoded with UseNumber) and never fail: missing or mistyped fields come out
// as zero values or nil, never as invented data.

func NormalizeAccount(raw any) Account {
	a := asMap(raw)
	return Account{
		Id:             asString(a["id"]),
		Acct:           asString(a["acct"]),
		DisplayName:    asString(pick(a, accountNameKeys)),
		Avatar:         asString(pick(a, accountAvatarKeys)),
		Header:         asString(pick(a, accountHeaderKeys)),
		Url:            asString(a["url"]),
		NoteHtml:       SanitizeHtml(asString(a["note"])),
		FollowersCount: asNum(pick(a, accountFollowersKeys)),
		FollowingCount: asNum(pick(a, accountFollowingKeys)),
		StatusesCount:  asNum(pick(a, accountStatusesKeys)),
		Locked:         asBool(a["locked"]),
		Bot:            asBool(a["bot"]),
		Raw:            a,
	}
}

func NormalizeMedia(raw any) Media {
	m := asMap(raw)
	res := Media{
		Id:         asString(m["id"]),
		Type:       asString(m["type"]),
		Url:        asString(pick(m, mediaUrlKeys)),
		PreviewUrl: asString(pick(m, mediaPreviewKeys)),
		Raw:        m,
	}
	if desc, ok := m["description"].(string); ok {
		res.Description = &desc
	}
	return res
}

func NormalizeStatus(raw any) Status {
	s := asMap(raw)
	res := Status{
		Id:              asString(s["id"]),
		CreatedAt:       asString(pick(s, statusCreatedKeys)),
		EditedAt:        asString(pick(s, statusEditedKeys)),
		Url:             asString(s["url"]),
		ContentHtml:     SanitizeHtml(asString(s["content"])),
		SpoilerText:     asString(pick(s, statusSpoilerKeys)),
		Sensitive:       asBool(s["sensitive"]),
		InReplyToId:     asString(pick(s, statusReplyToKeys)),
		RepliesCount:    asNum(pick(s, statusRepliesKeys)),
		ReblogsCount:    asNum(pick(s, statusReblogsKeys)),
		FavouritesCount: asNum(pick(s, statusFavouritesKeys)),
		Account:         NormalizeAccount(s["account"]),
		Language:        asString(s["language"]),
		Raw:             s,
	}
	if vis := Visibility(asString(s["visibility"])); vis.IsKnown() {
		res.Visibility = vis
	}
	res.Media = mapArray(pick(s, statusMediaKeys), NormalizeMedia)
	if reblogRaw := asMap(pick(s, statusReblogKeys)); len(reblogRaw) != 0 {
		reblog := NormalizeStatus(reblogRaw)
		res.Reblog = &reblog
	}
	return res
}

func NormalizeStatuses(raw any) []Status {
	return mapArray(raw, NormalizeStatus)
}

func NormalizeAccounts(raw any) []Account {
	return mapArray(raw, NormalizeAccount)
}

func NormalizeContext(raw any) Context {
	c := asMap(raw)
	return Context{
		Ancestors:   mapArray(c["ancestors"], NormalizeStatus),
		Descendants: mapArray(c["descendants"], NormalizeStatus),
	}
}

func NormalizeNotification(raw any) Notification {
	n := asMap(raw)
	res := Notification{
		Id:        asString(n["id"]),
		Type:      asString(n["type"]),
		CreatedAt: asString(pick(n, notifCreatedKeys)),
		Raw:       n,
	}
	if acct := asMap(n["account"]); len(acct) != 0 {
		a := NormalizeAccount(acct)
		res.Account = &a
	}
	if status := asMap(n["status"]); len(status) != 0 {
		s := NormalizeStatus(status)
		res.Status = &s
	}
	return res
}

func NormalizeNotifications(raw any) []Notification {
	return mapArray(raw, NormalizeNotification)
}

func NormalizeTag(raw any) Tag {
	// v1 search returned hashtags as bare strings
	if name, ok := raw.(string); ok {
		return Tag{Name: name}
	}
	t := asMap(raw)
	res := Tag{
		Name: asString(t["name"]),
		Url:  asString(t["url"]),
		Raw:  t,
	}
	for _, h := range asArray(t["history"]) {
		hm := asMap(h)
		item := TagHistory{Day: asString(hm["day"])}
		if uses := asNum(hm["uses"]); uses != nil {
			item.Uses = *uses
		}
		if accounts := asNum(hm["accounts"]); accounts != nil {
			item.Accounts = *accounts
		}
		res.History = append(res.History, item)
	}
	return res
}

func NormalizeTags(raw any) []Tag {
	return mapArray(raw, NormalizeTag)
}

func NormalizeSearchResult(raw any) SearchResult {
	r := asMap(raw)
	return SearchResult{
		Accounts: mapArray(r["accounts"], NormalizeAccount),
		Statuses: mapArray(r["statuses"], NormalizeStatus),
		Hashtags: mapArray(r["hashtags"], NormalizeTag),
	}
}

func NormalizeInstance(raw any) Instance {
	i := asMap(raw)
	res := Instance{
		Title:           asString(i["title"]),
		Version:         asString(i["version"]),
		DescriptionHtml: SanitizeHtml(asString(pick(i, instanceDescKeys))),
		Raw:             i,
	}
	// v2: configuration.urls.streaming; v1: urls.streaming_api
	cfgUrls := asMap(asMap(i["configuration"])["urls"])
	res.StreamingBase = asString(cfgUrls["streaming"])
	if res.StreamingBase == "" {
		res.StreamingBase = asString(asMap(i["urls"])["streaming_api"])
	}
	return res
}

func NormalizeList(raw any) List {
	l := asMap(raw)
	return List{
		Id:    asString(l["id"]),
		Title: asString(l["title"]),
	}
}

func NormalizeLists(raw any) []List {
	return mapArray(raw, NormalizeList)
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asArray(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return nil
}

func mapArray[T any](v any, fn func(any) T) []T {
	arr := asArray(v)
	res := make([]T, 0, len(arr))
	for _, item := range arr {
		res = append(res, fn(item))
	}
	return res
}

func pick(m map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

func asNum(v any) *int64 {
	var f float64
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return &i
		}
		parsed, err := val.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = val
	case int:
		i := int64(val)
		return &i
	case int64:
		return &val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	// Out of int64 range, a conversion would not be the count the server sent
	if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil
	}
	i := int64(f)
	return &i
}

func asBool(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}
