package logic

import (
	"time"

	"ghostodon/dto"
)

// StoryAccount is one ring in the stories rail: an author and their most recent cover image.
type StoryAccount struct {
	Id           string `json:"id"`
	Acct         string `json:"acct"`
	DisplayName  string `json:"display_name,omitempty"`
	Avatar       string `json:"avatar"`
	HasStory     bool   `json:"has_story"`
	CoverUrl     string `json:"cover_url,omitempty"`
	LastStatusAt string `json:"last_status_at,omitempty"`
	StoryCount   int    `json:"story_count"`
}

func storyKey(a *dto.Account) string {
	if a.Id != "" {
		return a.Id
	}
	return a.Acct
}

func parseStatusTime(val string) int64 {
	if val == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

func pickCover(s *dto.Status) string {
	if len(s.Media) != 0 {
		if s.Media[0].PreviewUrl != "" {
			return s.Media[0].PreviewUrl
		}
		if s.Media[0].Url != "" {
			return s.Media[0].Url
		}
	}
	if s.Account.Header != "" {
		return s.Account.Header
	}
	return s.Account.Avatar
}

// BuildStories groups statuses by author, boosts counted for the boosted
// author, in order of first appearance.
func BuildStories(statuses []dto.Status) []StoryAccount {
	var res []*StoryAccount
	byKey := map[string]*StoryAccount{}

	for i := range statuses {
		s := statuses[i].Base()
		key := storyKey(&s.Account)
		if key == "" {
			continue
		}
		hasStory := len(s.Media) != 0

		prev, ok := byKey[key]
		if !ok {
			sa := &StoryAccount{
				Id:           key,
				Acct:         s.Account.Acct,
				DisplayName:  s.Account.DisplayName,
				Avatar:       s.Account.Avatar,
				HasStory:     hasStory,
				CoverUrl:     pickCover(s),
				LastStatusAt: s.CreatedAt,
			}
			if hasStory {
				sa.StoryCount = 1
			}
			byKey[key] = sa
			res = append(res, sa)
			continue
		}

		if hasStory {
			prev.StoryCount++
			prev.HasStory = true
		}
		if parseStatusTime(s.CreatedAt) >= parseStatusTime(prev.LastStatusAt) {
			prev.LastStatusAt = s.CreatedAt
			if cover := pickCover(s); cover != "" {
				prev.CoverUrl = cover
			}
		}
	}

	out := make([]StoryAccount, 0, len(res))
	for _, sa := range res {
		out = append(out, *sa)
	}
	return out
}

// StoryPresence is the set of authors with media in the given statuses.
func StoryPresence(statuses []dto.Status) map[string]bool {
	res := map[string]bool{}
	for i := range statuses {
		s := statuses[i].Base()
		if len(s.Media) != 0 {
			res[storyKey(&s.Account)] = true
		}
	}
	return res
}
