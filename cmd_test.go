package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghostodon/dto"
	"ghostodon/logic"
)

func TestPrintBoost(t *testing.T) {
	original := dto.Status{
		Id:          "2",
		CreatedAt:   "2024-05-01T10:00:00.000Z",
		ContentHtml: "<p>first</p><p>second</p>",
		SpoilerText: "food",
		Account:     dto.Account{Acct: "alice@other.example"},
		Media:       []dto.Media{{Type: "image", Url: "https://cdn.example/1.png"}},
	}
	boost := dto.Status{Id: "3", Account: dto.Account{Acct: "bob"}, Reblog: &original}

	var buf bytes.Buffer
	printStatus(&buf, &boost)
	assert.Equal(t,
		"@alice@other.example  (boosted by @bob)  2024-05-01T10:00:00.000Z  [3]\n"+
			"CW: food\n"+
			"first\n\nsecond\n"+
			"  [image] https://cdn.example/1.png\n\n",
		buf.String())
}

func TestFetchPagesStopsAtEnd(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, params dto.PageParams) ([]dto.Status, error) {
		calls++
		if calls == 1 {
			res := make([]dto.Status, params.Limit)
			for i := range res {
				res[i].Id = fmt.Sprintf("%d", 100-i)
			}
			return res, nil
		}
		return []dto.Status{{Id: "1"}}, nil
	}
	pager := logic.NewPager[dto.Status]("test", fetch, 20, 10, nil)

	require.Nil(t, fetchPages(context.Background(), pager, 5))
	assert.Equal(t, 2, calls)
	assert.Len(t, pager.Items(), 21)
}
