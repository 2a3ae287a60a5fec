package texts

import (
	"embed"
	"fmt"
	"html"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_texts.go -package mocks ghostodon/texts ITexts

//go:embed snippets
var fs embed.FS

const layoutId = "layout.html"

type ITexts interface {
	Get(id string) string
	WithVals(id string, vals map[string]string) string
}

func NewTexts() ITexts {
	return &texts{}
}

type texts struct {
}

func (t *texts) Get(id string) string {
	fn := fmt.Sprintf("snippets/%s", id)
	bytes, err := fs.ReadFile(fn)
	if err != nil {
		return ""
	}
	return string(bytes)
}

// WithVals substitutes {{name}} placeholders. Values going into .html snippets are escaped.
func (t *texts) WithVals(id string, vals map[string]string) string {
	res := t.Get(id)
	isHtml := strings.HasSuffix(id, ".html")
	for ph, val := range vals {
		if isHtml {
			val = html.EscapeString(val)
		}
		res = strings.ReplaceAll(res, "{{"+ph+"}}", val)
	}
	return res
}

// Page renders an HTML snippet inside the shared page layout.
func Page(t ITexts, title, bodyId string, vals map[string]string) string {
	body := t.WithVals(bodyId, vals)
	page := t.WithVals(layoutId, map[string]string{"title": title})
	return strings.Replace(page, "{{body}}", body, 1)
}
