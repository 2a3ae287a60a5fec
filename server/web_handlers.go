package server

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ghostodon/logic"
	"ghostodon/shared"
)

const tmplPathPrefx = "www/"
const versionFileName = "version.txt"

type webHandlerGroup struct {
	cfg           *shared.Config
	logger        shared.ILogger
	sessions      logic.ISessionManager
	version       string
	timestamp     string
	pageTemplates map[string]*template.Template
}

func NewWebHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	sessions logic.ISessionManager,
) IHandlerGroup {
	res := webHandlerGroup{
		cfg:           cfg,
		logger:        logger,
		sessions:      sessions,
		timestamp:     fmt.Sprintf("%d", time.Now().UnixMilli()),
		pageTemplates: make(map[string]*template.Template),
	}
	versionBytes, _ := os.ReadFile(tmplPathPrefx + versionFileName)
	res.version = strings.TrimSpace(string(versionBytes))
	if cfg.CachePageTemplates {
		res.initTemplates()
	}
	return &res
}

func (hg *webHandlerGroup) Prefix() string {
	return "/"
}

func (hg *webHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", rootPlacholder, func(w http.ResponseWriter, r *http.Request) { hg.getRoot(w, r) }},
	}
}

func (hg *webHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return emptyMW
}

func (hg *webHandlerGroup) initTemplates() {
	mainFiles, err := filepath.Glob(tmplPathPrefx + "main-*.tmpl")
	if err != nil {
		hg.logger.Errorf("Failed to list main-*.tmpl: %v", err)
		panic(err)
	}
	for _, fn := range mainFiles {
		mainName := strings.TrimPrefix(fn, tmplPathPrefx+"main-")
		mainName = strings.TrimSuffix(mainName, ".tmpl")
		var t *template.Template
		if t, err = hg.parsePageTemplate(mainName); err != nil {
			hg.logger.Errorf("Failed to parse page template: %s: %v", fn, err)
			panic(err)
		}
		hg.pageTemplates[mainName] = t
	}
}

// Parses the shared templates plus the one main-*.tmpl that belongs to the page.
func (hg *webHandlerGroup) parsePageTemplate(mainName string) (*template.Template, error) {
	t := template.New("master")
	var err error
	var tmplFiles []string
	if tmplFiles, err = filepath.Glob(tmplPathPrefx + "*.tmpl"); err != nil {
		return nil, err
	}
	for _, fn := range tmplFiles {
		if strings.HasPrefix(fn, tmplPathPrefx+"main-") && fn != tmplPathPrefx+"main-"+mainName+".tmpl" {
			continue
		}
		if _, err = t.ParseFiles(fn); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (hg *webHandlerGroup) getPageTemplate(mainName string) (*template.Template, *baseModel, error) {
	bm := baseModel{Version: hg.version}
	if hg.cfg.CachePageTemplates {
		t, found := hg.pageTemplates[mainName]
		if !found {
			return nil, nil, fmt.Errorf("page template not found: %s", mainName)
		}
		bm.Timestamp = hg.timestamp
		return t, &bm, nil
	}
	t, err := hg.parsePageTemplate(mainName)
	if err != nil {
		return nil, nil, err
	}
	bm.Timestamp = fmt.Sprintf("%d", time.Now().UnixMilli())
	return t, &bm, nil
}

type baseModel struct {
	Timestamp string
	Version   string
	Data      any
}

type homeModel struct {
	Acct        string
	Origin      string
	Fingerprint string
}

// The UI shell. Without a session there is nothing to show, so go to the login form.
func (hg *webHandlerGroup) getRoot(w http.ResponseWriter, r *http.Request) {

	sess, ok := hg.sessions.Get()
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}

	t, model, err := hg.getPageTemplate("home")
	if err != nil {
		hg.logger.Errorf("Cannot render home page: %v", err)
		http.Error(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	model.Data = homeModel{
		Acct:        sess.Acct,
		Origin:      sess.Origin,
		Fingerprint: hg.sessions.Fingerprint(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err = t.ExecuteTemplate(w, "index.tmpl", model); err != nil {
		hg.logger.Warnf("Failed to render home page: %v", err)
	}
}
