package webui

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/julienschmidt/httprouter"

	"stoplens.dev/internal/app"
	"stoplens.dev/internal/session"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

var dataTypes = []string{"config", "fleet", "stops", "stop_sessions", "route_sessions"}

// WebUI serves a plain debug page that dumps the in-memory state.
type WebUI struct {
	*app.Application
}

func New(app *app.Application) *WebUI {
	return &WebUI{Application: app}
}

func (webUI *WebUI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}

// sessionInfo is the debug view of one open session.
type sessionInfo struct {
	Key        string
	State      string
	Refreshing bool
	UpdatedAt  time.Time
	LastError  string
	UI         session.State
}

func describeSessions[V any](m *session.Manager[V]) []sessionInfo {
	keys := m.Keys()
	out := make([]sessionInfo, 0, len(keys))
	for _, key := range keys {
		s, ok := m.Get(key)
		if !ok {
			continue
		}
		info := sessionInfo{
			Key:        key,
			State:      s.Controller.State(),
			Refreshing: s.Controller.Refreshing(),
			UpdatedAt:  s.Controller.UpdatedAt(),
			UI:         s.State(),
		}
		if err := s.Controller.LastError(); err != nil {
			info.LastError = err.Error()
		}
		out = append(out, info)
	}
	return out
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       dumper.Sdump(data),
		DataTypes: dataTypes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	var data interface{}
	var title string

	switch r.URL.Query().Get("dataType") {
	case "config":
		data = webUI.Config
		title = "Configuration"
	case "fleet":
		data = webUI.Fleet.Ranges()
		title = "Fleet table"
	case "stops":
		data = webUI.Stops.Records()
		title = "Stop table"
	case "stop_sessions":
		data = describeSessions(webUI.StopSessions)
		title = "Stop screen sessions"
	case "route_sessions":
		data = describeSessions(webUI.RouteSessions)
		title = "Route screen sessions"
	default:
		data = map[string]string{
			"error": "Please use one of the following: config, fleet, stops, stop_sessions, route_sessions.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
