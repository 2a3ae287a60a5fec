package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"ghostodon/logic"
	"ghostodon/shared"
)

const browserWriteWait = 10 * time.Second

// Relays an instance stream of the current session to a browser WebSocket.
type streamHandlerGroup struct {
	cfg      *shared.Config
	logger   shared.ILogger
	sessions logic.ISessionManager
	clients  logic.IClientFactory
	upgrader websocket.Upgrader
}

func NewStreamHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	sessions logic.ISessionManager,
	clients logic.IClientFactory,
) IHandlerGroup {
	res := streamHandlerGroup{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		clients:  clients,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	return &res
}

func (hg *streamHandlerGroup) Prefix() string {
	return "/stream"
}

func (hg *streamHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/{stream}", func(w http.ResponseWriter, r *http.Request) { hg.getStream(w, r) }},
	}
}

func (hg *streamHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return apiKeyMW(hg.cfg, hg.logger, next)
	}
}

type streamErrorMsg struct {
	Event string    `json:"event"`
	Error errorResp `json:"error"`
}

// browserConn serializes writes; gorilla allows only one concurrent writer.
type browserConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (bc *browserConn) send(msg any) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	_ = bc.conn.SetWriteDeadline(time.Now().Add(browserWriteWait))
	return bc.conn.WriteJSON(msg)
}

func (hg *streamHandlerGroup) getStream(w http.ResponseWriter, r *http.Request) {

	name := logic.StreamName(mux.Vars(r)["stream"])
	if !name.IsKnown() {
		writeErrorResponse(w, "400 Unknown stream", http.StatusBadRequest)
		return
	}
	tag := r.URL.Query().Get("tag")
	list := r.URL.Query().Get("list")
	if (name == logic.StreamHashtag || name == logic.StreamHashtagLocal) && tag == "" {
		writeErrorResponse(w, "400 Stream needs a tag", http.StatusBadRequest)
		return
	}
	if name == logic.StreamList && list == "" {
		writeErrorResponse(w, "400 Stream needs a list", http.StatusBadRequest)
		return
	}
	sess, ok := hg.sessions.Get()
	if !ok {
		writeDomainError(hg.logger, w, r, logic.ErrNotConnected)
		return
	}

	conn, err := hg.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied
		hg.logger.Infof("Stream upgrade failed: %v", err)
		return
	}
	bc := &browserConn{conn: conn}
	defer conn.Close()

	// Detached from the request: the upgraded connection outlives the handler's view of it
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := hg.clients.ForSession(sess)
	handle := client.Stream.Open(ctx, logic.StreamArgs{
		Stream: name,
		Tag:    tag,
		List:   list,
		OnEvent: func(ev logic.StreamEvent) {
			if err := bc.send(ev); err != nil {
				hg.logger.Debugf("Dropping %s event for browser: %v", ev.Event, err)
			}
		},
		OnError: func(err error) {
			_ = bc.send(streamErrorMsg{Event: "error", Error: errorToResp(err)})
		},
	})
	defer handle.Close()
	hg.logger.Infof("Browser subscribed to stream %s", name)

	// Reading is needed to notice the browser going away
	browserGone := make(chan struct{})
	go func() {
		defer close(browserGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-browserGone:
		hg.logger.Infof("Browser left stream %s", name)
	case <-handle.Done():
		hg.logger.Infof("Instance stream %s ended", name)
		bc.mu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream ended"),
			time.Now().Add(browserWriteWait))
		bc.mu.Unlock()
	}
}
