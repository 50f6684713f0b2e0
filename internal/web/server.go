package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/peterkuimelis/warden/internal/game"
	wardennet "github.com/peterkuimelis/warden/internal/net"
)

// Server is the warden HTTP API.
type Server struct {
	engine   *game.Engine
	narrator game.Narrator
	logger   *zap.Logger
	mux      *http.ServeMux
}

// NewServer creates a new web server. Every websocket connection plays its
// own game on engine.
func NewServer(engine *game.Engine, narrator game.Narrator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:   engine,
		narrator: narrator,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/rules", s.handleRules)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, buildCatalogInfo(s.engine.Catalog))
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Rules)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// socketPresenter forwards session output to one websocket.
type socketPresenter struct {
	conn    *websocket.Conn
	session *game.Session
}

func (p *socketPresenter) write(ctx context.Context, msg wardennet.ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.conn.Write(ctx, websocket.MessageText, data)
}

func (p *socketPresenter) Present(ctx context.Context, out game.Outcome) error {
	return p.write(ctx, wardennet.OutcomeMessage(p.session, out))
}

func (p *socketPresenter) PresentLine(ctx context.Context, line string) error {
	return p.write(ctx, wardennet.ServerMessage{Type: wardennet.MsgLine, Line: line})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()
	session := game.NewSession(s.engine.Fork(), game.SessionConfig{Narrator: s.narrator, Logger: s.logger})
	p := &socketPresenter{conn: wsConn, session: session}
	session.AddPresenter(p)

	if err := p.write(ctx, wardennet.SnapshotMessage(session)); err != nil {
		return
	}

	for {
		_, data, err := wsConn.Read(ctx)
		if err != nil {
			return
		}
		var msg wardennet.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = p.write(ctx, wardennet.ServerMessage{Type: wardennet.MsgError, Error: "malformed message"})
			continue
		}
		if msg.Type == wardennet.MsgQuit {
			wsConn.Close(websocket.StatusNormalClosure, "bye")
			return
		}
		action, err := msg.Action()
		if err != nil {
			_ = p.write(ctx, wardennet.ServerMessage{Type: wardennet.MsgError, Error: err.Error()})
			continue
		}
		session.Apply(ctx, action)
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
