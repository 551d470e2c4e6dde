// Package web serves the card catalogue and options over HTTP and bridges
// browser WebSocket clients to a TCP game host.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/game"
	pcnet "github.com/PetrHeinz/punch-cards/internal/net"
)

// CardView is the JSON representation of a card for the /api/cards endpoint.
type CardView struct {
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server is the punch-cards web bridge.
type Server struct {
	options game.Options
	diag    *zap.Logger
	mux     *http.ServeMux
}

// NewServer creates a new web server. Options come from optionsFile, or the
// defaults when it is empty.
func NewServer(optionsFile string, diag *zap.Logger) (*Server, error) {
	if diag == nil {
		diag = zap.NewNop()
	}
	opts := game.DefaultOptions()
	if optionsFile != "" {
		var err error
		opts, err = game.LoadOptions(optionsFile)
		if err != nil {
			return nil, fmt.Errorf("load options: %w", err)
		}
	}

	s := &Server{
		options: opts,
		diag:    diag,
		mux:     http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/options", s.handleOptions)
	s.mux.HandleFunc("POST /api/options/validate", s.handleValidateOptions)

	// WebSocket proxy
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	types := game.AllCardTypes()
	cards := make([]CardView, 0, len(types))
	for _, t := range types {
		c := game.MustLookupCard(t)
		cards = append(cards, CardView{
			Type:        string(c.Type),
			Icon:        c.Icon,
			Name:        c.Name,
			Description: c.Description,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

// connectMessage is the first message a browser sends on /ws.
type connectMessage struct {
	Type string `json:"type"`
	Addr string `json:"addr"`
	Name string `json:"name"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.diag.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		s.diag.Debug("websocket read connect", zap.Error(err))
		return
	}

	var connect connectMessage
	if err := json.Unmarshal(connectData, &connect); err != nil || connect.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}
	diag := s.diag.With(zap.String("addr", connect.Addr), zap.String("name", connect.Name))

	// Open TCP connection to game host
	var d net.Dialer
	tcpConn, err := d.DialContext(ctx, "tcp", connect.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(pcnet.ServerMessage{
			Type:  pcnet.MsgError,
			Error: fmt.Sprintf("Could not connect to game server at %s: %v", connect.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()
	diag.Info("bridging browser to game host")

	if err := json.NewEncoder(tcpConn).Encode(pcnet.ClientMessage{Type: pcnet.MsgJoin, Name: connect.Name}); err != nil {
		diag.Warn("tcp write join", zap.Error(err))
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil {
					diag.Warn("tcp read", zap.Error(err))
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				diag.Debug("websocket write", zap.Error(err))
				return
			}
		}
	}()

	// WebSocket → TCP (browser commands to the host)
	go func() {
		defer cancel()
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				diag.Warn("tcp write", zap.Error(err))
				return
			}
		}
	}()

	select {
	case <-done:
		wsConn.Close(websocket.StatusNormalClosure, "game ended")
	case <-ctx.Done():
	}
	diag.Info("bridge closed")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
