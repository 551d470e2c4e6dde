package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PetrHeinz/punch-cards/internal/game"
	pcnet "github.com/PetrHeinz/punch-cards/internal/net"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	// handlers of hijacked connections may outlive the test, so no zaptest here
	s, err := NewServer("", nil)
	require.NoError(t, err)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func TestCardsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/cards")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cards []CardView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cards))
	require.Len(t, cards, len(game.AllCardTypes()))

	byType := map[string]CardView{}
	for _, c := range cards {
		byType[c.Type] = c
	}
	assert.Equal(t, "Punch card", byType["punch"].Name)
	assert.Contains(t, byType["punch"].Description, "10 damage")
}

func TestOptionsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/options")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	opts, err := game.ParseOptions(data)
	require.NoError(t, err)
	assert.Equal(t, game.DefaultOptions(), opts)
}

func TestValidateOptionsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	post := func(body string) (int, ValidationResult) {
		resp, err := http.Post(ts.URL+"/api/options/validate", "application/yaml", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		var result ValidationResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		return resp.StatusCode, result
	}

	status, result := post("seed: abc\nleft:\n  head_health: 20\n")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, result.Valid)

	status, result = post("robot:\n  actions_count: 0\n  deck_cards:\n    kick: 1\n")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, result.Valid)
	assert.GreaterOrEqual(t, len(result.Errors), 2)
	assert.Contains(t, strings.Join(result.Errors, "\n"), "kick")

	status, result = post("robot: [1, 2]\n")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, result.Valid)
}

func TestNewServerLoadsOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: from-file\n"), 0o644))

	s, err := NewServer(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-file", s.options.Seed)

	_, err = NewServer(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestWebSocketBridge(t *testing.T) {
	// fake game host: expects a join, greets, then answers one command
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	joined := make(chan pcnet.ClientMessage, 2)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		dec := json.NewDecoder(conn)
		enc := json.NewEncoder(conn)

		var join pcnet.ClientMessage
		if dec.Decode(&join) != nil {
			return
		}
		joined <- join
		enc.Encode(pcnet.ServerMessage{Type: pcnet.MsgHello, Side: "RIGHT"})

		var cmd pcnet.ClientMessage
		if dec.Decode(&cmd) != nil {
			return
		}
		joined <- cmd
		enc.Encode(pcnet.ServerMessage{Type: pcnet.MsgGameOver, Winner: "RIGHT", Result: "RIGHT robot wins"})
	}()

	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.CloseNow()

	connect, _ := json.Marshal(connectMessage{Type: "connect", Addr: ln.Addr().String(), Name: "browser"})
	require.NoError(t, ws.Write(ctx, websocket.MessageText, connect))

	join := <-joined
	assert.Equal(t, pcnet.MsgJoin, join.Type)
	assert.Equal(t, "browser", join.Name)

	var hello pcnet.ServerMessage
	_, data, err := ws.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &hello))
	assert.Equal(t, "RIGHT", hello.Side)

	commit := game.Commit()
	data, _ = json.Marshal(pcnet.ClientMessage{Type: pcnet.MsgCommand, Command: &commit})
	require.NoError(t, ws.Write(ctx, websocket.MessageText, data))

	cmd := <-joined
	require.NotNil(t, cmd.Command)
	assert.Equal(t, game.CmdCommit, cmd.Command.Kind)

	var over pcnet.ServerMessage
	_, data, err = ws.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &over))
	assert.Equal(t, pcnet.MsgGameOver, over.Type)

	// the host hung up, so the bridge closes the socket
	_, _, err = ws.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestWebSocketBridgeRejectsBadConnect(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.CloseNow()

	require.NoError(t, ws.Write(ctx, websocket.MessageText, []byte(`{"type":"hello"}`)))
	_, _, err = ws.Read(ctx)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
}
