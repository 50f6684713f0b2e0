package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/warden/internal/game"
	wardennet "github.com/peterkuimelis/warden/internal/net"
)

func newTestHTTPServer(t *testing.T) *httptest.Server {
	t.Helper()
	e := game.NewEngine(game.DefaultCatalog(), game.DefaultRules(), game.NewRand(3))
	srv := httptest.NewServer(NewServer(e, nil, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleCards(t *testing.T) {
	srv := newTestHTTPServer(t)

	resp, err := http.Get(srv.URL + "/api/cards")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var info CatalogInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, []string{"Scoiattolo", "Formica", "Mostro del lago", "Trota"}, info.InitialDeck)

	groups := map[string]int{}
	var larva CardInfo
	for _, c := range info.Cards {
		groups[c.Group]++
		if c.Name == "Larva" {
			larva = c
		}
	}
	assert.Equal(t, 4, groups["boss"])
	assert.Equal(t, 3, groups["obstacle"])
	assert.Equal(t, 3, groups["token"])
	assert.Equal(t, "Scarabeo", larva.EvolvesInto)
	assert.Equal(t, []string{"EVOLUZIONE"}, larva.Sigils)
}

func TestHandleRules(t *testing.T) {
	srv := newTestHTTPServer(t)

	resp, err := http.Get(srv.URL + "/api/rules")
	require.NoError(t, err)
	defer resp.Body.Close()

	var rules game.Rules
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rules))
	assert.Equal(t, game.DefaultRules(), rules)
}

func TestWebSocketSession(t *testing.T) {
	srv := newTestHTTPServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	read := func() wardennet.ServerMessage {
		t.Helper()
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var msg wardennet.ServerMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}
	send := func(v any) {
		t.Helper()
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
	}

	snap := read()
	assert.Equal(t, "MENU", snap.State.Status)

	send(wardennet.ClientMessage{Type: wardennet.MsgStart})
	started := read()
	assert.Equal(t, "PLAYING", started.State.Status)
	assert.Equal(t, "Start Game", started.Action)

	send(wardennet.ClientMessage{Type: wardennet.MsgSkip})
	skipped := read()
	require.NotNil(t, skipped.Tick)
	assert.True(t, skipped.Tick.PlayerSkipped)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))
	assert.Equal(t, wardennet.MsgError, read().Type)

	send(wardennet.ClientMessage{Type: wardennet.MsgQuit})
	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestWebSocketConcurrentSessions(t *testing.T) {
	srv := newTestHTTPServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, _, err := websocket.Dial(ctx, url, nil)
			if !assert.NoError(t, err) {
				return
			}
			defer conn.CloseNow()

			exchange := func(msg wardennet.ClientMessage) (wardennet.ServerMessage, bool) {
				if msg.Type != "" {
					data, _ := json.Marshal(msg)
					if !assert.NoError(t, conn.Write(ctx, websocket.MessageText, data)) {
						return wardennet.ServerMessage{}, false
					}
				}
				_, data, err := conn.Read(ctx)
				if !assert.NoError(t, err) {
					return wardennet.ServerMessage{}, false
				}
				var out wardennet.ServerMessage
				return out, assert.NoError(t, json.Unmarshal(data, &out))
			}

			if _, ok := exchange(wardennet.ClientMessage{}); !ok {
				return
			}
			started, ok := exchange(wardennet.ClientMessage{Type: wardennet.MsgStart})
			if !ok {
				return
			}
			assert.Equal(t, "PLAYING", started.State.Status)
			for range 10 {
				out, ok := exchange(wardennet.ClientMessage{Type: wardennet.MsgEndTurn})
				if !ok || out.State.Status != "PLAYING" {
					return
				}
			}
		}()
	}
	wg.Wait()
}
