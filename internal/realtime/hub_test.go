package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presenceLog struct {
	mu     sync.Mutex
	events []bool
}

func (p *presenceLog) record(_ context.Context, _ string, online bool, _ time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, online)
}

func (p *presenceLog) snapshot() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.events...)
}

func TestPushReachesEveryConnectionOfUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := &presenceLog{}
	hub := NewHub(log.record)
	hub.Start(ctx)

	first := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	second := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	other := &Client{UserID: "u2", Send: make(chan []byte, 1)}
	hub.Register(first)
	hub.Register(second)
	hub.Register(other)

	hub.Push("u1", "bargain_received", map[string]string{"bargain_id": "b1"})

	for _, client := range []*Client{first, second} {
		select {
		case raw := <-client.Send:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, "bargain_received", event.Type)
		case <-time.After(time.Second):
			t.Fatal("expected message")
		}
	}
	assert.Empty(t, other.Send)

	hub.Unregister(first)
	assert.Eventually(t, func() bool { return hub.Online("u1") }, time.Second, 10*time.Millisecond)
	hub.Unregister(second)
	assert.Eventually(t, func() bool { return !hub.Online("u1") }, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		events := log.snapshot()
		return len(events) == 3 && events[0] && events[1] && !events[2]
	}, time.Second, 10*time.Millisecond)
}

func TestPushDropsWhenBufferFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	hub.Start(ctx)

	client := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.Online("u1") }, time.Second, 10*time.Millisecond)

	hub.Push("u1", "a", nil)
	hub.Push("u1", "b", nil)
	assert.Len(t, client.Send, 1)
}

func TestServeOverWebsocket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	hub.Start(ctx)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(NewClient(r.URL.Query().Get("user"), conn))
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?user=u9"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Online("u9") }, time.Second, 10*time.Millisecond)
	hub.Push("u9", "notification", map[string]string{"title": "hi"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, "notification", event.Type)

	conn.Close()
	assert.Eventually(t, func() bool { return !hub.Online("u9") }, 2*time.Second, 10*time.Millisecond)
}

func TestStopReportsEveryUserOffline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	log := &presenceLog{}
	hub := NewHub(log.record)
	hub.Start(ctx)

	client := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.Online("u1") }, time.Second, 10*time.Millisecond)

	cancel()

	assert.Eventually(t, func() bool {
		events := log.snapshot()
		return len(events) == 2 && events[0] && !events[1]
	}, time.Second, 10*time.Millisecond)
	assert.False(t, hub.Online("u1"))

	_, open := <-client.Send
	assert.False(t, open)
}

func TestRegisterAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(nil)
	hub.Start(ctx)
	cancel()
	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	finished := make(chan bool, 1)
	go func() {
		client := &Client{UserID: "u1", Send: make(chan []byte, 1)}
		registered := hub.Register(client)
		hub.Unregister(client)
		finished <- registered
	}()

	select {
	case registered := <-finished:
		assert.False(t, registered)
	case <-time.After(time.Second):
		t.Fatal("register blocked after the hub stopped")
	}
}
