package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseStreamOptions(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name        string
		u           string
		want        time.Duration
		wantCompact bool
	}{
		{"default_when_missing", "/ws", time.Second, false},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond, false},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond, false},
		{"interval_too_large", "/ws?interval=20s", time.Second, false},
		{"interval_too_small", "/ws?interval=1ms", time.Second, false},
		{"interval_ms_too_large", "/ws?interval_ms=20000", time.Second, false},
		{"interval_invalid_string", "/ws?interval=bogus", time.Second, false},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second, false},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond, false},
		{"compact", "/ws?compact=true", time.Second, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			got := h.parseStreamOptions(c)
			if got.interval != tc.want || got.compact != tc.wantCompact {
				t.Fatalf("got %+v, want interval=%v compact=%v for %s", got, tc.want, tc.wantCompact, tc.u)
			}
		})
	}
}

func dialStream(t *testing.T, s *service.Service, query url.Values) *websocket.Conn {
	t.Helper()
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.streamKitchen)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func sampleState() models.KitchenState {
	return models.KitchenState{
		Containers: []models.ContainerState{{
			Location: models.Heater,
			Capacity: 6,
			Size:     1,
			Orders: []models.StoredOrderView{{
				Order:    models.Order{ID: "a1", Temp: models.Hot, Freshness: 120},
				Location: models.Heater,
			}},
		}},
	}
}

func TestWebSocket_StateStream_InitialAndPeriodic(t *testing.T) {
	conn := dialStream(t, &service.Service{Monitoring: &mockMonitoring{state: sampleState()}},
		url.Values{"interval_ms": {"60"}})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != msgKitchenState || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var st models.KitchenState
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if len(st.Containers) != 1 || st.Containers[0].Orders[0].Order.ID != "a1" {
		t.Fatalf("unexpected state: %+v", st)
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != msgKitchenState {
		t.Fatalf("expected type=%s, got %+v", msgKitchenState, env)
	}
}

func TestWebSocket_CompactDropsOrders(t *testing.T) {
	conn := dialStream(t, &service.Service{Monitoring: &mockMonitoring{state: sampleState()}},
		url.Values{"compact": {"1"}})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	var st models.KitchenState
	_ = json.Unmarshal(env.Data, &st)
	if len(st.Containers) != 1 || st.Containers[0].Size != 1 || len(st.Containers[0].Orders) != 0 {
		t.Fatalf("compact state should keep sizes only: %+v", st)
	}
}

func TestWebSocket_InitialGetStateError_Closes(t *testing.T) {
	conn := dialStream(t, &service.Service{Monitoring: &mockMonitoring{err: errors.New("boom")}}, nil)

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
