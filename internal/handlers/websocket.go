package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"delivery_kitchen/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12

	defaultInterval = time.Second
	minInterval     = 50 * time.Millisecond
	maxInterval     = 10 * time.Second

	msgKitchenState = "kitchen_state"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamOptions are read from the query string before upgrading.
type streamOptions struct {
	interval time.Duration
	compact  bool // occupancy only, no per-order detail
}

// @Summary      Stream kitchen state
// @Description  WebSocket. Sends a kitchen_state message on connect and then every interval (?interval=2s or ?interval_ms=2000, 50ms..10s). ?compact=true drops per-order detail.
// @Tags         kitchen
// @Router       /ws [get]
func (h *Handler) streamKitchen(c *gin.Context) {
	opts := h.parseStreamOptions(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.drain(conn, done)

	ctx := c.Request.Context()
	if err := h.pushState(ctx, conn, opts.compact); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	ticker := time.NewTicker(opts.interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.pushState(ctx, conn, opts.compact); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseStreamOptions reads ?interval=2s or ?interval_ms=2000 (interval wins
// when both are valid) and ?compact. Out-of-range values fall back to the
// default.
func (h *Handler) parseStreamOptions(c *gin.Context) streamOptions {
	opts := streamOptions{interval: defaultInterval}
	opts.compact, _ = strconv.ParseBool(c.Query("compact"))

	inRange := func(d time.Duration) bool { return d >= minInterval && d <= maxInterval }

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && inRange(d) {
			opts.interval = d
			return opts
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && inRange(time.Duration(v)*time.Millisecond) {
			opts.interval = time.Duration(v) * time.Millisecond
		}
	}
	return opts
}

// drain reads until the peer goes away so control frames are processed.
func (h *Handler) drain(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func (h *Handler) pushState(ctx context.Context, conn *websocket.Conn, compact bool) error {
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_state_failed", "err", err)
		}
		return err
	}
	if compact {
		st = compactState(st)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: msgKitchenState, Data: st})
}

func compactState(st models.KitchenState) models.KitchenState {
	out := st
	out.Containers = make([]models.ContainerState, len(st.Containers))
	for i, cs := range st.Containers {
		cs.Orders = nil
		out.Containers[i] = cs
	}
	return out
}
