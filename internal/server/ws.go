package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/robertgvds/vision-games/internal/app"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateHandler streams game views to websocket clients. Views carrying
// events or an outcome are always sent; plain frames are rate limited.
type StateHandler struct {
	views ViewSource
	rate  float64
	log   logrus.FieldLogger
}

// NewStateHandler creates a new StateHandler sending at most perSecond
// plain views per client.
func NewStateHandler(views ViewSource, perSecond float64, log logrus.FieldLogger) *StateHandler {
	return &StateHandler{views: views, rate: perSecond, log: log}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()

	views, cancel := h.views.Subscribe()
	defer cancel()

	// The client only reads; a read error means it went away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	limiter := rate.NewLimiter(rate.Limit(h.rate), 1)
	for {
		select {
		case <-closed:
			return
		case v := <-views:
			if !v.Urgent() && !limiter.Allow() {
				continue
			}
			msg, err := json.Marshal(v)
			if err != nil {
				h.log.WithError(err).Error("encode view")
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
