package handlers

import (
	"net/http"
	"time"

	"home-flavours/middleware"
	"home-flavours/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/romana/rlog"
)

const pingInterval = 25 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// OrdersWS streams order events for the caller until the socket closes
func (h *Handler) OrdersWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{UserID: middleware.GetUserID(c), Conn: conn}
	h.Hub.Register(cl)
	rlog.Debugf("User %d opened an order stream (%d open)", cl.UserID, h.Hub.Connected(cl.UserID))

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := cl.Write(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Hub.Unregister(cl)
			return
		}
	}
}
