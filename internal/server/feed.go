package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/primal-host/primal-folio/internal/events"
	"github.com/primal-host/primal-folio/internal/logging"
	"github.com/primal-host/primal-folio/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get(echo.HeaderOrigin)
			return origin == "" || origin == s.cfg.AllowedOrigin
		},
	}
}

// handleEvents streams content changes over a WebSocket. With ?cursor=N
// the stored changes after N are replayed first, then live changes
// follow without gaps or duplicates.
func (s *Server) handleEvents(c echo.Context) error {
	var cursor int64 = -1
	if q := c.QueryParam("cursor"); q != "" {
		n, err := strconv.ParseInt(q, 10, 64)
		if err != nil || n < 0 {
			return badRequest(c, "cursor must be a non-negative integer")
		}
		cursor = n
	}

	// Register before replay so nothing falls between replay end and
	// live start.
	sub, err := s.events.Subscribe()
	if err != nil {
		return errorJSON(c, http.StatusServiceUnavailable, "Unavailable", "Change feed is shutting down")
	}
	defer sub.Cancel()

	conn, err := s.upgrader().Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Debug().Err(err).Msg("feed: upgrade failed")
		return nil
	}
	defer func() { _ = conn.Close() }()

	metrics.FeedSubscribers.Inc()
	defer metrics.FeedSubscribers.Dec()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go readFeed(conn, cancel)

	write := func(ch events.Change) error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return conn.WriteJSON(ch)
	}

	var last int64
	if cursor >= 0 {
		last = cursor
		err := s.events.Replay(ctx, cursor, func(ch events.Change) error {
			if err := write(ch); err != nil {
				return err
			}
			last = ch.Seq
			return nil
		})
		if err != nil {
			logging.Warn().Err(err).Int64("cursor", cursor).Msg("feed: replay")
			return nil
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ch := <-sub.C:
			if ch.Seq <= last {
				continue
			}
			if err := write(ch); err != nil {
				return nil
			}
			last = ch.Seq
		case <-sub.Done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "reconnect with cursor"),
				time.Now().Add(writeWait))
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		}
	}
}

// readFeed drains client frames so control messages are processed, and
// calls done once the peer goes away.
func readFeed(conn *websocket.Conn, done context.CancelFunc) {
	defer done()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Msg("feed: unexpected close")
			}
			return
		}
	}
}
