package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/primal-host/primal-folio/internal/events"
)

// Watch streams content changes to fn until ctx is cancelled, the server
// closes the feed, or fn returns an error. A cursor >= 0 replays the
// changes after it first. Watch returns the last sequence delivered so a
// caller can reconnect without gaps.
func (c *Client) Watch(ctx context.Context, cursor int64, fn func(events.Change) error) (int64, error) {
	u := c.base + "/events"
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	if cursor >= 0 {
		u += "?cursor=" + strconv.FormatInt(cursor, 10)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			return cursor, readAPIError(resp)
		}
		return cursor, fmt.Errorf("%w (watch: %v)", ErrUnreachable, err)
	}
	defer conn.Close()

	// Unblock ReadJSON on cancel.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	last := cursor
	for {
		var ch events.Change
		if err := conn.ReadJSON(&ch); err != nil {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return last, nil
			}
			return last, fmt.Errorf("client: read feed: %w", err)
		}
		if err := fn(ch); err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return last, err
		}
		last = ch.Seq
	}
}
