package ws

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rizanep/waqthecombackend1/internal/notifier"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// wsChannel serializes writes to a single websocket connection. The fiber
// websocket conn is not safe for concurrent writers, and the hub may publish
// from several goroutines at once.
type wsChannel struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsChannel) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// NewNotificationHandler upgrades /ws/notifications/:userId connections and
// keeps them subscribed to the hub until the peer goes away. Inbound
// {"message": ...} frames are re-published to all of the user's connections,
// including the one that sent them.
func NewNotificationHandler(hub *notifier.Hub, logger *zap.Logger) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		rawID := conn.Params("userId")

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			logger.Warn(
				"Rejecting websocket with malformed user id",
				zap.String("user_id", rawID),
			)

			conn.Close()
			return
		}

		ctx := context.Background()
		ch := &wsChannel{conn: conn}

		if err := ch.WriteJSON(notifier.AckFrame{Username: rawID}); err != nil {
			mylogger.Warn(
				ctx,
				logger,
				"Failed to send subscribe ack",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)

			conn.Close()
			return
		}

		hub.Subscribe(userID, ch)
		defer hub.Unsubscribe(userID, ch)

		mylogger.Info(
			ctx,
			logger,
			"Websocket subscribed ✅",
			zap.Int64("user_id", userID),
		)

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				break
			}

			var frame notifier.MessageFrame
			if err := json.Unmarshal(payload, &frame); err != nil {
				mylogger.Warn(
					ctx,
					logger,
					"Ignoring malformed websocket frame",
					zap.Int64("user_id", userID),
					zap.Error(err),
				)
				continue
			}

			hub.Publish(ctx, userID, frame.Message)
		}

		mylogger.Info(
			ctx,
			logger,
			"Websocket disconnected",
			zap.Int64("user_id", userID),
		)
	}
}
