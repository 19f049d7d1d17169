// internal/interfaces/http/handlers/stream.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const streamKeepAlive = 15 * time.Second

// streamEvents writes initial and then every update as server-sent events
// until the client goes away or updates is closed
func streamEvents[T any](c *gin.Context, event string, initial interface{}, updates <-chan T, render func(T) interface{}) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent(event, initial)
	c.Writer.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case v, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent(event, render(v))
			c.Writer.Flush()
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}
