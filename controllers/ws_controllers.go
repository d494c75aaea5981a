package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/novus318/resoi.server/ws"
)

// OrderFeedHandler upgrades a dashboard connection and subscribes it to the
// order event hub. The channel carries server-to-client events only; it is
// unauthenticated, matching the dashboard deployment on a trusted network.
func OrderFeedHandler(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws.ServeWS(hub, c.Writer, c.Request)
	}
}
