package http

import "github.com/gin-gonic/gin"

// Register mounts every REST route on r
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Desktop state
	r.GET("/windows", h.ListWindows)
	r.GET("/frame", h.Frame)
	r.GET("/apps", h.ListApps)
	r.GET("/cognitive", h.GetCognitive)
	r.PUT("/cognitive", h.SetCognitive)
	r.PUT("/viewport", h.SetViewport)

	// Intents
	r.POST("/intents", h.DispatchIntent)
	r.POST("/commands", h.ExecuteCommand)

	// Window operations
	r.POST("/windows/:id/focus", h.FocusWindow)
	r.DELETE("/windows/:id", h.CloseWindow)
	r.POST("/windows/:id/drag/begin", h.DragBegin)
	r.POST("/windows/:id/drag/move", h.DragMove)
	r.POST("/windows/:id/drag/end", h.DragEnd)
	r.POST("/windows/:id/cards", h.SetCards)
	r.POST("/windows/:id/navigate", h.NavigateCard)

	// Renderer logs
	r.POST("/logs", h.StreamLogs)
}
