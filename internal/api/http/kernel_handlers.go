package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/utils"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/vecmath"
)

// windowID reads and validates the :id path parameter
func windowID(c *gin.Context) (id.WindowID, bool) {
	raw := c.Param("id")
	if err := utils.ValidateID(raw, "window_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return id.WindowID(raw), true
}

// FocusWindow raises a window and makes it active
func (h *Handlers) FocusWindow(c *gin.Context) {
	wid, ok := windowID(c)
	if !ok {
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	if err := h.guarded(func() error { return h.runtime.Focus(ctx, wid) }); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"window_id": wid,
	})
}

// CloseWindow removes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	wid, ok := windowID(c)
	if !ok {
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	if err := h.guarded(func() error { return h.runtime.Close(ctx, wid) }); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"window_id": wid,
	})
}

func bindPointer(c *gin.Context) (types.PointerRequest, bool) {
	var req types.PointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return req, false
	}
	return req, true
}

// DragBegin grabs a window at the pointer position
func (h *Handlers) DragBegin(c *gin.Context) {
	wid, ok := windowID(c)
	if !ok {
		return
	}
	req, ok := bindPointer(c)
	if !ok {
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	if err := h.guarded(func() error { return h.runtime.PointerDown(ctx, wid, req.X, req.Y) }); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"window_id": wid,
	})
}

// DragMove moves a grabbed window under the pointer
func (h *Handlers) DragMove(c *gin.Context) {
	wid, ok := windowID(c)
	if !ok {
		return
	}
	req, ok := bindPointer(c)
	if !ok {
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	if err := h.guarded(func() error { return h.runtime.PointerMove(ctx, wid, req.X, req.Y) }); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"window_id": wid,
	})
}

// DragEnd releases a window and returns the target it settles on
func (h *Handlers) DragEnd(c *gin.Context) {
	wid, ok := windowID(c)
	if !ok {
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	target, err := guardedCall(h, func() (vecmath.Vec2, error) {
		return h.runtime.PointerUp(ctx, wid)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"window_id": wid,
		"target":    target,
	})
}

// SetCards declares how many cards a window's application shows
func (h *Handlers) SetCards(c *gin.Context) {
	wid, ok := windowID(c)
	if !ok {
		return
	}
	var req types.CardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	if err := h.guarded(func() error { return h.runtime.SetTotalCards(ctx, wid, req.Total) }); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"window_id":   wid,
		"total_cards": req.Total,
	})
}

// NavigateCard moves a window's card pointer by direction or to an index
func (h *Handlers) NavigateCard(c *gin.Context) {
	wid, ok := windowID(c)
	if !ok {
		return
	}
	var req types.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	dir := intent.Direction(req.Direction)
	if req.Index == nil && dir != intent.Next && dir != intent.Prev {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be next or prev, or index must be set"})
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	index, err := guardedCall(h, func() (int, error) {
		return h.runtime.NavigateCard(ctx, wid, dir, req.Index)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"window_id":          wid,
		"current_card_index": index,
	})
}
