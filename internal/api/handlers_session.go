// handlers_session.go - Session retrieval and keep-alive handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// HandleGetSession returns the current state of a layout session.
func (h *Handler) HandleGetSession(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	sess, ok := h.sessions.Get(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, sess)
}

// HandleGetSessionMsgpack returns the session in MessagePack format.
// MessagePack is noticeably smaller than JSON for object-heavy layouts.
func (h *Handler) HandleGetSessionMsgpack(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	sess, ok := h.sessions.Get(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	data, err := msgpack.Marshal(map[string]interface{}{
		"id":              sess.ID,
		"status":          sess.Status,
		"room_dimensions": sess.RoomDimensions,
		"objects":         sess.Objects,
		"last_score":      sess.LastScore,
		"iterations":      sess.Iterations,
		"created_at":      sess.CreatedAt,
	})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleSessionKeepAlive extends session lifetime for active viewing
func (h *Handler) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if ok := h.sessions.TouchSession(id); !ok {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}
