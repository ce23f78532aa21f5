package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liftco/backend/internal/model"
)

type sessionMembership interface {
	Join(ctx context.Context, caller *model.AuthUser, sessionID string) (int, error)
	Leave(ctx context.Context, caller *model.AuthUser, sessionID string) error
}

type SessionHandler struct {
	svc sessionMembership
}

func NewSessionHandler(svc sessionMembership) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Join godoc
// @Summary Join a workout session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} model.JoinSessionResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/sessions/{id}/join [post]
func (h *SessionHandler) Join(c *gin.Context) {
	sessionID := c.Param("id")
	sent, err := h.svc.Join(c.Request.Context(), GetAuthUser(c), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.JoinSessionResponse{
		Message:           "Successfully joined session",
		SessionID:         sessionID,
		NotificationsSent: sent,
	})
}

// Leave godoc
// @Summary Leave a workout session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} model.LeaveSessionResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/sessions/{id}/leave [post]
func (h *SessionHandler) Leave(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.svc.Leave(c.Request.Context(), GetAuthUser(c), sessionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.LeaveSessionResponse{
		Message:   "Successfully left session",
		SessionID: sessionID,
	})
}
